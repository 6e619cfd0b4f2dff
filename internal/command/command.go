// Package command holds the slash-command registry and the candidate
// filter behind the suggestion popup.
package command

import (
	"fmt"
	"strings"

	"github.com/notedown-sh/notedown/internal/document"
)

// MaxCandidates bounds every filter result so the popup height and the
// keystroke-to-render latency stay fixed.
const MaxCandidates = 10

// Surface is the narrow boundary commands edit through. The block editor
// implements it; commands never reach into editor internals.
type Surface interface {
	// DeleteRange removes a rune range from the current block's text and
	// moves the caret to the start of the removed range.
	DeleteRange(r document.Range)
	// SetBlockType restyles the current block in place.
	SetBlockType(t document.BlockType, level int)
	// InsertBlockAfter inserts a new block after the current one and moves
	// focus into it.
	InsertBlockAfter(b document.Block)
}

// Command is one entry in the registry. Apply is side-effecting and must
// first delete the trigger range from the surface, then perform its own
// structural edit.
type Command struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Apply       func(s Surface, r document.Range)
}

// Registry is an ordered, immutable-after-startup command list.
type Registry struct {
	commands []Command
	titles   map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{titles: make(map[string]struct{})}
}

// Register validates and appends a command. Malformed entries are rejected
// here so a commit can never hit a nil Apply.
func (r *Registry) Register(c Command) error {
	if c.Title == "" {
		return fmt.Errorf("command %q: empty title", c.ID)
	}
	if c.Apply == nil {
		return fmt.Errorf("command %q: nil apply", c.Title)
	}
	key := strings.ToLower(c.Title)
	if _, dup := r.titles[key]; dup {
		return fmt.Errorf("command %q: duplicate title", c.Title)
	}
	r.titles[key] = struct{}{}
	r.commands = append(r.commands, c)
	return nil
}

// MustRegister is Register for the built-in table; a bad built-in is a
// programming error.
func (r *Registry) MustRegister(c Command) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Commands returns the registry in registration order.
func (r *Registry) Commands() []Command {
	return r.commands
}

// Filter returns the commands matching query, in registry order, capped at
// MaxCandidates. A command matches when its title starts with the query or
// its description contains it, both case-insensitive. The empty query
// matches everything.
func Filter(registry *Registry, query string) []Command {
	q := strings.ToLower(query)
	var out []Command
	for _, c := range registry.commands {
		if len(out) == MaxCandidates {
			break
		}
		if q == "" ||
			strings.HasPrefix(strings.ToLower(c.Title), q) ||
			strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c)
		}
	}
	return out
}
