package command

import (
	"testing"

	"github.com/notedown-sh/notedown/internal/document"
)

func noop(Surface, document.Range) {}

func registryOf(titles ...string) *Registry {
	r := NewRegistry()
	for _, t := range titles {
		r.MustRegister(Command{ID: t, Title: t, Apply: noop})
	}
	return r
}

func titles(cmds []Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Title
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	t.Parallel()

	reg := registryOf("Paragraph", "Heading 1", "Heading 2", "Heading 3", "Bullet List", "Ordered List")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "empty query matches everything in order",
			query: "",
			want:  []string{"Paragraph", "Heading 1", "Heading 2", "Heading 3", "Bullet List", "Ordered List"},
		},
		{
			name:  "case-insensitive title prefix",
			query: "h",
			want:  []string{"Heading 1", "Heading 2", "Heading 3"},
		},
		{
			name:  "uppercase query",
			query: "HEAD",
			want:  []string{"Heading 1", "Heading 2", "Heading 3"},
		},
		{
			name:  "no match",
			query: "xyz",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := titles(Filter(reg, tt.query))
			if !equal(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterMatchesDescriptionSubstring(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.MustRegister(Command{Title: "Divider", Description: "Horizontal rule", Apply: noop})
	r.MustRegister(Command{Title: "Image", Description: "Image from a file path", Apply: noop})

	got := titles(Filter(r, "rule"))
	if !equal(got, []string{"Divider"}) {
		t.Errorf("Filter(\"rule\") = %v, want [Divider]", got)
	}
}

// Title prefix and description substring are the whole match rule; there
// is no shorthand matching on top of it.
func TestFilterMatchesNothingElse(t *testing.T) {
	t.Parallel()

	got := titles(Filter(Builtin(), "h1"))
	if len(got) != 0 {
		t.Errorf("Filter(\"h1\") = %v, want []", got)
	}
}

func TestFilterCap(t *testing.T) {
	t.Parallel()

	names := make([]string, 0, 25)
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o"} {
		names = append(names, "Block "+s)
	}
	reg := registryOf(names...)

	got := Filter(reg, "")
	if len(got) != MaxCandidates {
		t.Fatalf("Filter with empty query returned %d candidates, want %d", len(got), MaxCandidates)
	}
	if !equal(titles(got), names[:MaxCandidates]) {
		t.Errorf("capped result not a prefix of registry order: %v", titles(got))
	}
}

func TestRegisterRejectsMalformedEntries(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(Command{Title: "No Apply"}); err == nil {
		t.Error("expected error for nil Apply")
	}
	if err := r.Register(Command{Apply: noop}); err == nil {
		t.Error("expected error for empty title")
	}
	if err := r.Register(Command{Title: "Dup", Apply: noop}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(Command{Title: "dup", Apply: noop}); err == nil {
		t.Error("expected error for duplicate title")
	}
}

func TestBuiltinRegistryOrder(t *testing.T) {
	t.Parallel()

	reg := Builtin()
	got := titles(reg.Commands())
	wantPrefix := []string{"Paragraph", "Heading 1", "Heading 2", "Heading 3", "Bullet List", "Ordered List"}
	if len(got) < len(wantPrefix) {
		t.Fatalf("built-in registry too small: %v", got)
	}
	if !equal(got[:len(wantPrefix)], wantPrefix) {
		t.Errorf("built-in registry order = %v, want prefix %v", got[:len(wantPrefix)], wantPrefix)
	}
}
