package revision

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineRemoved
)

// Segment marks a byte range within a line that changed, for intraline
// highlighting.
type Segment struct {
	Start int
	End   int
	Type  LineType
	Text  string
}

type DiffLine struct {
	OldLineNo int // 0 for added lines
	NewLineNo int // 0 for removed lines
	Kind      LineType
	Content   string
	Segments  []Segment
}

type Hunk struct {
	Header string
	Lines  []DiffLine
}

type DiffResult struct {
	OldLabel string
	NewLabel string
	Hunks    []Hunk
}

// Unified renders the difference between two revision bodies in unified diff
// format.
func Unified(oldLabel, newLabel, before, after string) string {
	return udiff.Unified(oldLabel, newLabel, before, after)
}

// Diff computes a structured diff between two revision bodies, including
// intraline change segments for paired removed/added lines.
func Diff(oldLabel, newLabel, before, after string) (DiffResult, error) {
	result, err := ParseUnifiedDiff(Unified(oldLabel, newLabel, before, after))
	if err != nil {
		return DiffResult{}, err
	}
	for i := range result.Hunks {
		highlightIntralineChanges(&result.Hunks[i])
	}
	return result, nil
}

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+),?(\d*) \+(\d+),?(\d*) @@`)

// ParseUnifiedDiff parses a unified diff string into hunks and typed lines.
func ParseUnifiedDiff(diff string) (DiffResult, error) {
	var result DiffResult
	var currentHunk *Hunk

	var oldLine, newLine int
	inFileHeader := true

	for _, line := range strings.Split(diff, "\n") {
		if inFileHeader {
			if rest, ok := strings.CutPrefix(line, "--- "); ok {
				result.OldLabel = rest
				continue
			}
			if rest, ok := strings.CutPrefix(line, "+++ "); ok {
				result.NewLabel = rest
				inFileHeader = false
				continue
			}
		}

		if matches := hunkHeaderRe.FindStringSubmatch(line); matches != nil {
			if currentHunk != nil {
				result.Hunks = append(result.Hunks, *currentHunk)
			}
			currentHunk = &Hunk{Header: line}
			oldLine, _ = strconv.Atoi(matches[1])
			newLine, _ = strconv.Atoi(matches[3])
			continue
		}

		if strings.HasPrefix(line, "\\ No newline at end of file") {
			continue
		}
		if currentHunk == nil {
			continue
		}

		if len(line) > 0 {
			switch line[0] {
			case '+':
				currentHunk.Lines = append(currentHunk.Lines, DiffLine{
					NewLineNo: newLine,
					Kind:      LineAdded,
					Content:   line[1:],
				})
				newLine++
			case '-':
				currentHunk.Lines = append(currentHunk.Lines, DiffLine{
					OldLineNo: oldLine,
					Kind:      LineRemoved,
					Content:   line[1:],
				})
				oldLine++
			default:
				currentHunk.Lines = append(currentHunk.Lines, DiffLine{
					OldLineNo: oldLine,
					NewLineNo: newLine,
					Kind:      LineContext,
					Content:   line,
				})
				oldLine++
				newLine++
			}
		} else {
			currentHunk.Lines = append(currentHunk.Lines, DiffLine{
				OldLineNo: oldLine,
				NewLineNo: newLine,
				Kind:      LineContext,
			})
			oldLine++
			newLine++
		}
	}

	if currentHunk != nil {
		result.Hunks = append(result.Hunks, *currentHunk)
	}
	return result, nil
}

// highlightIntralineChanges attaches character-level change segments to
// removed lines immediately followed by an added line.
func highlightIntralineChanges(h *Hunk) {
	dmp := diffmatchpatch.New()

	for i := 0; i+1 < len(h.Lines); i++ {
		if h.Lines[i].Kind != LineRemoved || h.Lines[i+1].Kind != LineAdded {
			continue
		}

		diffs := dmp.DiffMain(h.Lines[i].Content, h.Lines[i+1].Content, false)
		diffs = dmp.DiffCleanupSemantic(diffs)
		diffs = dmp.DiffCleanupMerge(diffs)
		diffs = dmp.DiffCleanupEfficiency(diffs)

		var segments []Segment
		removeStart, addStart := 0, 0
		for _, d := range diffs {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				segments = append(segments, Segment{
					Start: removeStart,
					End:   removeStart + len(d.Text),
					Type:  LineRemoved,
					Text:  d.Text,
				})
				removeStart += len(d.Text)
			case diffmatchpatch.DiffInsert:
				segments = append(segments, Segment{
					Start: addStart,
					End:   addStart + len(d.Text),
					Type:  LineAdded,
					Text:  d.Text,
				})
				addStart += len(d.Text)
			default:
				removeStart += len(d.Text)
				addStart += len(d.Text)
			}
		}
		h.Lines[i].Segments = segments
		h.Lines[i+1].Segments = segments
		i++
	}
}
