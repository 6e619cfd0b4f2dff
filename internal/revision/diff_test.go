package revision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnifiedDiff(t *testing.T) {
	t.Parallel()

	diff := `--- notes/todo.md (v1)
+++ notes/todo.md (v2)
@@ -1,3 +1,3 @@
 # Todo
-buy milk
+buy oat milk
 call mom
`

	result, err := ParseUnifiedDiff(diff)
	require.NoError(t, err)

	assert.Equal(t, "notes/todo.md (v1)", result.OldLabel)
	assert.Equal(t, "notes/todo.md (v2)", result.NewLabel)
	require.Len(t, result.Hunks, 1)

	lines := result.Hunks[0].Lines
	require.Len(t, lines, 4)
	assert.Equal(t, LineContext, lines[0].Kind)
	assert.Equal(t, LineRemoved, lines[1].Kind)
	assert.Equal(t, "buy milk", lines[1].Content)
	assert.Equal(t, 2, lines[1].OldLineNo)
	assert.Equal(t, LineAdded, lines[2].Kind)
	assert.Equal(t, "buy oat milk", lines[2].Content)
	assert.Equal(t, 2, lines[2].NewLineNo)
	assert.Equal(t, LineContext, lines[3].Kind)
}

func TestDiffIntralineSegments(t *testing.T) {
	t.Parallel()

	result, err := Diff("before", "after", "buy milk\n", "buy oat milk\n")
	require.NoError(t, err)
	require.Len(t, result.Hunks, 1)

	var removed, added *DiffLine
	for i := range result.Hunks[0].Lines {
		line := &result.Hunks[0].Lines[i]
		switch line.Kind {
		case LineRemoved:
			removed = line
		case LineAdded:
			added = line
		}
	}
	require.NotNil(t, removed)
	require.NotNil(t, added)

	// The change is an insertion, so both paired lines carry an added
	// segment covering the inserted text.
	require.NotEmpty(t, added.Segments)
	found := false
	for _, seg := range added.Segments {
		if seg.Type == LineAdded && seg.Text == "oat " {
			found = true
		}
	}
	assert.True(t, found, "expected an added segment for %q, got %+v", "oat ", added.Segments)
}

func TestDiffIdenticalBodies(t *testing.T) {
	t.Parallel()

	result, err := Diff("a", "b", "same\n", "same\n")
	require.NoError(t, err)
	assert.Empty(t, result.Hunks)
}
