package dialog

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedown-sh/notedown/internal/command"
	"github.com/notedown-sh/notedown/internal/document"
)

func init() {
	zone.NewGlobal()
}

func noop(command.Surface, document.Range) {}

func scenarioRegistry(t *testing.T) *command.Registry {
	t.Helper()
	r := command.NewRegistry()
	for _, c := range []command.Command{
		{ID: "paragraph", Title: "Paragraph", Description: "Plain body text", Apply: noop},
		{ID: "heading1", Title: "Heading 1", Description: "Large section heading", Apply: noop},
		{ID: "heading2", Title: "Heading 2", Description: "Medium section heading", Apply: noop},
		{ID: "heading3", Title: "Heading 3", Description: "Small section heading", Apply: noop},
		{ID: "bullet", Title: "Bullet List", Description: "Unordered list item", Apply: noop},
		{ID: "ordered", Title: "Ordered List", Description: "Numbered list item", Apply: noop},
	} {
		require.NoError(t, r.Register(c))
	}
	return r
}

func openDialog(t *testing.T, query string) *suggestDialogCmp {
	t.Helper()
	d := NewSuggestDialog(scenarioRegistry(t)).(*suggestDialogCmp)
	d.Update(ShowSuggestionsMsg{
		Query:  query,
		Range:  document.Range{Start: 0, End: 1 + len(query)},
		Anchor: Anchor{X: 0, Y: 0},
	})
	return d
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func titles(cs []command.Command) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Title
	}
	return out
}

func TestShowListsEverythingOnEmptyQuery(t *testing.T) {
	t.Parallel()

	d := openDialog(t, "")
	assert.True(t, d.IsOpen())
	assert.Equal(t, []string{
		"Paragraph", "Heading 1", "Heading 2", "Heading 3",
		"Bullet List", "Ordered List",
	}, titles(d.candidates))
	assert.Equal(t, 0, d.selectedIdx)
}

func TestFilterNarrowsAndResetsHighlight(t *testing.T) {
	t.Parallel()

	d := openDialog(t, "")
	d.Update(keyMsg(tea.KeyDown))
	d.Update(keyMsg(tea.KeyDown))
	require.Equal(t, 2, d.selectedIdx)

	d.Update(FilterSuggestionsMsg{Query: "h", Range: document.Range{Start: 0, End: 2}})
	assert.Equal(t, []string{"Heading 1", "Heading 2", "Heading 3"}, titles(d.candidates))
	assert.Equal(t, 0, d.selectedIdx, "highlight resets on every query change")
}

func TestNavigationWrapsBothWays(t *testing.T) {
	t.Parallel()

	d := openDialog(t, "h")
	require.Len(t, d.candidates, 3)

	d.Update(keyMsg(tea.KeyUp))
	assert.Equal(t, 2, d.selectedIdx, "up from the top wraps to the bottom")

	d.Update(keyMsg(tea.KeyDown))
	assert.Equal(t, 0, d.selectedIdx, "down from the bottom wraps to the top")
}

func TestScenarioCommitsHeadingThree(t *testing.T) {
	t.Parallel()

	d := openDialog(t, "h")
	d.Update(keyMsg(tea.KeyDown))
	d.Update(keyMsg(tea.KeyDown))

	_, cmd := d.Update(keyMsg(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg, ok := cmd().(CommandSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "Heading 3", msg.Command.Title)
	assert.Equal(t, document.Range{Start: 0, End: 2}, msg.Range)
	assert.False(t, d.IsOpen(), "commit destroys the popup")
}

func TestEmptyCandidatesStayOpenAndEnterIsNoop(t *testing.T) {
	t.Parallel()

	d := openDialog(t, "xyz")
	require.Empty(t, d.candidates)
	assert.True(t, d.IsOpen(), "no matches keeps the session alive")
	assert.Empty(t, d.View(), "no matches renders nothing")

	_, cmd := d.Update(keyMsg(tea.KeyEnter))
	assert.Nil(t, cmd, "enter on an empty list is a consumed no-op")
	assert.True(t, d.IsOpen())

	d.Update(FilterSuggestionsMsg{Query: "h", Range: document.Range{Start: 0, End: 2}})
	assert.Len(t, d.candidates, 3, "a later query change can repopulate the list")
}

func TestEscapeClosesWithoutCommit(t *testing.T) {
	t.Parallel()

	d := openDialog(t, "h")
	_, cmd := d.Update(keyMsg(tea.KeyEsc))
	assert.Nil(t, cmd)
	assert.False(t, d.IsOpen())
}

func TestCloseMsgDestroysSession(t *testing.T) {
	t.Parallel()

	d := openDialog(t, "")
	d.Update(CloseSuggestionsMsg{})
	assert.False(t, d.IsOpen())
	assert.Empty(t, d.candidates)
}

func TestReopenReplacesExistingSession(t *testing.T) {
	t.Parallel()

	d := openDialog(t, "h")
	d.Update(keyMsg(tea.KeyDown))
	require.Equal(t, 1, d.selectedIdx)

	d.Update(ShowSuggestionsMsg{Query: "", Range: document.Range{Start: 4, End: 5}})
	assert.True(t, d.IsOpen())
	assert.Equal(t, 0, d.selectedIdx)
	assert.Len(t, d.candidates, 6)
	assert.Equal(t, document.Range{Start: 4, End: 5}, d.rng)
}

func TestFilterIgnoredWhileClosed(t *testing.T) {
	t.Parallel()

	d := NewSuggestDialog(scenarioRegistry(t)).(*suggestDialogCmp)
	d.Update(FilterSuggestionsMsg{Query: "h"})
	assert.False(t, d.IsOpen())
	assert.Empty(t, d.candidates)
}

func TestViewHighlightsSelection(t *testing.T) {
	t.Parallel()

	d := openDialog(t, "h")
	view := d.View()
	assert.Contains(t, view, "Heading 1")
	assert.Contains(t, view, "Heading 3")
}
