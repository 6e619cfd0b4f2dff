package assist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedown-sh/notedown/internal/config"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	body := "# Plan\n\n- step one\n"

	tests := []struct {
		task         Task
		wantContains string
	}{
		{TaskSummarize, "Summarize"},
		{TaskImprove, "Rewrite"},
		{TaskContinue, "Continue writing"},
		{TaskTitle, "short title"},
	}

	for _, tt := range tests {
		t.Run(string(tt.task), func(t *testing.T) {
			t.Parallel()
			got, err := buildPrompt(tt.task, body)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantContains)
			assert.True(t, strings.HasSuffix(got, body), "prompt should end with the note body")
		})
	}

	_, err := buildPrompt("translate", body)
	assert.Error(t, err)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := New(config.AssistConfig{Provider: "cohere"})
	assert.Error(t, err)
}

func TestNewDefaultsToOpenAI(t *testing.T) {
	t.Parallel()

	p, err := New(config.AssistConfig{APIKey: "test-key"})
	require.NoError(t, err)
	assert.IsType(t, &openaiProvider{}, p)
}
