package format

import (
	"strings"
	"testing"
)

func TestOutputFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format OutputFormat
		want   bool
	}{
		{
			name:   "markdown format",
			format: MarkdownFormat,
			want:   true,
		},
		{
			name:   "text format",
			format: TextFormat,
			want:   true,
		},
		{
			name:   "terminal format",
			format: TerminalFormat,
			want:   true,
		},
		{
			name:   "json format",
			format: JSONFormat,
			want:   true,
		},
		{
			name:   "html format",
			format: HTMLFormat,
			want:   true,
		},
		{
			name:   "invalid format",
			format: "invalid",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.format.IsValid(); got != tt.want {
				t.Errorf("OutputFormat.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatNote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		title        string
		body         string
		format       OutputFormat
		want         string
		wantContains string
		wantErr      bool
	}{
		{
			name:   "markdown passthrough",
			title:  "Todo",
			body:   "# Todo\n\n- buy milk\n",
			format: MarkdownFormat,
			want:   "# Todo\n\n- buy milk\n",
		},
		{
			name:   "json format",
			title:  "Todo",
			body:   "body text",
			format: JSONFormat,
			want:   "{\n  \"body\": \"body text\",\n  \"title\": \"Todo\"\n}",
		},
		{
			name:         "html format",
			title:        "Todo",
			body:         "# Todo\n",
			format:       HTMLFormat,
			wantContains: "<h1>Todo</h1>",
		},
		{
			name:         "text format strips markdown syntax",
			title:        "Todo",
			body:         "# Todo\n",
			format:       TextFormat,
			wantContains: "Todo",
		},
		{
			name:    "invalid format",
			body:    "test content",
			format:  "invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FormatNote(tt.title, tt.body, tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("FormatNote() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.want != "" && got != tt.want {
				t.Errorf("FormatNote() = %q, want %q", got, tt.want)
			}
			if tt.wantContains != "" && !strings.Contains(got, tt.wantContains) {
				t.Errorf("FormatNote() = %q, want substring %q", got, tt.wantContains)
			}
		})
	}
}
