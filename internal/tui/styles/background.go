package styles

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Matches SGR background color sequences: 16-color (40-47, 100-107),
// 256-color (48;5;n) and truecolor (48;2;r;g;b).
var backgroundSeqRe = regexp.MustCompile(`\x1b\[(?:(?:4[0-7]|10[0-7])|48;5;\d{1,3}|48;2;\d{1,3};\d{1,3};\d{1,3})m`)

// ForceReplaceBackgroundWithLipgloss strips any background color escapes
// already present in rendered content and re-applies the given background to
// every line. Needed when compositing pre-rendered content (glamour output,
// overlays) onto a themed surface.
func ForceReplaceBackgroundWithLipgloss(input string, bg lipgloss.TerminalColor) string {
	style := lipgloss.NewStyle().Background(bg)
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		cleaned := backgroundSeqRe.ReplaceAllString(line, "")
		lines[i] = style.Render(cleaned)
	}
	return strings.Join(lines, "\n")
}
