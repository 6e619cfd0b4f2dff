package page

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedown-sh/notedown/internal/document"
	"github.com/notedown-sh/notedown/internal/tui/image"
	"github.com/notedown-sh/notedown/internal/tui/layout"
	"github.com/notedown-sh/notedown/internal/tui/styles"
	"github.com/notedown-sh/notedown/internal/tui/theme"
)

var PreviewPage PageID = "preview"

const previewImageWidth = 40

// PreviewContentMsg feeds the preview page the markdown to render.
type PreviewContentMsg struct {
	Title      string
	Body       string
	WorkingDir string
}

type PreviewPageCmp interface {
	tea.Model
	layout.Sizeable
	layout.Bindings
}

type previewPage struct {
	width, height int

	title      string
	body       string
	workingDir string
	viewport   viewport.Model
}

func (p *previewPage) Init() tea.Cmd {
	return nil
}

func (p *previewPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return p, p.SetSize(msg.Width, msg.Height)
	case PreviewContentMsg:
		p.title = msg.Title
		p.body = msg.Body
		p.workingDir = msg.WorkingDir
		p.renderContent()
		return p, nil
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *previewPage) renderContent() {
	if p.width <= 0 {
		return
	}

	renderer := styles.GetMarkdownRenderer(p.width - 2)
	rendered, err := renderer.Render(p.body)
	if err != nil {
		rendered = p.body
	}

	// Glamour leaves image blocks as plain links; thumbnails go below.
	var thumbs []string
	doc := document.ParseMarkdown([]byte(p.body))
	for _, b := range doc.Blocks {
		if b.Type != document.Image || b.Path == "" {
			continue
		}
		path := b.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.workingDir, path)
		}
		if oversized, err := image.ValidateFileSize(path, 5*1024*1024); err != nil || oversized {
			continue
		}
		thumb, err := image.ImagePreview(previewImageWidth, path)
		if err != nil {
			continue
		}
		thumbs = append(thumbs, thumb)
	}

	content := rendered
	if len(thumbs) > 0 {
		content += "\n" + strings.Join(thumbs, "\n")
	}

	p.viewport.SetContent(content)
	p.viewport.GotoTop()
}

func (p *previewPage) View() string {
	t := theme.CurrentTheme()
	header := styles.Bold().Render(" "+p.title) +
		styles.Muted().Render("  esc to go back")

	return styles.ForceReplaceBackgroundWithLipgloss(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			"",
			p.viewport.View(),
		),
		t.Background(),
	)
}

func (p *previewPage) SetSize(width, height int) tea.Cmd {
	p.width = width
	p.height = height
	p.viewport.Width = width
	p.viewport.Height = max(0, height-2)
	p.renderContent()
	return nil
}

func (p *previewPage) GetSize() (int, int) {
	return p.width, p.height
}

func (p *previewPage) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(p.viewport.KeyMap)
}

func NewPreviewPage() PreviewPageCmp {
	return &previewPage{
		viewport: viewport.New(0, 0),
	}
}
