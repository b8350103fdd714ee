package ui

import (
	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders Markdown for the printer's output. Plain text
// output and renderer failures fall back to the raw Markdown.
func (p *Printer) RenderMarkdown(content string, width int) string {
	if p.format == FormatText {
		return content
	}

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
