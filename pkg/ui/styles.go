package ui

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Style names used by the printer.
const (
	StyleSuccess  = "Success"
	StyleWarning  = "Warning"
	StyleInfo     = "Info"
	StyleHint     = "Hint"
	StyleProgress = "Progress"
	StylePass     = "Pass"
	StyleFail     = "Fail"
	StyleError    = "Error"
	StyleMuted    = "Muted"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// Sheet is a parsed style sheet.
type Sheet struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// LoadSheet parses a YAML style sheet.
func LoadSheet(data []byte) (*Sheet, error) {
	var sheet Sheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("failed to parse styles data: %w", err)
	}
	return &sheet, nil
}

// DefaultSheet returns the embedded sheet. A broken embed yields an empty
// sheet, which renders everything unstyled.
func DefaultSheet() *Sheet {
	sheet, err := LoadSheet(embeddedStyles)
	if err != nil {
		return &Sheet{}
	}
	return sheet
}

// Build creates lipgloss styles bound to renderer r.
func (s *Sheet) Build(r *lipgloss.Renderer) map[string]lipgloss.Style {
	colors := make(map[string]lipgloss.AdaptiveColor, len(s.Colors))
	for name, def := range s.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	registry := make(map[string]lipgloss.Style, len(s.Styles))
	for name, def := range s.Styles {
		registry[name] = buildStyle(r, def, colors)
	}
	return registry
}

func buildStyle(r *lipgloss.Renderer, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := r.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if def.Foreground != "" {
		if color, ok := colors[def.Foreground]; ok {
			style = style.Foreground(color)
		}
	}
	if def.Background != "" {
		if color, ok := colors[def.Background]; ok {
			style = style.Background(color)
		}
	}

	return style
}
