// Package style renders stager's terminal output.
//
// Styles are declared in an embedded YAML file and referenced by semantic
// name ("Done", "Failed", "Path"). A Theme built with Plain set renders every
// style as the identity, which is what non-terminal output uses.
package style

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color definition.
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is one named style.
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
	Width      int    `yaml:"width,omitempty"`
}

// Config is a complete styles file.
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

// Theme maps style names to lipgloss styles.
type Theme struct {
	styles map[string]lipgloss.Style
	plain  bool
}

// DefaultTheme returns the embedded theme. With plain set no escape codes
// are emitted.
func DefaultTheme(plain bool) *Theme {
	theme, err := LoadTheme(embeddedStyles)
	if err != nil {
		panic(fmt.Sprintf("embedded styles are invalid: %v", err))
	}
	theme.plain = plain
	return theme
}

// LoadTheme parses a styles file.
func LoadTheme(data []byte) (*Theme, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse styles data: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	theme := &Theme{styles: make(map[string]lipgloss.Style, len(config.Styles))}
	for name, def := range config.Styles {
		theme.styles[name] = buildStyle(def, colors)
	}
	return theme, nil
}

func buildStyle(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}
	if def.Width > 0 {
		style = style.Width(def.Width)
	}

	return style
}

// Plain reports whether the theme renders without styling.
func (t *Theme) Plain() bool {
	return t.plain
}

// Get returns the named style, or an empty style when it is not defined.
func (t *Theme) Get(name string) lipgloss.Style {
	if style, ok := t.styles[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Render applies the named style to s.
func (t *Theme) Render(name, s string) string {
	if t.plain {
		return s
	}
	return t.Get(name).Render(s)
}
