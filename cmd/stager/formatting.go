package main

import (
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/stager/pkg/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var boldStyle = lipgloss.NewStyle().Bold(true)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// useColor decides whether output written to w is styled.
func useColor(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

// newRenderer returns a renderer for w.
func newRenderer(w io.Writer, noColor bool) *style.Renderer {
	return style.NewRenderer(style.DefaultTheme(!useColor(w, noColor)))
}

// formatBold returns the string formatted as bold
func formatBold(s string) string {
	if !isTerminal(os.Stdout) {
		return s
	}
	return boldStyle.Render(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
	})
}
