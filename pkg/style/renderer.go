package style

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arthur-debert/stager/pkg/actions"
	"github.com/arthur-debert/stager/pkg/errors"
)

// Status indicators.
const (
	indicatorDone    = "✓"
	indicatorFailed  = "✗"
	indicatorSkipped = "-"
	indicatorPlanned = "○"
)

// Renderer writes plans, results and errors to a terminal.
type Renderer struct {
	theme *Theme
}

// NewRenderer creates a renderer using theme.
func NewRenderer(theme *Theme) *Renderer {
	return &Renderer{theme: theme}
}

// RenderPlan renders a plan's command lines under a header.
func (r *Renderer) RenderPlan(root string, lines []string) string {
	var sb strings.Builder
	sb.WriteString(r.theme.Render("Header", "Plan for "+root))
	sb.WriteString("\n")
	if len(lines) == 0 {
		sb.WriteString(r.theme.Render("Muted", "  nothing to stage"))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, line := range lines {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderResult renders a single executed action.
func (r *Renderer) RenderResult(result actions.Result) string {
	name, indicator := statusStyle(result.Status)

	kindStyle := "Kind"
	if result.Action.Kind() == "symlink" {
		kindStyle = "Symlink"
	}

	line := fmt.Sprintf("%s %s %s",
		r.theme.Render(name, indicator),
		r.theme.Render(kindStyle, fmt.Sprintf("%-8s", result.Action.Kind())),
		result.Action.String())
	if result.Error != nil {
		line += "\n    " + r.theme.Render("Failed", result.Error.Error())
	}
	return line
}

// RenderResults renders every result followed by a one-line summary.
func (r *Renderer) RenderResults(results []actions.Result) string {
	var sb strings.Builder
	counts := map[actions.Status]int{}
	var elapsed time.Duration
	for _, result := range results {
		counts[result.Status]++
		elapsed += result.Duration
		sb.WriteString(r.RenderResult(result))
		sb.WriteString("\n")
	}

	summary := fmt.Sprintf("%d done, %d failed, %d skipped", counts[actions.StatusDone],
		counts[actions.StatusFailed], counts[actions.StatusSkipped])
	if counts[actions.StatusPlanned] > 0 {
		summary = fmt.Sprintf("%d planned", counts[actions.StatusPlanned])
	}
	if elapsed > 0 {
		summary += fmt.Sprintf(" in %s", elapsed.Round(time.Millisecond))
	}
	sb.WriteString(r.theme.Render("Muted", summary))
	sb.WriteString("\n")
	return sb.String()
}

// RenderError renders err, listing each member of an error batch on its own
// line.
func (r *Renderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	var batch *errors.Errors
	if stderrors.As(err, &batch) && batch.Len() > 1 {
		sb.WriteString(r.theme.Render("Error", fmt.Sprintf("%d errors:", batch.Len())))
		sb.WriteString("\n")
		for _, e := range batch.Errors() {
			sb.WriteString("  " + r.theme.Render("Failed", indicatorFailed) + " " + e.Error())
			sb.WriteString("\n")
		}
		return sb.String()
	}

	sb.WriteString(r.theme.Render("Error", "Error:"))
	sb.WriteString(" ")
	sb.WriteString(err.Error())
	sb.WriteString("\n")
	return sb.String()
}

// Fprint writes s to w, ignoring write errors on the terminal.
func Fprint(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}

func statusStyle(status actions.Status) (string, string) {
	switch status {
	case actions.StatusDone:
		return "Done", indicatorDone
	case actions.StatusFailed:
		return "Failed", indicatorFailed
	case actions.StatusPlanned:
		return "Planned", indicatorPlanned
	default:
		return "Skipped", indicatorSkipped
	}
}
