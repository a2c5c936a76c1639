package results

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"pacer/internal/stats"
)

var (
	fasterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")) // Green
	slowerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // Red
	unsureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")) // Gray
)

// Render formats the matrix as a terminal table: one row per spec with its
// mean and confidence interval, plus a comparison cell against every other
// spec. Color can be disabled for plain/CI output.
func Render(m Matrix, color bool) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 3, ' ', 0)

	header := []string{"BENCHMARK", "SAMPLES", "MEAN (95% CI)"}
	for _, row := range m.Rows {
		header = append(header, "VS "+strings.ToUpper(row.Stats.Spec.String()))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for i, row := range m.Rows {
		cols := []string{
			row.Stats.Spec.String(),
			fmt.Sprintf("%d", len(row.Stats.Samples)),
			fmt.Sprintf("%.2fms (%.2f - %.2f)", row.Stats.Mean, row.Stats.MeanCI.Low, row.Stats.MeanCI.High),
		}
		for j := range m.Rows {
			if i == j {
				cols = append(cols, "-")
				continue
			}
			cols = append(cols, renderCell(row.Cells[j], color))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	w.Flush()

	if m.Outcome == OutcomeTimedOut {
		sb.WriteString("\nTimed out before every comparison resolved; unsure cells need more samples.\n")
	}
	return sb.String()
}

func renderCell(c *Cell, color bool) string {
	if c == nil {
		return "-"
	}
	verdict := c.Resolution.Direction.String()
	if !c.Resolution.Resolved {
		verdict = "unsure"
	}
	text := fmt.Sprintf("%s %s %s", verdict,
		formatRelative(c.Difference.Relative),
		formatAbsolute(c.Difference.Absolute))
	if !color {
		return text
	}
	switch {
	case !c.Resolution.Resolved, c.Resolution.Direction == stats.Unsure:
		return unsureStyle.Render(text)
	case c.Resolution.Direction == stats.Faster:
		return fasterStyle.Render(text)
	default:
		return slowerStyle.Render(text)
	}
}

func formatRelative(ci stats.ConfidenceInterval) string {
	return fmt.Sprintf("%.1f%% - %.1f%%", ci.Low*100, ci.High*100)
}

func formatAbsolute(ci stats.ConfidenceInterval) string {
	return fmt.Sprintf("(%.2fms - %.2fms)", ci.Low, ci.High)
}
