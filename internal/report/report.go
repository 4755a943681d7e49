// Package report renders the end-of-run task summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/vk/themeforge/internal/dag"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	taskStyle    = lipgloss.NewStyle().Width(26)
	stateStyle   = lipgloss.NewStyle().Width(9)
	timeStyle    = lipgloss.NewStyle().Width(10).Align(lipgloss.Right).Faint(true)
	doneStyle    = stateStyle.Foreground(lipgloss.Color("2"))
	failedStyle  = stateStyle.Foreground(lipgloss.Color("1")).Bold(true)
	skippedStyle = stateStyle.Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).PaddingLeft(2)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Summary writes a boxed table with one row per task.
func Summary(w io.Writer, op string, results []dag.Result, elapsed time.Duration) error {
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("themeforge %s  %s", op, elapsed.Round(time.Millisecond))))

	for _, r := range results {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			taskStyle.Render(r.Label),
			styleFor(r.State).Render(r.State.String()),
			timeStyle.Render(r.Duration.Round(time.Millisecond).String()),
		)
		rows = append(rows, row)
		if r.State == dag.Failed && r.Err != nil {
			rows = append(rows, errorStyle.Render(firstLine(r.Err.Error())))
		}
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	return err
}

// Counts tallies results by state.
func Counts(results []dag.Result) map[dag.State]int {
	out := make(map[dag.State]int)
	for _, r := range results {
		out[r.State]++
	}
	return out
}

func styleFor(s dag.State) lipgloss.Style {
	switch s {
	case dag.Done:
		return doneStyle
	case dag.Failed:
		return failedStyle
	case dag.Skipped:
		return skippedStyle
	}
	return stateStyle
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
