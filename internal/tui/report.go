package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kingrea/seedbed/internal/batch"
	"github.com/kingrea/seedbed/internal/logbook"
	"github.com/kingrea/seedbed/internal/repository"
)

// RenderResult formats a finished run.
func RenderResult(result batch.Result) string {
	var b strings.Builder
	head := okStyle.Render("✓ " + result.Message)
	if !result.Success {
		head = failStyle.Render("✗ " + result.Message)
	}
	b.WriteString(head)
	elapsed := result.Finished.Sub(result.Started).Round(time.Millisecond)
	fmt.Fprintf(&b, "\n%s", mutedStyle.Render(fmt.Sprintf("%s run %s: %d/%d steps in %s", result.Mode, result.RunID, len(result.Steps), result.Total, elapsed)))
	for _, step := range result.Steps {
		if step.Error == "" {
			continue
		}
		fmt.Fprintf(&b, "\n%s %s", failStyle.Render(step.Label+":"), detailStyle.Render(step.Error))
	}
	return b.String()
}

// RenderSummary formats providers in run order with their tracked counts.
func RenderSummary(rows []repository.SummaryRow) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No providers registered.")
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("PROVIDER", "WEIGHT", "SOURCE", "TRACKING", "TRACKED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, row := range rows {
		info := row.Provider
		source := info.Source
		weight := strconv.Itoa(info.Weight)
		if info.Callback == nil {
			source = warnStyle.Render("unregistered")
			weight = "-"
		}
		tracking := "yes"
		if !info.Tracking {
			tracking = "no"
		}
		t.Row(info.Key().String(), weight, source, tracking, strconv.Itoa(row.Tracked))
	}
	return t.String()
}

// RenderJournal formats journal entries, one per line, coloured by level.
func RenderJournal(entries []logbook.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		level := detailStyle
		switch e.Level {
		case logbook.LevelWarn:
			level = warnStyle
		case logbook.LevelError:
			level = failStyle
		}
		line := mutedStyle.Render(e.Time.Local().Format("2006-01-02 15:04:05")) + " " + level.Render(fmt.Sprintf("%-5s", e.Level))
		if e.RunID != "" {
			line += " " + mutedStyle.Render(e.RunID)
		}
		lines = append(lines, line+" "+e.Message)
	}
	return strings.Join(lines, "\n")
}
