package commands

import (
	"errors"

	"github.com/kingrea/seedbed/internal/batch"
	"github.com/kingrea/seedbed/internal/tui"
)

// StatusCmd implements the 'status' command.
type StatusCmd struct{}

func (s *StatusCmd) Run(g *Global, root *CLI) error {
	a, err := root.open(g)
	if err != nil {
		return err
	}
	defer a.Close()

	out := g.out()
	last, err := a.reports.Load()
	switch {
	case errors.Is(err, batch.ErrReportNotFound):
		printf(out, "No runs recorded yet.\n\n")
	case err != nil:
		return err
	default:
		printf(out, "Last run\n%s\n\n", tui.RenderResult(last))
	}

	rows, err := a.repo.Summary(g.context())
	if err != nil {
		return err
	}
	total := 0
	for _, row := range rows {
		total += row.Tracked
	}
	printf(out, "%s\n%d tracked entities\n", tui.RenderSummary(rows), total)
	return nil
}
