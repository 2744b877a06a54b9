package commands

import (
	"github.com/kingrea/seedbed/internal/tui"
)

// ListCmd implements the 'list' command.
type ListCmd struct{}

func (l *ListCmd) Run(g *Global, root *CLI) error {
	a, err := root.open(g)
	if err != nil {
		return err
	}
	defer a.Close()

	rows, err := a.repo.Summary(g.context())
	if err != nil {
		return err
	}
	printf(g.out(), "%s\n", tui.RenderSummary(rows))
	return nil
}
