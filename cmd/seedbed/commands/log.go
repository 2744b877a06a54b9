package commands

import (
	"github.com/kingrea/seedbed/internal/config"
	"github.com/kingrea/seedbed/internal/logbook"
	"github.com/kingrea/seedbed/internal/tui"
)

// LogCmd implements the 'log' command.
type LogCmd struct {
	Lines int    `short:"n" help:"Number of journal entries to show" default:"20"`
	RunID string `name:"run" help:"Only show entries of this run id"`
}

func (l *LogCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.NewConfig(root.Project)
	if err != nil {
		return err
	}
	book, err := logbook.New(cfg.JournalPath())
	if err != nil {
		return err
	}
	entries, total, err := book.Entries(l.Lines, l.RunID)
	if err != nil {
		return err
	}
	out := g.out()
	if total == 0 {
		printf(out, "Journal is empty.\n")
		return nil
	}
	printf(out, "%s\n", tui.RenderJournal(entries))
	if total > len(entries) {
		printf(out, "(%d of %d entries)\n", len(entries), total)
	}
	return nil
}
