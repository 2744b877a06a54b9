package commands

import (
	"github.com/kingrea/seedbed/internal/logging"
)

// RemoveEntityCmd implements the 'remove-entity' command.
type RemoveEntityCmd struct {
	Type string `arg:"" help:"Entity type (node, taxonomy_term, user, media, file, ...)"`
	ID   int64  `arg:"" name:"id" help:"Entity id"`
}

func (r *RemoveEntityCmd) Run(g *Global, root *CLI) error {
	a, err := root.open(g)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.repo.RemoveEntity(g.context(), r.Type, r.ID); err != nil {
		return err
	}
	if err := a.journal.Info("Removed %s %d", r.Type, r.ID); err != nil {
		a.logger.Warn("Failed to write journal", logging.Error(err))
	}
	printf(g.out(), "Removed %s %d\n", r.Type, r.ID)
	return nil
}
