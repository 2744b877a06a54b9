package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kingrea/seedbed/internal/batch"
	"github.com/kingrea/seedbed/internal/provider"
	"github.com/kingrea/seedbed/internal/tui"
)

// EnvItems supplies ITEMS when none are given on the command line.
const EnvItems = "SEEDBED_ITEMS"

// Selection holds the arguments shared by create and remove.
type Selection struct {
	Items  []string `arg:"" optional:"" help:"Providers as type or type-bundle (comma separated allowed)"`
	Source string   `help:"Only providers discovered under this source"`
	TUI    bool     `name:"tui" help:"Show an interactive progress view"`
}

// CreateCmd implements the 'create' command.
type CreateCmd struct {
	Selection `embed:""`
}

func (c *CreateCmd) Run(g *Global, root *CLI) error {
	return runBatch(g, root, batch.ModeCreate, c.Selection)
}

// RemoveCmd implements the 'remove' command.
type RemoveCmd struct {
	Selection `embed:""`
}

func (r *RemoveCmd) Run(g *Global, root *CLI) error {
	return runBatch(g, root, batch.ModeRemove, r.Selection)
}

func runBatch(g *Global, root *CLI, mode batch.Mode, sel Selection) error {
	values := sel.Items
	if len(values) == 0 {
		values = []string{os.Getenv(EnvItems)}
	}
	items, err := provider.ParseItems(values...)
	if err != nil {
		return err
	}
	a, err := root.open(g)
	if err != nil {
		return err
	}
	defer a.Close()

	selected := a.registry.Filter(items, sel.Source)
	if len(selected) == 0 {
		return fmt.Errorf("no providers match %s", describeSelection(items, sel.Source))
	}
	steps, err := batch.Plan(mode, a.repo, selected)
	if err != nil {
		return err
	}
	if mode == batch.ModeCreate {
		a.logger.Info("Generating content", "seed", a.random.Seed(), "providers", len(selected))
	}

	out := g.out()
	title := "Creating content"
	if mode == batch.ModeRemove {
		title = "Removing content"
	}
	if sel.TUI {
		_, err := tui.Run(g.context(), title, len(steps), func(ctx context.Context, observe func(batch.Progress)) (batch.Result, error) {
			return a.runner(mode, observe).Run(ctx, mode, steps)
		})
		return err
	}

	printf(out, "%s (%d steps)\n", title, len(steps))
	result, err := a.runner(mode, func(p batch.Progress) {
		status := fmt.Sprintf("%d items", p.StepItems)
		if p.Err != nil {
			status = "failed: " + p.Err.Error()
		}
		printf(out, "[%d/%d] %s: %s\n", p.Processed, p.Total, p.Label, status)
	}).Run(g.context(), mode, steps)
	printf(out, "%s\n", tui.RenderResult(result))
	return err
}

func describeSelection(items []provider.Item, source string) string {
	var parts []string
	for _, item := range items {
		parts = append(parts, item.String())
	}
	desc := "any provider"
	if len(parts) > 0 {
		desc = strings.Join(parts, ", ")
	}
	if source != "" {
		desc += " from source " + source
	}
	return desc
}
