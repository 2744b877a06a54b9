package commands

import (
	"github.com/kingrea/seedbed/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config.yaml"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	out := g.out()
	if err := config.InitProjectDir(root.Project, i.Force); err != nil {
		return err
	}
	cfg, err := config.NewConfig(root.Project)
	if err != nil {
		return err
	}
	printf(out, "Initialized %s\n", cfg.SeedbedProjectDir)
	printf(out, "Config: %s\n", relPath(cfg.ProjectDir, cfg.ProjectConfigPath()))
	for _, dir := range cfg.ProviderRoots() {
		printf(out, "Providers: %s\n", relPath(cfg.ProjectDir, dir))
	}
	return nil
}
