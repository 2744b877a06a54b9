package commands

import (
	"os"
	"path/filepath"

	"github.com/kingrea/seedbed/internal/assets"
	"github.com/kingrea/seedbed/internal/gen"
)

// AssetCmd implements the 'asset' command.
type AssetCmd struct {
	Kind   string `arg:"" help:"Asset kind (png, jpg, gif, svg, txt, csv, json, md, html, pdf, docx)"`
	Output string `short:"o" help:"Output file, or - for stdout. Defaults to the generated name."`
	Width  int    `help:"Image width in pixels" default:"640"`
	Height int    `help:"Image height in pixels" default:"480"`
	Label  string `help:"Title written into documents"`
	Static bool   `help:"Use the deterministic generator"`
}

func (c *AssetCmd) Run(g *Global, root *CLI) error {
	kind, err := assets.ParseKind(c.Kind)
	if err != nil {
		return err
	}
	var text gen.Generator = gen.NewRandom(root.Seed)
	if c.Static {
		text = gen.NewStatic()
	}
	asset, err := assets.New(text).Generate(kind, assets.Options{Width: c.Width, Height: c.Height, Label: c.Label})
	if err != nil {
		return err
	}

	out := g.out()
	if c.Output == "-" {
		_, err := out.Write(asset.Data)
		return err
	}
	path := c.Output
	if path == "" {
		path = asset.Name
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, asset.Data, 0o644); err != nil {
		return err
	}
	printf(out, "Wrote %s (%s, %d bytes)\n", path, asset.ContentType, asset.Size())
	return nil
}
