package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kingrea/seedbed/internal/assets"
	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/gen"
)

// References resolves ids of already generated entities.
type References interface {
	RandomReference(ctx context.Context, entityType, bundle string) (int64, error)
	References(ctx context.Context, entityType, bundle string, n int) ([]int64, error)
}

// FileCreator stores a generated asset and creates a tracked file entity for it.
type FileCreator interface {
	CreateFile(ctx context.Context, asset assets.Asset) (entity.Entity, error)
}

// Toolkit is handed to provider callbacks. It carries the run's generators
// and access to previously generated content.
type Toolkit struct {
	Random *gen.Random
	Static *gen.Static
	// Assets renders placeholder files using the random generator.
	Assets *assets.Generator
	Logger *slog.Logger
	// Provider is the provider currently being run.
	Provider Info

	refs  References
	files FileCreator
}

// NewToolkit builds a toolkit. refs and files may be nil, in which case
// Reference returns 0 and File fails.
func NewToolkit(random *gen.Random, static *gen.Static, refs References, files FileCreator, logger *slog.Logger) *Toolkit {
	if random == nil {
		random = gen.NewRandom(0)
	}
	if static == nil {
		static = gen.NewStatic()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Toolkit{
		Random: random,
		Static: static,
		Assets: assets.New(random),
		Logger: logger,
		refs:   refs,
		files:  files,
	}
}

// For returns a copy of the toolkit bound to info.
func (tk *Toolkit) For(info Info) *Toolkit {
	clone := *tk
	clone.Provider = info
	return &clone
}

// Reference returns a random generated entity id of the given type and
// bundle, or 0 when none exist.
func (tk *Toolkit) Reference(ctx context.Context, entityType, bundle string) (int64, error) {
	if tk.refs == nil {
		return 0, nil
	}
	return tk.refs.RandomReference(ctx, entityType, bundle)
}

// References returns up to n distinct generated entity ids.
func (tk *Toolkit) References(ctx context.Context, entityType, bundle string, n int) ([]int64, error) {
	if tk.refs == nil || n <= 0 {
		return nil, nil
	}
	return tk.refs.References(ctx, entityType, bundle, n)
}

// File renders an asset of kind, stores it and returns the new file entity.
func (tk *Toolkit) File(ctx context.Context, kind assets.Kind, opts assets.Options) (entity.Entity, error) {
	if tk.files == nil {
		return entity.Entity{}, fmt.Errorf("provider: file storage is not configured")
	}
	asset, err := tk.Assets.Generate(kind, opts)
	if err != nil {
		return entity.Entity{}, err
	}
	return tk.files.CreateFile(ctx, asset)
}
