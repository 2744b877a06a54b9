// Package repository ties providers to storage: it runs provider callbacks,
// persists and tracks what they return, and removes tracked content again.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kingrea/seedbed/internal/assets"
	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/files"
	"github.com/kingrea/seedbed/internal/gen"
	"github.com/kingrea/seedbed/internal/logging"
	"github.com/kingrea/seedbed/internal/provider"
	"github.com/kingrea/seedbed/internal/providers"
	"github.com/kingrea/seedbed/internal/tracking"
)

// Repository is the generated content repository.
type Repository struct {
	registry *provider.Registry
	entities *entity.Store
	tracking *tracking.Store
	storage  files.Storage
	random   *gen.Random
	static   *gen.Static
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[entity.Key][]int64
}

// Option customizes a Repository.
type Option func(*Repository)

// WithLogger sets the repository logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithGenerators replaces the text generators handed to providers.
func WithGenerators(random *gen.Random, static *gen.Static) Option {
	return func(r *Repository) {
		if random != nil {
			r.random = random
		}
		if static != nil {
			r.static = static
		}
	}
}

// New builds a repository. storage may be nil when no provider stores files.
func New(reg *provider.Registry, entities *entity.Store, tracked *tracking.Store, storage files.Storage, opts ...Option) *Repository {
	r := &Repository{
		registry: reg,
		entities: entities,
		tracking: tracked,
		storage:  storage,
		random:   gen.NewRandom(0),
		static:   gen.NewStatic(),
		logger:   slog.Default(),
		cache:    map[entity.Key][]int64{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the provider registry.
func (r *Repository) Registry() *provider.Registry {
	return r.registry
}

// Toolkit returns a toolkit bound to this repository.
func (r *Repository) Toolkit() *provider.Toolkit {
	var creator provider.FileCreator
	if r.storage != nil {
		creator = r
	}
	return provider.NewToolkit(r.random, r.static, r, creator, r.logger)
}

// Create runs info's callback and persists the returned entities in order.
// Entities are tracked when the provider asks for it. The count of entities
// persisted before any failure is always returned.
func (r *Repository) Create(ctx context.Context, info provider.Info) (int, error) {
	if info.Callback == nil {
		return 0, fmt.Errorf("%w for %s", provider.ErrNoCallback, info.Key())
	}
	generated, err := info.Callback(ctx, r.Toolkit().For(info))
	if err != nil {
		return 0, fmt.Errorf("repository: create %s: %w", info.Key(), err)
	}
	defer r.invalidate(info.Key())

	created := 0
	for i := range generated {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		e := generated[i]
		e.Type, e.Bundle = info.Type, info.Bundle
		if err := r.entities.Create(ctx, &e); err != nil {
			return created, fmt.Errorf("repository: create %s: %w", info.Key(), err)
		}
		if info.Tracking {
			if err := r.tracking.Record(ctx, e.Type, e.Bundle, e.ID); err != nil {
				return created, err
			}
		}
		created++
	}
	return created, nil
}

// CreateFile stores asset and creates a tracked file entity pointing at it.
func (r *Repository) CreateFile(ctx context.Context, asset assets.Asset) (entity.Entity, error) {
	if r.storage == nil {
		return entity.Entity{}, fmt.Errorf("repository: file storage is not configured")
	}
	uri, err := r.storage.Put(ctx, asset.Name, asset.ContentType, asset.Data)
	if err != nil {
		return entity.Entity{}, err
	}
	e := entity.Entity{
		Type:   entity.TypeFile,
		Bundle: providers.FileBundle,
		Label:  asset.Name,
		Fields: entity.Fields{
			"uri":      uri,
			"filename": asset.Name,
			"filemime": asset.ContentType,
			"filesize": asset.Size(),
		},
	}
	if err := r.entities.Create(ctx, &e); err != nil {
		if delErr := r.storage.Delete(ctx, uri); delErr != nil {
			r.logger.Warn("Failed to delete orphaned file", logging.Path(uri), logging.Error(delErr))
		}
		return entity.Entity{}, fmt.Errorf("repository: create file entity: %w", err)
	}
	if err := r.tracking.Record(ctx, e.Type, e.Bundle, e.ID); err != nil {
		return e, err
	}
	r.invalidate(e.Key())
	return e, nil
}

// Remove deletes every tracked entity of the type and bundle. Individual
// failures are logged and skipped; the removed count is returned.
func (r *Repository) Remove(ctx context.Context, entityType, bundle string) (int, error) {
	defer r.invalidateType(entityType)
	report, err := r.tracking.RemoveAll(ctx, r.deleteTracked, entityType, bundle)
	if report.Failed > 0 {
		r.logger.Warn("Some generated entities could not be deleted",
			logging.EntityType(entityType),
			logging.Bundle(bundle),
			slog.Int("failed", report.Failed))
	}
	if err != nil {
		return report.Removed, fmt.Errorf("repository: remove %s: %w", entity.Key{Type: entityType, Bundle: bundle}, err)
	}
	return report.Removed, nil
}

// RemoveEntity deletes one entity and its tracking row. It fails with
// entity.ErrNotFound only when neither existed.
func (r *Repository) RemoveEntity(ctx context.Context, entityType string, id int64) error {
	existing, loadErr := r.entities.Load(ctx, entityType, id)
	delErr := r.deleteEntity(ctx, entityType, id)
	if delErr != nil && !errors.Is(delErr, entity.ErrNotFound) {
		return fmt.Errorf("repository: remove %s %d: %w", entityType, id, delErr)
	}
	untracked, err := r.tracking.Remove(ctx, entityType, id)
	if err != nil {
		return err
	}
	if loadErr == nil {
		r.invalidate(existing.Key())
	}
	if errors.Is(delErr, entity.ErrNotFound) {
		if untracked {
			return nil
		}
		return fmt.Errorf("repository: remove %s %d: %w", entityType, id, delErr)
	}
	return delErr
}

func (r *Repository) deleteTracked(ctx context.Context, row tracking.Tracked) error {
	return r.deleteEntity(ctx, row.EntityType, row.EntityID)
}

// deleteEntity removes an entity, and for files the stored object as well.
func (r *Repository) deleteEntity(ctx context.Context, entityType string, id int64) error {
	if entityType == entity.TypeFile && r.storage != nil {
		file, err := r.entities.Load(ctx, entityType, id)
		if err != nil {
			return err
		}
		if uri := file.Fields.String("uri"); uri != "" {
			if err := r.storage.Delete(ctx, uri); err != nil {
				return err
			}
		}
	}
	return r.entities.Delete(ctx, entityType, id)
}
