package repository

import (
	"context"

	"github.com/kingrea/seedbed/internal/entity"
)

// Entities returns the ids of existing entities of the type and bundle,
// served from a cache that create and remove operations keep current.
func (r *Repository) Entities(ctx context.Context, entityType, bundle string) ([]int64, error) {
	key := entity.Key{Type: entityType, Bundle: bundle}
	r.mu.Lock()
	ids, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return ids, nil
	}
	ids, err := r.entities.IDs(ctx, entityType, bundle)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.cache[key] = ids
	r.mu.Unlock()
	return ids, nil
}

// RandomReference returns a random existing entity id, or 0 when there is none.
func (r *Repository) RandomReference(ctx context.Context, entityType, bundle string) (int64, error) {
	ids, err := r.Entities(ctx, entityType, bundle)
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	return ids[r.random.Int(0, len(ids)-1)], nil
}

// References returns up to n distinct random entity ids.
func (r *Repository) References(ctx context.Context, entityType, bundle string, n int) ([]int64, error) {
	ids, err := r.Entities(ctx, entityType, bundle)
	if err != nil || len(ids) == 0 || n <= 0 {
		return nil, err
	}
	shuffled := append([]int64(nil), ids...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := r.random.Int(0, i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:min(n, len(shuffled))], nil
}

// ClearCaches drops cached entity ids and rewinds the static generator.
func (r *Repository) ClearCaches() {
	r.mu.Lock()
	r.cache = map[entity.Key][]int64{}
	r.mu.Unlock()
	r.static.Reset()
}

func (r *Repository) invalidate(key entity.Key) {
	r.mu.Lock()
	delete(r.cache, key)
	r.mu.Unlock()
}

func (r *Repository) invalidateType(entityType string) {
	r.mu.Lock()
	for key := range r.cache {
		if entityType == "" || key.Type == entityType {
			delete(r.cache, key)
		}
	}
	r.mu.Unlock()
}
