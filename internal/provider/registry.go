package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kingrea/seedbed/internal/entity"
)

// Registry maintains known providers keyed by type and bundle.
type Registry struct {
	mu        sync.RWMutex
	providers map[entity.Key]Info
	next      int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[entity.Key]Info{}}
}

// Register installs a provider. A provider already registered under the same
// key is replaced and the newcomer takes the next discovery index.
func (r *Registry) Register(info Info) error {
	if err := info.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	info.index = r.next
	r.next++
	r.providers[info.Key()] = info
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(info Info) {
	if err := r.Register(info); err != nil {
		panic(err)
	}
}

// Get returns the provider for a key.
func (r *Registry) Get(entityType, bundle string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.providers[entity.Key{Type: entityType, Bundle: bundle}]
	return info, ok
}

// Lookup is Get with an error for unknown keys.
func (r *Registry) Lookup(entityType, bundle string) (Info, error) {
	info, ok := r.Get(entityType, bundle)
	if !ok {
		return Info{}, fmt.Errorf("provider: unknown provider %s", entity.Key{Type: entityType, Bundle: bundle})
	}
	return info, nil
}

// Len reports how many providers are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// All returns providers in discovery order.
func (r *Registry) All() []Info {
	r.mu.RLock()
	out := make([]Info, 0, len(r.providers))
	for _, info := range r.providers {
		out = append(out, info)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

// Ordered returns providers sorted by weight, ties broken by discovery order.
func (r *Registry) Ordered() []Info {
	out := r.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	return out
}

// Filter returns the ordered providers matching any of items and, when
// source is set, discovered under that source. No items means all.
func (r *Registry) Filter(items []Item, source string) []Info {
	var out []Info
	for _, info := range r.Ordered() {
		if source != "" && info.Source != source {
			continue
		}
		if len(items) > 0 && !matchAny(items, info) {
			continue
		}
		out = append(out, info)
	}
	return out
}

func matchAny(items []Item, info Info) bool {
	for _, item := range items {
		if item.Matches(info) {
			return true
		}
	}
	return false
}
