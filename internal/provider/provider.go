// Package provider defines content providers and the registry that orders them.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/kingrea/seedbed/internal/entity"
)

// ErrNoCallback marks a provider definition without a generation callback.
// Discovery skips such definitions.
var ErrNoCallback = errors.New("provider: no callback")

// Source names used for providers that are not discovered from disk.
const SourceBuiltin = "builtin"

// Callback generates the entities for one provider. Returned entities are
// persisted by the repository in order.
type Callback func(ctx context.Context, tk *Toolkit) ([]entity.Entity, error)

// Info describes a provider's identity and behaviour.
type Info struct {
	Type     string
	Bundle   string
	Weight   int
	Tracking bool
	// Source is the directory the provider was discovered under, or
	// SourceBuiltin.
	Source string
	// Path is the definition file, empty for compiled providers.
	Path     string
	Callback Callback

	index int
}

// Key returns the type/bundle pair the provider is registered under.
func (i Info) Key() entity.Key {
	return entity.Key{Type: i.Type, Bundle: i.Bundle}
}

// Index returns the discovery index assigned at registration.
func (i Info) Index() int {
	return i.index
}

// Validate ensures the info block is well-formed.
func (i Info) Validate() error {
	if err := i.Key().Validate(); err != nil {
		return err
	}
	if i.Callback == nil {
		return fmt.Errorf("%w for %s", ErrNoCallback, i.Key())
	}
	return nil
}
