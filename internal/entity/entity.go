// Package entity models generated content records and persists them.
package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("entity: not found")

// Common entity types produced by the builtin providers.
const (
	TypeNode     = "node"
	TypeTerm     = "taxonomy_term"
	TypeMedia    = "media"
	TypeUser     = "user"
	TypeMenuLink = "menu_link_content"
	TypeFile     = "file"
)

// Fields holds arbitrary field values. Values must be JSON encodable.
type Fields map[string]any

// Entity is one piece of generated content.
type Entity struct {
	ID      int64     `json:"id"`
	UUID    string    `json:"uuid"`
	Type    string    `json:"entity_type"`
	Bundle  string    `json:"bundle"`
	Label   string    `json:"label"`
	Fields  Fields    `json:"fields,omitempty"`
	Created time.Time `json:"created"`
}

// Key identifies an entity type and bundle pair.
type Key struct {
	Type   string
	Bundle string
}

// String renders the key in item-filter form: "type-bundle".
func (k Key) String() string {
	if k.Bundle == "" {
		return k.Type
	}
	return k.Type + "-" + k.Bundle
}

// Validate ensures both halves are present and free of whitespace. The type
// may not contain "-" because item selectors split on the first one.
func (k Key) Validate() error {
	if strings.TrimSpace(k.Type) == "" {
		return fmt.Errorf("entity: type is required")
	}
	if strings.TrimSpace(k.Bundle) == "" {
		return fmt.Errorf("entity: bundle is required for %s", k.Type)
	}
	if strings.ContainsAny(k.Type+k.Bundle, " \t\n") {
		return fmt.Errorf("entity: key %s contains whitespace", k)
	}
	if strings.Contains(k.Type, "-") {
		return fmt.Errorf("entity: type %q must not contain %q", k.Type, "-")
	}
	return nil
}

// Key returns the entity's type/bundle pair.
func (e Entity) Key() Key {
	return Key{Type: e.Type, Bundle: e.Bundle}
}

// String returns the field value as a string when it is one.
func (f Fields) String(name string) string {
	if v, ok := f[name].(string); ok {
		return v
	}
	return ""
}
