package provider

import (
	"fmt"
	"strings"
)

// Item selects providers by type and optionally bundle.
type Item struct {
	Type   string
	Bundle string
}

// Matches reports whether info falls under the item.
func (it Item) Matches(info Info) bool {
	if it.Type != info.Type {
		return false
	}
	return it.Bundle == "" || it.Bundle == info.Bundle
}

func (it Item) String() string {
	if it.Bundle == "" {
		return it.Type
	}
	return it.Type + "-" + it.Bundle
}

// ParseItems parses "type-bundle" selectors. Each value may itself be a
// comma separated list. The first dash splits type from bundle, so bundles
// may contain dashes but types may not.
func ParseItems(values ...string) ([]Item, error) {
	var items []Item
	for _, value := range values {
		for _, raw := range strings.Split(value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			typ, bundle, _ := strings.Cut(raw, "-")
			if typ == "" {
				return nil, fmt.Errorf("provider: invalid item %q", raw)
			}
			items = append(items, Item{Type: typ, Bundle: bundle})
		}
	}
	return items, nil
}
