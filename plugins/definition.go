package plugins

import (
	"fmt"
	"sort"
	"strings"
)

// maxCount bounds how many entities one YAML provider may create per run.
const maxCount = 10000

// Definition describes a YAML content provider.
//
// Label and field values are text/template sources evaluated once per
// generated entity with the helper functions bound to the current run.
type Definition struct {
	Weight   *int              `yaml:"weight,omitempty"`
	Tracking *bool             `yaml:"tracking,omitempty"`
	Count    int               `yaml:"count,omitempty"`
	Label    string            `yaml:"label,omitempty"`
	Fields   map[string]string `yaml:"fields,omitempty"`
}

// Normalized returns a trimmed copy with defaults applied.
func (def Definition) Normalized() Definition {
	clone := Definition{
		Weight:   def.Weight,
		Tracking: def.Tracking,
		Count:    def.Count,
		Label:    strings.TrimSpace(def.Label),
	}
	if clone.Count <= 0 {
		clone.Count = 1
	}
	if len(def.Fields) > 0 {
		clone.Fields = make(map[string]string, len(def.Fields))
		for key, value := range def.Fields {
			trimmed := strings.TrimSpace(key)
			if trimmed == "" {
				continue
			}
			clone.Fields[trimmed] = value
		}
	}
	return clone
}

// HasCallback reports whether the definition produces anything.
func (def Definition) HasCallback() bool {
	return strings.TrimSpace(def.Label) != "" || len(def.Fields) > 0
}

// Validate checks values that cannot be defaulted.
func (def Definition) Validate() error {
	if def.Count < 0 {
		return fmt.Errorf("plugin: count must be >= 0")
	}
	if def.Count > maxCount {
		return fmt.Errorf("plugin: count %d exceeds %d", def.Count, maxCount)
	}
	for key := range def.Fields {
		if strings.TrimSpace(key) == "label" {
			return fmt.Errorf("plugin: %q is reserved, use the top-level label", key)
		}
	}
	return nil
}

// fieldNames returns the field keys in lexical order.
func (def Definition) fieldNames() []string {
	names := make([]string, 0, len(def.Fields))
	for name := range def.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
