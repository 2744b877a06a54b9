package plugins

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/provider"
)

// ParseDefinitionYAML decodes and validates a single provider definition.
func ParseDefinitionYAML(data []byte) (Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Definition{}, fmt.Errorf("%w: definition payload is empty", provider.ErrNoCallback)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("plugin: decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def.Normalized(), nil
}

// compiledDefinition holds parsed templates for a definition.
type compiledDefinition struct {
	def    Definition
	label  *template.Template
	fields map[string]*template.Template
	names  []string
}

// loadYAMLProvider reads a YAML provider definition. A definition without a
// label and without fields yields provider.ErrNoCallback.
func loadYAMLProvider(path string, info provider.Info) (provider.Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return provider.Info{}, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	def, err := ParseDefinitionYAML(data)
	if err != nil {
		return provider.Info{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	if !def.HasCallback() {
		return provider.Info{}, fmt.Errorf("%w: %s has no label or fields", provider.ErrNoCallback, path)
	}
	if def.Weight != nil {
		info.Weight = *def.Weight
	}
	if def.Tracking != nil {
		info.Tracking = *def.Tracking
	}

	b := &binding{}
	compiled, err := compileDefinition(def, b.funcMap())
	if err != nil {
		return provider.Info{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	info.Callback = func(ctx context.Context, tk *provider.Toolkit) ([]entity.Entity, error) {
		var out []entity.Entity
		err := b.run(ctx, tk, func() error {
			var renderErr error
			out, renderErr = compiled.render(ctx, info.Type, info.Bundle)
			return renderErr
		})
		if err != nil {
			return nil, fmt.Errorf("plugin: %s: %w", path, err)
		}
		return out, nil
	}
	return info, nil
}

func compileDefinition(def Definition, funcs template.FuncMap) (*compiledDefinition, error) {
	compiled := &compiledDefinition{def: def, fields: map[string]*template.Template{}, names: def.fieldNames()}
	if def.Label != "" {
		tmpl, err := template.New("label").Funcs(funcs).Parse(def.Label)
		if err != nil {
			return nil, fmt.Errorf("parse label: %w", err)
		}
		compiled.label = tmpl
	}
	for _, name := range compiled.names {
		tmpl, err := template.New(name).Funcs(funcs).Parse(def.Fields[name])
		if err != nil {
			return nil, fmt.Errorf("parse field %s: %w", name, err)
		}
		compiled.fields[name] = tmpl
	}
	return compiled, nil
}

func (c *compiledDefinition) render(ctx context.Context, entityType, bundle string) ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, c.def.Count)
	for n := 0; n < c.def.Count; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e := entity.Entity{Type: entityType, Bundle: bundle, Fields: entity.Fields{}}
		if c.label != nil {
			label, err := execute(c.label, n)
			if err != nil {
				return nil, err
			}
			e.Label = label
		}
		for _, name := range c.names {
			value, err := execute(c.fields[name], n)
			if err != nil {
				return nil, err
			}
			e.Fields[name] = value
		}
		out = append(out, e)
	}
	return out, nil
}

// execute renders tmpl with the zero-based entity index as dot.
func execute(tmpl *template.Template, index int) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, index); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
