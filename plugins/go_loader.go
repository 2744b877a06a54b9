package plugins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/provider"
)

// errInterpret marks scripts yaegi could not evaluate. Discovery treats them
// like definitions without a callback.
var errInterpret = errors.New("plugin: interpret")

const (
	goCreateFuncName   = "Create"
	goWeightFuncName   = "Weight"
	goTrackingFuncName = "Tracking"
)

// loadGoProvider interprets a Go provider script. Scripts are package main
// and declare Create() ([]map[string]any[, error]) plus optional Weight()
// int and Tracking() bool accessors. A script without Create yields
// provider.ErrNoCallback.
func loadGoProvider(path string, info provider.Info) (provider.Info, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return provider.Info{}, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return provider.Info{}, fmt.Errorf("%w: %s is empty", provider.ErrNoCallback, path)
	}
	b := &binding{}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return provider.Info{}, fmt.Errorf("plugin: load stdlib symbols: %w", err)
	}
	if err := i.Use(b.exports()); err != nil {
		return provider.Info{}, fmt.Errorf("plugin: load helper symbols: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return provider.Info{}, fmt.Errorf("%w %s: %w", errInterpret, path, err)
	}

	create, err := i.Eval(goCreateFuncName)
	if err != nil || create.Kind() != reflect.Func {
		return provider.Info{}, fmt.Errorf("%w: %s does not define %s()", provider.ErrNoCallback, path, goCreateFuncName)
	}
	weight, ok, err := callAccessor(i, goWeightFuncName)
	if err != nil {
		return provider.Info{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	if ok && weight.CanInt() {
		info.Weight = int(weight.Int())
	}
	tracking, ok, err := callAccessor(i, goTrackingFuncName)
	if err != nil {
		return provider.Info{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	if ok && tracking.Kind() == reflect.Bool {
		info.Tracking = tracking.Bool()
	}

	info.Callback = func(ctx context.Context, tk *provider.Toolkit) ([]entity.Entity, error) {
		var rows []map[string]any
		err := b.run(ctx, tk, func() error {
			var callErr error
			rows, callErr = invokeCreate(create)
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("plugin: %s: %w", path, err)
		}
		return entitiesFromRows(info.Type, info.Bundle, rows), nil
	}
	return info, nil
}

// callAccessor calls an optional zero-argument function returning one value.
// ok is false when the script does not declare it. A panic is an error.
func callAccessor(i *interp.Interpreter, name string) (value reflect.Value, ok bool, err error) {
	fn, evalErr := i.Eval(name)
	if evalErr != nil || !fn.IsValid() || fn.Kind() != reflect.Func || fn.Type().NumIn() != 0 || fn.Type().NumOut() != 1 {
		return reflect.Value{}, false, nil
	}
	defer func() {
		if r := recover(); r != nil {
			value, ok, err = reflect.Value{}, false, fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	return fn.Call(nil)[0], true, nil
}

func invokeCreate(fn reflect.Value) (rows []map[string]any, err error) {
	if fn.Type().NumIn() != 0 {
		return nil, fmt.Errorf("%s must not take arguments", goCreateFuncName)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", goCreateFuncName, r)
		}
	}()
	results := fn.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return ([]map[string]any[, error])", goCreateFuncName)
	}
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok && e != nil {
			return nil, e
		}
		return nil, fmt.Errorf("%s returned non-error second value", goCreateFuncName)
	}
	value := results[0]
	if typed, ok := value.Interface().([]map[string]any); ok {
		return typed, nil
	}
	if value.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%s must return []map[string]any", goCreateFuncName)
	}
	rows = make([]map[string]any, value.Len())
	for idx := 0; idx < value.Len(); idx++ {
		m, ok := value.Index(idx).Interface().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not map[string]any", goCreateFuncName, idx)
		}
		rows[idx] = m
	}
	return rows, nil
}

// entitiesFromRows turns script output into entities. The "label" key
// becomes the label and every other key a field.
func entitiesFromRows(entityType, bundle string, rows []map[string]any) []entity.Entity {
	out := make([]entity.Entity, 0, len(rows))
	for _, row := range rows {
		e := entity.Entity{Type: entityType, Bundle: bundle, Fields: entity.Fields{}}
		for key, value := range row {
			if key == "label" {
				e.Label = fmt.Sprint(value)
				continue
			}
			e.Fields[key] = value
		}
		out = append(out, e)
	}
	return out
}
