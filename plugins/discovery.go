// Package plugins discovers content providers on disk. Providers live under
// <root>/<source>/generated_content/<entity_type>/<bundle>.(go|yaml|yml).
package plugins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kingrea/seedbed/internal/logging"
	"github.com/kingrea/seedbed/internal/provider"
)

// ContentDir is the per-source directory that holds provider definitions.
const ContentDir = "generated_content"

// Skipped records a definition file discovery ignored.
type Skipped struct {
	Path   string
	Reason error
}

// Report summarises a discovery pass.
type Report struct {
	Registered []provider.Info
	Skipped    []Skipped
}

// Discover scans roots in order and registers every provider found. Roots
// that do not exist are ignored. Files inside a root are visited in lexical
// path order. Definitions without a callback, or that fail to load, are
// skipped and logged; only registry failures abort discovery.
func Discover(roots []string, reg *provider.Registry, logger *slog.Logger) (Report, error) {
	var report Report
	if reg == nil {
		return report, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	for _, root := range roots {
		paths, err := candidateFiles(root)
		if err != nil {
			return report, err
		}
		for _, path := range paths {
			info, err := loadProvider(path)
			if err != nil {
				report.Skipped = append(report.Skipped, Skipped{Path: path, Reason: err})
				level := slog.LevelWarn
				if errors.Is(err, provider.ErrNoCallback) || errors.Is(err, errInterpret) {
					level = slog.LevelDebug
				}
				logger.Log(context.Background(), level, "Skipping provider definition", logging.Path(path), logging.Error(err))
				continue
			}
			if err := reg.Register(info); err != nil {
				return report, fmt.Errorf("plugin: register %s from %s: %w", info.Key(), path, err)
			}
			registered, _ := reg.Get(info.Type, info.Bundle)
			report.Registered = append(report.Registered, registered)
			logger.Debug("Registered provider",
				logging.EntityType(info.Type),
				logging.Bundle(info.Bundle),
				logging.Source(info.Source),
				logging.Path(path))
		}
	}
	return report, nil
}

// candidateFiles lists definition files under root in lexical order.
func candidateFiles(root string) ([]string, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return nil, nil
	}
	if _, err := os.Stat(trimmed); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: stat %s: %w", trimmed, err)
	}
	matches, err := filepath.Glob(filepath.Join(trimmed, "*", ContentDir, "*", "*"))
	if err != nil {
		return nil, fmt.Errorf("plugin: scan %s: %w", trimmed, err)
	}
	var out []string
	for _, match := range matches {
		if !isDefinitionFile(match) {
			continue
		}
		if fi, err := os.Stat(match); err != nil || fi.IsDir() {
			continue
		}
		out = append(out, match)
	}
	return out, nil
}

// loadProvider derives the provider key from path and loads its definition.
func loadProvider(path string) (provider.Info, error) {
	ext := filepath.Ext(path)
	typeDir := filepath.Dir(path)
	sourceDir := filepath.Dir(filepath.Dir(typeDir))
	info := provider.Info{
		Type:     filepath.Base(typeDir),
		Bundle:   strings.TrimSuffix(filepath.Base(path), ext),
		Tracking: true,
		Source:   filepath.Base(sourceDir),
		Path:     path,
	}
	if err := info.Key().Validate(); err != nil {
		return provider.Info{}, fmt.Errorf("%w: %v", provider.ErrNoCallback, err)
	}
	if strings.ToLower(ext) == ".go" {
		return loadGoProvider(path, info)
	}
	return loadYAMLProvider(path, info)
}

func isDefinitionFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".go") || isYAMLFile(lower)
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
