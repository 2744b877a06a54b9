package plugins

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/kingrea/seedbed/internal/provider"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDiscoverRegistersAcrossRoots(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	writeFile(t, filepath.Join(first, "blog", ContentDir, "node", "article.yaml"), "weight: 10\nlabel: '{{ sentence 3 }}'\n")
	writeFile(t, filepath.Join(first, "blog", ContentDir, "taxonomy_term", "tags.yml"), "count: 3\nlabel: '{{ name 6 }}'\n")
	writeFile(t, filepath.Join(first, "blog", ContentDir, "node", "empty.yaml"), "weight: 1\n")
	writeFile(t, filepath.Join(first, "blog", ContentDir, "node", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(first, "blog", ContentDir, "node", "broken.yaml"), "label: [")
	writeFile(t, filepath.Join(second, "site", ContentDir, "node", "article.go"),
		"package main\n\nfunc Weight() int { return -1 }\n\nfunc Create() []map[string]any { return nil }\n")

	reg := provider.NewRegistry()
	report, err := Discover([]string{first, filepath.Join(first, "missing"), second}, reg, quietLogger())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(report.Registered) != 3 {
		t.Fatalf("expected 3 registrations, got %d", len(report.Registered))
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("expected 2 skipped files, got %+v", report.Skipped)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 providers after override, got %d", reg.Len())
	}
	article, ok := reg.Get("node", "article")
	if !ok || article.Source != "site" || article.Weight != -1 {
		t.Fatalf("later root should win: %+v", article)
	}
	ordered := reg.Ordered()
	if ordered[0].Bundle != "article" || ordered[1].Bundle != "tags" {
		t.Fatalf("unexpected order: %s, %s", ordered[0].Key(), ordered[1].Key())
	}
}

func TestDiscoverNilRegistry(t *testing.T) {
	if _, err := Discover([]string{t.TempDir()}, nil, nil); err != nil {
		t.Fatalf("expected nil registry to be a no-op, got %v", err)
	}
}
