package plugins

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/seedbed/internal/gen"
	"github.com/kingrea/seedbed/internal/provider"
)

const goProviderSource = `package main

import "seedbed/gen"

func Weight() int { return 7 }

func Tracking() bool { return false }

func Create() ([]map[string]any, error) {
	out := []map[string]any{}
	for i := 0; i < 3; i++ {
		out = append(out, map[string]any{
			"label": gen.StaticSentence(3),
			"body":  gen.Paragraph(),
			"tag":   gen.Reference("taxonomy_term", "tags"),
		})
	}
	return out, nil
}
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func baseInfo(typ, bundle string) provider.Info {
	return provider.Info{Type: typ, Bundle: bundle, Tracking: true, Source: "site"}
}

func TestLoadGoProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.go")
	writeFile(t, path, goProviderSource)

	info, err := loadGoProvider(path, baseInfo("node", "article"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.Weight != 7 || info.Tracking {
		t.Fatalf("accessors not applied: %+v", info)
	}

	tk := provider.NewToolkit(gen.NewRandom(3), gen.NewStatic(), nil, nil, nil)
	entities, err := info.Callback(context.Background(), tk)
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if len(entities) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(entities))
	}
	for _, e := range entities {
		if e.Type != "node" || e.Bundle != "article" {
			t.Fatalf("unexpected key %s", e.Key())
		}
		if e.Label == "" || e.Fields.String("body") == "" {
			t.Fatalf("expected label and body: %+v", e)
		}
		if _, ok := e.Fields["label"]; ok {
			t.Fatalf("label must not be copied into fields")
		}
	}
	if entities[0].Label == entities[1].Label {
		t.Fatalf("static sentences should advance: %q", entities[0].Label)
	}
}

func TestLoadGoProviderDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.go")
	writeFile(t, path, "package main\n\nfunc Create() []map[string]any { return []map[string]any{{\"label\": \"Home\"}} }\n")

	info, err := loadGoProvider(path, baseInfo("node", "page"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.Weight != 0 || !info.Tracking {
		t.Fatalf("expected defaults, got %+v", info)
	}
	entities, err := info.Callback(context.Background(), provider.NewToolkit(nil, nil, nil, nil, nil))
	if err != nil || len(entities) != 1 || entities[0].Label != "Home" {
		t.Fatalf("unexpected result %+v, %v", entities, err)
	}
}

func TestLoadGoProviderMissingCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.go")
	writeFile(t, path, "package main\n\nfunc Weight() int { return 1 }\n")
	if _, err := loadGoProvider(path, baseInfo("node", "broken")); !errors.Is(err, provider.ErrNoCallback) {
		t.Fatalf("expected ErrNoCallback, got %v", err)
	}
}

func TestLoadGoProviderPanickingAccessor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faulty.go")
	writeFile(t, path, "package main\n\nfunc Weight() int { panic(\"no weight\") }\n\nfunc Create() []map[string]any { return nil }\n")

	_, err := loadGoProvider(path, baseInfo("node", "faulty"))
	if err == nil || !strings.Contains(err.Error(), "Weight panicked") {
		t.Fatalf("expected accessor panic to fail the load, got %v", err)
	}
	if errors.Is(err, provider.ErrNoCallback) || errors.Is(err, errInterpret) {
		t.Fatalf("accessor panics must be reported at warn level: %v", err)
	}
}

func TestGoProviderCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fails.go")
	writeFile(t, path, `package main

import "errors"

func Create() ([]map[string]any, error) { return nil, errors.New("boom") }
`)
	info, err := loadGoProvider(path, baseInfo("node", "fails"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := info.Callback(context.Background(), provider.NewToolkit(nil, nil, nil, nil, nil)); err == nil {
		t.Fatalf("expected callback error")
	}
}

func TestGoProviderFileHelperWithoutStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "document.go")
	writeFile(t, path, `package main

import "seedbed/gen"

func Create() []map[string]any {
	return []map[string]any{{"label": "Doc", "file": gen.File("pdf")}}
}
`)
	info, err := loadGoProvider(path, baseInfo("media", "document"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := info.Callback(context.Background(), provider.NewToolkit(nil, nil, nil, nil, nil)); err == nil {
		t.Fatalf("expected helper error to surface from callback")
	}
}
