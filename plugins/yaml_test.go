package plugins

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/seedbed/internal/gen"
	"github.com/kingrea/seedbed/internal/provider"
)

const sampleDefinition = `weight: 5
tracking: false
count: 4
label: "{{ staticsentence 3 }}"
fields:
  body: "{{ richtext 2 }}"
  position: "{{ . }}"
  status: '{{ item "draft" "published" }}'
`

func TestParseDefinitionYAML(t *testing.T) {
	def, err := ParseDefinitionYAML([]byte(sampleDefinition))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.Count != 4 || *def.Weight != 5 || *def.Tracking {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if names := def.fieldNames(); strings.Join(names, ",") != "body,position,status" {
		t.Fatalf("unexpected field order %v", names)
	}
}

func TestParseDefinitionYAMLErrors(t *testing.T) {
	if _, err := ParseDefinitionYAML([]byte("")); !errors.Is(err, provider.ErrNoCallback) {
		t.Fatalf("expected empty payload to have no callback, got %v", err)
	}
	if _, err := ParseDefinitionYAML([]byte("count: [")); err == nil {
		t.Fatalf("expected malformed yaml to fail")
	}
	if _, err := ParseDefinitionYAML([]byte("count: -1\nlabel: x")); err == nil {
		t.Fatalf("expected negative count to fail")
	}
	if _, err := ParseDefinitionYAML([]byte("fields:\n  label: x")); err == nil {
		t.Fatalf("expected reserved field name to fail")
	}
}

func TestLoadYAMLProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.yaml")
	writeFile(t, path, sampleDefinition)

	info, err := loadYAMLProvider(path, baseInfo("node", "news"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.Weight != 5 || info.Tracking {
		t.Fatalf("unexpected info %+v", info)
	}
	entities, err := info.Callback(context.Background(), provider.NewToolkit(gen.NewRandom(9), gen.NewStatic(), nil, nil, nil))
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if len(entities) != 4 {
		t.Fatalf("expected 4 entities, got %d", len(entities))
	}
	for i, e := range entities {
		if e.Fields.String("position") != string(rune('0'+i)) {
			t.Fatalf("entity %d has position %q", i, e.Fields.String("position"))
		}
		if status := e.Fields.String("status"); status != "draft" && status != "published" {
			t.Fatalf("unexpected status %q", status)
		}
		if !strings.Contains(e.Fields.String("body"), "<p>") {
			t.Fatalf("expected rendered html body, got %q", e.Fields.String("body"))
		}
	}
}

func TestLoadYAMLProviderWithoutCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yml")
	writeFile(t, path, "weight: 3\n")
	if _, err := loadYAMLProvider(path, baseInfo("node", "empty")); !errors.Is(err, provider.ErrNoCallback) {
		t.Fatalf("expected ErrNoCallback, got %v", err)
	}
}

func TestYAMLReferencesRenderAsList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.yaml")
	writeFile(t, path, "label: tagged\nfields:\n  tags: '{{ references \"taxonomy_term\" \"tags\" 2 }}'\n")
	info, err := loadYAMLProvider(path, baseInfo("node", "tagged"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	refs := stubRefs{ids: []int64{4, 5, 6}}
	entities, err := info.Callback(context.Background(), provider.NewToolkit(nil, nil, refs, nil, nil))
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if got := entities[0].Fields.String("tags"); got != "4,5" {
		t.Fatalf("unexpected tags %q", got)
	}
}

type stubRefs struct{ ids []int64 }

func (s stubRefs) RandomReference(context.Context, string, string) (int64, error) {
	return s.ids[0], nil
}

func (s stubRefs) References(_ context.Context, _, _ string, n int) ([]int64, error) {
	return s.ids[:min(n, len(s.ids))], nil
}
