package plugins

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/traefik/yaegi/interp"

	"github.com/kingrea/seedbed/internal/assets"
	"github.com/kingrea/seedbed/internal/provider"
)

// helperImportPath is the import path scripts use for the helpers.
const helperImportPath = "seedbed/gen"

// binding connects script helpers to the toolkit of the run currently
// executing the provider. Helpers called outside a run use a private
// toolkit without references or file storage.
type binding struct {
	mu       sync.Mutex
	ctx      context.Context
	tk       *provider.Toolkit
	err      error
	fallback *provider.Toolkit
}

// run binds ctx and tk for the duration of fn. The first error raised by a
// helper is returned when fn itself succeeds.
func (b *binding) run(ctx context.Context, tk *provider.Toolkit, fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctx, b.tk, b.err = ctx, tk, nil
	defer func() { b.ctx, b.tk = nil, nil }()
	if err := fn(); err != nil {
		return err
	}
	return b.err
}

func (b *binding) toolkit() (context.Context, *provider.Toolkit) {
	if b.tk != nil {
		return b.ctx, b.tk
	}
	if b.fallback == nil {
		b.fallback = provider.NewToolkit(nil, nil, nil, nil, nil)
	}
	return context.Background(), b.fallback
}

func (b *binding) fail(err error) {
	if err != nil && b.err == nil {
		b.err = err
	}
}

func (b *binding) Sentence(words int) string {
	_, tk := b.toolkit()
	return tk.Random.Sentence(words)
}

func (b *binding) Words(n int) string {
	_, tk := b.toolkit()
	return tk.Random.Words(n)
}

func (b *binding) Name(length int) string {
	_, tk := b.toolkit()
	return tk.Random.Name(length)
}

func (b *binding) Paragraph() string {
	_, tk := b.toolkit()
	return tk.Random.Paragraph()
}

func (b *binding) HTMLParagraph() string {
	_, tk := b.toolkit()
	return tk.Random.HTMLParagraph()
}

func (b *binding) RichText(paragraphs int) string {
	_, tk := b.toolkit()
	return tk.Random.RichText(paragraphs)
}

func (b *binding) URL() string {
	_, tk := b.toolkit()
	return tk.Random.URL("")
}

func (b *binding) Email() string {
	_, tk := b.toolkit()
	return tk.Random.Email("")
}

func (b *binding) Bool() bool {
	_, tk := b.toolkit()
	return tk.Random.Bool()
}

func (b *binding) Int(lo, hi int) int {
	_, tk := b.toolkit()
	return tk.Random.Int(lo, hi)
}

func (b *binding) Item(items []string) string {
	_, tk := b.toolkit()
	return tk.Random.Item(items)
}

func (b *binding) StaticSentence(words int) string {
	_, tk := b.toolkit()
	return tk.Static.Sentence(words)
}

func (b *binding) StaticName(length int) string {
	_, tk := b.toolkit()
	return tk.Static.Name(length)
}

func (b *binding) StaticParagraph() string {
	_, tk := b.toolkit()
	return tk.Static.Paragraph()
}

func (b *binding) StaticItem(items []string) string {
	_, tk := b.toolkit()
	return tk.Static.Item(items)
}

// Reference returns a random generated entity id, 0 when none exist.
func (b *binding) Reference(entityType, bundle string) int64 {
	ctx, tk := b.toolkit()
	id, err := tk.Reference(ctx, entityType, bundle)
	b.fail(err)
	return id
}

func (b *binding) References(entityType, bundle string, n int) []int64 {
	ctx, tk := b.toolkit()
	ids, err := tk.References(ctx, entityType, bundle, n)
	b.fail(err)
	return ids
}

// File generates and stores an asset of kind and returns the file entity id.
func (b *binding) File(kind string) int64 {
	ctx, tk := b.toolkit()
	k, err := assets.ParseKind(kind)
	if err != nil {
		b.fail(err)
		return 0
	}
	file, err := tk.File(ctx, k, assets.Options{})
	if err != nil {
		b.fail(err)
		return 0
	}
	return file.ID
}

// exports exposes the helpers to yaegi under helperImportPath.
func (b *binding) exports() interp.Exports {
	return interp.Exports{
		helperImportPath + "/gen": {
			"Sentence":        reflect.ValueOf(b.Sentence),
			"Words":           reflect.ValueOf(b.Words),
			"Name":            reflect.ValueOf(b.Name),
			"Paragraph":       reflect.ValueOf(b.Paragraph),
			"HTMLParagraph":   reflect.ValueOf(b.HTMLParagraph),
			"RichText":        reflect.ValueOf(b.RichText),
			"URL":             reflect.ValueOf(b.URL),
			"Email":           reflect.ValueOf(b.Email),
			"Bool":            reflect.ValueOf(b.Bool),
			"Int":             reflect.ValueOf(b.Int),
			"Item":            reflect.ValueOf(b.Item),
			"StaticSentence":  reflect.ValueOf(b.StaticSentence),
			"StaticName":      reflect.ValueOf(b.StaticName),
			"StaticParagraph": reflect.ValueOf(b.StaticParagraph),
			"StaticItem":      reflect.ValueOf(b.StaticItem),
			"Reference":       reflect.ValueOf(b.Reference),
			"References":      reflect.ValueOf(b.References),
			"File":            reflect.ValueOf(b.File),
		},
	}
}

// funcMap exposes the helpers to YAML templates.
func (b *binding) funcMap() template.FuncMap {
	return template.FuncMap{
		"sentence":        b.Sentence,
		"words":           b.Words,
		"name":            b.Name,
		"paragraph":       b.Paragraph,
		"htmlparagraph":   b.HTMLParagraph,
		"richtext":        b.RichText,
		"url":             b.URL,
		"email":           b.Email,
		"bool":            b.Bool,
		"int":             b.Int,
		"item":            func(items ...string) string { return b.Item(items) },
		"staticsentence":  b.StaticSentence,
		"staticname":      b.StaticName,
		"staticparagraph": b.StaticParagraph,
		"staticitem":      func(items ...string) string { return b.StaticItem(items) },
		"reference":       b.Reference,
		"references":      func(entityType, bundle string, n int) string { return joinIDs(b.References(entityType, bundle, n)) },
		"file":            b.File,
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
