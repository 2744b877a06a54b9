// Package assets renders placeholder files (images, documents, data files)
// for generated media and file entities.
package assets

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/kingrea/seedbed/internal/gen"
)

// ErrUnsupportedKind is returned for kinds the generator cannot render.
var ErrUnsupportedKind = errors.New("assets: unsupported kind")

// Kind identifies an asset format by its file extension.
type Kind string

const (
	KindPNG  Kind = "png"
	KindJPG  Kind = "jpg"
	KindGIF  Kind = "gif"
	KindSVG  Kind = "svg"
	KindTXT  Kind = "txt"
	KindCSV  Kind = "csv"
	KindJSON Kind = "json"
	KindMD   Kind = "md"
	KindHTML Kind = "html"
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

var contentTypes = map[Kind]string{
	KindPNG:  "image/png",
	KindJPG:  "image/jpeg",
	KindGIF:  "image/gif",
	KindSVG:  "image/svg+xml",
	KindTXT:  "text/plain; charset=utf-8",
	KindCSV:  "text/csv; charset=utf-8",
	KindJSON: "application/json",
	KindMD:   "text/markdown; charset=utf-8",
	KindHTML: "text/html; charset=utf-8",
	KindPDF:  "application/pdf",
	KindDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Kinds lists every supported kind in lexical order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(contentTypes))
	for kind := range contentTypes {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseKind normalises an extension such as ".JPEG" into a Kind.
func ParseKind(value string) (Kind, error) {
	trimmed := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), "."))
	if trimmed == "jpeg" {
		trimmed = string(KindJPG)
	}
	kind := Kind(trimmed)
	if _, ok := contentTypes[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, value)
	}
	return kind, nil
}

// IsImage reports whether the kind is a raster or vector image.
func (k Kind) IsImage() bool {
	switch k {
	case KindPNG, KindJPG, KindGIF, KindSVG:
		return true
	default:
		return false
	}
}

// Options tunes a single asset.
type Options struct {
	// Width and Height apply to images. Zero values default to 640x480.
	Width  int
	Height int
	// Name overrides the generated file name. The kind extension is appended
	// when missing.
	Name string
	// Label is printed into documents and images. Defaults to a generated sentence.
	Label string
}

// Asset is a rendered file held in memory.
type Asset struct {
	Name        string
	Kind        Kind
	ContentType string
	Data        []byte
}

// Size returns the payload length in bytes.
func (a Asset) Size() int64 {
	return int64(len(a.Data))
}

// Generator renders assets using a text generator for names, labels and
// colours. A gen.Static source yields byte-stable output.
type Generator struct {
	text gen.Generator
}

// New wraps a text generator.
func New(text gen.Generator) *Generator {
	return &Generator{text: text}
}

// Generate renders one asset of the requested kind.
func (g *Generator) Generate(kind Kind, opts Options) (Asset, error) {
	contentType, ok := contentTypes[kind]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	opts = g.withDefaults(kind, opts)

	var (
		data []byte
		err  error
	)
	switch kind {
	case KindPNG, KindJPG, KindGIF:
		data, err = g.raster(kind, opts)
	case KindSVG:
		data = g.svg(opts)
	case KindTXT:
		data = []byte(opts.Label + "\n\n" + strings.Join(g.text.Paragraphs(3), "\n\n") + "\n")
	case KindCSV:
		data, err = g.csv()
	case KindJSON:
		data, err = g.json(opts)
	case KindMD:
		data = []byte("# " + opts.Label + "\n\n" + g.text.Markdown(3))
	case KindHTML:
		data = []byte(g.html(opts))
	case KindPDF:
		data, err = g.pdf(opts)
	case KindDOCX:
		data, err = g.docx(opts)
	}
	if err != nil {
		return Asset{}, fmt.Errorf("assets: render %s: %w", kind, err)
	}
	return Asset{Name: opts.Name, Kind: kind, ContentType: contentType, Data: data}, nil
}

func (g *Generator) withDefaults(kind Kind, opts Options) Options {
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}
	if strings.TrimSpace(opts.Label) == "" {
		opts.Label = strings.TrimSuffix(g.text.Sentence(3), ".")
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = fmt.Sprintf("%s-%s", prefixFor(kind), strings.ToLower(g.text.String(8)))
	}
	if strings.TrimPrefix(path.Ext(name), ".") != string(kind) {
		name += "." + string(kind)
	}
	opts.Name = name
	return opts
}

func prefixFor(kind Kind) string {
	if kind.IsImage() {
		return "image"
	}
	return "document"
}
