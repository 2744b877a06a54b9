package assets

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/seedbed/internal/gen"
)

func TestGenerateRasterImagesDecode(t *testing.T) {
	g := New(gen.NewRandom(1))
	for _, kind := range []Kind{KindPNG, KindJPG, KindGIF} {
		asset, err := g.Generate(kind, Options{Width: 64, Height: 48})
		require.NoError(t, err, kind)
		cfg, format, err := image.DecodeConfig(bytes.NewReader(asset.Data))
		require.NoError(t, err, kind)
		assert.Equal(t, 64, cfg.Width)
		assert.Equal(t, 48, cfg.Height)
		assert.Contains(t, asset.ContentType, format)
		assert.True(t, strings.HasSuffix(asset.Name, "."+string(kind)))
	}
}

func TestStaticGenerationIsByteStable(t *testing.T) {
	for _, kind := range Kinds() {
		a, err := New(gen.NewStatic()).Generate(kind, Options{Width: 32, Height: 32})
		require.NoError(t, err, kind)
		b, err := New(gen.NewStatic()).Generate(kind, Options{Width: 32, Height: 32})
		require.NoError(t, err, kind)
		assert.Equal(t, a.Name, b.Name, kind)
		assert.True(t, bytes.Equal(a.Data, b.Data), "%s output differs", kind)
	}
}

func TestGenerateUnsupportedKind(t *testing.T) {
	_, err := New(gen.NewStatic()).Generate(Kind("exe"), Options{})
	assert.True(t, errors.Is(err, ErrUnsupportedKind))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(".JPEG")
	require.NoError(t, err)
	assert.Equal(t, KindJPG, kind)

	kind, err = ParseKind("docx")
	require.NoError(t, err)
	assert.Equal(t, KindDOCX, kind)

	_, err = ParseKind("bmp")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestNameOption(t *testing.T) {
	g := New(gen.NewStatic())
	asset, err := g.Generate(KindTXT, Options{Name: "readme"})
	require.NoError(t, err)
	assert.Equal(t, "readme.txt", asset.Name)

	asset, err = g.Generate(KindTXT, Options{Name: "notes.txt", Label: "Release notes"})
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", asset.Name)
	assert.True(t, strings.HasPrefix(string(asset.Data), "Release notes\n"))
}

func TestDocumentFormats(t *testing.T) {
	g := New(gen.NewRandom(4))

	pdf, err := g.Generate(KindPDF, Options{Label: "Quarterly (draft)"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF-1.")))
	assert.True(t, bytes.HasSuffix(pdf.Data, []byte("%%EOF\n")))
	assert.Contains(t, string(pdf.Data), `Quarterly \(draft\)`)
	assert.Contains(t, string(pdf.Data), "D:20000101")
	assert.Contains(t, string(pdf.Data), "/BaseFont /Helvetica")

	docx, err := g.Generate(KindDOCX, Options{Label: "Report"})
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(docx.Data), docx.Size())
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"}, names)

	csvAsset, err := g.Generate(KindCSV, Options{})
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(csvAsset.Data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, sampleRows+1)
	assert.Equal(t, []string{"id", "name", "email", "phone"}, rows[0])

	jsonAsset, err := g.Generate(KindJSON, Options{Label: "People"})
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(jsonAsset.Data, &doc))
	assert.Equal(t, "People", doc["title"])

	htmlAsset, err := g.Generate(KindHTML, Options{Label: "A & B"})
	require.NoError(t, err)
	assert.Contains(t, string(htmlAsset.Data), "<title>A &amp; B</title>")

	svg, err := g.Generate(KindSVG, Options{Width: 100, Height: 50})
	require.NoError(t, err)
	assert.Contains(t, string(svg.Data), `width="100" height="50"`)
}
