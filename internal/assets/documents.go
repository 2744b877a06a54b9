package assets

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const sampleRows = 5

type record struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (g *Generator) records() []record {
	rows := make([]record, sampleRows)
	for i := range rows {
		rows[i] = record{
			ID:    i + 1,
			Name:  g.text.Name(0),
			Email: g.text.Email(""),
			Phone: g.text.Phone(),
		}
	}
	return rows
}

func (g *Generator) csv() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "name", "email", "phone"}); err != nil {
		return nil, err
	}
	for _, row := range g.records() {
		if err := w.Write([]string{strconv.Itoa(row.ID), row.Name, row.Email, row.Phone}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (g *Generator) json(opts Options) ([]byte, error) {
	doc := struct {
		Title string   `json:"title"`
		Items []record `json:"items"`
	}{Title: opts.Label, Items: g.records()}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (g *Generator) html(opts Options) string {
	title := html.EscapeString(opts.Label)
	return fmt.Sprintf("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n<h1>%s</h1>\n%s</body>\n</html>\n",
		title, title, g.text.RichText(3))
}

// pdfEpoch pins the document info dates so static generation is reproducible.
var pdfEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// pdf renders a single letter-size page in the core Helvetica font. Streams
// are left uncompressed so the text stays searchable in the raw bytes.
func (g *Generator) pdf(opts Options) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetCompression(false)
	doc.SetCatalogSort(true)
	doc.SetCreationDate(pdfEpoch)
	doc.SetModificationDate(pdfEpoch)
	doc.SetTitle(opts.Label, false)
	doc.SetMargins(72, 72, 72)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 28, opts.Label, "", 1, "L", false, 0, "")
	doc.Ln(6)
	doc.SetFont("Helvetica", "", 11)
	for i := 0; i < 8; i++ {
		doc.MultiCell(0, 16, g.text.Sentence(8), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`
)

// docxEpoch keeps archive headers stable so static generation is reproducible.
var docxEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func (g *Generator) docx(opts Options) ([]byte, error) {
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	fmt.Fprintf(&body, `<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>%s</w:t></w:r></w:p>`, html.EscapeString(opts.Label))
	for _, paragraph := range g.text.Paragraphs(3) {
		fmt.Fprintf(&body, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, html.EscapeString(paragraph))
	}
	body.WriteString(`</w:body></w:document>`)

	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", body.String()},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: part.name, Method: zip.Deflate, Modified: docxEpoch})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
