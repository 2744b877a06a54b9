package gen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

// RichText builds a markdown document of headings, paragraphs and a list and
// renders it to HTML.
func (t text) RichText(paragraphs int) string {
	if paragraphs <= 0 {
		paragraphs = 3
	}
	return RenderMarkdown(t.Markdown(paragraphs))
}

// Markdown returns the markdown source used by RichText.
func (t text) Markdown(paragraphs int) string {
	if paragraphs <= 0 {
		paragraphs = 3
	}
	var b strings.Builder
	for i := 0; i < paragraphs; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&b, "## %s\n\n", strings.TrimSuffix(t.Sentence(3), "."))
		}
		b.WriteString(t.Paragraph())
		b.WriteString("\n\n")
	}
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, "- %s\n", t.Sentence(4))
	}
	return b.String()
}

// RenderMarkdown converts markdown to HTML. Conversion failures fall back to
// the escaped source wrapped in a paragraph.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "<p>" + strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(source) + "</p>"
	}
	return buf.String()
}
