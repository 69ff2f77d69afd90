// Package render holds the two text collaborators of the doc-block parser:
// a Markdown renderer for section descriptions and a Django-style template
// renderer for example markup.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Markup renders Markdown descriptions to HTML.
//
// Raw HTML in the source is omitted from the output, since comment text is
// untrusted.
type Markup struct {
	md goldmark.Markdown
}

// NewMarkup creates a Markdown renderer with GitHub-flavoured extensions.
func NewMarkup() *Markup {
	return &Markup{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts text to HTML. Blank input renders to the empty string.
func (m *Markup) Render(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return buf.String(), nil
}
