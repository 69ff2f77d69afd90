package generator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"styledoc/internal/styleguide"
)

// WriteMarkdown renders the whole document as Markdown. Headings nest by
// section depth; descriptions are embedded as the HTML they were rendered to.
func WriteMarkdown(w io.Writer, doc *styleguide.Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", doc.Title)
	for _, s := range doc.Sections("") {
		level := min(2+s.Depth(), 6)
		fmt.Fprintf(bw, "\n%s %s %s\n", strings.Repeat("#", level), s.Position, s.Title)

		if s.Description != "" {
			fmt.Fprintf(bw, "\n%s", ensureNewline(s.Description))
		}

		if len(s.Modifiers) > 0 {
			bw.WriteString("\n| Modifier | Description |\n|---|---|\n")
			for _, m := range s.Modifiers {
				fmt.Fprintf(bw, "| `%s` | %s |\n", m.Selector, escapeCell(m.Description))
			}
		}

		if s.Template != "" {
			fmt.Fprintf(bw, "\n```html\n%s```\n", ensureNewline(s.Template))
		}
	}
	return bw.Flush()
}

// GenerateDocs writes documentation.md into outputDir.
func GenerateDocs(doc *styleguide.Document, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, "documentation.md")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteMarkdown(f, doc); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
