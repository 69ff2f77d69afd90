package generator

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"styledoc/internal/styleguide"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	// Descriptions come from the Markdown renderer with raw HTML disabled;
	// example markup is meant to be shown live.
	"raw": func(s string) template.HTML { return template.HTML(s) },
}

// HTMLRenderer renders section pages. A page for position P uses
// section_P.html from the override directory when that file exists.
type HTMLRenderer struct {
	base      *template.Template
	overrides string
}

// NewHTMLRenderer parses the built-in page template. overrides may be empty.
func NewHTMLRenderer(overrides string) (*HTMLRenderer, error) {
	base, err := template.New("section.html").Funcs(funcs).ParseFS(templateFS, "templates/section.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &HTMLRenderer{base: base, overrides: overrides}, nil
}

// RenderPage writes the page for position.
func (r *HTMLRenderer) RenderPage(w io.Writer, page Page) error {
	tpl, err := r.templateFor(page.Position)
	if err != nil {
		return err
	}
	return tpl.Execute(w, page)
}

func (r *HTMLRenderer) templateFor(position string) (*template.Template, error) {
	if r.overrides == "" || position == "" {
		return r.base, nil
	}
	path := filepath.Join(r.overrides, "section_"+position+".html")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return r.base, nil
	}
	tpl, err := template.New(filepath.Base(path)).Funcs(funcs).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("parse override %s: %w", path, err)
	}
	return tpl, nil
}

// PageFile is the file name of a static page for position.
func PageFile(position string) string {
	return "section-" + strings.ReplaceAll(position, "/", "_") + ".html"
}

// ExportHTML writes one page per root section plus an index that redirects
// to the first of them.
func (r *HTMLRenderer) ExportHTML(doc *styleguide.Document, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	var written []string
	for _, root := range doc.RootSections() {
		path := filepath.Join(outputDir, PageFile(root.Position))
		if err := r.writePage(path, NewPage(doc, root.Position, PageFile)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	index := filepath.Join(outputDir, "index.html")
	if err := r.writePage(index, NewPage(doc, firstRoot(doc), PageFile)); err != nil {
		return written, err
	}
	return append(written, index), nil
}

func (r *HTMLRenderer) writePage(path string, page Page) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.RenderPage(f, page); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}

func firstRoot(doc *styleguide.Document) string {
	if roots := doc.RootSections(); len(roots) > 0 {
		return roots[0].Position
	}
	return ""
}
