package generator

import "styledoc/internal/styleguide"

// Link points at a root section page.
type Link struct {
	Name   string // "position. title"
	URL    string
	Active bool
}

// Page is the data handed to section page templates.
type Page struct {
	Guide    string
	Position string
	Sections []styleguide.Section
	TopLinks []Link
}

// LinkFunc maps a position to the URL of its page.
type LinkFunc func(position string) string

// NewPage collects the sections at or below position and a link for every
// root section.
func NewPage(doc *styleguide.Document, position string, link LinkFunc) Page {
	position = styleguide.CleanPosition(position)
	roots := doc.RootSections()
	links := make([]Link, 0, len(roots))
	for _, s := range roots {
		links = append(links, Link{
			Name:   s.Position + ". " + s.Title,
			URL:    link(s.Position),
			Active: position != "" && styleguide.Section{Position: position}.HasPrefix(s.Position),
		})
	}
	return Page{
		Guide:    doc.Title,
		Position: position,
		Sections: doc.Sections(position),
		TopLinks: links,
	}
}
