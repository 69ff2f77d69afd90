package styleguide

import (
	"encoding/json"
	"slices"
)

// DefaultTitle is used when a document is built without an explicit title.
const DefaultTitle = "Style Guide"

// Document is an ordered, read-only collection of sections.
type Document struct {
	Title    string
	sections []Section
}

// NewDocument copies sections and sorts them by position.
func NewDocument(title string, sections []Section) *Document {
	if title == "" {
		title = DefaultTitle
	}
	sorted := slices.Clone(sections)
	SortSections(sorted)
	return &Document{Title: title, sections: sorted}
}

// SortSections sorts in place by ComparePositions. The sort is stable so
// duplicate positions keep their input order.
func SortSections(sections []Section) {
	slices.SortStableFunc(sections, func(a, b Section) int {
		return ComparePositions(a.Position, b.Position)
	})
}

// Sections returns every section at or below position, in position order.
// An empty position returns all sections.
func (d *Document) Sections(position string) []Section {
	out := make([]Section, 0, len(d.sections))
	for _, s := range d.sections {
		if s.HasPrefix(position) {
			out = append(out, s)
		}
	}
	return out
}

// RootSections returns the depth-0 sections in position order.
func (d *Document) RootSections() []Section {
	var out []Section
	for _, s := range d.sections {
		if s.Depth() == 0 {
			out = append(out, s)
		}
	}
	return out
}

// Section looks up the first section with exactly this position.
func (d *Document) Section(position string) (Section, bool) {
	position = CleanPosition(position)
	for _, s := range d.sections {
		if s.Position == position {
			return s, true
		}
	}
	return Section{}, false
}

// Len is the number of sections.
func (d *Document) Len() int {
	return len(d.sections)
}

func (d *Document) String() string {
	return d.Title
}

type documentJSON struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// MarshalJSON encodes the title and the ordered sections.
func (d *Document) MarshalJSON() ([]byte, error) {
	sections := d.sections
	if sections == nil {
		sections = []Section{}
	}
	return json.Marshal(documentJSON{Title: d.Title, Sections: sections})
}

// UnmarshalJSON decodes a document and restores position order.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = *NewDocument(raw.Title, raw.Sections)
	return nil
}
