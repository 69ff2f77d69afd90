package styleguide

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidPosition is returned when a position is not a dotted hierarchy.
var ErrInvalidPosition = errors.New("invalid styleguide position")

var positionRe = regexp.MustCompile(`^[^.\s]+(\.[^.\s]+)*$`)

// Modifier is a documented style variant of a section, e.g. a CSS class.
type Modifier struct {
	Selector    string `json:"selector"`
	Description string `json:"description"`
	// Template is the section template rendered for this selector.
	// Empty when the section has no template.
	Template string `json:"template,omitempty"`
}

// Section is one documented block of style.
type Section struct {
	Position    string     `json:"position"`
	Title       string     `json:"title"`
	Description string     `json:"description"` // rendered markup
	Modifiers   []Modifier `json:"modifiers,omitempty"`
	Template    string     `json:"template,omitempty"` // base rendering
	Source      string     `json:"source,omitempty"`   // logical name of the originating file
}

// NewSection builds a Section, normalizing and validating its position.
func NewSection(position, title, description string, modifiers []Modifier, template string) (Section, error) {
	position = CleanPosition(position)
	if !ValidPosition(position) {
		return Section{}, fmt.Errorf("%w: %q", ErrInvalidPosition, position)
	}
	return Section{
		Position:    position,
		Title:       title,
		Description: description,
		Modifiers:   modifiers,
		Template:    template,
	}, nil
}

// CleanPosition strips trailing dots.
func CleanPosition(position string) string {
	return strings.TrimRight(position, ".")
}

// ValidPosition reports whether position is one or more dot-separated
// non-empty tokens.
func ValidPosition(position string) bool {
	return positionRe.MatchString(position)
}

// Depth is the number of dots in the position; root sections have depth 0.
func (s Section) Depth() int {
	return strings.Count(s.Position, ".")
}

// HasPrefix reports whether the section lives at or below position.
func (s Section) HasPrefix(position string) bool {
	position = CleanPosition(position)
	if position == "" {
		return true
	}
	p := CleanPosition(s.Position)
	return p == position || strings.HasPrefix(p, position+".")
}

func (s Section) String() string {
	return s.Position + " " + s.Title
}

// ComparePositions orders dotted positions segment by segment. Numeric
// segments compare as integers and sort before non-numeric ones; a position
// sorts before its own extensions. Returns -1, 0 or 1.
func ComparePositions(a, b string) int {
	as := strings.Split(CleanPosition(a), ".")
	bs := strings.Split(CleanPosition(b), ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	// "01" and "1" are numerically equal; keep the order strict.
	return strings.Compare(CleanPosition(a), CleanPosition(b))
}

func compareSegment(a, b string) int {
	an, aerr := strconv.ParseUint(a, 10, 64)
	bn, berr := strconv.ParseUint(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		if an < bn {
			return -1
		}
		if an > bn {
			return 1
		}
		return 0
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
