// Package docblock parses one normalized comment block written in the KSS
// documentation format into a styleguide section.
//
// A full example:
//
//	Heading Styles
//
//	A description for heading styles.
//
//	.alt - An example of a modifier
//
//	<h1 class="{{ modifier }}">Heading level 1</h1>
//	<h2 class="{{ modifier }}">Heading level 2</h2>
//
//	Styleguide 1.1
//
// The block is read as paragraphs separated by blank lines: the first is the
// title, a paragraph containing " - " lists modifiers, everything from the
// first paragraph opening with '<' is the example template, and the rest is
// the Markdown description. The Styleguide line places the section.
package docblock

import (
	"errors"
	"regexp"
	"strings"

	"styledoc/internal/styleguide"
)

// ModifierVar is the template variable bound to a modifier's class name.
const ModifierVar = "modifier"

// ErrRender wraps failures of the markup or template renderer.
var ErrRender = errors.New("render failed")

var declaratorRe = regexp.MustCompile(`Styleguide\s+(\S+)`)

// MarkupRenderer turns description text into display markup.
type MarkupRenderer interface {
	Render(text string) (string, error)
}

// TemplateRenderer renders example markup with variable bindings.
type TemplateRenderer interface {
	Render(text string, bindings map[string]string) (string, error)
}

// IsValid reports whether fragment declares a well-formed position.
func IsValid(fragment string) bool {
	position, ok := findPosition(fragment)
	return ok && styleguide.ValidPosition(styleguide.CleanPosition(position))
}

// findPosition returns the token of the first declarator in text. The
// declarator never spans lines.
func findPosition(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if m := declaratorRe.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}
