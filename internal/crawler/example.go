package crawler

import "context"

// Static is a fixed set of sources, useful for fixtures and tests.
type Static []Source

// Sources returns a copy of s.
func (s Static) Sources(context.Context) ([]Source, error) {
	return append([]Source(nil), s...), nil
}

// ExampleSources is a small sample style guide.
func ExampleSources() Static {
	return Static{{Name: "example.scss", Text: exampleStylesheet}}
}

const exampleStylesheet = `// Example style guide
//
// Styleguide 1

// Typography
//
// Common text styles and line-heights.
//
// Styleguide 1.1
body {
  font: 16px/1.5 sans-serif;
}

// Headings
//
// .alt - Use alternate variation
//
// Styleguide 1.2
h1.alt, h2.alt {
  font-style: italic;
}

/*
 * Lists
 *
 * By default, lists receive no styling.
 *
 * .plain - Add plain styling
 * .fancy - Add image bullets
 *
 *     <ul class="{{ modifier }}">
 *         <li>Item 1</li>
 *         <li>Item 2</li>
 *         <li>Item 3</li>
 *     </ul>
 *
 * Styleguide 1.3
 */
ul.fancy {
  list-style-image: url(bullet.png);
}
`
