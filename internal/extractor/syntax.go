package extractor

import (
	"strings"
	"unicode"
)

// Syntax describes the comment markers of a stylesheet language family.
// An empty LineMarker disables line comments.
type Syntax struct {
	LineMarker string
	BlockStart string
	BlockEnd   string
}

// DefaultSyntax covers CSS, SCSS, Sass and Less.
var DefaultSyntax = Syntax{
	LineMarker: "//",
	BlockStart: "/*",
	BlockEnd:   "*/",
}

// IsLineComment reports whether line starts, after whitespace, with the line marker.
func (s Syntax) IsLineComment(line string) bool {
	return s.LineMarker != "" && strings.HasPrefix(trimIndent(line), s.LineMarker)
}

// StartsBlock reports whether line starts, after whitespace, with the block-start marker.
func (s Syntax) StartsBlock(line string) bool {
	return strings.HasPrefix(trimIndent(line), s.BlockStart)
}

// EndsBlock reports whether the block-end marker occurs anywhere in line.
func (s Syntax) EndsBlock(line string) bool {
	return strings.Contains(line, s.BlockEnd)
}

// StripLine removes the indentation and leading line marker, plus trailing whitespace.
func (s Syntax) StripLine(line string) string {
	cleaned := strings.TrimPrefix(trimIndent(line), s.LineMarker)
	return strings.TrimRightFunc(cleaned, unicode.IsSpace)
}

// StripBlock removes every block marker and trailing whitespace. Whitespace
// directly before a block-start marker goes with it.
func (s Syntax) StripBlock(line string) string {
	var b strings.Builder
	rest := line
	for {
		i := strings.Index(rest, s.BlockStart)
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(strings.TrimRightFunc(rest[:i], unicode.IsSpace))
		rest = rest[i+len(s.BlockStart):]
	}
	cleaned := strings.ReplaceAll(b.String(), s.BlockEnd, "")
	return strings.TrimRightFunc(cleaned, unicode.IsSpace)
}

func trimIndent(line string) string {
	return strings.TrimLeftFunc(line, unicode.IsSpace)
}

// indentWidth counts leading whitespace characters.
func indentWidth(line string) int {
	return len(line) - len(trimIndent(line))
}
