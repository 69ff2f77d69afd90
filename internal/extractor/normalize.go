package extractor

import (
	"regexp"
	"strings"
)

var starPrefixRe = regexp.MustCompile(`^\s*\*+`)

// Normalize cleans a raw comment block:
//
//   - when every non-blank line starts with optional whitespace and one or
//     more '*', that prefix is removed from every line;
//   - the indentation of the first non-blank line is removed from each line
//     indented at least as far;
//   - the result is trimmed.
//
// Whitespace-only lines become empty.
func Normalize(block string) string {
	lines := strings.Split(block, "\n")

	if allStarred(lines) {
		for i, line := range lines {
			lines[i] = starPrefixRe.ReplaceAllString(line, "")
		}
	}

	indent := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		width := indentWidth(line)
		if indent < 0 {
			indent = width
		}
		if indent > 0 && width >= indent {
			lines[i] = line[indent:]
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func allStarred(lines []string) bool {
	seen := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !starPrefixRe.MatchString(line) {
			return false
		}
		seen = true
	}
	return seen
}

// Dedent removes the indentation common to every non-blank line and empties
// whitespace-only lines.
func Dedent(text string) string {
	lines := strings.Split(text, "\n")

	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if w := indentWidth(line); common < 0 || w < common {
			common = w
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = line[common:]
	}
	return strings.Join(lines, "\n")
}

// IndentWidth counts the leading whitespace characters of line.
func IndentWidth(line string) int {
	return indentWidth(line)
}
