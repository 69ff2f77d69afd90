package extractor

import (
	"iter"
	"strings"
)

// LineExtractor scans a source one line at a time, tracking line-comment and
// block-comment regions independently.
//
// A region still open at the end of the input is dropped: a file whose last
// line is a comment with no trailing newline, or an unterminated block
// comment, yields nothing for that region.
type LineExtractor struct {
	syntax Syntax
}

// NewLineExtractor creates a line-oriented extractor for the given syntax.
func NewLineExtractor(syntax Syntax) *LineExtractor {
	return &LineExtractor{syntax: syntax}
}

// Blocks yields one normalized block per contiguous comment region.
func (e *LineExtractor) Blocks(source string) iter.Seq[string] {
	return func(yield func(string) bool) {
		var (
			current []string
			inLine  bool
			inBlock bool
			syntax  = e.syntax
		)

		for _, line := range strings.Split(source, "\n") {
			lineComment := syntax.IsLineComment(line)

			if lineComment {
				parsed := syntax.StripLine(line)
				if inLine {
					current = append(current, parsed)
				} else {
					current = []string{parsed}
					inLine = true
				}
			}

			if syntax.StartsBlock(line) || inBlock {
				parsed := syntax.StripBlock(line)
				if inBlock {
					current = append(current, parsed)
				} else {
					current = []string{parsed}
					inBlock = true
				}
			}

			if syntax.EndsBlock(line) {
				inBlock = false
			}

			if lineComment || inBlock {
				continue
			}

			if block := strings.Join(current, "\n"); block != "" {
				if !yield(Normalize(block)) {
					return
				}
			}
			inLine = false
			current = nil
		}
	}
}
