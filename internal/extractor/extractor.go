package extractor

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// Extraction modes.
const (
	ModeLine       = "line"
	ModeTreeSitter = "treesitter"
)

// ErrUnknownMode is returned by NewExtractor for an unsupported mode.
var ErrUnknownMode = errors.New("unknown extractor mode")

// Extractor turns the text of one stylesheet into normalized comment blocks.
// Implementations keep no state between calls, so ranging over the same
// source twice yields the same blocks.
type Extractor interface {
	Blocks(source string) iter.Seq[string]
}

// NewExtractor creates an extractor for the given mode. An empty mode selects
// line scanning.
func NewExtractor(mode string) (Extractor, error) {
	switch mode {
	case "", ModeLine:
		return NewLineExtractor(DefaultSyntax), nil
	case ModeTreeSitter:
		return NewTreeSitterExtractor(DefaultSyntax), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
}

// Collect runs e over source and gathers every block.
func Collect(e Extractor, source string) []string {
	return slices.Collect(e.Blocks(source))
}
