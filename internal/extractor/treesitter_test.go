package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTreeSitterExtractor_Blocks(t *testing.T) {
	blocks := Collect(NewTreeSitterExtractor(DefaultSyntax), readTestdata(t, "buttons.css"))

	t.Run("Starred block", func(t *testing.T) {
		assert.Contains(t, blocks, "Buttons\n\n.primary - Use for the main call to action.\n\nStyleguide 2.1")
	})

	t.Run("Trailing comment after a rule", func(t *testing.T) {
		assert.Contains(t, blocks, "trailing note")
	})
}

func TestTreeSitterExtractor_MatchesLineScanForBlockComments(t *testing.T) {
	source := "/* First */\n\na { color: red; }\n\n/*\n * Second\n *\n * body\n */\n"

	line := Collect(NewLineExtractor(DefaultSyntax), source)
	syntaxAware := Collect(NewTreeSitterExtractor(DefaultSyntax), source)

	assert.Equal(t, []string{"First", "Second\n\nbody"}, line)
	assert.Equal(t, line, syntaxAware)
}

func TestTreeSitterExtractor_LineComments(t *testing.T) {
	source := "// One\n// Two\n\n.a { color: red; }\n\n// Three\n"

	line := Collect(NewLineExtractor(DefaultSyntax), source)
	syntaxAware := Collect(NewTreeSitterExtractor(DefaultSyntax), source)

	assert.Equal(t, []string{"One\nTwo", "Three"}, line)
	assert.Equal(t, line, syntaxAware)
}

func TestTreeSitterExtractor_InvalidRuleKeepsComments(t *testing.T) {
	source := "/* Kept */\n\n.a { color: ;;; }}\n"

	assert.Contains(t, Collect(NewTreeSitterExtractor(DefaultSyntax), source), "Kept")
}
