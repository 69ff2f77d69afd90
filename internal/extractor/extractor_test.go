package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestSyntax_Detection(t *testing.T) {
	s := DefaultSyntax

	assert.True(t, s.IsLineComment("// yuuuuup"))
	assert.True(t, s.IsLineComment("    // indented"))
	assert.False(t, s.IsLineComment("nooooope"))
	assert.False(t, s.IsLineComment("a { } // trailing"))

	assert.True(t, s.StartsBlock("/* yuuuuup"))
	assert.False(t, s.StartsBlock("nooooope"))

	assert.True(t, s.EndsBlock("yuuuuup */"))
	assert.False(t, s.EndsBlock("nooooope"))

	assert.Equal(t, " yuuuuup", s.StripLine("// yuuuuup"))
	assert.Equal(t, " yuuuup", s.StripBlock("/* yuuuup */"))
	assert.Equal(t, " Look at my //cool// art!", s.StripBlock("  /* Look at my //cool// art! */"))
}

func TestLineExtractor_Blocks(t *testing.T) {
	blocks := Collect(NewLineExtractor(DefaultSyntax), readTestdata(t, "comments.scss"))

	t.Run("Single-line comments", func(t *testing.T) {
		assert.Contains(t, blocks, "This comment block has comment identifiers on every line.\n"+
			"\n"+
			"Fun fact: this is Kyle's favorite comment syntax!")
	})

	t.Run("Block comments", func(t *testing.T) {
		assert.Contains(t, blocks, "This comment block is a block-style comment syntax.\n"+
			"\n"+
			"There's only two identifier across multiple lines.")
		assert.Contains(t, blocks, "This is another common multi-line comment style.\n"+
			"\n"+
			"It has stars at the begining of every line.")
	})

	t.Run("Mixed styles", func(t *testing.T) {
		assert.Contains(t, blocks, "This comment has a /* comment */ identifier inside of it!")
		assert.Contains(t, blocks, "Look at my //cool// comment art!")
	})

	t.Run("Indented comments", func(t *testing.T) {
		assert.Contains(t, blocks, "Indented single-line comment.")
		assert.Contains(t, blocks, "Indented block comment.")
	})

	t.Run("Prose is ignored", func(t *testing.T) {
		assert.Len(t, blocks, 7)
	})
}

func TestLineExtractor_Restartable(t *testing.T) {
	source := readTestdata(t, "comments.scss")
	ext := NewLineExtractor(DefaultSyntax)

	seq := ext.Blocks(source)
	first := Collect(ext, source)

	var again []string
	for block := range seq {
		again = append(again, block)
	}
	assert.Equal(t, first, again)
	assert.Equal(t, first, Collect(ext, source))
}

func TestLineExtractor_EarlyStop(t *testing.T) {
	var got []string
	for block := range NewLineExtractor(DefaultSyntax).Blocks(readTestdata(t, "comments.scss")) {
		got = append(got, block)
		if len(got) == 2 {
			break
		}
	}
	assert.Len(t, got, 2)
}

func TestLineExtractor_OpenRegionAtEOF(t *testing.T) {
	ext := NewLineExtractor(DefaultSyntax)

	t.Run("Unterminated block comment is dropped", func(t *testing.T) {
		assert.Empty(t, Collect(ext, "/* never closed\nstill open"))
	})

	t.Run("Line comment without trailing newline is dropped", func(t *testing.T) {
		assert.Empty(t, Collect(ext, "a {}\n// last line"))
	})

	t.Run("Trailing newline closes the region", func(t *testing.T) {
		assert.Equal(t, []string{"last line"}, Collect(ext, "a {}\n// last line\n"))
	})
}

func TestLineExtractor_StartAndEndOnOneLine(t *testing.T) {
	blocks := Collect(NewLineExtractor(DefaultSyntax), "/* one */\n/* two */\n")
	assert.Equal(t, []string{"one", "two"}, blocks)
}

func TestLineExtractor_BlockOnlySyntax(t *testing.T) {
	syntax := Syntax{BlockStart: "/*", BlockEnd: "*/"}
	blocks := Collect(NewLineExtractor(syntax), "// not a comment here\n/* real */\n")
	assert.Equal(t, []string{"real"}, blocks)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Stars stripped from every line",
			in:   " * Title\n *\n ** Body *text*",
			want: "Title\n\nBody *text*",
		},
		{
			name: "Stars kept when a line is unstarred",
			in:   "* one\ntwo",
			want: "* one\ntwo",
		},
		{
			name: "First line indent removed",
			in:   "    Title\n\n      nested\n    body",
			want: "Title\n\n  nested\nbody",
		},
		{
			name: "Shallower lines untouched",
			in:   "  deep\nshallow",
			want: "deep\nshallow",
		},
		{
			name: "Whitespace-only lines become empty",
			in:   "  a\n     \n  b",
			want: "a\n\nb",
		},
		{
			name: "Empty",
			in:   "\n\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNewExtractor(t *testing.T) {
	for _, mode := range []string{"", ModeLine, ModeTreeSitter} {
		ext, err := NewExtractor(mode)
		require.NoError(t, err)
		assert.NotNil(t, ext)
	}

	_, err := NewExtractor("regex")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestDedent(t *testing.T) {
	assert.Equal(t, "a\n  b\n\nc", Dedent("    a\n      b\n   \n    c"))
	assert.Equal(t, "flush\n  kept", Dedent("flush\n  kept"))
	assert.Equal(t, "", Dedent(""))
	assert.Equal(t, 3, IndentWidth("   x"))
}
