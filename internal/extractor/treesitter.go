package extractor

import (
	"context"
	"iter"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
)

// TreeSitterExtractor finds comments with the tree-sitter CSS grammar instead
// of line heuristics, so comments that trail a declaration on the same line
// are found too. The grammar reads "//" comments as js_comment nodes;
// consecutive ones on adjacent rows form one block. Syntax errors elsewhere
// in the stylesheet leave the comment nodes in the tree.
type TreeSitterExtractor struct {
	syntax Syntax
}

// NewTreeSitterExtractor creates a syntax-aware extractor.
func NewTreeSitterExtractor(syntax Syntax) *TreeSitterExtractor {
	return &TreeSitterExtractor{syntax: syntax}
}

type commentNode struct {
	text      string
	startRow  uint32
	endRow    uint32
	lineStyle bool
}

// Blocks yields one normalized block per comment node or run of line comments.
func (e *TreeSitterExtractor) Blocks(source string) iter.Seq[string] {
	return func(yield func(string) bool) {
		src := []byte(source)

		parser := sitter.NewParser()
		defer parser.Close()
		parser.SetLanguage(css.GetLanguage())

		// Only cancellation fails a parse.
		tree, err := parser.ParseCtx(context.Background(), nil, src)
		if err != nil {
			return
		}
		defer tree.Close()

		var (
			group []string
			last  *commentNode
		)
		flush := func() bool {
			if len(group) == 0 {
				return true
			}
			block := Normalize(strings.Join(group, "\n"))
			group = nil
			if block == "" {
				return true
			}
			return yield(block)
		}

		for _, c := range e.comments(tree.RootNode(), src) {
			adjacent := last != nil && last.lineStyle && c.lineStyle && c.startRow == last.endRow+1
			if !adjacent && !flush() {
				return
			}
			if c.lineStyle {
				group = append(group, e.syntax.StripLine(c.text))
			} else {
				for _, line := range strings.Split(c.text, "\n") {
					group = append(group, e.syntax.StripBlock(line))
				}
			}
			last = &c
		}
		flush()
	}
}

// comments lists comment nodes in document order.
func (e *TreeSitterExtractor) comments(root *sitter.Node, src []byte) []commentNode {
	var out []commentNode
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "comment", "js_comment":
			text := n.Content(src)
			out = append(out, commentNode{
				text:      text,
				startRow:  n.StartPoint().Row,
				endRow:    n.EndPoint().Row,
				lineStyle: e.syntax.LineMarker != "" && strings.HasPrefix(text, e.syntax.LineMarker),
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)
	return out
}
