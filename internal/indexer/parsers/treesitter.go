package parsers

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// treeSitterParser provides common tree-sitter parsing functionality.
type treeSitterParser struct {
	language *sitter.Language
	lang     string
}

// newTreeSitterParser creates a new tree-sitter parser for the given language.
func newTreeSitterParser(language *sitter.Language, lang string) *treeSitterParser {
	return &treeSitterParser{
		language: language,
		lang:     lang,
	}
}

// parse builds a fresh syntax tree for source. The caller owns the tree and
// must Close it. Trees are never reused across calls.
func (p *treeSitterParser) parse(source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set %s grammar: %w", p.lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &GrammarError{Lang: p.lang, Message: "parser returned no tree"}
	}

	root := tree.RootNode()
	if root.HasError() {
		gerr := grammarErrorAt(firstErrorNode(root), source, p.lang)
		tree.Close()
		return nil, gerr
	}

	return tree, nil
}

// grammarErrorAt describes the first ERROR or MISSING node of a tree.
func grammarErrorAt(node *sitter.Node, source []byte, lang string) *GrammarError {
	if node == nil {
		return &GrammarError{Lang: lang, Message: "syntax error"}
	}

	pos := node.StartPosition()
	gerr := &GrammarError{
		Lang:   lang,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}

	if node.IsMissing() {
		gerr.Message = fmt.Sprintf("missing `%s`", node.Kind())
		return gerr
	}

	snippet := extractNodeText(node, source)
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	snippet = strings.TrimSpace(snippet)
	if len(snippet) > 40 {
		snippet = snippet[:40] + "..."
	}
	if snippet == "" {
		gerr.Message = "unexpected end of input"
	} else {
		gerr.Message = fmt.Sprintf("unexpected `%s`", snippet)
	}
	return gerr
}

// firstErrorNode returns the first ERROR or MISSING node in document order.
func firstErrorNode(root *sitter.Node) *sitter.Node {
	var found *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})
	return found
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
// Returning false from the visitor skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		walkTree(child, visitor)
	}
}

// findChildrenByType finds all direct child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}
