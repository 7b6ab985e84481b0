package parsers

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// RustParser extracts declarations from Rust source text.
// It holds no trees: every call parses the text it is given.
type RustParser struct {
	*treeSitterParser
}

// NewRustParser creates a new Rust parser.
func NewRustParser() *RustParser {
	lang := sitter.NewLanguage(rust.Language())
	return &RustParser{
		treeSitterParser: newTreeSitterParser(lang, "rust"),
	}
}

// Parse parses text and returns the syntax tree. The caller must Close it.
func (p *RustParser) Parse(text string) (*sitter.Tree, error) {
	return p.parse([]byte(text))
}

// ListFunctions returns one signature per free function and impl method,
// in declaration order.
func (p *RustParser) ListFunctions(text string) ([]string, error) {
	source := []byte(text)
	tree, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	functions := []string{}
	p.walkItems(tree.RootNode(), func(n *sitter.Node) {
		switch n.Kind() {
		case "function_item":
			functions = append(functions, p.formatSignature(n, source, ""))
		case "impl_item":
			typeName := normalizeSpace(extractNodeText(n.ChildByFieldName("type"), source))
			for _, method := range implMethods(n) {
				functions = append(functions, p.formatSignature(method, source, typeName))
			}
		}
	})

	return functions, nil
}

// ListStructs returns struct names in declaration order.
func (p *RustParser) ListStructs(text string) ([]string, error) {
	source := []byte(text)
	tree, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	structs := []string{}
	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Kind() == "struct_item" {
			if name := n.ChildByFieldName("name"); name != nil {
				structs = append(structs, extractNodeText(name, source))
			}
		}
		return true
	})

	return structs, nil
}

// ListEnums returns enums formatted as "Name { A, B }" in declaration order.
func (p *RustParser) ListEnums(text string) ([]string, error) {
	source := []byte(text)
	tree, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	enums := []string{}
	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Kind() != "enum_item" {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return true
		}

		var variants []string
		for _, v := range findChildrenByType(n.ChildByFieldName("body"), "enum_variant") {
			if vn := v.ChildByFieldName("name"); vn != nil {
				variants = append(variants, extractNodeText(vn, source))
			}
		}
		enums = append(enums, fmt.Sprintf("%s { %s }", extractNodeText(nameNode, source), strings.Join(variants, ", ")))
		return true
	})

	return enums, nil
}

// ExtractFunction returns the source of the first function named name.
// Free functions are searched before impl methods.
func (p *RustParser) ExtractFunction(text, name string) (string, error) {
	source := []byte(text)
	tree, err := p.parse(source)
	if err != nil {
		return "", err
	}
	defer tree.Close()

	var functions, methods []*sitter.Node
	p.walkItems(tree.RootNode(), func(n *sitter.Node) {
		switch n.Kind() {
		case "function_item":
			functions = append(functions, n)
		case "impl_item":
			methods = append(methods, implMethods(n)...)
		}
	})

	for _, candidates := range [][]*sitter.Node{functions, methods} {
		for _, fn := range candidates {
			if extractNodeText(fn.ChildByFieldName("name"), source) == name {
				return declarationText(fn, source), nil
			}
		}
	}

	return "", fmt.Errorf("function '%s': %w", name, ErrNotFound)
}

// Outline lists functions, structs and enums of text.
func (p *RustParser) Outline(text string) (*Outline, error) {
	functions, err := p.ListFunctions(text)
	if err != nil {
		return nil, err
	}
	structs, err := p.ListStructs(text)
	if err != nil {
		return nil, err
	}
	enums, err := p.ListEnums(text)
	if err != nil {
		return nil, err
	}
	return &Outline{Functions: functions, Structs: structs, Enums: enums}, nil
}

// walkItems visits module-level items, descending into inline modules only.
// Function, impl and trait bodies are not entered.
func (p *RustParser) walkItems(root *sitter.Node, visit func(*sitter.Node)) {
	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "source_file", "mod_item", "declaration_list":
			return true
		case "function_item", "impl_item":
			visit(n)
		}
		return false
	})
}

// formatSignature renders "fn name(params) -> ret" or "impl Type::name(params) -> ret".
func (p *RustParser) formatSignature(node *sitter.Node, source []byte, typeName string) string {
	name := extractNodeText(node.ChildByFieldName("name"), source)
	params := parameterList(node.ChildByFieldName("parameters"), source)

	ret := "()"
	if returnNode := node.ChildByFieldName("return_type"); returnNode != nil {
		ret = normalizeSpace(extractNodeText(returnNode, source))
	}

	if typeName != "" {
		return fmt.Sprintf("impl %s::%s(%s) -> %s", typeName, name, strings.Join(params, ", "), ret)
	}
	return fmt.Sprintf("fn %s(%s) -> %s", name, strings.Join(params, ", "), ret)
}

// implMethods returns the function items declared in an impl block body.
func implMethods(impl *sitter.Node) []*sitter.Node {
	return findChildrenByType(impl.ChildByFieldName("body"), "function_item")
}

// parameterList renders each parameter with its source text.
func parameterList(params *sitter.Node, source []byte) []string {
	result := []string{}
	if params == nil {
		return result
	}

	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(uint(i))
		switch child.Kind() {
		case "attribute_item", "line_comment", "block_comment":
			continue
		}
		result = append(result, normalizeSpace(extractNodeText(child, source)))
	}
	return result
}

// declarationText returns the node source including attributes and doc
// comments directly above it.
func declarationText(node *sitter.Node, source []byte) string {
	start := node.StartByte()
	for prev := node.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if !isLeadingDecoration(prev, source) {
			break
		}
		start = prev.StartByte()
	}
	return string(source[start:node.EndByte()])
}

func isLeadingDecoration(node *sitter.Node, source []byte) bool {
	switch node.Kind() {
	case "attribute_item":
		return true
	case "line_comment", "block_comment":
		text := extractNodeText(node, source)
		return strings.HasPrefix(text, "///") || strings.HasPrefix(text, "/**")
	}
	return false
}

// normalizeSpace collapses runs of whitespace so multi-line types render on one line.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
