// Package inserter merges new code fragments into existing file text.
//
// Every implementation keeps the fragment's bytes unmodified and contiguous
// in the output and never removes non-whitespace content of the existing text.
package inserter

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// Mode names accepted by New.
const (
	ModeAppend = "append"
	ModeSmart  = "smart"
)

// Inserter merges newCode into existing.
type Inserter interface {
	Insert(existing, newCode string) string
}

// New returns the inserter for a configured mode.
func New(mode string) (Inserter, error) {
	switch strings.ToLower(mode) {
	case ModeAppend:
		return Append{}, nil
	case ModeSmart, "":
		return NewRust(), nil
	default:
		return nil, fmt.Errorf("unknown insert mode %q (expected %q or %q)", mode, ModeAppend, ModeSmart)
	}
}

// Append separates the fragment from existing content by a blank line.
type Append struct{}

// Insert implements Inserter.
func (Append) Insert(existing, newCode string) string {
	if existing == "" {
		return newCode
	}
	return existing + "\n\n" + newCode
}

// Rust places single mod/use declarations next to the existing ones and
// appends everything else after the last item.
type Rust struct {
	language *sitter.Language
}

// NewRust creates a Rust-aware inserter.
func NewRust() *Rust {
	return &Rust{language: sitter.NewLanguage(rust.Language())}
}

// Insert implements Inserter.
func (r *Rust) Insert(existing, newCode string) string {
	if strings.TrimSpace(existing) == "" {
		return newCode
	}

	if isDeclaration(newCode) {
		if offset, ok := r.declarationAnchor(existing); ok {
			return existing[:offset] + "\n" + newCode + existing[offset:]
		}
	}

	merged := strings.TrimRight(existing, " \t\r\n") + "\n\n" + newCode
	if !strings.HasSuffix(newCode, "\n") {
		merged += "\n"
	}
	return merged
}

// declarationAnchor returns the offset of the line end after the last
// top-level use declaration or body-less mod item.
func (r *Rust) declarationAnchor(existing string) (int, bool) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(r.language); err != nil {
		return 0, false
	}

	source := []byte(existing)
	tree := parser.Parse(source, nil)
	if tree == nil {
		return 0, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return 0, false
	}

	end := -1
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(uint(i))
		switch child.Kind() {
		case "use_declaration":
			end = int(child.EndByte())
		case "mod_item":
			if child.ChildByFieldName("body") == nil {
				end = int(child.EndByte())
			}
		}
	}
	if end < 0 {
		return 0, false
	}

	// Keep trailing comments on the anchor line above the new declaration.
	if nl := strings.IndexByte(existing[end:], '\n'); nl >= 0 {
		return end + nl, true
	}
	return len(existing), true
}

// isDeclaration reports whether code is one single-line mod or use declaration.
func isDeclaration(code string) bool {
	line := strings.TrimSpace(code)
	if line == "" || strings.Contains(line, "\n") || !strings.HasSuffix(line, ";") {
		return false
	}

	line = stripVisibility(line)
	return strings.HasPrefix(line, "mod ") || strings.HasPrefix(line, "use ")
}

// stripVisibility removes a leading pub or pub(...) qualifier.
func stripVisibility(line string) string {
	if !strings.HasPrefix(line, "pub") {
		return line
	}
	rest := line[len("pub"):]
	if strings.HasPrefix(rest, "(") {
		closing := strings.IndexByte(rest, ')')
		if closing < 0 {
			return line
		}
		rest = rest[closing+1:]
	}
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return line
	}
	return strings.TrimLeft(rest, " \t")
}
