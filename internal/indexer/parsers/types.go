package parsers

import (
	"errors"
	"fmt"
)

var (
	// ErrGrammar indicates source text that is not valid for the target grammar.
	ErrGrammar = errors.New("syntax error")

	// ErrNotFound indicates a named declaration that does not exist in the file.
	ErrNotFound = errors.New("not found")
)

// GrammarError carries the diagnostic for the first syntax error in a file.
type GrammarError struct {
	Lang    string
	Line    int // 1-based, 0 when unknown
	Column  int // 1-based, 0 when unknown
	Message string
}

func (e *GrammarError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s source: %s at line %d, column %d", e.Lang, e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("failed to parse %s source: %s", e.Lang, e.Message)
}

func (e *GrammarError) Unwrap() error {
	return ErrGrammar
}

// Outline groups the declarations of a single file.
type Outline struct {
	Functions []string `json:"functions"`
	Structs   []string `json:"structs"`
	Enums     []string `json:"enums"`
}
