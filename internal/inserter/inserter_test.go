package inserter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Inserter:
// - Append: empty existing yields the fragment alone
// - Append: non-empty existing gets a blank-line separator
// - Rust: mod/use declarations land after the last top-level mod/use item
// - Rust: other code is appended after the last item with one blank line
// - Rust: unparseable existing text falls back to appending
// - Both: fragment bytes stay contiguous and existing content survives
// - New: selects implementation by mode, rejects unknown modes

// Test: baseline append behavior
func TestAppend_Insert(t *testing.T) {
	t.Parallel()

	ins := Append{}
	assert.Equal(t, "fn a() {}", ins.Insert("", "fn a() {}"))
	assert.Equal(t, "fn a() {}\n\nfn b() {}", ins.Insert("fn a() {}", "fn b() {}"))
	assert.Equal(t, "fn a() {}\n\n\nfn b() {}", ins.Insert("fn a() {}\n", "fn b() {}"))
}

// Test: declarations are grouped with existing mod/use items
func TestRust_Insert_Declaration(t *testing.T) {
	t.Parallel()

	existing := "use std::io;\nmod config;\n\nfn main() {\n    config::load();\n}\n"
	got := NewRust().Insert(existing, "mod new_mod;")

	assert.Equal(t, "use std::io;\nmod config;\nmod new_mod;\n\nfn main() {\n    config::load();\n}\n", got)
}

// Test: inline modules with bodies are not anchors
func TestRust_Insert_DeclarationSkipsInlineModules(t *testing.T) {
	t.Parallel()

	existing := "mod a;\nmod tests {\n    fn t() {}\n}\n"
	got := NewRust().Insert(existing, "pub mod b;")

	assert.Equal(t, "mod a;\npub mod b;\nmod tests {\n    fn t() {}\n}\n", got)
}

// Test: declarations without an anchor are appended
func TestRust_Insert_DeclarationWithoutAnchor(t *testing.T) {
	t.Parallel()

	got := NewRust().Insert("fn main() {}\n\n\n", "mod new_mod;")
	assert.Equal(t, "fn main() {}\n\nmod new_mod;\n", got)
}

// Test: regular code is appended after the last item
func TestRust_Insert_Code(t *testing.T) {
	t.Parallel()

	ins := NewRust()
	assert.Equal(t, "fn hello() {}", ins.Insert("", "fn hello() {}"))
	assert.Equal(t, "fn hello() {}", ins.Insert("\n  \n", "fn hello() {}"))
	assert.Equal(t, "fn a() {}\n\nfn b() {}\n", ins.Insert("fn a() {}\n", "fn b() {}"))
	assert.Equal(t, "fn a() {}\n\nfn b() {}\n", ins.Insert("fn a() {}", "fn b() {}\n"))
}

// Test: broken existing text is never rewritten
func TestRust_Insert_InvalidExisting(t *testing.T) {
	t.Parallel()

	existing := "use std::io;\nfn broken( {\n"
	got := NewRust().Insert(existing, "mod x;")
	assert.True(t, strings.HasPrefix(got, "use std::io;\nfn broken( {"))
	assert.True(t, strings.HasSuffix(got, "mod x;\n"))
}

// Test: invariants hold for both implementations
func TestInserters_PreserveContent(t *testing.T) {
	t.Parallel()

	fragments := []string{
		"fn hello() {\n    println!(\"hi\");\n}",
		"mod extra;",
		"use std::collections::HashMap;",
		"  // indented comment\n",
	}
	existing := []string{
		"",
		"fn main() {}",
		"use a::b;\n\nfn main() {}\n",
		"mod x; // trailing\nfn f() {}",
	}

	for _, ins := range []Inserter{Append{}, NewRust()} {
		for _, e := range existing {
			for _, f := range fragments {
				got := ins.Insert(e, f)
				assert.Contains(t, got, f)
				for _, field := range strings.Fields(e) {
					assert.Contains(t, got, field)
				}
			}
		}
	}
}

// Test: mode selection
func TestNew(t *testing.T) {
	t.Parallel()

	ins, err := New("append")
	require.NoError(t, err)
	assert.IsType(t, Append{}, ins)

	ins, err = New("SMART")
	require.NoError(t, err)
	assert.IsType(t, &Rust{}, ins)

	_, err = New("prepend")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown insert mode")
}

// Test: declaration detection
func TestIsDeclaration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{"mod a;", true},
		{"  pub mod a;\n", true},
		{"pub(crate) use foo::bar;", true},
		{"use a::{b, c};", true},
		{"mod a { }", false},
		{"fn mod_thing();", false},
		{"mod a;\nmod b;", false},
		{"public mod a;", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isDeclaration(tt.code), tt.code)
	}
}
