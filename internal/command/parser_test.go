package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Parse:
// - Every verb maps to its command type, case-insensitively
// - Arguments after the verb are kept verbatim (search, test, show)
// - run splits its arguments on whitespace
// - add into carries the code after the first newline
// - list distinguishes files from functions
// - Malformed input returns a ParseError wrapping ErrParse
// - Every command type is reachable from some input

func strPtr(s string) *string { return &s }

// Test: well-formed commands
func TestParse_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{"search", "search spawn_npc", Search{Query: "spawn_npc"}},
		{"search keeps spaces", "search fn main", Search{Query: "fn main"}},
		{"search case-insensitive verb", "SEARCH Foo", Search{Query: "Foo"}},
		{"surrounding whitespace", "  \tsearch x \n", Search{Query: "x"}},
		{"add into", "add into src/npc.rs\nfn spawn_npc() {}", InsertCode{File: "src/npc.rs", Code: "fn spawn_npc() {}"}},
		{"add multi-line code", "add into src/a.rs\nfn a() {\n    b();\n}", InsertCode{File: "src/a.rs", Code: "fn a() {\n    b();\n}"}},
		{"add without code", "add into src/empty.rs", InsertCode{File: "src/empty.rs", Code: ""}},
		{"add trims file", "add into  src/a.rs  \nfn a() {}", InsertCode{File: "src/a.rs", Code: "fn a() {}"}},
		{"build", "build", Build{}},
		{"build ignores rest", "build --everything", Build{}},
		{"run", "run", Run{Args: []string{}}},
		{"run with args", "run --verbose --flag", Run{Args: []string{"--verbose", "--flag"}}},
		{"run collapses whitespace", "run a   b\tc", Run{Args: []string{"a", "b", "c"}}},
		{"test", "test", Test{}},
		{"test with name", "test parser::works", Test{Name: strPtr("parser::works")}},
		{"profile", "Profile", Profile{}},
		{"list", "list", ListFiles{}},
		{"list files", "list files", ListFiles{}},
		{"list functions", "list functions src/main.rs", ListFunctions{File: "src/main.rs"}},
		{"show file", "show src/main.rs", ShowFile{File: "src/main.rs"}},
		{"show function", "show src/npc.rs::spawn_npc", ShowFunction{File: "src/npc.rs", Function: "spawn_npc"}},
		{"show splits on first separator", "show a.rs::b::c", ShowFunction{File: "a.rs", Function: "b::c"}},
		{"help", "help", Help{}},
		{"help ignores rest", "HELP me", Help{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Test: malformed commands
func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty", "", "empty command"},
		{"blank", "   \n", "empty command"},
		{"unknown verb", "deploy prod", "unknown command: deploy"},
		{"search without query", "search", "missing search query"},
		{"add without target", "add", "usage: add into <file>\n<code>"},
		{"add without into", "add to src/a.rs", "expected 'add into <file>'"},
		{"list functions without file", "list functions", "missing file name"},
		{"list functions blank file", "list functions   ", "missing file name"},
		{"list unknown", "list structs", "unknown list command: structs"},
		{"show without file", "show", "missing file name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrParse)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.message, perr.Message)
		})
	}
}

// Test: every command type can be produced by the parser
func TestParse_CoversAllCommands(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"search x", "add into a.rs\nfn a() {}", "build", "run", "test",
		"profile", "list", "show a.rs", "show a.rs::f", "list functions a.rs", "help",
	}

	seen := map[string]bool{}
	for _, in := range inputs {
		cmd, err := Parse(in)
		require.NoError(t, err, in)
		seen[typeName(cmd)] = true
	}

	for _, cmd := range All() {
		assert.True(t, seen[typeName(cmd)], "no input produces %T", cmd)
	}
}

// Test: verb names
func TestCommand_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "add", InsertCode{}.Name())
	assert.Equal(t, "list", ListFunctions{}.Name())
	assert.Equal(t, "show", ShowFunction{}.Name())
	assert.Len(t, All(), 11)
}

func typeName(c Command) string {
	switch c.(type) {
	case Search:
		return "Search"
	case InsertCode:
		return "InsertCode"
	case Build:
		return "Build"
	case Run:
		return "Run"
	case Test:
		return "Test"
	case Profile:
		return "Profile"
	case ListFiles:
		return "ListFiles"
	case ShowFile:
		return "ShowFile"
	case ShowFunction:
		return "ShowFunction"
	case ListFunctions:
		return "ListFunctions"
	case Help:
		return "Help"
	}
	return ""
}
