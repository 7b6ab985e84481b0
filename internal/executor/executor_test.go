package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vibe-coder/vibe/internal/command"
	"github.com/vibe-coder/vibe/internal/indexer/parsers"
	"github.com/vibe-coder/vibe/internal/toolchain"
	"github.com/vibe-coder/vibe/internal/workspace"
)

// Test Plan for Executor:
// - Help works without a workspace, everything else fails with ErrNoWorkspace
// - Every command type is dispatched (no unsupported branch reached)
// - Toolchain commands use fixed argument templates in the workspace root
// - Toolchain output is labeled from the exit status, non-zero exit is not an error
// - Launch failures propagate as errors
// - Search, list, show and add render the documented text
// - Indexer failures (not found, syntax errors) propagate with context
// - ExecuteLine surfaces parse errors

type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	dirs   []string
	result *toolchain.Result
	err    error
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) (*toolchain.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, args)
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &toolchain.Result{Args: args, Stdout: "ok\n"}, nil
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func newExecutor(t *testing.T, root string, runner Runner) *Executor {
	t.Helper()
	ws, err := workspace.Load(root, workspace.DefaultOptions())
	require.NoError(t, err)
	return New(runner, WithWorkspace(ws), WithLogger(zaptest.NewLogger(t)))
}

const sampleMain = `fn add(a: i32, b: i32) -> i32 {
    a + b
}

struct Point {
    x: i32,
}

impl Point {
    fn new(x: i32) -> Self {
        Point { x }
    }
}

fn main() {
    println!("{}", add(1, 2));
}
`

// Test: help without a workspace
func TestExecute_HelpWithoutWorkspace(t *testing.T) {
	t.Parallel()

	e := New(&fakeRunner{})
	out, err := e.Execute(context.Background(), command.Help{})
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "show <file>::<function>")
}

// Test: every other command needs a workspace
func TestExecute_NoWorkspace(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	e := New(runner)
	for _, cmd := range command.All() {
		if _, ok := cmd.(command.Help); ok {
			continue
		}
		_, err := e.Execute(context.Background(), cmd)
		assert.ErrorIs(t, err, ErrNoWorkspace, "%T", cmd)
	}
	assert.Empty(t, runner.calls)
}

// Test: the dispatch table covers every command type
func TestExecute_Exhaustive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main.rs", sampleMain)
	e := newExecutor(t, root, &fakeRunner{})

	cmds := []command.Command{
		command.Search{Query: "main"},
		command.InsertCode{File: "src/extra.rs", Code: "fn extra() {}"},
		command.Build{},
		command.Run{},
		command.Test{},
		command.Profile{},
		command.ListFiles{},
		command.ShowFile{File: "src/main.rs"},
		command.ShowFunction{File: "src/main.rs", Function: "main"},
		command.ListFunctions{File: "src/main.rs"},
		command.Help{},
	}
	require.Len(t, cmds, len(command.All()))

	for _, cmd := range cmds {
		_, err := e.Execute(context.Background(), cmd)
		assert.NoError(t, err, "%T", cmd)
		assert.NotErrorIs(t, err, ErrUnsupportedCommand)
	}
}

// Test: toolchain argument templates
func TestExecute_ToolchainTemplates(t *testing.T) {
	t.Parallel()

	name := "npc::spawn"
	tests := []struct {
		cmd  command.Command
		args []string
	}{
		{command.Build{}, []string{"build"}},
		{command.Run{}, []string{"run"}},
		{command.Run{Args: []string{"--verbose", "--flag"}}, []string{"run", "--", "--verbose", "--flag"}},
		{command.Test{}, []string{"test"}},
		{command.Test{Name: &name}, []string{"test", "npc::spawn"}},
		{command.Profile{}, []string{"build", "--release"}},
	}

	for _, tt := range tests {
		runner := &fakeRunner{}
		e := newExecutor(t, t.TempDir(), runner)

		_, err := e.Execute(context.Background(), tt.cmd)
		require.NoError(t, err)
		require.Len(t, runner.calls, 1)
		assert.Equal(t, tt.args, runner.calls[0])
		assert.Equal(t, e.Workspace().Root(), runner.dirs[0])
	}
}

// Test: labels derived from exit status
func TestExecute_ToolchainLabels(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: &toolchain.Result{Stdout: "compiled\n", Stderr: "warning: unused\n"}}
	e := newExecutor(t, t.TempDir(), runner)

	out, err := e.Execute(context.Background(), command.Build{})
	require.NoError(t, err)
	assert.Equal(t, "Build succeeded\n\ncompiled\nwarning: unused\n", out)

	runner.result = &toolchain.Result{Stderr: "error[E0425]\n", ExitCode: 101}
	out, err = e.Execute(context.Background(), command.Build{})
	require.NoError(t, err)
	assert.Equal(t, "Build failed (exit status 101)\n\nerror[E0425]\n", out)

	out, err = e.Execute(context.Background(), command.Profile{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Profile build failed (exit status 101)"))

	runner.result = nil
	out, err = e.Execute(context.Background(), command.Test{})
	require.NoError(t, err)
	assert.Equal(t, "Test succeeded\n\nok\n", out)
}

// Test: launch failures are errors
func TestExecute_LaunchFailure(t *testing.T) {
	t.Parallel()

	launchErr := errors.Join(toolchain.ErrLaunch, errors.New("executable file not found"))
	e := newExecutor(t, t.TempDir(), &fakeRunner{err: launchErr})

	_, err := e.Execute(context.Background(), command.Run{})
	assert.ErrorIs(t, err, toolchain.ErrLaunch)
}

// Test: search rendering
func TestExecute_Search(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main.rs", "fn main() {}")
	e := newExecutor(t, root, &fakeRunner{})

	out, err := e.Execute(context.Background(), command.Search{Query: "main"})
	require.NoError(t, err)
	assert.Equal(t, "Found 2 result(s) for 'main':\n\n1. File: src/main.rs\n2. src/main.rs:1 - fn main() {}\n", out)

	out, err = e.Execute(context.Background(), command.Search{Query: "absent"})
	require.NoError(t, err)
	assert.Equal(t, "No results found for 'absent'", out)
}

// Test: the new module scenario through a command line
func TestExecuteLine_AddInto(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main.rs", "fn main() {}\n")
	e := newExecutor(t, root, &fakeRunner{})

	out, err := e.ExecuteLine(context.Background(), "add into src/new_mod.rs\nfn hello() {}")
	require.NoError(t, err)
	assert.Equal(t, "Code added to src/new_mod.rs", out)

	out, err = e.ExecuteLine(context.Background(), "show src/main.rs")
	require.NoError(t, err)
	assert.Contains(t, out, "mod new_mod;")

	out, err = e.ExecuteLine(context.Background(), "list files")
	require.NoError(t, err)
	assert.Equal(t, "Found 2 Rust file(s):\n\n1. src/main.rs\n2. src/new_mod.rs\n", out)
}

// Test: show and list functions
func TestExecute_Structure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main.rs", sampleMain)
	e := newExecutor(t, root, &fakeRunner{})

	out, err := e.Execute(context.Background(), command.ListFunctions{File: "src/main.rs"})
	require.NoError(t, err)
	assert.Equal(t, "Functions in src/main.rs:\n\n"+
		"1. fn add(a: i32, b: i32) -> i32\n"+
		"2. impl Point::new(x: i32) -> Self\n"+
		"3. fn main() -> ()\n", out)

	out, err = e.Execute(context.Background(), command.ShowFunction{File: "src/main.rs", Function: "add"})
	require.NoError(t, err)
	assert.Equal(t, "Function 'add' in src/main.rs:\n\nfn add(a: i32, b: i32) -> i32 {\n    a + b\n}", out)

	out, err = e.Execute(context.Background(), command.ShowFile{File: "main.rs"})
	require.NoError(t, err)
	assert.Equal(t, "Content of main.rs:\n\n"+sampleMain, out)

	_, err = e.Execute(context.Background(), command.ShowFunction{File: "src/main.rs", Function: "nope"})
	assert.ErrorIs(t, err, parsers.ErrNotFound)

	_, err = e.Execute(context.Background(), command.ShowFile{File: "src/missing.rs"})
	assert.ErrorIs(t, err, workspace.ErrFileNotFound)
}

// Test: syntax errors surface as grammar errors
func TestExecute_GrammarError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/broken.rs", "fn main( {\n    let x = ;\n")
	e := newExecutor(t, root, &fakeRunner{})

	_, err := e.Execute(context.Background(), command.ListFunctions{File: "src/broken.rs"})
	require.Error(t, err)
	assert.ErrorIs(t, err, parsers.ErrGrammar)

	var gerr *parsers.GrammarError
	assert.ErrorAs(t, err, &gerr)
}

// Test: parse errors from ExecuteLine
func TestExecuteLine_ParseError(t *testing.T) {
	t.Parallel()

	e := New(&fakeRunner{})
	_, err := e.ExecuteLine(context.Background(), "deploy")
	assert.ErrorIs(t, err, command.ErrParse)
}

// Test: unloading the workspace
func TestSetWorkspace(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, t.TempDir(), &fakeRunner{})
	require.NotNil(t, e.Workspace())

	e.SetWorkspace(nil)
	assert.Nil(t, e.Workspace())
	_, err := e.Execute(context.Background(), command.ListFiles{})
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

type unknownCommand struct{ command.Help }

// Test: unknown implementations hit the default branch
func TestExecute_Unsupported(t *testing.T) {
	t.Parallel()

	e := newExecutor(t, t.TempDir(), &fakeRunner{})
	_, err := e.Execute(context.Background(), unknownCommand{})
	assert.ErrorIs(t, err, ErrUnsupportedCommand)
}

// Test: outline and tree go through the same workspace
func TestOutlineAndTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "src/main.rs", sampleMain+"\nenum Mode { Fast, Slow }\n")
	e := newExecutor(t, root, &fakeRunner{})

	outline, err := e.Outline("src/main.rs")
	require.NoError(t, err)
	assert.Equal(t, []string{"Point"}, outline.Structs)
	assert.Equal(t, []string{"Mode { Fast, Slow }"}, outline.Enums)
	assert.Len(t, outline.Functions, 3)

	tree, err := e.Tree()
	require.NoError(t, err)
	assert.Contains(t, tree, "└── src\n    └── main.rs\n")

	_, err = e.Outline("src/none.rs")
	assert.ErrorIs(t, err, workspace.ErrFileNotFound)

	e.SetWorkspace(nil)
	_, err = e.Outline("src/main.rs")
	assert.ErrorIs(t, err, ErrNoWorkspace)
	_, err = e.Tree()
	assert.ErrorIs(t, err, ErrNoWorkspace)
}
