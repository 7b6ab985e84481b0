// Package executor dispatches parsed commands to the workspace, the
// structural indexer and the external toolchain, and renders their results
// as text.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vibe-coder/vibe/internal/command"
	"github.com/vibe-coder/vibe/internal/indexer/parsers"
	"github.com/vibe-coder/vibe/internal/toolchain"
	"github.com/vibe-coder/vibe/internal/workspace"
)

var (
	// ErrNoWorkspace is returned for any command that needs a workspace
	// before one has been loaded.
	ErrNoWorkspace = errors.New("no workspace loaded")

	// ErrUnsupportedCommand is returned for command types the executor does
	// not know how to dispatch.
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// Indexer extracts declarations from source text.
type Indexer interface {
	ListFunctions(text string) ([]string, error)
	ExtractFunction(text, name string) (string, error)
	Outline(text string) (*parsers.Outline, error)
}

// Runner invokes the external toolchain in a directory.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*toolchain.Result, error)
}

// Executor runs one command at a time against an optional workspace.
type Executor struct {
	mu      sync.Mutex
	ws      *workspace.Workspace
	indexer Indexer
	runner  Runner
	logger  *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkspace sets the initial workspace.
func WithWorkspace(ws *workspace.Workspace) Option {
	return func(e *Executor) { e.ws = ws }
}

// WithIndexer replaces the default Rust indexer.
func WithIndexer(indexer Indexer) Option {
	return func(e *Executor) { e.indexer = indexer }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an executor that sends toolchain commands to runner.
func New(runner Runner, opts ...Option) *Executor {
	e := &Executor{
		indexer: parsers.NewRustParser(),
		runner:  runner,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetWorkspace replaces the current workspace. A nil workspace unloads it.
func (e *Executor) SetWorkspace(ws *workspace.Workspace) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ws = ws
}

// Workspace returns the current workspace, or nil.
func (e *Executor) Workspace() *workspace.Workspace {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ws
}

// ExecuteLine parses line and executes the resulting command. Parse failures
// wrap command.ErrParse.
func (e *Executor) ExecuteLine(ctx context.Context, line string) (string, error) {
	cmd, err := command.Parse(line)
	if err != nil {
		return "", err
	}
	return e.Execute(ctx, cmd)
}

// Execute runs cmd and returns its rendered output.
func (e *Executor) Execute(ctx context.Context, cmd command.Command) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logger := e.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("command", cmd.Name()),
	)
	logger.Debug("executing command")

	start := time.Now()
	out, err := e.dispatch(ctx, logger, cmd)
	if err != nil {
		logger.Warn("command failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return "", err
	}

	logger.Debug("command finished", zap.Duration("duration", time.Since(start)))
	return out, nil
}

// Outline lists the functions, structs and enums of file.
func (e *Executor) Outline(file string) (*parsers.Outline, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ws == nil {
		return nil, ErrNoWorkspace
	}
	content, err := e.ws.ReadFile(file)
	if err != nil {
		return nil, err
	}
	outline, err := e.indexer.Outline(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return outline, nil
}

// Tree renders the workspace directory structure.
func (e *Executor) Tree() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ws == nil {
		return "", ErrNoWorkspace
	}
	return e.ws.Tree()
}

func (e *Executor) dispatch(ctx context.Context, logger *zap.Logger, cmd command.Command) (string, error) {
	if _, ok := cmd.(command.Help); ok {
		return helpText, nil
	}
	if e.ws == nil {
		return "", ErrNoWorkspace
	}

	switch c := cmd.(type) {
	case command.Search:
		return e.search(c.Query)
	case command.InsertCode:
		return e.addCode(logger, c.File, c.Code)
	case command.Build:
		return e.toolchain(ctx, "Build", "build")
	case command.Run:
		args := []string{"run"}
		if len(c.Args) > 0 {
			args = append(args, "--")
			args = append(args, c.Args...)
		}
		return e.toolchain(ctx, "Run", args...)
	case command.Test:
		args := []string{"test"}
		if c.Name != nil {
			args = append(args, *c.Name)
		}
		return e.toolchain(ctx, "Test", args...)
	case command.Profile:
		return e.toolchain(ctx, "Profile build", "build", "--release")
	case command.ListFiles:
		return e.listFiles(), nil
	case command.ShowFile:
		return e.showFile(c.File)
	case command.ShowFunction:
		return e.showFunction(c.File, c.Function)
	case command.ListFunctions:
		return e.listFunctions(c.File)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedCommand, cmd)
	}
}

func (e *Executor) search(query string) (string, error) {
	results, err := e.ws.Search(query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d result(s) for '%s':\n\n", len(results), query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return b.String(), nil
}

func (e *Executor) addCode(logger *zap.Logger, file, code string) (string, error) {
	report, err := e.ws.AddCode(file, code)
	if err != nil {
		return "", err
	}

	switch {
	case report.RegistrationErr != nil:
		logger.Warn("module registration failed",
			zap.String("file", report.File),
			zap.Error(report.RegistrationErr))
	case report.RegisteredIn != "":
		logger.Info("module registered",
			zap.String("module", report.Module),
			zap.String("entry", report.RegisteredIn))
	}

	return fmt.Sprintf("Code added to %s", file), nil
}

func (e *Executor) toolchain(ctx context.Context, label string, args ...string) (string, error) {
	res, err := e.runner.Run(ctx, e.ws.Root(), args...)
	if err != nil {
		return "", err
	}

	status := label + " succeeded"
	if !res.Success() {
		status = fmt.Sprintf("%s failed (exit status %d)", label, res.ExitCode)
	}
	return status + "\n\n" + res.Stdout + res.Stderr, nil
}

func (e *Executor) listFiles() string {
	files := e.ws.ListFiles()

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d Rust file(s):\n\n", len(files))
	for i, f := range files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}
	return b.String()
}

func (e *Executor) showFile(file string) (string, error) {
	content, err := e.ws.ReadFile(file)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Content of %s:\n\n%s", file, content), nil
}

func (e *Executor) showFunction(file, function string) (string, error) {
	content, err := e.ws.ReadFile(file)
	if err != nil {
		return "", err
	}
	code, err := e.indexer.ExtractFunction(content, function)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}
	return fmt.Sprintf("Function '%s' in %s:\n\n%s", function, file, code), nil
}

func (e *Executor) listFunctions(file string) (string, error) {
	content, err := e.ws.ReadFile(file)
	if err != nil {
		return "", err
	}
	functions, err := e.indexer.ListFunctions(content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Functions in %s:\n\n", file)
	for i, f := range functions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}
	return b.String(), nil
}
