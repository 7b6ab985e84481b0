package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vibe-coder/vibe/internal/command"
	"github.com/vibe-coder/vibe/internal/executor"
	"github.com/vibe-coder/vibe/internal/indexer/parsers"
	"github.com/vibe-coder/vibe/internal/toolchain"
	"github.com/vibe-coder/vibe/internal/workspace"
)

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// AddCommandTool registers vibe_command, which runs one command of the
// vibe command language and returns its text output.
func AddCommandTool(s *server.MCPServer, exec *executor.Executor) {
	tool := mcp.NewTool(
		"vibe_command",
		mcp.WithDescription("Run a workspace command: search <query>, add into <file>, build, run [args], test [name], profile, list files, list functions <file>, show <file>, show <file>::<function>, help."),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Command line, e.g. 'show src/main.rs::main' or 'add into src/npc.rs'")),
		mcp.WithString("code",
			mcp.Description("Code for 'add into <file>', sent as its own argument instead of after a newline")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createCommandHandler(exec))
}

// AddOutlineTool registers vibe_outline, which returns the functions, structs
// and enums of one file as JSON.
func AddOutlineTool(s *server.MCPServer, exec *executor.Executor) {
	tool := mcp.NewTool(
		"vibe_outline",
		mcp.WithDescription("List the functions, structs and enums declared in a Rust file."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("File path relative to the workspace root, or a unique suffix of one")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createOutlineHandler(exec))
}

// AddTreeTool registers vibe_tree, which renders the workspace directory tree.
func AddTreeTool(s *server.MCPServer, exec *executor.Executor) {
	tool := mcp.NewTool(
		"vibe_tree",
		mcp.WithDescription("Show the workspace directory tree, skipping ignored paths."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createTreeHandler(exec))
}

func createCommandHandler(exec *executor.Executor) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args commandArgs
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if strings.TrimSpace(args.Command) == "" {
			return mcp.NewToolResultError("command parameter is required"), nil
		}

		out, err := exec.ExecuteLine(ctx, args.line())
		if err != nil {
			return errorResult(err)
		}
		return mcp.NewToolResultText(out), nil
	}
}

func createOutlineHandler(exec *executor.Executor) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args fileArgs
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if strings.TrimSpace(args.File) == "" {
			return mcp.NewToolResultError("file parameter is required"), nil
		}

		outline, err := exec.Outline(args.File)
		if err != nil {
			return errorResult(err)
		}
		return marshalToolResponse(outline)
	}
}

func createTreeHandler(exec *executor.Executor) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tree, err := exec.Tree()
		if err != nil {
			return errorResult(err)
		}
		return mcp.NewToolResultText(tree), nil
	}
}

// errorResult shows user errors to the client as tool errors and returns
// everything else as a protocol error.
func errorResult(err error) (*mcp.CallToolResult, error) {
	if isUserError(err) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

// isUserError reports whether err is something the caller can fix by sending
// a different command.
func isUserError(err error) bool {
	userErrors := []error{
		command.ErrParse,
		executor.ErrNoWorkspace,
		workspace.ErrFileNotFound,
		workspace.ErrOutsideRoot,
		workspace.ErrInvalidPath,
		parsers.ErrGrammar,
		parsers.ErrNotFound,
		toolchain.ErrLaunch,
		toolchain.ErrTimeout,
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
