package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vibe-coder/vibe/internal/inserter"
	"github.com/vibe-coder/vibe/internal/toolchain"
	"github.com/vibe-coder/vibe/internal/workspace"
)

// ToWorkspaceOptions converts the workspace section to workspace.Options.
func (c *Config) ToWorkspaceOptions(logger *zap.Logger) (workspace.Options, error) {
	ins, err := inserter.New(c.Workspace.InsertMode)
	if err != nil {
		return workspace.Options{}, fmt.Errorf("workspace.insert_mode: %w", err)
	}

	return workspace.Options{
		Extension:  c.Workspace.Extension,
		SourceRoot: c.Workspace.SourceRoot,
		EntryFiles: c.Workspace.EntryFiles,
		Ignore:     c.Workspace.Ignore,
		Inserter:   ins,
		Logger:     logger,
	}, nil
}

// NewRunner builds a toolchain runner from the toolchain section.
func (c *Config) NewRunner(logger *zap.Logger) *toolchain.Runner {
	return toolchain.NewRunner(c.Toolchain.Binary,
		toolchain.WithTimeout(c.Toolchain.Timeout),
		toolchain.WithLogger(logger))
}
