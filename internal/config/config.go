// Package config loads vibe configuration from <root>/.vibe/config.yml with
// VIBE_* environment variable overrides.
package config

import (
	"time"

	"github.com/vibe-coder/vibe/internal/inserter"
	"github.com/vibe-coder/vibe/internal/toolchain"
)

// Config represents the complete vibe configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace" mapstructure:"workspace"`
	Toolchain ToolchainConfig `yaml:"toolchain" mapstructure:"toolchain"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// WorkspaceConfig defines which files are indexed and how code is inserted.
type WorkspaceConfig struct {
	Extension  string   `yaml:"extension" mapstructure:"extension"`     // indexed file suffix, e.g. ".rs"
	SourceRoot string   `yaml:"source_root" mapstructure:"source_root"` // directory whose files get registered as modules
	EntryFiles []string `yaml:"entry_files" mapstructure:"entry_files"` // registration targets, first existing wins
	Ignore     []string `yaml:"ignore" mapstructure:"ignore"`           // glob patterns to skip
	InsertMode string   `yaml:"insert_mode" mapstructure:"insert_mode"` // "smart" or "append"
}

// ToolchainConfig configures the external build tool.
type ToolchainConfig struct {
	Binary  string        `yaml:"binary" mapstructure:"binary"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // 0 disables the limit
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Extension:  ".rs",
			SourceRoot: "src",
			EntryFiles: []string{"main.rs", "lib.rs"},
			Ignore: []string{
				"target/**",
				".git/**",
			},
			InsertMode: inserter.ModeSmart,
		},
		Toolchain: ToolchainConfig{
			Binary:  toolchain.DefaultBinary,
			Timeout: toolchain.DefaultTimeout,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
