package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/vibe-coder/vibe/internal/inserter"
)

var (
	// ErrInvalidExtension indicates a source suffix without a leading dot
	ErrInvalidExtension = errors.New("invalid source extension")

	// ErrInvalidSourceRoot indicates an absolute or escaping source root
	ErrInvalidSourceRoot = errors.New("invalid source root")

	// ErrInvalidEntryFile indicates an entry file that is not a plain file name
	ErrInvalidEntryFile = errors.New("invalid entry file")

	// ErrInvalidIgnorePattern indicates a glob that does not compile
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrInvalidInsertMode indicates an unknown insert mode
	ErrInvalidInsertMode = errors.New("invalid insert mode")

	// ErrEmptyBinary indicates a missing toolchain binary
	ErrEmptyBinary = errors.New("empty toolchain binary")

	// ErrInvalidTimeout indicates a negative toolchain timeout
	ErrInvalidTimeout = errors.New("invalid toolchain timeout")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateWorkspace(&cfg.Workspace); err != nil {
		errs = append(errs, err)
	}

	if err := validateToolchain(&cfg.Toolchain); err != nil {
		errs = append(errs, err)
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateWorkspace(cfg *WorkspaceConfig) error {
	var errs []error

	if !strings.HasPrefix(cfg.Extension, ".") || len(cfg.Extension) < 2 || strings.ContainsAny(cfg.Extension, `/\`) {
		errs = append(errs, fmt.Errorf("%w: must look like '.rs', got '%s'", ErrInvalidExtension, cfg.Extension))
	}

	root := path.Clean(cfg.SourceRoot)
	if strings.TrimSpace(cfg.SourceRoot) == "" || path.IsAbs(root) || root == ".." || strings.HasPrefix(root, "../") {
		errs = append(errs, fmt.Errorf("%w: must be a relative directory, got '%s'", ErrInvalidSourceRoot, cfg.SourceRoot))
	}

	for _, entry := range cfg.EntryFiles {
		if entry == "" || strings.ContainsAny(entry, `/\`) {
			errs = append(errs, fmt.Errorf("%w: must be a file name, got '%s'", ErrInvalidEntryFile, entry))
		}
	}

	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidIgnorePattern, pattern, err))
		}
	}

	switch strings.ToLower(cfg.InsertMode) {
	case inserter.ModeSmart, inserter.ModeAppend:
	default:
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidInsertMode, inserter.ModeSmart, inserter.ModeAppend, cfg.InsertMode))
	}

	return joinErrors(errs)
}

func validateToolchain(cfg *ToolchainConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Binary) == "" {
		errs = append(errs, fmt.Errorf("%w: binary is required", ErrEmptyBinary))
	}

	// Zero disables the timeout
	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: timeout cannot be negative, got %s", ErrInvalidTimeout, cfg.Timeout))
	}

	return joinErrors(errs)
}

func validateLogging(cfg *LoggingConfig) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("%w: must be debug, info, warn or error, got '%s'", ErrInvalidLogLevel, cfg.Level)
	}
}

// joinErrors combines multiple errors into one that still matches each of
// them with errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("validation failed:\n%w", errors.Join(errs...))
	}
}
