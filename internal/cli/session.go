package cli

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vibe-coder/vibe/internal/config"
	"github.com/vibe-coder/vibe/internal/executor"
	"github.com/vibe-coder/vibe/internal/logging"
	"github.com/vibe-coder/vibe/internal/workspace"
)

// session is everything a subcommand needs to execute commands against one
// workspace.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	exec   *executor.Executor
}

// newSession loads configuration for root, builds the logger and opens the
// workspace.
func newSession(root, configFile string, verbose bool) (*session, error) {
	loader := config.NewLoader(root)
	if configFile != "" {
		loader = config.NewFileLoader(root, configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Logging.JSON)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.ToWorkspaceOptions(logger)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Load(root, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	logger.Info("workspace loaded",
		zap.String("root", ws.Root()),
		zap.Int("files", len(ws.ListFiles())))

	exec := executor.New(cfg.NewRunner(logger),
		executor.WithWorkspace(ws),
		executor.WithLogger(logger))

	return &session{cfg: cfg, logger: logger, exec: exec}, nil
}

// sessionFromFlags builds a session from the persistent flags.
func sessionFromFlags() (*session, error) {
	return newSession(viper.GetString("root"), viper.GetString("config"), viper.GetBool("verbose"))
}

func (s *session) close() {
	_ = s.logger.Sync()
}
