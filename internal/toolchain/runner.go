// Package toolchain runs the external build tool (cargo by default) and
// captures its output.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBinary is the toolchain executable looked up on PATH.
	DefaultBinary = "cargo"

	// DefaultTimeout bounds a single toolchain invocation.
	DefaultTimeout = 10 * time.Minute

	// waitDelay caps how long Run waits for output pipes after the process
	// is killed, in case grandchildren still hold them open.
	waitDelay = 2 * time.Second
)

var (
	// ErrLaunch is returned when the toolchain process cannot be started.
	ErrLaunch = errors.New("failed to launch toolchain")

	// ErrTimeout is returned when an invocation exceeds the configured timeout.
	ErrTimeout = errors.New("toolchain timed out")
)

// Result is the captured outcome of one invocation. A non-zero ExitCode is a
// normal result, not an error.
type Result struct {
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Success reports whether the process exited with status zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner invokes one toolchain binary.
type Runner struct {
	binary  string
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-invocation timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the logger used for invocation timing.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner for binary. An empty binary means DefaultBinary.
func NewRunner(binary string, opts ...Option) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	r := &Runner{
		binary:  binary,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the executable name.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes `<binary> args...` in dir, blocking until it exits.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	execCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(execCtx, r.binary, args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	invocation := strings.TrimSpace(r.binary + " " + strings.Join(args, " "))
	r.logger.Debug("running toolchain", zap.String("command", invocation), zap.String("dir", dir))

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := &Result{
		Args:     append([]string(nil), args...),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: elapsed,
	}

	if err != nil {
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			r.logger.Warn("toolchain timed out",
				zap.String("command", invocation),
				zap.Duration("timeout", r.timeout))
			return nil, fmt.Errorf("%s after %s: %w", invocation, r.timeout, ErrTimeout)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", invocation, ctx.Err())
		}

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s: %v", ErrLaunch, invocation, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	r.logger.Info("toolchain finished",
		zap.String("command", invocation),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", elapsed))

	return result, nil
}
