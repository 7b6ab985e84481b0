package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vibe-coder/vibe/internal/executor"
)

var execStdinFlag bool

// execCmd represents the exec command
var execCmd = &cobra.Command{
	Use:   "exec <command...>",
	Short: "Execute a single command and print its result",
	Long: `Execute one command of the vibe command language and print the result.

The arguments are joined with spaces to form the command line. With --stdin the
standard input is appended after a newline, which is how 'add into' receives
its code.

Examples:
  vibe exec search spawn_npc
  vibe exec show src/npc.rs::spawn_npc
  vibe exec --stdin add into src/npc.rs < snippet.rs
  vibe exec run -- --verbose`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().BoolVar(&execStdinFlag, "stdin", false, "Append standard input to the command (for 'add into')")
}

func runExec(cmd *cobra.Command, args []string) error {
	s, err := sessionFromFlags()
	if err != nil {
		return err
	}
	defer s.close()

	var stdin io.Reader
	if execStdinFlag {
		stdin = cmd.InOrStdin()
	}

	out, err := execLine(cmd.Context(), s.exec, args, stdin)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
	return nil
}

// execLine builds a command line from args plus optional stdin and runs it.
func execLine(ctx context.Context, exec *executor.Executor, args []string, stdin io.Reader) (string, error) {
	line := strings.Join(args, " ")
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		line += "\n" + string(data)
	}
	return exec.ExecuteLine(ctx, line)
}
