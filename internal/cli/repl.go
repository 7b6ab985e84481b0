package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vibe-coder/vibe/internal/command"
	"github.com/vibe-coder/vibe/internal/executor"
)

const (
	prompt     = "vibe> "
	codePrompt = "....> "
	codeEnd    = "."
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive command session",
	Long: `Start an interactive session that reads one command per line.

'add into <file>' reads the code to insert from the following lines, up to a
line containing a single '.'. Type 'help' for the command list and 'exit' or
'quit' to leave.

Example:
  vibe repl --root ./my-game
  vibe> add into src/npc.rs
  ....> pub fn spawn_npc() {}
  ....> .
  Code added to src/npc.rs`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	s, err := sessionFromFlags()
	if err != nil {
		return err
	}
	defer s.close()

	return repl(cmd.Context(), s.exec, cmd.InOrStdin(), cmd.OutOrStdout())
}

// repl reads commands from in until EOF or exit, writing every result or
// error to out. Command failures never end the session.
func repl(ctx context.Context, exec *executor.Executor, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	fmt.Fprintln(out, "Type 'help' for available commands.")
	fmt.Fprint(out, prompt)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
		case line == "exit" || line == "quit":
			return nil
		default:
			if isAddInto(line) {
				line += "\n" + readCode(scanner, out)
			}
			fmt.Fprintln(out, render(exec.ExecuteLine(ctx, line)))
		}

		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, prompt)
	}

	return scanner.Err()
}

func isAddInto(line string) bool {
	verb, rest, ok := strings.Cut(line, " ")
	return ok && strings.EqualFold(verb, "add") && strings.HasPrefix(rest, "into ")
}

// readCode collects lines up to the terminating "." line or EOF.
func readCode(scanner *bufio.Scanner, out io.Writer) string {
	var lines []string
	fmt.Fprint(out, codePrompt)
	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == codeEnd {
			break
		}
		lines = append(lines, text)
		fmt.Fprint(out, codePrompt)
	}
	return strings.Join(lines, "\n")
}

// render formats a command outcome for the terminal.
func render(result string, err error) string {
	switch {
	case err == nil:
		return strings.TrimRight(result, "\n")
	case errors.Is(err, command.ErrParse):
		return "Parse error: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
