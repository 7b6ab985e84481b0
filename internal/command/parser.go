package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is wrapped by every error returned from Parse.
var ErrParse = errors.New("parse error")

// ParseError describes malformed command text.
type ParseError struct {
	Input   string
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

func parseErrorf(input, format string, args ...any) error {
	return &ParseError{Input: input, Message: fmt.Sprintf(format, args...)}
}

// Parse converts one command line into a Command. Insertion commands carry
// their code after the first newline:
//
//	add into src/npc.rs
//	fn spawn_npc() {}
//
// The verb is case-insensitive; everything after it is taken verbatim.
func Parse(line string) (Command, error) {
	input := strings.TrimSpace(line)
	verb, rest, hasRest := strings.Cut(input, " ")

	switch strings.ToLower(verb) {
	case "search":
		if !hasRest {
			return nil, parseErrorf(input, "missing search query")
		}
		return Search{Query: rest}, nil

	case "add":
		return parseAdd(input, rest, hasRest)

	case "build":
		return Build{}, nil

	case "run":
		args := []string{}
		if hasRest {
			args = append(args, strings.Fields(rest)...)
		}
		return Run{Args: args}, nil

	case "test":
		if !hasRest {
			return Test{}, nil
		}
		name := rest
		return Test{Name: &name}, nil

	case "profile":
		return Profile{}, nil

	case "list":
		return parseList(input, rest, hasRest)

	case "show":
		if !hasRest {
			return nil, parseErrorf(input, "missing file name")
		}
		if file, function, ok := strings.Cut(rest, "::"); ok {
			return ShowFunction{File: file, Function: function}, nil
		}
		return ShowFile{File: rest}, nil

	case "help":
		return Help{}, nil

	case "":
		return nil, parseErrorf(input, "empty command")

	default:
		return nil, parseErrorf(input, "unknown command: %s", verb)
	}
}

func parseAdd(input, rest string, hasRest bool) (Command, error) {
	if !hasRest {
		return nil, parseErrorf(input, "usage: add into <file>\n<code>")
	}
	target, ok := strings.CutPrefix(rest, "into ")
	if !ok {
		return nil, parseErrorf(input, "expected 'add into <file>'")
	}

	file, code, _ := strings.Cut(target, "\n")
	return InsertCode{File: strings.TrimSpace(file), Code: code}, nil
}

func parseList(input, rest string, hasRest bool) (Command, error) {
	switch {
	case !hasRest:
		return ListFiles{}, nil
	case strings.HasPrefix(rest, "files"):
		return ListFiles{}, nil
	case strings.HasPrefix(rest, "functions"):
		_, file, ok := strings.Cut(rest, " ")
		if !ok || strings.TrimSpace(file) == "" {
			return nil, parseErrorf(input, "missing file name")
		}
		return ListFunctions{File: file}, nil
	default:
		return nil, parseErrorf(input, "unknown list command: %s", rest)
	}
}
