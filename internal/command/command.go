// Package command defines the closed set of commands understood by the
// assistant and parses them from free text.
package command

// Command is one parsed intent. The set of implementations is closed: only
// the types in this package satisfy it.
type Command interface {
	// Name returns the command verb as typed by the user.
	Name() string
	command()
}

// Search looks for files and lines containing Query.
type Search struct {
	Query string
}

// InsertCode merges Code into File, creating it when needed.
type InsertCode struct {
	File string
	Code string
}

// Build runs the toolchain build.
type Build struct{}

// Run runs the project with forwarded arguments.
type Run struct {
	Args []string
}

// Test runs the test suite, optionally filtered by Name.
type Test struct {
	Name *string
}

// Profile builds with optimizations.
type Profile struct{}

// ListFiles lists indexed source files.
type ListFiles struct{}

// ShowFile prints a file.
type ShowFile struct {
	File string
}

// ShowFunction prints one function or method of a file.
type ShowFunction struct {
	File     string
	Function string
}

// ListFunctions lists function signatures of a file.
type ListFunctions struct {
	File string
}

// Help prints the command reference.
type Help struct{}

func (Search) Name() string        { return "search" }
func (InsertCode) Name() string    { return "add" }
func (Build) Name() string         { return "build" }
func (Run) Name() string           { return "run" }
func (Test) Name() string          { return "test" }
func (Profile) Name() string       { return "profile" }
func (ListFiles) Name() string     { return "list" }
func (ShowFile) Name() string      { return "show" }
func (ShowFunction) Name() string  { return "show" }
func (ListFunctions) Name() string { return "list" }
func (Help) Name() string          { return "help" }

func (Search) command()        {}
func (InsertCode) command()    {}
func (Build) command()         {}
func (Run) command()           {}
func (Test) command()          {}
func (Profile) command()       {}
func (ListFiles) command()     {}
func (ShowFile) command()      {}
func (ShowFunction) command()  {}
func (ListFunctions) command() {}
func (Help) command()          {}

// All returns one zero value of every command type.
func All() []Command {
	return []Command{
		Search{}, InsertCode{}, Build{}, Run{}, Test{}, Profile{},
		ListFiles{}, ShowFile{}, ShowFunction{}, ListFunctions{}, Help{},
	}
}
