package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidModuleName indicates a file name that is not a Rust identifier.
var ErrInvalidModuleName = errors.New("invalid module name")

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// InsertReport describes what AddCode changed.
type InsertReport struct {
	File    string // relative path of the edited file
	Created bool   // the file did not exist before

	Module       string // module identifier derived from File, if registration was attempted
	RegisteredIn string // entry file that received "mod Module;"
	AlreadyKnown bool   // the entry file already declared the module

	// RegistrationErr is set when module registration failed. Registration
	// is best-effort: the inserted code is kept either way.
	RegistrationErr error
}

// AddCode merges code into filePath (relative to the root), creating the
// file and its parent directories as needed, then rescans the workspace.
func (w *Workspace) AddCode(filePath, code string) (*InsertReport, error) {
	rel, err := w.cleanRelative(filePath)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(w.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directories for %s: %w", rel, err)
	}

	report := &InsertReport{File: rel}

	existing, err := os.ReadFile(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		report.Created = true
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}

	merged := w.opts.Inserter.Insert(string(existing), code)
	if err := os.WriteFile(full, []byte(merged), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", rel, err)
	}

	if report.Created && w.isModuleFile(rel) {
		w.registerModule(report)
	}

	if err := w.Scan(); err != nil {
		return report, fmt.Errorf("failed to rescan after writing %s: %w", rel, err)
	}
	return report, nil
}

// isModuleFile reports whether rel is a source file under the source root.
func (w *Workspace) isModuleFile(rel string) bool {
	return strings.HasPrefix(rel, w.opts.SourceRoot+"/") && path.Ext(rel) == w.opts.Extension
}

// moduleIdentifier derives "client" from "src/net/client.rs".
func (w *Workspace) moduleIdentifier(rel string) string {
	trimmed := strings.TrimPrefix(rel, w.opts.SourceRoot+"/")
	trimmed = strings.TrimSuffix(trimmed, w.opts.Extension)
	return path.Base(trimmed)
}

// registerModule declares the new module in the first existing entry file.
// Failures are recorded on the report and logged, never returned.
func (w *Workspace) registerModule(report *InsertReport) {
	module := w.moduleIdentifier(report.File)
	switch module {
	case "main", "lib", "mod":
		return
	}
	report.Module = module

	if !identifierRe.MatchString(module) {
		report.RegistrationErr = fmt.Errorf("%w: %q", ErrInvalidModuleName, module)
		w.opts.Logger.Warn("module not registered", zap.String("file", report.File), zap.Error(report.RegistrationErr))
		return
	}

	for _, name := range w.opts.EntryFiles {
		entry := path.Join(w.opts.SourceRoot, name)
		if entry == report.File {
			continue
		}
		full := filepath.Join(w.root, filepath.FromSlash(entry))

		content, err := os.ReadFile(full)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			report.RegistrationErr = fmt.Errorf("failed to read entry file %s: %w", entry, err)
			break
		}

		report.RegisteredIn = entry
		if declaresModule(string(content), module) {
			report.AlreadyKnown = true
			return
		}

		merged := w.opts.Inserter.Insert(string(content), "mod "+module+";")
		if err := os.WriteFile(full, []byte(merged), 0644); err != nil {
			report.RegisteredIn = ""
			report.RegistrationErr = fmt.Errorf("failed to write entry file %s: %w", entry, err)
			break
		}
		w.opts.Logger.Debug("module registered", zap.String("module", module), zap.String("entry", entry))
		return
	}

	if report.RegistrationErr != nil {
		w.opts.Logger.Warn("module registration failed", zap.String("file", report.File), zap.Error(report.RegistrationErr))
	}
}

// declaresModule reports whether content contains "mod name;", optionally
// with a pub or pub(...) qualifier.
func declaresModule(content, name string) bool {
	re := regexp.MustCompile(`(?m)^\s*(pub(\([^)]*\))?\s+)?mod\s+` + regexp.QuoteMeta(name) + `\s*;`)
	return re.MatchString(content)
}
