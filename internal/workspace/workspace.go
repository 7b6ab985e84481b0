// Package workspace models a Rust source tree: a root directory plus the
// index of source files found below it.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/vibe-coder/vibe/internal/inserter"
)

var (
	// ErrPathNotFound indicates a workspace root that does not exist.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrFileNotFound indicates a file that resolves neither relative to the
	// root nor by suffix against the index.
	ErrFileNotFound = errors.New("file not found")

	// ErrOutsideRoot indicates a path that is not below the workspace root.
	ErrOutsideRoot = errors.New("path is outside the workspace root")

	// ErrInvalidPath indicates an empty or malformed file argument.
	ErrInvalidPath = errors.New("invalid file path")
)

// Options configures how a workspace is indexed and edited.
type Options struct {
	Extension  string   // source suffix including the dot, e.g. ".rs"
	SourceRoot string   // conventional source directory, e.g. "src"
	EntryFiles []string // entry files under SourceRoot, in registration priority order
	Ignore     []string // glob patterns relative to the root
	Inserter   inserter.Inserter
	Logger     *zap.Logger
}

// DefaultOptions returns the Rust/cargo layout.
func DefaultOptions() Options {
	return Options{
		Extension:  ".rs",
		SourceRoot: "src",
		EntryFiles: []string{"main.rs", "lib.rs"},
		Ignore:     []string{"target/**", ".git/**"},
		Inserter:   inserter.NewRust(),
		Logger:     zap.NewNop(),
	}
}

// Workspace is a loaded source tree. It is not safe for concurrent use.
type Workspace struct {
	root  string
	opts  Options
	files []string // absolute paths, sorted by relative path
}

// Load opens the directory at root and indexes it.
func Load(root string, opts Options) (*Workspace, error) {
	defaults := DefaultOptions()
	if opts.Extension == "" {
		opts.Extension = defaults.Extension
	}
	if opts.SourceRoot == "" {
		opts.SourceRoot = defaults.SourceRoot
	}
	if opts.EntryFiles == nil {
		opts.EntryFiles = defaults.EntryFiles
	}
	if opts.Ignore == nil {
		opts.Ignore = defaults.Ignore
	}
	if opts.Inserter == nil {
		opts.Inserter = defaults.Inserter
	}
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrPathNotFound, root)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	w := &Workspace{root: abs, opts: opts}
	if err := w.Scan(); err != nil {
		return nil, err
	}
	return w, nil
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// Scan rebuilds the file index from disk.
func (w *Workspace) Scan() error {
	matcher, err := newIgnoreMatcher(w.opts.Ignore)
	if err != nil {
		return fmt.Errorf("invalid ignore pattern: %w", err)
	}

	var files []string
	err = filepath.WalkDir(w.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == w.root {
				return err
			}
			w.opts.Logger.Warn("skipping unreadable path", zap.String("path", p), zap.Error(err))
			return nil
		}

		if p == w.root {
			return matcher.load(w.root, "")
		}

		rel, err := filepath.Rel(w.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || matcher.ignored(rel, true) {
				return filepath.SkipDir
			}
			if err := matcher.load(w.root, rel); err != nil {
				w.opts.Logger.Warn("failed to read ignore file", zap.String("dir", rel), zap.Error(err))
			}
			return nil
		}

		if filepath.Ext(p) != w.opts.Extension || !isRegularFile(p, d) {
			return nil
		}
		if matcher.ignored(rel, false) {
			return nil
		}

		files = append(files, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", w.root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return filepath.ToSlash(files[i]) < filepath.ToSlash(files[j])
	})
	w.files = files

	w.opts.Logger.Debug("workspace scanned", zap.String("root", w.root), zap.Int("files", len(files)))
	return nil
}

// isRegularFile follows symlinks so linked source files are indexed.
func isRegularFile(p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// ListFiles returns the indexed files as root-relative slash paths.
func (w *Workspace) ListFiles() []string {
	out := make([]string, 0, len(w.files))
	for _, f := range w.files {
		rel, err := w.RelativePath(f)
		if err != nil {
			continue
		}
		out = append(out, rel)
	}
	return out
}

// RelativePath converts an absolute path below the root to a slash path.
func (w *Workspace) RelativePath(abs string) (string, error) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, abs)
	}
	return filepath.ToSlash(rel), nil
}

// ReadFile reads a file given relative to the root, falling back to the
// first indexed file whose path ends with filePath.
func (w *Workspace) ReadFile(filePath string) (string, error) {
	rel, err := w.cleanRelative(filePath)
	if err != nil {
		return "", err
	}

	full := filepath.Join(w.root, filepath.FromSlash(rel))
	if _, err := os.Stat(full); err != nil {
		match, ok := w.findBySuffix(rel)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		full = match
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return string(data), nil
}

// findBySuffix matches whole trailing path segments only, so "main.rs"
// finds "src/main.rs" but "ain.rs" does not.
func (w *Workspace) findBySuffix(rel string) (string, bool) {
	for _, f := range w.files {
		indexed, err := w.RelativePath(f)
		if err != nil {
			continue
		}
		if indexed == rel || strings.HasSuffix(indexed, "/"+rel) {
			return f, true
		}
	}
	return "", false
}

// cleanRelative normalizes a user supplied path to a root-relative slash
// path and rejects paths that escape the root.
func (w *Workspace) cleanRelative(filePath string) (string, error) {
	trimmed := strings.TrimSpace(filePath)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	if filepath.IsAbs(trimmed) {
		rel, err := w.RelativePath(filepath.Clean(trimmed))
		if err != nil {
			return "", err
		}
		trimmed = rel
	}

	rel := path.Clean(filepath.ToSlash(trimmed))
	if rel == "." {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, filePath)
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, filePath)
	}
	return rel, nil
}
