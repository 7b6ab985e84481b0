package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Tree renders the directory structure below the root, honoring the same
// ignore rules as Scan.
func (w *Workspace) Tree() (string, error) {
	matcher, err := newIgnoreMatcher(w.opts.Ignore)
	if err != nil {
		return "", fmt.Errorf("invalid ignore pattern: %w", err)
	}
	if err := matcher.load(w.root, ""); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(filepath.Base(w.root))
	b.WriteString("\n")
	if err := w.buildTree(&b, matcher, "", ""); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (w *Workspace) buildTree(b *strings.Builder, matcher *ignoreMatcher, rel, prefix string) error {
	entries, err := os.ReadDir(filepath.Join(w.root, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", rel, err)
	}

	visible := entries[:0]
	for _, e := range entries {
		childRel := e.Name()
		if rel != "" {
			childRel = rel + "/" + e.Name()
		}
		if e.Name() == ".git" || matcher.ignored(childRel, e.IsDir()) {
			continue
		}
		visible = append(visible, e)
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].Name() < visible[j].Name() })

	for i, e := range visible {
		last := i == len(visible)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}

		b.WriteString(prefix + connector + e.Name() + "\n")
		if !e.IsDir() {
			continue
		}

		childRel := e.Name()
		if rel != "" {
			childRel = rel + "/" + e.Name()
		}
		if err := matcher.load(w.root, childRel); err != nil {
			return err
		}
		if err := w.buildTree(b, matcher, childRel, prefix+indent); err != nil {
			return err
		}
	}
	return nil
}
