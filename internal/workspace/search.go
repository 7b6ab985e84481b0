package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// MatchKind distinguishes filename hits from content hits.
type MatchKind int

const (
	FileMatch MatchKind = iota
	LineMatch
)

func (k MatchKind) String() string {
	switch k {
	case FileMatch:
		return "file"
	case LineMatch:
		return "line"
	default:
		return "unknown"
	}
}

// SearchResult is one hit of a workspace search.
type SearchResult struct {
	Kind    MatchKind `json:"kind"`
	File    string    `json:"file"`           // relative to the workspace root
	Line    int       `json:"line,omitempty"` // 1-based, 0 for file matches
	Snippet string    `json:"snippet"`
}

func (r SearchResult) String() string {
	if r.Kind == FileMatch {
		return "File: " + r.File
	}
	return fmt.Sprintf("%s:%d - %s", r.File, r.Line, r.Snippet)
}

// Search matches query case-insensitively against file names, then against
// every line of every indexed file. File matches come first.
func (w *Workspace) Search(query string) ([]SearchResult, error) {
	needle := strings.ToLower(query)
	results := []SearchResult{}

	for _, file := range w.files {
		if !strings.Contains(strings.ToLower(filepath.Base(file)), needle) {
			continue
		}
		rel, err := w.RelativePath(file)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{Kind: FileMatch, File: rel, Snippet: rel})
	}

	for _, file := range w.files {
		data, err := os.ReadFile(file)
		if err != nil || !utf8.Valid(data) {
			w.opts.Logger.Debug("skipping file in content search", zap.String("file", file), zap.Error(err))
			continue
		}
		rel, err := w.RelativePath(file)
		if err != nil {
			return nil, err
		}

		for i, line := range splitLines(string(data)) {
			if strings.Contains(strings.ToLower(line), needle) {
				results = append(results, SearchResult{
					Kind:    LineMatch,
					File:    rel,
					Line:    i + 1,
					Snippet: strings.TrimSpace(line),
				})
			}
		}
	}

	return results, nil
}

// splitLines splits on \n, drops a trailing \r per line and does not yield
// an empty final line for text ending in a newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
