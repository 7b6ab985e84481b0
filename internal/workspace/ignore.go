package workspace

import (
	"bufio"
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ignoreFileNames are read from every directory of the walk, in precedence order.
var ignoreFileNames = []string{".gitignore", ".ignore"}

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// ignoreRule is one line of a .gitignore-style file.
type ignoreRule struct {
	globs    []glob.Glob
	negate   bool
	dirOnly  bool
	anchored bool
}

func (r ignoreRule) matches(rel string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}
	target := rel
	if !r.anchored {
		target = path.Base(rel)
	}
	for _, g := range r.globs {
		if g.Match(target) {
			return true
		}
	}
	return false
}

// ignoreMatcher combines configured ignore globs with the ignore files found
// while walking. Rules from an ignore file apply to its directory's subtree.
type ignoreMatcher struct {
	patterns []compiledPattern
	dirs     map[string][]ignoreRule // key: slash path relative to root, "" for root
}

func newIgnoreMatcher(patterns []string) (*ignoreMatcher, error) {
	m := &ignoreMatcher{dirs: make(map[string][]ignoreRule)}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		m.patterns = append(m.patterns, compiledPattern{pattern: pattern, glob: g})
	}
	return m, nil
}

// load reads the ignore files of the directory at relDir.
func (m *ignoreMatcher) load(root, relDir string) error {
	var rules []ignoreRule
	for _, name := range ignoreFileNames {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relDir), name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		rules = append(rules, parseIgnoreRules(data)...)
	}
	if len(rules) > 0 {
		m.dirs[relDir] = rules
	}
	return nil
}

// ignored reports whether a root-relative slash path is excluded.
func (m *ignoreMatcher) ignored(rel string, isDir bool) bool {
	if m.matchesConfigured(rel) {
		return true
	}

	ignored := false
	dir := ""
	parts := strings.Split(rel, "/")
	for i := 0; i < len(parts); i++ {
		if rules, ok := m.dirs[dir]; ok {
			sub := strings.Join(parts[i:], "/")
			for _, rule := range rules {
				if rule.matches(sub, isDir) {
					ignored = !rule.negate
				}
			}
		}
		dir = path.Join(dir, parts[i])
	}
	return ignored
}

// matchesConfigured checks the configured globs. A directory "target" also
// matches "target/**".
func (m *ignoreMatcher) matchesConfigured(rel string) bool {
	return matchesAnyPattern(rel, m.patterns) || matchesAnyPattern(rel+"/**", m.patterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func matchesAnyPattern(p string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(p) {
			return true
		}
	}

	// A root-level path also matches patterns written with a **/ prefix,
	// so "**/*.bak" covers both "a.bak" and "dir/a.bak".
	if !strings.Contains(strings.TrimSuffix(p, "/**"), "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if g, err := glob.Compile(simplified, '/'); err == nil && g.Match(p) {
					return true
				}
			}
		}
	}

	return false
}

// parseIgnoreRules parses .gitignore syntax. Invalid patterns are skipped.
func parseIgnoreRules(data []byte) []ignoreRule {
	var rules []ignoreRule
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if rule, ok := parseIgnoreLine(scanner.Text()); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

func parseIgnoreLine(line string) (ignoreRule, bool) {
	line = strings.TrimRight(line, "\r")
	if !strings.HasSuffix(line, `\ `) {
		line = strings.TrimRight(line, " \t")
	}
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}

	var rule ignoreRule
	if strings.HasPrefix(line, "!") {
		rule.negate = true
		line = line[1:]
	} else if strings.HasPrefix(line, `\!`) || strings.HasPrefix(line, `\#`) {
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if line == "" {
		return ignoreRule{}, false
	}

	rule.anchored = strings.Contains(line, "/")
	line = strings.TrimPrefix(line, "/")

	// Braces are literal in gitignore but alternation in glob syntax.
	line = strings.NewReplacer("{", `\{`, "}", `\}`).Replace(line)

	candidates := []string{line}
	if strings.HasPrefix(line, "**/") {
		candidates = append(candidates, strings.TrimPrefix(line, "**/"))
	}
	for _, c := range candidates {
		g, err := glob.Compile(c, '/')
		if err != nil {
			continue
		}
		rule.globs = append(rule.globs, g)
	}
	if len(rule.globs) == 0 {
		return ignoreRule{}, false
	}
	return rule, true
}
