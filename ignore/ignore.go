// Package ignore decides which files a recursive search should skip,
// combining user-supplied exclude globs with .gitignore rules.
package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// vcsDirectories are never worth searching when ignore rules are active.
var vcsDirectories = map[string]bool{
	".git": true,
	".svn": true,
	".hg":  true,
}

// rootRules pairs one searched directory root with the rules of its own
// .gitignore file.
type rootRules struct {
	dir   string
	rules gitignore.GitIgnore
}

// Matcher implements resolve.SkipChecker. Exclude globs always apply;
// .gitignore rules apply only when the matcher was built with
// IgnoreFiles, and each searched root is governed by the .gitignore
// found in that root. Thread-safe: Reload() takes the write lock, the
// Should* methods take the read lock.
type Matcher struct {
	mu          sync.RWMutex
	roots       []rootRules
	patterns    []string
	ignoreFiles bool
}

// MatcherOptions configures the skip matcher.
type MatcherOptions struct {
	Roots       []string // searched directory roots, each with its own .gitignore
	Patterns    []string // exclude globs from the command line
	IgnoreFiles bool     // honor .gitignore and skip VCS metadata
}

// NewMatcher builds a matcher. With IgnoreFiles set it loads .gitignore
// from every root; a missing .gitignore is not an error.
func NewMatcher(options MatcherOptions) *Matcher {
	m := &Matcher{
		patterns:    options.Patterns,
		ignoreFiles: options.IgnoreFiles,
	}
	for _, root := range options.Roots {
		var rules gitignore.GitIgnore
		if m.ignoreFiles {
			rules = loadIgnoreFile(filepath.Join(root, ".gitignore"), root)
		}
		m.roots = append(m.roots, rootRules{dir: root, rules: rules})
	}
	return m
}

// ShouldIgnore reports whether the given path should be skipped.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	root, relativePath := m.owner(absolutePath)

	if m.matchesPatterns(relativePath) {
		return true
	}

	if root != nil && root.rules != nil {
		isDir := false
		if info, err := os.Stat(absolutePath); err == nil {
			isDir = info.IsDir()
		}
		match := root.rules.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}

	return false
}

// ShouldIgnoreDir reports whether a directory should be pruned from the
// walk entirely.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	if m.ignoreFiles && vcsDirectories[filepath.Base(absolutePath)] {
		return true
	}
	return m.ShouldIgnore(absolutePath)
}

// Reload re-reads every root's .gitignore from disk. Used by watch mode
// when an ignore file itself changes.
func (m *Matcher) Reload() {
	if !m.ignoreFiles {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.roots {
		m.roots[i].rules = loadIgnoreFile(filepath.Join(m.roots[i].dir, ".gitignore"), m.roots[i].dir)
	}
}

// owner finds the searched root containing the path and returns the
// slash-separated path relative to it. Paths under no root are matched
// as given, with no .gitignore rules in effect.
func (m *Matcher) owner(path string) (*rootRules, string) {
	for i := range m.roots {
		rel, err := filepath.Rel(m.roots[i].dir, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return &m.roots[i], filepath.ToSlash(rel)
	}
	return nil, filepath.ToSlash(path)
}

// matchesPatterns checks the exclude globs against the relative path and
// against the basename, so "*.log" excludes logs at any depth.
func (m *Matcher) matchesPatterns(relativePath string) bool {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.patterns {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// loadIgnoreFile parses one ignore file, returning nil when it does not
// exist. The reader form is used so the handle is closed promptly.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
