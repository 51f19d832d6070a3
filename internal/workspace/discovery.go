package workspace

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/scriptlens/internal/syntax"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery finds script files under a root directory using include globs
// and ignore rules.
type Discovery struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
}

// NewDiscovery compiles the include and ignore globs relative to rootDir.
func NewDiscovery(rootDir string, include, ignore []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}

	var err error
	if d.includePatterns, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if d.ignorePatterns, err = compilePatterns(ignore); err != nil {
		return nil, err
	}
	return d, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		out = append(out, compiledPattern{pattern: pattern, glob: g})
	}
	return out, nil
}

// Root returns the directory discovery walks.
func (d *Discovery) Root() string {
	return d.rootDir
}

// Discover walks the root and returns every matching script path. Ignored
// directories are not descended into.
func (d *Discovery) Discover() ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if relPath != "." && d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.matchRel(relPath) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// Match reports whether path (absolute, or relative to the root) is a script
// discovery would return.
func (d *Discovery) Match(path string) bool {
	relPath := path
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(d.rootDir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return false
		}
		relPath = rel
	}
	relPath = filepath.ToSlash(relPath)

	// Each parent directory may be ignored on its own.
	dir := relPath
	for {
		i := strings.LastIndexByte(dir, '/')
		if i < 0 {
			break
		}
		dir = dir[:i]
		if d.shouldIgnore(dir) {
			return false
		}
	}
	return d.matchRel(relPath)
}

func (d *Discovery) matchRel(relPath string) bool {
	if d.shouldIgnore(relPath) {
		return false
	}
	if _, err := syntax.LanguageForPath(relPath); err != nil {
		return false
	}
	return matchesAnyPattern(relPath, d.includePatterns)
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if strings.HasPrefix(relPath, ".scriptlens/") || relPath == ".scriptlens" {
		return true
	}

	if matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// "node_modules" should match pattern "node_modules/**"
	return matchesAnyPattern(relPath+"/**", d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns. Paths
// in the root also match "**/"-prefixed patterns, so "**/*.ts" matches both
// "rule.ts" and "rules/rule.ts".
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	if strings.Contains(path, "/") {
		return false
	}
	for _, cp := range patterns {
		if !strings.HasPrefix(cp.pattern, "**/") {
			continue
		}
		simplified, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/')
		if err == nil && simplified.Match(path) {
			return true
		}
	}
	return false
}

// SkipDir reports whether a directory (absolute, or relative to the root) is
// ignored along with everything below it.
func (d *Discovery) SkipDir(path string) bool {
	relPath := path
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(d.rootDir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return true
		}
		relPath = rel
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		return false
	}
	return d.shouldIgnore(relPath)
}
