package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Discovery:
// - Root-level and nested scripts match "**/*.ext" patterns
// - Ignored directories are skipped entirely
// - Files without a registered grammar never match
// - Match agrees with Discover for absolute and relative paths
// - Invalid globs are rejected

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("// "+f), 0o644))
	}
}

func TestDiscovery_Discover(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root,
		"main.ts",
		"rules/lamp.js",
		"rules/ui/panel.tsx",
		"rules/README.md",
		"node_modules/pkg/index.js",
		"dist/out.js",
		".scriptlens/cache.ts",
		"lib/types.go",
	)

	d, err := NewDiscovery(root,
		[]string{"**/*.ts", "**/*.tsx", "**/*.js", "**/*.md", "**/*.go"},
		[]string{"node_modules/**", "dist/**"},
	)
	require.NoError(t, err)
	assert.Equal(t, root, d.Root())

	files, err := d.Discover()
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.ElementsMatch(t, []string{"main.ts", "rules/lamp.js", "rules/ui/panel.tsx"}, rel)
}

func TestDiscovery_Match(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	d, err := NewDiscovery(root, []string{"**/*.ts"}, []string{"node_modules/**", "**/generated/**"})
	require.NoError(t, err)

	assert.True(t, d.Match("a.ts"))
	assert.True(t, d.Match(filepath.Join(root, "src", "a.ts")))
	assert.False(t, d.Match(filepath.Join(root, "node_modules", "x", "a.ts")))
	assert.False(t, d.Match("src/generated/a.ts"))
	assert.False(t, d.Match("src/a.js"), "not included")
	assert.False(t, d.Match(filepath.Join(filepath.Dir(root), "elsewhere.ts")), "outside root")
}

func TestNewDiscovery_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := NewDiscovery(t.TempDir(), []string{"[unclosed"}, nil)
	assert.Error(t, err)
}
