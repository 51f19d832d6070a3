package mcp

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/scriptlens/internal/syntax"
	"github.com/mvp-joe/scriptlens/internal/workspace"
)

var (
	errNoTarget        = errors.New("either file_path or source is required")
	errAmbiguousTarget = errors.New("file_path and source are mutually exclusive")
	errMissingLanguage = errors.New("language is required when source is given")
)

// scriptTarget names the script a tool call analyzes: a file on disk or an
// inline source string.
type scriptTarget struct {
	FilePath string `json:"file_path"`
	Source   string `json:"source"`
	Language string `json:"language"`
}

func (t scriptTarget) validate() error {
	hasPath := strings.TrimSpace(t.FilePath) != ""
	hasSource := t.Source != ""
	switch {
	case hasPath && hasSource:
		return errAmbiguousTarget
	case !hasPath && !hasSource:
		return errNoTarget
	case hasSource && strings.TrimSpace(t.Language) == "":
		return errMissingLanguage
	}
	return nil
}

// openTarget loads the target into ws and returns its document id with a
// release func. Inline sources are closed on release; files stay open so
// repeated calls hit the result cache.
func openTarget(ws *workspace.Workspace, projectRoot string, t scriptTarget) (string, func(), error) {
	if err := t.validate(); err != nil {
		return "", nil, err
	}

	if t.Source != "" {
		lang, err := syntax.LanguageForID(t.Language)
		if err != nil {
			return "", nil, fmt.Errorf("language %q: %w", t.Language, err)
		}
		uri := ws.OpenUntitled(lang, []byte(t.Source))
		return uri, func() { _ = ws.Close(uri) }, nil
	}

	path := t.FilePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectRoot, path)
	}
	uri, err := ws.OpenFile(path)
	if err != nil {
		return "", nil, err
	}
	return uri, func() {}, nil
}

// displayName reports the target the way the caller named it.
func (t scriptTarget) displayName(uri string) string {
	if t.FilePath != "" {
		return t.FilePath
	}
	return uri
}
