package workspace

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	fileScheme     = "file://"
	untitledScheme = "untitled:"
)

// FileURI converts a filesystem path into a file:// document id.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.ToSlash(filepath.Clean(path))
	if runtime.GOOS == "windows" {
		path = "/" + path
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}

// PathFromURI returns the filesystem path of a file:// document id. ok is
// false for any other scheme.
func PathFromURI(uri string) (string, bool) {
	if !strings.HasPrefix(uri, fileScheme) {
		return "", false
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", false
	}
	path := u.Path
	if runtime.GOOS == "windows" {
		path = strings.TrimPrefix(path, "/")
	}
	return filepath.FromSlash(path), true
}

// IsUntitled reports whether uri names an in-memory document.
func IsUntitled(uri string) bool {
	return strings.HasPrefix(uri, untitledScheme)
}
