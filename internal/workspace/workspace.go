package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mvp-joe/scriptlens/internal/syntax"
)

// Workspace is the text-model store: the set of open documents keyed by
// document id (a file:// or untitled: URI). It is safe for concurrent use and
// implements analysis.TreeSource.
type Workspace struct {
	mu     sync.RWMutex
	docs   map[string]*Document
	logger *slog.Logger
}

// New creates an empty workspace. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{
		docs:   make(map[string]*Document),
		logger: logger,
	}
}

// Open registers a document, replacing any document already open under uri.
func (w *Workspace) Open(uri string, lang syntax.Language, version int32, text []byte) {
	doc := newDocument(uri, lang, version, text)

	w.mu.Lock()
	w.docs[uri] = doc
	w.mu.Unlock()

	w.logger.Debug("document opened", "uri", uri, "language", lang, "version", version)
}

// Update replaces the text of an open document. Versions older than the
// stored one are rejected with ErrStaleVersion.
func (w *Workspace) Update(uri string, version int32, text []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	current, ok := w.docs[uri]
	if !ok {
		return fmt.Errorf("update %s: %w", uri, ErrNotFound)
	}
	if version < current.Version {
		return fmt.Errorf("update %s to version %d (have %d): %w", uri, version, current.Version, ErrStaleVersion)
	}

	w.docs[uri] = newDocument(uri, current.Language, version, text)
	w.logger.Debug("document updated", "uri", uri, "version", version)
	return nil
}

// Close forgets a document.
func (w *Workspace) Close(uri string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.docs[uri]; !ok {
		return fmt.Errorf("close %s: %w", uri, ErrNotFound)
	}
	delete(w.docs, uri)
	w.logger.Debug("document closed", "uri", uri)
	return nil
}

// Get returns the current snapshot of a document.
func (w *Workspace) Get(uri string) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, ok := w.docs[uri]
	return doc, ok
}

// URIs returns the ids of every open document in sorted order.
func (w *Workspace) URIs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	uris := make([]string, 0, len(w.docs))
	for uri := range w.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// OpenFile loads a script from disk and returns its document id. Reopening a
// file that is already open bumps its version.
func (w *Workspace) OpenFile(path string) (string, error) {
	lang, err := syntax.LanguageForPath(path)
	if err != nil {
		return "", err
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	uri := FileURI(path)

	w.mu.Lock()
	version := int32(0)
	if current, ok := w.docs[uri]; ok {
		version = current.Version + 1
	}
	w.docs[uri] = newDocument(uri, lang, version, text)
	w.mu.Unlock()

	w.logger.Debug("file loaded", "path", path, "uri", uri, "version", version, "bytes", len(text))
	return uri, nil
}

// OpenUntitled registers an in-memory script under a fresh untitled: id.
func (w *Workspace) OpenUntitled(lang syntax.Language, text []byte) string {
	uri := untitledScheme + uuid.NewString()
	w.Open(uri, lang, 0, text)
	return uri
}

// ResolveTree parses the current text of fileID. The caller owns the tree
// and must Close it.
func (w *Workspace) ResolveTree(fileID string) (*syntax.Tree, error) {
	doc, ok := w.Get(fileID)
	if !ok {
		return nil, fmt.Errorf("resolve %s: %w", fileID, ErrNotFound)
	}

	tree, err := syntax.Parse(doc.Language, doc.Text)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", fileID, err)
	}
	return tree, nil
}
