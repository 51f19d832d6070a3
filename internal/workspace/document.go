package workspace

import (
	"github.com/zeebo/xxh3"

	"github.com/mvp-joe/scriptlens/internal/syntax"
)

// Document is an immutable snapshot of one open script. Updates replace the
// snapshot; Text is never modified in place.
type Document struct {
	URI      string
	Language syntax.Language
	Version  int32
	Text     []byte
	// Hash is the xxh3 digest of Text, used to key cached analysis results.
	Hash uint64
}

func newDocument(uri string, lang syntax.Language, version int32, text []byte) *Document {
	owned := make([]byte, len(text))
	copy(owned, text)
	return &Document{
		URI:      uri,
		Language: lang,
		Version:  version,
		Text:     owned,
		Hash:     xxh3.Hash(owned),
	}
}
