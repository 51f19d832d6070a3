package workspace

import "errors"

var (
	// ErrNotFound is returned when a document id is not open in the workspace.
	ErrNotFound = errors.New("document not found")

	// ErrStaleVersion is returned when an update carries a version older than
	// the one already stored.
	ErrStaleVersion = errors.New("stale document version")
)
