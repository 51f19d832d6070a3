package watcher

import "context"

// FileWatcher monitors script files for changes with debouncing.
type FileWatcher interface {
	// Start begins watching source directories, calling callback with debounced file changes.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error
}

// PathFilter decides which paths the watcher reports.
type PathFilter interface {
	// Match reports whether a changed file should be reported.
	Match(path string) bool

	// SkipDir reports whether a directory should not be watched at all.
	SkipDir(path string) bool
}

// ChangeHandler reacts to a debounced batch of changed files.
type ChangeHandler interface {
	// HandleChanges re-analyzes the given files. Removed files are included.
	HandleChanges(ctx context.Context, files []string) error
}
