package watcher

import (
	"context"
	"log/slog"
)

// WatchCoordinator routes debounced file changes to a ChangeHandler.
type WatchCoordinator struct {
	files   FileWatcher
	handler ChangeHandler
	logger  *slog.Logger
	ctx     context.Context
}

// NewWatchCoordinator creates a new watch coordinator.
func NewWatchCoordinator(files FileWatcher, handler ChangeHandler, logger *slog.Logger) *WatchCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WatchCoordinator{
		files:   files,
		handler: handler,
		logger:  logger,
	}
}

// Start begins routing file changes to the handler.
// Blocks until context is cancelled.
func (c *WatchCoordinator) Start(ctx context.Context) error {
	c.ctx = ctx
	if err := c.files.Start(ctx, c.handleFileChange); err != nil {
		c.cleanup()
		return err
	}

	<-ctx.Done()
	c.cleanup()
	return ctx.Err()
}

func (c *WatchCoordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		c.logger.Warn("file watcher stop failed", "error", err)
	}
}

// handleFileChange processes file change events from the file watcher.
func (c *WatchCoordinator) handleFileChange(files []string) {
	if len(files) == 0 {
		return
	}

	c.logger.Debug("processing file changes", "count", len(files))

	if err := c.handler.HandleChanges(c.ctx, files); err != nil {
		c.logger.Error("re-analysis failed", "error", err)
	}
}
