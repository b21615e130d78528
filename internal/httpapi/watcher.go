package httpapi

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchStore invalidates the server's cached report whenever the database
// file changes, covering edits made outside the running server (imports,
// another mindmetrics process). Blocks until ctx is canceled.
//
// The parent directory is watched rather than the file itself: SQLite may
// replace or create sibling WAL files, and watching the directory survives
// those renames.
func (s *Server) WatchStore(ctx context.Context, dbPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(dbPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	base := filepath.Base(dbPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Debug("store changed, invalidating cached report",
				zap.String("event", event.Op.String()),
				zap.String("file", event.Name),
			)
			s.InvalidateReport()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("store watcher error", zap.Error(err))
		}
	}
}
