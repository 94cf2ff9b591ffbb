package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

// Live serves a catalog loaded from disk and swaps it whenever the file
// changes. A reload that fails validation keeps the previous catalog.
type Live struct {
	path string
	log  *logger.Logger
	cur  atomic.Pointer[Catalog]
}

func NewLive(path string, log *logger.Logger) (*Live, error) {
	c, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	l := &Live{path: path, log: log.With("service", "CatalogWatcher", "path", path)}
	l.cur.Store(c)
	return l, nil
}

func (l *Live) Current() *Catalog { return l.cur.Load() }

// Reload re-reads the file and swaps it in on success.
func (l *Live) Reload() error {
	c, err := LoadFile(l.path)
	if err != nil {
		return err
	}
	l.cur.Store(c)
	return nil
}

// Watch blocks until ctx is done, reloading on writes to the catalog file.
// The parent directory is watched so editors that replace the file on save
// are picked up too.
func (l *Live) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(l.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(l.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := l.Reload(); err != nil {
				l.log.Warn("catalog reload failed, keeping previous catalog", "error", err)
				continue
			}
			l.log.Info("catalog reloaded", "op", event.Op.String())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.log.Warn("catalog watcher error", "error", err)
		}
	}
}
