package dataset

import (
	"context"
	"log"
	"os"
	"time"
)

// Watcher polls the configured dataset file's mtime and triggers a reload
// when it changes. Good enough for a local file the user edits or
// re-exports; no inotify dependency needed.
type Watcher struct {
	Path     string
	Interval time.Duration
	Reload   func(ctx context.Context) error
}

func (w Watcher) Run(ctx context.Context) {
	if w.Path == "" || w.Interval <= 0 {
		return
	}

	t := time.NewTicker(w.Interval)
	defer t.Stop()

	lastMod := w.modTime()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			mod := w.modTime()
			if mod.IsZero() || mod.Equal(lastMod) {
				continue
			}
			lastMod = mod
			log.Printf("[watcher] dataset changed (mtime=%s), reloading", mod.Format(time.RFC3339))
			if err := w.Reload(ctx); err != nil {
				log.Printf("[watcher] reload error: %v", err)
			}
		}
	}
}

func (w Watcher) modTime() time.Time {
	fi, err := os.Stat(w.Path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}
