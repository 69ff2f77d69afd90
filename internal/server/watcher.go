package server

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher rebuilds the guide when stylesheets under a root change. Bursts
// of events within the debounce window trigger a single rebuild.
type Watcher struct {
	Root     string
	Match    func(name string) bool
	Skip     func(dir string) bool
	Rebuild  func(ctx context.Context) error
	Debounce time.Duration
	Log      logrus.FieldLogger
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if w.Log == nil {
		w.Log = logrus.StandardLogger()
	}

	if err := w.addTree(watcher, w.Root); err != nil {
		return err
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Also watch new directories
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						w.Log.WithError(err).WithField("path", event.Name).Warn("cannot watch directory")
					}
					continue
				}
			}
			if w.Match != nil && !w.Match(filepath.Base(event.Name)) {
				continue
			}
			w.Log.WithFields(logrus.Fields{"path": event.Name, "op": event.Op.String()}).Debug("stylesheet changed")
			timer.Reset(debounce)
		case <-timer.C:
			if err := w.Rebuild(ctx); err != nil {
				w.Log.WithError(err).Error("rebuild failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Log.WithError(err).Warn("watcher error")
		}
	}
}

// addTree recursively adds all directories to the watcher
func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Root && w.Skip != nil && w.Skip(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
