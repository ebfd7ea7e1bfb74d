package export

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// rebuildDebounce batches the event bursts a copy into the library
// directory produces into a single rebuild.
const rebuildDebounce = 2 * time.Second

// Watch monitors the library directory and reruns the export whenever
// its contents change, until stop is closed. Rebuild failures are
// logged; the watch loop keeps going so a transient bad file does not
// end the session.
func (e *Exporter) Watch(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the root and each playlist folder.
	if err := addDirectoryToWatcher(watcher, e.cfg.Library.Path); err != nil {
		return err
	}

	e.logger.WithField("library_path", e.cfg.Library.Path).Info("File watcher started")

	trigger := make(chan struct{}, 1)
	var timer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Ignore temporary files and hidden files
			fileName := filepath.Base(event.Name)
			if strings.HasPrefix(fileName, ".") || strings.HasSuffix(fileName, ".tmp") {
				continue
			}

			// New directories become playlist folders; watch them too.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					watcher.Add(event.Name)
					e.logger.WithField("directory", event.Name).Info("Watching new directory")
				}
			}

			// Debounce: (re)arm the timer on every relevant event.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rebuildDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.WithError(err).Error("File watcher error")

		case <-trigger:
			e.logger.Info("Library changed, rebuilding export")
			if err := e.Run(); err != nil {
				e.logger.WithError(err).Error("Rebuild failed")
			}

		case <-stop:
			return nil
		}
	}
}

// addDirectoryToWatcher recursively walks and adds subdirectories to watcher.
func addDirectoryToWatcher(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
