package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gethiox/sentral/internal/pkg/logger"
)

var log = logger.GetLogger()

// WatchProfile notifies about writes to the file at path. The parent directory is
// watched so files replaced by editors are still noticed. The channel is closed
// when ctx is done.
func WatchProfile(ctx context.Context, path string) (<-chan bool, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("cannot watch \"%s\": %w", filepath.Dir(path), err)
	}

	var change = make(chan bool)
	target := filepath.Clean(path)

	go func() {
		<-ctx.Done()
		err := watcher.Close()
		if err != nil {
			log.Info(fmt.Sprintf("closing watcher failed: %v", err), logger.Debug)
		}
	}()

	go func() {
		defer close(change)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				log.Info(fmt.Sprintf("profile change detected: %s", event.Name), logger.Info)
				select {
				case change <- true:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Info(fmt.Sprintf("profile watcher error: %v", err), logger.Warning)
			case <-ctx.Done():
				return
			}
		}
	}()

	return change, nil
}
