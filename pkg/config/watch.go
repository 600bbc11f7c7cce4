package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// WatchDir watches dir for filesystem events and invokes onChange for each
// one, until ctx is canceled. Grounded on the teacher's
// api/pkg/desktop/claude_bridge.go JSONL-watch idiom (fsnotify.NewWatcher,
// add one directory, range over watcher.Events/Errors in a goroutine).
// cmd/eurora-collector uses this to watch the secret store's data directory
// so an operator hand-editing secrets.enc (or replacing it out of band) is
// picked up without a restart, rather than for config-file reload — this
// module's configuration is entirely environment-variable driven (see
// CollectorConfig), so there is no config file to watch.
func WatchDir(ctx context.Context, dir string, onChange func(fsnotify.Event)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				onChange(event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Str("dir", dir).Msg("config: watch error")
			}
		}
	}()
	return nil
}
