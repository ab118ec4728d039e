package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchAllowlistFile watches the given allowlist file for writes and
// recreations (the atomic-save pattern most editors use) and reloads cfg's
// allowlist in place once changes settle. It runs in a goroutine until ctx
// is canceled; callers don't receive a channel because the reload is applied
// here, directly against cfg, rather than handed back for the caller to
// apply itself — there is only ever one consumer of a file-change event in
// this gateway (the allowlist it names), so there is nothing for a caller to
// do with a bare notification beyond what this function already does.
func WatchAllowlistFile(ctx context.Context, cfg *Config, file string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.ErrorContext(ctx, "failed to create fsnotify watcher", "error", err)
		return
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		slog.WarnContext(ctx, "could not resolve absolute path for allowlist file", "file", file, "error", err)
		watcher.Close()
		return
	}
	// Watch the parent directory rather than the file itself: a watch on the
	// file is lost when an editor replaces it, and Create events are only
	// reported for directory watches.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		slog.WarnContext(ctx, "could not watch allowlist file", "file", file, "error", err)
		watcher.Close()
		return
	}
	slog.DebugContext(ctx, "watching allowlist file", "file", absPath)

	go func() {
		defer watcher.Close()

		const debounceDuration = 500 * time.Millisecond
		var timer *time.Timer

		reload := func() {
			if err := cfg.ReloadAllowlistFile(file); err != nil {
				slog.ErrorContext(ctx, "failed to reload allowlist", "file", file, "error", err)
				return
			}
			slog.InfoContext(ctx, "allowlist reloaded", "file", file)
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath {
					continue
				}
				if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounceDuration, reload)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.ErrorContext(ctx, "allowlist watcher encountered an error", "error", err)
			}
		}
	}()
}
