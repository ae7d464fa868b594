package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/anupam1005/SmartFarmAI/pkg/logger"
)

// Watch calls onChange with a freshly loaded Config every time the YAML file
// at path is written or replaced. The parent directory is watched rather than
// the file itself so that editors which save via rename keep triggering
// reloads. A reload that fails validation is logged and skipped. Watch blocks
// until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	log := logger.Named("config")
	log.Info(ctx, "watching config file", logger.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isConfigUpdate(ev, target) {
				continue
			}
			cfg, err := LoadFile(ctx, target)
			if err != nil {
				log.Warn(ctx, "config reload skipped", logger.String("op", ev.Op.String()), logger.Error(err))
				continue
			}
			log.Info(ctx, "config reloaded", logger.String("op", ev.Op.String()))
			onChange(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error(ctx, "config watcher error", logger.Error(err))
		}
	}
}

// isConfigUpdate reports whether ev leaves new content at target. Renames
// onto target arrive as Create; removals and renames away are ignored.
func isConfigUpdate(ev fsnotify.Event, target string) bool {
	abs, err := filepath.Abs(ev.Name)
	if err != nil || filepath.Clean(abs) != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}
