package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/config"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/docs"
	"github.com/sirupsen/logrus"
)

// TriggerInitial marks the render a watch session starts with
const TriggerInitial = "initial"

// RenderResult describes one render of a watch session
type RenderResult struct {
	// Trigger is TriggerInitial or the file system operation that caused
	// the render
	Trigger  string
	Pages    []docs.Page
	Paths    []string
	Duration time.Duration
	Err      error
}

// RenderObserver is called after every render of a watch session
type RenderObserver func(RenderResult)

// Watch renders once and then again whenever a .proto file below one of the
// import paths is written or created. Render errors are logged and watching
// continues; it returns when ctx is cancelled.
func Watch(ctx context.Context, cfg *RenderConfig, opts *config.Options, files []string, logger *logrus.Logger, observers ...RenderObserver) error {
	if ctx == nil {
		ctx = context.Background()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range cfg.ImportPaths {
		if err := setupWatcher(watcher, dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	rerender := func(trigger string) {
		result := render(ctx, cfg, opts, files, logger)
		result.Trigger = trigger
		if result.Err != nil {
			logger.WithError(result.Err).Error("render failed")
		}
		for _, observe := range observers {
			observe(result)
		}
	}
	rerender(TriggerInitial)

	logger.Infof("Watching %v for proto file changes", cfg.ImportPaths)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isProtoChange(event) {
				logger.WithField("file", event.Name).Info("proto file changed")
				rerender(eventOp(event))
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.WithError(err).Warn("failed to watch new directory")
					}
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		}
	}
}

func isProtoChange(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0 && filepath.Ext(event.Name) == ".proto"
}

// eventOp names the operation that made event a proto change
func eventOp(event fsnotify.Event) string {
	if event.Op&fsnotify.Create != 0 {
		return fsnotify.Create.String()
	}
	return fsnotify.Write.String()
}

// setupWatcher recursively adds all directories to the watcher
func setupWatcher(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
