package lam

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reruns .lam files under paths whenever they are written, passing
// each result to report. It blocks until ctx is done.
func (e *Engine) Watch(ctx context.Context, paths []string, report func(Output)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	// a single file is watched through its directory, so its siblings
	// must be filtered out
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", path, err)
		}
		if !info.IsDir() {
			files[filepath.Clean(path)] = true
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("error watching %s: %w", path, err)
			}
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				dirs[filepath.Clean(p)] = true
				return watcher.Add(p)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.logger.Info("watching", zap.Strings("paths", paths))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if name, ok := wantsRerun(event, files, dirs); ok {
				e.rerun(ctx, name, report)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func wantsRerun(event fsnotify.Event, files, dirs map[string]bool) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return "", false
	}
	name := filepath.Clean(event.Name)
	if !hasDesiredExtension(name) {
		return "", false
	}
	return name, files[name] || dirs[filepath.Dir(name)]
}

func (e *Engine) rerun(ctx context.Context, name string, report func(Output)) {
	// editors often write a file in several steps
	select {
	case <-ctx.Done():
		return
	case <-time.After(e.debounce):
	}

	out, err := e.Run(ctx, name)
	if err != nil {
		e.logger.Error("error rerunning file", zap.String("path", name), zap.Error(err))
		return
	}
	if err := e.Flush(); err != nil {
		e.logger.Warn("failed to update cache", zap.Error(err))
	}
	report(out)
}
