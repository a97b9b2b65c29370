package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnoswap-labs/keymapfmt/internal/types"
	"github.com/gnoswap-labs/keymapfmt/scanner"
)

var (
	ErrAlreadyWatching = errors.New("already watching")
	ErrNotWatching     = errors.New("not watching")
)

// StartWatching reformats keymap files under dirs whenever they are written,
// until ctx is done or StopWatching is called.
func (e *Engine) StartWatching(ctx context.Context, dirs ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isWatching {
		return ErrAlreadyWatching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			if path != dir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.watchDirs = dirs
	e.isWatching = true
	go e.watchLoop(ctx, watcher)
	return nil
}

func (e *Engine) StopWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isWatching {
		return ErrNotWatching
	}

	e.isWatching = false
	return e.watcher.Close()
}

// IsWatching reports whether a watch session is running.
func (e *Engine) IsWatching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isWatching
}

func (e *Engine) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			if err := e.StopWatching(); err != nil && !errors.Is(err, ErrNotWatching) {
				e.logger.Error("error stopping watcher", zap.Error(err))
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !scanner.New("", e.extensions...).IsTargetFile(event.Name) {
		return
	}

	// wait for a while after file change to consider multiple changes as one
	time.Sleep(e.debounce)

	result, err := e.Run(event.Name)
	if err != nil {
		e.logger.Error("error formatting file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	e.reportResult(result)
}

func (e *Engine) reportResult(result tt.Result) {
	if !result.Changed {
		e.logger.Debug("already formatted", zap.String("file", result.Filename))
		return
	}
	if err := e.fixer.Fix(result); err != nil {
		e.logger.Error("error writing file", zap.String("file", result.Filename), zap.Error(err))
		return
	}
	e.logger.Info("formatted", zap.String("file", result.Filename))
}
