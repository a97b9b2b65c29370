package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/keymapfmt/internal/document"
	"github.com/gnoswap-labs/keymapfmt/internal/fixer"
	tt "github.com/gnoswap-labs/keymapfmt/internal/types"
	"github.com/gnoswap-labs/keymapfmt/scanner"
)

const defaultDebounce = 100 * time.Millisecond

// Engine formats keymap files with a fixed set of options.
type Engine struct {
	opts         document.Options
	extensions   []string
	ignoredPaths []string
	cache        *Cache
	logger       *zap.Logger
	rewrite      func(string, document.Options) string

	// watch state
	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
	debounce   time.Duration
	fixer      *fixer.Fixer
}

// NewEngine creates a new format engine. Files are selected by extension;
// an empty list selects scanner.DefaultExtensions.
func NewEngine(opts document.Options, extensions []string, logger *zap.Logger) *Engine {
	if len(extensions) == 0 {
		extensions = scanner.DefaultExtensions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		opts:       opts,
		extensions: extensions,
		logger:     logger,
		rewrite:    document.Rewrite,
		debounce:   defaultDebounce,
		fixer:      fixer.New(false),
	}
}

func (e *Engine) Options() document.Options {
	return e.opts
}

func (e *Engine) Extensions() []string {
	return e.extensions
}

// UseCache makes Run skip files the cache knows to be formatted already.
func (e *Engine) UseCache(c *Cache) {
	e.cache = c
}

// IgnorePath excludes files matching the glob pattern, or lying under the
// directory, from formatting.
func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(path))
}

func (e *Engine) isIgnored(filename string) bool {
	clean := filepath.Clean(filename)
	for _, ignored := range e.ignoredPaths {
		if ok, _ := filepath.Match(ignored, clean); ok {
			return true
		}
		if ok, _ := filepath.Match(ignored, filepath.Base(clean)); ok {
			return true
		}
		if clean == ignored || strings.HasPrefix(clean, ignored+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run formats the given file and reports the outcome without writing it.
func (e *Engine) Run(filename string) (tt.Result, error) {
	result := tt.Result{Filename: filename}
	if e.isIgnored(filename) {
		e.logger.Debug("skipping ignored file", zap.String("file", filename))
		return result, nil
	}
	if e.cache != nil && e.cache.Get(filename) {
		e.logger.Debug("skipping cached file", zap.String("file", filename))
		return result, nil
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return result, fmt.Errorf("failed to read file: %w", err)
	}

	result = e.format(filename, content)
	if e.cache != nil && !result.Changed {
		if err := e.cache.Set(filename); err != nil {
			e.logger.Warn("failed to update cache", zap.String("file", filename), zap.Error(err))
		}
	}
	return result, nil
}

// RunSource formats the given source.
func (e *Engine) RunSource(source []byte) (tt.Result, error) {
	return e.format("", source), nil
}

// format never fails: content the rewriter panics on is reported unchanged.
func (e *Engine) format(filename string, content []byte) (result tt.Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("formatter panicked, leaving content unchanged",
				zap.String("file", filename), zap.Any("panic", r))
			result = tt.Result{Filename: filename, Original: content, Formatted: content}
		}
	}()

	formatted := []byte(e.rewrite(string(content), e.opts))
	return tt.Result{
		Filename:  filename,
		Changed:   !bytes.Equal(content, formatted),
		Original:  content,
		Formatted: formatted,
	}
}
