// Package internal provides the file-level machinery of keymapfmt.
//
// Engine: formats files or sources with a fixed set of document options and
// reports a Result per input without touching the disk. Paths can be
// excluded with IgnorePath.
//
// Cache: remembers files that were found formatted so later runs can skip
// them. Entries are keyed by filename and invalidated when the file's hash or
// modification time changes, when they grow older than the maximum age, or
// when a registered dependency (usually the configuration file) changes,
// within a run or between runs.
//
// Watching: StartWatching follows directories with fsnotify and rewrites
// keymap files in place as soon as they are saved.
//
// Usage:
//
//	engine := internal.NewEngine(document.DefaultOptions(), nil, logger)
//
//	result, err := engine.Run("config/corne.keymap")
//	if err != nil {
//	    // handle error
//	}
//	if result.Changed {
//	    // write result.Formatted
//	}
//
// This package is intended for internal use within keymapfmt and should not
// be imported by external packages.
package internal
