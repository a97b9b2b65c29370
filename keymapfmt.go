// Package keymapfmt lays out the binding lists of keyboard keymap files on
// the grid drawn by a template comment.
//
// A document opts in by carrying a template block: a marker comment followed
// by rows of pipe-delimited placeholders.
//
//	// Keymap Template
//	// | * | * |
//	// | * | * |
//
//	bindings = <
//	    &kp Q &kp W
//	    &kp E &kp R
//	>;
//
// Bindings are assigned to the placeholders in order, row by row, and every
// column is padded so that macros and their arguments line up vertically.
package keymapfmt

import (
	"github.com/gnoswap-labs/keymapfmt/internal/document"
	"github.com/gnoswap-labs/keymapfmt/internal/types"
)

// Options configures the grammar and layout used by FormatWithOptions.
// Zero-valued fields fall back to the defaults of DefaultOptions.
type Options = document.Options

// ColumnMode selects how template cells are grouped into aligned columns.
type ColumnMode = types.ColumnMode

const (
	ColumnOrdinal = types.ColumnOrdinal
	ColumnSlot    = types.ColumnSlot
)

// DefaultOptions returns the options for ZMK keymaps.
func DefaultOptions() Options {
	return document.DefaultOptions()
}

// Format reformats every binding list of text using DefaultOptions.
func Format(text string) string {
	return FormatWithOptions(text, DefaultOptions())
}

// FormatWithOptions reformats every binding list of text that follows the
// document's template block. It never fails: input it cannot format is
// returned unchanged.
func FormatWithOptions(text string, opts Options) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = text
		}
	}()
	return document.Rewrite(text, opts)
}
