package document

import (
	"github.com/gnoswap-labs/keymapfmt/internal/binding"
	"github.com/gnoswap-labs/keymapfmt/internal/types"
)

// Default grammar tokens of a ZMK keymap.
const (
	DefaultMarker  = "Keymap Template"
	DefaultComment = "//"
	DefaultOpen    = `(^|[^-\w])bindings\s*=\s*<`
	DefaultClose   = ">"
	DefaultIndent  = 4
)

// Options configures the tokens recognized in a document and the layout of
// the rewritten blocks.
type Options struct {
	// Marker is the phrase a comment must contain to introduce a template.
	Marker string
	// Comment is the line-comment marker.
	Comment string
	// Sigil prefixes every macro.
	Sigil string
	// Open is a regular expression matching the block-open token.
	Open string
	// Close is the literal block-close token.
	Close string
	// Indent is the number of spaces between a block's opening line and its bindings.
	Indent  int
	Columns types.ColumnMode
}

func DefaultOptions() Options {
	return Options{
		Marker:  DefaultMarker,
		Comment: DefaultComment,
		Sigil:   binding.DefaultSigil,
		Open:    DefaultOpen,
		Close:   DefaultClose,
		Indent:  DefaultIndent,
		Columns: types.ColumnOrdinal,
	}
}

// withDefaults fills every zero-valued field from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Marker == "" {
		o.Marker = def.Marker
	}
	if o.Comment == "" {
		o.Comment = def.Comment
	}
	if o.Sigil == "" {
		o.Sigil = def.Sigil
	}
	if o.Open == "" {
		o.Open = def.Open
	}
	if o.Close == "" {
		o.Close = def.Close
	}
	if o.Indent <= 0 {
		o.Indent = def.Indent
	}
	return o
}
