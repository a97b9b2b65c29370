package types

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// Binding represents one entry of a binding list: a sigil-prefixed macro
// followed by zero or more argument tokens.
type Binding struct {
	Macro string
	Args  []string
}

// HasArgs reports whether the binding carries at least one argument.
func (b Binding) HasArgs() bool {
	return len(b.Args) > 0
}

// ArgsText returns the arguments joined with single spaces.
func (b Binding) ArgsText() string {
	return strings.Join(b.Args, " ")
}

// Text returns the binding as it appears with single-space separation.
func (b Binding) Text() string {
	if !b.HasArgs() {
		return b.Macro
	}
	return b.Macro + " " + b.ArgsText()
}

// TemplateCell is one placeholder of a layout template.
type TemplateCell struct {
	Row int
	// Col is the ordinal position of the placeholder within its row.
	Col int
	// Offset is the display column of the placeholder's opening delimiter,
	// relative to the leftmost placeholder of the whole template.
	Offset int
}

type TemplateRow []TemplateCell

// Template is the abstract placeholder grid parsed from comment lines.
type Template struct {
	Rows     []TemplateRow
	MaxCells int
}

// Capacity returns the total number of cells in the template.
func (t *Template) Capacity() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, row := range t.Rows {
		n += len(row)
	}
	return n
}

func (t *Template) Empty() bool {
	return t.Capacity() == 0
}

// ColumnMode selects how template cells are grouped into columns.
type ColumnMode int

const (
	// ColumnOrdinal groups cells by their ordinal position within a row.
	ColumnOrdinal ColumnMode = iota
	// ColumnSlot groups cells by their template offset, so rows shifted
	// in the template line up under the rendered columns above them.
	ColumnSlot
)

func (m ColumnMode) String() string {
	switch m {
	case ColumnOrdinal:
		return "ordinal"
	case ColumnSlot:
		return "slot"
	default:
		return "unknown"
	}
}

// ParseColumnMode converts a configuration value into a ColumnMode.
// The empty string selects ColumnOrdinal.
func ParseColumnMode(s string) (ColumnMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ordinal":
		return ColumnOrdinal, nil
	case "slot":
		return ColumnSlot, nil
	default:
		return ColumnOrdinal, fmt.Errorf("unknown column mode %q", s)
	}
}

// FormattedCell is a template cell together with the binding assigned to it.
type FormattedCell struct {
	Cell    TemplateCell
	Binding *Binding // nil when the cell is empty
	Text    string

	MacroWidth int
	ArgsWidth  int

	// Column is the key into Grid.Columns.
	Column int
	// Start is the desired start column relative to the block's base indentation.
	Start int
}

func (c FormattedCell) Empty() bool {
	return c.Binding == nil
}

// ColumnWidth holds the width statistics of one column.
type ColumnWidth struct {
	Width      int
	MacroWidth int
	ArgsWidth  int
	// Mixed is set when the column holds bindings both with and without args.
	Mixed bool
}

// Grid is the result of mapping bindings onto a template.
type Grid struct {
	Rows     [][]FormattedCell
	Columns  map[int]ColumnWidth
	Overflow []Binding
}

// Result describes the outcome of formatting one file or source.
type Result struct {
	Filename  string `json:"filename"`
	Changed   bool   `json:"changed"`
	Original  []byte `json:"-"`
	Formatted []byte `json:"-"`
}

// Width returns the display width of s.
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// PadRight pads s with spaces up to the given display width.
func PadRight(s string, width int) string {
	if w := Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
