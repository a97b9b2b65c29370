// Package grid assigns bindings to template cells and computes the column
// widths used to align them.
package grid

import (
	"sort"

	"github.com/gnoswap-labs/keymapfmt/internal/types"
)

// Map places bindings onto the cells of tmpl in row-major order and renders
// the text of every occupied cell.
//
// Bindings beyond the template's capacity are returned in Grid.Overflow.
// Cells left without a binding stay empty.
func Map(tmpl *types.Template, bindings []types.Binding, mode types.ColumnMode) *types.Grid {
	g := &types.Grid{Columns: make(map[int]types.ColumnWidth)}
	if tmpl == nil {
		g.Overflow = append(g.Overflow, bindings...)
		return g
	}

	keyOf := columnKey(tmpl, mode)

	next := 0
	for _, row := range tmpl.Rows {
		cells := make([]types.FormattedCell, 0, len(row))
		for _, cell := range row {
			fc := types.FormattedCell{Cell: cell, Column: keyOf(cell), Start: cell.Offset}
			if next < len(bindings) {
				b := bindings[next]
				fc.Binding = &b
				fc.MacroWidth = types.Width(b.Macro)
				fc.ArgsWidth = types.Width(b.ArgsText())
				next++
			}
			cells = append(cells, fc)
		}
		g.Rows = append(g.Rows, cells)
	}
	if next < len(bindings) {
		g.Overflow = append(g.Overflow, bindings[next:]...)
	}

	measure(g)
	if mode == types.ColumnSlot {
		placeSlots(g)
	}
	return g
}

// columnKey returns the function identifying the column of a cell.
func columnKey(tmpl *types.Template, mode types.ColumnMode) func(types.TemplateCell) int {
	if mode != types.ColumnSlot {
		return func(c types.TemplateCell) int { return c.Col }
	}

	var offsets []int
	seen := make(map[int]bool)
	for _, row := range tmpl.Rows {
		for _, c := range row {
			if !seen[c.Offset] {
				seen[c.Offset] = true
				offsets = append(offsets, c.Offset)
			}
		}
	}
	sort.Ints(offsets)

	slots := make(map[int]int, len(offsets))
	for i, off := range offsets {
		slots[off] = i
	}
	return func(c types.TemplateCell) int { return slots[c.Offset] }
}

// measure computes the per-column statistics and renders every occupied
// cell padded to its column width.
func measure(g *types.Grid) {
	withArgs := make(map[int]bool)
	bare := make(map[int]bool)

	forEachOccupied(g, func(c *types.FormattedCell) {
		cw := g.Columns[c.Column]
		if c.Binding.HasArgs() {
			withArgs[c.Column] = true
			cw.MacroWidth = max(cw.MacroWidth, c.MacroWidth)
			cw.ArgsWidth = max(cw.ArgsWidth, c.ArgsWidth)
		} else {
			bare[c.Column] = true
		}
		g.Columns[c.Column] = cw
	})

	for key, cw := range g.Columns {
		cw.Mixed = withArgs[key] && bare[key]
		g.Columns[key] = cw
	}

	forEachOccupied(g, func(c *types.FormattedCell) {
		cw := g.Columns[c.Column]
		c.Text = renderCell(*c.Binding, cw)
		cw.Width = max(cw.Width, types.Width(c.Text))
		g.Columns[c.Column] = cw
	})

	forEachOccupied(g, func(c *types.FormattedCell) {
		c.Text = types.PadRight(c.Text, g.Columns[c.Column].Width)
	})
}

func renderCell(b types.Binding, cw types.ColumnWidth) string {
	switch {
	case !b.HasArgs():
		return b.Macro
	case cw.Mixed:
		return b.Text()
	default:
		return types.PadRight(b.Macro, cw.MacroWidth) + " " + types.PadRight(b.ArgsText(), cw.ArgsWidth)
	}
}

// placeSlots lays the slots out side by side, each one starting a single
// space after the widest cell of the slot before it.
func placeSlots(g *types.Grid) {
	var keys []int
	for key := range g.Columns {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	starts := make(map[int]int, len(keys))
	pos := 0
	for _, key := range keys {
		starts[key] = pos
		pos += g.Columns[key].Width + 1
	}

	for r := range g.Rows {
		for i := range g.Rows[r] {
			c := &g.Rows[r][i]
			if start, ok := starts[c.Column]; ok {
				c.Start = start
			}
		}
	}
}

func forEachOccupied(g *types.Grid, fn func(c *types.FormattedCell)) {
	for r := range g.Rows {
		for i := range g.Rows[r] {
			if !g.Rows[r][i].Empty() {
				fn(&g.Rows[r][i])
			}
		}
	}
}
