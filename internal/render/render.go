// Package render turns a mapped grid back into lines of text.
package render

import (
	"strings"

	"github.com/gnoswap-labs/keymapfmt/internal/types"
)

// Render lays out every row of g that holds at least one binding, each line
// starting with prefix. A cell starts at its desired column when the line is
// still short of it, otherwise one space after the previous cell. Overflow
// bindings follow, one per line.
func Render(g *types.Grid, prefix string) []string {
	var lines []string
	for _, row := range g.Rows {
		if line, ok := renderRow(row, prefix); ok {
			lines = append(lines, line)
		}
	}
	for _, b := range g.Overflow {
		lines = append(lines, prefix+b.Text())
	}
	return lines
}

func renderRow(row []types.FormattedCell, prefix string) (string, bool) {
	var builder strings.Builder
	builder.WriteString(prefix)

	length := 0
	placed := false
	for _, cell := range row {
		if cell.Empty() {
			continue
		}
		minPad := 1
		if !placed {
			minPad = 0
		}
		pad := max(cell.Start-length, minPad)
		builder.WriteString(strings.Repeat(" ", pad))
		builder.WriteString(cell.Text)
		length += pad + types.Width(cell.Text)
		placed = true
	}
	return builder.String(), placed
}
