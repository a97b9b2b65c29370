// Package template parses the ASCII-art layout grids that describe how a
// binding list should be laid out.
//
// A template is a run of line comments, each made of pipe-delimited
// segments:
//
//	// Keymap Template
//	// | * | * | * |
//	//     | * |
//
// Every segment holding a placeholder token becomes a cell. Blank segments
// are gaps and only shift the cells that follow them.
package template

import (
	"strings"

	"github.com/gnoswap-labs/keymapfmt/internal/types"
)

const tabWidth = 8

// IsMarker reports whether line is a comment introducing a template block.
func IsMarker(line, comment, phrase string) bool {
	text, ok := commentText(line, comment)
	if !ok || phrase == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(phrase))
}

// IsRow reports whether line is a template row.
func IsRow(line, comment string) bool {
	_, ok := parseRow(line, comment)
	return ok
}

// Parse builds a Template from the given rows. Lines that are not template
// rows are skipped. Offsets are normalized so that the leftmost placeholder
// of the whole template sits at column 0.
func Parse(lines []string, comment string) *types.Template {
	tmpl := &types.Template{}
	leftEdge := -1

	for _, line := range lines {
		offsets, ok := parseRow(line, comment)
		if !ok {
			continue
		}
		r := len(tmpl.Rows)
		row := make(types.TemplateRow, 0, len(offsets))
		for col, off := range offsets {
			row = append(row, types.TemplateCell{Row: r, Col: col, Offset: off})
			if leftEdge < 0 || off < leftEdge {
				leftEdge = off
			}
		}
		tmpl.Rows = append(tmpl.Rows, row)
		tmpl.MaxCells = max(tmpl.MaxCells, len(row))
	}

	if leftEdge > 0 {
		for _, row := range tmpl.Rows {
			for i := range row {
				row[i].Offset -= leftEdge
			}
		}
	}
	return tmpl
}

// parseRow returns the display columns of the opening delimiter of every
// placeholder on the line, measured from the end of the comment marker.
func parseRow(line, comment string) ([]int, bool) {
	text, ok := commentText(line, comment)
	if !ok {
		return nil, false
	}
	text = strings.TrimRight(expandTabs(text), " \r")
	body := strings.TrimLeft(text, " ")
	if len(body) < 2 || body[0] != '|' || body[len(body)-1] != '|' {
		return nil, false
	}

	column := types.Width(text[:len(text)-len(body)])
	offsets := []int{}
	for _, seg := range strings.Split(body[1:len(body)-1], "|") {
		token := strings.TrimSpace(seg)
		switch {
		case token == "" || isRule(token):
			// gap
		case strings.ContainsAny(token, " \t"):
			return nil, false
		default:
			offsets = append(offsets, column)
		}
		column += types.Width(seg) + 1
	}
	return offsets, true
}

// commentText returns the text following the comment marker of a line
// comment, with leading whitespace before the marker removed.
func commentText(line, comment string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if comment == "" || !strings.HasPrefix(trimmed, comment) {
		return "", false
	}
	return trimmed[len(comment):], true
}

// isRule reports whether token is drawn border art such as "---".
func isRule(token string) bool {
	return strings.Trim(token, "-=_+") == ""
}

// expandTabs replaces tab characters with spaces, considering a tab width of 8
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var expanded strings.Builder
	column := 0
	for _, ch := range s {
		if ch == '\t' {
			spaceCount := tabWidth - (column % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			column += spaceCount
			continue
		}
		expanded.WriteRune(ch)
		column += types.Width(string(ch))
	}
	return expanded.String()
}
