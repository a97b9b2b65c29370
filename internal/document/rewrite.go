// Package document rewrites every binding list of a keymap document into the
// layout described by the document's template comment.
package document

import (
	"regexp"
	"strings"

	"github.com/gnoswap-labs/keymapfmt/internal/binding"
	"github.com/gnoswap-labs/keymapfmt/internal/grid"
	"github.com/gnoswap-labs/keymapfmt/internal/render"
	"github.com/gnoswap-labs/keymapfmt/internal/types"
)

// Rewrite returns text with every binding block that follows the template
// block laid out on the template's grid. Lines outside those blocks are
// returned byte for byte. Text without a template or without binding blocks
// comes back unchanged.
func Rewrite(text string, opts Options) string {
	opts = opts.withDefaults()

	openRe, err := regexp.Compile(opts.Open)
	if err != nil {
		return text
	}

	lines := strings.Split(text, "\n")
	l := classify(lines, opts, openRe)
	if l.template == nil || len(l.blocks) == 0 {
		return text
	}

	changed := false
	// Splice from the last block up so earlier indices stay valid.
	for i := len(l.blocks) - 1; i >= 0; i-- {
		b := l.blocks[i]
		if b.ignored || b.open <= l.templateEnd {
			continue
		}
		replacement, ok := rewriteBlock(lines[b.open:b.close+1], l.template, opts, openRe)
		if !ok {
			continue
		}
		lines = splice(lines, b.open, b.close, replacement)
		changed = true
	}

	if !changed {
		return text
	}
	return strings.Join(lines, "\n")
}

// rewriteBlock formats the lines of one block, delimiters included. It
// reports false when the block must be left as is.
func rewriteBlock(
	lines []string,
	tmpl *types.Template,
	opts Options,
	openRe *regexp.Regexp,
) ([]string, bool) {
	openLine := lines[0]
	closeLine := lines[len(lines)-1]

	eol := ""
	if strings.HasSuffix(openLine, "\r") {
		eol = "\r"
	}

	loc := openRe.FindStringIndex(openLine)
	if loc == nil {
		return nil, false
	}
	head := openLine[:loc[1]]
	afterOpen := openLine[loc[1]:]

	k := strings.Index(closeLine, opts.Close)
	beforeClose := closeLine[:k]
	closeTail := closeLine[k:] // close token and everything after it

	inner := make([]string, 0, len(lines))
	inner = append(inner, afterOpen)
	inner = append(inner, lines[1:len(lines)-1]...)
	inner = append(inner, beforeClose)

	raw := strings.Join(inner, "\n")
	if hasComment(raw) {
		return nil, false
	}
	bindings := binding.Tokenize(raw, opts.Sigil)
	if len(bindings) == 0 {
		return nil, false
	}

	indent := leadingWhitespace(openLine)
	prefix := indent + strings.Repeat(" ", opts.Indent)
	g := grid.Map(tmpl, bindings, opts.Columns)

	out := make([]string, 0, len(g.Rows)+len(g.Overflow)+2)
	if strings.TrimSpace(afterOpen) != "" {
		out = append(out, strings.TrimRight(head, " \t")+eol)
	} else {
		out = append(out, openLine)
	}
	for _, line := range render.Render(g, prefix) {
		out = append(out, line+eol)
	}
	if strings.TrimSpace(beforeClose) != "" {
		out = append(out, indent+strings.TrimSuffix(closeTail, "\r")+eol)
	} else {
		out = append(out, closeLine)
	}
	return out, true
}

// hasComment reports whether raw binding text carries a line or block
// comment, which cannot survive being laid out on a grid.
func hasComment(raw string) bool {
	return strings.Contains(raw, "//") || strings.Contains(raw, "/*")
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func splice(lines []string, start, end int, replacement []string) []string {
	out := make([]string, 0, len(lines)-(end-start+1)+len(replacement))
	out = append(out, lines[:start]...)
	out = append(out, replacement...)
	return append(out, lines[end+1:]...)
}
