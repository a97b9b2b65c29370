package document

import (
	"regexp"
	"strings"

	"github.com/gnoswap-labs/keymapfmt/internal/template"
	"github.com/gnoswap-labs/keymapfmt/internal/types"
)

// Directives recognized in line comments.
const (
	directiveIgnore = "keymapfmt:ignore"
	directiveOff    = "keymapfmt:off"
	directiveOn     = "keymapfmt:on"
)

type lineKind int

const (
	kindOther lineKind = iota
	kindMarker
	kindTemplate
	kindBlockOpen
	kindBlockBody
	kindBlockClose
	kindBlockOneLine
)

func (k lineKind) String() string {
	switch k {
	case kindOther:
		return "other"
	case kindMarker:
		return "marker"
	case kindTemplate:
		return "template"
	case kindBlockOpen:
		return "block-open"
	case kindBlockBody:
		return "block-body"
	case kindBlockClose:
		return "block-close"
	case kindBlockOneLine:
		return "block-one-line"
	default:
		return "unknown"
	}
}

// block is a binding list spanning lines open through close.
type block struct {
	open, close int
	// ignored blocks are left untouched by a directive.
	ignored bool
}

// layout is the classified line stream of a document.
type layout struct {
	kinds    []lineKind
	template *types.Template
	// templateEnd is the index of the last template line, or -1.
	templateEnd int
	blocks      []block
}

// classify walks the document once, recording the kind of every line, the
// first template block and every closed multi-line binding block. Lists that
// open and close on one line (combos, hold-tap behaviors) are not blocks.
func classify(lines []string, opts Options, openRe *regexp.Regexp) *layout {
	l := &layout{
		kinds:       make([]lineKind, len(lines)),
		templateEnd: -1,
	}

	var (
		inBlock      bool
		inTemplate   bool
		templateSeen bool
		templateRows []string
		current      block
		ignoreNext   bool
		off          bool
	)

	finishTemplate := func(end int) {
		inTemplate = false
		tmpl := template.Parse(templateRows, opts.Comment)
		if tmpl.Empty() {
			return
		}
		l.template = tmpl
		l.templateEnd = end
		templateSeen = true
	}

	for i, line := range lines {
		if inBlock && !strings.HasPrefix(strings.TrimSpace(line), opts.Comment) && openRe.MatchString(line) {
			// the previous block was never closed; leave it as is
			inBlock = false
		}
		if inBlock {
			if strings.Contains(line, opts.Close) {
				l.kinds[i] = kindBlockClose
				current.close = i
				l.blocks = append(l.blocks, current)
				inBlock = false
			} else {
				l.kinds[i] = kindBlockBody
			}
			continue
		}

		if inTemplate {
			if template.IsRow(line, opts.Comment) {
				l.kinds[i] = kindTemplate
				templateRows = append(templateRows, line)
				continue
			}
			finishTemplate(i - 1)
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, opts.Comment) {
			switch {
			case !templateSeen && template.IsMarker(line, opts.Comment, opts.Marker):
				l.kinds[i] = kindMarker
				inTemplate = true
				templateRows = templateRows[:0]
			case strings.Contains(trimmed, directiveIgnore):
				ignoreNext = true
			case strings.Contains(trimmed, directiveOff):
				off = true
			case strings.Contains(trimmed, directiveOn):
				off = false
			}
			continue
		}

		loc := openRe.FindStringIndex(line)
		if loc == nil {
			if trimmed != "" {
				ignoreNext = false
			}
			continue
		}

		ignored := ignoreNext || off || strings.Contains(line, directiveIgnore)
		ignoreNext = false
		if strings.Contains(line[loc[1]:], opts.Close) {
			l.kinds[i] = kindBlockOneLine
			continue
		}
		current = block{open: i, close: -1, ignored: ignored}
		l.kinds[i] = kindBlockOpen
		inBlock = true
	}

	if inTemplate {
		finishTemplate(len(lines) - 1)
	}
	return l
}
