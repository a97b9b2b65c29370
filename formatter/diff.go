package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	tt "github.com/gnoswap-labs/keymapfmt/internal/types"
)

const diffContext = 3

var (
	headerStyle  = color.New(color.Bold)
	hunkStyle    = color.New(color.FgCyan)
	addStyle     = color.New(color.FgGreen)
	removeStyle  = color.New(color.FgRed)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	changedStyle = color.New(color.FgHiYellow, color.Bold)
	okStyle      = color.New(color.FgGreen, color.Bold)
)

// GenerateDiff returns the unified diff between the original and the
// formatted content of result. It is empty when nothing changed.
func GenerateDiff(result tt.Result) (string, error) {
	if !result.Changed {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        splitLines(string(result.Original)),
		B:        splitLines(string(result.Formatted)),
		FromFile: result.Filename,
		ToFile:   result.Filename + " (formatted)",
		Context:  diffContext,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", result.Filename, err)
	}
	return text, nil
}

// splitLines splits s after every newline, terminating the last line if
// needed. Unlike difflib.SplitLines it adds no empty line after a trailing
// newline.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}
	return lines
}

// GenerateFormattedDiff returns the diff of result with colored markers.
func GenerateFormattedDiff(result tt.Result) (string, error) {
	diff, err := GenerateDiff(result)
	if err != nil {
		return "", err
	}
	return colorizeDiff(diff), nil
}

func colorizeDiff(diff string) string {
	if diff == "" {
		return ""
	}
	lines := strings.SplitAfter(diff, "\n")
	var builder strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "---"), strings.HasPrefix(body, "+++"):
			builder.WriteString(headerStyle.Sprint(body))
		case strings.HasPrefix(body, "@@"):
			builder.WriteString(hunkStyle.Sprint(body))
		case strings.HasPrefix(body, "+"):
			builder.WriteString(addStyle.Sprint(body))
		case strings.HasPrefix(body, "-"):
			builder.WriteString(removeStyle.Sprint(body))
		default:
			builder.WriteString(body)
		}
		if strings.HasSuffix(line, "\n") {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// GenerateSummary lists every file of results, sorted by name, marking the
// ones whose layout changed.
func GenerateSummary(results []tt.Result, verb string) string {
	sorted := make([]tt.Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Filename < sorted[j].Filename
	})

	var builder strings.Builder
	changed := 0
	for _, result := range sorted {
		if !result.Changed {
			continue
		}
		changed++
		builder.WriteString(changedStyle.Sprint(verb) + " " + fileStyle.Sprint(result.Filename) + "\n")
	}

	switch changed {
	case 0:
		builder.WriteString(okStyle.Sprintf("%d file(s) already formatted\n", len(sorted)))
	default:
		builder.WriteString(fmt.Sprintf("%d of %d file(s) %s\n", changed, len(sorted), verb))
	}
	return builder.String()
}
