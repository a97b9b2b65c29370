package template

import (
	"testing"

	"github.com/gnoswap-labs/keymapfmt/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMarker(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"exact", "// Keymap Template", true},
		{"indented", "        // Keymap Template", true},
		{"case insensitive", "//keymap template for layer 0", true},
		{"other comment", "// Layer 0", false},
		{"not a comment", "Keymap Template", false},
		{"block comment", "/* Keymap Template */", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsMarker(tt.line, "//", "Keymap Template"))
		})
	}
}

func TestIsRow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"two cells", "// | * | * |", true},
		{"shifted", "//     | * |", true},
		{"trailing space", "// | * | ", true},
		{"carriage return", "// | * | * |\r", true},
		{"gap only", "// |   |", true},
		{"border", "// |---|---|", true},
		{"plain comment", "// left hand", false},
		{"prose between pipes", "// | left hand |", false},
		{"unterminated", "// | * | *", false},
		{"no comment marker", "| * | * |", false},
		{"blank", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsRow(tt.line, "//"))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		lines    []string
		expected *types.Template
	}{
		{
			name:  "two by two",
			lines: []string{"// | * | * |", "// | * | * |"},
			expected: &types.Template{
				Rows: []types.TemplateRow{
					{{Row: 0, Col: 0, Offset: 0}, {Row: 0, Col: 1, Offset: 4}},
					{{Row: 1, Col: 0, Offset: 0}, {Row: 1, Col: 1, Offset: 4}},
				},
				MaxCells: 2,
			},
		},
		{
			name:  "three plus one",
			lines: []string{"// | * | * | * |", "//     | * |"},
			expected: &types.Template{
				Rows: []types.TemplateRow{
					{{Row: 0, Col: 0, Offset: 0}, {Row: 0, Col: 1, Offset: 4}, {Row: 0, Col: 2, Offset: 8}},
					{{Row: 1, Col: 0, Offset: 4}},
				},
				MaxCells: 3,
			},
		},
		{
			name:  "gaps and wide placeholders",
			lines: []string{"// | ** |    | ** |", "// |    |"},
			expected: &types.Template{
				Rows: []types.TemplateRow{
					{{Row: 0, Col: 0, Offset: 0}, {Row: 0, Col: 1, Offset: 10}},
					{},
				},
				MaxCells: 2,
			},
		},
		{
			name:  "left edge comes from a later row",
			lines: []string{"//     | * |", "// | * |"},
			expected: &types.Template{
				Rows: []types.TemplateRow{
					{{Row: 0, Col: 0, Offset: 4}},
					{{Row: 1, Col: 0, Offset: 0}},
				},
				MaxCells: 1,
			},
		},
		{
			name:  "tabs are expanded",
			lines: []string{"//\t| * |", "// | * |"},
			expected: &types.Template{
				Rows: []types.TemplateRow{
					{{Row: 0, Col: 0, Offset: 7}},
					{{Row: 1, Col: 0, Offset: 0}},
				},
				MaxCells: 1,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tt.lines, "//")
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCapacity(t *testing.T) {
	t.Parallel()

	tmpl := Parse([]string{"// | * | * | * |", "//     | * |", "// not a row"}, "//")
	assert.Equal(t, 4, tmpl.Capacity())
	assert.False(t, tmpl.Empty())

	empty := Parse([]string{"// |   |"}, "//")
	assert.True(t, empty.Empty())
}
