package formatter

import (
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnoswap-labs/keymapfmt/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestGenerateDiff(t *testing.T) {
	t.Parallel()

	result := tt.Result{
		Filename:  "corne.keymap",
		Changed:   true,
		Original:  []byte("bindings = <\n    &kp Q &kp W &kp E &kp R\n>;\n"),
		Formatted: []byte("bindings = <\n    &kp Q &kp W\n    &kp E &kp R\n>;\n"),
	}

	expected := `--- corne.keymap
+++ corne.keymap (formatted)
@@ -1,3 +1,4 @@
 bindings = <
-    &kp Q &kp W &kp E &kp R
+    &kp Q &kp W
+    &kp E &kp R
 >;
`

	diff, err := GenerateDiff(result)
	require.NoError(t, err)
	assert.Equal(t, expected, diff)

	formatted, err := GenerateFormattedDiff(result)
	require.NoError(t, err)
	assert.Equal(t, expected, formatted)
}

func TestGenerateDiffUnchanged(t *testing.T) {
	t.Parallel()

	diff, err := GenerateDiff(tt.Result{Filename: "a.keymap", Original: []byte("x"), Formatted: []byte("x")})
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestGenerateSummary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		results  []tt.Result
		expected string
	}{
		{
			name: "some changed",
			results: []tt.Result{
				{Filename: "b.keymap", Changed: true},
				{Filename: "c.dtsi"},
				{Filename: "a.keymap", Changed: true},
			},
			expected: "would reformat a.keymap\nwould reformat b.keymap\n2 of 3 file(s) would reformat\n",
		},
		{
			name:     "nothing changed",
			results:  []tt.Result{{Filename: "a.keymap"}},
			expected: "1 file(s) already formatted\n",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, GenerateSummary(tc.results, "would reformat"))
		})
	}
}
