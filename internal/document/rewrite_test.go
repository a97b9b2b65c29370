package document

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gnoswap-labs/keymapfmt/internal/binding"
	"github.com/gnoswap-labs/keymapfmt/internal/types"
	"github.com/stretchr/testify/assert"
)

var (
	twoByTwo     = []string{"// | * | * |", "// | * | * |"}
	threePlusOne = []string{"// | * | * | * |", "//     | * |"}
	weirdSpacing = []string{"// | * | ", "//     | * |", "//         | * |", "// | * |"}
)

func sp(n int) string {
	return strings.Repeat(" ", n)
}

// keymap builds a document with one layer per entry of layers. Binding lines
// of a layer sit at column 16, the bindings line itself at column 12.
func keymap(tmpl []string, layers ...[]string) string {
	var b strings.Builder
	b.WriteString("#include <dt-bindings/zmk/keys.h>\n\n// Keymap Template\n")
	for _, row := range tmpl {
		b.WriteString(row + "\n")
	}
	b.WriteString("\n/ {\n    keymap {\n        compatible = \"zmk,keymap\";\n")
	for i, layer := range layers {
		fmt.Fprintf(&b, "        layer_%d {\n            bindings = <\n", i)
		for _, line := range layer {
			b.WriteString(line + "\n")
		}
		b.WriteString("            >;\n        };\n")
	}
	b.WriteString("    };\n};\n")
	return b.String()
}

func TestRewrite(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
		columns  types.ColumnMode
	}{
		{
			name:  "simple 2x2",
			input: keymap(twoByTwo, []string{sp(16) + "&kp Q &kp W &kp E &kp R"}),
			expected: keymap(twoByTwo, []string{
				sp(16) + "&kp Q &kp W",
				sp(16) + "&kp E &kp R",
			}),
		},
		{
			name:  "bindings spread over several lines",
			input: keymap(twoByTwo, []string{sp(4) + "&kp Q", "&kp W   &kp E", sp(30) + "&kp R  "}),
			expected: keymap(twoByTwo, []string{
				sp(16) + "&kp Q &kp W",
				sp(16) + "&kp E &kp R",
			}),
		},
		{
			name:  "1x3 + 1 follows the template offset",
			input: keymap(threePlusOne, []string{sp(16) + "&kp Q &kp W &kp E &kp R"}),
			expected: keymap(threePlusOne, []string{
				sp(16) + "&kp Q &kp W &kp E",
				sp(20) + "&kp R",
			}),
		},
		{
			name:    "1x3 + 1 in slot mode aligns under the second column",
			input:   keymap(threePlusOne, []string{sp(16) + "&kp Q &kp W &kp E &kp R"}),
			columns: types.ColumnSlot,
			expected: keymap(threePlusOne, []string{
				sp(16) + "&kp Q &kp W &kp E",
				sp(22) + "&kp R",
			}),
		},
		{
			name:    "4x1 with weird spacing in slot mode",
			input:   keymap(weirdSpacing, []string{sp(16) + "&kp Q &kp W &kp E &kp R"}),
			columns: types.ColumnSlot,
			expected: keymap(weirdSpacing, []string{
				sp(16) + "&kp Q",
				sp(22) + "&kp W",
				sp(28) + "&kp E",
				sp(16) + "&kp R",
			}),
		},
		{
			name:  "2x2 with wider columns",
			input: keymap(twoByTwo, []string{sp(16) + "&abc Q &kp W &lt E &kp R"}),
			expected: keymap(twoByTwo, []string{
				sp(16) + "&abc Q &kp W",
				sp(16) + "&lt  E &kp R",
			}),
		},
		{
			name:  "2x2 with wide no param cell",
			input: keymap(twoByTwo, []string{sp(16) + "&abc Q  &kp W ", sp(16) + "&spaceb &lt BLUETOOTH N"}),
			expected: keymap(twoByTwo, []string{
				sp(16) + "&abc Q  &kp W" + sp(10),
				sp(16) + "&spaceb &lt BLUETOOTH N",
			}),
		},
		{
			name: "2x2 with multiple layers",
			input: keymap(twoByTwo,
				[]string{sp(16) + "&kp Q &kp W &kp E &kp R"},
				[]string{sp(16) + "&abc Q &kp W &lt E &kp R "},
				[]string{sp(16) + "&abc Q  &kp W ", sp(16) + "&spaceb &lt BLUETOOTH N"},
			),
			expected: keymap(twoByTwo,
				[]string{sp(16) + "&kp Q &kp W", sp(16) + "&kp E &kp R"},
				[]string{sp(16) + "&abc Q &kp W", sp(16) + "&lt  E &kp R"},
				[]string{sp(16) + "&abc Q  &kp W" + sp(10), sp(16) + "&spaceb &lt BLUETOOTH N"},
			),
		},
		{
			name:  "overflow bindings follow the grid",
			input: keymap([]string{"// | * | * |"}, []string{sp(16) + "&kp Q &kp W &kp E &kp R"}),
			expected: keymap([]string{"// | * | * |"}, []string{
				sp(16) + "&kp Q &kp W",
				sp(16) + "&kp E",
				sp(16) + "&kp R",
			}),
		},
		{
			name:     "empty block is left alone",
			input:    keymap(twoByTwo, []string{sp(16)}),
			expected: keymap(twoByTwo, []string{sp(16)}),
		},
		{
			name:     "block with comments is left alone",
			input:    keymap(twoByTwo, []string{sp(16) + "&kp Q &kp W // top", sp(16) + "&kp E &kp R"}),
			expected: keymap(twoByTwo, []string{sp(16) + "&kp Q &kp W // top", sp(16) + "&kp E &kp R"}),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := DefaultOptions()
			opts.Columns = tt.columns
			assert.Equal(t, tt.expected, Rewrite(tt.input, opts))
		})
	}
}

func TestRewriteDifferentIndentation(t *testing.T) {
	t.Parallel()

	header := strings.Join([]string{
		"",
		sp(12) + "#include <dt-bindings/zmk/keys.h>",
		"",
		sp(12) + "// Keymap Template",
		sp(12) + "// | * | * |",
		sp(12) + "// | * | * |",
		"",
		sp(4) + "/ {",
		sp(8) + "keymap {",
		sp(12) + "compatible = \"zmk,keymap\";",
		sp(12) + "layer_0 {",
		sp(16) + "bindings = <",
	}, "\n")
	footer := strings.Join([]string{
		sp(16) + ">;",
		sp(12) + "};",
		sp(8) + "};",
		sp(4) + "};",
	}, "\n")

	input := header + "\n" + sp(20) + "&kp Q &kp W &kp E &kp R\n" + footer
	expected := header + "\n" + sp(20) + "&kp Q &kp W\n" + sp(20) + "&kp E &kp R\n" + footer

	assert.Equal(t, expected, Rewrite(input, DefaultOptions()))
}

func TestRewritePassThrough(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "no template",
			input: "/ {\n    bindings = <\n        &kp Q &kp W &kp E &kp R\n    >;\n};\n",
		},
		{
			name:  "marker without rows",
			input: "// Keymap Template\n\nbindings = <\n&kp Q &kp W\n>;\n",
		},
		{
			name:  "template without blocks",
			input: "// Keymap Template\n// | * | * |\n\n/ { };\n",
		},
		{
			name:  "block before the template",
			input: "bindings = <\n&kp Q    &kp W\n>;\n// Keymap Template\n// | * |\n",
		},
		{
			name:  "unclosed block",
			input: "// Keymap Template\n// | * |\nbindings = <\n  &kp Q   &kp W\n",
		},
		{
			name:  "ignored block",
			input: "// Keymap Template\n// | * |\n// keymapfmt:ignore\nbindings = <\n  &kp Q   &kp W\n>;\n",
		},
		{
			name:  "empty document",
			input: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.input, Rewrite(tt.input, DefaultOptions()))
		})
	}
}

func TestRewriteUnclosedBlockKeepsOthers(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"// Keymap Template",
		"// | * | * |",
		"a {",
		"    bindings = <",
		"        &kp A    &kp B",
		"};",
		"b {",
		"    bindings = <",
		"        &kp C    &kp D",
		"    >;",
		"};",
	}, "\n")
	expected := strings.Join([]string{
		"// Keymap Template",
		"// | * | * |",
		"a {",
		"    bindings = <",
		"        &kp A    &kp B",
		"};",
		"b {",
		"    bindings = <",
		"        &kp C &kp D",
		"    >;",
		"};",
	}, "\n")

	assert.Equal(t, expected, Rewrite(input, DefaultOptions()))
}

func TestRewriteLeavesNonLayerLists(t *testing.T) {
	t.Parallel()

	head := []string{
		"// Keymap Template",
		"// | * | * |",
		"",
		"/ {",
		"    behaviors {",
		"        bhm: balanced_homerow_mod {",
		"            compatible = \"zmk,behavior-hold-tap\";",
		"            #binding-cells = <2>;",
		"            bindings = <&kp>, <&kp>;",
		"        };",
		"    };",
		"",
		"    combos {",
		"        compatible = \"zmk,combos\";",
		"        combo_esc {",
		"            key-positions = <0 1>;",
		"            bindings = <&kp ESC>;",
		"        };",
		"    };",
		"",
		"    keymap {",
		"        compatible = \"zmk,keymap\";",
		"        default_layer {",
		"            bindings = <",
	}
	tail := []string{
		"            >;",
		"            sensor-bindings = <&inc_dec_kp C_VOL_UP C_VOL_DN>;",
		"        };",
		"        raise_layer {",
		"            sensor-bindings = <",
		"                &inc_dec_kp   C_VOL_UP   C_VOL_DN",
		"            >;",
		"        };",
		"    };",
		"};",
		"",
	}
	doc := func(layer ...string) string {
		lines := append(append(append([]string{}, head...), layer...), tail...)
		return strings.Join(lines, "\n")
	}

	input := doc(sp(16) + "&kp Q   &kp W &kp E &kp R")
	expected := doc(sp(16)+"&kp Q &kp W", sp(16)+"&kp E &kp R")

	assert.Equal(t, expected, Rewrite(input, DefaultOptions()))
	assert.Equal(t, expected, Rewrite(expected, DefaultOptions()))
}

func TestRewriteOneLineListPassThrough(t *testing.T) {
	t.Parallel()

	input := "// Keymap Template\n// | * | * |\n\n    bindings = <&kp A &kp B &kp C>;\n"

	assert.Equal(t, input, Rewrite(input, DefaultOptions()))
}

func TestRewriteResidueOnDelimiterLines(t *testing.T) {
	t.Parallel()

	input := "// Keymap Template\n// | * | * |\nbindings = <&kp A\n  &kp B &kp C\n  &kp D>;\n"
	expected := "// Keymap Template\n// | * | * |\nbindings = <\n    &kp A &kp B\n    &kp C &kp D\n>;\n"

	assert.Equal(t, expected, Rewrite(input, DefaultOptions()))
}

func TestRewriteCRLF(t *testing.T) {
	t.Parallel()

	input := "// Keymap Template\r\n// | * | * |\r\n\r\n  bindings = <\r\n    &kp A &kp B &kp C &kp D\r\n  >;\r\n"
	expected := "// Keymap Template\r\n// | * | * |\r\n\r\n  bindings = <\r\n      &kp A &kp B\r\n      &kp C &kp D\r\n  >;\r\n"

	assert.Equal(t, expected, Rewrite(input, DefaultOptions()))
}

func TestRewriteCustomOptions(t *testing.T) {
	t.Parallel()

	opts := Options{
		Marker:  "layout",
		Comment: "#",
		Sigil:   "@",
		Open:    `keys\s*\[`,
		Close:   "]",
		Indent:  2,
	}
	input := "# layout\n# | x | x |\nkeys [\n@a 1 @b @c 3 @d\n]\n"
	expected := "# layout\n# | x | x |\nkeys [\n  @a 1 @b\n  @c 3 @d\n]\n"

	assert.Equal(t, expected, Rewrite(input, opts))
}

func TestRewriteInvalidOpenPattern(t *testing.T) {
	t.Parallel()

	input := keymap(twoByTwo, []string{sp(16) + "&kp Q &kp W &kp E &kp R"})
	opts := DefaultOptions()
	opts.Open = "bindings = ("

	assert.Equal(t, input, Rewrite(input, opts))
}

var (
	complexTemplate = []string{
		"// | * | * | * | * | * | * | * | * | * | * |",
		"// | * | * | * | * | * | * | * | * | * | * |",
		"// | * | * | * | * | * | * | * | * | * | * |",
		"//         | * | * | * | * | * | * |",
	}
	complexLayer = []string{
		"&kp Q &kp W &ltf NAV E &kp R &kp T                     &kp Y &kp U &bhm RC(RALT) I &kp O &kp P",
		"&bhm LCTRL A &kp S &bhm LSHFT D &bhm LGUI F &kp G     &kp H &bhm RGUI J &bhm RSFT K &kp L &bhm RCTRL APOS",
		"&bhm LALT Z  &kp X &kp C &ltf ARROWS V                 &kp B &lt BLUETOOTH N &lt MEDIA M &kp COMMA &kp DOT &bhm RALT FSLH",
		"&trans &ltf SYMBOLS ESC &kp RSHFT        &spaceb &ltf NUMBERS RET &trans",
	}
)

func TestRewriteComplexLayout(t *testing.T) {
	t.Parallel()

	layer := complexLayer
	input := keymap(complexTemplate, layer)

	for _, mode := range []types.ColumnMode{types.ColumnOrdinal, types.ColumnSlot} {
		opts := DefaultOptions()
		opts.Columns = mode

		once := Rewrite(input, opts)
		assert.Equal(t, once, Rewrite(once, opts), "idempotent in %s mode", mode)

		lines := strings.Split(once, "\n")
		start := indexOf(lines, sp(12)+"bindings = <")
		end := indexOf(lines, sp(12)+">;")
		body := lines[start+1 : end]
		assert.Len(t, body, 4, "%s mode", mode)

		assert.Equal(t,
			binding.Tokenize(strings.Join(layer, " "), "&"),
			binding.Tokenize(strings.Join(body, " "), "&"),
		)
	}
}

func TestRewriteComplexLayoutSlots(t *testing.T) {
	t.Parallel()

	// Slots start one space past the widest cell of the previous slot. The
	// thumb row starts in the third slot. Columns mixing bare and argument
	// bindings (third, sixth, eighth) keep single-space cells.
	expected := keymap(complexTemplate, []string{
		sp(16) + "&kp  Q       &kp W &ltf NAV E   &kp  R           &kp T     &kp Y           &kp  U           &bhm RC(RALT) I &kp O   &kp  P         ",
		sp(16) + "&bhm LCTRL A &kp S &bhm LSHFT D &bhm LGUI F      &kp G     &kp H           &bhm RGUI J      &bhm RSFT K     &kp L   &bhm RCTRL APOS",
		sp(16) + "&bhm LALT Z  &kp X &kp C        &ltf ARROWS V    &kp B     &lt BLUETOOTH N &lt  MEDIA M     &kp COMMA       &kp DOT &bhm RALT FSLH ",
		sp(35) + "&trans       &ltf SYMBOLS ESC &kp RSHFT &spaceb         &ltf NUMBERS RET &trans         ",
	})

	opts := DefaultOptions()
	opts.Columns = types.ColumnSlot

	assert.Equal(t, expected, Rewrite(keymap(complexTemplate, complexLayer), opts))
	assert.Equal(t, expected, Rewrite(expected, opts))
}

func indexOf(lines []string, want string) int {
	for i, line := range lines {
		if line == want {
			return i
		}
	}
	return -1
}
