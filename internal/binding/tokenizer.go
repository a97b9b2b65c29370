package binding

import (
	"strings"

	"github.com/gnoswap-labs/keymapfmt/internal/types"
)

// DefaultSigil prefixes every macro in a ZMK binding list.
const DefaultSigil = "&"

// Tokenize splits the raw text of a binding list into bindings.
//
// A token starting with sigil opens a new binding and every following token
// without it becomes an argument of that binding. Tokens appearing before
// the first sigil-prefixed token are dropped.
func Tokenize(raw, sigil string) []types.Binding {
	if sigil == "" {
		sigil = DefaultSigil
	}

	var bindings []types.Binding
	for _, token := range strings.Fields(raw) {
		if strings.HasPrefix(token, sigil) {
			bindings = append(bindings, types.Binding{Macro: token})
			continue
		}
		if len(bindings) == 0 {
			continue
		}
		last := &bindings[len(bindings)-1]
		last.Args = append(last.Args, token)
	}
	return bindings
}
