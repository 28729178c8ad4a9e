package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

type binding struct {
	action string
	keys   []KeyShortcut
}

func letter(r rune, c key.Code, m key.Modifiers) []KeyShortcut {
	return []KeyShortcut{{Rune: r, Modifiers: m}, {Code: c, Modifiers: m}}
}

var bindings = []binding{
	{"save", letter('s', key.CodeS, key.ModControl)},
	{"export", letter('e', key.CodeE, key.ModControl)},
	{"copy", letter('c', key.CodeC, key.ModControl)},
	{"copyjson", letter('c', key.CodeC, key.ModControl|key.ModShift)},
	{"paste", letter('v', key.CodeV, key.ModControl)},
	{"undo", append(letter('z', key.CodeZ, key.ModControl), KeyShortcut{Code: key.CodeDeleteBackspace})},
	{"clear", letter('d', key.CodeD, key.ModControl)},
	{"annotate", letter('a', key.CodeA, 0)},
	{"pan", letter('p', key.CodeP, 0)},
	{"rectangle", letter('r', key.CodeR, 0)},
	{"circle", letter('o', key.CodeO, 0)},
	{"fit", letter('f', key.CodeF, 0)},
	{"actual", letter('1', key.Code1, 0)},
	{"theme", letter('t', key.CodeT, 0)},
	{"cancel", []KeyShortcut{{Code: key.CodeEscape}}},
	{"quit", append(letter('q', key.CodeQ, 0), letter('w', key.CodeW, key.ModControl)...)},
}

// keymap maps shortcuts to action names.
type keymap map[KeyShortcut]string

func newKeymap(bs []binding) keymap {
	m := keymap{}
	for _, b := range bs {
		for _, k := range b.keys {
			m[k] = b.action
		}
	}
	return m
}

// lookup matches on the lower-cased rune first and falls back to the key
// code, since control combinations do not always carry a printable rune.
func (m keymap) lookup(e key.Event) (string, bool) {
	if e.Rune > 0 {
		if a, ok := m[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: e.Modifiers}]; ok {
			return a, true
		}
	}
	a, ok := m[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return a, ok
}
