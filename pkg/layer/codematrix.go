// Package layer holds the ordered collection of named layers and, for
// each layer, the matrix of key-codes bound at its coordinates.
package layer

import "github.com/kbdremap/spacecadet/pkg/keycode"

// KeyCodeMatrix is one layer's worth of key-code bindings, laid out at
// the same (row, col) coordinates as the physical VirtualKeyboardMatrix.
// A freshly constructed matrix is entirely TransparentKey, so an unbound
// cell falls through to the layer below it.
type KeyCodeMatrix struct {
	Codes [][]keycode.KeyCode
}

// NewKeyCodeMatrix builds a dim.Row x dim.Col matrix of TransparentKey.
func NewKeyCodeMatrix(dim keycode.Index2D) KeyCodeMatrix {
	codes := make([][]keycode.KeyCode, dim.Row)
	for r := range codes {
		row := make([]keycode.KeyCode, dim.Col)
		for c := range row {
			row[c] = keycode.TransparentKey{}
		}
		codes[r] = row
	}
	return KeyCodeMatrix{Codes: codes}
}

// Dim returns the matrix's (rows, cols).
func (m KeyCodeMatrix) Dim() keycode.Index2D {
	rows := len(m.Codes)
	cols := 0
	if rows > 0 {
		cols = len(m.Codes[0])
	}
	return keycode.Index2D{Row: rows, Col: cols}
}
