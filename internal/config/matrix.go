// Package config loads the JSON matrix and layer documents that
// describe a keyboard's physical layout and key bindings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kbdremap/spacecadet/pkg/keycode"
)

// MatrixDocument is the on-disk shape of the matrix JSON file.
type MatrixDocument struct {
	Device string     `json:"device"`
	Matrix [][]string `json:"matrix"`
}

// LoadMatrix reads and parses a matrix JSON document into a
// keycode.KeyMatrix, plus the device path it names. A cell is
// transparent (nil) when it's "KC_TRANS" or all underscores; every
// other cell must resolve to a real SimpleKey via KC_<SYMBOL>.
func LoadMatrix(path string) (string, keycode.KeyMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading matrix file %q: %w", path, err)
	}

	var doc MatrixDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("parsing matrix file %q: %w", path, err)
	}

	width := 0
	for _, row := range doc.Matrix {
		if len(row) > width {
			width = len(row)
		}
	}

	matrix := make(keycode.KeyMatrix, len(doc.Matrix))
	for r, row := range doc.Matrix {
		if len(row) != width {
			return "", nil, fmt.Errorf("matrix file %q: row %d has %d cells, expected %d (jagged matrices are rejected)",
				path, r, len(row), width)
		}
		cells := make([]*keycode.SimpleKey, width)
		for c, cell := range row {
			if isTransparentCell(cell) {
				continue
			}
			key, err := parseSimpleCell(cell)
			if err != nil {
				return "", nil, fmt.Errorf("matrix file %q: cell %d,%d: %w", path, r, c, err)
			}
			cells[c] = &key
		}
		matrix[r] = cells
	}

	return doc.Device, matrix, nil
}

func isTransparentCell(cell string) bool {
	if cell == "KC_TRANS" {
		return true
	}
	if cell == "" {
		return false
	}
	for _, c := range cell {
		if c != '_' {
			return false
		}
	}
	return true
}

func parseSimpleCell(cell string) (keycode.SimpleKey, error) {
	const prefix = "KC_"
	if len(cell) <= len(prefix) || cell[:len(prefix)] != prefix {
		return 0, fmt.Errorf("expected a KC_<SYMBOL> cell, got %q", cell)
	}
	name := "KEY_" + strings.ToUpper(cell[len(prefix):])
	key, ok := keycode.LookupSimpleKey(name)
	if !ok {
		return 0, fmt.Errorf("unknown key symbol %q", name)
	}
	return key, nil
}
