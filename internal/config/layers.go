package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kbdremap/spacecadet/pkg/driver"
	"github.com/kbdremap/spacecadet/pkg/keycode"
	"github.com/kbdremap/spacecadet/pkg/layer"

	"github.com/kbdremap/spacecadet/internal/parser"
)

// layerDocument is the on-disk shape of one named layer within the
// layers JSON file.
type layerDocument struct {
	Enabled bool       `json:"enabled"`
	Keys    [][]string `json:"keys"`
}

// LoadLayers reads the layers JSON document at path and adds every
// layer it names, in layer_order, to d. Layers are added bottom-up, so
// the last name in layer_order ends up with the highest dispatch
// precedence.
func LoadLayers(path string, d *driver.Driver, dim keycode.Index2D) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading layers file %q: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing layers file %q: %w", path, err)
	}

	var order []string
	if err := json.Unmarshal(raw["layer_order"], &order); err != nil {
		return fmt.Errorf("layers file %q: missing or invalid \"layer_order\": %w", path, err)
	}

	for _, name := range order {
		var doc layerDocument
		if err := json.Unmarshal(raw[name], &doc); err != nil {
			return fmt.Errorf("layers file %q: layer %q: %w", path, name, err)
		}

		codes := layer.NewKeyCodeMatrix(dim)
		for r, row := range doc.Keys {
			for c, cell := range row {
				code, err := parser.FromString(cell)
				if err != nil {
					return fmt.Errorf("layers file %q: layer %q cell %d,%d (%q): %w", path, name, r, c, cell, err)
				}
				codes.Codes[r][c] = code
			}
		}

		d.AddLayer(layer.LayerAttributes{Name: name, Enabled: doc.Enabled}, codes)
	}

	return nil
}
