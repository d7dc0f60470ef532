// Package driver wires an input device, an output device, the virtual
// matrix and the layer stack into one clock-ticked pipeline.
package driver

import (
	"fmt"
	"time"

	"github.com/kbdremap/spacecadet/pkg/keycode"
	"github.com/kbdremap/spacecadet/pkg/layer"
)

// InputKeyboard is the input-side contract: drain whatever events have
// arrived since the last call, non-blocking.
type InputKeyboard interface {
	ReadEvents() []keycode.InputEvent
	Stats() keycode.KeyStats
}

// Driver owns the input/output devices, the virtual matrix, and one
// KeyCodeMatrix per layer, and dispatches one clock tick at a time.
type Driver struct {
	Input  InputKeyboard
	Output keycode.OutputKeyboard
	Matrix *keycode.VirtualKeyboardMatrix

	layers       *layer.Collection
	layeredCodes []layer.KeyCodeMatrix
}

// New builds a Driver around an already-constructed virtual matrix.
func New(input InputKeyboard, output keycode.OutputKeyboard, matrix *keycode.VirtualKeyboardMatrix) *Driver {
	return &Driver{
		Input:  input,
		Output: output,
		Matrix: matrix,
		layers: layer.NewCollection(),
	}
}

// AddLayer appends a new layer at the top of the precedence stack.
func (d *Driver) AddLayer(attr layer.LayerAttributes, codes layer.KeyCodeMatrix) {
	d.layers.Add(attr)
	d.layeredCodes = append(d.layeredCodes, codes)
}

// Layers exposes the layer collection, mainly for config loaders and tests.
func (d *Driver) Layers() *layer.Collection { return d.layers }

// Verify checks that every layer shares the matrix's dimensions and that
// every key's constraints are satisfiable. Call once after AddLayer-ing
// every layer and before the first Tick.
func (d *Driver) Verify() error {
	if err := d.verifyDims(); err != nil {
		return err
	}
	return d.verifyKeyConstraints()
}

func (d *Driver) verifyDims() error {
	dim := d.Matrix.Dim()
	for i, codes := range d.layeredCodes {
		other := codes.Dim()
		if other != dim {
			return fmt.Errorf("mismatched matrices: the virtual matrix is %dx%d, but layer %q (#%d) is %dx%d",
				dim.Row, dim.Col, d.layers.Attributes[i].Name, i, other.Row, other.Col)
		}
	}
	return nil
}

func (d *Driver) verifyKeyConstraints() error {
	for i, codes := range d.layeredCodes {
		for r, row := range codes.Codes {
			for c, code := range row {
				idx := keycode.Index2D{Row: r, Col: c}
				for _, rule := range code.Constraints() {
					if err := d.layers.VerifyKeyConstraint(rule, idx, d.layers.Attributes[i].Name, d.layeredCodes); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// Tick performs one driver cycle: synthesize Held events for any key
// that's been down long enough, drain and dispatch every pending input
// event, then apply any layer callbacks whose thresholds were reached.
func (d *Driver) Tick(now time.Time) {
	for _, idx := range d.Matrix.DetectHeldKeys(now) {
		d.dispatch(idx, keycode.Held, now)
	}

	for _, event := range d.Input.ReadEvents() {
		result := d.Matrix.Update(event, now)
		switch result.Kind {
		case keycode.Bypass:
			d.Output.SendBypassBuffer(event)
		case keycode.Redundant, keycode.Blocked:
			// nothing to do
		case keycode.StateChanged:
			d.dispatch(result.Location, result.Change, now)
		}
	}

	d.layers.CheckEventCallbacks(d.Output.Stats())
}

// dispatch walks the layer stack from the highest-precedence enabled
// layer downward, looking for the first key that isn't transparent, and
// asks it to handle the state change.
func (d *Driver) dispatch(idx keycode.Index2D, change keycode.KeyStateChange, now time.Time) {
	for i := len(d.layeredCodes) - 1; i >= 0; i-- {
		if !d.layers.IsEnabledAt(i) {
			continue
		}
		code := d.layeredCodes[i].Codes[idx.Row][idx.Col]
		if code.IsTransparent() {
			continue
		}

		ctx := &keycode.KeyEventContext{
			Output:   d.Output,
			Matrix:   d.Matrix,
			Layers:   d.layers,
			Location: idx,
			Now:      now,
		}
		code.HandleEvent(ctx, change)
		return
	}
}
