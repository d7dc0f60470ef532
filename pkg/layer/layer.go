package layer

import (
	"fmt"
	"log"

	"github.com/kbdremap/spacecadet/pkg/keycode"
)

// LayerAttributes names a layer and carries its initial enabled state.
type LayerAttributes struct {
	Name    string
	Enabled bool
}

// ScheduledLayerEvent is a pending "enable/disable layer once N events of
// a given kind have been emitted" callback, used by OneShotLayer to turn
// itself back off after the next key elsewhere is released.
type ScheduledLayerEvent struct {
	LayerName       string
	EventType       keycode.KeyStateChange
	EventCount      uint32
	EnableLayerAtEvent bool
}

// Collection is the ordered set of layers a driver dispatches through,
// lowest-precedence first. It satisfies keycode.LayerHandle.
type Collection struct {
	Attributes []LayerAttributes
	nameToIdx  map[string]int
	callbacks  []ScheduledLayerEvent
}

// NewCollection returns an empty layer collection.
func NewCollection() *Collection {
	return &Collection{nameToIdx: make(map[string]int)}
}

// Add appends a new layer, assigning it the next (highest) precedence.
func (c *Collection) Add(attr LayerAttributes) {
	c.nameToIdx[attr.Name] = len(c.Attributes)
	c.Attributes = append(c.Attributes, attr)
}

// Len returns the number of layers.
func (c *Collection) Len() int { return len(c.Attributes) }

// IsEnabledAt reports whether the layer at this index is currently enabled.
func (c *Collection) IsEnabledAt(idx int) bool { return c.Attributes[idx].Enabled }

// IndexOf returns the layer's index and whether it exists.
func (c *Collection) IndexOf(name string) (int, bool) {
	idx, ok := c.nameToIdx[name]
	return idx, ok
}

// IsLayerEnabled reports whether the named layer is enabled. A name that
// doesn't exist is treated as disabled.
func (c *Collection) IsLayerEnabled(name string) bool {
	idx, ok := c.nameToIdx[name]
	if !ok {
		return false
	}
	return c.Attributes[idx].Enabled
}

// Toggle flips the named layer's enabled flag.
func (c *Collection) Toggle(name string) {
	idx := c.nameToIdx[name]
	c.Attributes[idx].Enabled = !c.Attributes[idx].Enabled
}

// Set enables or disables the named layer.
func (c *Collection) Set(name string, enabled bool) {
	idx := c.nameToIdx[name]
	log.Printf("layer %q = %v", name, enabled)
	c.Attributes[idx].Enabled = enabled
}

// ScheduleEventCountCallback queues a layer state change to apply once
// the output side has emitted eventCount events of eventType.
func (c *Collection) ScheduleEventCountCallback(layerName string, eventType keycode.KeyStateChange, eventCount uint32, enableAtEvent bool) {
	c.callbacks = append(c.callbacks, ScheduledLayerEvent{
		LayerName:          layerName,
		EventType:          eventType,
		EventCount:         eventCount,
		EnableLayerAtEvent: enableAtEvent,
	})
}

// CheckEventCallbacks applies and drops every scheduled callback whose
// threshold has been reached given the current cumulative stats.
func (c *Collection) CheckEventCallbacks(stats keycode.KeyStats) {
	remaining := c.callbacks[:0]
	var toApply []ScheduledLayerEvent
	for _, cb := range c.callbacks {
		if cb.EventCount <= stats.Get(cb.EventType) {
			toApply = append(toApply, cb)
		} else {
			remaining = append(remaining, cb)
		}
	}
	c.callbacks = remaining

	for _, cb := range toApply {
		c.Set(cb.LayerName, cb.EnableLayerAtEvent)
	}
}

// VerifyKeyConstraint checks one KeyConstraint from a key bound at idx on
// parentLayer against the rest of the collection.
func (c *Collection) VerifyKeyConstraint(constraint keycode.KeyConstraint, idx keycode.Index2D, parentLayer string, layers []KeyCodeMatrix) error {
	switch rule := constraint.(type) {
	case keycode.LayerExists:
		if _, ok := c.nameToIdx[rule.LayerName]; !ok {
			return fmt.Errorf("key constraint violated: the key at %dx%d on layer %q references %q, but no layer exists with that name",
				idx.Row, idx.Col, parentLayer, rule.LayerName)
		}
		return nil
	case keycode.KeyOnOtherLayerIsTransparent:
		layerIdx := c.nameToIdx[rule.LayerName]
		other := layers[layerIdx].Codes[idx.Row][idx.Col]
		if !other.IsTransparent() {
			return fmt.Errorf("key constraint violated: the key at %dx%d on layer %q requires the key at %dx%d on %q to be transparent",
				idx.Row, idx.Col, parentLayer, idx.Row, idx.Col, rule.LayerName)
		}
		return nil
	default:
		return fmt.Errorf("unknown key constraint %T on layer %q at %dx%d", constraint, parentLayer, idx.Row, idx.Col)
	}
}
