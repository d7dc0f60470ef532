package keycode

import "time"

// KeyMatrix is the physical layout: rows x cols of optional SimpleKey. A
// nil cell means "no physical key at this coordinate" and is therefore
// unreachable from real input.
type KeyMatrix [][]*SimpleKey

// DefaultHoldThreshold is used when VirtualKeyboardMatrix is constructed
// without an explicit threshold.
const DefaultHoldThreshold = 200 * time.Millisecond

// KeyStats are cumulative counts of emitted Pressed/Released/Held events.
// They're incremented exactly once per event that crosses the output
// boundary (i.e. after any buffer flush) and never decremented.
type KeyStats struct {
	pressed  uint32
	released uint32
	held     uint32
}

// Get returns the counter for the given state change.
func (s KeyStats) Get(c KeyStateChange) uint32 {
	switch c {
	case Pressed:
		return s.pressed
	case Released:
		return s.released
	case Held:
		return s.held
	default:
		return 0
	}
}

// Increment bumps the counter for the given state change by one.
func (s *KeyStats) Increment(c KeyStateChange) {
	switch c {
	case Pressed:
		s.pressed++
	case Released:
		s.released++
	case Held:
		s.held++
	}
}

// BlockedKeyStates is a per-cell mask that temporarily suppresses
// selected state changes. A Held block is sticky (it blocks repeatedly);
// a Pressed or Released block fires once and then clears all three
// flags for that cell, because layer-switching keys press on key-down
// and need to hide the subsequent up/hold pair from the newly-active
// layer.
type BlockedKeyStates struct {
	pressed  bool
	released bool
	held     bool
}

// NewBlockReleaseAndHold returns a block that suppresses the next
// Released and every subsequent Held, until the Released fires and
// consumes the block.
func NewBlockReleaseAndHold() BlockedKeyStates {
	return BlockedKeyStates{released: true, held: true}
}

func (b BlockedKeyStates) blocks(c KeyStateChange) bool {
	switch c {
	case Pressed:
		return b.pressed
	case Released:
		return b.released
	case Held:
		return b.held
	default:
		return false
	}
}

// consume applies the block-consumption rule for a change that this
// block suppressed: Pressed/Released consumption clears every flag on
// the cell; Held consumption leaves the flags untouched so it keeps
// blocking future repeats.
func (b *BlockedKeyStates) consume(c KeyStateChange) {
	if c == Held {
		return
	}
	*b = BlockedKeyStates{}
}

type cellState struct {
	isPressed    bool
	lastPressed  time.Time
	block        BlockedKeyStates
}

// StateMatrix is a boolean matrix plus a per-cell last-press timestamp
// and block mask.
type StateMatrix struct {
	cells [][]cellState
	rows  int
	cols  int
}

func newStateMatrix(rows, cols int) StateMatrix {
	cells := make([][]cellState, rows)
	for r := range cells {
		cells[r] = make([]cellState, cols)
	}
	return StateMatrix{cells: cells, rows: rows, cols: cols}
}

// MatrixUpdateResultKind tags the outcome of VirtualKeyboardMatrix.Update.
type MatrixUpdateResultKind int

const (
	// Bypass: event is not a key event, or its key symbol is not in the matrix.
	Bypass MatrixUpdateResultKind = iota
	// Redundant: event maps to a cell whose pressed/released state is unchanged.
	Redundant
	// StateChanged: the cell's boolean flipped.
	StateChanged
	// Blocked: a StateChanged was produced but BlockedKeyStates suppressed it.
	Blocked
)

// MatrixUpdateResult is the result of feeding one InputEvent through
// VirtualKeyboardMatrix.Update.
type MatrixUpdateResult struct {
	Kind     MatrixUpdateResultKind
	Location Index2D
	Change   KeyStateChange
}

// VirtualKeyboardMatrix turns raw device events into positional state
// changes with press/release/hold classification and per-cell blocking.
type VirtualKeyboardMatrix struct {
	keyToIndex map[SimpleKey]Index2D
	dim        Index2D
	state      StateMatrix
	threshold  time.Duration
}

// NewVirtualKeyboardMatrix builds a key->Index2D map from a KeyMatrix.
// A threshold of 0 selects DefaultHoldThreshold.
func NewVirtualKeyboardMatrix(keys KeyMatrix, threshold time.Duration) *VirtualKeyboardMatrix {
	if threshold == 0 {
		threshold = DefaultHoldThreshold
	}
	rows := len(keys)
	cols := 0
	if rows > 0 {
		cols = len(keys[0])
	}

	keyToIndex := make(map[SimpleKey]Index2D)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols && c < len(keys[r]); c++ {
			if keys[r][c] != nil {
				keyToIndex[*keys[r][c]] = Index2D{Row: r, Col: c}
			}
		}
	}

	return &VirtualKeyboardMatrix{
		keyToIndex: keyToIndex,
		dim:        Index2D{Row: rows, Col: cols},
		state:      newStateMatrix(rows, cols),
		threshold:  threshold,
	}
}

// Dim returns the matrix's (rows, cols).
func (m *VirtualKeyboardMatrix) Dim() Index2D { return m.dim }

// DefaultHoldDuration returns the configured hold threshold.
func (m *VirtualKeyboardMatrix) DefaultHoldDuration() time.Duration { return m.threshold }

// Update feeds one InputEvent through the matrix.
func (m *VirtualKeyboardMatrix) Update(event InputEvent, now time.Time) MatrixUpdateResult {
	if event.Kind != EventKindKey {
		return MatrixUpdateResult{Kind: Bypass}
	}
	idx, ok := m.keyToIndex[event.Code]
	if !ok {
		return MatrixUpdateResult{Kind: Bypass}
	}

	cell := &m.state.cells[idx.Row][idx.Col]
	wantPressed := event.Value != 0
	if cell.isPressed == wantPressed {
		return MatrixUpdateResult{Kind: Redundant, Location: idx}
	}

	cell.isPressed = wantPressed
	var change KeyStateChange
	if wantPressed {
		cell.lastPressed = now
		change = Pressed
	} else {
		change = Released
	}

	if cell.block.blocks(change) {
		cell.block.consume(change)
		return MatrixUpdateResult{Kind: Blocked, Location: idx, Change: change}
	}

	return MatrixUpdateResult{Kind: StateChanged, Location: idx, Change: change}
}

// DetectHeldKeys scans every cell for one that's pressed and has been
// held at least threshold since its last press, synthesizing a Held
// transition for each. After yielding a position it resets that cell's
// lastPressed to now, so Held repeats at period=threshold. A cell whose
// Held block is active is skipped but still has its timer reset, per
// the sticky-block rule.
func (m *VirtualKeyboardMatrix) DetectHeldKeys(now time.Time) []Index2D {
	var held []Index2D
	for r := 0; r < m.dim.Row; r++ {
		for c := 0; c < m.dim.Col; c++ {
			cell := &m.state.cells[r][c]
			if !cell.isPressed {
				continue
			}
			if cell.lastPressed.Add(m.threshold).After(now) {
				continue
			}
			cell.lastPressed = now
			if cell.block.blocks(Held) {
				cell.block.consume(Held)
				continue
			}
			held = append(held, Index2D{Row: r, Col: c})
		}
	}
	return held
}

// SetBlock installs a block mask on a cell, replacing any existing one.
func (m *VirtualKeyboardMatrix) SetBlock(block BlockedKeyStates, idx Index2D) {
	m.state.cells[idx.Row][idx.Col].block = block
}
