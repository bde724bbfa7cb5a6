package abacus

import (
	"fmt"
	"math"
	"strings"
)

// DragThreshold is the vertical travel, in device-independent pixels, a
// pointer must exceed before a gesture counts as a drag.
const DragThreshold = 15.0

// PointerID identifies one pointer (mouse, pen, or a single touch).
type PointerID int64

// IntentKind classifies a completed gesture.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentToggle
	IntentDrag
)

func (k IntentKind) String() string {
	switch k {
	case IntentToggle:
		return "toggle"
	case IntentDrag:
		return "drag"
	default:
		return "none"
	}
}

// ParseIntentKind parses "toggle", "drag" or "none".
func ParseIntentKind(s string) (IntentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return IntentNone, nil
	case "toggle":
		return IntentToggle, nil
	case "drag":
		return IntentDrag, nil
	default:
		return IntentNone, fmt.Errorf("abacus: unknown intent kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k IntentKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *IntentKind) UnmarshalText(b []byte) error {
	v, err := ParseIntentKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Intent is the operation a gesture resolves to. Direction is "none" for
// taps.
type Intent struct {
	Kind      IntentKind `json:"kind"`
	Col       int        `json:"col"`
	Row       int        `json:"row"`
	Direction Direction  `json:"direction"`
}

func (i Intent) String() string {
	if i.Kind == IntentDrag {
		return fmt.Sprintf("drag(%d,%d,%s)", i.Col, i.Row, i.Direction)
	}
	return fmt.Sprintf("%s(%d,%d)", i.Kind, i.Col, i.Row)
}

// gesture is the tracking state of one pointer between down and up.
type gesture struct {
	col     int
	row     int
	originY float64
	moved   bool
}

// Classifier turns raw pointer events into taps and directional drags.
// Each pointer is tracked independently, so simultaneous touches on
// different columns resolve separately.
//
// The classification is made at pointer-up: beads snap between two
// positions, so nothing is applied while the pointer is still moving.
type Classifier struct {
	threshold float64
	active    map[PointerID]*gesture
}

// NewClassifier returns a classifier. A threshold <= 0 selects DragThreshold.
func NewClassifier(threshold float64) *Classifier {
	if threshold <= 0 {
		threshold = DragThreshold
	}
	return &Classifier{
		threshold: threshold,
		active:    make(map[PointerID]*gesture),
	}
}

// Threshold returns the drag threshold in use.
func (c *Classifier) Threshold() float64 { return c.threshold }

// Down starts tracking a pointer over (col, row). A pointer that is already
// tracking must be released or cancelled first.
func (c *Classifier) Down(id PointerID, col, row int, y float64) error {
	if _, ok := c.active[id]; ok {
		return fmt.Errorf("%w: pointer %d", ErrPointerActive, id)
	}
	c.active[id] = &gesture{col: col, row: row, originY: y}
	return nil
}

// Move updates a tracked pointer. Once travel exceeds the threshold the
// gesture stays marked as moved. It reports whether the pointer is tracked.
func (c *Classifier) Move(id PointerID, y float64) bool {
	g, ok := c.active[id]
	if !ok {
		return false
	}
	if math.Abs(y-g.originY) > c.threshold {
		g.moved = true
	}
	return true
}

// Up ends a gesture and classifies it. An untracked pointer yields false.
func (c *Classifier) Up(id PointerID, y float64) (Intent, bool) {
	g, ok := c.active[id]
	if !ok {
		return Intent{}, false
	}
	delete(c.active, id)

	delta := y - g.originY
	if math.Abs(delta) > c.threshold && g.moved {
		dir := Up
		if delta > 0 {
			dir = Down
		}
		return Intent{Kind: IntentDrag, Col: g.col, Row: g.row, Direction: dir}, true
	}
	return Intent{Kind: IntentToggle, Col: g.col, Row: g.row}, true
}

// Cancel drops a gesture without emitting anything.
func (c *Classifier) Cancel(id PointerID) bool {
	if _, ok := c.active[id]; !ok {
		return false
	}
	delete(c.active, id)
	return true
}

// Tracking reports whether id has an open gesture.
func (c *Classifier) Tracking(id PointerID) bool {
	_, ok := c.active[id]
	return ok
}

// Active returns the number of open gestures.
func (c *Classifier) Active() int { return len(c.active) }

// Clear drops every open gesture.
func (c *Classifier) Clear() {
	clear(c.active)
}
