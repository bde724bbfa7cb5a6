package abacus

// Event is an input to Engine.Apply.
type Event interface {
	eventName() string
}

// PointerDown starts a gesture over a bead.
type PointerDown struct {
	Pointer PointerID
	Col     int
	Row     int
	Y       float64
}

// PointerMove reports vertical travel of a tracked pointer.
type PointerMove struct {
	Pointer PointerID
	Y       float64
}

// PointerUp ends a gesture; the engine classifies and applies it.
type PointerUp struct {
	Pointer PointerID
	Y       float64
}

// PointerCancel drops a gesture without applying anything.
type PointerCancel struct {
	Pointer PointerID
}

// ToggleBead applies a tap directly, bypassing the classifier.
type ToggleBead struct {
	Col int
	Row int
}

// DragBead applies a directional drag directly, bypassing the classifier.
type DragBead struct {
	Col       int
	Row       int
	Direction Direction
}

// Resize reports a new viewport width to the column-count resolver.
type Resize struct {
	Width int
}

// Reset clears the board and starts a new session.
type Reset struct{}

// SetTarget changes the practice target. A changed value resets the board.
type SetTarget struct {
	Target *int
}

// SetResetKey changes the opaque exercise key. A changed key resets the board.
type SetResetKey struct {
	Key string
}

// SetMode switches between free play and practice.
type SetMode struct {
	Mode   Mode
	Target *int
}

// SetOverride mirrors an externally driven board (tutorial mode) and
// disables gestures. A nil Board returns control to the user.
type SetOverride struct {
	Board *Board
}

// Reconfigure replaces the whole configuration.
type Reconfigure struct {
	Config Config
}

func (PointerDown) eventName() string   { return "pointer_down" }
func (PointerMove) eventName() string   { return "pointer_move" }
func (PointerUp) eventName() string     { return "pointer_up" }
func (PointerCancel) eventName() string { return "pointer_cancel" }
func (ToggleBead) eventName() string    { return "toggle" }
func (DragBead) eventName() string      { return "drag" }
func (Resize) eventName() string        { return "resize" }
func (Reset) eventName() string         { return "reset" }
func (SetTarget) eventName() string     { return "set_target" }
func (SetResetKey) eventName() string   { return "set_reset_key" }
func (SetMode) eventName() string       { return "set_mode" }
func (SetOverride) eventName() string   { return "set_override" }
func (Reconfigure) eventName() string   { return "reconfigure" }

// EventName returns the stable name of an event, as used in replay scripts.
func EventName(ev Event) string {
	if ev == nil {
		return ""
	}
	return ev.eventName()
}
