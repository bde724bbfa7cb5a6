package abacus

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode gates the practice verification protocol.
type Mode int

const (
	ModeFree Mode = iota
	ModePractice
)

func (m Mode) String() string {
	if m == ModePractice {
		return "practice"
	}
	return "free"
}

// ParseMode parses "free" or "practice". The empty string is free play.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "free":
		return ModeFree, nil
	case "practice":
		return ModePractice, nil
	default:
		return ModeFree, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// DefaultCompletionDelay leaves time for the "correct" state to render
// before the completion callback runs.
const DefaultCompletionDelay = 500 * time.Millisecond

// Session is the interaction state between two resets.
type Session struct {
	ID         string `json:"id"`
	Generation uint64 `json:"generation"`
	Interacted bool   `json:"interacted"`
	Submitted  bool   `json:"submitted"`
	Correct    bool   `json:"correct"`

	// delivered is set once the completion of this generation has run.
	delivered bool
}

// Completion is a scheduled completion callback. It is only honoured while
// the session that produced it is still current.
type Completion struct {
	Generation uint64        `json:"generation"`
	SessionID  string        `json:"session_id"`
	Delay      time.Duration `json:"delay"`
}

func (s *Session) restart() {
	*s = Session{
		ID:         uuid.NewString(),
		Generation: s.Generation + 1,
	}
}

// evaluate runs the verification rules after a value recomputation and
// reports whether a completion must be scheduled.
func (s *Session) evaluate(mode Mode, target *int, total int) bool {
	if mode != ModePractice || target == nil {
		return false
	}
	if !s.Interacted || s.Submitted {
		return false
	}
	if total != *target {
		s.Correct = false
		return false
	}
	s.Correct = true
	s.Submitted = true
	return true
}
