package abacus

import (
	"errors"
	"fmt"
)

// Sentinel errors for the abacus package.
// Use errors.Is to check: errors.Is(err, abacus.ErrInvalidIndex)
var (
	ErrInvalidIndex     = errors.New("abacus: bead index out of range")
	ErrInvalidState     = errors.New("abacus: invalid board state")
	ErrMissingTarget    = errors.New("abacus: practice mode requires a target number")
	ErrInvalidMode      = errors.New("abacus: unknown mode")
	ErrPointerActive    = errors.New("abacus: pointer is already tracking a gesture")
	ErrGesturesDisabled = errors.New("abacus: gestures are disabled while a tutorial board is shown")
	ErrUnknownEvent     = errors.New("abacus: unknown event")
)

// IndexError reports a column/row pair outside the current board.
type IndexError struct {
	Col     int
	Row     int
	Columns int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("abacus: bead (col=%d, row=%d) out of range for %d-column board", e.Col, e.Row, e.Columns)
}

func (e *IndexError) Unwrap() error { return ErrInvalidIndex }

// ConfigError reports a rejected engine configuration.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("abacus: invalid config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
