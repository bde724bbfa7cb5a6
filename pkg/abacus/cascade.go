package abacus

import (
	"fmt"
	"strings"
)

// Direction is the vertical intent of a drag.
type Direction int

const (
	DirectionNone Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. It also accepts "none"
// and the empty string, which MarshalText writes for taps.
func (d *Direction) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "none":
		*d = DirectionNone
		return nil
	}
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection parses "up" or "down" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return DirectionNone, fmt.Errorf("abacus: unknown direction %q", s)
	}
}

// Toggle applies a tap on the bead at row.
//
// Heaven flips. A raised earth bead drops together with every bead below it
// (row..4); a lowered earth bead rises together with every bead above it
// (1..row). Rows outside 0..4 leave the column unchanged.
func (c Column) Toggle(row int) Column {
	switch {
	case row == RowHeaven:
		c[RowHeaven] = !c[RowHeaven]
	case row >= 1 && row <= EarthBeads:
		if c[row] {
			c = c.lowerFrom(row)
		} else {
			c = c.raiseTo(row)
		}
	}
	return c
}

// Drag applies a directional gesture on the bead at row. The direction wins
// over the bead's current position: a drag that contradicts it is a no-op.
func (c Column) Drag(row int, dir Direction) Column {
	switch {
	case row == RowHeaven:
		// Heaven counts when pushed down toward the bar.
		if dir == Down && !c[RowHeaven] {
			c[RowHeaven] = true
		} else if dir == Up && c[RowHeaven] {
			c[RowHeaven] = false
		}
	case row >= 1 && row <= EarthBeads:
		if dir == Up && !c[row] {
			c = c.raiseTo(row)
		} else if dir == Down && c[row] {
			c = c.lowerFrom(row)
		}
	}
	return c
}

func (c Column) raiseTo(row int) Column {
	for i := 1; i <= row; i++ {
		c[i] = true
	}
	return c
}

func (c Column) lowerFrom(row int) Column {
	for i := row; i <= EarthBeads; i++ {
		c[i] = false
	}
	return c
}

// Toggle returns the board after a tap on (col, row) and whether any bead
// moved.
func (b Board) Toggle(col, row int) (Board, bool, error) {
	if err := b.checkIndex(col, row); err != nil {
		return b, false, err
	}
	next := b.cols[col].Toggle(row)
	if next == b.cols[col] {
		return b, false, nil
	}
	return b.with(col, next), true, nil
}

// Drag returns the board after a drag on (col, row) and whether any bead
// moved.
func (b Board) Drag(col, row int, dir Direction) (Board, bool, error) {
	if err := b.checkIndex(col, row); err != nil {
		return b, false, err
	}
	next := b.cols[col].Drag(row, dir)
	if next == b.cols[col] {
		return b, false, nil
	}
	return b.with(col, next), true, nil
}
