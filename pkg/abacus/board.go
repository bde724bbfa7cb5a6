package abacus

import (
	"fmt"
	"strings"
)

// Board geometry.
const (
	MinColumns     = 1
	MaxColumns     = 9
	DefaultColumns = 9

	// RowHeaven is the 5-value bead above the counting bar. Rows 1..4 are the
	// earth beads, ordered nearest-to-bar first.
	RowHeaven      = 0
	EarthBeads     = 4
	BeadsPerColumn = 1 + EarthBeads
)

// Column holds the bead flags of one place value: [heaven, earth1..earth4].
// A true flag means the bead is pushed against the counting bar.
type Column [BeadsPerColumn]bool

// Heaven reports whether the 5-bead is counting.
func (c Column) Heaven() bool { return c[RowHeaven] }

// EarthCount returns the number of raised earth beads.
func (c Column) EarthCount() int {
	n := 0
	for row := 1; row <= EarthBeads; row++ {
		if c[row] {
			n++
		}
	}
	return n
}

// Value returns the digit shown by the column, 0..9.
func (c Column) Value() int {
	v := c.EarthCount()
	if c.Heaven() {
		v += 5
	}
	return v
}

// Contiguous reports whether the raised earth beads form a prefix
// {earth1..earthK}. Every column reachable through the cascade rules is
// contiguous.
func (c Column) Contiguous() bool {
	lowered := false
	for row := 1; row <= EarthBeads; row++ {
		if !c[row] {
			lowered = true
			continue
		}
		if lowered {
			return false
		}
	}
	return true
}

// ColumnForDigit returns the canonical column showing d (0..9).
func ColumnForDigit(d int) (Column, error) {
	if d < 0 || d > 9 {
		return Column{}, fmt.Errorf("%w: digit %d", ErrInvalidState, d)
	}
	var c Column
	if d >= 5 {
		c[RowHeaven] = true
		d -= 5
	}
	for row := 1; row <= d; row++ {
		c[row] = true
	}
	return c, nil
}

// Board is an ordered set of columns. Index 0 is the highest place value
// (10^(N-1)), the last index is the units column.
//
// Board values are immutable from the outside: every mutation returns a new
// Board and leaves the receiver untouched.
type Board struct {
	cols []Column
}

// NewBoard returns an all-rest board with n columns, clamped to 1..9.
func NewBoard(n int) Board {
	return Board{cols: make([]Column, ClampColumns(n))}
}

// BoardFromColumns builds a board mirroring externally supplied state.
func BoardFromColumns(cols []Column) (Board, error) {
	if len(cols) < MinColumns || len(cols) > MaxColumns {
		return Board{}, fmt.Errorf("%w: %d columns (want %d..%d)", ErrInvalidState, len(cols), MinColumns, MaxColumns)
	}
	for i, c := range cols {
		if !c.Contiguous() {
			return Board{}, fmt.Errorf("%w: column %d earth beads are not contiguous", ErrInvalidState, i)
		}
	}
	out := make([]Column, len(cols))
	copy(out, cols)
	return Board{cols: out}, nil
}

// BoardForValue returns an n-column board showing v.
func BoardForValue(n, v int) (Board, error) {
	b := NewBoard(n)
	if v < 0 || v > b.MaxValue() {
		return Board{}, fmt.Errorf("%w: value %d does not fit %d columns", ErrInvalidState, v, b.Len())
	}
	for i := b.Len() - 1; i >= 0; i-- {
		c, _ := ColumnForDigit(v % 10)
		b.cols[i] = c
		v /= 10
	}
	return b, nil
}

// Len returns the number of columns.
func (b Board) Len() int { return len(b.cols) }

// Columns returns a copy of the bead flags.
func (b Board) Columns() []Column {
	out := make([]Column, len(b.cols))
	copy(out, b.cols)
	return out
}

// Column returns the bead flags of one column.
func (b Board) Column(col int) (Column, error) {
	if err := b.checkIndex(col, RowHeaven); err != nil {
		return Column{}, err
	}
	return b.cols[col], nil
}

// Bead returns one bead flag.
func (b Board) Bead(col, row int) (bool, error) {
	if err := b.checkIndex(col, row); err != nil {
		return false, err
	}
	return b.cols[col][row], nil
}

// ColumnValue returns the digit of one column.
func (b Board) ColumnValue(col int) (int, error) {
	if err := b.checkIndex(col, RowHeaven); err != nil {
		return 0, err
	}
	return b.cols[col].Value(), nil
}

// Digits returns every column's digit, highest place value first.
func (b Board) Digits() []int {
	out := make([]int, len(b.cols))
	for i, c := range b.cols {
		out[i] = c.Value()
	}
	return out
}

// TotalValue returns Σ digit(i) × 10^(N-1-i).
func (b Board) TotalValue() int {
	total := 0
	for _, c := range b.cols {
		total = total*10 + c.Value()
	}
	return total
}

// MaxValue returns 10^N - 1.
func (b Board) MaxValue() int {
	m := 1
	for range b.cols {
		m *= 10
	}
	return m - 1
}

// Equal reports whether both boards hold identical bead flags.
func (b Board) Equal(o Board) bool {
	if len(b.cols) != len(o.cols) {
		return false
	}
	for i := range b.cols {
		if b.cols[i] != o.cols[i] {
			return false
		}
	}
	return true
}

// Reset replaces the board with an all-rest board of n columns.
func (b *Board) Reset(n int) {
	*b = NewBoard(n)
}

// String renders the board compactly, e.g. "[5+2|0|3]".
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, c := range b.cols {
		if i > 0 {
			sb.WriteByte('|')
		}
		if c.Heaven() {
			fmt.Fprintf(&sb, "5+%d", c.EarthCount())
		} else {
			fmt.Fprintf(&sb, "%d", c.EarthCount())
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (b Board) checkIndex(col, row int) error {
	if col < 0 || col >= len(b.cols) || row < 0 || row >= BeadsPerColumn {
		return &IndexError{Col: col, Row: row, Columns: len(b.cols)}
	}
	return nil
}

func (b Board) with(col int, c Column) Board {
	out := make([]Column, len(b.cols))
	copy(out, b.cols)
	out[col] = c
	return Board{cols: out}
}
