package abacus

// ClampColumns limits n to 1..9. Zero selects DefaultColumns.
func ClampColumns(n int) int {
	switch {
	case n == 0:
		return DefaultColumns
	case n < MinColumns:
		return MinColumns
	case n > MaxColumns:
		return MaxColumns
	default:
		return n
	}
}

// Resolver picks the effective column count for a viewport width.
type Resolver struct {
	// Breakpoint is the width below which the compact count applies.
	Breakpoint int
	// CompactColumns caps the column count on narrow viewports.
	CompactColumns int
}

// DefaultResolver matches a phone-width breakpoint of 640 px with 7 columns.
var DefaultResolver = Resolver{Breakpoint: 640, CompactColumns: 7}

// Resolve returns the effective column count. A width <= 0 means the
// viewport is unknown and the configured count is used.
func (r Resolver) Resolve(configured int, responsive bool, width int) int {
	n := ClampColumns(configured)
	if !responsive || width <= 0 || r.Breakpoint <= 0 {
		return n
	}
	if width < r.Breakpoint {
		return min(n, ClampColumns(r.CompactColumns))
	}
	return n
}
