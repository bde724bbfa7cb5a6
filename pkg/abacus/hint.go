package abacus

import "fmt"

var allColumnLabels = [MaxColumns]string{
	"Hun.M", "Ten.M", "Million", "Hun.T", "Ten.T", "Thous.", "Hund.", "Tens", "Units",
}

// ColumnLabels returns the place-value labels of an n-column board,
// highest place first.
func ColumnLabels(n int) []string {
	n = ClampColumns(n)
	out := make([]string, n)
	copy(out, allColumnLabels[MaxColumns-n:])
	return out
}

// FreePlayHint is shown when there is no target to work toward.
const FreePlayHint = "Try making different numbers by clicking on the beads!"

// ColumnHint describes how to show digit in the named column.
func ColumnHint(label string, digit int) string {
	switch {
	case digit <= 0:
		return "Make sure all beads are in rest position for 0"
	case digit <= 4:
		return fmt.Sprintf("Push %d earth bead(s) up in the %s column", digit, label)
	case digit == 5:
		return fmt.Sprintf("Push the heaven bead down in the %s column", label)
	default:
		return fmt.Sprintf("Push the heaven bead down and %d earth bead(s) up in the %s column", digit-5, label)
	}
}

// NextHint returns a hint for the lowest place value where board differs
// from target, or "" when the board already shows it. Targets the board
// cannot show get an explanation instead.
func NextHint(b Board, target int) string {
	if target < 0 {
		return fmt.Sprintf("%d is negative and cannot be shown on the abacus", target)
	}
	if target > b.MaxValue() {
		return fmt.Sprintf("%d does not fit on %d column(s); the largest value is %d", target, b.Len(), b.MaxValue())
	}
	labels := ColumnLabels(b.Len())
	for place := 0; place < b.Len(); place++ {
		col := b.Len() - 1 - place
		want := digitAt(target, place)
		if b.cols[col].Value() != want {
			label := labels[col]
			if place == 0 {
				label = "units"
			}
			return ColumnHint(label, want)
		}
	}
	return ""
}

// digitAt returns the decimal digit of v at place (0 = units). v must not
// be negative.
func digitAt(v, place int) int {
	for ; place > 0; place-- {
		v /= 10
	}
	return v % 10
}
