package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"pgregory.net/rapid"

	"github.com/vanderheijden86/soroban/pkg/abacus"
)

func TestBeadAt_RoundTripsEveryDigit(t *testing.T) {
	for d := 0; d <= 9; d++ {
		c, err := abacus.ColumnForDigit(d)
		if err != nil {
			t.Fatal(err)
		}
		cols := []abacus.Column{c}
		for row := 0; row < abacus.BeadsPerColumn; row++ {
			line := beadLine(c, row)
			col, got, ok := beadAt(cols, 3, line)
			if !ok || col != 0 || got != row {
				t.Errorf("digit %d row %d drawn on line %d: beadAt = (%d,%d,%v)", d, row, line, col, got, ok)
			}
		}
	}
}

func TestBeadAt_EarthGapIsMiss(t *testing.T) {
	c, _ := abacus.ColumnForDigit(2)
	cols := []abacus.Column{c}
	if _, _, ok := beadAt(cols, 3, lineEarth+2); ok {
		t.Error("gap between active and resting beads should not hit a bead")
	}
	for _, y := range []int{lineLabels, lineFrameTop, lineBar, lineFrameBottom, lineDigits, -1, 40} {
		if _, _, ok := beadAt(cols, 3, y); ok {
			t.Errorf("line %d should not hit a bead", y)
		}
	}
	if _, _, ok := beadAt(cols, 1+cellWidth, lineEarth); ok {
		t.Error("x past the last column should miss")
	}
}

func TestBeadOnLine_DrawsEveryBeadOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := rapid.IntRange(0, 9).Draw(t, "digit")
		c, _ := abacus.ColumnForDigit(d)

		seen := map[int]int{}
		for line := lineHeavenRest; line < lineFrameBottom; line++ {
			if line == lineBar {
				continue
			}
			row, active, ok := beadOnLine(c, line)
			if !ok {
				continue
			}
			seen[row]++
			if active != c[row] {
				t.Fatalf("digit %d line %d: active=%v but bead state %v", d, line, active, c[row])
			}
			if beadLine(c, row) != line {
				t.Fatalf("digit %d row %d: beadLine=%d, drawn on %d", d, row, beadLine(c, row), line)
			}
		}
		for row := 0; row < abacus.BeadsPerColumn; row++ {
			if seen[row] != 1 {
				t.Fatalf("digit %d: row %d drawn %d times", d, row, seen[row])
			}
		}
	})
}

func TestBoardView_Render(t *testing.T) {
	b, err := abacus.BoardForValue(3, 507)
	if err != nil {
		t.Fatal(err)
	}
	snap := abacus.Snapshot{
		Columns: b.Columns(),
		Labels:  abacus.ColumnLabels(3),
		Digits:  b.Digits(),
	}
	out := boardView{theme: TestTheme(), snap: snap, highlight: -1}.render()

	lines := strings.Split(out, "\n")
	if len(lines) != boardLines {
		t.Fatalf("rendered %d lines, want %d", len(lines), boardLines)
	}
	for i, l := range lines {
		if w := runewidth.StringWidth(stripANSI(l)); w != boardWidth(3) {
			t.Errorf("line %d width %d, want %d: %q", i, w, boardWidth(3), l)
		}
	}
	for _, want := range []string{"Hund.", "Tens", "Units"} {
		if !strings.Contains(lines[lineLabels], want) {
			t.Errorf("label line missing %q", want)
		}
	}
	if got := strings.Fields(stripANSI(lines[lineDigits])); strings.Join(got, "") != "507" {
		t.Errorf("digits line = %q", lines[lineDigits])
	}
	if got := strings.Count(stripANSI(out), "██"); got != 15 {
		t.Errorf("expected 15 beads, got %d", got)
	}
}

func TestPixelY_OneRowClearsDragThreshold(t *testing.T) {
	if d := pixelY(5) - pixelY(4); d <= abacus.DragThreshold {
		t.Errorf("one row = %v px, must exceed the drag threshold %v", d, abacus.DragThreshold)
	}
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
