package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/soroban/pkg/abacus"
)

// Board geometry in terminal cells. Every column is drawn cellWidth wide
// inside a one-cell frame; lines are counted from the top of the board.
const (
	cellWidth = 6

	// rowPixels converts terminal rows to the pixel space of the gesture
	// classifier, so a one-row move clears the drag threshold.
	rowPixels = 16

	lineLabels       = 0
	lineFrameTop     = 1
	lineHeavenRest   = 2
	lineHeavenActive = 3
	lineBar          = 4
	lineEarth        = 5
	lineFrameBottom  = lineEarth + abacus.EarthBeads + 1
	lineDigits       = lineFrameBottom + 1

	boardLines = lineDigits + 1
)

const (
	beadGlyph = " ▐██▌ "
	rodGlyph  = "  ┃   "
)

// boardWidth returns the drawn width of an n-column board.
func boardWidth(n int) int {
	return 2 + n*cellWidth
}

// cursorPos is the keyboard cursor over (column, bead row).
type cursorPos struct {
	Col int
	Row int
}

// beadAt maps a cell relative to the board's top-left corner to the bead
// drawn there. The earth gap between active and resting beads is a miss.
func beadAt(cols []abacus.Column, x, y int) (col, row int, ok bool) {
	rx := x - 1
	if rx < 0 {
		return 0, 0, false
	}
	col = rx / cellWidth
	if col >= len(cols) {
		return 0, 0, false
	}

	switch {
	case y == lineHeavenRest || y == lineHeavenActive:
		return col, abacus.RowHeaven, true
	case y >= lineEarth && y < lineEarth+abacus.EarthBeads+1:
		slot := y - lineEarth
		k := cols[col].EarthCount()
		switch {
		case slot < k:
			return col, slot + 1, true
		case slot == k:
			return 0, 0, false
		default:
			return col, slot, true
		}
	}
	return 0, 0, false
}

// beadLine returns the board line a bead is currently drawn on.
func beadLine(c abacus.Column, row int) int {
	if row == abacus.RowHeaven {
		if c.Heaven() {
			return lineHeavenActive
		}
		return lineHeavenRest
	}
	if c[row] {
		return lineEarth + row - 1
	}
	return lineEarth + row
}

// pixelY converts a terminal row to classifier coordinates.
func pixelY(y int) float64 {
	return float64(y * rowPixels)
}

type boardView struct {
	theme     Theme
	snap      abacus.Snapshot
	cursor    cursorPos
	showCur   bool
	highlight int
}

func (v boardView) render() string {
	t := v.theme
	n := len(v.snap.Columns)
	inner := n * cellWidth
	lines := make([]string, boardLines)

	labels := v.snap.Labels
	if len(labels) != n {
		labels = abacus.ColumnLabels(n)
	}

	var b strings.Builder
	b.WriteString(" ")
	for i := 0; i < n; i++ {
		b.WriteString(v.cell(i, t.Label, center(labels[i], cellWidth)))
	}
	b.WriteString(" ")
	lines[lineLabels] = b.String()

	lines[lineFrameTop] = t.FrameStyle.Render("┏" + strings.Repeat("━", inner) + "┓")
	lines[lineFrameBottom] = t.FrameStyle.Render("┗" + strings.Repeat("━", inner) + "┛")

	bar := ""
	for i := 0; i < n; i++ {
		bar += v.cell(i, t.FrameStyle, strings.Repeat("━", cellWidth))
	}
	lines[lineBar] = t.FrameStyle.Render("┣") + bar + t.FrameStyle.Render("┫")

	side := t.FrameStyle.Render("┃")
	for line := lineHeavenRest; line < lineFrameBottom; line++ {
		if line == lineBar {
			continue
		}
		var row strings.Builder
		row.WriteString(side)
		for i, c := range v.snap.Columns {
			row.WriteString(v.beadCell(i, c, line))
		}
		row.WriteString(side)
		lines[line] = row.String()
	}

	b.Reset()
	b.WriteString(" ")
	for i := 0; i < n; i++ {
		d := v.snap.Columns[i].Value()
		if i < len(v.snap.Digits) {
			d = v.snap.Digits[i]
		}
		b.WriteString(v.cell(i, t.Digit, center(strconv.Itoa(d), cellWidth)))
	}
	b.WriteString(" ")
	lines[lineDigits] = b.String()

	return strings.Join(lines, "\n")
}

// beadCell draws column i on one bead line.
func (v boardView) beadCell(i int, c abacus.Column, line int) string {
	t := v.theme
	row, active, ok := beadOnLine(c, line)
	if !ok {
		return v.cell(i, t.RodStyle, rodGlyph)
	}

	var style lipgloss.Style
	switch {
	case !active:
		style = t.BeadOff
	case row == abacus.RowHeaven:
		style = t.HeavenOn
	default:
		style = t.EarthOn
	}
	if v.showCur && v.cursor.Col == i && v.cursor.Row == row {
		style = style.Inherit(t.Cursor)
	}
	return v.cell(i, style, beadGlyph)
}

// beadOnLine reports which bead, if any, column c shows on line.
func beadOnLine(c abacus.Column, line int) (row int, active, ok bool) {
	switch line {
	case lineHeavenRest:
		return abacus.RowHeaven, false, !c.Heaven()
	case lineHeavenActive:
		return abacus.RowHeaven, true, c.Heaven()
	}
	slot := line - lineEarth
	if slot < 0 || slot > abacus.EarthBeads {
		return 0, false, false
	}
	k := c.EarthCount()
	switch {
	case slot < k:
		return slot + 1, true, true
	case slot == k:
		return 0, false, false
	default:
		return slot, false, true
	}
}

func (v boardView) cell(i int, style lipgloss.Style, s string) string {
	if i == v.highlight {
		style = style.Inherit(v.theme.Highlight)
	}
	return style.Render(s)
}
