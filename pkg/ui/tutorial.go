package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/soroban/pkg/abacus"
	"github.com/vanderheijden86/soroban/pkg/debug"
)

// TutorialStep is one page of the guided tour. Value is shown on the
// board while the step is open.
type TutorialStep struct {
	Title string
	Body  string
	Value int
	// HighlightUnits marks the units column.
	HighlightUnits bool
}

var placeNames = [abacus.MaxColumns]string{
	"units", "tens", "hundreds", "thousands", "ten thousands",
	"hundred thousands", "millions", "ten millions", "hundred millions",
}

// TutorialSteps returns the tour for an n-column board.
func TutorialSteps(n int) []TutorialStep {
	n = abacus.ClampColumns(n)
	welcome := fmt.Sprintf("The Soroban abacus has %d columns, each representing a place value from units to %s.",
		n, placeNames[n-1])
	if n == 1 {
		welcome = "The Soroban abacus has 1 column, the units place."
	}
	return []TutorialStep{
		{
			Title: "Welcome to Soroban!",
			Body:  welcome,
		},
		{
			Title:          "Heaven Bead",
			Body:           "The red bead on top has a value of 5. Click to push it down.",
			Value:          5,
			HighlightUnits: true,
		},
		{
			Title:          "Earth Beads",
			Body:           "Each yellow bead below has a value of 1. Click to push them up.",
			Value:          1,
			HighlightUnits: true,
		},
		{
			Title:          "Try making a number!",
			Body:           "Try to make the number 3 by pushing 3 earth beads up in the units column (rightmost).",
			Value:          3,
			HighlightUnits: true,
		},
	}
}

// TutorialModel manages the tutorial overlay. While it is open the board
// mirrors the current step and gestures are disabled.
type TutorialModel struct {
	steps   []TutorialStep
	index   int
	open    bool
	columns int
	width   int
	height  int
	theme   Theme

	keys     TutorialKeyMap
	help     help.Model
	viewport viewport.Model
	md       *glamour.TermRenderer
}

// NewTutorialModel creates a closed tutorial.
func NewTutorialModel(theme Theme) TutorialModel {
	m := TutorialModel{
		theme:    theme,
		keys:     DefaultTutorialKeyMap(),
		help:     help.New(),
		viewport: viewport.New(60, 6),
		columns:  abacus.DefaultColumns,
		width:    64,
		height:   8,
	}
	m.steps = TutorialSteps(m.columns)
	m.md = newMarkdownRenderer(m.contentWidth())
	return m
}

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		debug.Log("tutorial: markdown renderer unavailable: %v", err)
		return nil
	}
	return r
}

// Open shows the first step for an n-column board.
func (m *TutorialModel) Open(n int) {
	m.columns = abacus.ClampColumns(n)
	m.steps = TutorialSteps(m.columns)
	m.index = 0
	m.open = true
	m.refresh()
}

// SetColumns rebuilds the steps for an n-column board and keeps the current
// step.
func (m *TutorialModel) SetColumns(n int) {
	m.columns = abacus.ClampColumns(n)
	m.steps = TutorialSteps(m.columns)
	m.index = min(m.index, len(m.steps)-1)
	m.refresh()
}

// Columns returns the board width the steps were built for.
func (m TutorialModel) Columns() int { return m.columns }

// Close hides the tutorial.
func (m *TutorialModel) Close() {
	m.open = false
	m.index = 0
}

// IsOpen reports whether the overlay is visible.
func (m TutorialModel) IsOpen() bool { return m.open }

// Index returns the current step index.
func (m TutorialModel) Index() int { return m.index }

// Len returns the number of steps.
func (m TutorialModel) Len() int { return len(m.steps) }

// Step returns the current step.
func (m TutorialModel) Step() TutorialStep { return m.steps[m.index] }

// Last reports whether the current step is the final one.
func (m TutorialModel) Last() bool { return m.index == len(m.steps)-1 }

// Next advances one step. On the last step it closes the tutorial and
// returns true.
func (m *TutorialModel) Next() bool {
	if m.Last() {
		m.Close()
		return true
	}
	m.index++
	m.refresh()
	return false
}

// Back goes to the previous step.
func (m *TutorialModel) Back() {
	if m.index > 0 {
		m.index--
		m.refresh()
	}
}

// Override returns the board to mirror for the current step, or nil when
// the tutorial is closed.
func (m TutorialModel) Override() *abacus.Board {
	if !m.open {
		return nil
	}
	b, err := abacus.BoardForValue(m.columns, m.Step().Value)
	if err != nil {
		debug.Log("tutorial: step %d board: %v", m.index, err)
		b = abacus.NewBoard(m.columns)
	}
	return &b
}

// HighlightColumn returns the column to highlight, or -1.
func (m TutorialModel) HighlightColumn() int {
	if !m.open || !m.Step().HighlightUnits {
		return -1
	}
	return m.columns - 1
}

// SetSize sets the overlay dimensions.
func (m *TutorialModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = max(3, height-4)
	m.md = newMarkdownRenderer(m.contentWidth())
	m.refresh()
}

func (m TutorialModel) contentWidth() int {
	return max(20, m.width-4)
}

// Update scrolls the step body. Navigation keys are handled by the caller,
// which also has to update the board.
func (m TutorialModel) Update(msg tea.Msg) (TutorialModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *TutorialModel) refresh() {
	if len(m.steps) == 0 {
		return
	}
	m.viewport.SetContent(m.renderBody())
	m.viewport.GotoTop()
}

func (m TutorialModel) renderBody() string {
	step := m.Step()
	src := "## " + step.Title + "\n\n" + step.Body + "\n"
	if step.Value > 0 {
		src += "\n_Keys: move with the arrows, space taps a bead._\n"
	}
	if m.md == nil {
		return step.Title + "\n\n" + step.Body
	}
	out, err := m.md.Render(src)
	if err != nil {
		debug.Log("tutorial: render step %d: %v", m.index, err)
		return step.Title + "\n\n" + step.Body
	}
	return strings.Trim(out, "\n")
}

// View renders the overlay box: progress dots, body, buttons and keys.
func (m TutorialModel) View() string {
	if !m.open {
		return ""
	}
	t := m.theme

	dots := make([]string, len(m.steps))
	for i := range m.steps {
		if i == m.index {
			dots[i] = "●"
		} else {
			dots[i] = "○"
		}
	}
	header := t.Label.Render(fmt.Sprintf("Step %d/%d  %s", m.index+1, len(m.steps), strings.Join(dots, " ")))

	next := "[ Next ]"
	if m.Last() {
		next = "[ Done ]"
	}
	buttons := t.Title.Render(next)
	if m.index > 0 {
		buttons = t.Status.Render("[ Back ]") + "  " + buttons
	}

	body := strings.Join([]string{
		header,
		m.viewport.View(),
		buttons,
		m.help.View(m.keys),
	}, "\n")
	return t.Overlay.Width(m.contentWidth()).Render(body)
}

// handleKey applies a navigation key. It reports whether the key was used
// and whether the tutorial closed.
func (m *TutorialModel) handleKey(msg tea.KeyMsg) (used, closed bool) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.Close()
		return true, true
	case key.Matches(msg, m.keys.Next):
		return true, m.Next()
	case key.Matches(msg, m.keys.Back):
		m.Back()
		return true, false
	}
	return false, false
}
