package ui

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/soroban/pkg/abacus"
	"github.com/vanderheijden86/soroban/pkg/config"
	"github.com/vanderheijden86/soroban/pkg/debug"
	"github.com/vanderheijden86/soroban/pkg/export"
	"github.com/vanderheijden86/soroban/pkg/metrics"
)

// mousePointer is the pointer id used for the terminal mouse. Terminals
// report a single pointer.
const mousePointer abacus.PointerID = 1

// The board is drawn below the title and value lines, one cell in.
const (
	boardTop  = 3
	boardLeft = 1
)

// CompletionMsg delivers a practice completion after its delay.
type CompletionMsg struct {
	Completion abacus.Completion
}

// ConfigReloadedMsg carries a reloaded config file.
type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

// ExportDoneMsg reports the result of an export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// Options configures a Model beyond the config file.
type Options struct {
	// Tutorial opens the tour on start.
	Tutorial bool
	// ExportDir is where the export key writes snapshots.
	ExportDir string
	// Clipboard replaces the system clipboard, mainly for tests.
	Clipboard func(string) error
}

// Model is the Bubble Tea model hosting one abacus engine.
type Model struct {
	engine *abacus.Engine
	cfg    config.Config
	opts   Options

	theme    Theme
	keys     KeyMap
	help     help.Model
	tutorial TutorialModel
	input    textinput.Model
	entering bool

	width  int
	height int

	cursor     cursorPos
	showHint   bool
	lastTarget *int
	solved     int

	status    string
	statusErr bool
}

// NewModel builds the model and its engine from cfg.
func NewModel(cfg config.Config, opts Options) (Model, error) {
	ec, err := cfg.EngineConfig()
	if err != nil {
		return Model{}, err
	}
	engine, err := abacus.New(ec)
	if err != nil {
		return Model{}, fmt.Errorf("start engine: %w", err)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	theme := ThemeFor(cfg.UI.Theme, lipgloss.DefaultRenderer())

	ti := textinput.New()
	ti.Placeholder = "target number"
	ti.CharLimit = abacus.MaxColumns + 1
	ti.Width = 20

	m := Model{
		engine:     engine,
		cfg:        cfg,
		opts:       opts,
		theme:      theme,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		tutorial:   NewTutorialModel(theme),
		input:      ti,
		showHint:   cfg.HintsEnabled(),
		lastTarget: ec.Target,
		cursor:     cursorPos{Col: engine.EffectiveColumns() - 1},
	}
	if opts.Tutorial {
		m.openTutorial()
	}
	return m, nil
}

// Engine exposes the engine, mainly for tests and robot output.
func (m Model) Engine() *abacus.Engine { return m.engine }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.tutorial.SetSize(min(msg.Width, 72), max(6, msg.Height-boardTop-boardLines-2))
		cmd := m.apply(abacus.Resize{Width: msg.Width})
		sync := m.syncTutorialWidth()
		return m, tea.Batch(cmd, sync)

	case tea.MouseMsg:
		if m.tutorial.IsOpen() || m.entering {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.entering {
			return m.handleTargetInput(msg)
		}
		if m.tutorial.IsOpen() {
			return m.handleTutorialKeys(msg)
		}
		return m.handleKeys(msg)

	case CompletionMsg:
		return m.handleCompletion(msg.Completion)

	case ConfigReloadedMsg:
		return m.handleReload(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.setStatus("Saved " + msg.Path)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	y := pixelY(msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		snap := m.engine.Snapshot()
		col, row, ok := beadAt(snap.Columns, msg.X-boardLeft, msg.Y-boardTop)
		if !ok {
			return m, nil
		}
		m.cursor = cursorPos{Col: col, Row: row}
		down := abacus.PointerDown{Pointer: mousePointer, Col: col, Row: row, Y: y}
		if _, err := m.engine.Apply(down); errors.Is(err, abacus.ErrPointerActive) {
			// The release of the previous press never arrived.
			_, _ = m.engine.Apply(abacus.PointerCancel{Pointer: mousePointer})
			return m, m.apply(down)
		} else if err != nil {
			m.setError(err)
		}
		return m, nil

	case tea.MouseActionMotion:
		return m, m.apply(abacus.PointerMove{Pointer: mousePointer, Y: y})

	case tea.MouseActionRelease:
		return m, m.apply(abacus.PointerUp{Pointer: mousePointer, Y: y})
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.engine.EffectiveColumns()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.cursor.Col = max(0, m.cursor.Col-1)
	case key.Matches(msg, m.keys.Right):
		m.cursor.Col = min(n-1, m.cursor.Col+1)
	case key.Matches(msg, m.keys.Up):
		m.cursor.Row = max(abacus.RowHeaven, m.cursor.Row-1)
	case key.Matches(msg, m.keys.Down):
		m.cursor.Row = min(abacus.EarthBeads, m.cursor.Row+1)
	case key.Matches(msg, m.keys.Toggle):
		return m, m.apply(abacus.ToggleBead{Col: m.cursor.Col, Row: m.cursor.Row})
	case key.Matches(msg, m.keys.PushUp):
		return m, m.apply(abacus.DragBead{Col: m.cursor.Col, Row: m.cursor.Row, Direction: abacus.Up})
	case key.Matches(msg, m.keys.PushDown):
		return m, m.apply(abacus.DragBead{Col: m.cursor.Col, Row: m.cursor.Row, Direction: abacus.Down})
	case key.Matches(msg, m.keys.Reset):
		m.setStatus("Board reset")
		return m, m.apply(abacus.Reset{})
	case key.Matches(msg, m.keys.Target):
		m.entering = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Mode):
		return m, m.toggleMode()
	case key.Matches(msg, m.keys.Hint):
		m.showHint = !m.showHint
	case key.Matches(msg, m.keys.Tutorial):
		m.openTutorial()
	case key.Matches(msg, m.keys.Copy):
		value := strconv.Itoa(m.engine.Snapshot().Total)
		if err := m.opts.Clipboard(value); err != nil {
			m.setError(fmt.Errorf("copy: %w", err))
		} else {
			m.setStatus("Copied " + value)
		}
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handleTargetInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.entering = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.entering = false
		m.input.Blur()
		raw := strings.TrimSpace(m.input.Value())
		target, err := strconv.Atoi(raw)
		if err != nil {
			m.setError(fmt.Errorf("target %q is not a number", raw))
			return m, nil
		}
		if limit := abacus.NewBoard(m.engine.EffectiveColumns()).MaxValue(); target < 0 || target > limit {
			m.setError(fmt.Errorf("target %d is out of range 0-%d", target, limit))
			return m, nil
		}
		m.lastTarget = abacus.IntPtr(target)
		m.setStatus(fmt.Sprintf("Show %d on the board", target))
		return m, m.apply(abacus.SetMode{Mode: abacus.ModePractice, Target: abacus.IntPtr(target)})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleTutorialKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	used, closed := m.tutorial.handleKey(msg)
	if !used {
		var cmd tea.Cmd
		m.tutorial, cmd = m.tutorial.Update(msg)
		return m, cmd
	}
	if closed {
		return m, m.apply(abacus.SetOverride{Board: nil})
	}
	return m, m.apply(abacus.SetOverride{Board: m.tutorial.Override()})
}

func (m *Model) openTutorial() {
	m.tutorial.Open(m.engine.EffectiveColumns())
	if _, err := m.engine.Apply(abacus.SetOverride{Board: m.tutorial.Override()}); err != nil {
		m.setError(err)
	}
}

func (m *Model) toggleMode() tea.Cmd {
	if m.engine.Snapshot().Mode == abacus.ModePractice {
		m.setStatus("Free play")
		return m.apply(abacus.SetMode{Mode: abacus.ModeFree})
	}
	target := m.lastTarget
	if target == nil {
		target = abacus.IntPtr(m.randomTarget())
		m.lastTarget = target
	}
	m.setStatus(fmt.Sprintf("Show %d on the board", *target))
	return m.apply(abacus.SetMode{Mode: abacus.ModePractice, Target: abacus.IntPtr(*target)})
}

// randomTarget picks a practice number the current board can show.
func (m Model) randomTarget() int {
	b := abacus.NewBoard(m.engine.EffectiveColumns())
	return rand.IntN(b.MaxValue() + 1)
}

func (m Model) handleCompletion(c abacus.Completion) (tea.Model, tea.Cmd) {
	if !m.engine.Fire(c) {
		debug.Log("ui: dropped stale completion gen=%d", c.Generation)
		return m, nil
	}
	m.solved++
	m.setStatus(fmt.Sprintf("Correct! %d solved", m.solved))
	if !m.cfg.Practice.RandomTargets {
		return m, nil
	}
	next := m.randomTarget()
	m.lastTarget = abacus.IntPtr(next)
	return m, m.apply(abacus.SetTarget{Target: abacus.IntPtr(next)})
}

func (m Model) handleReload(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.setError(fmt.Errorf("reload config: %w", msg.Err))
		return m, nil
	}
	ec, err := msg.Config.EngineConfig()
	if err != nil {
		m.setError(fmt.Errorf("reload config: %w", err))
		return m, nil
	}
	ec.ViewportWidth = m.width
	ec.Override = m.tutorial.Override()

	m.cfg = msg.Config
	m.theme = ThemeFor(m.cfg.UI.Theme, m.theme.Renderer)
	m.tutorial.theme = m.theme
	m.showHint = m.cfg.HintsEnabled()
	if ec.Target != nil {
		m.lastTarget = abacus.IntPtr(*ec.Target)
	}
	m.setStatus("Config reloaded")
	cmd := m.apply(abacus.Reconfigure{Config: ec})
	sync := m.syncTutorialWidth()
	return m, tea.Batch(cmd, sync)
}

// syncTutorialWidth rebuilds the tutorial board after the effective column
// count changed. The engine keeps an override across such a change, so the
// tour has to supply one at the new width.
func (m *Model) syncTutorialWidth() tea.Cmd {
	n := m.engine.EffectiveColumns()
	if !m.tutorial.IsOpen() || n == m.tutorial.Columns() {
		return nil
	}
	m.tutorial.SetColumns(n)
	return m.apply(abacus.SetOverride{Board: m.tutorial.Override()})
}

// apply runs one event and turns a pending completion into a tick.
func (m *Model) apply(ev abacus.Event) tea.Cmd {
	out, err := m.engine.Apply(ev)
	if err != nil {
		if errors.Is(err, abacus.ErrGesturesDisabled) {
			m.setStatus("Close the tutorial to move beads")
			return nil
		}
		m.setError(err)
		return nil
	}
	m.clampCursor(len(out.Snapshot.Columns))
	if out.Completion == nil {
		return nil
	}
	c := *out.Completion
	return tea.Tick(c.Delay, func(time.Time) tea.Msg {
		return CompletionMsg{Completion: c}
	})
}

func (m *Model) clampCursor(n int) {
	if n > 0 && m.cursor.Col >= n {
		m.cursor.Col = n - 1
	}
}

func (m Model) exportCmd() tea.Cmd {
	snap := m.engine.Snapshot()
	path := filepath.Join(m.opts.ExportDir, fmt.Sprintf("soroban-%d.svg", snap.Total))
	highlight := m.tutorial.HighlightColumn()
	return func() tea.Msg {
		err := export.SaveSnapshot(export.SnapshotOptions{
			Path:      path,
			Snapshot:  snap,
			Highlight: highlight,
		})
		return ExportDoneMsg{Path: path, Err: err}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// View implements tea.Model.
func (m Model) View() string {
	defer metrics.Timer(metrics.Render)()

	snap := m.engine.Snapshot()
	t := m.theme

	header := t.Title.Render("Soroban") + " " + RenderModeBadge(snap)
	if badge := RenderTargetBadge(snap); badge != "" {
		header += " " + badge
	}

	valueStyle := t.Value
	value := "Value " + formatThousands(snap.Total)
	if snap.Correct {
		valueStyle = t.ValueOK
		value += "  ✓ Correct!"
	}

	board := boardView{
		theme:     t,
		snap:      snap,
		cursor:    m.cursor,
		showCur:   !m.tutorial.IsOpen(),
		highlight: m.tutorial.HighlightColumn(),
	}.render()

	lines := []string{
		header,
		valueStyle.Render(value),
		"",
	}
	for _, l := range strings.Split(board, "\n") {
		lines = append(lines, strings.Repeat(" ", boardLeft)+l)
	}

	if m.tutorial.IsOpen() {
		lines = append(lines, m.tutorial.View())
		return strings.Join(lines, "\n")
	}

	if hint := m.engine.Hint(); m.showHint && hint != "" {
		lines = append(lines, t.Hint.Render(truncateRunesHelper("Hint: "+hint, max(20, m.width-1), "…")))
	}
	if m.entering {
		lines = append(lines, t.Target.Render("Target: ")+m.input.View())
	}
	if m.status != "" {
		style := t.Status
		if m.statusErr {
			style = t.Error
		}
		lines = append(lines, style.Render(m.status))
	}
	if !m.cfg.UI.Compact {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

// formatThousands renders n with comma separators.
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
