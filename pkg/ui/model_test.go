package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/soroban/pkg/abacus"
	"github.com/vanderheijden86/soroban/pkg/config"
)

func newTestModel(t *testing.T, mutate func(*config.Config)) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Practice.CompletionDelayMs = 1
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := NewModel(cfg, Options{
		ExportDir: t.TempDir(),
		Clipboard: func(string) error { return nil },
	})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func practiceConfig(target int) func(*config.Config) {
	return func(c *config.Config) {
		c.Practice.Mode = "practice"
		c.Practice.Target = &target
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// beadCell returns the screen cell of bead (col,row) as currently drawn.
func beadCell(m Model, col, row int) (x, y int) {
	c := m.engine.Snapshot().Columns[col]
	return boardLeft + 1 + col*cellWidth + 2, boardTop + beadLine(c, row)
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestModel_MouseTapTogglesBead(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	x, y := beadCell(m, 8, 3)
	m, _ = update(t, m, mouse(tea.MouseActionPress, x, y))
	m, _ = update(t, m, mouse(tea.MouseActionRelease, x, y))

	if got := m.engine.Snapshot().Total; got != 3 {
		t.Fatalf("tap on third earth bead: total = %d, want 3", got)
	}

	x, y = beadCell(m, 8, abacus.RowHeaven)
	m, _ = update(t, m, mouse(tea.MouseActionPress, x, y))
	m, _ = update(t, m, mouse(tea.MouseActionRelease, x, y))
	if got := m.engine.Snapshot().Total; got != 8 {
		t.Errorf("tap on heaven bead: total = %d, want 8", got)
	}
}

func TestModel_MouseDragUsesDirection(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	// Dragging a resting earth bead down contradicts its state.
	x, y := beadCell(m, 7, 2)
	m, _ = update(t, m, mouse(tea.MouseActionPress, x, y))
	m, _ = update(t, m, mouse(tea.MouseActionMotion, x, y+1))
	m, _ = update(t, m, mouse(tea.MouseActionRelease, x, y+1))
	if got := m.engine.Snapshot().Total; got != 0 {
		t.Fatalf("contradicting drag changed the board: total = %d", got)
	}

	m, _ = update(t, m, mouse(tea.MouseActionPress, x, y))
	m, _ = update(t, m, mouse(tea.MouseActionMotion, x, y-1))
	m, _ = update(t, m, mouse(tea.MouseActionRelease, x, y-1))
	if got := m.engine.Snapshot().Total; got != 20 {
		t.Errorf("drag up on second tens bead: total = %d, want 20", got)
	}
}

func TestModel_MouseMissesIgnored(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	for _, pos := range [][2]int{{0, 0}, {boardLeft + 1, boardTop + lineBar}, {500, boardTop + lineEarth}} {
		m, _ = update(t, m, mouse(tea.MouseActionPress, pos[0], pos[1]))
		m, _ = update(t, m, mouse(tea.MouseActionRelease, pos[0], pos[1]))
	}
	if snap := m.engine.Snapshot(); snap.Total != 0 || snap.ActiveGestures != 0 {
		t.Errorf("misses should not change anything: %+v", snap)
	}
}

func TestModel_KeyboardPlay(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, keyMsg(" "))
	if got := m.engine.Snapshot().Total; got != 5 {
		t.Fatalf("space on heaven bead: total = %d, want 5", got)
	}

	m, _ = update(t, m, keyMsg("left"))
	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("K"))
	if got := m.engine.Snapshot().Total; got != 25 {
		t.Fatalf("drag up on tens row 2: total = %d, want 25", got)
	}

	m, _ = update(t, m, keyMsg("r"))
	if got := m.engine.Snapshot().Total; got != 0 {
		t.Errorf("reset: total = %d", got)
	}
}

func TestModel_CursorStaysOnBoard(t *testing.T) {
	m := newTestModel(t, nil)
	for i := 0; i < 20; i++ {
		m, _ = update(t, m, keyMsg("right"))
		m, _ = update(t, m, keyMsg("up"))
	}
	if m.cursor != (cursorPos{Col: 8, Row: 0}) {
		t.Errorf("cursor = %+v", m.cursor)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	if n := m.engine.EffectiveColumns(); n != 7 {
		t.Fatalf("narrow terminal should use 7 columns, got %d", n)
	}
	if m.cursor.Col != 6 {
		t.Errorf("cursor not clamped after resize: %+v", m.cursor)
	}
}

func TestModel_PracticeCompletion(t *testing.T) {
	m := newTestModel(t, practiceConfig(3))

	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("down"))
	m, cmd := update(t, m, keyMsg(" "))
	if cmd == nil {
		t.Fatal("reaching the target should schedule a completion")
	}
	if !m.engine.Snapshot().Correct {
		t.Fatal("snapshot should be correct")
	}

	msg, ok := cmd().(CompletionMsg)
	if !ok {
		t.Fatalf("expected CompletionMsg")
	}
	m, _ = update(t, m, msg)
	if m.solved != 1 || !strings.Contains(m.status, "Correct") {
		t.Errorf("solved=%d status=%q", m.solved, m.status)
	}

	// Delivering the same ticket again is a no-op.
	m, _ = update(t, m, msg)
	if m.solved != 1 {
		t.Errorf("completion delivered twice")
	}
}

func TestModel_StaleCompletionDropped(t *testing.T) {
	m := newTestModel(t, practiceConfig(5))

	m, cmd := update(t, m, keyMsg(" "))
	if cmd == nil {
		t.Fatal("expected completion")
	}
	msg := cmd().(CompletionMsg)

	m, _ = update(t, m, keyMsg("r"))
	m, _ = update(t, m, msg)
	if m.solved != 0 {
		t.Error("completion from a reset session must be dropped")
	}
}

func TestModel_RandomTargetAfterCompletion(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) {
		practiceConfig(5)(c)
		c.Practice.RandomTargets = true
	})
	before := m.engine.Snapshot().Generation

	m, cmd := update(t, m, keyMsg(" "))
	m, _ = update(t, m, cmd().(CompletionMsg))

	snap := m.engine.Snapshot()
	if snap.Target == nil {
		t.Fatal("practice target lost")
	}
	if *snap.Target != 5 && snap.Generation != before+1 {
		t.Errorf("new target should reset the board")
	}
	if *snap.Target < 0 || *snap.Target > 999999999 {
		t.Errorf("target %d out of range", *snap.Target)
	}
}

func TestModel_TargetEntry(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, keyMsg("n"))
	if !m.entering {
		t.Fatal("n should open target entry")
	}
	for _, r := range "42" {
		m, _ = update(t, m, keyMsg(string(r)))
	}
	m, _ = update(t, m, keyMsg("enter"))

	snap := m.engine.Snapshot()
	if snap.Mode != abacus.ModePractice || snap.Target == nil || *snap.Target != 42 {
		t.Fatalf("target entry: mode=%v target=%v", snap.Mode, snap.Target)
	}

	m, _ = update(t, m, keyMsg("n"))
	m, _ = update(t, m, keyMsg("x"))
	m, _ = update(t, m, keyMsg("enter"))
	if !m.statusErr {
		t.Error("non-numeric target should report an error")
	}
	if *m.engine.Snapshot().Target != 42 {
		t.Error("bad input must not change the target")
	}

	m, _ = update(t, m, keyMsg("m"))
	if snap := m.engine.Snapshot(); snap.Mode != abacus.ModeFree || snap.Target != nil {
		t.Errorf("m should switch to free play: %+v", snap)
	}
	m, _ = update(t, m, keyMsg("m"))
	if snap := m.engine.Snapshot(); snap.Target == nil || *snap.Target != 42 {
		t.Errorf("m should restore the last target: %+v", snap.Target)
	}
}

func TestModel_TutorialDrivesBoard(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, keyMsg("t"))

	if !m.tutorial.IsOpen() || !m.engine.Snapshot().Tutorial {
		t.Fatal("t should open the tutorial and mirror its board")
	}

	wants := []int{0, 5, 1, 3}
	for i, want := range wants {
		if got := m.engine.Snapshot().Total; got != want {
			t.Errorf("step %d: total = %d, want %d", i, got, want)
		}
		if i < len(wants)-1 {
			m, _ = update(t, m, keyMsg("enter"))
		}
	}

	// Gestures are disabled while the tour is showing.
	x, y := beadCell(m, 0, 0)
	m, _ = update(t, m, mouse(tea.MouseActionPress, x, y))
	m, _ = update(t, m, mouse(tea.MouseActionRelease, x, y))
	if got := m.engine.Snapshot().Total; got != 3 {
		t.Errorf("mouse changed a tutorial board: %d", got)
	}

	m, _ = update(t, m, keyMsg("enter"))
	snap := m.engine.Snapshot()
	if m.tutorial.IsOpen() || snap.Tutorial || snap.Total != 0 {
		t.Errorf("done should close the tour and clear the board: %+v", snap)
	}
}

func TestModel_TutorialBackAndClose(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, keyMsg("t"))
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("left"))
	if m.tutorial.Index() != 0 || m.engine.Snapshot().Total != 0 {
		t.Errorf("back: index=%d total=%d", m.tutorial.Index(), m.engine.Snapshot().Total)
	}
	m, _ = update(t, m, keyMsg("esc"))
	if m.tutorial.IsOpen() || m.engine.Snapshot().Tutorial {
		t.Error("esc should close the tour")
	}
}

func TestModel_TutorialFollowsColumnChanges(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, keyMsg("t"))
	m, _ = update(t, m, keyMsg("enter"))
	if got := len(m.engine.Snapshot().Columns); got != abacus.DefaultColumns {
		t.Fatalf("wide tutorial board has %d columns", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 40})
	snap := m.engine.Snapshot()
	if m.engine.EffectiveColumns() != 7 || len(snap.Columns) != 7 {
		t.Fatalf("narrow resize: effective=%d board=%d", m.engine.EffectiveColumns(), len(snap.Columns))
	}
	if !snap.Tutorial || snap.Total != 5 || m.tutorial.Index() != 1 {
		t.Errorf("tour lost its step on resize: tutorial=%v total=%d index=%d",
			snap.Tutorial, snap.Total, m.tutorial.Index())
	}
	if m.tutorial.Columns() != 7 {
		t.Errorf("steps built for %d columns", m.tutorial.Columns())
	}

	cfg := config.DefaultConfig()
	cfg.Board.Columns = 3
	m, _ = update(t, m, ConfigReloadedMsg{Config: cfg})
	snap = m.engine.Snapshot()
	if len(snap.Columns) != 3 || snap.Total != 5 || m.tutorial.Columns() != 3 {
		t.Errorf("reload during tour: board=%d total=%d steps=%d",
			len(snap.Columns), snap.Total, m.tutorial.Columns())
	}
}

func TestModel_TargetEntryRejectsUnreachable(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) {
		c.Board.Columns = 3
		practiceConfig(12)(c)
	})

	for _, input := range []string{"1000", "-7"} {
		m, _ = update(t, m, keyMsg("n"))
		for _, r := range input {
			m, _ = update(t, m, keyMsg(string(r)))
		}
		m, _ = update(t, m, keyMsg("enter"))
		if !m.statusErr || !strings.Contains(m.status, "0-999") {
			t.Errorf("%s: status = %q", input, m.status)
		}
		if got := m.engine.Snapshot().Target; got == nil || *got != 12 {
			t.Errorf("%s: target changed to %v", input, got)
		}
	}
}

func TestModel_ConfigReload(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, keyMsg(" "))

	cfg := config.DefaultConfig()
	cfg.Board.Columns = 4
	m, _ = update(t, m, ConfigReloadedMsg{Config: cfg})

	snap := m.engine.Snapshot()
	if len(snap.Columns) != 4 || snap.Total != 0 {
		t.Errorf("reload: columns=%d total=%d", len(snap.Columns), snap.Total)
	}
	if m.cursor.Col > 3 {
		t.Errorf("cursor not clamped: %+v", m.cursor)
	}

	m, _ = update(t, m, ConfigReloadedMsg{Err: errors.New("boom")})
	if !m.statusErr || !strings.Contains(m.status, "boom") {
		t.Errorf("reload error not shown: %q", m.status)
	}
}

func TestModel_CopyAndExport(t *testing.T) {
	var copied string
	cfg := config.DefaultConfig()
	dir := t.TempDir()
	m, err := NewModel(cfg, Options{
		ExportDir: dir,
		Clipboard: func(s string) error { copied = s; return nil },
	})
	if err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, keyMsg(" "))
	m, _ = update(t, m, keyMsg("c"))
	if copied != "5" {
		t.Errorf("copied %q", copied)
	}

	m, cmd := update(t, m, keyMsg("x"))
	if cmd == nil {
		t.Fatal("export should return a command")
	}
	done, ok := cmd().(ExportDoneMsg)
	if !ok || done.Err != nil {
		t.Fatalf("export: %+v", done)
	}
	if _, err := os.Stat(filepath.Join(dir, "soroban-5.svg")); err != nil {
		t.Errorf("export file missing: %v", err)
	}
	m, _ = update(t, m, done)
	if !strings.Contains(m.status, "soroban-5.svg") {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, practiceConfig(1234))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	out := m.View()
	for _, want := range []string{"Soroban", "PRACTICE", "target 1234", "Units", "Hun.M", "Hint:"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = update(t, m, keyMsg("i"))
	if strings.Contains(m.View(), "Hint:") {
		t.Error("i should hide the hint")
	}
}

func TestNewModel_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Practice.Mode = "practice"
	if _, err := NewModel(cfg, Options{}); err == nil {
		t.Error("practice without a target should fail")
	}
}

func TestFormatThousands(t *testing.T) {
	tests := map[int]string{
		0:         "0",
		999:       "999",
		1000:      "1,000",
		123456789: "123,456,789",
		-4500:     "-4,500",
	}
	for in, want := range tests {
		if got := formatThousands(in); got != want {
			t.Errorf("formatThousands(%d) = %q, want %q", in, got, want)
		}
	}
}
