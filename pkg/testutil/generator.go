// Package testutil provides deterministic fixture generators for boards
// and event scripts.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/soroban/pkg/abacus"
)

// ScriptEntry is one event in the replay script format read by
// soroban --robot-replay.
type ScriptEntry struct {
	Type      string  `yaml:"type" json:"type"`
	Pointer   int64   `yaml:"pointer,omitempty" json:"pointer,omitempty"`
	Col       int     `yaml:"col,omitempty" json:"col,omitempty"`
	Row       int     `yaml:"row,omitempty" json:"row,omitempty"`
	Y         float64 `yaml:"y,omitempty" json:"y,omitempty"`
	Direction string  `yaml:"direction,omitempty" json:"direction,omitempty"`
	Target    *int    `yaml:"target,omitempty" json:"target,omitempty"`
}

// GeneratorConfig controls event generation.
type GeneratorConfig struct {
	Seed     int64 // Random seed (0 = 42)
	Columns  int   // Board width the events address (default 9)
	Pointers int   // Distinct pointer ids used by gestures (default 1)
	Targets  bool  // Mix in set_target events
	Waits    bool  // Mix in wait entries (scripts only)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		Columns:  abacus.DefaultColumns,
		Pointers: 1,
	}
}

// Generator creates reproducible boards and event sequences.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.Columns == 0 {
		cfg.Columns = abacus.DefaultColumns
	}
	cfg.Columns = abacus.ClampColumns(cfg.Columns)
	if cfg.Pointers <= 0 {
		cfg.Pointers = 1
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Config returns the normalized config.
func (g *Generator) Config() GeneratorConfig { return g.cfg }

// Value returns a number the board can show.
func (g *Generator) Value() int {
	max := 1
	for i := 0; i < g.cfg.Columns; i++ {
		max *= 10
	}
	return g.rng.Intn(max)
}

// Board returns a random valid board.
func (g *Generator) Board() abacus.Board {
	b, err := abacus.BoardForValue(g.cfg.Columns, g.Value())
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return b
}

// Script returns n entries. Pointer gestures are emitted as complete
// down/move/up groups, which count as a single entry.
func (g *Generator) Script(n int) []ScriptEntry {
	out := make([]ScriptEntry, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, g.entry()...)
	}
	return out
}

func (g *Generator) entry() []ScriptEntry {
	col := g.rng.Intn(g.cfg.Columns)
	row := g.rng.Intn(abacus.BeadsPerColumn)

	kinds := []string{"toggle", "toggle", "drag", "pointer", "pointer"}
	if g.cfg.Targets {
		kinds = append(kinds, "set_target")
	}
	if g.cfg.Waits {
		kinds = append(kinds, "wait")
	}

	switch kinds[g.rng.Intn(len(kinds))] {
	case "drag":
		dir := abacus.Up
		if g.rng.Intn(2) == 0 {
			dir = abacus.Down
		}
		return []ScriptEntry{{Type: "drag", Col: col, Row: row, Direction: dir.String()}}
	case "pointer":
		return g.gesture(col, row)
	case "set_target":
		v := g.Value()
		return []ScriptEntry{{Type: "set_target", Target: &v}}
	case "wait":
		return []ScriptEntry{{Type: "wait"}}
	default:
		return []ScriptEntry{{Type: "toggle", Col: col, Row: row}}
	}
}

// gesture emits a tap or a drag through the pointer events.
func (g *Generator) gesture(col, row int) []ScriptEntry {
	id := int64(g.rng.Intn(g.cfg.Pointers) + 1)
	y0 := float64(20 + g.rng.Intn(200))
	deltas := []float64{0, 4, -6, 30, -30, 48}
	dy := deltas[g.rng.Intn(len(deltas))]

	out := []ScriptEntry{{Type: "pointer_down", Pointer: id, Col: col, Row: row, Y: y0}}
	if dy != 0 {
		out = append(out, ScriptEntry{Type: "pointer_move", Pointer: id, Y: y0 + dy/2})
	}
	return append(out, ScriptEntry{Type: "pointer_up", Pointer: id, Y: y0 + dy})
}

// Events converts a script to engine events. Wait entries have no engine
// counterpart and are skipped.
func Events(script []ScriptEntry) ([]abacus.Event, error) {
	out := make([]abacus.Event, 0, len(script))
	for i, s := range script {
		var ev abacus.Event
		switch s.Type {
		case "toggle":
			ev = abacus.ToggleBead{Col: s.Col, Row: s.Row}
		case "drag":
			dir, err := abacus.ParseDirection(s.Direction)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			ev = abacus.DragBead{Col: s.Col, Row: s.Row, Direction: dir}
		case "pointer_down":
			ev = abacus.PointerDown{Pointer: abacus.PointerID(s.Pointer), Col: s.Col, Row: s.Row, Y: s.Y}
		case "pointer_move":
			ev = abacus.PointerMove{Pointer: abacus.PointerID(s.Pointer), Y: s.Y}
		case "pointer_up":
			ev = abacus.PointerUp{Pointer: abacus.PointerID(s.Pointer), Y: s.Y}
		case "set_target":
			ev = abacus.SetTarget{Target: s.Target}
		case "wait":
			continue
		default:
			return nil, fmt.Errorf("entry %d: unknown type %q", i, s.Type)
		}
		out = append(out, ev)
	}
	return out, nil
}

// ToYAML encodes a script in the replay file format.
func ToYAML(script []ScriptEntry) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(script); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// QuickScript returns n entries for a 9-column board with the given seed.
func QuickScript(seed int64, n int) []ScriptEntry {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return New(cfg).Script(n)
}
