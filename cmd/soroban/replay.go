package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/soroban/pkg/abacus"
)

// ScriptEvent is one entry of a --robot-replay script. Type uses the event
// names of the engine ("toggle", "pointer_down", ...) plus "wait", which
// delivers the pending completions, and "clear_override".
type ScriptEvent struct {
	Type      string  `yaml:"type" json:"type"`
	Pointer   int64   `yaml:"pointer,omitempty" json:"pointer,omitempty"`
	Col       int     `yaml:"col,omitempty" json:"col,omitempty"`
	Row       int     `yaml:"row,omitempty" json:"row,omitempty"`
	Y         float64 `yaml:"y,omitempty" json:"y,omitempty"`
	Direction string  `yaml:"direction,omitempty" json:"direction,omitempty"`
	Width     int     `yaml:"width,omitempty" json:"width,omitempty"`
	Target    *int    `yaml:"target,omitempty" json:"target,omitempty"`
	Mode      string  `yaml:"mode,omitempty" json:"mode,omitempty"`
	Key       string  `yaml:"key,omitempty" json:"key,omitempty"`
	// Value and Columns describe the board of a set_override event.
	Value   int `yaml:"value,omitempty" json:"value,omitempty"`
	Columns int `yaml:"columns,omitempty" json:"columns,omitempty"`
}

// ReplayStep records the outcome of one script event.
type ReplayStep struct {
	Index    int             `json:"index"`
	Type     string          `json:"type"`
	Error    string          `json:"error,omitempty"`
	Changed  bool            `json:"changed"`
	Intent   *abacus.Intent  `json:"intent,omitempty"`
	Snapshot abacus.Snapshot `json:"snapshot"`
}

// ReplayResult is the JSON printed by --robot-replay.
type ReplayResult struct {
	Steps       []ReplayStep    `json:"steps"`
	Final       abacus.Snapshot `json:"final"`
	Hint        string          `json:"hint"`
	Completions int             `json:"completions"`
	Dropped     int             `json:"dropped"`
}

// LoadScript reads a replay script. ".json" files are decoded as JSON,
// anything else as YAML. "-" reads YAML or JSON from stdin.
func LoadScript(path string) ([]ScriptEvent, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading replay script: %w", err)
	}
	return ParseScript(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// ParseScript decodes a script.
func ParseScript(data []byte, isJSON bool) ([]ScriptEvent, error) {
	var events []ScriptEvent
	if isJSON {
		if err := json.Unmarshal(data, &events); err != nil {
			return nil, fmt.Errorf("parsing replay script: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing replay script: %w", err)
	}
	for i, ev := range events {
		if strings.TrimSpace(ev.Type) == "" {
			return nil, fmt.Errorf("replay event %d: missing type", i)
		}
	}
	return events, nil
}

// toEvent converts a script entry to an engine event. Entries handled by
// the replay loop itself return nil.
func (s ScriptEvent) toEvent(e *abacus.Engine) (abacus.Event, error) {
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "pointer_down":
		return abacus.PointerDown{Pointer: abacus.PointerID(s.Pointer), Col: s.Col, Row: s.Row, Y: s.Y}, nil
	case "pointer_move":
		return abacus.PointerMove{Pointer: abacus.PointerID(s.Pointer), Y: s.Y}, nil
	case "pointer_up":
		return abacus.PointerUp{Pointer: abacus.PointerID(s.Pointer), Y: s.Y}, nil
	case "pointer_cancel":
		return abacus.PointerCancel{Pointer: abacus.PointerID(s.Pointer)}, nil
	case "toggle", "tap":
		return abacus.ToggleBead{Col: s.Col, Row: s.Row}, nil
	case "drag":
		dir, err := abacus.ParseDirection(s.Direction)
		if err != nil {
			return nil, err
		}
		return abacus.DragBead{Col: s.Col, Row: s.Row, Direction: dir}, nil
	case "resize":
		return abacus.Resize{Width: s.Width}, nil
	case "reset":
		return abacus.Reset{}, nil
	case "set_target":
		return abacus.SetTarget{Target: s.Target}, nil
	case "set_reset_key":
		return abacus.SetResetKey{Key: s.Key}, nil
	case "set_mode":
		mode, err := abacus.ParseMode(s.Mode)
		if err != nil {
			return nil, err
		}
		return abacus.SetMode{Mode: mode, Target: s.Target}, nil
	case "set_override":
		n := s.Columns
		if n == 0 {
			n = e.EffectiveColumns()
		}
		b, err := abacus.BoardForValue(n, s.Value)
		if err != nil {
			return nil, err
		}
		return abacus.SetOverride{Board: &b}, nil
	case "clear_override":
		return abacus.SetOverride{}, nil
	case "wait":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", abacus.ErrUnknownEvent, s.Type)
}

// Replay applies script to e. Completions are queued and delivered through
// Fire on every "wait" entry and once more at the end, so a reset between
// reaching the target and the wait drops the stale ticket.
func Replay(e *abacus.Engine, script []ScriptEvent) ReplayResult {
	var (
		res     ReplayResult
		pending []abacus.Completion
	)
	deliver := func() {
		for _, c := range pending {
			if e.Fire(c) {
				res.Completions++
			} else {
				res.Dropped++
			}
		}
		pending = pending[:0]
	}

	for i, s := range script {
		step := ReplayStep{Index: i, Type: s.Type}
		ev, err := s.toEvent(e)
		switch {
		case err != nil:
			step.Error = err.Error()
		case ev == nil:
			deliver()
		default:
			out, err := e.Apply(ev)
			if err != nil {
				step.Error = err.Error()
			}
			step.Changed = out.Changed
			step.Intent = out.Intent
			if out.Completion != nil {
				pending = append(pending, *out.Completion)
			}
		}
		step.Snapshot = e.Snapshot()
		res.Steps = append(res.Steps, step)
	}
	deliver()

	res.Final = e.Snapshot()
	res.Hint = e.Hint()
	return res
}
