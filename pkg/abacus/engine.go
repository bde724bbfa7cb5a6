package abacus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vanderheijden86/soroban/pkg/debug"
	"github.com/vanderheijden86/soroban/pkg/metrics"
)

// Config configures an Engine.
type Config struct {
	Columns       int      // 1..9, clamped; 0 means DefaultColumns
	Responsive    bool     // substitute CompactColumns on narrow viewports
	Resolver      Resolver // zero value means DefaultResolver
	ViewportWidth int      // initial width, 0 if unknown

	Mode     Mode
	Target   *int   // required in practice mode
	ResetKey string // opaque exercise key; a change resets the board

	DragThreshold   float64       // <= 0 means DragThreshold
	CompletionDelay time.Duration // 0 means DefaultCompletionDelay

	// Override, when set, is mirrored exactly and disables gestures.
	Override *Board

	// Scheduler delivers completions. When nil the host delivers the
	// Completion returned by Apply through Fire.
	Scheduler Scheduler

	OnValueChange func(total int)
	OnCorrect     func()
}

// DefaultConfig returns a 9-column responsive free-play configuration.
func DefaultConfig() Config {
	return Config{
		Columns:         DefaultColumns,
		Responsive:      true,
		Resolver:        DefaultResolver,
		Mode:            ModeFree,
		DragThreshold:   DragThreshold,
		CompletionDelay: DefaultCompletionDelay,
	}
}

// Validate rejects configurations the engine cannot run.
func (c Config) Validate() error {
	if c.Mode != ModeFree && c.Mode != ModePractice {
		return &ConfigError{Field: "mode", Err: fmt.Errorf("%w: %d", ErrInvalidMode, c.Mode)}
	}
	if c.Mode == ModePractice && c.Target == nil {
		return &ConfigError{Field: "target", Err: ErrMissingTarget}
	}
	if c.CompletionDelay < 0 {
		return &ConfigError{Field: "completion_delay", Err: fmt.Errorf("negative delay %v", c.CompletionDelay)}
	}
	if c.Override != nil {
		if _, err := BoardFromColumns(c.Override.cols); err != nil {
			return &ConfigError{Field: "override", Err: err}
		}
	}
	return nil
}

func (c Config) resolver() Resolver {
	if c.Resolver == (Resolver{}) {
		return DefaultResolver
	}
	return c.Resolver
}

func (c Config) completionDelay() time.Duration {
	if c.CompletionDelay == 0 {
		return DefaultCompletionDelay
	}
	return c.CompletionDelay
}

// Snapshot is everything a presentation layer needs to draw the board.
type Snapshot struct {
	Columns        []Column `json:"columns"`
	Labels         []string `json:"labels"`
	Digits         []int    `json:"digits"`
	Total          int      `json:"total"`
	Mode           Mode     `json:"mode"`
	Target         *int     `json:"target,omitempty"`
	Correct        bool     `json:"correct"`
	Interacted     bool     `json:"interacted"`
	Submitted      bool     `json:"submitted"`
	Generation     uint64   `json:"generation"`
	SessionID      string   `json:"session_id"`
	Tutorial       bool     `json:"tutorial"`
	ActiveGestures int      `json:"active_gestures"`
}

// Outputs is the result of one Apply.
type Outputs struct {
	Snapshot   Snapshot    `json:"snapshot"`
	Intent     *Intent     `json:"intent,omitempty"`
	Changed    bool        `json:"changed"`
	Reset      bool        `json:"reset"`
	Completion *Completion `json:"completion,omitempty"`
}

// Engine owns the board, the gesture classifier and the practice session.
// It is a reducer: every input goes through Apply and produces the new
// snapshot plus any side effect the host must carry out.
//
// Callbacks run after the engine lock is released, so they may call back
// into the engine.
type Engine struct {
	mu sync.Mutex

	cfg        Config
	board      Board
	classifier *Classifier
	session    Session
	width      int
	effective  int
	tutorial   bool
}

// effects are collected under the lock and run after it is released.
type effects struct {
	notify     bool
	total      int
	completion *Completion
}

// New validates cfg and returns an engine with an all-rest board.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:        cfg,
		classifier: NewClassifier(cfg.DragThreshold),
		width:      cfg.ViewportWidth,
	}
	e.effective = e.resolveLocked()

	var fx effects
	e.resetLocked(&fx)
	if cfg.Override != nil {
		e.overrideLocked(*cfg.Override, &fx)
	}
	e.runEffects(fx, cfg)
	debug.Log("abacus: new engine columns=%d mode=%s", e.board.Len(), cfg.Mode)
	return e, nil
}

// Apply feeds one event through the engine.
func (e *Engine) Apply(ev Event) (Outputs, error) {
	defer metrics.Timer(metrics.EngineApply)()

	e.mu.Lock()
	var (
		out Outputs
		fx  effects
	)
	err := e.applyLocked(ev, &out, &fx)
	out.Snapshot = e.snapshotLocked()
	cfg := e.cfg
	e.mu.Unlock()

	e.runEffects(fx, cfg)
	if err != nil {
		debug.Log("abacus: %s rejected: %v", EventName(ev), err)
	}
	return out, err
}

func (e *Engine) applyLocked(ev Event, out *Outputs, fx *effects) error {
	switch ev := ev.(type) {
	case PointerDown:
		if e.tutorial {
			return ErrGesturesDisabled
		}
		if err := e.board.checkIndex(ev.Col, ev.Row); err != nil {
			return err
		}
		return e.classifier.Down(ev.Pointer, ev.Col, ev.Row, ev.Y)

	case PointerMove:
		e.classifier.Move(ev.Pointer, ev.Y)
		return nil

	case PointerUp:
		intent, ok := e.classifier.Up(ev.Pointer, ev.Y)
		if !ok {
			return nil
		}
		if intent.Kind == IntentDrag {
			metrics.Drags.Inc()
		} else {
			metrics.Taps.Inc()
		}
		return e.mutateLocked(intent, out, fx)

	case PointerCancel:
		e.classifier.Cancel(ev.Pointer)
		return nil

	case ToggleBead:
		if e.tutorial {
			return ErrGesturesDisabled
		}
		return e.mutateLocked(Intent{Kind: IntentToggle, Col: ev.Col, Row: ev.Row}, out, fx)

	case DragBead:
		if e.tutorial {
			return ErrGesturesDisabled
		}
		return e.mutateLocked(Intent{Kind: IntentDrag, Col: ev.Col, Row: ev.Row, Direction: ev.Direction}, out, fx)

	case Resize:
		e.width = ev.Width
		if n := e.resolveLocked(); n != e.effective {
			e.effective = n
			e.resetLocked(fx)
			out.Reset = true
		}
		return nil

	case Reset:
		e.resetLocked(fx)
		out.Reset = true
		return nil

	case SetTarget:
		if sameTarget(e.cfg.Target, ev.Target) {
			return nil
		}
		if e.cfg.Mode == ModePractice && ev.Target == nil {
			return &ConfigError{Field: "target", Err: ErrMissingTarget}
		}
		e.cfg.Target = copyTarget(ev.Target)
		e.resetLocked(fx)
		out.Reset = true
		return nil

	case SetResetKey:
		if ev.Key == e.cfg.ResetKey {
			return nil
		}
		e.cfg.ResetKey = ev.Key
		e.resetLocked(fx)
		out.Reset = true
		return nil

	case SetMode:
		next := e.cfg
		next.Mode = ev.Mode
		if ev.Target != nil || ev.Mode == ModeFree {
			next.Target = copyTarget(ev.Target)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if next.Mode == e.cfg.Mode && sameTarget(next.Target, e.cfg.Target) {
			return nil
		}
		e.cfg = next
		e.resetLocked(fx)
		out.Reset = true
		return nil

	case SetOverride:
		if ev.Board == nil {
			if !e.tutorial {
				return nil
			}
			e.tutorial = false
			e.cfg.Override = nil
			e.resetLocked(fx)
			out.Reset = true
			return nil
		}
		if _, err := BoardFromColumns(ev.Board.cols); err != nil {
			return err
		}
		e.overrideLocked(*ev.Board, fx)
		return nil

	case Reconfigure:
		return e.reconfigureLocked(ev.Config, out, fx)

	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

func (e *Engine) mutateLocked(intent Intent, out *Outputs, fx *effects) error {
	var (
		next    Board
		changed bool
		err     error
	)
	if intent.Kind == IntentDrag {
		next, changed, err = e.board.Drag(intent.Col, intent.Row, intent.Direction)
	} else {
		next, changed, err = e.board.Toggle(intent.Col, intent.Row)
	}
	out.Intent = &intent
	if err != nil || !changed {
		return err
	}

	e.board = next
	out.Changed = true
	e.session.Interacted = true

	total := e.board.TotalValue()
	fx.notify, fx.total = true, total
	if e.session.evaluate(e.cfg.Mode, e.cfg.Target, total) {
		c := Completion{
			Generation: e.session.Generation,
			SessionID:  e.session.ID,
			Delay:      e.cfg.completionDelay(),
		}
		out.Completion = &c
		fx.completion = &c
		debug.Log("abacus: target %d reached, completion scheduled gen=%d", total, c.Generation)
	}
	return nil
}

func (e *Engine) reconfigureLocked(cfg Config, out *Outputs, fx *effects) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	old := e.cfg
	e.cfg = cfg
	if cfg.DragThreshold != old.DragThreshold {
		e.classifier = NewClassifier(cfg.DragThreshold)
	}
	if cfg.ViewportWidth > 0 {
		e.width = cfg.ViewportWidth
	}

	n := e.resolveLocked()
	needReset := n != e.effective ||
		cfg.Mode != old.Mode ||
		!sameTarget(cfg.Target, old.Target) ||
		cfg.ResetKey != old.ResetKey
	e.effective = n

	if cfg.Override != nil {
		if needReset {
			e.resetLocked(fx)
			out.Reset = true
		}
		e.overrideLocked(*cfg.Override, fx)
		return nil
	}
	if e.tutorial {
		e.tutorial = false
		needReset = true
	}
	if needReset {
		e.resetLocked(fx)
		out.Reset = true
	}
	return nil
}

func (e *Engine) overrideLocked(b Board, fx *effects) {
	mirror, _ := BoardFromColumns(b.cols)
	e.tutorial = true
	e.cfg.Override = &mirror
	e.board = mirror
	e.classifier.Clear()
	fx.notify, fx.total = true, mirror.TotalValue()
}

func (e *Engine) resetLocked(fx *effects) {
	if e.tutorial && e.cfg.Override != nil {
		e.board, _ = BoardFromColumns(e.cfg.Override.cols)
	} else {
		e.board = NewBoard(e.effective)
	}
	e.classifier.Clear()
	e.session.restart()
	fx.notify, fx.total = true, e.board.TotalValue()
	debug.Log("abacus: reset columns=%d gen=%d", e.board.Len(), e.session.Generation)
}

func (e *Engine) resolveLocked() int {
	return e.cfg.resolver().Resolve(e.cfg.Columns, e.cfg.Responsive, e.width)
}

func (e *Engine) runEffects(fx effects, cfg Config) {
	if fx.notify && cfg.OnValueChange != nil {
		cfg.OnValueChange(fx.total)
	}
	if fx.completion != nil && cfg.Scheduler != nil {
		c := *fx.completion
		cfg.Scheduler.Schedule(c.Delay, func() { e.Fire(c) })
	}
}

// Fire delivers a completion. It runs OnCorrect and returns true only when
// c belongs to the current session and has not been delivered yet; stale
// completions from a session that has since been reset are dropped.
func (e *Engine) Fire(c Completion) bool {
	e.mu.Lock()
	s := &e.session
	if c.Generation != s.Generation || (c.SessionID != "" && c.SessionID != s.ID) || !s.Submitted || s.delivered {
		current := s.Generation
		e.mu.Unlock()
		metrics.StaleCompletions.Inc()
		debug.Log("abacus: dropping completion gen=%d (current gen=%d)", c.Generation, current)
		return false
	}
	s.delivered = true
	cb := e.cfg.OnCorrect
	e.mu.Unlock()

	metrics.Completions.Inc()
	if cb != nil {
		cb()
	}
	return true
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Columns:        e.board.Columns(),
		Labels:         ColumnLabels(e.board.Len()),
		Digits:         e.board.Digits(),
		Total:          e.board.TotalValue(),
		Mode:           e.cfg.Mode,
		Target:         copyTarget(e.cfg.Target),
		Correct:        e.session.Correct,
		Interacted:     e.session.Interacted,
		Submitted:      e.session.Submitted,
		Generation:     e.session.Generation,
		SessionID:      e.session.ID,
		Tutorial:       e.tutorial,
		ActiveGestures: e.classifier.Active(),
	}
}

// Board returns the current board.
func (e *Engine) Board() Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// Session returns the current interaction session.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Config returns the active configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// EffectiveColumns returns the column count chosen by the resolver.
func (e *Engine) EffectiveColumns() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.effective
}

// Hint returns guidance toward the target, the free-play hint when there is
// no target, or "" once the board shows the target.
func (e *Engine) Hint() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cfg.Target == nil {
		return FreePlayHint
	}
	return NextHint(e.board, *e.cfg.Target)
}

// IsConfigError reports whether err was produced by configuration
// validation.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func sameTarget(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyTarget(t *int) *int {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// IntPtr returns a pointer to v, for building targets.
func IntPtr(v int) *int { return &v }
