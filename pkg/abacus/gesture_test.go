package abacus

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"pgregory.net/rapid"
)

func TestClassifier_TapWithoutMovement(t *testing.T) {
	c := NewClassifier(0)
	if err := c.Down(1, 2, 3, 100); err != nil {
		t.Fatal(err)
	}
	intent, ok := c.Up(1, 100)
	if !ok {
		t.Fatal("expected a classified gesture")
	}
	if intent.Kind != IntentToggle || intent.Col != 2 || intent.Row != 3 {
		t.Errorf("got %v, want toggle(2,3)", intent)
	}
	if c.Active() != 0 {
		t.Errorf("gesture should be released, active=%d", c.Active())
	}
}

func TestClassifier_DragDirections(t *testing.T) {
	tests := []struct {
		name  string
		endY  float64
		want  Direction
		moveY float64
	}{
		{"down", 130, Down, 120},
		{"up", 70, Up, 80},
	}
	for _, tt := range tests {
		c := NewClassifier(DragThreshold)
		_ = c.Down(7, 0, 0, 100)
		c.Move(7, tt.moveY)
		intent, _ := c.Up(7, tt.endY)
		if intent.Kind != IntentDrag || intent.Direction != tt.want {
			t.Errorf("%s: got %v, want drag %s", tt.name, intent, tt.want)
		}
	}
}

func TestClassifier_ThresholdBoundaryIsTap(t *testing.T) {
	c := NewClassifier(DragThreshold)
	_ = c.Down(1, 0, 1, 0)
	c.Move(1, 15) // exactly the threshold does not count as moved
	intent, _ := c.Up(1, 15)
	if intent.Kind != IntentToggle {
		t.Errorf("|dy| == threshold should be a tap, got %v", intent)
	}
}

func TestClassifier_BigDeltaWithoutMoveIsTap(t *testing.T) {
	c := NewClassifier(DragThreshold)
	_ = c.Down(1, 0, 1, 0)
	intent, _ := c.Up(1, 40)
	if intent.Kind != IntentToggle {
		t.Errorf("release far away without a move event should be a tap, got %v", intent)
	}
}

func TestClassifier_MovedIsSticky(t *testing.T) {
	c := NewClassifier(DragThreshold)
	_ = c.Down(1, 0, 1, 0)
	c.Move(1, -30)
	c.Move(1, -2) // back near origin does not clear moved
	intent, _ := c.Up(1, -20)
	if intent.Kind != IntentDrag || intent.Direction != Up {
		t.Errorf("got %v, want drag up", intent)
	}

	_ = c.Down(1, 0, 1, 0)
	c.Move(1, 40)
	intent, _ = c.Up(1, 3) // moved, but released inside the threshold
	if intent.Kind != IntentToggle {
		t.Errorf("release inside threshold should be a tap, got %v", intent)
	}
}

func TestClassifier_PointersAreIndependent(t *testing.T) {
	c := NewClassifier(0)
	if err := c.Down(1, 0, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Down(2, 4, 2, 50); err != nil {
		t.Fatalf("second pointer should track independently: %v", err)
	}
	if c.Active() != 2 {
		t.Fatalf("Active() = %d, want 2", c.Active())
	}

	c.Move(2, 90)
	first, _ := c.Up(1, 0)
	second, _ := c.Up(2, 90)

	if first.Kind != IntentToggle || first.Col != 0 {
		t.Errorf("pointer 1: got %v, want toggle(0,0)", first)
	}
	if second.Kind != IntentDrag || second.Col != 4 || second.Direction != Down {
		t.Errorf("pointer 2: got %v, want drag(4,2,down)", second)
	}
}

func TestClassifier_SamePointerDownTwiceIsRejected(t *testing.T) {
	c := NewClassifier(0)
	_ = c.Down(3, 0, 0, 0)
	if err := c.Down(3, 1, 1, 0); !errors.Is(err, ErrPointerActive) {
		t.Errorf("err = %v, want ErrPointerActive", err)
	}
	intent, _ := c.Up(3, 0)
	if intent.Col != 0 {
		t.Errorf("original gesture should survive the rejected down, got %v", intent)
	}
}

func TestClassifier_CancelAndUnknownPointers(t *testing.T) {
	c := NewClassifier(0)
	_ = c.Down(1, 0, 0, 0)
	if !c.Cancel(1) {
		t.Error("Cancel should report a tracked pointer")
	}
	if _, ok := c.Up(1, 0); ok {
		t.Error("Up after Cancel should not emit")
	}
	if c.Move(9, 10) {
		t.Error("Move for unknown pointer should report false")
	}
	if c.Cancel(9) {
		t.Error("Cancel for unknown pointer should report false")
	}

	_ = c.Down(1, 0, 0, 0)
	_ = c.Down(2, 0, 0, 0)
	c.Clear()
	if c.Active() != 0 || c.Tracking(1) {
		t.Error("Clear should drop every gesture")
	}
}

// A release within the threshold with no qualifying move is always a tap;
// a release beyond it after a qualifying move is always a drag whose
// direction matches the sign of the travel.
func TestClassifier_DisambiguationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := NewClassifier(DragThreshold)
		origin := rapid.Float64Range(-500, 500).Draw(t, "origin")
		col := rapid.IntRange(0, 8).Draw(t, "col")
		row := rapid.IntRange(0, 4).Draw(t, "row")
		_ = c.Down(1, col, row, origin)

		if rapid.Bool().Draw(t, "tap") {
			for i, n := 0, rapid.IntRange(0, 5).Draw(t, "moves"); i < n; i++ {
				c.Move(1, origin+rapid.Float64Range(-DragThreshold, DragThreshold).Draw(t, "small"))
			}
			delta := rapid.Float64Range(-DragThreshold, DragThreshold).Draw(t, "delta")
			intent, _ := c.Up(1, origin+delta)
			if intent.Kind != IntentToggle {
				t.Fatalf("delta %.2f: got %v, want toggle", delta, intent)
			}
			return
		}

		mag := rapid.Float64Range(DragThreshold+0.01, 400).Draw(t, "magnitude")
		sign := rapid.SampledFrom([]float64{-1, 1}).Draw(t, "sign")
		c.Move(1, origin+sign*mag)
		intent, _ := c.Up(1, origin+sign*mag)
		want := Down
		if sign < 0 {
			want = Up
		}
		if intent.Kind != IntentDrag || intent.Direction != want || intent.Col != col || intent.Row != row {
			t.Fatalf("got %v, want drag(%d,%d,%s)", intent, col, row, want)
		}
	})
}

func TestIntent_JSONRoundTrip(t *testing.T) {
	intents := []Intent{
		{Kind: IntentToggle, Col: 2, Row: 0},
		{Kind: IntentDrag, Col: 1, Row: 3, Direction: Up},
		{Kind: IntentDrag, Col: 0, Row: 0, Direction: Down},
	}
	data, err := json.Marshal(intents)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"kind":"toggle"`, `"kind":"drag"`, `"direction":"none"`, `"direction":"up"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded intents missing %s: %s", want, data)
		}
	}

	var back []Intent
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back) != len(intents) {
		t.Fatalf("decoded %d intents, want %d", len(back), len(intents))
	}
	for i := range intents {
		if back[i] != intents[i] {
			t.Errorf("intent %d = %+v, want %+v", i, back[i], intents[i])
		}
	}
}

func TestParseIntentKind(t *testing.T) {
	tests := []struct {
		in   string
		want IntentKind
	}{
		{"toggle", IntentToggle},
		{" Drag ", IntentDrag},
		{"none", IntentNone},
		{"", IntentNone},
	}
	for _, tt := range tests {
		if got, err := ParseIntentKind(tt.in); err != nil || got != tt.want {
			t.Errorf("ParseIntentKind(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseIntentKind("swipe"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
