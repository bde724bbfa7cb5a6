package abacus

import "testing"

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		responsive bool
		width      int
		want       int
	}{
		{"wide keeps configured", 9, true, 1280, 9},
		{"narrow caps to compact", 9, true, 390, 7},
		{"narrow keeps smaller configured", 5, true, 390, 5},
		{"breakpoint is exclusive", 9, true, 640, 9},
		{"unknown width", 9, true, 0, 9},
		{"not responsive", 9, false, 100, 9},
		{"clamped high", 15, false, 0, 9},
		{"clamped low", -2, true, 300, 1},
	}
	for _, tt := range tests {
		if got := DefaultResolver.Resolve(tt.configured, tt.responsive, tt.width); got != tt.want {
			t.Errorf("%s: Resolve(%d,%v,%d) = %d, want %d", tt.name, tt.configured, tt.responsive, tt.width, got, tt.want)
		}
	}
}

func TestResolver_CustomBreakpoint(t *testing.T) {
	r := Resolver{Breakpoint: 60, CompactColumns: 4}
	if got := r.Resolve(9, true, 59); got != 4 {
		t.Errorf("Resolve below custom breakpoint = %d, want 4", got)
	}
	if got := (Resolver{}).Resolve(9, true, 10); got != 9 {
		t.Errorf("zero resolver should never substitute, got %d", got)
	}
}
