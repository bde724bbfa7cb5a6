package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/soroban/pkg/abacus"
)

// AssertContiguous fails if any column of b breaks the bead ordering rule.
func AssertContiguous(t *testing.T, b abacus.Board) {
	t.Helper()
	for i, c := range b.Columns() {
		if !c.Contiguous() {
			t.Errorf("column %d is not contiguous: %v", i, c)
		}
	}
}

// AssertSnapshotConsistent checks that the digits and total of snap agree
// with its bead states.
func AssertSnapshotConsistent(t *testing.T, snap abacus.Snapshot) {
	t.Helper()

	if len(snap.Digits) != len(snap.Columns) || len(snap.Labels) != len(snap.Columns) {
		t.Fatalf("snapshot lengths differ: columns=%d digits=%d labels=%d",
			len(snap.Columns), len(snap.Digits), len(snap.Labels))
	}
	total := 0
	for i, c := range snap.Columns {
		if !c.Contiguous() {
			t.Errorf("column %d is not contiguous: %v", i, c)
		}
		if c.Value() != snap.Digits[i] {
			t.Errorf("column %d: digit %d, beads say %d", i, snap.Digits[i], c.Value())
		}
		total = total*10 + c.Value()
	}
	if total != snap.Total {
		t.Errorf("total = %d, digits say %d", snap.Total, total)
	}
	if snap.Correct && (snap.Target == nil || !snap.Submitted) {
		t.Errorf("correct flag set without a submitted target: %+v", snap)
	}
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// WriteScript writes script as YAML under dir and returns the path.
func WriteScript(t *testing.T, dir, name string, script []ScriptEntry) string {
	t.Helper()

	data, err := ToYAML(script)
	if err != nil {
		t.Fatalf("failed to encode script: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}
