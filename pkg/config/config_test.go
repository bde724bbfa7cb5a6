package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vanderheijden86/soroban/pkg/abacus"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Board.Columns != 9 {
		t.Errorf("expected 9 columns, got %d", cfg.Board.Columns)
	}
	if !cfg.IsResponsive() {
		t.Error("expected responsive by default")
	}
	if cfg.Practice.Mode != "free" {
		t.Errorf("expected mode 'free', got %q", cfg.Practice.Mode)
	}
	if cfg.Practice.CompletionDelayMs != 500 {
		t.Errorf("expected completion delay 500, got %d", cfg.Practice.CompletionDelayMs)
	}
	if !cfg.HintsEnabled() {
		t.Error("expected hints enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Board.Columns != 9 {
		t.Errorf("expected default config, got %d columns", cfg.Board.Columns)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
board:
  columns: 5
  responsive: false
  drag_threshold: 20

practice:
  mode: practice
  target: 1234
  completion_delay_ms: 250

ui:
  show_hints: false
  theme: dark
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Board.Columns != 5 {
		t.Errorf("expected 5 columns, got %d", cfg.Board.Columns)
	}
	if cfg.IsResponsive() {
		t.Error("expected responsive false")
	}
	if cfg.Board.DragThreshold != 20 {
		t.Errorf("expected drag threshold 20, got %f", cfg.Board.DragThreshold)
	}
	// Unset keys keep their defaults
	if cfg.Board.CompactColumns != 7 {
		t.Errorf("expected compact_columns default 7, got %d", cfg.Board.CompactColumns)
	}
	if cfg.Practice.Target == nil || *cfg.Practice.Target != 1234 {
		t.Errorf("expected target 1234, got %v", cfg.Practice.Target)
	}
	if cfg.HintsEnabled() {
		t.Error("expected hints disabled")
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected theme 'dark', got %q", cfg.UI.Theme)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFrom_PracticeWithoutTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("practice:\n  mode: practice\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom should leave validation to the caller: %v", err)
	}
	if err := cfg.Validate(); !errors.Is(err, abacus.ErrMissingTarget) {
		t.Errorf("expected ErrMissingTarget, got %v", err)
	}

	t.Setenv("SOROBAN_TARGET", "64")
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("env target should complete the config: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown mode", func(c *Config) { c.Practice.Mode = "exam" }, true},
		{"practice with zero target", func(c *Config) {
			c.Practice.Mode = "practice"
			c.Practice.Target = new(int)
		}, false},
		{"negative delay", func(c *Config) { c.Practice.CompletionDelayMs = -1 }, true},
		{"negative threshold", func(c *Config) { c.Board.DragThreshold = -5 }, true},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }, true},
		{"light theme", func(c *Config) { c.UI.Theme = "Light" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Board.Columns = 4
	cfg.Practice.Mode = "practice"
	target := 321
	cfg.Practice.Target = &target
	cfg.UI.Compact = true

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if loaded.Board.Columns != 4 {
		t.Errorf("expected 4 columns, got %d", loaded.Board.Columns)
	}
	if loaded.Practice.Mode != "practice" {
		t.Errorf("expected 'practice', got %q", loaded.Practice.Mode)
	}
	if loaded.Practice.Target == nil || *loaded.Practice.Target != 321 {
		t.Errorf("expected target 321, got %v", loaded.Practice.Target)
	}
	if !loaded.UI.Compact {
		t.Error("expected compact true")
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Board.Columns = 12
	cfg.Practice.Mode = "practice"
	target := 42
	cfg.Practice.Target = &target
	cfg.Practice.CompletionDelayMs = 100

	ec, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("EngineConfig: %v", err)
	}
	if ec.Columns != 9 {
		t.Errorf("expected columns clamped to 9, got %d", ec.Columns)
	}
	if ec.Mode != abacus.ModePractice {
		t.Errorf("expected practice mode, got %v", ec.Mode)
	}
	if ec.Target == nil || *ec.Target != 42 {
		t.Errorf("expected target 42, got %v", ec.Target)
	}
	// The engine config must not alias the file config
	*cfg.Practice.Target = 7
	if *ec.Target != 42 {
		t.Error("engine target aliases config target")
	}
	if ec.CompletionDelay != 100*time.Millisecond {
		t.Errorf("expected 100ms delay, got %v", ec.CompletionDelay)
	}
	if ec.Resolver.Breakpoint != DefaultBreakpoint || ec.Resolver.CompactColumns != 7 {
		t.Errorf("unexpected resolver %+v", ec.Resolver)
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("engine config should validate: %v", err)
	}
}

func TestEngineConfig_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Practice.Mode = "practice"
	if _, err := cfg.EngineConfig(); !errors.Is(err, abacus.ErrMissingTarget) {
		t.Errorf("expected ErrMissingTarget, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SOROBAN_COLUMNS", "3")
	t.Setenv("SOROBAN_MODE", "practice")
	t.Setenv("SOROBAN_TARGET", "205")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Board.Columns != 3 {
		t.Errorf("expected 3 columns, got %d", cfg.Board.Columns)
	}
	if cfg.Practice.Mode != "practice" {
		t.Errorf("expected practice mode, got %q", cfg.Practice.Mode)
	}
	if cfg.Practice.Target == nil || *cfg.Practice.Target != 205 {
		t.Errorf("expected target 205, got %v", cfg.Practice.Target)
	}
}

func TestApplyEnv_BadNumber(t *testing.T) {
	t.Setenv("SOROBAN_COLUMNS", "lots")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric SOROBAN_COLUMNS")
	}
	if cfg.Board.Columns != 9 {
		t.Errorf("bad env value should leave columns alone, got %d", cfg.Board.Columns)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := ExpandHome(tt.input)
		if got != tt.expected {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "soroban")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
	if ConfigPath() != filepath.Join(expected, "config.yaml") {
		t.Errorf("unexpected config path %q", ConfigPath())
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	got := StateDir()
	expected := filepath.Join(dir, "soroban")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
