// Package config handles loading and saving soroban configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/soroban/config.yaml
//   - State:   ~/.local/state/soroban/ (debug logs)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/soroban/pkg/abacus"
	"github.com/vanderheijden86/soroban/pkg/metrics"
)

// BoardConfig holds board geometry settings.
type BoardConfig struct {
	Columns        int     `yaml:"columns,omitempty"`         // 1-9
	Responsive     *bool   `yaml:"responsive,omitempty"`      // Default true
	Breakpoint     int     `yaml:"breakpoint,omitempty"`      // Terminal cells below which compact_columns applies
	CompactColumns int     `yaml:"compact_columns,omitempty"` // Column cap on narrow terminals
	DragThreshold  float64 `yaml:"drag_threshold,omitempty"`  // Pixels of travel before a drag
}

// PracticeConfig holds practice-mode settings.
type PracticeConfig struct {
	Mode              string `yaml:"mode,omitempty"`   // free, practice
	Target            *int   `yaml:"target,omitempty"` // Required in practice mode
	CompletionDelayMs int    `yaml:"completion_delay_ms,omitempty"`
	RandomTargets     bool   `yaml:"random_targets,omitempty"` // New exercise picks a random target
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowHints *bool  `yaml:"show_hints,omitempty"`
	Compact   bool   `yaml:"compact,omitempty"`
	Theme     string `yaml:"theme,omitempty"` // auto, dark, light
}

// Config is the top-level configuration for soroban.
type Config struct {
	Board    BoardConfig    `yaml:"board,omitempty"`
	Practice PracticeConfig `yaml:"practice,omitempty"`
	UI       UIConfig       `yaml:"ui,omitempty"`
}

// Terminal cells are roughly 8 px wide, so the 640 px phone breakpoint
// maps to 80 cells.
const DefaultBreakpoint = 80

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			Columns:        abacus.DefaultColumns,
			Responsive:     boolPtr(true),
			Breakpoint:     DefaultBreakpoint,
			CompactColumns: abacus.DefaultResolver.CompactColumns,
			DragThreshold:  abacus.DragThreshold,
		},
		Practice: PracticeConfig{
			Mode:              abacus.ModeFree.String(),
			CompletionDelayMs: int(abacus.DefaultCompletionDelay / time.Millisecond),
		},
		UI: UIConfig{
			ShowHints: boolPtr(true),
			Theme:     "auto",
		},
	}
}

// ConfigDir returns the XDG config directory for soroban.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "soroban")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "soroban")
}

// StateDir returns the XDG state directory for soroban.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "soroban")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "soroban")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist. The result is not
// validated: environment and flag overrides may still complete it, so
// callers run Validate after layering.
func LoadFrom(path string) (Config, error) {
	defer metrics.Timer(metrics.ConfigLoad)()
	cfg := DefaultConfig()

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	path = ExpandHome(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ApplyEnv overlays SOROBAN_COLUMNS, SOROBAN_MODE and SOROBAN_TARGET.
// Invalid values are reported and leave the setting unchanged.
func (c *Config) ApplyEnv() error {
	var errs []error
	if v := strings.TrimSpace(os.Getenv("SOROBAN_COLUMNS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SOROBAN_COLUMNS: %w", err))
		} else {
			c.Board.Columns = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SOROBAN_MODE")); v != "" {
		c.Practice.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv("SOROBAN_TARGET")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SOROBAN_TARGET: %w", err))
		} else {
			c.Practice.Target = &n
		}
	}
	return errors.Join(errs...)
}

// Validate checks the settings that cannot be clamped into range.
func (c Config) Validate() error {
	mode, err := abacus.ParseMode(c.Practice.Mode)
	if err != nil {
		return fmt.Errorf("practice.mode: %w", err)
	}
	if mode == abacus.ModePractice && c.Practice.Target == nil {
		return fmt.Errorf("practice.target: %w", abacus.ErrMissingTarget)
	}
	if c.Practice.CompletionDelayMs < 0 {
		return fmt.Errorf("practice.completion_delay_ms: must not be negative")
	}
	if c.Board.DragThreshold < 0 {
		return fmt.Errorf("board.drag_threshold: must not be negative")
	}
	switch strings.ToLower(c.UI.Theme) {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.theme: unknown theme %q", c.UI.Theme)
	}
	return nil
}

// IsResponsive reports whether the column-count resolver is enabled.
func (c Config) IsResponsive() bool {
	return c.Board.Responsive == nil || *c.Board.Responsive
}

// HintsEnabled reports whether the hint line is shown.
func (c Config) HintsEnabled() bool {
	return c.UI.ShowHints == nil || *c.UI.ShowHints
}

// EngineConfig converts the file settings into an engine configuration.
// Callbacks and scheduler are left for the host to fill in.
func (c Config) EngineConfig() (abacus.Config, error) {
	if err := c.Validate(); err != nil {
		return abacus.Config{}, err
	}
	mode, _ := abacus.ParseMode(c.Practice.Mode)

	ec := abacus.DefaultConfig()
	ec.Columns = abacus.ClampColumns(c.Board.Columns)
	ec.Responsive = c.IsResponsive()
	ec.Resolver = abacus.Resolver{
		Breakpoint:     c.Board.Breakpoint,
		CompactColumns: c.Board.CompactColumns,
	}
	if ec.Resolver.Breakpoint == 0 {
		ec.Resolver.Breakpoint = DefaultBreakpoint
	}
	if ec.Resolver.CompactColumns == 0 {
		ec.Resolver.CompactColumns = abacus.DefaultResolver.CompactColumns
	}
	ec.DragThreshold = c.Board.DragThreshold
	ec.Mode = mode
	if c.Practice.Target != nil {
		ec.Target = abacus.IntPtr(*c.Practice.Target)
	}
	if c.Practice.CompletionDelayMs > 0 {
		ec.CompletionDelay = time.Duration(c.Practice.CompletionDelayMs) * time.Millisecond
	}
	return ec, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func boolPtr(b bool) *bool { return &b }
