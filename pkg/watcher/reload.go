package watcher

import (
	"github.com/vanderheijden86/soroban/pkg/config"
	"github.com/vanderheijden86/soroban/pkg/debug"
)

// ConfigReloader re-reads a config file whenever it changes and hands the
// result to a callback. Parse and validation errors are delivered too so the
// caller can keep its current settings and surface the problem.
type ConfigReloader struct {
	watcher  *Watcher
	onReload func(config.Config, error)
	applyEnv bool
	override func(*config.Config) error
}

// NewConfigReloader watches path. When applyEnv is set the SOROBAN_*
// environment overrides are layered on top of every reload, matching startup.
func NewConfigReloader(path string, applyEnv bool, onReload func(config.Config, error), opts ...WatcherOption) (*ConfigReloader, error) {
	r := &ConfigReloader{onReload: onReload, applyEnv: applyEnv}
	opts = append(opts,
		WithOnChange(r.reload),
		WithOnError(func(err error) {
			debug.Log("config watcher: %v", err)
		}),
	)
	w, err := NewWatcher(config.ExpandHome(path), opts...)
	if err != nil {
		return nil, err
	}
	r.watcher = w
	return r, nil
}

// Start begins watching.
func (r *ConfigReloader) Start() error { return r.watcher.Start() }

// Stop stops watching.
func (r *ConfigReloader) Stop() { r.watcher.Stop() }

// SetOverride installs fn to run on every reloaded config after the
// environment layer and before validation. Call it before Start.
func (r *ConfigReloader) SetOverride(fn func(*config.Config) error) { r.override = fn }

// Watcher exposes the underlying file watcher.
func (r *ConfigReloader) Watcher() *Watcher { return r.watcher }

func (r *ConfigReloader) reload() {
	cfg, err := config.LoadFrom(r.watcher.Path())
	if err == nil && r.applyEnv {
		if envErr := cfg.ApplyEnv(); envErr != nil {
			debug.Log("config reload: ignoring bad environment override: %v", envErr)
		}
	}
	if err == nil && r.override != nil {
		err = r.override(&cfg)
	}
	if err == nil {
		err = cfg.Validate()
	}
	debug.Log("config reload from %s: err=%v", r.watcher.Path(), err)
	r.onReload(cfg, err)
}
