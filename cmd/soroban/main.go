package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/soroban/pkg/abacus"
	_ "github.com/vanderheijden86/soroban/pkg/agents"
	"github.com/vanderheijden86/soroban/pkg/config"
	"github.com/vanderheijden86/soroban/pkg/debug"
	"github.com/vanderheijden86/soroban/pkg/export"
	"github.com/vanderheijden86/soroban/pkg/metrics"
	"github.com/vanderheijden86/soroban/pkg/ui"
	"github.com/vanderheijden86/soroban/pkg/version"
	"github.com/vanderheijden86/soroban/pkg/watcher"
)

// cliOptions are the flags that override the config file.
type cliOptions struct {
	configPath   string
	columns      int
	noResponsive bool
	practice     string
	randomTarget bool
}

// RobotSnapshot is the JSON printed by --robot-snapshot.
type RobotSnapshot struct {
	Version          string          `json:"version"`
	Snapshot         abacus.Snapshot `json:"snapshot"`
	Hint             string          `json:"hint"`
	EffectiveColumns int             `json:"effective_columns"`
}

func main() {
	os.Exit(run())
}

// run holds the body of main so deferred cleanup, such as stopping the CPU
// profile, happens before the process exits.
func run() int {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/soroban/config.yaml)")
	flag.IntVar(&opts.columns, "columns", 0, "Number of columns, 1-9")
	flag.BoolVar(&opts.noResponsive, "no-responsive", false, "Keep every column on narrow terminals")
	flag.StringVar(&opts.practice, "practice", "", "Start practice mode with this target number")
	flag.BoolVar(&opts.randomTarget, "random", false, "Pick a new random target after each correct answer")
	tutorial := flag.Bool("tutorial", false, "Open the tutorial on start")
	setup := flag.Bool("setup", false, "Edit the config file interactively")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	robotSnapshot := flag.Bool("robot-snapshot", false, "Print the board snapshot as JSON and exit")
	robotReplay := flag.String("robot-replay", "", "Apply a YAML/JSON event script and print the results as JSON")
	robotMetrics := flag.Bool("robot-metrics", false, "Print timing metrics as JSON after a robot run")
	width := flag.Int("width", 0, "Viewport width for robot runs, in cells")
	exportPaths := flag.String("export", "", "Write the board to .svg/.png/.json files (comma separated)")
	exportTitle := flag.String("export-title", "", "Title drawn on exported images")
	flag.Parse()

	if *cpuProfile != "" {
		stop, err := startCPUProfile(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer stop()
	}

	if *help {
		fmt.Println("Usage: soroban [options]")
		fmt.Println("\nA Japanese abacus in the terminal.")
		flag.PrintDefaults()
		return 0
	}

	if *versionFlag {
		fmt.Printf("soroban %s\n", version.Version)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if *setup {
		if err := runSetup(cfg, configPath(opts)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	robot := *robotSnapshot || *robotReplay != "" || *robotMetrics || *exportPaths != ""
	if robot {
		if err := runRobot(os.Stdout, cfg, robotOptions{
			snapshot: *robotSnapshot,
			replay:   *robotReplay,
			metrics:  *robotMetrics,
			width:    *width,
			export:   splitPaths(*exportPaths),
			title:    *exportTitle,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: soroban needs a terminal; use --robot-snapshot or --robot-replay for scripted output")
		return 1
	}

	uiOpts := ui.Options{Tutorial: *tutorial}
	if dir := config.StateDir(); dir != "" {
		uiOpts.ExportDir = filepath.Join(dir, "exports")
	}
	m, err := ui.NewModel(cfg, uiOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := runTUIProgram(m, opts); err != nil {
		fmt.Printf("Error running soroban: %v\n", err)
		return 1
	}
	return 0
}

// startCPUProfile begins profiling into path. The returned func stops the
// profile and closes the file.
func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

// openDebugLog moves debug output into dir/debug.log while the TUI owns the
// terminal.
func openDebugLog(dir string) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	debug.SetOutput(f)
	return f, nil
}

func configPath(opts cliOptions) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.ConfigPath()
}

// loadConfig layers the config file, SOROBAN_* variables and flags, in that
// order.
func loadConfig(opts cliOptions) (config.Config, error) {
	cfg := config.DefaultConfig()
	if path := configPath(opts); path != "" {
		loaded, err := config.LoadFrom(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := applyFlags(&cfg, opts); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyFlags(cfg *config.Config, opts cliOptions) error {
	if opts.columns != 0 {
		if opts.columns < abacus.MinColumns || opts.columns > abacus.MaxColumns {
			return fmt.Errorf("--columns must be between %d and %d", abacus.MinColumns, abacus.MaxColumns)
		}
		cfg.Board.Columns = opts.columns
	}
	if opts.noResponsive {
		off := false
		cfg.Board.Responsive = &off
	}
	if s := strings.TrimSpace(opts.practice); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("--practice %q is not a number", s)
		}
		cfg.Practice.Mode = abacus.ModePractice.String()
		cfg.Practice.Target = &n
	}
	if opts.randomTarget {
		cfg.Practice.RandomTargets = true
	}
	return nil
}

func splitPaths(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func runSetup(cfg config.Config, path string) error {
	if path == "" {
		return errors.New("cannot determine config path; pass --config")
	}
	updated, err := ui.RunSetup(cfg)
	if err != nil {
		return err
	}
	if err := config.SaveTo(updated, path); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

type robotOptions struct {
	snapshot bool
	replay   string
	metrics  bool
	width    int
	export   []string
	title    string
}

// runRobot drives the engine without a terminal and writes JSON to w.
func runRobot(w io.Writer, cfg config.Config, ro robotOptions) error {
	ec, err := cfg.EngineConfig()
	if err != nil {
		return err
	}
	ec.ViewportWidth = ro.width
	engine, err := abacus.New(ec)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if ro.replay != "" {
		script, err := LoadScript(ro.replay)
		if err != nil {
			return err
		}
		if err := enc.Encode(Replay(engine, script)); err != nil {
			return err
		}
	}

	if ro.snapshot {
		if err := enc.Encode(RobotSnapshot{
			Version:          version.Version,
			Snapshot:         engine.Snapshot(),
			Hint:             engine.Hint(),
			EffectiveColumns: engine.EffectiveColumns(),
		}); err != nil {
			return err
		}
	}

	if len(ro.export) > 0 {
		if err := export.SaveSnapshots(context.Background(), engine.Snapshot(), ro.title, ro.export); err != nil {
			return err
		}
	}

	if ro.metrics {
		if err := enc.Encode(metrics.Snapshot()); err != nil {
			return err
		}
	}
	return nil
}

func runTUIProgram(m ui.Model, opts cliOptions) error {
	if dir := config.StateDir(); debug.Enabled() && dir != "" {
		if f, err := openDebugLog(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
			debug.SetOutput(io.Discard)
		} else {
			defer f.Close()
		}
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Reload the config file while running. Flags still win over the file.
	if path := configPath(opts); path != "" {
		reloader, err := watcher.NewConfigReloader(path, true, func(cfg config.Config, err error) {
			p.Send(ui.ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			debug.Log("config reload disabled: %v", err)
		} else {
			reloader.SetOverride(func(cfg *config.Config) error { return applyFlags(cfg, opts) })
			if err := reloader.Start(); err != nil {
				debug.Log("config reload disabled: %v", err)
			} else {
				defer reloader.Stop()
			}
		}
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set SOROBAN_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("SOROBAN_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
