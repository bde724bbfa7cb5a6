package ui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/soroban/pkg/abacus"
	"github.com/vanderheijden86/soroban/pkg/config"
)

// SetupAnswers holds the raw values collected by the setup form.
type SetupAnswers struct {
	Mode       string
	Columns    string
	Target     string
	Responsive bool
	ShowHints  bool
	Random     bool
	Theme      string
}

// AnswersFromConfig pre-fills the form from cfg.
func AnswersFromConfig(cfg config.Config) SetupAnswers {
	a := SetupAnswers{
		Mode:       cfg.Practice.Mode,
		Columns:    strconv.Itoa(abacus.ClampColumns(cfg.Board.Columns)),
		Responsive: cfg.IsResponsive(),
		ShowHints:  cfg.HintsEnabled(),
		Random:     cfg.Practice.RandomTargets,
		Theme:      cfg.UI.Theme,
	}
	if a.Mode == "" {
		a.Mode = abacus.ModeFree.String()
	}
	if a.Theme == "" {
		a.Theme = "auto"
	}
	if cfg.Practice.Target != nil {
		a.Target = strconv.Itoa(*cfg.Practice.Target)
	}
	return a
}

// Apply writes the answers into a copy of cfg and validates the result.
func (a SetupAnswers) Apply(cfg config.Config) (config.Config, error) {
	cols, err := validateColumns(a.Columns)
	if err != nil {
		return cfg, err
	}
	cfg.Board.Columns = cols
	responsive := a.Responsive
	cfg.Board.Responsive = &responsive

	cfg.Practice.Mode = a.Mode
	cfg.Practice.RandomTargets = a.Random
	cfg.Practice.Target = nil
	if s := strings.TrimSpace(a.Target); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return cfg, fmt.Errorf("target %q is not a number", s)
		}
		cfg.Practice.Target = &n
	}

	hints := a.ShowHints
	cfg.UI.ShowHints = &hints
	cfg.UI.Theme = a.Theme

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateColumns(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("columns must be a number")
	}
	if n < abacus.MinColumns || n > abacus.MaxColumns {
		return 0, fmt.Errorf("columns must be between %d and %d", abacus.MinColumns, abacus.MaxColumns)
	}
	return n, nil
}

func validateTarget(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.Atoi(s); err != nil {
		return errors.New("target must be a whole number")
	}
	return nil
}

// isTerminal returns true if stdin is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a huh form, falling back to accessible mode without a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunSetup asks for the board and practice settings and returns the
// updated config. The caller saves it.
func RunSetup(cfg config.Config) (config.Config, error) {
	a := AnswersFromConfig(cfg)

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Columns").
				Description("Place values on the board (1-9)").
				Value(&a.Columns).
				Validate(func(s string) error {
					_, err := validateColumns(s)
					return err
				}),
			huh.NewConfirm().
				Title("Use fewer columns in narrow terminals?").
				Value(&a.Responsive),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Mode").
				Options(
					huh.NewOption("Free play", abacus.ModeFree.String()),
					huh.NewOption("Practice a target number", abacus.ModePractice.String()),
				).
				Value(&a.Mode),
			huh.NewInput().
				Title("Target number").
				Description("Required for practice mode").
				Value(&a.Target).
				Validate(validateTarget),
			huh.NewConfirm().
				Title("Pick a new random target after each correct answer?").
				Value(&a.Random),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show hints?").
				Value(&a.ShowHints),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Follow terminal", "auto"),
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&a.Theme),
		),
	)

	if err := form.Run(); err != nil {
		return cfg, fmt.Errorf("setup: %w", err)
	}
	return a.Apply(cfg)
}
