package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns hex on TrueColor terminals and NoColor otherwise, so
// 16/256-color terminals keep their own background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns hex on ANSI256+ terminals and ANSI white below that.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme carries the pre-built styles used by the board view.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor
	Frame   lipgloss.AdaptiveColor
	Rod     lipgloss.AdaptiveColor
	Heaven  lipgloss.AdaptiveColor
	Earth   lipgloss.AdaptiveColor
	Resting lipgloss.AdaptiveColor
	Correct lipgloss.AdaptiveColor
	Wrong   lipgloss.AdaptiveColor
	Accent  lipgloss.AdaptiveColor

	Base       lipgloss.Style
	Title      lipgloss.Style
	FrameStyle lipgloss.Style
	RodStyle   lipgloss.Style
	HeavenOn   lipgloss.Style
	EarthOn    lipgloss.Style
	BeadOff    lipgloss.Style
	Cursor     lipgloss.Style
	Highlight  lipgloss.Style
	Label      lipgloss.Style
	Digit      lipgloss.Style
	Value      lipgloss.Style
	ValueOK    lipgloss.Style
	Target     lipgloss.Style
	Hint       lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	Overlay    lipgloss.Style
}

// DefaultTheme returns the wooden-frame theme, adaptive to the terminal
// background.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary: ColorPrimary,
		Subtext: ColorSubtext,
		Frame:   lipgloss.AdaptiveColor{Light: "#6B4A2B", Dark: "#B5835A"},
		Rod:     lipgloss.AdaptiveColor{Light: "#8C7B6A", Dark: "#6272A4"},
		Heaven:  lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF5555"},
		Earth:   lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#F1FA8C"},
		Resting: lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Correct: ColorSuccess,
		Wrong:   ColorDanger,
		Accent:  lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD700"},
	}

	t.Base = r.NewStyle().Foreground(ColorText)
	t.Title = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)
	t.FrameStyle = r.NewStyle().Foreground(t.Frame)
	t.RodStyle = r.NewStyle().Foreground(t.Rod)
	t.HeavenOn = r.NewStyle().Foreground(t.Heaven).Bold(true)
	t.EarthOn = r.NewStyle().Foreground(t.Earth).Bold(true)
	t.BeadOff = r.NewStyle().Foreground(t.Resting)
	t.Cursor = r.NewStyle().Reverse(true)
	t.Highlight = r.NewStyle().Background(ThemeBg("#5C4A00"))
	t.Label = r.NewStyle().Foreground(t.Subtext)
	t.Digit = r.NewStyle().Foreground(ColorText).Bold(true)
	t.Value = r.NewStyle().Foreground(t.Frame).Bold(true)
	t.ValueOK = r.NewStyle().Foreground(t.Correct).Bold(true)
	t.Target = r.NewStyle().Foreground(ColorInfo).Bold(true)
	t.Hint = r.NewStyle().Foreground(t.Accent).Italic(true)
	t.Status = r.NewStyle().Foreground(ColorMuted)
	t.Error = r.NewStyle().Foreground(t.Wrong)
	t.Overlay = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)

	return t
}

// ThemeFor returns the theme for a config name: "dark" and "light" pin the
// adaptive colors, anything else follows the terminal.
func ThemeFor(name string, r *lipgloss.Renderer) Theme {
	switch strings.ToLower(name) {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}
	return DefaultTheme(r)
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
