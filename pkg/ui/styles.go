package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/soroban/pkg/abacus"
)

var (
	ColorText     = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext  = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted    = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorBgSubtle = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	ColorModeFreeBg     = lipgloss.AdaptiveColor{Light: "#D1ECF1", Dark: "#1A3344"}
	ColorModePracticeBg = lipgloss.AdaptiveColor{Light: "#E8DDFF", Dark: "#2A1A44"}
	ColorTutorialBg     = lipgloss.AdaptiveColor{Light: "#FFF3CD", Dark: "#3D3D1A"}
	ColorCorrectBg      = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
)

// RenderModeBadge returns the FREE / PRACTICE / TUTORIAL badge.
func RenderModeBadge(snap abacus.Snapshot) string {
	var fg, bg lipgloss.AdaptiveColor
	var label string

	switch {
	case snap.Tutorial:
		fg, bg, label = ColorWarning, ColorTutorialBg, "TUTORIAL"
	case snap.Mode == abacus.ModePractice:
		fg, bg, label = ColorPrimary, ColorModePracticeBg, "PRACTICE"
	default:
		fg, bg, label = ColorInfo, ColorModeFreeBg, "FREE"
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// RenderTargetBadge returns the target chip, or "" without a target.
func RenderTargetBadge(snap abacus.Snapshot) string {
	if snap.Target == nil {
		return ""
	}
	fg, bg := ColorInfo, ColorBgSubtle
	if snap.Correct {
		fg, bg = ColorSuccess, ColorCorrectBg
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1).
		Render(fmt.Sprintf("target %d", *snap.Target))
}
