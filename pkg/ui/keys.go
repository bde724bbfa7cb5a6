package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the board key bindings.
type KeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	PushUp   key.Binding
	PushDown key.Binding
	Reset    key.Binding
	Target   key.Binding
	Mode     key.Binding
	Hint     key.Binding
	Tutorial key.Binding
	Copy     key.Binding
	Export   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "column left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "column right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "bead up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "bead down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "tap bead"),
		),
		PushUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "drag up"),
		),
		PushDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "drag down"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r", "backspace"),
			key.WithHelp("r", "reset"),
		),
		Target: key.NewBinding(
			key.WithKeys("n", "/"),
			key.WithHelp("n", "set target"),
		),
		Mode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "practice/free"),
		),
		Hint: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "hint"),
		),
		Tutorial: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tutorial"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c", "copy value"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export svg"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Target, k.Hint, k.Tutorial, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Toggle, k.PushUp, k.PushDown, k.Reset},
		{k.Target, k.Mode, k.Hint, k.Tutorial},
		{k.Copy, k.Export, k.Help, k.Quit},
	}
}

// TutorialKeyMap holds the bindings active while the tutorial is open.
type TutorialKeyMap struct {
	Next  key.Binding
	Back  key.Binding
	Close key.Binding
}

// DefaultTutorialKeyMap returns the tutorial bindings.
func DefaultTutorialKeyMap() TutorialKeyMap {
	return TutorialKeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "enter", " ", "n"),
			key.WithHelp("→/enter", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h", "b", "p"),
			key.WithHelp("←", "back"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q", "t"),
			key.WithHelp("esc", "close"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k TutorialKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Next, k.Close}
}

// FullHelp implements help.KeyMap.
func (k TutorialKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
