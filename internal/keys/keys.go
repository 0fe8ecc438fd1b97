// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for browsing.
type KeyMap struct {
	// Scrolling
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	HalfUp    key.Binding
	HalfDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	WideLeft  key.Binding
	WideRight key.Binding

	// Navigation
	Back        key.Binding
	Forward     key.Binding
	Reload      key.Binding
	GoParent    key.Binding
	GoRoot      key.Binding
	OpenURL     key.Binding
	FollowNum   key.Binding
	CancelFetch key.Binding
	Save        key.Binding

	// Search
	Find     key.Binding
	FindNext key.Binding

	// General
	Help         key.Binding
	Escape       key.Binding
	Quit         key.Binding
	ToggleStatus key.Binding
	ToggleLog    key.Binding
	ToggleSmooth key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Scrolling
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup/b", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", " "),
			key.WithHelp("pgdn/f", "page down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		WideLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "pan wide block left"),
		),
		WideRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "pan wide block right"),
		),

		// Navigation
		Back: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h/←", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "forward"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload page"),
		),
		GoParent: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "go to parent"),
		),
		GoRoot: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "go to capsule root"),
		),
		OpenURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open URL"),
		),
		FollowNum: key.NewBinding(
			key.WithKeys("'"),
			key.WithHelp("'", "follow link by number"),
		),
		CancelFetch: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel fetch"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save page source"),
		),

		// Search
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find in page"),
		),
		FindNext: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "find next"),
		),

		// General
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ToggleStatus: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "toggle status bar"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle log pane"),
		),
		ToggleSmooth: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "toggle smooth scrolling"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.HalfUp, k.HalfDown, k.Top, k.Bottom}, // Scrolling
		{k.Back, k.Forward, k.Reload, k.GoParent, k.GoRoot, k.OpenURL, k.FollowNum, k.CancelFetch, k.Save}, // Navigation
		{k.Find, k.FindNext, k.WideLeft, k.WideRight},       // Search and panning
		{k.Help, k.ToggleStatus, k.ToggleLog, k.ToggleSmooth, k.Escape, k.Quit}, // General
	}
}

// InputKeyMap defines the keybindings while a text prompt is focused, either
// a server input prompt (status 10/11) or the URL bar.
type InputKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultInputKeyMap returns the keybindings for prompt input.
func DefaultInputKeyMap() InputKeyMap {
	return InputKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
