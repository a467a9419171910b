package keys

import "github.com/charmbracelet/bubbles/key"

// CardKeyMap defines the keybindings a todo card responds to.
type CardKeyMap struct {
	// Actions while viewing
	Toggle key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Focus movement across card controls
	NextControl key.Binding
	PrevControl key.Binding
	Activate    key.Binding

	// Edit mode
	Save       key.Binding
	Cancel     key.Binding
	EditToggle key.Binding
}

// DefaultCardKeyMap returns the default card keybindings.
func DefaultCardKeyMap() *CardKeyMap {
	return &CardKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "toggle done"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit title"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		NextControl: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next control"),
		),
		PrevControl: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev control"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "activate"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		EditToggle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle done"),
		),
	}
}

// ShortHelp returns the bindings shown in the compact help line.
func (k *CardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.Delete, k.NextControl}
}

// FullHelp returns all card bindings grouped by mode.
func (k *CardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Edit, k.Delete},
		{k.NextControl, k.PrevControl, k.Activate},
		{k.Save, k.Cancel, k.EditToggle},
	}
}

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Actions
	New    key.Binding
	Filter key.Binding
	Reload key.Binding
	Config key.Binding

	// Help toggle
	Help key.Binding

	// Quit
	Quit key.Binding

	// Card is the per-card keymap, listed in full help.
	Card *CardKeyMap
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new todo"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle filter"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Config: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "settings"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Card: DefaultCardKeyMap(),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Card.Toggle, k.Card.Edit, k.Card.Delete,
		k.New, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	groups := [][]key.Binding{
		{k.Up, k.Down, k.New, k.Filter},
		{k.Reload, k.Config, k.Help, k.Quit},
	}
	return append(groups, k.Card.FullHelp()...)
}
