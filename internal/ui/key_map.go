package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	next      key.Binding
	search    key.Binding
	selectKey key.Binding
	create    key.Binding
	add       key.Binding
	remove    key.Binding
	refresh   key.Binding
	signUp    key.Binding
	signOut   key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		selectKey: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "remember")),
		create:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add last selected")),
		remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		signUp:    key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "sign up")),
		signOut:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "sign out")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.selectKey, k.create, k.add, k.remove},
		{k.next, k.refresh, k.signOut, k.quit},
	}
}
