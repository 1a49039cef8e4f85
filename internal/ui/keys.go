package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Confirm    key.Binding
	Refresh    key.Binding

	// View switching
	ViewPosts    key.Binding
	ViewCalendar key.Binding
	ViewProfile  key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Left   key.Binding
	Right  key.Binding

	// Posts
	NewPost     key.Binding
	EditPost    key.Binding
	DeletePost  key.Binding
	ToggleScope key.Binding
	Search      key.Binding

	// Editor and dialogs
	Save        key.Binding
	RemoveMedia key.Binding
	Toggle      key.Binding
	Destroy     key.Binding

	// Calendar
	ExportICS key.Binding
	Today     key.Binding

	// Profile
	Avatar      key.Binding
	ClearAvatar key.Binding
	LinkBot     key.Binding
	CheckLink   key.Binding
	Logout      key.Binding

	// Login
	SwitchForm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),

		ViewPosts: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Posts"),
		),
		ViewCalendar: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Calendar"),
		),
		ViewProfile: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Profile"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "Previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "Next"),
		),

		NewPost: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New post"),
		),
		EditPost: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "Edit post"),
		),
		DeletePost: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete post"),
		),
		ToggleScope: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Mine/all posts"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search posts"),
		),

		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save"),
		),
		RemoveMedia: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "Remove media"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle"),
		),
		Destroy: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Delete session"),
		),

		ExportICS: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Export .ics"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Jump to today"),
		),

		Avatar: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Set avatar"),
		),
		ClearAvatar: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Remove avatar"),
		),
		LinkBot: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Link Telegram"),
		),
		CheckLink: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Check link"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Log out"),
		),

		SwitchForm: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "Switch form"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewPosts, k.ViewCalendar, k.ViewProfile, k.Refresh},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.NewPost, k.EditPost, k.DeletePost, k.ToggleScope, k.Search},
		{k.Save, k.Tab, k.ShiftTab, k.RemoveMedia, k.Escape},
		{k.Today, k.Toggle, k.Destroy, k.ExportICS},
		{k.Avatar, k.ClearAvatar, k.LinkBot, k.CheckLink, k.Logout},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
