package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	NextList key.Binding
	PrevList key.Binding
	NextFav  key.Binding
	PrevFav  key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Actions
	Quit       key.Binding
	Help       key.Binding
	Escape     key.Binding
	Search     key.Binding
	Filter     key.Binding
	Refresh    key.Binding
	Open       key.Binding
	Archive    key.Binding
	Previews   key.Binding
	Contents   key.Binding
	MPV        key.Binding
	Translate  key.Binding
	Logs       key.Binding
	Account    key.Binding
	Delete     key.Binding
	OpenFolder key.Binding
	Copy       key.Binding
	Greeting   key.Binding
	UserInfo   key.Binding
	Logout     key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h/←", "back"),
		),
		NextList: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next list"),
		),
		PrevList: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev list"),
		),
		NextFav: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next folder"),
		),
		PrevFav: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev folder"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter loaded"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		Archive: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "archive"),
		),
		Previews: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "more previews"),
		),
		Contents: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "resolve images"),
		),
		MPV: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mpv keys"),
		),
		Translate: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "translate tags"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logs"),
		),
		Account: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "account"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		OpenFolder: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "open folder"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy cookies"),
		),
		Greeting: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "check greeting"),
		),
		UserInfo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "refresh profile"),
		),
		Logout: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "logout"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}

// Keys is the global keymap instance
var Keys = DefaultKeyMap()

// helpKeys adapts the bindings of one view to bubbles/help
type helpKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding  { return h.short }
func (h helpKeys) FullHelp() [][]key.Binding { return h.full }

// helpFor returns the bindings shown for view
func helpFor(v Screen) helpKeys {
	k := Keys
	nav := []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Enter, k.Back}
	global := []key.Binding{k.Logs, k.Account, k.Help, k.Quit}

	switch v {
	case ScreenDetail:
		return helpKeys{
			short: []key.Binding{k.Archive, k.Previews, k.Contents, k.Translate, k.Back, k.Help},
			full: [][]key.Binding{
				{k.Up, k.Down, k.Back},
				{k.Archive, k.Previews, k.Contents, k.MPV, k.Translate, k.Open},
				global,
			},
		}
	case ScreenArchive:
		return helpKeys{
			short: []key.Binding{k.Up, k.Down, k.Enter, k.Back},
			full:  [][]key.Binding{{k.Up, k.Down, k.Enter, k.Back}, global},
		}
	case ScreenLogs:
		return helpKeys{
			short: []key.Binding{k.Enter, k.Delete, k.OpenFolder, k.Back},
			full:  [][]key.Binding{nav, {k.Delete, k.OpenFolder, k.Refresh}, global},
		}
	case ScreenLog:
		return helpKeys{
			short: []key.Binding{k.Up, k.Down, k.Back},
			full:  [][]key.Binding{{k.Up, k.Down, k.Top, k.Bottom, k.Back}, global},
		}
	case ScreenAccount:
		return helpKeys{
			short: []key.Binding{k.Enter, k.Copy, k.Logout, k.Back},
			full: [][]key.Binding{
				nav,
				{k.Copy, k.Greeting, k.UserInfo, k.Open, k.Logout},
				global,
			},
		}
	}
	return helpKeys{
		short: []key.Binding{k.NextList, k.Search, k.Filter, k.Enter, k.Help, k.Quit},
		full: [][]key.Binding{
			nav,
			{k.NextList, k.PrevList, k.NextFav, k.PrevFav, k.Search, k.Filter, k.Refresh, k.Open},
			global,
		},
	}
}
