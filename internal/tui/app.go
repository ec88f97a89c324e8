package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
	"github.com/mmcdole/panda/internal/search"
	"github.com/mmcdole/panda/internal/state"
	"github.com/mmcdole/panda/internal/tui/components"
	"github.com/mmcdole/panda/internal/tui/styles"
)

// Screen is the screen the model presents
type Screen int

const (
	ScreenHome Screen = iota
	ScreenDetail
	ScreenArchive
	ScreenLogs
	ScreenLog
	ScreenAccount
)

// Vertical chrome: tab bar and footer
const ChromeHeight = 2

// Home lists in tab order
var listTabs = []domain.ListType{
	domain.ListSearch,
	domain.ListFrontpage,
	domain.ListPopular,
	domain.ListWatched,
	domain.ListFavorites,
}

// Model is the main Bubble Tea model for the application. It renders State
// and changes it only through state.Reduce.
type Model struct {
	State   *state.AppState
	Env     *state.Environment
	watcher LogWatcher
	logger  *slog.Logger

	Screen Screen
	Ready  bool

	// Dimensions
	Width  int
	Height int

	// Cursors
	listCursor    map[domain.ListKey]int
	logCursor     int
	archiveCursor int
	accountCursor int

	// Gallery shown by the detail and archive views
	selected domain.Gallery

	// UI Components
	SearchBar   components.SearchBar
	CookieModal components.InputModal
	editing     accountRow
	filterInput textinput.Model
	filtering   bool
	spinner     spinner.Model
	help        help.Model
	detailView  viewport.Model
	logView     viewport.Model

	ShowHelp      bool
	ConfirmLogout bool

	// Footer status
	StatusMsg   string
	StatusIsErr bool
}

// NewModel creates the application model. watcher may be nil.
func NewModel(s *state.AppState, env *state.Environment, watcher LogWatcher) Model {
	logger := slog.Default()
	if env != nil && env.Logger != nil {
		logger = env.Logger
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	fi := textinput.New()
	fi.Prompt = "filter: "
	fi.PromptStyle = styles.FilterPromptStyle
	fi.CharLimit = 100

	return Model{
		State:       s,
		Env:         env,
		watcher:     watcher,
		logger:      logger,
		Screen:      ScreenHome,
		listCursor:  make(map[domain.ListKey]int),
		SearchBar:   components.NewSearchBar(),
		CookieModal: components.NewInputModal(),
		filterInput: fi,
		spinner:     sp,
		help:        help.New(),
		detailView:  viewport.New(0, 0),
		logView:     viewport.New(0, 0),
	}
}

// Init loads cookies and the current home list and starts watching logs
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.dispatch(state.LoadCookies{}),
		m.dispatch(state.FetchList{List: m.currentList()}),
		WatchLogsCmd(m.watcher),
	}
	if m.State.Settings.Setting().ShowsNewDawnGreeting {
		cmds = append(cmds, m.dispatch(state.FetchGreeting{}))
	}
	return tea.Batch(cmds...)
}

// dispatch reduces a into the state and returns its effect
func (m Model) dispatch(a state.Action) tea.Cmd {
	return state.Reduce(m.State, a, m.Env)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		m.syncViewers()
		return m, nil

	case tea.KeyMsg:
		mm, cmd := m.handleKeyMsg(msg)
		mm.syncViewers()
		return mm, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case state.Action:
		greetingBefore := m.State.Settings.User().Greeting
		cmd := m.dispatch(msg)
		follow := m.afterAction(msg, greetingBefore)
		m.syncViewers()
		return m, tea.Batch(cmd, follow)

	case LogsChangedMsg:
		return m, tea.Batch(m.dispatch(state.FetchLogs{}), WatchLogsCmd(m.watcher))

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}
	return m, nil
}

// afterAction reacts to effect results that need UI feedback or follow-up
// requests
func (m *Model) afterAction(a state.Action, greetingBefore *domain.Greeting) tea.Cmd {
	switch a := a.(type) {
	case state.FetchListDone:
		l := m.State.Home.List(a.List)
		if l != nil && l.Generation == a.Generation && !a.Result.Ok() {
			return m.setStatus(fmt.Sprintf("Loading %s failed: %v", a.List, a.Result.Err), true)
		}

	case state.FetchDetailDone:
		if !a.Result.Ok() {
			return m.setStatus("Loading gallery failed: "+a.Result.Err.Error(), true)
		}

	case state.FetchPreviewsDone:
		if !a.Result.Ok() {
			return m.setStatus(fmt.Sprintf("Loading previews page %d failed: %v", a.Page+1, a.Result.Err), true)
		}

	case state.FetchArchiveDone:
		if !a.Result.Ok() {
			return m.setStatus("Loading archive failed: "+a.Result.Err.Error(), true)
		}

	case state.SendDownloadCommandDone:
		if !a.Result.Ok() {
			return m.setStatus("Download request failed: "+a.Result.Err.Error(), true)
		}
		return m.setStatus(domain.ProcessDownloadResponse(a.Result.Value), false)

	case state.FetchContentsDone:
		if !a.Result.Ok() {
			return m.setStatus("Resolving images failed: "+a.Result.Err.Error(), true)
		}
		return m.setStatus(fmt.Sprintf("Resolved %d images", len(a.Result.Value)), false)

	case state.FetchMPVKeysDone:
		if !a.Result.Ok() {
			return m.setStatus("Loading MPV keys failed: "+a.Result.Err.Error(), true)
		}
		return m.setStatus(fmt.Sprintf("MPV keys for %d images", len(a.Result.Value.ImageKeys)), false)

	case state.CopyCookiesDone:
		return m.setStatus(m.State.Account.Route.Message, !a.Result.Ok())

	case state.DeleteLogDone:
		if !a.Result.Ok() {
			return m.setStatus("Delete failed: "+a.Result.Err.Error(), true)
		}
		if m.Screen == ScreenLog && m.State.Logs.Route == "" {
			m.Screen = ScreenLogs
		}
		m.logCursor = clamp(m.logCursor, len(m.State.Logs.Logs))
		return m.setStatus("Deleted "+a.Result.Value, false)

	case state.LoadCookiesDone:
		if a.Result.Ok() && m.State.Account.LoggedIn() {
			return tea.Batch(m.dispatch(state.FetchUserInfo{}), m.dispatch(state.FetchFavoriteNames{}))
		}

	case state.FetchUserInfoDone:
		if !a.Result.Ok() {
			return m.setStatus("Refreshing profile failed: "+a.Result.Err.Error(), true)
		}

	case state.FetchGreetingDone:
		g := m.State.Settings.User().Greeting
		if g != greetingBefore && g != nil && !g.IsEmpty() {
			return m.dispatch(state.SetHomeSheet{Sheet: state.HomeSheetNewDawn})
		}
	}
	return nil
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	delay := 3 * time.Second
	if isErr {
		delay = 5 * time.Second
	}
	return ClearStatusCmd(delay)
}

// currentList returns the key of the list the home view shows
func (m Model) currentList() domain.ListKey {
	return m.State.Environment.CurrentList()
}

// visibleGalleries returns the rows of the current list, narrowed by the
// local filter when one is active
func (m Model) visibleGalleries() []search.FilterResult {
	l := m.State.Home.List(m.currentList())
	if l == nil {
		return nil
	}
	return search.Filter(m.filterInput.Value(), l.Items)
}

// filterActive reports whether the local filter narrows the list
func (m Model) filterActive() bool {
	return m.filtering || m.filterInput.Value() != ""
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	contentHeight := max(m.Height-ChromeHeight, 1)

	m.SearchBar.SetWidth(m.Width)
	m.filterInput.Width = max(m.Width-10, 10)
	m.help.Width = m.Width
	m.detailView.Width = m.Width
	m.detailView.Height = contentHeight
	m.logView.Width = m.Width
	m.logView.Height = max(contentHeight-1, 1)
}

// syncViewers refreshes the content of the scrollable views from state
func (m *Model) syncViewers() {
	switch m.Screen {
	case ScreenDetail:
		m.detailView.SetContent(m.renderDetailBody(m.Width))
	case ScreenLog:
		if log, ok := m.State.Logs.SelectedLog(); ok {
			m.logView.SetContent(renderLogLines(log, m.Width))
		}
	}
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
