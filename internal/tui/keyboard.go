package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
	"github.com/mmcdole/panda/internal/state"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Modal states first
	if m.ShowHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.ShowHelp = false
		}
		return m, nil
	}

	if m.State.Environment.HomeSheet == state.HomeSheetNewDawn {
		return m, m.dispatch(state.SetHomeSheet{Sheet: state.HomeSheetNone})
	}

	if m.ConfirmLogout {
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.ConfirmLogout = false
			return m, tea.Batch(
				m.dispatch(state.ConfirmLogout{}),
				m.setStatus("Logged out", false),
			)
		case key.Matches(msg, Keys.Deny):
			m.ConfirmLogout = false
		}
		return m, nil
	}

	if handled, mm, cmd := m.routeToModal(msg); handled {
		return mm, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil
	case key.Matches(msg, Keys.Logs) && m.Screen != ScreenLogs && m.Screen != ScreenLog:
		m.Screen = ScreenLogs
		return m, m.dispatch(state.FetchLogs{})
	case key.Matches(msg, Keys.Account) && m.Screen != ScreenAccount:
		m.Screen = ScreenAccount
		return m, m.dispatch(state.LoadCookies{})
	}

	switch m.Screen {
	case ScreenDetail:
		return m.handleDetailKey(msg)
	case ScreenArchive:
		return m.handleArchiveKey(msg)
	case ScreenLogs:
		return m.handleLogsKey(msg)
	case ScreenLog:
		return m.handleLogKey(msg)
	case ScreenAccount:
		return m.handleAccountKey(msg)
	}
	return m.handleHomeKey(msg)
}

// routeToModal forwards input to whichever text input owns the keyboard
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	if m.SearchBar.IsVisible() {
		var (
			cmd       tea.Cmd
			submitted bool
		)
		m.SearchBar, cmd, submitted = m.SearchBar.Update(msg)
		if submitted {
			keyword := strings.TrimSpace(m.SearchBar.Value())
			m.SearchBar.Hide()
			m.filterInput.SetValue("")
			cmd = m.dispatch(state.Search{Keyword: keyword})
			m.listCursor[m.currentList()] = 0
			return true, m, cmd
		}
		return true, m, cmd
	}

	if m.CookieModal.IsVisible() {
		var (
			cmd       tea.Cmd
			submitted bool
		)
		m.CookieModal, cmd, submitted = m.CookieModal.Update(msg)
		if submitted {
			value := strings.TrimSpace(m.CookieModal.Value())
			m.CookieModal.Hide()
			return true, m, m.dispatch(state.SetCookie{
				Host:  m.editing.host,
				Key:   m.editing.key,
				Value: domain.CookieValue(value),
			})
		}
		return true, m, cmd
	}

	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filterInput.Blur()
			m.filterInput.SetValue("")
			return true, m, nil
		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			return true, m, nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.listCursor[m.currentList()] = 0
		return true, m, cmd
	}
	return false, m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	list := m.currentList()
	rows := m.visibleGalleries()
	cursor := clamp(m.listCursor[list], len(rows))

	switch {
	case key.Matches(msg, Keys.Escape):
		if m.filterActive() {
			m.filterInput.SetValue("")
		}
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.listCursor[list] = clamp(cursor-1, len(rows))
		return m, nil

	case key.Matches(msg, Keys.Down):
		m.listCursor[list] = clamp(cursor+1, len(rows))
		return m, m.maybeLoadMore(list, m.listCursor[list], len(rows))

	case key.Matches(msg, Keys.Top):
		m.listCursor[list] = 0
		return m, nil

	case key.Matches(msg, Keys.Bottom):
		m.listCursor[list] = clamp(len(rows)-1, len(rows))
		return m, m.maybeLoadMore(list, m.listCursor[list], len(rows))

	case key.Matches(msg, Keys.NextList), key.Matches(msg, Keys.PrevList):
		step := 1
		if key.Matches(msg, Keys.PrevList) {
			step = len(listTabs) - 1
		}
		next := listTabs[(tabIndex(list.Type)+step)%len(listTabs)]
		m.filterInput.SetValue("")
		cmd := m.dispatch(state.SetHomeListType{Type: next})
		return m, tea.Batch(cmd, m.loadIfEmpty(m.currentList()))

	case key.Matches(msg, Keys.NextFav), key.Matches(msg, Keys.PrevFav):
		if list.Type != domain.ListFavorites {
			return m, nil
		}
		step := 1
		if key.Matches(msg, Keys.PrevFav) {
			step = domain.FavoritesCategoryCount - 1
		}
		idx := (list.Favorites.Index() + step) % domain.FavoritesCategoryCount
		cmd := m.dispatch(state.SetFavoritesIndex{Category: domain.FavoritesCategory(idx - 1)})
		return m, tea.Batch(cmd, m.loadIfEmpty(m.currentList()))

	case key.Matches(msg, Keys.Search):
		m.SearchBar.Show(m.State.Home.SearchKeyword, m.State.Home.HistoryKeywords())
		m.SearchBar.SetWidth(m.Width)
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.filtering = true
		m.listCursor[list] = 0
		return m, m.filterInput.Focus()

	case key.Matches(msg, Keys.Refresh):
		m.listCursor[list] = 0
		return m, m.dispatch(state.FetchList{List: list})

	case key.Matches(msg, Keys.Open):
		if cursor < len(rows) {
			ref := rows[cursor].Gallery.Ref()
			return m, m.dispatch(state.OpenInBrowser{URL: ref.URL(m.host())})
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if cursor < len(rows) {
			return m.openDetail(rows[cursor].Gallery)
		}
		return m, nil
	}
	return m, nil
}

// maybeLoadMore requests the next page once the cursor reaches the end of an
// unfiltered list
func (m Model) maybeLoadMore(list domain.ListKey, cursor, n int) tea.Cmd {
	if m.filterActive() || n == 0 || cursor < n-1 {
		return nil
	}
	return m.dispatch(state.FetchMoreList{List: list})
}

// loadIfEmpty fetches the first page of a list that has never loaded
func (m Model) loadIfEmpty(list domain.ListKey) tea.Cmd {
	l := m.State.Home.List(list)
	if l == nil || len(l.Items) > 0 || l.Loading || l.NotFound || l.LoadFailed {
		return nil
	}
	if list.Type == domain.ListSearch && m.State.Home.SearchKeyword == "" {
		return nil
	}
	return m.dispatch(state.FetchList{List: list})
}

func tabIndex(t domain.ListType) int {
	for i, lt := range listTabs {
		if lt == t {
			return i
		}
	}
	return 0
}

func (m Model) host() domain.GalleryHost {
	return m.State.Settings.Setting().GalleryHost
}

// openDetail switches to the detail view of g and requests what it shows
func (m Model) openDetail(g domain.Gallery) (Model, tea.Cmd) {
	m.selected = g
	m.Screen = ScreenDetail
	m.detailView.GotoTop()
	ref := g.Ref()

	var cmds []tea.Cmd
	if _, ok := m.State.Detail.Details[g.ID]; !ok {
		cmds = append(cmds, m.dispatch(state.FetchDetail{Ref: ref}))
	}
	cmds = append(cmds,
		m.dispatch(state.LoadGalleryState{GID: g.ID}),
		m.dispatch(state.FetchPreviews{Ref: ref, Page: 0}),
	)
	return m, tea.Batch(cmds...)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	ref := m.selected.Ref()

	switch {
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Escape):
		m.Screen = ScreenHome
		return m, nil

	case key.Matches(msg, Keys.Archive):
		m.Screen = ScreenArchive
		m.archiveCursor = 0
		return m, tea.Batch(
			m.dispatch(state.ResetDownloadCommandResponse{}),
			m.dispatch(state.FetchArchive{Ref: ref}),
			m.dispatch(state.FetchArchiveFunds{Ref: ref}),
		)

	case key.Matches(msg, Keys.Previews):
		return m, m.dispatch(state.FetchPreviews{Ref: ref, Page: m.nextPreviewPage()})

	case key.Matches(msg, Keys.Contents):
		return m, m.dispatch(state.FetchContents{Ref: ref, Page: m.nextContentPage()})

	case key.Matches(msg, Keys.MPV):
		return m, m.dispatch(state.FetchMPVKeys{Ref: ref})

	case key.Matches(msg, Keys.Translate):
		setting := m.State.Settings.Setting()
		setting.TranslatesTags = !setting.TranslatesTags
		return m, m.dispatch(state.SetSetting{Setting: setting})

	case key.Matches(msg, Keys.Open):
		return m, m.dispatch(state.OpenInBrowser{URL: ref.URL(m.host())})

	case key.Matches(msg, Keys.Refresh):
		return m, m.dispatch(state.FetchDetail{Ref: ref})
	}

	var cmd tea.Cmd
	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

// nextPreviewPage returns the first preview page without any thumbnail
func (m Model) nextPreviewPage() int {
	return firstMissingPage(m.State.Detail.Previews[m.selected.ID], m.State.Detail.PreviewConfig, m.pageCount())
}

// nextContentPage returns the first preview page with unresolved images
func (m Model) nextContentPage() int {
	return firstMissingPage(m.State.Content.Contents[m.selected.ID], m.State.Detail.PreviewConfig, m.pageCount())
}

func (m Model) pageCount() int {
	if d, ok := m.State.Detail.Details[m.selected.ID]; ok && d.PageCount > 0 {
		return d.PageCount
	}
	return m.selected.PageCount
}

// firstMissingPage returns the first preview page whose image range is not
// fully present in have. The last page is returned when all are present.
func firstMissingPage(have map[int]string, cfg domain.PreviewConfig, pageCount int) int {
	if pageCount <= 0 {
		return 0
	}
	pages := (pageCount + cfg.PerPage() - 1) / cfg.PerPage()
	for p := 0; p < pages; p++ {
		first, last := cfg.PageRange(p)
		last = min(last, pageCount)
		for i := first; i <= last; i++ {
			if _, ok := have[i]; !ok {
				return p
			}
		}
	}
	return pages - 1
}

func (m Model) handleArchiveKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	archive := m.State.Detail.Archives[m.selected.ID]
	n := len(archive.HathArchives)

	switch {
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Escape):
		m.Screen = ScreenDetail
		return m, m.dispatch(state.ResetDownloadCommandResponse{})
	case key.Matches(msg, Keys.Up):
		m.archiveCursor = clamp(m.archiveCursor-1, n)
	case key.Matches(msg, Keys.Down):
		m.archiveCursor = clamp(m.archiveCursor+1, n)
	case key.Matches(msg, Keys.Refresh):
		ref := m.selected.Ref()
		return m, tea.Batch(
			m.dispatch(state.FetchArchive{Ref: ref}),
			m.dispatch(state.FetchArchiveFunds{Ref: ref}),
		)
	case key.Matches(msg, Keys.Enter):
		if m.archiveCursor >= n {
			return m, nil
		}
		h := archive.HathArchives[m.archiveCursor]
		if !h.Available() {
			return m, m.setStatus(string(h.Resolution)+" is not available", true)
		}
		return m, m.dispatch(state.SendDownloadCommand{Ref: m.selected.Ref(), Resolution: h.Resolution})
	}
	return m, nil
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	logs := m.State.Logs.Logs

	switch {
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Escape):
		m.Screen = ScreenHome
	case key.Matches(msg, Keys.Up):
		m.logCursor = clamp(m.logCursor-1, len(logs))
	case key.Matches(msg, Keys.Down):
		m.logCursor = clamp(m.logCursor+1, len(logs))
	case key.Matches(msg, Keys.Top):
		m.logCursor = 0
	case key.Matches(msg, Keys.Bottom):
		m.logCursor = clamp(len(logs)-1, len(logs))
	case key.Matches(msg, Keys.Refresh):
		return m, m.dispatch(state.FetchLogs{})
	case key.Matches(msg, Keys.OpenFolder):
		return m, m.dispatch(state.OpenLogsFolder{})
	case key.Matches(msg, Keys.Delete):
		if m.logCursor < len(logs) {
			return m, m.dispatch(state.DeleteLog{FileName: logs[m.logCursor].FileName})
		}
	case key.Matches(msg, Keys.Enter):
		if m.logCursor < len(logs) {
			m.Screen = ScreenLog
			m.logView.GotoTop()
			return m, m.dispatch(state.SetLogsRoute{FileName: logs[m.logCursor].FileName})
		}
	}
	return m, nil
}

func (m Model) handleLogKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Escape):
		m.Screen = ScreenLogs
		return m, m.dispatch(state.SetLogsRoute{})
	case key.Matches(msg, Keys.Delete):
		return m, m.dispatch(state.DeleteLog{FileName: m.State.Logs.Route})
	case key.Matches(msg, Keys.Top):
		m.logView.GotoTop()
		return m, nil
	case key.Matches(msg, Keys.Bottom):
		m.logView.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// accountRowKind identifies one row of the account view
type accountRowKind int

const (
	rowHost accountRowKind = iota
	rowGreeting
	rowTranslate
	rowPreviewRows
	rowCookie
)

type accountRow struct {
	kind accountRowKind
	host domain.GalleryHost
	key  string
}

// accountRows lists the rows of the account view in display order
func accountRows() []accountRow {
	rows := []accountRow{{kind: rowHost}, {kind: rowGreeting}, {kind: rowTranslate}, {kind: rowPreviewRows}}
	for _, host := range []domain.GalleryHost{domain.HostEHentai, domain.HostExHentai} {
		for _, k := range domain.CookieKeys(host) {
			rows = append(rows, accountRow{kind: rowCookie, host: host, key: k})
		}
	}
	return rows
}

// previewRowChoices are the thumbnail row counts the site offers
var previewRowChoices = []int{4, 10, 20, 40}

func nextPreviewRows(current int) int {
	for i, r := range previewRowChoices {
		if r == current {
			return previewRowChoices[(i+1)%len(previewRowChoices)]
		}
	}
	return previewRowChoices[0]
}

func (m Model) handleAccountKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	rows := accountRows()
	m.accountCursor = clamp(m.accountCursor, len(rows))
	row := rows[m.accountCursor]

	switch {
	case key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Escape):
		m.Screen = ScreenHome
		return m, m.dispatch(state.SetAccountRoute{})
	case key.Matches(msg, Keys.Up):
		m.accountCursor = clamp(m.accountCursor-1, len(rows))
	case key.Matches(msg, Keys.Down):
		m.accountCursor = clamp(m.accountCursor+1, len(rows))
	case key.Matches(msg, Keys.Top):
		m.accountCursor = 0
	case key.Matches(msg, Keys.Bottom):
		m.accountCursor = len(rows) - 1

	case key.Matches(msg, Keys.Copy):
		host := m.host()
		if row.kind == rowCookie {
			host = row.host
		}
		return m, m.dispatch(state.CopyCookies{Host: host})

	case key.Matches(msg, Keys.Greeting):
		return m, m.dispatch(state.FetchGreeting{})

	case key.Matches(msg, Keys.UserInfo):
		return m, tea.Batch(m.dispatch(state.FetchUserInfo{}), m.dispatch(state.FetchFavoriteNames{}))

	case key.Matches(msg, Keys.Open):
		return m, m.dispatch(state.OpenInBrowser{URL: m.host().URL() + "mytags"})

	case key.Matches(msg, Keys.Logout):
		m.ConfirmLogout = true
		return m, m.dispatch(state.SetAccountRoute{Route: state.AccountRoute{Kind: state.AccountRouteLogout}})

	case key.Matches(msg, Keys.Enter):
		return m.activateAccountRow(row)
	}
	return m, nil
}

func (m Model) activateAccountRow(row accountRow) (Model, tea.Cmd) {
	setting := m.State.Settings.Setting()

	switch row.kind {
	case rowHost:
		host := domain.HostExHentai
		if setting.GalleryHost == domain.HostExHentai {
			host = domain.HostEHentai
		}
		return m, tea.Batch(
			m.dispatch(state.SetGalleryHost{Host: host}),
			m.setStatus("Gallery host: "+string(host), false),
		)
	case rowGreeting:
		setting.ShowsNewDawnGreeting = !setting.ShowsNewDawnGreeting
		return m, m.dispatch(state.SetSetting{Setting: setting})
	case rowTranslate:
		setting.TranslatesTags = !setting.TranslatesTags
		return m, m.dispatch(state.SetSetting{Setting: setting})
	case rowPreviewRows:
		setting.PreviewRows = nextPreviewRows(setting.PreviewRows)
		return m, m.dispatch(state.SetSetting{Setting: setting})
	case rowCookie:
		m.editing = row
		current := m.State.Account.Cookies(row.host).Get(row.key)
		m.CookieModal.Show(string(row.host)+" "+row.key, string(current))
		return m, nil
	}
	return m, nil
}
