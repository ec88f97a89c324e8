package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/panda/internal/domain"
	"github.com/mmcdole/panda/internal/state"
	"github.com/mmcdole/panda/internal/translator"
	"github.com/mmcdole/panda/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.ShowHelp {
		return m.renderHelp()
	}

	contentHeight := max(m.Height-ChromeHeight, 1)

	var body string
	switch m.Screen {
	case ScreenDetail:
		body = m.detailView.View()
	case ScreenArchive:
		body = m.renderArchive(contentHeight)
	case ScreenLogs:
		body = m.renderLogs(contentHeight)
	case ScreenLog:
		body = m.renderLog()
	case ScreenAccount:
		body = m.renderAccount()
	default:
		body = m.renderHome(contentHeight)
	}

	switch {
	case m.SearchBar.IsVisible():
		body = lipgloss.JoinVertical(lipgloss.Left, m.SearchBar.View(), body)
	case m.CookieModal.IsVisible():
		body = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, m.CookieModal.View())
	case m.ConfirmLogout:
		body = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, renderConfirmLogout())
	case m.State.Environment.HomeSheet == state.HomeSheetNewDawn:
		if g := m.State.Settings.User().Greeting; g != nil {
			body = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, renderGreeting(*g))
		}
	}

	body = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

// renderHeader renders the list tabs, or the title of the current view
func (m Model) renderHeader() string {
	switch m.Screen {
	case ScreenDetail, ScreenArchive:
		return styles.AccentStyle.Render(styles.Truncate(m.selected.Title, m.Width))
	case ScreenLogs, ScreenLog:
		return styles.AccentStyle.Render("Logs")
	case ScreenAccount:
		return styles.AccentStyle.Render("Account · " + string(m.host()))
	}

	current := m.currentList()
	tabs := make([]string, 0, len(listTabs))
	for _, t := range listTabs {
		label := tabLabel(t)
		if t == domain.ListFavorites && current.Type == domain.ListFavorites {
			label = m.State.Settings.User().FavoriteName(current.Favorites)
		}
		if t == current.Type {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func tabLabel(t domain.ListType) string {
	name := t.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// renderFooter renders the status message, or the short help
func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusMsg)
		}
		return styles.SuccessStyle.Render(m.StatusMsg)
	}
	if m.loading() {
		return m.spinner.View() + " " + styles.DimStyle.Render("loading")
	}
	return m.help.ShortHelpView(helpFor(m.Screen).ShortHelp())
}

// loading reports whether the current view waits for an effect
func (m Model) loading() bool {
	switch m.Screen {
	case ScreenDetail:
		return m.State.Detail.DetailLoading[m.selected.ID] ||
			len(m.State.Detail.PreviewsLoading[m.selected.ID]) > 0 ||
			len(m.State.Content.ContentsLoading[m.selected.ID]) > 0 ||
			m.State.Content.MPVKeysLoading[m.selected.ID]
	case ScreenArchive:
		d := m.State.Detail
		return d.ArchiveLoading || d.ArchiveFundsLoading || d.DownloadCommandSending
	case ScreenLogs, ScreenLog:
		return m.State.Logs.Loading
	case ScreenAccount:
		s := m.State.Settings
		return m.State.Account.CookiesLoading || s.UserInfoLoading || s.GreetingLoading
	}
	l := m.State.Home.List(m.currentList())
	return l != nil && (l.Loading || l.MoreLoading)
}

func (m Model) renderHelp() string {
	m.help.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Keys"),
		m.help.View(helpFor(m.Screen)),
	)
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, styles.ModalStyle.Render(content))
}

// renderHome renders the current home list
func (m Model) renderHome(height int) string {
	key := m.currentList()
	l := m.State.Home.List(key)
	if l == nil {
		return ""
	}

	var lines []string
	if m.filterActive() {
		lines = append(lines, m.filterInput.View())
		height--
	}

	switch {
	case l.Loading && len(l.Items) == 0:
		lines = append(lines, m.spinner.View()+" Loading "+key.String()+"...")
		return strings.Join(lines, "\n")
	case l.LoadFailed && len(l.Items) == 0:
		lines = append(lines, styles.ErrorStyle.Render("Failed to load. Press r to retry."))
		return strings.Join(lines, "\n")
	case l.NotFound:
		lines = append(lines, styles.DimStyle.Render("No galleries found."))
		return strings.Join(lines, "\n")
	case key.Type == domain.ListSearch && len(l.Items) == 0:
		lines = append(lines, styles.DimStyle.Render("Press / to search."))
		return strings.Join(lines, "\n")
	}

	rows := m.visibleGalleries()
	cursor := clamp(m.listCursor[key], len(rows))
	start, end := window(cursor, len(rows), max(height-1, 1))
	for i := start; i < end; i++ {
		r := rows[i]
		lines = append(lines, renderGalleryRow(r.Gallery, r.MatchedIndexes, i == cursor, m.Width))
	}

	switch {
	case l.MoreLoading:
		lines = append(lines, m.spinner.View()+styles.DimStyle.Render(" loading more"))
	case l.MoreLoadFailed:
		lines = append(lines, styles.ErrorStyle.Render("Failed to load more."))
	case !m.filterActive():
		lines = append(lines, styles.DimStyle.Render(fmt.Sprintf("page %d/%d · %d galleries", l.CurrentPage+1, l.MaxPage, len(l.Items))))
	}
	return strings.Join(lines, "\n")
}

// window returns the [start, end) range of n rows that keeps cursor visible
func window(cursor, n, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(0, min(start, n-height))
	return start, start + height
}

// renderGalleryRow renders one gallery list row
func renderGalleryRow(g domain.Gallery, matched []int, selected bool, width int) string {
	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}

	meta := fmt.Sprintf("%s %3dp", styles.RenderRating(g.Rating), g.PageCount)
	if !g.PostedAt.IsZero() {
		meta += " " + g.PostedAt.Format("2006-01-02")
	}
	if g.Language != "" {
		meta += " " + g.Language
	}

	titleWidth := width - 13 - lipgloss.Width(meta) - 4
	title := styles.Truncate(g.Title, titleWidth)
	title = styles.Highlight(title, matched)
	pad := max(titleWidth-lipgloss.Width(title), 0)

	return style.Width(width).Render(
		styles.CategoryBadge(g.Category.String()) + " " + title + strings.Repeat(" ", pad) + " " + styles.DimStyle.Render(meta),
	)
}

// renderDetailBody renders the gallery detail into the viewport content
func (m Model) renderDetailBody(width int) string {
	g := m.selected
	d, loaded := m.State.Detail.Details[g.ID]

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(wordWrap(g.Title, width)))
	b.WriteString("\n")

	switch {
	case !loaded && m.State.Detail.DetailLoadFailed[g.ID]:
		b.WriteString(styles.ErrorStyle.Render("Failed to load gallery. Press r to retry."))
		return b.String()
	case !loaded:
		b.WriteString(m.spinner.View() + " Loading gallery...")
		return b.String()
	}

	if d.JapaneseTitle != "" {
		b.WriteString(styles.SubtitleStyle.Render(wordWrap(d.JapaneseTitle, width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.CategoryBadge(d.Category.String()))
	if d.Uploader != "" {
		b.WriteString(" " + styles.AccentStyle.Render(d.Uploader))
	}
	b.WriteString("\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%-11s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	if !d.PostedAt.IsZero() {
		field("Posted", d.PostedAt.Format("2006-01-02 15:04"))
	}
	field("Parent", d.Parent)
	field("Visible", d.Visible)
	field("Language", d.Language)
	field("File Size", d.FileSize)
	field("Length", fmt.Sprintf("%d pages", d.PageCount))
	field("Favorited", fmt.Sprintf("%d times", d.FavoritedBy))
	field("Rating", fmt.Sprintf("%s %.2f (%d)", styles.RenderRating(d.Rating), d.Rating, d.RatingCount))
	b.WriteString("\n")

	if len(d.Tags) > 0 {
		b.WriteString(m.renderTags(d.Tags, width))
		b.WriteString("\n")
	}

	total := d.PageCount
	previews := len(m.State.Detail.Previews[g.ID])
	contents := len(m.State.Content.Contents[g.ID])
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Previews %d/%d · Images %d/%d", previews, total, contents, total)))
	if key := m.State.Content.MPVKeys[g.ID]; key != "" {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf(" · MPV %d keys", len(m.State.Content.MPVImageKeys[g.ID]))))
	}
	if len(m.State.Detail.PreviewsLoadFailed[g.ID]) > 0 {
		b.WriteString(styles.ErrorStyle.Render(" · previews failed, p to retry"))
	}
	b.WriteString("\n")

	for _, i := range slices.Sorted(maps.Keys(m.State.Content.Contents[g.ID])) {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%4d ", i)))
		b.WriteString(styles.Truncate(m.State.Content.Contents[g.ID][i], width-5))
		b.WriteString("\n")
	}
	return b.String()
}

// renderTags renders tag groups, translated when the setting asks for it
func (m Model) renderTags(tags []domain.Tag, width int) string {
	translate := m.State.Settings.Setting().TranslatesTags
	dict := m.State.Detail.Translator()

	var b strings.Builder
	for _, t := range tags {
		ns := t.Namespace
		values := make([]string, len(t.Values))
		for i, v := range t.Values {
			if translate {
				v = translator.TranslateTag(dict, t.Namespace, v)
			}
			values[i] = v
		}
		if translate {
			ns = dict.Translate(ns)
		}
		label := styles.AccentStyle.Render(fmt.Sprintf("%-10s", ns))
		b.WriteString(label + " " + wordWrap(strings.Join(values, ", "), max(width-11, 10)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderArchive renders the H@H archive grid and the account balance
func (m Model) renderArchive(height int) string {
	d := m.State.Detail
	archive, ok := d.Archives[m.selected.ID]

	var lines []string
	user := m.State.Settings.User()
	if user.CurrentGP != "" || user.CurrentCredits != "" {
		lines = append(lines, styles.DimStyle.Render(fmt.Sprintf("Funds: %s GP · %s Credits", user.CurrentGP, user.CurrentCredits)), "")
	}

	switch {
	case !ok && d.ArchiveLoading:
		lines = append(lines, m.spinner.View()+" Loading archives...")
	case !ok && d.ArchiveLoadFailed:
		lines = append(lines, styles.ErrorStyle.Render("Failed to load archives. Press r to retry."))
	case ok:
		for i, h := range archive.HathArchives {
			text := fmt.Sprintf("%-9s %10s %10s", h.Resolution, h.FileSize, h.GPPrice)
			style := styles.NormalItemStyle
			switch {
			case !h.Available():
				style = styles.DisabledItemStyle
			case i == m.archiveCursor:
				style = styles.SelectedItemStyle
			}
			if i == m.archiveCursor && !h.Available() {
				text = "> " + text
			}
			lines = append(lines, style.Render(text))
		}
	}

	lines = append(lines, "")
	switch {
	case d.DownloadCommandSending:
		lines = append(lines, m.spinner.View()+" Sending download request...")
	case d.DownloadCommandFailed:
		lines = append(lines, styles.ErrorStyle.Render("Download request failed."))
	case d.DownloadCommandResponse != "":
		lines = append(lines, styles.SuccessStyle.Render(domain.ProcessDownloadResponse(d.DownloadCommandResponse)))
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// renderLogs renders the list of log files
func (m Model) renderLogs(height int) string {
	l := m.State.Logs
	switch {
	case l.Loading && len(l.Logs) == 0:
		return m.spinner.View() + " Loading logs..."
	case l.LoadFailed && len(l.Logs) == 0:
		return styles.ErrorStyle.Render("Failed to read logs.")
	case len(l.Logs) == 0:
		return styles.DimStyle.Render("No logs.")
	}

	cursor := clamp(m.logCursor, len(l.Logs))
	start, end := window(cursor, len(l.Logs), height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		log := l.Logs[i]
		text := fmt.Sprintf("%-28s %6d lines  %s", log.FileName, len(log.Contents), log.ModTime.Format("2006-01-02 15:04"))
		style := styles.NormalItemStyle
		if i == cursor {
			style = styles.SelectedItemStyle
		}
		lines = append(lines, style.Width(m.Width).Render(text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLog() string {
	header := styles.DimStyle.Render(fmt.Sprintf("%s · %3.f%%", m.State.Logs.Route, m.logView.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.logView.View())
}

// renderLogLines renders the lines of a log for the viewport
func renderLogLines(log domain.Log, width int) string {
	lines := make([]string, len(log.Contents))
	for i, line := range log.Contents {
		lines[i] = styles.Truncate(line, width)
	}
	return strings.Join(lines, "\n")
}

// renderAccount renders the settings rows and cookies of both hosts
func (m Model) renderAccount() string {
	setting := m.State.Settings.Setting()
	user := m.State.Settings.User()
	acc := m.State.Account

	var lines []string
	if user.DisplayName != "" {
		lines = append(lines, styles.TitleStyle.Render(user.DisplayName))
	} else if acc.LoggedIn() {
		lines = append(lines, styles.DimStyle.Render("Logged in"))
	} else {
		lines = append(lines, styles.DimStyle.Render("Not logged in. Enter your cookies below."))
	}
	if g := user.Greeting; g != nil && g.UpdateTime != nil {
		lines = append(lines, styles.DimStyle.Render("Last greeting "+g.UpdateTime.Format("2006-01-02 15:04")))
	}
	lines = append(lines, "")

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	for i, row := range accountRows() {
		var text string
		switch row.kind {
		case rowHost:
			text = fmt.Sprintf("%-24s %s", "Gallery host", setting.GalleryHost)
		case rowGreeting:
			text = fmt.Sprintf("%-24s %s", "New dawn greeting", onOff(setting.ShowsNewDawnGreeting))
		case rowTranslate:
			text = fmt.Sprintf("%-24s %s", "Translate tags", onOff(setting.TranslatesTags))
		case rowPreviewRows:
			text = fmt.Sprintf("%-24s %d", "Preview rows", setting.PreviewRows)
		case rowCookie:
			value := acc.Cookies(row.host).Get(row.key)
			mark := styles.ValidMark
			if value.IsInvalid() {
				mark = styles.InvalidMark
			}
			text = fmt.Sprintf("%-24s %s %s", string(row.host)+" "+row.key, mark, maskCookie(value))
		}
		style := styles.NormalItemStyle
		if i == m.accountCursor {
			style = styles.SelectedItemStyle
		}
		lines = append(lines, style.Width(m.Width).Render(text))
	}

	if acc.CookiesLoadFailed {
		lines = append(lines, "", styles.ErrorStyle.Render("Failed to load cookies."))
	}
	return strings.Join(lines, "\n")
}

// maskCookie hides all but the edges of a cookie value
func maskCookie(v domain.CookieValue) string {
	s := string(v)
	if v.IsInvalid() {
		if s == "" {
			return styles.DimStyle.Render("(none)")
		}
		return styles.DimStyle.Render(s)
	}
	if len(s) <= 6 {
		return s
	}
	return s[:3] + strings.Repeat("•", min(len(s)-6, 16)) + s[len(s)-3:]
}

func renderConfirmLogout() string {
	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Log out?"),
		"Cookies and the stored profile will be removed.",
		"",
		styles.DimStyle.Render("y confirm · n cancel"),
	))
}

func renderGreeting(g domain.Greeting) string {
	var gains []string
	add := func(n int, unit string) {
		if n > 0 {
			gains = append(gains, fmt.Sprintf("+%d %s", n, unit))
		}
	}
	add(g.GainedEXP, "EXP")
	add(g.GainedCredits, "Credits")
	add(g.GainedGP, "GP")
	add(g.GainedHath, "Hath")

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Dawn of a new day"),
		"It is the dawn of a new day! You gain "+strings.Join(gains, ", ")+".",
		"",
		styles.DimStyle.Render("press any key"),
	))
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)
		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}
		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}
		result.WriteString(word)
		lineLen += wordLen
	}
	return result.String()
}
