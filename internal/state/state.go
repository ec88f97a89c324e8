package state

import (
	"log/slog"

	"github.com/mmcdole/panda/internal/domain"
)

// AppState is the root of the state tree. It is owned by a single goroutine
// and mutated only by Reduce.
type AppState struct {
	Environment EnvironmentState
	Settings    Settings
	Home        HomeInfo
	Detail      DetailInfo
	Content     ContentInfo
	Logs        LogsState
	Account     AccountState
}

// New builds the initial state. Persisted fields are read from slots on first
// access; a nil SettingsStore keeps them in memory only.
func New(slots SettingsStore, logger *slog.Logger) *AppState {
	sl := newSlotStore(slots, logger)
	s := &AppState{
		Environment: EnvironmentState{
			IsAppUnlocked:     true,
			IsSlideMenuClosed: true,
			HomeListType:      domain.ListFrontpage,
			FavoritesIndex:    domain.FavoritesAll,
		},
		Settings: newSettings(sl),
		Home:     newHomeInfo(sl),
		Detail:   newDetailInfo(sl),
		Content:  newContentInfo(),
		Account: AccountState{
			EHCookies: domain.EmptyCookiesState(domain.HostEHentai),
			EXCookies: domain.EmptyCookiesState(domain.HostExHentai),
		},
	}
	s.Detail.PreviewConfig = domain.PreviewConfig{Rows: s.Settings.Setting().PreviewRows}
	return s
}

// HomeSheet is the sheet presented over the home view
type HomeSheet int

const (
	HomeSheetNone HomeSheet = iota
	HomeSheetFilter
	HomeSheetSetting
	HomeSheetNewDawn
)

// SettingSheet is the sheet presented over the settings view
type SettingSheet int

const (
	SettingSheetNone SettingSheet = iota
	SettingSheetAccount
	SettingSheetLogs
	SettingSheetTranslator
)

// DetailSheet is the sheet presented over the detail view
type DetailSheet int

const (
	DetailSheetNone DetailSheet = iota
	DetailSheetArchive
	DetailSheetTags
	DetailSheetPreviews
)

// EnvironmentState holds UI-only flags. It is never persisted.
type EnvironmentState struct {
	IsAppUnlocked     bool
	BlurRadius        float64
	IsSlideMenuClosed bool
	NavBarHidden      bool
	HomeListType      domain.ListType
	FavoritesIndex    domain.FavoritesCategory

	HomeSheet    HomeSheet
	SettingSheet SettingSheet
	DetailSheet  DetailSheet

	ReverseSearchID         string
	ReverseSearchLoading    bool
	ReverseSearchLoadFailed bool
}

// CurrentList returns the key of the list the home view shows
func (e EnvironmentState) CurrentList() domain.ListKey {
	return domain.ListKey{Type: e.HomeListType, Favorites: e.FavoritesIndex}
}

// Settings holds the user, filter and app setting slots plus the flags of
// the requests that refresh them
type Settings struct {
	UserInfoLoading         bool
	UserInfoLoadFailed      bool
	FavoriteNamesLoading    bool
	FavoriteNamesLoadFailed bool
	GreetingLoading         bool
	GreetingLoadFailed      bool

	user    persisted[domain.User]
	filter  persisted[domain.Filter]
	setting persisted[domain.Setting]
}

func newSettings(sl *slotStore) Settings {
	return Settings{
		user:    newPersisted(sl, slotUser, func() domain.User { return domain.User{} }),
		filter:  newPersisted(sl, slotFilter, domain.DefaultFilter),
		setting: newPersisted(sl, slotSetting, domain.DefaultSetting),
	}
}

func (s *Settings) User() domain.User       { return s.user.get() }
func (s *Settings) Filter() domain.Filter   { return s.filter.get() }
func (s *Settings) Setting() domain.Setting { return s.setting.get() }

// SettingStored reports whether the app setting came from the settings store
// rather than the defaults
func (s *Settings) SettingStored() bool {
	s.setting.get()
	return s.setting.stored
}

// UpdateUser applies the present fields of u. GP and credits are only taken
// together.
func (s *Settings) UpdateUser(u domain.UserUpdate) {
	user := s.User()
	if u.DisplayName != nil {
		user.DisplayName = *u.DisplayName
	}
	if u.AvatarURL != nil {
		user.AvatarURL = *u.AvatarURL
	}
	if u.CurrentGP != nil && u.CurrentCredits != nil {
		user.CurrentGP = *u.CurrentGP
		user.CurrentCredits = *u.CurrentCredits
	}
	s.user.set(user)
}

// InsertGreeting stores g when the slot is empty or g is strictly newer.
// Greetings without an update time are dropped.
func (s *Settings) InsertGreeting(g domain.Greeting) {
	user := s.User()
	if !g.Newer(user.Greeting) {
		return
	}
	user.Greeting = &g
	s.user.set(user)
}

func (s *Settings) setFavoriteNames(names map[domain.FavoritesCategory]string) {
	user := s.User()
	user.FavoriteNames = names
	s.user.set(user)
}

func (s *Settings) clearUser()                   { s.user.set(domain.User{}) }
func (s *Settings) setFilter(f domain.Filter)    { s.filter.set(f) }
func (s *Settings) setSetting(st domain.Setting) { s.setting.set(st) }

// HistoryLimit bounds the number of remembered search keywords
const HistoryLimit = 10

// ListState is the loading and pagination state of one gallery list
type ListState struct {
	Items          []domain.Gallery
	Loading        bool
	NotFound       bool
	LoadFailed     bool
	MoreLoading    bool
	MoreLoadFailed bool
	CurrentPage    int // zero-based
	MaxPage        int // number of pages known to exist
	Generation     uint64
}

func newListState() ListState {
	return ListState{MaxPage: 1}
}

// HasMore reports whether another page can be requested
func (l ListState) HasMore() bool {
	return l.CurrentPage+1 < l.MaxPage
}

// insert appends items that are not already present
func (l *ListState) insert(items []domain.Gallery) {
	for _, g := range items {
		if !containsGallery(l.Items, g) {
			l.Items = append(l.Items, g)
		}
	}
}

func containsGallery(items []domain.Gallery, g domain.Gallery) bool {
	for _, it := range items {
		if it.Equal(g) {
			return true
		}
	}
	return false
}

// HomeInfo holds every home list and the search history
type HomeInfo struct {
	SearchKeyword string

	Search    ListState
	Frontpage ListState
	Popular   ListState
	Watched   ListState
	Favorites [domain.FavoritesCategoryCount]ListState

	historyKeywords persisted[[]string]
}

func newHomeInfo(sl *slotStore) HomeInfo {
	h := HomeInfo{
		Search:          newListState(),
		Frontpage:       newListState(),
		Popular:         newListState(),
		Watched:         newListState(),
		historyKeywords: newPersisted(sl, slotHistoryKeywords, func() []string { return nil }),
	}
	for i := range h.Favorites {
		h.Favorites[i] = newListState()
	}
	return h
}

// List returns the state of the list addressed by key, or nil when the key
// names no list
func (h *HomeInfo) List(key domain.ListKey) *ListState {
	switch key.Type {
	case domain.ListSearch:
		return &h.Search
	case domain.ListFrontpage:
		return &h.Frontpage
	case domain.ListPopular:
		return &h.Popular
	case domain.ListWatched:
		return &h.Watched
	case domain.ListFavorites:
		if !key.Favorites.Valid() {
			return nil
		}
		return &h.Favorites[key.Favorites.Index()]
	}
	return nil
}

// HistoryKeywords returns recent keywords, least recently used first
func (h *HomeInfo) HistoryKeywords() []string {
	return append([]string(nil), h.historyKeywords.get()...)
}

// InsertHistoryKeyword records text as the most recent keyword
func (h *HomeInfo) InsertHistoryKeyword(text string) {
	if text == "" {
		return
	}
	keywords := h.HistoryKeywords()
	if i := indexOf(keywords, text); i >= 0 {
		if i == len(keywords)-1 {
			return
		}
		keywords = append(keywords[:i], keywords[i+1:]...)
	}
	keywords = append(keywords, text)
	if overflow := len(keywords) - HistoryLimit; overflow > 0 {
		keywords = keywords[overflow:]
	}
	h.historyKeywords.set(keywords)
}

func (h *HomeInfo) clearHistoryKeywords() {
	h.historyKeywords.set(nil)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// DetailInfo holds per-gallery detail, preview and archive state. Maps are
// keyed by gid.
type DetailInfo struct {
	DetailLoading    map[string]bool
	DetailLoadFailed map[string]bool
	Details          map[string]domain.GalleryDetail

	Previews           map[string]map[int]string // gid -> image index -> thumbnail URL
	PreviewsLoading    map[string]map[int]bool   // gid -> preview page -> loading
	PreviewsLoadFailed map[string]map[int]bool
	PreviewConfig      domain.PreviewConfig

	Archives               map[string]domain.Archive
	ArchiveLoading         bool
	ArchiveLoadFailed      bool
	ArchiveFundsLoading    bool
	ArchiveFundsLoadFailed bool

	DownloadCommandSending  bool
	DownloadCommandFailed   bool
	DownloadCommandResponse string

	translator persisted[domain.Translator]
}

func newDetailInfo(sl *slotStore) DetailInfo {
	return DetailInfo{
		DetailLoading:      make(map[string]bool),
		DetailLoadFailed:   make(map[string]bool),
		Details:            make(map[string]domain.GalleryDetail),
		Previews:           make(map[string]map[int]string),
		PreviewsLoading:    make(map[string]map[int]bool),
		PreviewsLoadFailed: make(map[string]map[int]bool),
		PreviewConfig:      domain.PreviewConfig{Rows: domain.DefaultPreviewRows},
		Archives:           make(map[string]domain.Archive),
		translator:         newPersisted(sl, slotTranslator, func() domain.Translator { return domain.Translator{} }),
	}
}

func (d *DetailInfo) Translator() domain.Translator     { return d.translator.get() }
func (d *DetailInfo) setTranslator(t domain.Translator) { d.translator.set(t) }

// UpdatePreviews merges previews into the gallery's map; stored keys win
func (d *DetailInfo) UpdatePreviews(gid string, previews map[int]string) {
	mergeInto(d.Previews, gid, previews)
}

// ContentInfo holds per-gallery image state. Maps are keyed by gid.
type ContentInfo struct {
	MPVKeys           map[string]string
	MPVKeysLoading    map[string]bool
	MPVKeysLoadFailed map[string]bool
	MPVImageKeys      map[string]map[int]string
	MPVImageLoading   map[string]map[int]bool

	Contents           map[string]map[int]string // gid -> image index -> image URL
	ContentsLoading    map[string]map[int]bool   // gid -> preview page -> loading
	ContentsLoadFailed map[string]map[int]bool
}

func newContentInfo() ContentInfo {
	return ContentInfo{
		MPVKeys:            make(map[string]string),
		MPVKeysLoading:     make(map[string]bool),
		MPVKeysLoadFailed:  make(map[string]bool),
		MPVImageKeys:       make(map[string]map[int]string),
		MPVImageLoading:    make(map[string]map[int]bool),
		Contents:           make(map[string]map[int]string),
		ContentsLoading:    make(map[string]map[int]bool),
		ContentsLoadFailed: make(map[string]map[int]bool),
	}
}

// UpdateContents merges contents into the gallery's map; stored keys win
func (c *ContentInfo) UpdateContents(gid string, contents map[int]string) {
	mergeInto(c.Contents, gid, contents)
}

// mergeInto merges incoming into m[gid]. Keys already stored are kept.
func mergeInto(m map[string]map[int]string, gid string, incoming map[int]string) {
	if len(incoming) == 0 {
		return
	}
	stored := m[gid]
	if stored == nil {
		stored = make(map[int]string, len(incoming))
		m[gid] = stored
	}
	for k, v := range incoming {
		if _, ok := stored[k]; !ok {
			stored[k] = v
		}
	}
}

func setFlag(m map[string]map[int]bool, gid string, key int, v bool) {
	inner := m[gid]
	if inner == nil {
		if !v {
			return
		}
		inner = make(map[int]bool)
		m[gid] = inner
	}
	if v {
		inner[key] = true
	} else {
		delete(inner, key)
	}
}

// LogsState is the state of the log browser
type LogsState struct {
	Route        string // file name of the log being viewed, empty for the list
	Logs         []domain.Log
	Loading      bool
	LoadFailed   bool
	DeleteFailed bool
}

// SelectedLog returns the routed log
func (l LogsState) SelectedLog() (domain.Log, bool) {
	if l.Route == "" {
		return domain.Log{}, false
	}
	for _, lg := range l.Logs {
		if lg.FileName == l.Route {
			return lg, true
		}
	}
	return domain.Log{}, false
}

// AccountRouteKind selects what the account view presents
type AccountRouteKind int

const (
	AccountRouteNone AccountRouteKind = iota
	AccountRouteLogin
	AccountRouteLogout
	AccountRouteConfiguration
	AccountRouteWebPage
	AccountRouteHUD
)

// AccountRoute is the current account view route. URL is set for web
// pages, Message for HUDs.
type AccountRoute struct {
	Kind    AccountRouteKind
	URL     string
	Message string
}

// AccountState is the state of the account view
type AccountState struct {
	Route AccountRoute

	EHCookies         domain.CookiesState
	EXCookies         domain.CookiesState
	CookiesLoading    bool
	CookiesLoadFailed bool
}

// Cookies returns the cookie state of host
func (a *AccountState) Cookies(host domain.GalleryHost) *domain.CookiesState {
	if host == domain.HostExHentai {
		return &a.EXCookies
	}
	return &a.EHCookies
}

// LoggedIn reports whether the E-Hentai cookies look usable
func (a AccountState) LoggedIn() bool {
	return a.EHCookies.Valid()
}
