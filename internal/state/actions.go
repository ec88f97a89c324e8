package state

import (
	"github.com/mmcdole/panda/internal/domain"
)

// Action is an event that may change the state. The set is closed: only
// types in this package implement it.
type Action interface {
	action()
}

// AccountCookies is the cookie state of both hosts
type AccountCookies struct {
	EH domain.CookiesState
	EX domain.CookiesState
}

// Unit is the value of results that carry no payload
type Unit struct{}

// === Navigation ===

type (
	SetHomeSheet      struct{ Sheet HomeSheet }
	SetSettingSheet   struct{ Sheet SettingSheet }
	SetDetailSheet    struct{ Sheet DetailSheet }
	SetLogsRoute      struct{ FileName string }
	SetAccountRoute   struct{ Route AccountRoute }
	SetHomeListType   struct{ Type domain.ListType }
	SetFavoritesIndex struct{ Category domain.FavoritesCategory }
	SetBlurRadius     struct{ Radius float64 }
	SetAppUnlocked    struct{ Unlocked bool }
	ToggleSlideMenu   struct{}
	SetNavBarHidden   struct{ Hidden bool }
)

func (SetHomeSheet) action()      {}
func (SetSettingSheet) action()   {}
func (SetDetailSheet) action()    {}
func (SetLogsRoute) action()      {}
func (SetAccountRoute) action()   {}
func (SetHomeListType) action()   {}
func (SetFavoritesIndex) action() {}
func (SetBlurRadius) action()     {}
func (SetAppUnlocked) action()    {}
func (ToggleSlideMenu) action()   {}
func (SetNavBarHidden) action()   {}

// === Home lists ===

// FetchList loads a page of a list. Page 0 replaces the list, later pages
// append to it.
type FetchList struct {
	List domain.ListKey
	Page int
}

// FetchMoreList loads the page after the list's current page
type FetchMoreList struct {
	List domain.ListKey
}

// FetchListDone carries a list page. Generation is the list generation the
// request was issued under.
type FetchListDone struct {
	List       domain.ListKey
	Page       int
	Generation uint64
	Result     Result[domain.ListPage]
}

// Search sets the keyword, records it in the history and loads the first
// search page
type Search struct {
	Keyword string
}

type (
	SetSearchKeyword     struct{ Keyword string }
	InsertHistoryKeyword struct{ Keyword string }
	ClearHistoryKeywords struct{}
)

func (FetchList) action()            {}
func (FetchMoreList) action()        {}
func (FetchListDone) action()        {}
func (Search) action()               {}
func (SetSearchKeyword) action()     {}
func (InsertHistoryKeyword) action() {}
func (ClearHistoryKeywords) action() {}

// === Detail ===

type (
	FetchDetail     struct{ Ref domain.GalleryRef }
	FetchDetailDone struct {
		GID    string
		Result Result[domain.GalleryDetail]
	}

	// FetchPreviews loads the thumbnails of one preview page
	FetchPreviews struct {
		Ref  domain.GalleryRef
		Page int
	}
	FetchPreviewsDone struct {
		GID    string
		Page   int
		Result Result[map[int]string]
	}

	FetchArchive     struct{ Ref domain.GalleryRef }
	FetchArchiveDone struct {
		GID    string
		Result Result[domain.Archive]
	}
	FetchArchiveFunds     struct{ Ref domain.GalleryRef }
	FetchArchiveFundsDone struct {
		Result Result[domain.Funds]
	}

	SendDownloadCommand struct {
		Ref        domain.GalleryRef
		Resolution domain.ArchiveRes
	}
	SendDownloadCommandDone struct {
		Result Result[string]
	}
	ResetDownloadCommandResponse struct{}

	SetTranslator struct{ Translator domain.Translator }

	// ReverseSearch looks up the gallery an image belongs to
	ReverseSearch struct {
		FileName string
		Image    []byte
	}
	ReverseSearchDone struct {
		Result Result[domain.GalleryRef]
	}
)

func (FetchDetail) action()                  {}
func (FetchDetailDone) action()              {}
func (FetchPreviews) action()                {}
func (FetchPreviewsDone) action()            {}
func (FetchArchive) action()                 {}
func (FetchArchiveDone) action()             {}
func (FetchArchiveFunds) action()            {}
func (FetchArchiveFundsDone) action()        {}
func (SendDownloadCommand) action()          {}
func (SendDownloadCommandDone) action()      {}
func (ResetDownloadCommandResponse) action() {}
func (SetTranslator) action()                {}
func (ReverseSearch) action()                {}
func (ReverseSearchDone) action()            {}

// === Content ===

type (
	// FetchContents resolves the full images of one preview page
	FetchContents struct {
		Ref  domain.GalleryRef
		Page int
	}
	FetchContentsDone struct {
		GID    string
		Page   int
		Result Result[map[int]string]
	}

	FetchMPVKeys     struct{ Ref domain.GalleryRef }
	FetchMPVKeysDone struct {
		GID    string
		Result Result[domain.MPVKeys]
	}

	// LoadGalleryState fills the preview and content caches of a gallery
	// from the gallery state store
	LoadGalleryState     struct{ GID string }
	LoadGalleryStateDone struct {
		GID    string
		Result Result[domain.GalleryState]
	}
)

func (FetchContents) action()        {}
func (FetchContentsDone) action()    {}
func (FetchMPVKeys) action()         {}
func (FetchMPVKeysDone) action()     {}
func (LoadGalleryState) action()     {}
func (LoadGalleryStateDone) action() {}

// === Settings ===

type (
	FetchUserInfo     struct{}
	FetchUserInfoDone struct {
		Result Result[domain.UserUpdate]
	}
	FetchFavoriteNames     struct{}
	FetchFavoriteNamesDone struct {
		Result Result[map[domain.FavoritesCategory]string]
	}
	FetchGreeting     struct{}
	FetchGreetingDone struct {
		Result Result[domain.Greeting]
	}

	UpdateUser     struct{ Update domain.UserUpdate }
	InsertGreeting struct{ Greeting domain.Greeting }
	SetFilter      struct{ Filter domain.Filter }
	ResetFilter    struct{}
	SetSetting     struct{ Setting domain.Setting }
	SetGalleryHost struct{ Host domain.GalleryHost }
)

func (FetchUserInfo) action()          {}
func (FetchUserInfoDone) action()      {}
func (FetchFavoriteNames) action()     {}
func (FetchFavoriteNamesDone) action() {}
func (FetchGreeting) action()          {}
func (FetchGreetingDone) action()      {}
func (UpdateUser) action()             {}
func (InsertGreeting) action()         {}
func (SetFilter) action()              {}
func (ResetFilter) action()            {}
func (SetSetting) action()             {}
func (SetGalleryHost) action()         {}

// === Logs ===

type (
	FetchLogs     struct{}
	FetchLogsDone struct {
		Result Result[[]domain.Log]
	}
	DeleteLog     struct{ FileName string }
	DeleteLogDone struct {
		Result Result[string]
	}
	OpenLogsFolder struct{}
)

func (FetchLogs) action()      {}
func (FetchLogsDone) action()  {}
func (DeleteLog) action()      {}
func (DeleteLogDone) action()  {}
func (OpenLogsFolder) action() {}

// === Account ===

type (
	LoadCookies     struct{}
	LoadCookiesDone struct {
		Result Result[AccountCookies]
	}
	SetCookie struct {
		Host  domain.GalleryHost
		Key   string
		Value domain.CookieValue
	}
	CopyCookies     struct{ Host domain.GalleryHost }
	CopyCookiesDone struct {
		Host   domain.GalleryHost
		Result Result[Unit]
	}
	// ConfirmLogout clears cookies and the stored user
	ConfirmLogout struct{}
	OpenInBrowser struct{ URL string }
)

func (LoadCookies) action()     {}
func (LoadCookiesDone) action() {}
func (SetCookie) action()       {}
func (CopyCookies) action()     {}
func (CopyCookiesDone) action() {}
func (ConfirmLogout) action()   {}
func (OpenInBrowser) action()   {}
