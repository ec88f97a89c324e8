package state

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Reduce applies a to s and returns the effect to run, or nil. It never
// performs I/O itself: network, file, clipboard and store access happen in
// the returned command.
func Reduce(s *AppState, a Action, env *Environment) tea.Cmd {
	switch a.(type) {
	case SetHomeSheet, SetSettingSheet, SetDetailSheet, SetHomeListType,
		SetFavoritesIndex, SetBlurRadius, SetAppUnlocked, ToggleSlideMenu,
		SetNavBarHidden, ReverseSearch, ReverseSearchDone:
		return reduceEnvironment(s, a, env)

	case FetchList, FetchMoreList, FetchListDone, Search, SetSearchKeyword,
		InsertHistoryKeyword, ClearHistoryKeywords:
		return reduceHome(s, a, env)

	case FetchDetail, FetchDetailDone, FetchPreviews, FetchPreviewsDone,
		FetchArchive, FetchArchiveDone, FetchArchiveFunds, FetchArchiveFundsDone,
		SendDownloadCommand, SendDownloadCommandDone, ResetDownloadCommandResponse,
		SetTranslator:
		return reduceDetail(s, a, env)

	case FetchContents, FetchContentsDone, FetchMPVKeys, FetchMPVKeysDone,
		LoadGalleryState, LoadGalleryStateDone:
		return reduceContent(s, a, env)

	case FetchUserInfo, FetchUserInfoDone, FetchFavoriteNames, FetchFavoriteNamesDone,
		FetchGreeting, FetchGreetingDone, UpdateUser, InsertGreeting, SetFilter,
		ResetFilter, SetSetting, SetGalleryHost:
		return reduceSettings(s, a, env)

	case SetLogsRoute, FetchLogs, FetchLogsDone, DeleteLog, DeleteLogDone, OpenLogsFolder:
		return reduceLogs(s, a, env)

	case SetAccountRoute, LoadCookies, LoadCookiesDone, SetCookie, CopyCookies,
		CopyCookiesDone, ConfirmLogout, OpenInBrowser:
		return reduceAccount(s, a, env)
	}
	return nil
}
