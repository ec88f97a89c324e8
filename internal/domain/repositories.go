package domain

import (
	"context"
)

// GalleryRepository provides access to the gallery site
type GalleryRepository interface {
	// FetchList returns one page of a home list
	FetchList(ctx context.Context, req ListRequest) (ListPage, error)

	// FetchDetail returns the parsed gallery page
	FetchDetail(ctx context.Context, ref GalleryRef) (GalleryDetail, error)

	// FetchPreviews returns image index -> thumbnail URL for one preview page
	FetchPreviews(ctx context.Context, ref GalleryRef, previewPage int) (map[int]string, error)

	// FetchContents returns image index -> full image URL for one preview page
	FetchContents(ctx context.Context, ref GalleryRef, previewPage int) (map[int]string, error)

	// FetchMPVKeys returns the multi-page viewer keys of the gallery
	FetchMPVKeys(ctx context.Context, ref GalleryRef) (MPVKeys, error)

	// FetchArchive returns the H@H archive grid from the archiver page
	FetchArchive(ctx context.Context, archiveURL string) (Archive, error)

	// FetchArchiveFunds returns the account balance shown on the archiver page
	FetchArchiveFunds(ctx context.Context, archiveURL string) (Funds, error)

	// SendDownloadCommand asks the user's H@H client to download the archive
	// and returns the site's response text
	SendDownloadCommand(ctx context.Context, archiveURL string, res ArchiveRes) (string, error)

	// FetchUserInfo returns the profile of the member with the given id
	FetchUserInfo(ctx context.Context, memberID string) (UserUpdate, error)

	// FetchFavoriteNames returns the user's favorites folder names
	FetchFavoriteNames(ctx context.Context) (map[FavoritesCategory]string, error)

	// FetchGreeting returns today's greeting from the news page
	FetchGreeting(ctx context.Context) (Greeting, error)

	// ReverseSearch uploads an image and returns the best matching gallery
	ReverseSearch(ctx context.Context, fileName string, image []byte) (GalleryRef, error)
}

// HostSwitcher is implemented by gallery clients that can change the host
// they talk to at runtime
type HostSwitcher interface {
	SetHost(host GalleryHost)
}

// FileRepository manages the application's log files
type FileRepository interface {
	// FetchLogs returns every log, newest first
	FetchLogs(ctx context.Context) ([]Log, error)

	// DeleteLog removes the named log and returns its name
	DeleteLog(ctx context.Context, name string) (string, error)
}

// AppLauncher hands things off to other applications. Calls do not wait for
// the launched application.
type AppLauncher interface {
	OpenURL(url string) error
	OpenLogsFolder() error
}

// Clipboard writes to the system clipboard
type Clipboard interface {
	Copy(text string) error
}

// CookieRepository stores the authentication cookies of both hosts
type CookieRepository interface {
	Load(host GalleryHost) (CookiesState, error)
	Set(host GalleryHost, key string, value CookieValue) error
	Clear() error
}

// GalleryStateRepository persists per-gallery previews and contents
type GalleryStateRepository interface {
	LoadGalleryState(gid string) (GalleryState, error)
	SavePreviews(gid string, previews map[int]string) error
	SaveContents(gid string, contents map[int]string) error
}
