package ehentai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/panda/internal/domain"
)

func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c, err := NewClient(Options{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
		Logger:  slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, server
}

// captured records values seen by a handler goroutine
type captured struct {
	mu   sync.Mutex
	vals map[string]string
}

func (c *captured) set(k, v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vals == nil {
		c.vals = map[string]string{}
	}
	c.vals[k] = v
}

func (c *captured) get(k string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vals[k]
}

func serve(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, body)
	}
}

func TestFetchList_ParsesCompactTable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", serve(listHTML))
	c, _ := newTestClient(t, mux)

	page, err := c.FetchList(context.Background(), domain.ListRequest{
		Key:    domain.ListKey{Type: domain.ListFrontpage},
		Filter: domain.DefaultFilter(),
	})
	if err != nil {
		t.Fatalf("FetchList: %v", err)
	}

	want := domain.ListPage{
		Items: []domain.Gallery{
			{
				ID:        "123",
				Token:     "abcdef",
				Title:     "First Gallery",
				Category:  domain.CategoryDoujinshi,
				Uploader:  "alice",
				Rating:    3.5,
				PageCount: 42,
				Language:  "english",
				PostedAt:  time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
				CoverURL:  "https://ehgt.org/cover1.jpg",
			},
			{
				ID:        "456",
				Token:     "0f0f0f",
				Title:     "Second Gallery",
				Category:  domain.CategoryWestern,
				Uploader:  "bob",
				Rating:    5,
				PageCount: 1,
				PostedAt:  time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC),
				CoverURL:  "https://ehgt.org/cover2.jpg",
			},
		},
		CurrentPage: 0,
		MaxPage:     12,
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Errorf("page mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchList_RequestURLs(t *testing.T) {
	var (
		mu   sync.Mutex
		last *url.URL
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		last = r.URL
		mu.Unlock()
		io.WriteString(w, listHTML)
	})
	c, _ := newTestClient(t, mux)

	tests := []struct {
		name      string
		req       domain.ListRequest
		wantPath  string
		wantQuery url.Values
	}{
		{
			name: "search",
			req: domain.ListRequest{
				Key:     domain.ListKey{Type: domain.ListSearch},
				Keyword: "foo bar",
				Filter:  domain.DefaultFilter(),
				Page:    2,
			},
			wantPath: "/",
			wantQuery: url.Values{
				"f_search":  {"foo bar"},
				"page":      {"2"},
				"f_sname":   {"on"},
				"f_stags":   {"on"},
				"advsearch": {"1"},
			},
		},
		{
			name:      "popular ignores page",
			req:       domain.ListRequest{Key: domain.ListKey{Type: domain.ListPopular}, Page: 3},
			wantPath:  "/popular",
			wantQuery: url.Values{},
		},
		{
			name: "favorites category",
			req: domain.ListRequest{
				Key:  domain.ListKey{Type: domain.ListFavorites, Favorites: 3},
				Page: 1,
			},
			wantPath:  "/favorites.php",
			wantQuery: url.Values{"favcat": {"3"}, "page": {"1"}},
		},
		{
			name:      "all favorites",
			req:       domain.ListRequest{Key: domain.ListKey{Type: domain.ListFavorites, Favorites: domain.FavoritesAll}},
			wantPath:  "/favorites.php",
			wantQuery: url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.FetchList(context.Background(), tt.req); err != nil {
				t.Fatalf("FetchList: %v", err)
			}
			mu.Lock()
			got := last
			mu.Unlock()
			if got.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", got.Path, tt.wantPath)
			}
			if diff := cmp.Diff(tt.wantQuery, got.Query()); diff != "" {
				t.Errorf("query mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchList_PopularIsSinglePage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/popular", serve(listHTML))
	c, _ := newTestClient(t, mux)

	page, err := c.FetchList(context.Background(), domain.ListRequest{Key: domain.ListKey{Type: domain.ListPopular}})
	if err != nil {
		t.Fatalf("FetchList: %v", err)
	}
	if page.CurrentPage != 0 || page.MaxPage != 1 {
		t.Errorf("pages = %d/%d, want 0/1", page.CurrentPage, page.MaxPage)
	}
}

func TestFetchDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/g/1/t/", serve(detailHTML))
	c, server := newTestClient(t, mux)

	d, err := c.FetchDetail(context.Background(), domain.GalleryRef{ID: "1", Token: "t"})
	if err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}

	want := domain.GalleryDetail{
		Gallery: domain.Gallery{
			ID:        "1",
			Token:     "t",
			Title:     "English Title",
			Category:  domain.CategoryManga,
			Uploader:  "bob",
			Rating:    4.56,
			PageCount: 24,
			Language:  "japanese",
			PostedAt:  time.Date(2023, 5, 6, 7, 8, 0, 0, time.UTC),
			CoverURL:  "https://ehgt.org/c.jpg",
		},
		JapaneseTitle: "日本語タイトル",
		Parent:        "None",
		Visible:       "Yes",
		FileSize:      "12.3 MiB",
		FavoritedBy:   1234,
		RatingCount:   321,
		ArchiveURL:    server.URL + "/archiver.php?gid=1&token=t&or=abc",
		Tags: []domain.Tag{
			{Namespace: "artist", Values: []string{"alice", "carol"}},
			{Namespace: "female", Values: []string{"glasses"}},
		},
		PreviewPages: 3,
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("detail mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchPreviews(t *testing.T) {
	var seen captured
	mux := http.NewServeMux()
	mux.HandleFunc("/g/1/t/", func(w http.ResponseWriter, r *http.Request) {
		seen.set("p", r.URL.Query().Get("p"))
		io.WriteString(w, detailHTML)
	})
	c, _ := newTestClient(t, mux)

	previews, err := c.FetchPreviews(context.Background(), domain.GalleryRef{ID: "1", Token: "t"}, 2)
	if err != nil {
		t.Fatalf("FetchPreviews: %v", err)
	}
	want := map[int]string{1: "https://ehgt.org/t/1.webp", 2: "https://ehgt.org/t/2.jpg"}
	if diff := cmp.Diff(want, previews); diff != "" {
		t.Errorf("previews mismatch (-want +got):\n%s", diff)
	}
	if p := seen.get("p"); p != "2" {
		t.Errorf("requested preview page %q, want 2", p)
	}
}

func TestFetchContents_FollowsImagePages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/g/1/t/", serve(detailHTML))
	mux.HandleFunc("/s/aaa111/1-1", serve(`<html><body><img id="img" src="https://img.example/1.jpg"></body></html>`))
	mux.HandleFunc("/s/bbb222/1-2", serve(`<html><body><img id="img" src="https://img.example/2.jpg"></body></html>`))
	c, _ := newTestClient(t, mux)

	contents, err := c.FetchContents(context.Background(), domain.GalleryRef{ID: "1", Token: "t"}, 0)
	if err != nil {
		t.Fatalf("FetchContents: %v", err)
	}
	want := map[int]string{1: "https://img.example/1.jpg", 2: "https://img.example/2.jpg"}
	if diff := cmp.Diff(want, contents); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchContents_FailsWhenAnImagePageFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/g/1/t/", serve(detailHTML))
	mux.HandleFunc("/s/aaa111/1-1", serve(`<html><body><img id="img" src="https://img.example/1.jpg"></body></html>`))
	c, _ := newTestClient(t, mux)

	_, err := c.FetchContents(context.Background(), domain.GalleryRef{ID: "1", Token: "t"}, 0)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchMPVKeys(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mpv/1/t/", serve(mpvHTML))
	c, _ := newTestClient(t, mux)

	keys, err := c.FetchMPVKeys(context.Background(), domain.GalleryRef{ID: "1", Token: "t"})
	if err != nil {
		t.Fatalf("FetchMPVKeys: %v", err)
	}
	want := domain.MPVKeys{Key: "mk123", ImageKeys: map[int]string{1: "k1", 2: "k2"}}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchMPVKeys_Missing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/mpv/1/t/", serve(`<html><body>nothing</body></html>`))
	c, _ := newTestClient(t, mux)

	if _, err := c.FetchMPVKeys(context.Background(), domain.GalleryRef{ID: "1", Token: "t"}); !errors.Is(err, domain.ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestArchive(t *testing.T) {
	var seen captured
	mux := http.NewServeMux()
	mux.HandleFunc("/archiver.php", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			seen.set("res", r.FormValue("hathdl_xres"))
			io.WriteString(w, downloadHTML)
			return
		}
		io.WriteString(w, archiveHTML)
	})
	c, server := newTestClient(t, mux)
	archiveURL := server.URL + "/archiver.php?gid=1&token=t&or=abc"
	ctx := context.Background()

	t.Run("grid", func(t *testing.T) {
		archive, err := c.FetchArchive(ctx, archiveURL)
		if err != nil {
			t.Fatalf("FetchArchive: %v", err)
		}
		want := domain.Archive{HathArchives: []domain.HathArchive{
			{Resolution: domain.Res780, FileSize: "29.09 MiB", GPPrice: "Free!"},
			{Resolution: domain.Res980, FileSize: "N/A", GPPrice: "N/A"},
			{Resolution: domain.ResOriginal, FileSize: "120 MiB", GPPrice: "1,234 GP"},
		}}
		if diff := cmp.Diff(want, archive); diff != "" {
			t.Errorf("archive mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("funds", func(t *testing.T) {
		funds, err := c.FetchArchiveFunds(ctx, archiveURL)
		if err != nil {
			t.Fatalf("FetchArchiveFunds: %v", err)
		}
		if diff := cmp.Diff(domain.Funds{GP: "5,678", Credits: "90"}, funds); diff != "" {
			t.Errorf("funds mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("download", func(t *testing.T) {
		resp, err := c.SendDownloadCommand(ctx, archiveURL, domain.Res1280)
		if err != nil {
			t.Fatalf("SendDownloadCommand: %v", err)
		}
		if res := seen.get("res"); res != "1280" {
			t.Errorf("hathdl_xres = %q, want 1280", res)
		}
		if got := domain.ProcessDownloadResponse(resp); got != "1280x -> MyClient" {
			t.Errorf("processed response = %q", got)
		}
	})
}

func TestFetchUserInfo(t *testing.T) {
	var seen captured
	mux := http.NewServeMux()
	mux.HandleFunc("/index.php", func(w http.ResponseWriter, r *http.Request) {
		seen.set("showuser", r.URL.Query().Get("showuser"))
		io.WriteString(w, profileHTML)
	})
	c, _ := newTestClient(t, mux)

	update, err := c.FetchUserInfo(context.Background(), "42")
	if err != nil {
		t.Fatalf("FetchUserInfo: %v", err)
	}
	if member := seen.get("showuser"); member != "42" {
		t.Errorf("showuser = %q", member)
	}
	if update.DisplayName == nil || *update.DisplayName != "Alice" {
		t.Errorf("DisplayName = %v", update.DisplayName)
	}
	if update.AvatarURL == nil || *update.AvatarURL != "https://forums.e-hentai.org/uploads/av-42.jpg" {
		t.Errorf("AvatarURL = %v", update.AvatarURL)
	}
	if update.CurrentGP != nil || update.CurrentCredits != nil {
		t.Error("profile must not touch funds")
	}
}

func TestFetchFavoriteNames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uconfig.php", serve(uconfigHTML))
	c, _ := newTestClient(t, mux)

	names, err := c.FetchFavoriteNames(context.Background())
	if err != nil {
		t.Fatalf("FetchFavoriteNames: %v", err)
	}
	want := map[domain.FavoritesCategory]string{0: "Faves", 9: "Last"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchGreeting(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/news.php", serve(newsHTML))
	c, _ := newTestClient(t, mux)
	now := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	c.now = func() time.Time { return now }

	g, err := c.FetchGreeting(context.Background())
	if err != nil {
		t.Fatalf("FetchGreeting: %v", err)
	}
	want := domain.Greeting{GainedEXP: 30, GainedCredits: 10393, GainedGP: 10000, GainedHath: 11, UpdateTime: &now}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("greeting mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchGreeting_NoEventPane(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/news.php", serve(`<html><body><div id="newsinner">news</div></body></html>`))
	c, _ := newTestClient(t, mux)

	if _, err := c.FetchGreeting(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReverseSearch(t *testing.T) {
	var seen captured
	mux := http.NewServeMux()
	mux.HandleFunc("/image_lookup.php", func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("sfile")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		seen.set("name", header.Filename)
		seen.set("image", string(data))
		if r.FormValue("fs_similar") != "on" {
			http.Error(w, "missing fs_similar", http.StatusBadRequest)
			return
		}
		io.WriteString(w, listHTML)
	})
	c, _ := newTestClient(t, mux)

	ref, err := c.ReverseSearch(context.Background(), "cover.jpg", []byte("jpegdata"))
	if err != nil {
		t.Fatalf("ReverseSearch: %v", err)
	}
	if diff := cmp.Diff(domain.GalleryRef{ID: "123", Token: "abcdef"}, ref); diff != "" {
		t.Errorf("ref mismatch (-want +got):\n%s", diff)
	}
	if name, image := seen.get("name"), seen.get("image"); name != "cover.jpg" || image != "jpegdata" {
		t.Errorf("upload = %q %q", name, image)
	}
}

func TestReverseSearch_NoMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/image_lookup.php", serve(`<html><body><p>No hits found</p></body></html>`))
	c, _ := newTestClient(t, mux)

	if _, err := c.ReverseSearch(context.Background(), "a.png", []byte("x")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDoRequest_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/g/missing/t/", http.NotFound)
	mux.HandleFunc("/g/empty/t/", func(http.ResponseWriter, *http.Request) {})
	mux.HandleFunc("/g/removed/t/", serve(`<html><body><p>Key missing, or incorrect key provided.</p></body></html>`))
	c, server := newTestClient(t, mux)
	ctx := context.Background()

	tests := []struct {
		id   string
		want error
	}{
		{"missing", domain.ErrNotFound},
		{"empty", domain.ErrAuthFailed},
		{"removed", domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := c.FetchDetail(ctx, domain.GalleryRef{ID: tt.id, Token: "t"})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("offline", func(t *testing.T) {
		server.Close()
		_, err := c.FetchDetail(ctx, domain.GalleryRef{ID: "1", Token: "t"})
		if !errors.Is(err, domain.ErrNetwork) {
			t.Errorf("err = %v, want ErrNetwork", err)
		}
	})
}

func TestUpdateCookies(t *testing.T) {
	var (
		mu     sync.Mutex
		member string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/uconfig.php", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		member = ""
		if ck, err := r.Cookie(domain.CookieMemberID); err == nil {
			member = ck.Value
		}
		mu.Unlock()
		io.WriteString(w, uconfigHTML)
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	cookies := domain.EmptyCookiesState(domain.HostEHentai)
	cookies.Cookies[0].Value = "42"
	c.UpdateCookies(cookies)
	if _, err := c.FetchFavoriteNames(ctx); err != nil {
		t.Fatalf("FetchFavoriteNames: %v", err)
	}
	mu.Lock()
	if member != "42" {
		t.Errorf("sent member id %q, want 42", member)
	}
	mu.Unlock()

	cookies.Cookies[0].Value = "mystery"
	c.UpdateCookies(cookies)
	if _, err := c.FetchFavoriteNames(ctx); err != nil {
		t.Fatalf("FetchFavoriteNames: %v", err)
	}
	mu.Lock()
	if member != "" {
		t.Errorf("sent member id %q after invalidation, want none", member)
	}
	mu.Unlock()
}

func TestSetHost(t *testing.T) {
	c, err := NewClient(Options{Logger: slog.New(slog.DiscardHandler)})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got := c.siteURL("/popular"); got != "https://e-hentai.org/popular" {
		t.Errorf("siteURL = %q", got)
	}
	c.SetHost(domain.HostExHentai)
	if got := c.siteURL("/popular"); got != "https://exhentai.org/popular" {
		t.Errorf("siteURL = %q", got)
	}
	if got := c.absoluteURL(forumsURL, "/index.php"); got != "https://forums.e-hentai.org/index.php" {
		t.Errorf("absoluteURL = %q", got)
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		style string
		want  float32
	}{
		{"background-position:0px -1px;opacity:1", 5},
		{"background-position:0px -21px;opacity:1", 4.5},
		{"background-position:-32px -1px;opacity:1", 3},
		{"background-position:-80px -1px;opacity:0.53", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseRating(tt.style); got != tt.want {
			t.Errorf("parseRating(%q) = %v, want %v", tt.style, got, tt.want)
		}
	}
}
