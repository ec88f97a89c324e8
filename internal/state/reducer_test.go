package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/panda/internal/domain"
)

var frontpage = domain.ListKey{Type: domain.ListFrontpage}

func TestHistoryKeywords_ReinsertMovesToEnd(t *testing.T) {
	s := New(nil, nil)
	for _, kw := range []string{"a", "b", "a"} {
		Reduce(s, InsertHistoryKeyword{Keyword: kw}, nil)
	}
	if diff := cmp.Diff([]string{"b", "a"}, s.Home.HistoryKeywords()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryKeywords_BoundedUniqueMRU(t *testing.T) {
	s := New(nil, nil)
	var inserted []string
	for i := 0; i < 25; i++ {
		kw := fmt.Sprintf("k%d", i%13)
		inserted = append(inserted, kw)
		Reduce(s, InsertHistoryKeyword{Keyword: kw}, nil)

		got := s.Home.HistoryKeywords()
		if len(got) > HistoryLimit {
			t.Fatalf("len = %d after %d inserts, want <= %d", len(got), i+1, HistoryLimit)
		}
		seen := map[string]bool{}
		for _, k := range got {
			if seen[k] {
				t.Fatalf("duplicate %q in %v", k, got)
			}
			seen[k] = true
		}
		if got[len(got)-1] != kw {
			t.Fatalf("last = %q, want most recent %q", got[len(got)-1], kw)
		}
	}

	// Expected order: the last distinct occurrences, oldest first.
	var want []string
	seen := map[string]bool{}
	for i := len(inserted) - 1; i >= 0 && len(want) < HistoryLimit; i-- {
		if !seen[inserted[i]] {
			seen[inserted[i]] = true
			want = append([]string{inserted[i]}, want...)
		}
	}
	if diff := cmp.Diff(want, s.Home.HistoryKeywords()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryKeywords_IgnoresEmptyAndPersists(t *testing.T) {
	slots := newFakeSlots()
	s := New(slots, nil)
	Reduce(s, InsertHistoryKeyword{Keyword: "  "}, nil)
	Reduce(s, InsertHistoryKeyword{Keyword: "tag:x"}, nil)

	reloaded := New(slots, nil)
	if diff := cmp.Diff([]string{"tag:x"}, reloaded.Home.HistoryKeywords()); diff != "" {
		t.Fatalf("persisted history mismatch (-want +got):\n%s", diff)
	}

	Reduce(s, ClearHistoryKeywords{}, nil)
	if got := New(slots, nil).Home.HistoryKeywords(); len(got) != 0 {
		t.Fatalf("history after clear = %v", got)
	}
}

func TestFrontpageFetchScenario(t *testing.T) {
	te := newTestEnv()
	a, b := gallery("1"), gallery("2")
	te.gallery.list = func(domain.ListRequest) (domain.ListPage, error) {
		return domain.ListPage{Items: []domain.Gallery{a, b}, MaxPage: 5}, nil
	}
	s := New(nil, nil)

	if s.Home.Frontpage.Loading {
		t.Fatal("loading before fetch")
	}
	cmd := Reduce(s, FetchList{List: frontpage}, te.Environment)
	if !s.Home.Frontpage.Loading {
		t.Fatal("loading not set by fetch")
	}
	done, ok := cmd().(FetchListDone)
	if !ok {
		t.Fatalf("effect produced %T", done)
	}
	Reduce(s, done, te.Environment)

	l := s.Home.Frontpage
	if diff := cmp.Diff([]domain.Gallery{a, b}, l.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if l.Loading || l.LoadFailed || l.NotFound {
		t.Fatalf("flags after success = %+v", l)
	}
	if l.CurrentPage != 0 || l.MaxPage != 5 {
		t.Fatalf("pages = %d/%d, want 0/5", l.CurrentPage, l.MaxPage)
	}

	Reduce(s, FetchListDone{
		List:       frontpage,
		Generation: s.Home.Frontpage.Generation,
		Result:     Failure[domain.ListPage](errBoom),
	}, te.Environment)

	l = s.Home.Frontpage
	if l.Loading || !l.LoadFailed {
		t.Fatalf("flags after failure = loading %v failed %v", l.Loading, l.LoadFailed)
	}
	if diff := cmp.Diff([]domain.Gallery{a, b}, l.Items); diff != "" {
		t.Fatalf("failure changed items (-want +got):\n%s", diff)
	}
}

func TestFetchList_EmptyPageIsNotFound(t *testing.T) {
	te := newTestEnv()
	te.gallery.list = func(domain.ListRequest) (domain.ListPage, error) {
		return domain.ListPage{MaxPage: 1}, nil
	}
	s := New(nil, nil)
	run(t, s, te.Environment, FetchList{List: domain.ListKey{Type: domain.ListWatched}})
	if !s.Home.Watched.NotFound {
		t.Fatal("NotFound not set for empty page")
	}
}

func TestFetchMoreList_AppendsWithoutDuplicates(t *testing.T) {
	te := newTestEnv()
	a, b, c := gallery("1"), gallery("2"), gallery("3")
	te.gallery.list = func(req domain.ListRequest) (domain.ListPage, error) {
		if req.Page == 0 {
			return domain.ListPage{Items: []domain.Gallery{a, b}, CurrentPage: 0, MaxPage: 2}, nil
		}
		return domain.ListPage{Items: []domain.Gallery{b, c, c}, CurrentPage: 1, MaxPage: 2}, nil
	}
	s := New(nil, nil)

	run(t, s, te.Environment, FetchList{List: frontpage})
	run(t, s, te.Environment, FetchMoreList{List: frontpage})

	if diff := cmp.Diff([]domain.Gallery{a, b, c}, s.Home.Frontpage.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if s.Home.Frontpage.CurrentPage != 1 || s.Home.Frontpage.MoreLoading {
		t.Fatalf("list = %+v", s.Home.Frontpage)
	}

	// Last page reached: no further request.
	if cmd := Reduce(s, FetchMoreList{List: frontpage}, te.Environment); cmd != nil {
		t.Fatal("FetchMoreList past the last page returned an effect")
	}
	if n := len(te.gallery.listRequests()); n != 2 {
		t.Fatalf("requests = %d, want 2", n)
	}
}

func TestFetchMoreList_FailureKeepsItems(t *testing.T) {
	te := newTestEnv()
	a := gallery("1")
	calls := 0
	te.gallery.list = func(domain.ListRequest) (domain.ListPage, error) {
		calls++
		if calls == 1 {
			return domain.ListPage{Items: []domain.Gallery{a}, MaxPage: 3}, nil
		}
		return domain.ListPage{}, errBoom
	}
	s := New(nil, nil)
	run(t, s, te.Environment, FetchList{List: frontpage})
	run(t, s, te.Environment, FetchMoreList{List: frontpage})

	l := s.Home.Frontpage
	if !l.MoreLoadFailed || l.MoreLoading || l.LoadFailed {
		t.Fatalf("flags = %+v", l)
	}
	if len(l.Items) != 1 || l.CurrentPage != 0 {
		t.Fatalf("list changed on failure: %+v", l)
	}
}

func TestFetchList_StaleResultDropped(t *testing.T) {
	te := newTestEnv()
	old, fresh := gallery("old"), gallery("new")
	s := New(nil, nil)
	search := domain.ListKey{Type: domain.ListSearch}

	first := Reduce(s, Search{Keyword: "first"}, te.Environment)
	second := Reduce(s, Search{Keyword: "second"}, te.Environment)

	te.gallery.list = func(req domain.ListRequest) (domain.ListPage, error) {
		if req.Keyword == "first" {
			return domain.ListPage{Items: []domain.Gallery{old}, MaxPage: 1}, nil
		}
		return domain.ListPage{Items: []domain.Gallery{fresh}, MaxPage: 1}, nil
	}

	// The newer request completes first, then the stale one arrives.
	Reduce(s, second().(Action), te.Environment)
	Reduce(s, first().(Action), te.Environment)

	l := s.Home.List(search)
	if diff := cmp.Diff([]domain.Gallery{fresh}, l.Items); diff != "" {
		t.Fatalf("stale result applied (-want +got):\n%s", diff)
	}
	if l.Loading {
		t.Fatal("still loading")
	}
}

func TestFetchList_RequestCarriesKeywordAndFilter(t *testing.T) {
	te := newTestEnv()
	te.gallery.list = func(domain.ListRequest) (domain.ListPage, error) { return domain.ListPage{MaxPage: 1}, nil }
	s := New(nil, nil)

	filter := domain.DefaultFilter()
	filter.MinRating = 3
	Reduce(s, SetFilter{Filter: filter}, te.Environment)
	run(t, s, te.Environment, Search{Keyword: " artist:foo "})

	if s.Environment.HomeListType != domain.ListSearch {
		t.Fatalf("home list = %v, want search", s.Environment.HomeListType)
	}
	reqs := te.gallery.listRequests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d", len(reqs))
	}
	if reqs[0].Keyword != "artist:foo" || reqs[0].Filter.MinRating != 3 {
		t.Fatalf("request = %+v", reqs[0])
	}
	if diff := cmp.Diff([]string{"artist:foo"}, s.Home.HistoryKeywords()); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestPopularHasNoPagination(t *testing.T) {
	te := newTestEnv()
	popular := domain.ListKey{Type: domain.ListPopular}
	s := New(nil, nil)
	s.Home.Popular.MaxPage = 4
	if cmd := Reduce(s, FetchMoreList{List: popular}, te.Environment); cmd != nil {
		t.Fatal("popular FetchMoreList returned an effect")
	}
	if cmd := Reduce(s, FetchList{List: popular, Page: 1}, te.Environment); cmd != nil {
		t.Fatal("popular page 1 returned an effect")
	}
}

func TestFavoritesEveryCategoryHasState(t *testing.T) {
	te := newTestEnv()
	te.gallery.list = func(req domain.ListRequest) (domain.ListPage, error) {
		return domain.ListPage{Items: []domain.Gallery{gallery(fmt.Sprint(req.Key.Favorites))}, MaxPage: 1}, nil
	}
	s := New(nil, nil)

	for _, c := range domain.FavoritesCategories() {
		l := s.Home.List(domain.ListKey{Type: domain.ListFavorites, Favorites: c})
		if l == nil {
			t.Fatalf("no state for favorites %d", c)
		}
		if l.MaxPage != 1 || l.CurrentPage != 0 {
			t.Fatalf("favorites %d not defaulted: %+v", c, *l)
		}
	}
	if s.Home.List(domain.ListKey{Type: domain.ListFavorites, Favorites: 10}) != nil {
		t.Fatal("category 10 should have no state")
	}

	run(t, s, te.Environment, FetchList{List: domain.ListKey{Type: domain.ListFavorites, Favorites: 3}})
	if got := s.Home.Favorites[domain.FavoritesCategory(3).Index()].Items; len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("favorites[3] = %v", got)
	}
	if len(s.Home.Favorites[domain.FavoritesAll.Index()].Items) != 0 {
		t.Fatal("fetch leaked into another category")
	}
}

func TestPreviewMergeKeepsStored(t *testing.T) {
	te := newTestEnv()
	s := New(nil, nil)

	Reduce(s, FetchPreviewsDone{GID: "g1", Page: 0, Result: Success(map[int]string{1: "x", 2: "y"})}, te.Environment)
	Reduce(s, FetchPreviewsDone{GID: "g1", Page: 1, Result: Success(map[int]string{2: "z", 3: "w"})}, te.Environment)

	want := map[int]string{1: "x", 2: "y", 3: "w"}
	if diff := cmp.Diff(want, s.Detail.Previews["g1"]); diff != "" {
		t.Fatalf("previews mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchPreviews_PersistsAndClearsLoading(t *testing.T) {
	te := newTestEnv()
	te.gallery.previews = func(_ domain.GalleryRef, page int) (map[int]string, error) {
		return map[int]string{page*40 + 1: "thumb"}, nil
	}
	s := New(nil, nil)
	ref := domain.GalleryRef{ID: "g1", Token: "t"}

	cmd := Reduce(s, FetchPreviews{Ref: ref, Page: 1}, te.Environment)
	if !s.Detail.PreviewsLoading["g1"][1] {
		t.Fatal("previews loading not set")
	}
	if again := Reduce(s, FetchPreviews{Ref: ref, Page: 1}, te.Environment); again != nil {
		t.Fatal("duplicate preview fetch started")
	}
	runCmd(t, s, te.Environment, cmd)

	if s.Detail.PreviewsLoading["g1"][1] {
		t.Fatal("previews loading not cleared")
	}
	if s.Detail.Previews["g1"][41] != "thumb" {
		t.Fatalf("previews = %v", s.Detail.Previews["g1"])
	}
	if te.galleries.state["g1"].Previews[41] != "thumb" {
		t.Fatal("previews were not persisted")
	}
}

func TestLoadGalleryState_MergesStored(t *testing.T) {
	te := newTestEnv()
	te.galleries.state["g1"] = domain.GalleryState{
		Previews: map[int]string{1: "p1", 2: "p2"},
		Contents: map[int]string{1: "c1"},
	}
	s := New(nil, nil)
	s.Detail.Previews["g1"] = map[int]string{2: "live"}

	run(t, s, te.Environment, LoadGalleryState{GID: "g1"})

	if diff := cmp.Diff(map[int]string{1: "p1", 2: "live"}, s.Detail.Previews["g1"]); diff != "" {
		t.Fatalf("previews mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int]string{1: "c1"}, s.Content.Contents["g1"]); diff != "" {
		t.Fatalf("contents mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchContents_FailureSetsFlag(t *testing.T) {
	te := newTestEnv()
	s := New(nil, nil)
	ref := domain.GalleryRef{ID: "g1", Token: "t"}
	s.Content.Contents["g1"] = map[int]string{1: "kept"}

	run(t, s, te.Environment, FetchContents{Ref: ref, Page: 0})

	if !s.Content.ContentsLoadFailed["g1"][0] || s.Content.ContentsLoading["g1"][0] {
		t.Fatalf("flags: loading %v failed %v", s.Content.ContentsLoading["g1"], s.Content.ContentsLoadFailed["g1"])
	}
	if s.Content.Contents["g1"][1] != "kept" {
		t.Fatal("failure touched stored contents")
	}

	te.gallery.contents = func(domain.GalleryRef, int) (map[int]string, error) {
		return map[int]string{1: "new", 2: "img2"}, nil
	}
	run(t, s, te.Environment, FetchContents{Ref: ref, Page: 0})
	if s.Content.ContentsLoadFailed["g1"][0] {
		t.Fatal("retry did not clear failure")
	}
	if diff := cmp.Diff(map[int]string{1: "kept", 2: "img2"}, s.Content.Contents["g1"]); diff != "" {
		t.Fatalf("contents mismatch (-want +got):\n%s", diff)
	}
	if te.galleries.state["g1"].Contents[2] != "img2" {
		t.Fatal("contents were not persisted")
	}
}

func TestFetchMPVKeys(t *testing.T) {
	te := newTestEnv()
	te.gallery.mpvKeys = func(domain.GalleryRef) (domain.MPVKeys, error) {
		return domain.MPVKeys{Key: "mpv", ImageKeys: map[int]string{1: "k1"}}, nil
	}
	s := New(nil, nil)
	run(t, s, te.Environment, FetchMPVKeys{Ref: domain.GalleryRef{ID: "g", Token: "t"}})
	if s.Content.MPVKeys["g"] != "mpv" || s.Content.MPVImageKeys["g"][1] != "k1" {
		t.Fatalf("mpv keys = %v %v", s.Content.MPVKeys, s.Content.MPVImageKeys)
	}
	if s.Content.MPVKeysLoading["g"] {
		t.Fatal("loading not cleared")
	}
}

func TestFetchDetail(t *testing.T) {
	te := newTestEnv()
	ref := domain.GalleryRef{ID: "9", Token: "t"}
	s := New(nil, nil)

	run(t, s, te.Environment, FetchDetail{Ref: ref})
	if !s.Detail.DetailLoadFailed["9"] || s.Detail.DetailLoading["9"] {
		t.Fatal("failure flags not applied")
	}

	te.gallery.detail = func(r domain.GalleryRef) (domain.GalleryDetail, error) {
		return domain.GalleryDetail{Gallery: domain.Gallery{ID: r.ID, Title: "T"}}, nil
	}
	run(t, s, te.Environment, FetchDetail{Ref: ref})
	if s.Detail.DetailLoadFailed["9"] || s.Detail.Details["9"].Title != "T" {
		t.Fatalf("detail = %+v failed=%v", s.Detail.Details["9"], s.Detail.DetailLoadFailed["9"])
	}
}

func TestArchive_ResolvesURLAndSendsCommand(t *testing.T) {
	te := newTestEnv()
	ref := domain.GalleryRef{ID: "5", Token: "t"}
	const archiveURL = "https://e-hentai.org/archiver.php?gid=5&token=t&or=x"

	var gotURL string
	var gotRes domain.ArchiveRes
	te.gallery.detail = func(domain.GalleryRef) (domain.GalleryDetail, error) {
		return domain.GalleryDetail{ArchiveURL: archiveURL}, nil
	}
	te.gallery.archive = func(u string) (domain.Archive, error) {
		gotURL = u
		return domain.Archive{HathArchives: []domain.HathArchive{{Resolution: domain.Res780, FileSize: "10 MB", GPPrice: "Free"}}}, nil
	}
	te.gallery.funds = func(string) (domain.Funds, error) { return domain.Funds{GP: "1,000", Credits: "20"}, nil }
	te.gallery.download = func(u string, res domain.ArchiveRes) (string, error) {
		gotRes = res
		return "A 780x resolution archive ... client box Downloads", nil
	}
	s := New(nil, nil)

	run(t, s, te.Environment, FetchArchive{Ref: ref})
	if gotURL != archiveURL {
		t.Fatalf("archive url = %q", gotURL)
	}
	if s.Detail.ArchiveLoading || s.Detail.ArchiveLoadFailed || len(s.Detail.Archives["5"].HathArchives) != 1 {
		t.Fatalf("archive state = %+v", s.Detail)
	}

	run(t, s, te.Environment, FetchArchiveFunds{Ref: ref})
	if u := s.Settings.User(); u.CurrentGP != "1,000" || u.CurrentCredits != "20" {
		t.Fatalf("funds not applied to user: %+v", u)
	}

	run(t, s, te.Environment, SendDownloadCommand{Ref: ref, Resolution: domain.Res780})
	if gotRes != domain.Res780 || s.Detail.DownloadCommandSending || s.Detail.DownloadCommandFailed {
		t.Fatalf("download state = sending %v failed %v", s.Detail.DownloadCommandSending, s.Detail.DownloadCommandFailed)
	}
	if got := domain.ProcessDownloadResponse(s.Detail.DownloadCommandResponse); got != "780x -> box" {
		t.Fatalf("processed response = %q", got)
	}

	Reduce(s, ResetDownloadCommandResponse{}, te.Environment)
	if s.Detail.DownloadCommandResponse != "" {
		t.Fatal("response not reset")
	}
}

func TestArchive_FailureSetsFlag(t *testing.T) {
	te := newTestEnv()
	s := New(nil, nil)
	run(t, s, te.Environment, FetchArchive{Ref: domain.GalleryRef{ID: "1"}})
	if !s.Detail.ArchiveLoadFailed || s.Detail.ArchiveLoading {
		t.Fatal("archive failure flags not applied")
	}
	run(t, s, te.Environment, SendDownloadCommand{Ref: domain.GalleryRef{ID: "1"}, Resolution: domain.ResOriginal})
	if !s.Detail.DownloadCommandFailed {
		t.Fatal("download failure flag not set")
	}
}

func TestInsertGreetingPolicy(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	earlier, later := day.Add(-time.Hour), day.Add(time.Hour)

	s := New(nil, nil)
	Reduce(s, InsertGreeting{Greeting: domain.Greeting{GainedGP: 1}}, nil)
	if s.Settings.User().Greeting != nil {
		t.Fatal("undated greeting was stored")
	}

	Reduce(s, InsertGreeting{Greeting: domain.Greeting{GainedGP: 1, UpdateTime: &day}}, nil)
	if g := s.Settings.User().Greeting; g == nil || g.GainedGP != 1 {
		t.Fatalf("greeting = %+v, want first insert", g)
	}

	Reduce(s, InsertGreeting{Greeting: domain.Greeting{GainedGP: 2, UpdateTime: &earlier}}, nil)
	Reduce(s, InsertGreeting{Greeting: domain.Greeting{GainedGP: 3, UpdateTime: ptr(day)}}, nil)
	if g := s.Settings.User().Greeting; g.GainedGP != 1 {
		t.Fatalf("earlier or equal greeting replaced stored: %+v", g)
	}

	Reduce(s, InsertGreeting{Greeting: domain.Greeting{GainedGP: 4, UpdateTime: &later}}, nil)
	if g := s.Settings.User().Greeting; g.GainedGP != 4 {
		t.Fatalf("later greeting not stored: %+v", g)
	}
}

func TestFetchGreeting(t *testing.T) {
	te := newTestEnv()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	te.gallery.greeting = func() (domain.Greeting, error) {
		return domain.Greeting{GainedEXP: 10, UpdateTime: &now}, nil
	}
	s := New(nil, nil)
	run(t, s, te.Environment, FetchGreeting{})
	if s.Settings.GreetingLoading {
		t.Fatal("greeting loading not cleared")
	}
	if g := s.Settings.User().Greeting; g == nil || g.GainedEXP != 10 {
		t.Fatalf("greeting = %+v", g)
	}
}

func TestUpdateUser_OnlyPresentFields(t *testing.T) {
	slots := newFakeSlots()
	s := New(slots, nil)

	Reduce(s, UpdateUser{Update: domain.UserUpdate{DisplayName: ptr("panda"), AvatarURL: ptr("a.png")}}, nil)
	Reduce(s, UpdateUser{Update: domain.UserUpdate{CurrentGP: ptr("100")}}, nil)

	u := s.Settings.User()
	if u.DisplayName != "panda" || u.AvatarURL != "a.png" {
		t.Fatalf("user = %+v", u)
	}
	if u.CurrentGP != "" {
		t.Fatal("GP applied without credits")
	}

	Reduce(s, UpdateUser{Update: domain.UserUpdate{CurrentGP: ptr("100"), CurrentCredits: ptr("7")}}, nil)
	reloaded := New(slots, nil).Settings.User()
	if reloaded.CurrentGP != "100" || reloaded.CurrentCredits != "7" || reloaded.DisplayName != "panda" {
		t.Fatalf("persisted user = %+v", reloaded)
	}
}

func TestFetchUserInfo_RequiresMemberCookie(t *testing.T) {
	te := newTestEnv()
	var gotID string
	te.gallery.userInfo = func(id string) (domain.UserUpdate, error) {
		gotID = id
		return domain.UserUpdate{DisplayName: ptr("member")}, nil
	}
	s := New(nil, nil)

	run(t, s, te.Environment, FetchUserInfo{})
	if gotID != "" || s.Settings.User().DisplayName != "" {
		t.Fatal("user info fetched without cookies")
	}
	if s.Settings.UserInfoLoading {
		t.Fatal("loading not cleared after auth failure")
	}

	te.cookies.Set(domain.HostEHentai, domain.CookieMemberID, "123")
	run(t, s, te.Environment, FetchUserInfo{})
	if gotID != "123" || s.Settings.User().DisplayName != "member" {
		t.Fatalf("id = %q user = %+v", gotID, s.Settings.User())
	}
}

func TestFetchFavoriteNames(t *testing.T) {
	te := newTestEnv()
	te.gallery.favNames = func() (map[domain.FavoritesCategory]string, error) {
		return map[domain.FavoritesCategory]string{0: "Best"}, nil
	}
	s := New(nil, nil)
	run(t, s, te.Environment, FetchFavoriteNames{})
	u := s.Settings.User()
	if u.FavoriteName(0) != "Best" || u.FavoriteName(1) != "Favorites 1" {
		t.Fatalf("favorite names = %v", u.FavoriteNames)
	}
}

func TestSettingsDefaultsAndPersistence(t *testing.T) {
	slots := newFakeSlots()
	s := New(slots, nil)

	if got := s.Settings.Setting(); got != domain.DefaultSetting() {
		t.Fatalf("default setting = %+v", got)
	}
	if got := s.Settings.Filter(); !got.SearchName || !got.SearchTags {
		t.Fatalf("default filter = %+v", got)
	}

	setting := domain.DefaultSetting()
	setting.PreviewRows = 8
	Reduce(s, SetSetting{Setting: setting}, nil)
	if s.Detail.PreviewConfig.Rows != 8 {
		t.Fatalf("preview rows = %d", s.Detail.PreviewConfig.Rows)
	}
	Reduce(s, SetGalleryHost{Host: domain.HostExHentai}, nil)

	reloaded := New(slots, nil)
	if got := reloaded.Settings.Setting(); got.GalleryHost != domain.HostExHentai || got.PreviewRows != 8 {
		t.Fatalf("persisted setting = %+v", got)
	}
	if reloaded.Detail.PreviewConfig.Rows != 8 {
		t.Fatal("preview config not hydrated from setting")
	}

	Reduce(s, SetFilter{Filter: domain.Filter{MinRating: 5}}, nil)
	Reduce(s, ResetFilter{}, nil)
	if diff := cmp.Diff(domain.DefaultFilter(), New(slots, nil).Settings.Filter()); diff != "" {
		t.Fatalf("filter after reset (-want +got):\n%s", diff)
	}
}

func TestGalleryHostSwitchesClient(t *testing.T) {
	te := newTestEnv()
	s := New(nil, nil)

	run(t, s, te.Environment, SetGalleryHost{Host: domain.HostExHentai})
	if got := te.gallery.currentHost(); got != domain.HostExHentai {
		t.Fatalf("client host = %q", got)
	}
	if cmd := Reduce(s, SetGalleryHost{Host: domain.HostExHentai}, te.Environment); cmd != nil {
		t.Fatal("unchanged host produced an effect")
	}

	setting := s.Settings.Setting()
	setting.GalleryHost = domain.HostEHentai
	run(t, s, te.Environment, SetSetting{Setting: setting})
	if got := te.gallery.currentHost(); got != domain.HostEHentai {
		t.Fatalf("client host after SetSetting = %q", got)
	}
}

func TestSettingsLazyHydration(t *testing.T) {
	slots := newFakeSlots()
	slots.SaveSlot(slotTranslator, domain.Translator{Language: "zh", Dict: map[string]string{"a": "b"}})
	s := New(slots, nil)

	Reduce(s, SetTranslator{Translator: domain.Translator{Language: "ja"}}, nil)
	if slots.saves[slotTranslator] != 2 {
		t.Fatalf("translator saves = %d, want 2", slots.saves[slotTranslator])
	}
	if got := New(slots, nil).Detail.Translator().Language; got != "ja" {
		t.Fatalf("translator language = %q", got)
	}
}

func TestNavigationSetters(t *testing.T) {
	s := New(nil, nil)

	Reduce(s, SetHomeSheet{Sheet: HomeSheetFilter}, nil)
	Reduce(s, SetSettingSheet{Sheet: SettingSheetLogs}, nil)
	Reduce(s, SetDetailSheet{Sheet: DetailSheetArchive}, nil)
	Reduce(s, SetHomeListType{Type: domain.ListFavorites}, nil)
	Reduce(s, SetFavoritesIndex{Category: 4}, nil)
	Reduce(s, SetFavoritesIndex{Category: 42}, nil)
	Reduce(s, ToggleSlideMenu{}, nil)
	Reduce(s, SetNavBarHidden{Hidden: true}, nil)
	Reduce(s, SetBlurRadius{Radius: 10}, nil)
	Reduce(s, SetAppUnlocked{Unlocked: false}, nil)

	e := s.Environment
	if e.HomeSheet != HomeSheetFilter || e.SettingSheet != SettingSheetLogs || e.DetailSheet != DetailSheetArchive {
		t.Fatalf("sheets = %+v", e)
	}
	if e.CurrentList() != (domain.ListKey{Type: domain.ListFavorites, Favorites: 4}) {
		t.Fatalf("current list = %v", e.CurrentList())
	}
	if e.IsSlideMenuClosed || !e.NavBarHidden || e.BlurRadius != 10 || e.IsAppUnlocked {
		t.Fatalf("flags = %+v", e)
	}

	Reduce(s, SetHomeSheet{Sheet: HomeSheetNone}, nil)
	if s.Environment.HomeSheet != HomeSheetNone {
		t.Fatal("sheet not cleared")
	}
}

func TestReverseSearch(t *testing.T) {
	te := newTestEnv()
	s := New(nil, nil)

	run(t, s, te.Environment, ReverseSearch{FileName: "a.jpg", Image: []byte{1}})
	if !s.Environment.ReverseSearchLoadFailed || s.Environment.ReverseSearchLoading {
		t.Fatal("failure flags not applied")
	}

	te.gallery.reverse = func(string, []byte) (domain.GalleryRef, error) {
		return domain.GalleryRef{ID: "77", Token: "t"}, nil
	}
	run(t, s, te.Environment, ReverseSearch{FileName: "a.jpg", Image: []byte{1}})
	if s.Environment.ReverseSearchID != "77" || s.Environment.ReverseSearchLoadFailed {
		t.Fatalf("env = %+v", s.Environment)
	}
}

func TestLogs(t *testing.T) {
	te := newTestEnv()
	te.files.logs = []domain.Log{{FileName: "panda-2024-01-01.log"}, {FileName: "panda-2024-01-02.log"}}
	s := New(nil, nil)

	run(t, s, te.Environment, FetchLogs{})
	if len(s.Logs.Logs) != 2 || s.Logs.Loading {
		t.Fatalf("logs = %+v", s.Logs)
	}

	Reduce(s, SetLogsRoute{FileName: "panda-2024-01-01.log"}, te.Environment)
	if lg, ok := s.Logs.SelectedLog(); !ok || lg.FileName != "panda-2024-01-01.log" {
		t.Fatal("route does not select the log")
	}

	run(t, s, te.Environment, DeleteLog{FileName: "panda-2024-01-01.log"})
	if len(s.Logs.Logs) != 1 || s.Logs.Logs[0].FileName != "panda-2024-01-02.log" {
		t.Fatalf("logs after delete = %+v", s.Logs.Logs)
	}
	if s.Logs.Route != "" {
		t.Fatal("route to deleted log not cleared")
	}

	te.files.err = errBoom
	run(t, s, te.Environment, FetchLogs{})
	if !s.Logs.LoadFailed || len(s.Logs.Logs) != 1 {
		t.Fatalf("failure changed logs: %+v", s.Logs)
	}
}

func TestFireAndForgetEffectsProduceNoAction(t *testing.T) {
	te := newTestEnv()
	s := New(nil, nil)

	if msg := effect(t, s, te.Environment, OpenLogsFolder{}); msg != nil {
		t.Fatalf("OpenLogsFolder produced %T", msg)
	}
	if msg := effect(t, s, te.Environment, OpenInBrowser{URL: "https://e-hentai.org/"}); msg != nil {
		t.Fatalf("OpenInBrowser produced %T", msg)
	}
	if te.app.folderOpen != 1 || len(te.app.opened) != 1 {
		t.Fatalf("app calls = %d folder, %v urls", te.app.folderOpen, te.app.opened)
	}
}

func TestAccountCookies(t *testing.T) {
	te := newTestEnv()
	s := New(nil, nil)

	run(t, s, te.Environment, SetCookie{Host: domain.HostEHentai, Key: domain.CookieMemberID, Value: "1"})
	run(t, s, te.Environment, CopyCookies{Host: domain.HostEHentai})
	if s.Account.Route.Kind != AccountRouteHUD || te.clipboard.text != "" {
		t.Fatalf("incomplete cookies copied: route %+v clipboard %q", s.Account.Route, te.clipboard.text)
	}

	run(t, s, te.Environment, SetCookie{Host: domain.HostEHentai, Key: domain.CookiePassHash, Value: "h"})
	run(t, s, te.Environment, CopyCookies{Host: domain.HostEHentai})
	if te.clipboard.text != "ipb_member_id=1; ipb_pass_hash=h" {
		t.Fatalf("clipboard = %q", te.clipboard.text)
	}

	fresh := New(nil, nil)
	run(t, fresh, te.Environment, LoadCookies{})
	if !fresh.Account.LoggedIn() {
		t.Fatalf("loaded cookies = %+v", fresh.Account.EHCookies)
	}

	Reduce(fresh, UpdateUser{Update: domain.UserUpdate{DisplayName: ptr("me")}}, nil)
	run(t, fresh, te.Environment, ConfirmLogout{})
	if fresh.Account.LoggedIn() || fresh.Settings.User().DisplayName != "" {
		t.Fatal("logout did not clear state")
	}
	if te.cookies.cleared != 1 {
		t.Fatal("cookie store not cleared")
	}
}

func TestSettingStored(t *testing.T) {
	slots := newFakeSlots()
	s := New(slots, nil)
	if s.Settings.SettingStored() {
		t.Fatal("default setting reported as stored")
	}

	setting := s.Settings.Setting()
	setting.TranslatesTags = true
	Reduce(s, SetSetting{Setting: setting}, nil)
	if !s.Settings.SettingStored() {
		t.Fatal("set setting not reported as stored")
	}
	if !New(slots, nil).Settings.SettingStored() {
		t.Fatal("reloaded setting not reported as stored")
	}
	if New(nil, nil).Settings.SettingStored() {
		t.Fatal("memory-only state reported a stored setting")
	}
}

func TestFailedFetchesSetFlags(t *testing.T) {
	ref := domain.GalleryRef{ID: "g1", Token: "t"}
	tests := []struct {
		name   string
		action Action
		failed func(s *AppState) bool
	}{
		{"previews", FetchPreviews{Ref: ref, Page: 2}, func(s *AppState) bool { return s.Detail.PreviewsLoadFailed["g1"][2] }},
		{"archive funds", FetchArchiveFunds{Ref: ref}, func(s *AppState) bool { return s.Detail.ArchiveFundsLoadFailed }},
		{"user info", FetchUserInfo{}, func(s *AppState) bool { return s.Settings.UserInfoLoadFailed }},
		{"favorite names", FetchFavoriteNames{}, func(s *AppState) bool { return s.Settings.FavoriteNamesLoadFailed }},
		{"greeting", FetchGreeting{}, func(s *AppState) bool { return s.Settings.GreetingLoadFailed }},
		{"delete log", DeleteLog{FileName: "panda-2024-01-01.log"}, func(s *AppState) bool { return s.Logs.DeleteFailed }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv()
			te.files.err = errBoom
			s := New(nil, nil)

			run(t, s, te.Environment, tt.action)
			if !tt.failed(s) {
				t.Fatal("failure flag not set")
			}

			// A new request clears the flag before its result arrives
			Reduce(s, tt.action, te.Environment)
			if tt.failed(s) {
				t.Fatal("retry did not clear the failure flag")
			}
		})
	}
}

func TestFetchPreviews_FailureKeepsStored(t *testing.T) {
	te := newTestEnv()
	s := New(nil, nil)
	s.Detail.Previews["g1"] = map[int]string{1: "kept"}

	run(t, s, te.Environment, FetchPreviews{Ref: domain.GalleryRef{ID: "g1", Token: "t"}, Page: 0})

	if s.Detail.PreviewsLoading["g1"][0] || !s.Detail.PreviewsLoadFailed["g1"][0] {
		t.Fatalf("flags: loading %v failed %v", s.Detail.PreviewsLoading["g1"], s.Detail.PreviewsLoadFailed["g1"])
	}
	if diff := cmp.Diff(map[int]string{1: "kept"}, s.Detail.Previews["g1"]); diff != "" {
		t.Fatalf("previews mismatch (-want +got):\n%s", diff)
	}
}
