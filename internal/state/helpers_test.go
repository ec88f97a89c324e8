package state

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
)

var errBoom = errors.New("boom")

// fakeSlots is an in-memory SettingsStore that round-trips through JSON
type fakeSlots struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves map[string]int
}

func newFakeSlots() *fakeSlots {
	return &fakeSlots{data: map[string][]byte{}, saves: map[string]int{}}
}

func (f *fakeSlots) LoadSlot(key string, dest any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (f *fakeSlots) SaveSlot(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = b
	f.saves[key]++
	return nil
}

type fakeGallery struct {
	mu       sync.Mutex
	requests []domain.ListRequest

	list      func(domain.ListRequest) (domain.ListPage, error)
	detail    func(domain.GalleryRef) (domain.GalleryDetail, error)
	previews  func(domain.GalleryRef, int) (map[int]string, error)
	contents  func(domain.GalleryRef, int) (map[int]string, error)
	archive   func(string) (domain.Archive, error)
	funds     func(string) (domain.Funds, error)
	download  func(string, domain.ArchiveRes) (string, error)
	userInfo  func(string) (domain.UserUpdate, error)
	favNames  func() (map[domain.FavoritesCategory]string, error)
	greeting  func() (domain.Greeting, error)
	mpvKeys   func(domain.GalleryRef) (domain.MPVKeys, error)
	reverse   func(string, []byte) (domain.GalleryRef, error)
	listBlock chan struct{}
	host      domain.GalleryHost
}

func (f *fakeGallery) SetHost(host domain.GalleryHost) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.host = host
}

func (f *fakeGallery) currentHost() domain.GalleryHost {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.host
}

func (f *fakeGallery) FetchList(ctx context.Context, req domain.ListRequest) (domain.ListPage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.listBlock
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return domain.ListPage{}, ctx.Err()
		}
	}
	if f.list == nil {
		return domain.ListPage{}, errBoom
	}
	return f.list(req)
}

func (f *fakeGallery) FetchDetail(_ context.Context, ref domain.GalleryRef) (domain.GalleryDetail, error) {
	if f.detail == nil {
		return domain.GalleryDetail{}, errBoom
	}
	return f.detail(ref)
}

func (f *fakeGallery) FetchPreviews(_ context.Context, ref domain.GalleryRef, page int) (map[int]string, error) {
	if f.previews == nil {
		return nil, errBoom
	}
	return f.previews(ref, page)
}

func (f *fakeGallery) FetchContents(_ context.Context, ref domain.GalleryRef, page int) (map[int]string, error) {
	if f.contents == nil {
		return nil, errBoom
	}
	return f.contents(ref, page)
}

func (f *fakeGallery) FetchMPVKeys(_ context.Context, ref domain.GalleryRef) (domain.MPVKeys, error) {
	if f.mpvKeys == nil {
		return domain.MPVKeys{}, errBoom
	}
	return f.mpvKeys(ref)
}

func (f *fakeGallery) FetchArchive(_ context.Context, u string) (domain.Archive, error) {
	if f.archive == nil {
		return domain.Archive{}, errBoom
	}
	return f.archive(u)
}

func (f *fakeGallery) FetchArchiveFunds(_ context.Context, u string) (domain.Funds, error) {
	if f.funds == nil {
		return domain.Funds{}, errBoom
	}
	return f.funds(u)
}

func (f *fakeGallery) SendDownloadCommand(_ context.Context, u string, res domain.ArchiveRes) (string, error) {
	if f.download == nil {
		return "", errBoom
	}
	return f.download(u, res)
}

func (f *fakeGallery) FetchUserInfo(_ context.Context, id string) (domain.UserUpdate, error) {
	if f.userInfo == nil {
		return domain.UserUpdate{}, errBoom
	}
	return f.userInfo(id)
}

func (f *fakeGallery) FetchFavoriteNames(context.Context) (map[domain.FavoritesCategory]string, error) {
	if f.favNames == nil {
		return nil, errBoom
	}
	return f.favNames()
}

func (f *fakeGallery) FetchGreeting(context.Context) (domain.Greeting, error) {
	if f.greeting == nil {
		return domain.Greeting{}, errBoom
	}
	return f.greeting()
}

func (f *fakeGallery) ReverseSearch(_ context.Context, name string, img []byte) (domain.GalleryRef, error) {
	if f.reverse == nil {
		return domain.GalleryRef{}, errBoom
	}
	return f.reverse(name, img)
}

func (f *fakeGallery) listRequests() []domain.ListRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ListRequest(nil), f.requests...)
}

type fakeFiles struct {
	logs    []domain.Log
	err     error
	deleted []string
}

func (f *fakeFiles) FetchLogs(context.Context) ([]domain.Log, error) {
	return f.logs, f.err
}

func (f *fakeFiles) DeleteLog(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.deleted = append(f.deleted, name)
	return name, nil
}

type fakeApp struct {
	mu         sync.Mutex
	opened     []string
	folderOpen int
}

func (f *fakeApp) OpenURL(u string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, u)
	return nil
}

func (f *fakeApp) OpenLogsFolder() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folderOpen++
	return nil
}

type fakeClipboard struct {
	text string
}

func (f *fakeClipboard) Copy(text string) error {
	f.text = text
	return nil
}

type fakeCookies struct {
	mu      sync.Mutex
	values  map[domain.GalleryHost]map[string]domain.CookieValue
	cleared int
}

func newFakeCookies() *fakeCookies {
	return &fakeCookies{values: map[domain.GalleryHost]map[string]domain.CookieValue{}}
}

func (f *fakeCookies) Load(host domain.GalleryHost) (domain.CookiesState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := domain.EmptyCookiesState(host)
	for i := range s.Cookies {
		s.Cookies[i].Value = f.values[host][s.Cookies[i].Key]
	}
	return s, nil
}

func (f *fakeCookies) Set(host domain.GalleryHost, key string, v domain.CookieValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values[host] == nil {
		f.values[host] = map[string]domain.CookieValue{}
	}
	f.values[host][key] = v
	return nil
}

func (f *fakeCookies) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = map[domain.GalleryHost]map[string]domain.CookieValue{}
	f.cleared++
	return nil
}

type fakeGalleryState struct {
	mu    sync.Mutex
	state map[string]domain.GalleryState
}

func newFakeGalleryState() *fakeGalleryState {
	return &fakeGalleryState{state: map[string]domain.GalleryState{}}
}

func (f *fakeGalleryState) LoadGalleryState(gid string) (domain.GalleryState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[gid], nil
}

func (f *fakeGalleryState) SavePreviews(gid string, p map[int]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	gs := f.state[gid]
	if gs.Previews == nil {
		gs.Previews = map[int]string{}
	}
	for k, v := range p {
		if _, ok := gs.Previews[k]; !ok {
			gs.Previews[k] = v
		}
	}
	f.state[gid] = gs
	return nil
}

func (f *fakeGalleryState) SaveContents(gid string, c map[int]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	gs := f.state[gid]
	if gs.Contents == nil {
		gs.Contents = map[int]string{}
	}
	for k, v := range c {
		if _, ok := gs.Contents[k]; !ok {
			gs.Contents[k] = v
		}
	}
	f.state[gid] = gs
	return nil
}

type testEnv struct {
	*Environment
	gallery   *fakeGallery
	files     *fakeFiles
	app       *fakeApp
	clipboard *fakeClipboard
	cookies   *fakeCookies
	galleries *fakeGalleryState
}

func newTestEnv() *testEnv {
	te := &testEnv{
		gallery:   &fakeGallery{},
		files:     &fakeFiles{},
		app:       &fakeApp{},
		clipboard: &fakeClipboard{},
		cookies:   newFakeCookies(),
		galleries: newFakeGalleryState(),
	}
	te.Environment = &Environment{
		Gallery:      te.gallery,
		Files:        te.files,
		App:          te.app,
		Clipboard:    te.clipboard,
		Cookies:      te.cookies,
		GalleryState: te.galleries,
		Logger:       slog.New(slog.DiscardHandler),
		Timeout:      time.Second,
	}
	return te
}

// run reduces a and then synchronously runs every effect it produces,
// feeding results back until none are left
func run(t *testing.T, s *AppState, env *Environment, a Action) {
	t.Helper()
	runCmd(t, s, env, Reduce(s, a, env))
}

func runCmd(t *testing.T, s *AppState, env *Environment, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case Action:
		run(t, s, env, msg)
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(t, s, env, c)
		}
	default:
		t.Fatalf("unexpected message %T", msg)
	}
}

// effect reduces a and returns the message its effect produces without
// applying it
func effect(t *testing.T, s *AppState, env *Environment, a Action) tea.Msg {
	t.Helper()
	cmd := Reduce(s, a, env)
	if cmd == nil {
		t.Fatalf("%T produced no effect", a)
	}
	return cmd()
}

func gallery(id string) domain.Gallery {
	return domain.Gallery{
		ID:       id,
		Token:    "tok" + id,
		Title:    "Gallery " + id,
		PostedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}
}

func ptr[T any](v T) *T { return &v }
