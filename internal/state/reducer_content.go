package state

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
)

func reduceContent(s *AppState, a Action, env *Environment) tea.Cmd {
	c := &s.Content

	switch a := a.(type) {
	case FetchContents:
		gid := a.Ref.ID
		if c.ContentsLoading[gid][a.Page] {
			return nil
		}
		setFlag(c.ContentsLoading, gid, a.Page, true)
		setFlag(c.ContentsLoadFailed, gid, a.Page, false)
		return perform(env, "fetch_contents",
			func(ctx context.Context) (map[int]string, error) {
				return env.Gallery.FetchContents(ctx, a.Ref, a.Page)
			},
			func(r Result[map[int]string]) Action { return FetchContentsDone{GID: gid, Page: a.Page, Result: r} })

	case FetchContentsDone:
		setFlag(c.ContentsLoading, a.GID, a.Page, false)
		if !a.Result.Ok() {
			setFlag(c.ContentsLoadFailed, a.GID, a.Page, true)
			return nil
		}
		if len(a.Result.Value) == 0 {
			return nil
		}
		c.UpdateContents(a.GID, a.Result.Value)
		if env == nil || env.GalleryState == nil {
			return nil
		}
		gid, contents := a.GID, a.Result.Value
		return fireAndForget(env, "save_contents", func() error {
			return env.GalleryState.SaveContents(gid, contents)
		})

	case FetchMPVKeys:
		gid := a.Ref.ID
		if c.MPVKeysLoading[gid] {
			return nil
		}
		c.MPVKeysLoading[gid] = true
		delete(c.MPVKeysLoadFailed, gid)
		return perform(env, "fetch_mpv_keys",
			func(ctx context.Context) (domain.MPVKeys, error) {
				return env.Gallery.FetchMPVKeys(ctx, a.Ref)
			},
			func(r Result[domain.MPVKeys]) Action { return FetchMPVKeysDone{GID: gid, Result: r} })

	case FetchMPVKeysDone:
		delete(c.MPVKeysLoading, a.GID)
		if !a.Result.Ok() {
			c.MPVKeysLoadFailed[a.GID] = true
			return nil
		}
		keys := a.Result.Value
		c.MPVKeys[a.GID] = keys.Key
		mergeInto(c.MPVImageKeys, a.GID, keys.ImageKeys)

	case LoadGalleryState:
		if env == nil || env.GalleryState == nil {
			return nil
		}
		gid := a.GID
		return perform(env, "load_gallery_state",
			func(context.Context) (domain.GalleryState, error) {
				return env.GalleryState.LoadGalleryState(gid)
			},
			func(r Result[domain.GalleryState]) Action { return LoadGalleryStateDone{GID: gid, Result: r} })

	case LoadGalleryStateDone:
		if !a.Result.Ok() {
			return nil
		}
		s.Detail.UpdatePreviews(a.GID, a.Result.Value.Previews)
		c.UpdateContents(a.GID, a.Result.Value.Contents)
	}
	return nil
}
