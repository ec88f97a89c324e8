package state

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
)

func reduceSettings(s *AppState, a Action, env *Environment) tea.Cmd {
	st := &s.Settings

	switch a := a.(type) {
	case FetchUserInfo:
		if st.UserInfoLoading {
			return nil
		}
		st.UserInfoLoading = true
		st.UserInfoLoadFailed = false
		return perform(env, "fetch_user_info",
			func(ctx context.Context) (domain.UserUpdate, error) {
				memberID, err := loggedInMemberID(env)
				if err != nil {
					return domain.UserUpdate{}, err
				}
				return env.Gallery.FetchUserInfo(ctx, memberID)
			},
			func(r Result[domain.UserUpdate]) Action { return FetchUserInfoDone{Result: r} })

	case FetchUserInfoDone:
		st.UserInfoLoading = false
		if !a.Result.Ok() {
			st.UserInfoLoadFailed = true
			return nil
		}
		st.UpdateUser(a.Result.Value)

	case FetchFavoriteNames:
		if st.FavoriteNamesLoading {
			return nil
		}
		st.FavoriteNamesLoading = true
		st.FavoriteNamesLoadFailed = false
		return perform(env, "fetch_favorite_names",
			func(ctx context.Context) (map[domain.FavoritesCategory]string, error) {
				return env.Gallery.FetchFavoriteNames(ctx)
			},
			func(r Result[map[domain.FavoritesCategory]string]) Action { return FetchFavoriteNamesDone{Result: r} })

	case FetchFavoriteNamesDone:
		st.FavoriteNamesLoading = false
		if !a.Result.Ok() {
			st.FavoriteNamesLoadFailed = true
			return nil
		}
		if len(a.Result.Value) > 0 {
			st.setFavoriteNames(a.Result.Value)
		}

	case FetchGreeting:
		if st.GreetingLoading {
			return nil
		}
		st.GreetingLoading = true
		st.GreetingLoadFailed = false
		return perform(env, "fetch_greeting",
			func(ctx context.Context) (domain.Greeting, error) {
				return env.Gallery.FetchGreeting(ctx)
			},
			func(r Result[domain.Greeting]) Action { return FetchGreetingDone{Result: r} })

	case FetchGreetingDone:
		st.GreetingLoading = false
		if !a.Result.Ok() {
			st.GreetingLoadFailed = true
			return nil
		}
		st.InsertGreeting(a.Result.Value)

	case UpdateUser:
		st.UpdateUser(a.Update)
	case InsertGreeting:
		st.InsertGreeting(a.Greeting)
	case SetFilter:
		st.setFilter(a.Filter)
	case ResetFilter:
		st.setFilter(domain.DefaultFilter())

	case SetSetting:
		previous := st.Setting().GalleryHost
		st.setSetting(a.Setting)
		s.Detail.PreviewConfig = domain.PreviewConfig{Rows: a.Setting.PreviewRows}
		if a.Setting.GalleryHost != previous {
			return switchHost(env, a.Setting.GalleryHost)
		}

	case SetGalleryHost:
		setting := st.Setting()
		if setting.GalleryHost == a.Host {
			return nil
		}
		setting.GalleryHost = a.Host
		st.setSetting(setting)
		return switchHost(env, a.Host)
	}
	return nil
}

// switchHost points the gallery client at host, if it supports switching
func switchHost(env *Environment, host domain.GalleryHost) tea.Cmd {
	if env == nil {
		return nil
	}
	sw, ok := env.Gallery.(domain.HostSwitcher)
	if !ok {
		return nil
	}
	return fireAndForget(env, "switch_host", func() error {
		sw.SetHost(host)
		return nil
	})
}

func loggedInMemberID(env *Environment) (string, error) {
	if env.Cookies == nil {
		return "", domain.ErrAuthFailed
	}
	cookies, err := env.Cookies.Load(domain.HostEHentai)
	if err != nil {
		return "", fmt.Errorf("failed to load cookies: %w", err)
	}
	memberID := cookies.Get(domain.CookieMemberID)
	if memberID.IsInvalid() {
		return "", domain.ErrAuthFailed
	}
	return string(memberID), nil
}
