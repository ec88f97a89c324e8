package state

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
)

func reduceAccount(s *AppState, a Action, env *Environment) tea.Cmd {
	acc := &s.Account

	switch a := a.(type) {
	case SetAccountRoute:
		acc.Route = a.Route

	case LoadCookies:
		if acc.CookiesLoading {
			return nil
		}
		acc.CookiesLoading = true
		acc.CookiesLoadFailed = false
		return perform(env, "load_cookies",
			func(context.Context) (AccountCookies, error) {
				eh, err := env.Cookies.Load(domain.HostEHentai)
				if err != nil {
					return AccountCookies{}, err
				}
				ex, err := env.Cookies.Load(domain.HostExHentai)
				if err != nil {
					return AccountCookies{}, err
				}
				return AccountCookies{EH: eh, EX: ex}, nil
			},
			func(r Result[AccountCookies]) Action { return LoadCookiesDone{Result: r} })

	case LoadCookiesDone:
		acc.CookiesLoading = false
		if !a.Result.Ok() {
			acc.CookiesLoadFailed = true
			return nil
		}
		acc.EHCookies = a.Result.Value.EH
		acc.EXCookies = a.Result.Value.EX

	case SetCookie:
		cookies := acc.Cookies(a.Host)
		for i := range cookies.Cookies {
			if cookies.Cookies[i].Key == a.Key {
				cookies.Cookies[i].Value = a.Value
			}
		}
		host, key, value := a.Host, a.Key, a.Value
		return fireAndForget(env, "set_cookie", func() error {
			return env.Cookies.Set(host, key, value)
		})

	case CopyCookies:
		host := a.Host
		text := acc.Cookies(host).Header()
		valid := acc.Cookies(host).Valid()
		return perform(env, "copy_cookies",
			func(context.Context) (Unit, error) {
				if !valid {
					return Unit{}, errors.New("cookies are incomplete")
				}
				return Unit{}, env.Clipboard.Copy(text)
			},
			func(r Result[Unit]) Action { return CopyCookiesDone{Host: host, Result: r} })

	case CopyCookiesDone:
		msg := "Copied " + string(a.Host) + " cookies"
		if !a.Result.Ok() {
			msg = "Copy failed: " + a.Result.Err.Error()
		}
		acc.Route = AccountRoute{Kind: AccountRouteHUD, Message: msg}

	case ConfirmLogout:
		acc.EHCookies = domain.EmptyCookiesState(domain.HostEHentai)
		acc.EXCookies = domain.EmptyCookiesState(domain.HostExHentai)
		acc.Route = AccountRoute{}
		s.Settings.clearUser()
		return fireAndForget(env, "logout", func() error {
			return env.Cookies.Clear()
		})

	case OpenInBrowser:
		url := a.URL
		return fireAndForget(env, "open_url", func() error {
			return env.App.OpenURL(url)
		})
	}
	return nil
}
