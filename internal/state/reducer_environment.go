package state

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
)

func reduceEnvironment(s *AppState, a Action, env *Environment) tea.Cmd {
	e := &s.Environment

	switch a := a.(type) {
	case SetHomeSheet:
		e.HomeSheet = a.Sheet
	case SetSettingSheet:
		e.SettingSheet = a.Sheet
	case SetDetailSheet:
		e.DetailSheet = a.Sheet
	case SetHomeListType:
		e.HomeListType = a.Type
	case SetFavoritesIndex:
		if a.Category.Valid() {
			e.FavoritesIndex = a.Category
		}
	case SetBlurRadius:
		e.BlurRadius = a.Radius
	case SetAppUnlocked:
		e.IsAppUnlocked = a.Unlocked
	case ToggleSlideMenu:
		e.IsSlideMenuClosed = !e.IsSlideMenuClosed
	case SetNavBarHidden:
		e.NavBarHidden = a.Hidden

	case ReverseSearch:
		if e.ReverseSearchLoading {
			return nil
		}
		e.ReverseSearchLoading = true
		e.ReverseSearchLoadFailed = false
		e.ReverseSearchID = ""
		return perform(env, "reverse_search",
			func(ctx context.Context) (domain.GalleryRef, error) {
				return env.Gallery.ReverseSearch(ctx, a.FileName, a.Image)
			},
			func(r Result[domain.GalleryRef]) Action { return ReverseSearchDone{Result: r} })

	case ReverseSearchDone:
		e.ReverseSearchLoading = false
		if !a.Result.Ok() {
			e.ReverseSearchLoadFailed = true
			return nil
		}
		e.ReverseSearchID = a.Result.Value.ID
	}
	return nil
}
