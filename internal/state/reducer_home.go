package state

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/panda/internal/domain"
)

func reduceHome(s *AppState, a Action, env *Environment) tea.Cmd {
	h := &s.Home

	switch a := a.(type) {
	case SetSearchKeyword:
		h.SearchKeyword = a.Keyword
	case InsertHistoryKeyword:
		h.InsertHistoryKeyword(strings.TrimSpace(a.Keyword))
	case ClearHistoryKeywords:
		h.clearHistoryKeywords()

	case Search:
		keyword := strings.TrimSpace(a.Keyword)
		h.SearchKeyword = keyword
		h.InsertHistoryKeyword(keyword)
		s.Environment.HomeListType = domain.ListSearch
		return fetchList(s, domain.ListKey{Type: domain.ListSearch}, 0, env)

	case FetchList:
		return fetchList(s, a.List, a.Page, env)

	case FetchMoreList:
		l := h.List(a.List)
		if l == nil || !a.List.Type.Paginated() || !l.HasMore() || l.Loading || l.MoreLoading {
			return nil
		}
		return fetchList(s, a.List, l.CurrentPage+1, env)

	case FetchListDone:
		l := h.List(a.List)
		if l == nil || a.Generation != l.Generation {
			return nil
		}
		if a.Page == 0 {
			l.Loading = false
			if !a.Result.Ok() {
				l.LoadFailed = true
				return nil
			}
			page := a.Result.Value
			l.Items = nil
			l.insert(page.Items)
			l.NotFound = len(l.Items) == 0
			l.setPages(page, a.Page)
			return nil
		}

		l.MoreLoading = false
		if !a.Result.Ok() {
			l.MoreLoadFailed = true
			return nil
		}
		l.insert(a.Result.Value.Items)
		l.setPages(a.Result.Value, a.Page)
	}
	return nil
}

func (l *ListState) setPages(page domain.ListPage, requested int) {
	l.CurrentPage = page.CurrentPage
	if l.CurrentPage < requested {
		l.CurrentPage = requested
	}
	l.MaxPage = page.MaxPage
	if l.MaxPage < l.CurrentPage+1 {
		l.MaxPage = l.CurrentPage + 1
	}
}

// fetchList marks the list as loading, bumps its generation and returns the
// fetch effect. Page 0 resets the list's flags; later pages load "more".
func fetchList(s *AppState, key domain.ListKey, page int, env *Environment) tea.Cmd {
	l := s.Home.List(key)
	if l == nil || page < 0 {
		return nil
	}
	if page > 0 && !key.Type.Paginated() {
		return nil
	}

	if page == 0 {
		l.Loading = true
		l.LoadFailed = false
		l.NotFound = false
		l.MoreLoading = false
		l.MoreLoadFailed = false
	} else {
		if l.Loading || l.MoreLoading {
			return nil
		}
		l.MoreLoading = true
		l.MoreLoadFailed = false
	}
	l.Generation++
	gen := l.Generation

	req := domain.ListRequest{Key: key, Page: page}
	switch key.Type {
	case domain.ListSearch:
		req.Keyword = s.Home.SearchKeyword
		req.Filter = s.Settings.Filter()
	case domain.ListFrontpage, domain.ListWatched:
		req.Filter = s.Settings.Filter()
	}

	return perform(env, "fetch_list:"+key.String(),
		func(ctx context.Context) (domain.ListPage, error) {
			return env.Gallery.FetchList(ctx, req)
		},
		func(r Result[domain.ListPage]) Action {
			return FetchListDone{List: key, Page: page, Generation: gen, Result: r}
		})
}
