package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mmcdole/panda/internal/domain"
	"github.com/mmcdole/panda/internal/state"
	"github.com/mmcdole/panda/internal/tui/styles"
	"github.com/spf13/cobra"
)

var (
	listPage      int
	listFavorites int
)

var listCmd = &cobra.Command{
	Use:   "list <frontpage|popular|watched|favorites>",
	Short: "Print a page of a gallery list",
	Long: `Print one page of a home list.

The stored filter applies just like in the interactive browser. Watched
and favorites need a logged-in account.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>...",
	Short: "Search galleries and record the keyword in the history",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page to print, starting at 1")
	listCmd.Flags().IntVar(&listFavorites, "favorites", int(domain.FavoritesAll), "favorites folder 0-9, -1 for all")
}

func runList(cmd *cobra.Command, args []string) error {
	listType, err := domain.ParseListType(args[0])
	if err != nil {
		return err
	}
	if listType == domain.ListSearch {
		return fmt.Errorf("use 'panda search <keyword>' to search")
	}
	if listPage < 1 {
		return fmt.Errorf("page must be at least 1")
	}
	key := domain.ListKey{Type: listType, Favorites: domain.FavoritesCategory(listFavorites)}
	if listType == domain.ListFavorites && !key.Favorites.Valid() {
		return fmt.Errorf("favorites folder must be between -1 and 9")
	}
	if !listType.Paginated() && listPage > 1 {
		return fmt.Errorf("%s has a single page", listType)
	}

	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			if err := st.DispatchAndSettle(ctx, state.FetchList{List: key, Page: listPage - 1}); err != nil {
				return err
			}
			return printList(ctx, cmd.OutOrStdout(), st, a, key)
		})
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := strings.Join(args, " ")
	return withApp(func(a *app) error {
		return a.headless(cmd.Context(), func(ctx context.Context, st *state.Store) error {
			if err := st.DispatchAndSettle(ctx, state.Search{Keyword: keyword}); err != nil {
				return err
			}
			return printList(ctx, cmd.OutOrStdout(), st, a, domain.ListKey{Type: domain.ListSearch})
		})
	})
}

// printList prints the list addressed by key as it stands after a fetch
func printList(ctx context.Context, w io.Writer, st *state.Store, a *app, key domain.ListKey) error {
	var (
		items   []domain.Gallery
		failed  bool
		summary string
		host    domain.GalleryHost
	)
	err := st.Read(ctx, func(s *state.AppState) {
		l := s.Home.List(key)
		host = s.Settings.Setting().GalleryHost
		failed = l.LoadFailed || l.MoreLoadFailed
		items = append(items, l.Items...)
		summary = fmt.Sprintf("page %d/%d", l.CurrentPage+1, l.MaxPage)
		if l.NotFound {
			summary = "no galleries found"
		}
	})
	if err != nil {
		return err
	}
	if failed {
		return fmt.Errorf("loading %s failed, see the logs in %s", key, a.cfg.Logging.Dir)
	}

	if len(items) > 0 {
		fmt.Fprintln(w, galleryTable(items, host))
	}
	fmt.Fprintln(w, styles.DimStyle.Render(summary))
	return nil
}

func galleryTable(items []domain.Gallery, host domain.GalleryHost) string {
	rows := make([][]string, 0, len(items))
	for _, g := range items {
		rows = append(rows, []string{
			g.ID,
			g.Category.String(),
			styles.Truncate(g.Title, 60),
			strconv.Itoa(g.PageCount),
			fmt.Sprintf("%.1f", g.Rating),
			g.Ref().URL(host),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.DimStyle).
		Headers("GID", "CATEGORY", "TITLE", "PAGES", "RATING", "URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TitleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
