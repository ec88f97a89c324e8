package ehentai

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/panda/internal/domain"
	"golang.org/x/net/html"
)

const postedLayout = "2006-01-02 15:04"

var (
	galleryURLPattern = regexp.MustCompile(`/g/(\d+)/([0-9a-f]+)/?`)
	ratingPattern     = regexp.MustCompile(`background-position:\s*(-?\d+)px\s+(-?\d+)px`)
	pageCountPattern  = regexp.MustCompile(`(\d+)\s+pages?`)
)

// FetchList returns one page of a home list
func (c *Client) FetchList(ctx context.Context, req domain.ListRequest) (domain.ListPage, error) {
	doc, err := c.getDocument(ctx, c.listURL(req))
	if err != nil {
		return domain.ListPage{}, err
	}

	page := parseList(doc)
	page.CurrentPage = req.Page
	if !req.Key.Type.Paginated() {
		page.CurrentPage, page.MaxPage = 0, 1
	}
	if page.MaxPage <= page.CurrentPage {
		page.MaxPage = page.CurrentPage + 1
	}
	return page, nil
}

// listURL builds the page URL of a list request
func (c *Client) listURL(req domain.ListRequest) string {
	q := url.Values{}
	if req.Page > 0 {
		q.Set("page", strconv.Itoa(req.Page))
	}

	var path string
	switch req.Key.Type {
	case domain.ListSearch:
		path = "/"
		q.Set("f_search", req.Keyword)
		req.Filter.Apply(q)
	case domain.ListFrontpage:
		path = "/"
		req.Filter.Apply(q)
	case domain.ListPopular:
		path = "/popular"
		q.Del("page")
	case domain.ListWatched:
		path = "/watched"
		req.Filter.Apply(q)
	case domain.ListFavorites:
		path = "/favorites.php"
		if req.Key.Favorites != domain.FavoritesAll {
			q.Set("favcat", strconv.Itoa(int(req.Key.Favorites)))
		}
	}

	u := c.siteURL(path)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// parseList reads the gallery table of a list page in compact mode
func parseList(doc *html.Node) domain.ListPage {
	var page domain.ListPage
	for _, row := range querySelectorAll(doc, "table.itg tr") {
		if g, ok := parseListRow(row); ok {
			page.Items = append(page.Items, g)
		}
	}
	page.MaxPage = parseMaxPage(doc)
	return page
}

func parseListRow(row *html.Node) (domain.Gallery, bool) {
	var g domain.Gallery

	link := querySelector(row, "td.gl3c a")
	if link == nil {
		return g, false
	}
	m := galleryURLPattern.FindStringSubmatch(getAttr(link, "href"))
	if m == nil {
		return g, false
	}
	g.ID, g.Token = m[1], m[2]
	g.Title = selectText(link, "div.glink")

	if cat := querySelector(row, "td.gl1c div"); cat != nil {
		g.Category, _ = domain.ParseCategory(text(cat))
	}
	if img := querySelector(row, "div.glthumb img"); img != nil {
		g.CoverURL = imageSource(img)
	}
	for _, div := range querySelectorAll(row, "div[id]") {
		if strings.HasPrefix(getAttr(div, "id"), "posted_") {
			g.PostedAt, _ = time.Parse(postedLayout, text(div))
			break
		}
	}
	if ir := querySelector(row, "div.ir"); ir != nil {
		g.Rating = parseRating(getAttr(ir, "style"))
	}
	for _, gt := range querySelectorAll(row, "div.gt") {
		if ns, v, ok := strings.Cut(getAttr(gt, "title"), ":"); ok && ns == "language" && v != "translated" {
			g.Language = v
			break
		}
	}
	if up := querySelector(row, "td.gl4c a"); up != nil {
		g.Uploader = text(up)
	}
	if m := pageCountPattern.FindStringSubmatch(text(querySelector(row, "td.gl4c"))); m != nil {
		g.PageCount, _ = strconv.Atoi(m[1])
	}
	return g, true
}

// imageSource prefers the lazy-load attribute over the placeholder src
func imageSource(img *html.Node) string {
	if src := getAttr(img, "data-src"); src != "" {
		return src
	}
	return getAttr(img, "src")
}

// parseRating decodes the star sprite offset: each 16px to the left is one
// star less, and the lower sprite row (-21px) marks a half star.
func parseRating(style string) float32 {
	m := ratingPattern.FindStringSubmatch(style)
	if m == nil {
		return 0
	}
	x, _ := strconv.Atoi(m[1])
	y, _ := strconv.Atoi(m[2])
	rating := 5 - math.Abs(float64(x))/16
	if y == -21 {
		rating -= 0.5
	}
	return float32(math.Max(0, rating))
}

// parseMaxPage returns the highest page number of the pagination table
func parseMaxPage(doc *html.Node) int {
	maxPage := 1
	for _, td := range querySelectorAll(doc, "table.ptt td") {
		if n, err := strconv.Atoi(strings.ReplaceAll(text(td), ",", "")); err == nil && n > maxPage {
			maxPage = n
		}
	}
	return maxPage
}

// firstGalleryRef returns the first gallery of a list page
func firstGalleryRef(doc *html.Node) (domain.GalleryRef, error) {
	page := parseList(doc)
	if len(page.Items) == 0 {
		return domain.GalleryRef{}, fmt.Errorf("%w: no matching gallery", domain.ErrNotFound)
	}
	return page.Items[0].Ref(), nil
}
