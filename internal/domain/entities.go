package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category is a gallery category. Values are the bits the site expects in
// its f_cats exclusion mask.
type Category int

const (
	CategoryMisc      Category = 1
	CategoryDoujinshi Category = 2
	CategoryManga     Category = 4
	CategoryArtistCG  Category = 8
	CategoryGameCG    Category = 16
	CategoryImageSet  Category = 32
	CategoryCosplay   Category = 64
	CategoryAsianPorn Category = 128
	CategoryNonH      Category = 256
	CategoryWestern   Category = 512
)

// AllCategories lists every category in display order
var AllCategories = []Category{
	CategoryDoujinshi, CategoryManga, CategoryArtistCG, CategoryGameCG, CategoryWestern,
	CategoryNonH, CategoryImageSet, CategoryCosplay, CategoryAsianPorn, CategoryMisc,
}

var categoryNames = map[Category]string{
	CategoryMisc:      "Misc",
	CategoryDoujinshi: "Doujinshi",
	CategoryManga:     "Manga",
	CategoryArtistCG:  "Artist CG",
	CategoryGameCG:    "Game CG",
	CategoryImageSet:  "Image Set",
	CategoryCosplay:   "Cosplay",
	CategoryAsianPorn: "Asian Porn",
	CategoryNonH:      "Non-H",
	CategoryWestern:   "Western",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ParseCategory maps the label printed on list pages back to a Category
func ParseCategory(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for c, name := range categoryNames {
		if strings.EqualFold(name, label) {
			return c, true
		}
	}
	return 0, false
}

// GalleryHost selects which of the two sites requests go to
type GalleryHost string

const (
	HostEHentai  GalleryHost = "E-Hentai"
	HostExHentai GalleryHost = "ExHentai"
)

// URL returns the base URL of the host, with trailing slash
func (h GalleryHost) URL() string {
	if h == HostExHentai {
		return "https://exhentai.org/"
	}
	return "https://e-hentai.org/"
}

// Domain returns the cookie domain of the host
func (h GalleryHost) Domain() string {
	if h == HostExHentai {
		return "exhentai.org"
	}
	return "e-hentai.org"
}

// ParseGalleryHost accepts either the display name or the bare domain
func ParseGalleryHost(s string) (GalleryHost, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e-hentai", "e-hentai.org", "eh", "":
		return HostEHentai, nil
	case "exhentai", "exhentai.org", "ex":
		return HostExHentai, nil
	}
	return "", fmt.Errorf("unknown gallery host %q", s)
}

// Gallery is one entry of a gallery list page
type Gallery struct {
	ID        string    // gid
	Token     string    // gallery token, required together with the gid
	Title     string    // Display title
	Category  Category  // Site category
	Uploader  string    // Uploader name, empty when hidden
	Rating    float32   // 0-5 in half steps
	PageCount int       // Number of images
	Language  string    // Language tag, empty when not tagged
	PostedAt  time.Time // Upload time
	CoverURL  string    // Thumbnail URL
}

// Equal reports value equality. Lists deduplicate with it.
func (g Gallery) Equal(o Gallery) bool {
	return g.ID == o.ID &&
		g.Token == o.Token &&
		g.Title == o.Title &&
		g.Category == o.Category &&
		g.Uploader == o.Uploader &&
		g.Rating == o.Rating &&
		g.PageCount == o.PageCount &&
		g.Language == o.Language &&
		g.PostedAt.Equal(o.PostedAt) &&
		g.CoverURL == o.CoverURL
}

// Ref returns the identifying pair of the gallery
func (g Gallery) Ref() GalleryRef {
	return GalleryRef{ID: g.ID, Token: g.Token}
}

// GalleryRef identifies a gallery on the site
type GalleryRef struct {
	ID    string
	Token string
}

// URL returns the gallery page URL on the given host
func (r GalleryRef) URL(host GalleryHost) string {
	return fmt.Sprintf("%sg/%s/%s/", host.URL(), r.ID, r.Token)
}

// ListType is the closed set of home lists
type ListType int

const (
	ListSearch ListType = iota
	ListFrontpage
	ListPopular
	ListWatched
	ListFavorites
)

var listTypeNames = []string{"search", "frontpage", "popular", "watched", "favorites"}

func (t ListType) String() string {
	if int(t) < 0 || int(t) >= len(listTypeNames) {
		return "unknown"
	}
	return listTypeNames[t]
}

// ParseListType parses the lower-case list name
func ParseListType(s string) (ListType, error) {
	for i, name := range listTypeNames {
		if strings.EqualFold(s, name) {
			return ListType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown list type %q", s)
}

// Paginated reports whether the list supports fetching further pages
func (t ListType) Paginated() bool {
	return t != ListPopular
}

// FavoritesCategory is a favorites folder. FavoritesAll (-1) aggregates all
// folders, 0-9 are the numbered folders.
type FavoritesCategory int

const (
	FavoritesAll FavoritesCategory = -1

	// FavoritesCategoryCount is the number of categories including FavoritesAll
	FavoritesCategoryCount = 11
)

// Index maps the category onto [0, FavoritesCategoryCount)
func (c FavoritesCategory) Index() int {
	return int(c) + 1
}

// Valid reports whether c is in [-1, 9]
func (c FavoritesCategory) Valid() bool {
	return c >= FavoritesAll && c <= 9
}

// FavoritesCategories returns every category in order, FavoritesAll first
func FavoritesCategories() []FavoritesCategory {
	out := make([]FavoritesCategory, 0, FavoritesCategoryCount)
	for c := FavoritesAll; c <= 9; c++ {
		out = append(out, c)
	}
	return out
}

// DefaultFavoriteName is used when the user has not named a folder
func DefaultFavoriteName(c FavoritesCategory) string {
	if c == FavoritesAll {
		return "All"
	}
	return fmt.Sprintf("Favorites %d", int(c))
}

// ListKey addresses one home list. Favorites is only meaningful for ListFavorites.
type ListKey struct {
	Type      ListType
	Favorites FavoritesCategory
}

func (k ListKey) String() string {
	if k.Type == ListFavorites {
		return fmt.Sprintf("favorites[%d]", int(k.Favorites))
	}
	return k.Type.String()
}

// ListRequest carries everything a gallery client needs to fetch one list page
type ListRequest struct {
	Key     ListKey
	Keyword string
	Filter  Filter
	Page    int
}

// ListPage is one fetched page of a gallery list
type ListPage struct {
	Items       []Gallery
	CurrentPage int // zero-based
	MaxPage     int // number of pages, at least 1
}

// Tag is one namespaced tag group of a gallery
type Tag struct {
	Namespace string
	Values    []string
}

// GalleryDetail is the parsed gallery page
type GalleryDetail struct {
	Gallery
	JapaneseTitle string
	Parent        string
	Visible       string
	FileSize      string
	FavoritedBy   int
	RatingCount   int
	ArchiveURL    string
	Tags          []Tag
	PreviewPages  int // number of preview pages the gallery has
}

// PreviewConfig determines how many previews one preview page holds
type PreviewConfig struct {
	Rows int
}

// DefaultPreviewRows is the site default thumbnail row count
const DefaultPreviewRows = 4

// PerPage returns the number of previews per preview page
func (c PreviewConfig) PerPage() int {
	rows := c.Rows
	if rows <= 0 {
		rows = DefaultPreviewRows
	}
	return rows * 10
}

// PageRange returns the 1-based image index range covered by a preview page
func (c PreviewConfig) PageRange(previewPage int) (first, last int) {
	per := c.PerPage()
	first = previewPage*per + 1
	last = first + per - 1
	return first, last
}

// GalleryState is the persisted per-gallery cache
type GalleryState struct {
	Previews map[int]string `json:"previews,omitempty"`
	Contents map[int]string `json:"contents,omitempty"`
}

// MPVKeys is the data needed to resolve images through the multi-page viewer
type MPVKeys struct {
	Key       string
	ImageKeys map[int]string
}
