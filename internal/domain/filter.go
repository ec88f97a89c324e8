package domain

import (
	"net/url"
	"strconv"
	"time"
)

// Filter holds the advanced search options applied to search and frontpage
type Filter struct {
	ExcludedCategories []Category `json:"excludedCategories,omitempty"`
	MinRating          int        `json:"minRating,omitempty"` // 0 disables, otherwise 2-5
	PageLowerBound     int        `json:"pageLowerBound,omitempty"`
	PageUpperBound     int        `json:"pageUpperBound,omitempty"`
	SearchName         bool       `json:"searchName"`
	SearchTags         bool       `json:"searchTags"`
	SearchDescription  bool       `json:"searchDescription,omitempty"`
	ShowExpunged       bool       `json:"showExpunged,omitempty"`
	DisableLanguage    bool       `json:"disableLanguage,omitempty"`
	DisableUploader    bool       `json:"disableUploader,omitempty"`
	DisableTags        bool       `json:"disableTags,omitempty"`
}

// DefaultFilter returns the filter used when none is stored
func DefaultFilter() Filter {
	return Filter{SearchName: true, SearchTags: true}
}

// CategoryMask returns the f_cats value excluding the filtered categories
func (f Filter) CategoryMask() int {
	mask := 0
	for _, c := range f.ExcludedCategories {
		mask |= int(c)
	}
	return mask
}

// Excludes reports whether c is filtered out
func (f Filter) Excludes(c Category) bool {
	return f.CategoryMask()&int(c) != 0
}

// Apply writes the filter's query parameters into q
func (f Filter) Apply(q url.Values) {
	if mask := f.CategoryMask(); mask != 0 {
		q.Set("f_cats", strconv.Itoa(mask))
	}

	advanced := false
	set := func(key string, on bool) {
		if on {
			q.Set(key, "on")
			advanced = true
		}
	}
	set("f_sname", f.SearchName)
	set("f_stags", f.SearchTags)
	set("f_sdesc", f.SearchDescription)
	set("f_sh", f.ShowExpunged)
	set("f_sfl", f.DisableLanguage)
	set("f_sfu", f.DisableUploader)
	set("f_sft", f.DisableTags)

	if f.MinRating >= 2 && f.MinRating <= 5 {
		q.Set("f_sr", "on")
		q.Set("f_srdd", strconv.Itoa(f.MinRating))
		advanced = true
	}
	if f.PageLowerBound > 0 || f.PageUpperBound > 0 {
		q.Set("f_sp", "on")
		if f.PageLowerBound > 0 {
			q.Set("f_spf", strconv.Itoa(f.PageLowerBound))
		}
		if f.PageUpperBound > 0 {
			q.Set("f_spt", strconv.Itoa(f.PageUpperBound))
		}
		advanced = true
	}
	if advanced {
		q.Set("advsearch", "1")
	}
}

// Setting holds the app configuration that lives in the settings store
type Setting struct {
	GalleryHost          GalleryHost `json:"galleryHost"`
	ShowsNewDawnGreeting bool        `json:"showsNewDawnGreeting"`
	TranslatesTags       bool        `json:"translatesTags"`
	PreviewRows          int         `json:"previewRows"`
}

// DefaultSetting returns the setting used when none is stored
func DefaultSetting() Setting {
	return Setting{
		GalleryHost: HostEHentai,
		PreviewRows: DefaultPreviewRows,
	}
}

// Translator is a tag translation dictionary
type Translator struct {
	Language  string            `json:"language,omitempty" toml:"language"`
	UpdatedAt time.Time         `json:"updatedAt,omitempty" toml:"updated_at"`
	Dict      map[string]string `json:"dict,omitempty" toml:"dict"`
}

// Translate returns the translation of text, or text itself
func (t Translator) Translate(text string) string {
	if v, ok := t.Dict[text]; ok && v != "" {
		return v
	}
	return text
}
