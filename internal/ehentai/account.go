package ehentai

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/panda/internal/domain"
	"golang.org/x/net/html"
)

var greetingPattern = regexp.MustCompile(`([\d,]+)\s+(EXP|Credits|GP|Hath)\b`)

// FetchUserInfo returns the forum profile of the member with the given id
func (c *Client) FetchUserInfo(ctx context.Context, memberID string) (domain.UserUpdate, error) {
	profileURL := c.absoluteURL(forumsURL, "/index.php?showuser="+url.QueryEscape(memberID))
	doc, err := c.getDocument(ctx, profileURL)
	if err != nil {
		return domain.UserUpdate{}, err
	}

	name := selectText(doc, "#profilename")
	if name == "" {
		return domain.UserUpdate{}, fmt.Errorf("%w: profile of member %s", domain.ErrNotFound, memberID)
	}
	update := domain.UserUpdate{DisplayName: &name}
	if avatar := findAvatar(doc, profileURL); avatar != "" {
		update.AvatarURL = &avatar
	}
	return update, nil
}

// findAvatar returns the first profile image that is not a forum theme asset
func findAvatar(doc *html.Node, base string) string {
	for _, img := range querySelectorAll(doc, "img") {
		src := getAttr(img, "src")
		if src == "" || strings.Contains(src, "style_images") {
			continue
		}
		if !strings.Contains(src, "avatar") && !strings.Contains(src, "/uploads/") {
			continue
		}
		b, err := url.Parse(base)
		if err != nil {
			return src
		}
		ref, err := url.Parse(src)
		if err != nil {
			return src
		}
		return b.ResolveReference(ref).String()
	}
	return ""
}

// FetchFavoriteNames returns the user's favorites folder names
func (c *Client) FetchFavoriteNames(ctx context.Context) (map[domain.FavoritesCategory]string, error) {
	doc, err := c.getDocument(ctx, c.siteURL("/uconfig.php"))
	if err != nil {
		return nil, err
	}

	names := make(map[domain.FavoritesCategory]string)
	for _, input := range querySelectorAll(doc, "input[name]") {
		idx, ok := strings.CutPrefix(getAttr(input, "name"), "favorite_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil || !domain.FavoritesCategory(n).Valid() {
			continue
		}
		if v := strings.TrimSpace(getAttr(input, "value")); v != "" {
			names[domain.FavoritesCategory(n)] = v
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: favorites names missing", domain.ErrParse)
	}
	return names, nil
}

// FetchGreeting returns today's greeting from the news page
func (c *Client) FetchGreeting(ctx context.Context) (domain.Greeting, error) {
	doc, err := c.getDocument(ctx, c.absoluteURL(newsURL, "/news.php"))
	if err != nil {
		return domain.Greeting{}, err
	}
	pane := querySelector(doc, "#eventpane")
	if pane == nil {
		return domain.Greeting{}, fmt.Errorf("%w: no greeting today", domain.ErrNotFound)
	}
	g := parseGreeting(text(pane))
	now := c.now()
	g.UpdateTime = &now
	return g, nil
}

func parseGreeting(s string) domain.Greeting {
	var g domain.Greeting
	for _, m := range greetingPattern.FindAllStringSubmatch(s, -1) {
		n := parseInt(m[1])
		switch m[2] {
		case "EXP":
			g.GainedEXP = n
		case "Credits":
			g.GainedCredits = n
		case "GP":
			g.GainedGP = n
		case "Hath":
			g.GainedHath = n
		}
	}
	return g
}

// ReverseSearch uploads an image to the file search and returns the best
// matching gallery
func (c *Client) ReverseSearch(ctx context.Context, fileName string, image []byte) (domain.GalleryRef, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("sfile", fileName)
	if err != nil {
		return domain.GalleryRef{}, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return domain.GalleryRef{}, fmt.Errorf("failed to build upload: %w", err)
	}
	for k, v := range map[string]string{"fs_similar": "on", "fs_covers": "on", "f_sfile": "File Search"} {
		if err := w.WriteField(k, v); err != nil {
			return domain.GalleryRef{}, fmt.Errorf("failed to build upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return domain.GalleryRef{}, fmt.Errorf("failed to build upload: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, c.absoluteURL(uploadURL, "/image_lookup.php"), &body, w.FormDataContentType())
	if err != nil {
		return domain.GalleryRef{}, err
	}
	doc, err := parseDocument(data)
	if err != nil {
		return domain.GalleryRef{}, err
	}
	return firstGalleryRef(doc)
}
