package ehentai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/panda/internal/domain"
	"golang.org/x/net/html"
)

var (
	imagePageURLPattern = regexp.MustCompile(`/s/([0-9a-f]+)/(\d+)-(\d+)`)
	cssURLPattern       = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)
	archivePopupPattern = regexp.MustCompile(`'([^']*archiver\.php[^']*)'`)
	leadingIntPattern   = regexp.MustCompile(`[\d,]+`)
)

// galleryURL returns the gallery page URL, optionally for a preview page
func (c *Client) galleryURL(ref domain.GalleryRef, previewPage int) string {
	u := c.siteURL(fmt.Sprintf("/g/%s/%s/", ref.ID, ref.Token))
	if previewPage > 0 {
		u += "?p=" + strconv.Itoa(previewPage)
	}
	return u
}

// FetchDetail returns the parsed gallery page
func (c *Client) FetchDetail(ctx context.Context, ref domain.GalleryRef) (domain.GalleryDetail, error) {
	doc, err := c.getDocument(ctx, c.galleryURL(ref, 0))
	if err != nil {
		return domain.GalleryDetail{}, err
	}
	d, err := parseDetail(doc, ref)
	if err != nil {
		return domain.GalleryDetail{}, err
	}
	d.ArchiveURL = c.rebase(d.ArchiveURL)
	return d, nil
}

// FetchPreviews returns image index -> thumbnail URL for one preview page
func (c *Client) FetchPreviews(ctx context.Context, ref domain.GalleryRef, previewPage int) (map[int]string, error) {
	doc, err := c.getDocument(ctx, c.galleryURL(ref, previewPage))
	if err != nil {
		return nil, err
	}
	previews := make(map[int]string)
	for _, p := range parsePreviewLinks(doc) {
		if p.thumbnail != "" {
			previews[p.index] = p.thumbnail
		}
	}
	if len(previews) == 0 {
		return nil, fmt.Errorf("%w: no previews on page %d", domain.ErrParse, previewPage)
	}
	return previews, nil
}

func parseDetail(doc *html.Node, ref domain.GalleryRef) (domain.GalleryDetail, error) {
	title := selectText(doc, "#gn")
	if title == "" {
		return domain.GalleryDetail{}, fmt.Errorf("%w: gallery title missing", domain.ErrParse)
	}

	d := domain.GalleryDetail{
		Gallery: domain.Gallery{
			ID:    ref.ID,
			Token: ref.Token,
			Title: title,
		},
		JapaneseTitle: selectText(doc, "#gj"),
		PreviewPages:  parseMaxPage(doc),
	}

	d.Category, _ = domain.ParseCategory(selectText(doc, "#gdc div"))
	d.Uploader = selectText(doc, "#gdn")
	if cover := querySelector(doc, "#gd1 div"); cover != nil {
		if m := cssURLPattern.FindStringSubmatch(getAttr(cover, "style")); m != nil {
			d.CoverURL = m[1]
		}
	}

	for _, row := range querySelectorAll(doc, "#gdd tr") {
		label := strings.TrimSuffix(selectText(row, "td.gdt1"), ":")
		value := selectText(row, "td.gdt2")
		switch label {
		case "Posted":
			d.PostedAt, _ = time.Parse(postedLayout, value)
		case "Parent":
			d.Parent = value
		case "Visible":
			d.Visible = value
		case "Language":
			if fields := strings.Fields(value); len(fields) > 0 {
				d.Language = strings.ToLower(fields[0])
			}
		case "File Size":
			d.FileSize = value
		case "Length":
			d.PageCount = parseInt(value)
		case "Favorited":
			switch value {
			case "Never":
				d.FavoritedBy = 0
			case "Once":
				d.FavoritedBy = 1
			default:
				d.FavoritedBy = parseInt(value)
			}
		}
	}

	if avg := strings.TrimPrefix(selectText(doc, "#rating_label"), "Average:"); avg != "" {
		if r, err := strconv.ParseFloat(strings.TrimSpace(avg), 32); err == nil {
			d.Rating = float32(r)
		}
	}
	d.RatingCount = parseInt(selectText(doc, "#rating_count"))

	for _, row := range querySelectorAll(doc, "#taglist tr") {
		ns := strings.TrimSuffix(selectText(row, "td.tc"), ":")
		if ns == "" {
			continue
		}
		tag := domain.Tag{Namespace: ns}
		for _, a := range querySelectorAll(row, "div a") {
			if v := text(a); v != "" {
				tag.Values = append(tag.Values, v)
			}
		}
		d.Tags = append(d.Tags, tag)
	}

	for _, a := range querySelectorAll(doc, "#gd5 a") {
		if m := archivePopupPattern.FindStringSubmatch(getAttr(a, "onclick")); m != nil {
			d.ArchiveURL = m[1]
			break
		}
	}
	return d, nil
}

type previewLink struct {
	index     int
	pageURL   string
	thumbnail string
}

// parsePreviewLinks reads the thumbnail grid of a gallery page
func parsePreviewLinks(doc *html.Node) []previewLink {
	var links []previewLink
	for _, a := range querySelectorAll(doc, "#gdt a") {
		href := getAttr(a, "href")
		m := imagePageURLPattern.FindStringSubmatch(href)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}

		p := previewLink{index: index, pageURL: href}
		if img := querySelector(a, "img"); img != nil {
			p.thumbnail = imageSource(img)
		} else if div := querySelector(a, "div[style]"); div != nil {
			if m := cssURLPattern.FindStringSubmatch(getAttr(div, "style")); m != nil {
				p.thumbnail = m[1]
			}
		}
		links = append(links, p)
	}
	return links
}

// parseInt reads the first integer of s, ignoring thousands separators
func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.ReplaceAll(leadingIntPattern.FindString(s), ",", ""))
	return n
}
