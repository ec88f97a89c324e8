package ehentai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sync"

	"github.com/mmcdole/panda/internal/domain"
	"golang.org/x/sync/errgroup"
)

var (
	mpvKeyPattern    = regexp.MustCompile(`var\s+mpvkey\s*=\s*"([^"]+)"`)
	imageListPattern = regexp.MustCompile(`var\s+imagelist\s*=\s*(\[.*?\]);`)
)

// FetchContents returns image index -> full image URL for one preview page.
// Each image sits behind its own page, so those are fetched concurrently.
func (c *Client) FetchContents(ctx context.Context, ref domain.GalleryRef, previewPage int) (map[int]string, error) {
	doc, err := c.getDocument(ctx, c.galleryURL(ref, previewPage))
	if err != nil {
		return nil, err
	}
	links := parsePreviewLinks(doc)
	if len(links) == 0 {
		return nil, fmt.Errorf("%w: no image pages on preview page %d", domain.ErrParse, previewPage)
	}

	var (
		mu       sync.Mutex
		contents = make(map[int]string, len(links))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, link := range links {
		g.Go(func() error {
			src, err := c.fetchImageURL(gctx, c.rebase(link.pageURL))
			if err != nil {
				return fmt.Errorf("image %d: %w", link.index, err)
			}
			mu.Lock()
			contents[link.index] = src
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched contents", "gid", ref.ID, "page", previewPage, "count", len(contents))
	return contents, nil
}

// fetchImageURL reads the full image URL from an image page
func (c *Client) fetchImageURL(ctx context.Context, pageURL string) (string, error) {
	doc, err := c.getDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}
	img := querySelector(doc, "img#img")
	if img == nil || getAttr(img, "src") == "" {
		return "", fmt.Errorf("%w: image missing on %s", domain.ErrParse, pageURL)
	}
	return getAttr(img, "src"), nil
}

type mpvImage struct {
	Name      string `json:"n"`
	Key       string `json:"k"`
	Thumbnail string `json:"t"`
}

// FetchMPVKeys returns the multi-page viewer keys of the gallery
func (c *Client) FetchMPVKeys(ctx context.Context, ref domain.GalleryRef) (domain.MPVKeys, error) {
	data, err := c.doRequest(ctx, http.MethodGet, c.siteURL(fmt.Sprintf("/mpv/%s/%s/", ref.ID, ref.Token)), nil, "")
	if err != nil {
		return domain.MPVKeys{}, err
	}
	return parseMPVKeys(data)
}

func parseMPVKeys(data []byte) (domain.MPVKeys, error) {
	key := mpvKeyPattern.FindSubmatch(data)
	list := imageListPattern.FindSubmatch(data)
	if key == nil || list == nil {
		return domain.MPVKeys{}, fmt.Errorf("%w: multi-page viewer keys missing", domain.ErrParse)
	}

	var images []mpvImage
	if err := json.Unmarshal(list[1], &images); err != nil {
		return domain.MPVKeys{}, fmt.Errorf("%w: image list: %v", domain.ErrParse, err)
	}

	keys := domain.MPVKeys{Key: string(key[1]), ImageKeys: make(map[int]string, len(images))}
	for i, img := range images {
		keys.ImageKeys[i+1] = img.Key
	}
	return keys, nil
}
