package ehentai

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/panda/internal/domain"
	"golang.org/x/net/html"
)

const fundsMarker = "Current Funds"

var (
	fundsGPPattern      = regexp.MustCompile(`([\d,]+)\s*GP`)
	fundsCreditsPattern = regexp.MustCompile(`([\d,]+)\s*Credits`)
)

// FetchArchive returns the H@H archive grid from the archiver page
func (c *Client) FetchArchive(ctx context.Context, archiveURL string) (domain.Archive, error) {
	doc, err := c.getDocument(ctx, c.rebase(archiveURL))
	if err != nil {
		return domain.Archive{}, err
	}
	archive := parseArchive(doc)
	if len(archive.HathArchives) == 0 {
		return domain.Archive{}, fmt.Errorf("%w: archive grid missing", domain.ErrParse)
	}
	return archive, nil
}

// FetchArchiveFunds returns the account balance shown on the archiver page
func (c *Client) FetchArchiveFunds(ctx context.Context, archiveURL string) (domain.Funds, error) {
	doc, err := c.getDocument(ctx, c.rebase(archiveURL))
	if err != nil {
		return domain.Funds{}, err
	}
	return parseFunds(doc)
}

// SendDownloadCommand asks the user's H@H client to download the archive
func (c *Client) SendDownloadCommand(ctx context.Context, archiveURL string, res domain.ArchiveRes) (string, error) {
	form := url.Values{}
	form.Set("hathdl_xres", res.Param())

	doc, err := c.postForm(ctx, c.rebase(archiveURL), form)
	if err != nil {
		return "", err
	}

	resp := selectText(doc, "#db")
	if resp == "" {
		resp = selectText(doc, "body")
	}
	if resp == "" {
		return "", fmt.Errorf("%w: empty download response", domain.ErrParse)
	}
	c.logger.Info("download command sent", "resolution", res, "response", resp)
	return resp, nil
}

func parseArchive(doc *html.Node) domain.Archive {
	var archive domain.Archive
	for _, td := range querySelectorAll(doc, "td") {
		ps := childElements(td, "p")
		if len(ps) < 3 {
			continue
		}
		res, ok := domain.ParseArchiveRes(text(ps[0]))
		if !ok {
			continue
		}
		archive.HathArchives = append(archive.HathArchives, domain.HathArchive{
			Resolution: res,
			FileSize:   text(ps[1]),
			GPPrice:    text(ps[2]),
		})
	}
	return archive
}

func parseFunds(doc *html.Node) (domain.Funds, error) {
	t := text(doc)
	idx := strings.Index(t, fundsMarker)
	if idx < 0 {
		return domain.Funds{}, fmt.Errorf("%w: funds missing", domain.ErrParse)
	}
	t = t[idx+len(fundsMarker):]

	gp := fundsGPPattern.FindStringSubmatch(t)
	credits := fundsCreditsPattern.FindStringSubmatch(t)
	if gp == nil || credits == nil {
		return domain.Funds{}, fmt.Errorf("%w: funds missing", domain.ErrParse)
	}
	return domain.Funds{GP: gp[1], Credits: credits[1]}, nil
}
