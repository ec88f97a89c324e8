package domain

import (
	"strings"
	"unicode"
)

// ArchiveRes is a resolution offered for H@H archive downloads
type ArchiveRes string

const (
	Res780      ArchiveRes = "780x"
	Res980      ArchiveRes = "980x"
	Res1280     ArchiveRes = "1280x"
	Res1600     ArchiveRes = "1600x"
	Res2400     ArchiveRes = "2400x"
	ResOriginal ArchiveRes = "Original"
)

// ArchiveResolutions lists resolutions in the order the site shows them
var ArchiveResolutions = []ArchiveRes{Res780, Res980, Res1280, Res1600, Res2400, ResOriginal}

// Param returns the value the download form expects for this resolution
func (r ArchiveRes) Param() string {
	if r == ResOriginal {
		return "org"
	}
	return strings.TrimSuffix(string(r), "x")
}

// ParseArchiveRes accepts either the label ("1280x", "Original") or the
// form value ("1280", "org")
func ParseArchiveRes(s string) (ArchiveRes, bool) {
	s = strings.TrimSpace(s)
	for _, r := range ArchiveResolutions {
		if strings.EqualFold(s, string(r)) || strings.EqualFold(s, r.Param()) {
			return r, true
		}
	}
	return "", false
}

// HathArchive is one cell of the H@H archive grid
type HathArchive struct {
	Resolution ArchiveRes
	FileSize   string // "N/A" when not offered
	GPPrice    string // "N/A" when not offered
}

// Available reports whether the archive can be requested
func (a HathArchive) Available() bool {
	return a.FileSize != "N/A" && a.GPPrice != "N/A"
}

// Archive is the parsed archiver page
type Archive struct {
	HathArchives []HathArchive
}

// Find returns the archive entry with the given resolution
func (a Archive) Find(res ArchiveRes) (HathArchive, bool) {
	for _, h := range a.HathArchives {
		if h.Resolution == res {
			return h, true
		}
	}
	return HathArchive{}, false
}

// ProcessDownloadResponse shortens the site's confirmation text
// ("... A 1280x resolution ... client MyClient Downloads ...") to
// "1280x -> MyClient". Anything else is returned unchanged.
func ProcessDownloadResponse(resp string) string {
	a := strings.Index(resp, "A ")
	b := strings.Index(resp, "resolution")
	c := strings.Index(resp, "client")
	d := strings.Index(resp, "Downloads")
	if a < 0 || b < 0 || c < 0 || d < 0 || a+2 > b || c+len("client") > d {
		return resp
	}

	res := strings.TrimSpace(resp[a+2 : b])
	name := strings.TrimSpace(resp[c+len("client") : d])
	if res == "" || name == "" {
		return resp
	}
	return capitalize(res) + " -> " + name
}

func capitalize(s string) string {
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
