package ehentai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/panda/internal/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/publicsuffix"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultConcurrency = 4
	userAgent          = "Mozilla/5.0 (X11; Linux x86_64) Panda/1.0"

	forumsURL = "https://forums.e-hentai.org/"
	uploadURL = "https://upld.e-hentai.org/"
	newsURL   = "https://e-hentai.org/news.php"
)

// Options configures a Client
type Options struct {
	Host    domain.GalleryHost
	Timeout time.Duration

	// Concurrency bounds the image page fan-out of FetchContents
	Concurrency int

	// BaseURL replaces every site URL, forums and uploads included. Used by
	// tests to point the client at a local server.
	BaseURL string

	Logger *slog.Logger
}

// Client implements domain.GalleryRepository by scraping the gallery site
type Client struct {
	mu   sync.RWMutex
	host domain.GalleryHost

	baseURL     string
	concurrency int
	httpClient  *http.Client
	jar         *cookiejar.Jar
	logger      *slog.Logger
	now         func() time.Time
}

// NewClient creates a new gallery site client
func NewClient(opts Options) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Host == "" {
		opts.Host = domain.HostEHentai
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		host:        opts.Host,
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		concurrency: opts.Concurrency,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Jar:     jar,
		},
		jar:    jar,
		logger: opts.Logger,
		now:    time.Now,
	}, nil
}

// Host returns the host requests currently go to
func (c *Client) Host() domain.GalleryHost {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.host
}

// SetHost switches the host for subsequent requests
func (c *Client) SetHost(host domain.GalleryHost) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.host != host {
		c.logger.Info("gallery host changed", "host", host)
	}
	c.host = host
}

// UpdateCookies loads a host's authentication cookies into the jar.
// Invalid values expire the cookie instead.
func (c *Client) UpdateCookies(s domain.CookiesState) {
	u, err := url.Parse(s.Host.URL())
	if err != nil {
		return
	}

	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, ck := range s.Cookies {
		cookie := &http.Cookie{
			Name:   ck.Key,
			Value:  string(ck.Value),
			Domain: "." + s.Host.Domain(),
			Path:   "/",
		}
		if ck.Value.IsInvalid() {
			cookie.Value = ""
			cookie.MaxAge = -1
		}
		cookies = append(cookies, cookie)
	}
	c.jar.SetCookies(u, cookies)
	if c.baseURL != "" {
		if bu, err := url.Parse(c.baseURL); err == nil {
			for _, ck := range cookies {
				ck.Domain = ""
			}
			c.jar.SetCookies(bu, cookies)
		}
	}
}

// siteURL resolves path against the current gallery host
func (c *Client) siteURL(path string) string {
	if c.baseURL != "" {
		return c.baseURL + "/" + strings.TrimPrefix(path, "/")
	}
	return c.Host().URL() + strings.TrimPrefix(path, "/")
}

// absoluteURL resolves path against a fixed site root, honoring BaseURL
func (c *Client) absoluteURL(root, path string) string {
	if c.baseURL != "" {
		return c.baseURL + "/" + strings.TrimPrefix(path, "/")
	}
	return root + strings.TrimPrefix(path, "/")
}

// rebase points an absolute URL scraped from a page at BaseURL when set
func (c *Client) rebase(raw string) string {
	if c.baseURL == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return raw
	}
	return c.baseURL + u.RequestURI()
}

// doRequest performs an HTTP request with the session cookies
func (c *Client) doRequest(ctx context.Context, method, reqURL string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("site request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("site request failed", "url", reqURL, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("site request error", "status", resp.StatusCode, "url", reqURL)
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrNetwork, resp.StatusCode)
	}

	// ExHentai answers unauthenticated requests with an empty page
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domain.ErrAuthFailed
	}
	return data, nil
}

// getDocument fetches reqURL and parses it as HTML
func (c *Client) getDocument(ctx context.Context, reqURL string) (*html.Node, error) {
	data, err := c.doRequest(ctx, http.MethodGet, reqURL, nil, "")
	if err != nil {
		return nil, err
	}
	return parseDocument(data)
}

// postForm submits form values and parses the response as HTML
func (c *Client) postForm(ctx context.Context, reqURL string, form url.Values) (*html.Node, error) {
	data, err := c.doRequest(ctx, http.MethodPost, reqURL,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	return parseDocument(data)
}

func parseDocument(data []byte) (*html.Node, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if msg := siteError(doc); msg != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	}
	return doc, nil
}

// siteError recognizes the plain error pages the site serves with status 200
func siteError(doc *html.Node) string {
	body := querySelector(doc, "body")
	if body == nil {
		return ""
	}
	t := text(body)
	for _, marker := range []string{
		"Key missing, or incorrect key provided.",
		"This gallery has been removed",
		"Gallery not found.",
		"Invalid page.",
	} {
		if strings.Contains(t, marker) && len(t) < 512 {
			return marker
		}
	}
	return ""
}

var _ domain.GalleryRepository = (*Client)(nil)
