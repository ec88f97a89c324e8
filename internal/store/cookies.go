package store

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/panda/internal/domain"
)

// CookieStore persists the authentication cookies of both hosts. OnChange,
// when set, is called with the full state of a host after every write so the
// HTTP client can refresh its cookie jar.
type CookieStore struct {
	store    *Store
	logger   *slog.Logger
	OnChange func(domain.CookiesState)
}

// NewCookieStore creates a cookie store on top of s
func NewCookieStore(s *Store, logger *slog.Logger) *CookieStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CookieStore{store: s, logger: logger}
}

func cookieKey(host domain.GalleryHost, key string) string {
	return host.Domain() + ":" + key
}

// Load returns every cookie of host; missing cookies have empty values
func (c *CookieStore) Load(host domain.GalleryHost) (domain.CookiesState, error) {
	state := domain.EmptyCookiesState(host)
	for i, cs := range state.Cookies {
		var v string
		if _, err := c.store.get(bucketCookies, cookieKey(host, cs.Key), &v); err != nil {
			return state, fmt.Errorf("failed to load cookie %s: %w", cs.Key, err)
		}
		state.Cookies[i].Value = domain.CookieValue(v)
	}
	return state, nil
}

// Set writes one cookie of host
func (c *CookieStore) Set(host domain.GalleryHost, key string, value domain.CookieValue) error {
	if err := c.store.set(bucketCookies, cookieKey(host, key), string(value)); err != nil {
		return fmt.Errorf("failed to save cookie %s: %w", key, err)
	}
	c.logger.Debug("cookie updated", "host", host, "key", key, "valid", !value.IsInvalid())
	c.notify(host)
	return nil
}

// Clear removes the cookies of both hosts
func (c *CookieStore) Clear() error {
	if err := c.store.clearBucket(bucketCookies); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	c.logger.Info("cookies cleared")
	c.notify(domain.HostEHentai)
	c.notify(domain.HostExHentai)
	return nil
}

// Sync calls OnChange for both hosts with their stored cookies
func (c *CookieStore) Sync() {
	c.notify(domain.HostEHentai)
	c.notify(domain.HostExHentai)
}

func (c *CookieStore) notify(host domain.GalleryHost) {
	if c.OnChange == nil {
		return
	}
	state, err := c.Load(host)
	if err != nil {
		c.logger.Warn("failed to reload cookies", "host", host, "error", err)
		return
	}
	c.OnChange(state)
}
