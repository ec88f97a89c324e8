package domain

import (
	"fmt"
	"strings"
)

// Cookie names the site authenticates with
const (
	CookieMemberID = "ipb_member_id"
	CookiePassHash = "ipb_pass_hash"
	CookieIgneous  = "igneous"
)

// CookieValue is a raw cookie value with the site's sentinel values
// recognized as invalid
type CookieValue string

// IsInvalid reports whether the value cannot authenticate
func (v CookieValue) IsInvalid() bool {
	switch strings.ToLower(string(v)) {
	case "", "mystery", "deleted":
		return true
	}
	return false
}

// CookieState is one named cookie of a host
type CookieState struct {
	Key   string
	Value CookieValue
}

// CookiesState is the set of cookies that matter for one host
type CookiesState struct {
	Host    GalleryHost
	Cookies []CookieState
}

// CookieKeys returns the cookies shown for host, in display order
func CookieKeys(host GalleryHost) []string {
	if host == HostExHentai {
		return []string{CookieIgneous, CookieMemberID, CookiePassHash}
	}
	return []string{CookieMemberID, CookiePassHash}
}

// EmptyCookiesState returns a state holding every key of host with no value
func EmptyCookiesState(host GalleryHost) CookiesState {
	keys := CookieKeys(host)
	s := CookiesState{Host: host, Cookies: make([]CookieState, len(keys))}
	for i, k := range keys {
		s.Cookies[i] = CookieState{Key: k}
	}
	return s
}

// Get returns the value of key
func (s CookiesState) Get(key string) CookieValue {
	for _, c := range s.Cookies {
		if c.Key == key {
			return c.Value
		}
	}
	return ""
}

// Valid reports whether every cookie of the state is usable
func (s CookiesState) Valid() bool {
	if len(s.Cookies) == 0 {
		return false
	}
	for _, c := range s.Cookies {
		if c.Value.IsInvalid() {
			return false
		}
	}
	return true
}

// Header renders the cookies as a Cookie header value, which is also what
// gets copied to the clipboard
func (s CookiesState) Header() string {
	parts := make([]string, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		parts = append(parts, fmt.Sprintf("%s=%s", c.Key, c.Value))
	}
	return strings.Join(parts, "; ")
}
