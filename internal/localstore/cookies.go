package localstore

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/railscope/railscope/internal/api"
)

// CookieKey holds the backend session cookies.
const CookieKey = "cookies"

// KV is the key/value surface shared by Store and Memory.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

var (
	_ KV                  = (*Store)(nil)
	_ KV                  = (*Memory)(nil)
	_ api.CookiePersister = (*CookieStore)(nil)
)

// CookieStore persists the API client's cookie jar under CookieKey.
type CookieStore struct {
	kv KV
}

// NewCookieStore wraps kv.
func NewCookieStore(kv KV) *CookieStore {
	return &CookieStore{kv: kv}
}

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LoadCookies returns the saved cookies. Unparseable content counts as none.
func (c *CookieStore) LoadCookies() ([]*http.Cookie, error) {
	raw, ok, err := c.kv.Get(CookieKey)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var saved []savedCookie
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		_ = c.kv.Remove(CookieKey)
		return nil, nil
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, s := range saved {
		if s.Name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value})
	}
	return cookies, nil
}

// SaveCookies replaces the saved cookies. An empty set removes the entry.
func (c *CookieStore) SaveCookies(cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return c.ClearCookies()
	}
	saved := make([]savedCookie, 0, len(cookies))
	for _, ck := range cookies {
		saved = append(saved, savedCookie{Name: ck.Name, Value: ck.Value})
	}
	payload, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	return c.kv.Set(CookieKey, string(payload))
}

// ClearCookies removes the saved cookies.
func (c *CookieStore) ClearCookies() error {
	return c.kv.Remove(CookieKey)
}
