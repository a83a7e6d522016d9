package api

import "net/http"

// CookiePersister keeps the backend session cookie across process restarts,
// the way a browser keeps cookies between page loads.
type CookiePersister interface {
	LoadCookies() ([]*http.Cookie, error)
	SaveCookies(cookies []*http.Cookie) error
	ClearCookies() error
}
