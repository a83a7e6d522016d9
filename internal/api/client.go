package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// Requester is the surface service modules depend on. *Client implements it.
type Requester interface {
	Get(ctx context.Context, path string, params Params, dest any) error
	Post(ctx context.Context, path string, body any, dest any) error
	PostForm(ctx context.Context, path string, form *Form, dest any) error
	Delete(ctx context.Context, path string, dest any) error
	BaseURL() string
}

// Ensure Client implements Requester at compile time.
var _ Requester = (*Client)(nil)

// Client talks to the transcript analysis backend.
type Client struct {
	base      *url.URL
	http      *http.Client
	jar       http.CookieJar
	cookies   CookiePersister
	userAgent string
	logger    *slog.Logger
}

const (
	// DefaultOrigin is used when no origin is configured.
	DefaultOrigin = "http://127.0.0.1:8000"
	// DefaultBasePath is the path prefix every endpoint is relative to.
	DefaultBasePath = "/api"

	defaultUserAgent = "railscope/0.1"
	requestTimeout   = 30 * time.Second
)

// Options configure a Client.
type Options struct {
	Origin    string        // scheme://host[:port]; empty uses DefaultOrigin
	BasePath  string        // absolute URL or path; empty uses DefaultBasePath
	Timeout   time.Duration // zero uses 30s
	UserAgent string
	Cookies   CookiePersister // optional; restores and saves the session cookie
	Logger    *slog.Logger
}

// NewClient resolves the base URL once and builds a credentialed client.
func NewClient(opts Options) (*Client, error) {
	base, err := resolveBaseURL(opts.Origin, opts.BasePath)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		base:      base,
		http:      &http.Client{Timeout: timeout, Jar: jar},
		jar:       jar,
		cookies:   opts.Cookies,
		userAgent: userAgent,
		logger:    logger,
	}
	if c.cookies != nil {
		saved, err := c.cookies.LoadCookies()
		if err != nil {
			logger.Warn("restore cookies failed", "error", err)
		} else if len(saved) > 0 {
			jar.SetCookies(base, saved)
		}
	}
	return c, nil
}

// BaseURL returns the resolved absolute base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.base.String(), "/")
}

// Get issues a GET with the non-empty params encoded in the query string.
func (c *Client) Get(ctx context.Context, path string, params Params, dest any) error {
	return c.do(ctx, http.MethodGet, path, params.Encode(), nil, "application/json", dest)
}

// Post issues a POST. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body any, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	return c.do(ctx, http.MethodPost, path, "", reader, "application/json", dest)
}

// PostForm uploads a multipart form. The content type carries the boundary
// chosen by the multipart writer; it is never application/json.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, dest any) error {
	if form == nil {
		form = &Form{}
	}
	body, contentType := form.stream()
	return c.do(ctx, http.MethodPost, path, "", body, contentType, dest)
}

// Delete issues a DELETE without a body.
func (c *Client) Delete(ctx context.Context, path string, dest any) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, "application/json", dest)
}

// ClearCookies drops every cookie held for the backend origin, in memory and
// on disk.
func (c *Client) ClearCookies() error {
	for _, ck := range c.jar.Cookies(c.base) {
		c.jar.SetCookies(c.base, []*http.Cookie{{Name: ck.Name, Path: "/", MaxAge: -1}})
	}
	if c.cookies == nil {
		return nil
	}
	return c.cookies.ClearCookies()
}

func (c *Client) do(ctx context.Context, method, path, rawQuery string, body io.Reader, contentType string, dest any) error {
	reqURL := c.endpoint(path, rawQuery)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	before := cookieSignature(c.jar.Cookies(c.base))
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "error", err)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(started),
		"request_id", req.Header.Get("X-Request-ID"),
	)
	c.persistCookies(before)

	return handleResponse(path, resp, dest)
}

// endpoint joins the base URL and an already-escaped relative path.
func (c *Client) endpoint(path, rawQuery string) string {
	target := c.BaseURL() + "/" + strings.TrimPrefix(path, "/")
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}

func (c *Client) persistCookies(before string) {
	if c.cookies == nil {
		return
	}
	current := c.jar.Cookies(c.base)
	if cookieSignature(current) == before {
		return
	}
	if err := c.cookies.SaveCookies(current); err != nil {
		c.logger.Warn("persist cookies failed", "error", err)
	}
}

// handleResponse applies the shared response contract: rejections become
// *Error, 204 yields nothing, anything else is decoded into dest.
func handleResponse(path string, resp *http.Response, dest any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Detail: rejectionDetail(resp)}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

// rejectionDetail never fails. A JSON object yields its detail, then its
// message, then "HTTP <status>"; any other non-null JSON value also yields
// "HTTP <status>". An unreadable, non-JSON or null body falls back to the
// status text first.
func rejectionDetail(resp *http.Response) string {
	fallback := fmt.Sprintf("HTTP %d", resp.StatusCode)
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		var parsed any
		if json.Unmarshal(raw, &parsed) == nil && parsed != nil {
			if _, ok := parsed.(map[string]any); !ok {
				return fallback
			}
			var body struct {
				Detail  json.RawMessage `json:"detail"`
				Message json.RawMessage `json:"message"`
			}
			if json.Unmarshal(raw, &body) == nil {
				if text, ok := detailText(body.Detail); ok {
					return text
				}
				if text, ok := detailText(body.Message); ok {
					return text
				}
			}
			return fallback
		}
	}
	if text := statusText(resp); text != "" {
		return text
	}
	return fallback
}

// detailText renders a detail/message value. Strings are used verbatim; other
// JSON values (FastAPI validation lists, objects) are kept as compact JSON.
func detailText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw), true
	}
	return buf.String(), true
}

// statusText mirrors what a browser exposes as Response.statusText: the
// reason phrase from the status line, without the numeric code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(resp.Status)
	code := fmt.Sprintf("%d", resp.StatusCode)
	text = strings.TrimSpace(strings.TrimPrefix(text, code))
	return text
}

func resolveBaseURL(origin, basePath string) (*url.URL, error) {
	trimmedOrigin := strings.TrimSpace(origin)
	if trimmedOrigin == "" {
		trimmedOrigin = DefaultOrigin
	}
	if !strings.Contains(trimmedOrigin, "://") {
		trimmedOrigin = "http://" + trimmedOrigin
	}
	originURL, err := url.Parse(trimmedOrigin)
	if err != nil {
		return nil, fmt.Errorf("parse origin %q: %w", origin, err)
	}
	if originURL.Host == "" {
		return nil, fmt.Errorf("parse origin %q: missing host", origin)
	}
	originURL.Path = ""
	originURL.RawPath = ""
	originURL.RawQuery = ""
	originURL.Fragment = ""

	trimmedBase := strings.TrimSpace(basePath)
	if trimmedBase == "" {
		trimmedBase = DefaultBasePath
	}
	baseURL, err := url.Parse(trimmedBase)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", basePath, err)
	}
	if !baseURL.IsAbs() {
		if !strings.HasPrefix(baseURL.Path, "/") {
			baseURL.Path = "/" + baseURL.Path
		}
		baseURL = originURL.ResolveReference(baseURL)
	}
	baseURL.Path = strings.TrimSuffix(baseURL.Path, "/")
	baseURL.RawPath = ""
	baseURL.RawQuery = ""
	baseURL.Fragment = ""
	return baseURL, nil
}

func cookieSignature(cookies []*http.Cookie) string {
	var b strings.Builder
	for _, ck := range cookies {
		b.WriteString(ck.Name)
		b.WriteByte('=')
		b.WriteString(ck.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// IsCanceled reports whether err stems from the caller's context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
