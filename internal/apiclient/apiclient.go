// Package apiclient talks to the backend API on behalf of a browser.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/skillvine/frontend/shared/middleware"
	"github.com/skillvine/frontend/shared/middleware/metrics"
	"golang.org/x/net/publicsuffix"
)

const maxBodySize = 1 << 20

// APIClient struct handles all communication with the backend API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client

	base *url.URL
}

func New(baseURL string, timeout time.Duration) (*APIClient, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be absolute", baseURL)
	}
	return &APIClient{
		BaseURL:    baseURL,
		HttpClient: &http.Client{Timeout: timeout},
		base:       u,
	}, nil
}

// Host is the backend's host name.
func (c *APIClient) Host() string {
	return c.base.Hostname()
}

// Session is one browser's view of the backend for the duration of a single
// frontend request. It sends the browser's cookies, keeps cookies the backend
// sets between calls and records them so they can be handed to the browser.
type Session struct {
	client    *APIClient
	http      *http.Client
	requestID string

	mu     sync.Mutex
	issued []*http.Cookie
}

// NewSession seeds a session with the cookies the browser sent.
func (c *APIClient) NewSession(requestID string, cookies ...*http.Cookie) (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	seeded := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		seeded = append(seeded, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	jar.SetCookies(c.base, seeded)

	s := &Session{client: c, requestID: requestID}

	next := c.HttpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	s.http = &http.Client{
		Transport:     &recordingTransport{next: next, session: s},
		CheckRedirect: c.HttpClient.CheckRedirect,
		Jar:           jar,
		Timeout:       c.HttpClient.Timeout,
	}
	return s, nil
}

// recordingTransport remembers every Set-Cookie, redirect hops included.
type recordingTransport struct {
	next    http.RoundTripper
	session *Session
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.session.record(resp.Cookies())
	return resp, nil
}

func (s *Session) record(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ck := range cookies {
		replaced := false
		for i, old := range s.issued {
			if old.Name == ck.Name && old.Path == ck.Path {
				s.issued[i] = ck
				replaced = true
				break
			}
		}
		if !replaced {
			s.issued = append(s.issued, ck)
		}
	}
}

// Issued returns the cookies the backend set during this session, latest
// value per name and path.
func (s *Session) Issued() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*http.Cookie, len(s.issued))
	for i, ck := range s.issued {
		cp := *ck
		out[i] = &cp
	}
	return out
}

// Response is a fully read backend response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
	Redirected  bool
	FinalURL    string
	Location    string
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsJSON reports whether the declared content type is JSON.
func (r *Response) IsJSON() bool {
	mt, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Body))
}

func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding backend response: %w", err)
	}
	return nil
}

// JSONError returns the "error" field of a JSON body, or "".
func (r *Response) JSONError() string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(r.Body, &body) != nil {
		return ""
	}
	return strings.TrimSpace(body.Error)
}

// JSONRedirect returns the "redirect" field of a JSON body, or "".
func (r *Response) JSONRedirect() string {
	var body struct {
		Redirect string `json:"redirect"`
	}
	if json.Unmarshal(r.Body, &body) != nil {
		return ""
	}
	return body.Redirect
}

// Err is nil for 2xx responses and a *StatusError otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &StatusError{StatusCode: r.StatusCode, Body: r.Text()}
}

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", e.StatusCode, e.Body))
}

// AsStatusError unwraps a *StatusError from err.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// do is the single, unified helper for making API requests.
func (s *Session) do(ctx context.Context, method, path, contentType string, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.client.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if s.requestID != "" {
		req.Header.Set(middleware.RequestIDHeader, s.requestID)
	}

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		metrics.ObserveBackendCall(path, "error", time.Since(start))
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	metrics.ObserveBackendCall(path, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("reading backend response: %w", err)
	}

	out := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
		Location:    resp.Header.Get("Location"),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		out.FinalURL = resp.Request.URL.String()
		out.Redirected = out.FinalURL != req.URL.String()
	}
	return out, nil
}

func (s *Session) doJSON(ctx context.Context, method, path string, payload any) (*Response, error) {
	if payload == nil {
		return s.do(ctx, method, path, "", nil)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return s.do(ctx, method, path, "application/json", bytes.NewReader(b))
}
