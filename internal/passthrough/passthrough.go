// Package passthrough serves every path the frontend does not own from the
// backend, so navigation targets the backend hands out (dashboards, admin
// pages) resolve on the frontend's origin together with its session cookies.
package passthrough

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"time"

	"github.com/skillvine/frontend/shared/csrf"
	"github.com/skillvine/frontend/shared/logger"
	mw "github.com/skillvine/frontend/shared/middleware"
	"github.com/skillvine/frontend/shared/middleware/metrics"
)

const endpoint = "passthrough"

type Handler struct {
	proxy *httputil.ReverseProxy
}

// New proxies to baseURL. timeout bounds the wait for response headers.
func New(baseURL string, timeout time.Duration) (*Handler, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, errors.New("backend url must be absolute")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout

	return &Handler{proxy: &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if id := mw.GetRequestID(pr.In.Context()); id != "" {
				pr.Out.Header.Set(mw.RequestIDHeader, id)
			}
			withoutCookie(pr.Out, csrf.CookieName)
		},
		Transport:      transport,
		ModifyResponse: rebindCookies,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Log.Error("backend passthrough", "path", r.URL.Path, "error", err)
			http.Error(w, "Backend unavailable", http.StatusBadGateway)
		},
	}}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.proxy.ServeHTTP(rec, r)

	status := strconv.Itoa(rec.status)
	if rec.status == http.StatusBadGateway {
		status = "error"
	}
	metrics.ObserveBackendCall(endpoint, status, time.Since(start))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streamed backend responses streaming.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withoutCookie drops one cookie from an outgoing request.
func withoutCookie(r *http.Request, name string) {
	cookies := r.Cookies()
	r.Header.Del("Cookie")
	for _, c := range cookies {
		if c.Name != name {
			r.AddCookie(c)
		}
	}
}

// rebindCookies clears the Domain of every cookie the backend sets, binding
// it to the frontend's host the same way form submissions do.
func rebindCookies(resp *http.Response) error {
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return nil
	}
	resp.Header.Del("Set-Cookie")
	for _, c := range cookies {
		c.Domain = ""
		resp.Header.Add("Set-Cookie", c.String())
	}
	return nil
}
