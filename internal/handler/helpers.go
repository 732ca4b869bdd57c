package handler

import (
	"net/http"
	"strings"
	"sync"

	"github.com/skillvine/frontend/internal/apiclient"
	"github.com/skillvine/frontend/internal/controller"
	"github.com/skillvine/frontend/internal/flash"
	"github.com/skillvine/frontend/shared/csrf"
	mw "github.com/skillvine/frontend/shared/middleware"
)

// cookies that belong to the frontend and are never sent to the backend
var frontendCookies = map[string]bool{
	csrf.CookieName:  true,
	flash.CookieName: true,
}

// session opens a backend session carrying the browser's cookies.
func (h *Handler) session(r *http.Request) (*apiclient.Session, error) {
	var cookies []*http.Cookie
	for _, c := range r.Cookies() {
		if !frontendCookies[c.Name] {
			cookies = append(cookies, c)
		}
	}
	return h.APIClient.NewSession(mw.GetRequestID(r.Context()), cookies...)
}

// forwardCookies hands every cookie the backend issued to the browser. The
// domain is dropped so the cookie binds to the frontend's host.
func forwardCookies(w http.ResponseWriter, s *apiclient.Session) {
	for _, c := range s.Issued() {
		c.Domain = ""
		http.SetCookie(w, c)
	}
}

// submitControls keeps one submit control per browser so a double submit is
// refused while the first one is still in flight.
type submitControls struct {
	mu sync.Mutex
	m  map[string]*controller.Control
}

func newSubmitControls() *submitControls {
	return &submitControls{m: make(map[string]*controller.Control)}
}

func (s *submitControls) get(key, label string) *controller.Control {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.m[key]
	if !ok {
		c = controller.NewControl(label)
		s.m[key] = c
	}
	return c
}

// release forgets an idle control.
func (s *submitControls) release(key string, c *controller.Control) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := c.State(); busy {
		return
	}
	if s.m[key] == c {
		delete(s.m, key)
	}
}

func (s *submitControls) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// browserKey identifies the submitting browser by its CSRF cookie, falling
// back to the client address.
func browserKey(r *http.Request) string {
	if token := csrf.FromCookie(r); token != "" {
		return "csrf:" + token
	}
	if ip, err := mw.GetIP(r); err == nil {
		return "ip:" + ip
	}
	return "addr:" + r.RemoteAddr
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(formValue(r, key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
