// Package flash stores one-shot messages in a cookie that survives a redirect.
package flash

import (
	"net/http"
	"net/url"
)

const (
	CookieName = "flash"
	cookiePath = "/"
	maxAge     = 300 // seconds, long enough for a redirect
)

type Store struct {
	SecureCookies bool
}

func New(secureCookies bool) *Store {
	return &Store{SecureCookies: secureCookies}
}

// Set stores msg for the next page render. The value is URL-encoded so any
// text survives cookie syntax.
func (s *Store) Set(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    url.PathEscape(msg),
		Path:     cookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Peek returns the decoded message without consuming it.
func (s *Store) Peek(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	msg, err := url.PathUnescape(c.Value)
	if err != nil {
		// written by someone else without encoding
		msg = c.Value
	}
	return msg, true
}

// Pop returns the message and expires the cookie. Reading an absent cookie
// writes nothing.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) (string, bool) {
	msg, ok := s.Peek(r)
	if !ok {
		return "", false
	}
	s.Clear(w)
	return msg, true
}

func (s *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
