// Package csrf implements double-submit tokens: the same random value lives in
// a cookie and in every form the frontend renders.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"time"
)

const (
	CookieName = "csrf_token"
	FieldName  = "csrf_token"
	HeaderName = "X-CSRF-Token"

	tokenBytes = 32
	cookieTTL  = 24 * time.Hour
)

// TokenLength is the decoded size of a token in bytes.
const TokenLength = tokenBytes

func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

// Cookie wraps token in the cookie that pairs with submitted forms.
func Cookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromCookie returns the browser's token, or "" when it has none.
func FromCookie(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Submitted returns the token sent with a request. Scripted calls use the
// header; forms carry the field. The form must already be parsed.
func Submitted(r *http.Request) string {
	if v := r.Header.Get(HeaderName); v != "" {
		return v
	}
	return r.FormValue(FieldName)
}

// ValidateToken compares the cookie token with the submitted token in constant time.
func ValidateToken(cookieToken, submitted string) bool {
	if cookieToken == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submitted)) == 1
}
