package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/skillvine/frontend/shared/csrf"
	"github.com/skillvine/frontend/shared/logger"
	"github.com/skillvine/frontend/shared/validation"
)

type csrfContextKey struct{}

// CSRFConfig holds CSRF middleware configuration
type CSRFConfig struct {
	SecureCookies bool  // Secure flag on the token cookie
	MaxUploadSize int64 // largest identity document accepted in a multipart form
}

// GenerateCSRFToken makes sure the browser holds a token and exposes it to
// templates through the request context.
func GenerateCSRFToken(config CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrf.FromCookie(r)
			if token == "" {
				var err error
				if token, err = csrf.GenerateToken(); err != nil {
					logger.Log.Error("generating csrf token", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, csrf.Cookie(token, config.SecureCookies))
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, token)))
		})
	}
}

// ValidateCSRFToken rejects state-changing requests whose submitted token does
// not match the cookie. Forms are parsed here, multipart uploads included, so
// handlers find them ready.
func ValidateCSRFToken(config CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if safeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			cookieToken := csrf.FromCookie(r)
			if cookieToken == "" {
				logger.Log.Warn("csrf cookie missing", "path", r.URL.Path)
				http.Error(w, "CSRF token missing", http.StatusForbidden)
				return
			}

			if r.Header.Get(csrf.HeaderName) == "" {
				if err := parseForm(w, r, config.MaxUploadSize); err != nil {
					if errors.Is(err, validation.ErrPayloadTooLarge) {
						http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
						return
					}
					logger.Log.Warn("parsing form", "path", r.URL.Path, "error", err)
					http.Error(w, "Invalid form data", http.StatusBadRequest)
					return
				}
			}

			if !csrf.ValidateToken(cookieToken, csrf.Submitted(r)) {
				logger.Log.Warn("csrf token mismatch", "path", r.URL.Path)
				http.Error(w, "CSRF token invalid", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func parseForm(w http.ResponseWriter, r *http.Request, maxUpload int64) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if r.MultipartForm != nil {
			return nil
		}
		return validation.ValidateAndParseMultipart(r, w, maxUpload)
	}
	if r.Form == nil {
		return r.ParseForm()
	}
	return nil
}

// GetCSRFTokenFromContext returns the token GenerateCSRFToken stored for r.
func GetCSRFTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(csrfContextKey{}).(string)
	return token
}
