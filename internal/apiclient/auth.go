package apiclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/skillvine/frontend/internal/api"
)

// Signup posts a registration. The raw response is returned so the caller can
// interpret both the JSON and plain text shapes the backend uses.
func (s *Session) Signup(ctx context.Context, req api.RegistrationRequest) (*Response, error) {
	return s.doJSON(ctx, http.MethodPost, "/signup", req)
}

// Login posts credentials as a URL-encoded form, like a browser form would.
func (s *Session) Login(ctx context.Context, req api.LoginRequest) (*Response, error) {
	return s.do(ctx, http.MethodPost, "/login", "application/x-www-form-urlencoded", strings.NewReader(req.Form().Encode()))
}

// LoginJSON posts credentials as JSON. Used for the login that follows a signup.
func (s *Session) LoginJSON(ctx context.Context, req api.AutoLoginRequest) (*Response, error) {
	return s.doJSON(ctx, http.MethodPost, "/login", req)
}
