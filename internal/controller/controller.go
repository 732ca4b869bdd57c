// Package controller runs the page flows: each one validates input, talks to
// the backend through a session and reports what the page should show next.
package controller

import (
	"context"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/skillvine/frontend/internal/api"
	"github.com/skillvine/frontend/internal/apiclient"
)

// AuthBackend is the part of the backend the signup and login pages use.
type AuthBackend interface {
	Signup(ctx context.Context, req api.RegistrationRequest) (*apiclient.Response, error)
	Login(ctx context.Context, req api.LoginRequest) (*apiclient.Response, error)
	LoginJSON(ctx context.Context, req api.AutoLoginRequest) (*apiclient.Response, error)
}

// ProfileBackend is the part of the backend the profile page uses.
type ProfileBackend interface {
	Profile(ctx context.Context) (*api.ProfileView, error)
	ChangeName(ctx context.Context, fullName string) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	RequestEmailVerification(ctx context.Context) error
	UploadID(ctx context.Context, filename string, file io.Reader) error
	SetViewAs(ctx context.Context, viewAs string, save bool) error
}

// Navigation sends the browser to URL once After has elapsed.
type Navigation struct {
	URL   string
	After time.Duration
}

// Welcome replaces the page after a signup that logged the user in.
type Welcome struct {
	FullName string
	Role     string
}

// Result is the outcome of one flow. Error is a user-facing message and
// Status the HTTP status the page is rendered with.
type Result struct {
	Error      string
	Status     int
	Navigation *Navigation
	Welcome    *Welcome
	Profile    *api.ProfileView
}

func (r Result) Failed() bool {
	return r.Error != ""
}

func ok() Result {
	return Result{Status: http.StatusOK}
}

func failure(status int, msg string) Result {
	return Result{Status: status, Error: msg}
}

var strict = bluemonday.StrictPolicy()

// plainText strips markup from text coming from the backend. Templates escape
// it again on output, so entities are decoded here to avoid showing "&amp;".
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// firstNonEmpty returns the first candidate with text left after cleaning.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c = plainText(c); c != "" {
			return c
		}
	}
	return ""
}

// rejectionStatus is the status a page is rendered with after the backend
// refused a request.
func rejectionStatus(code int) int {
	if code < 400 || code > 599 {
		return http.StatusBadGateway
	}
	return code
}
