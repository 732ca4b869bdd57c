// Package api holds the request and response bodies exchanged with the backend.
package api

import (
	"net/url"
	"strings"
)

// Request DTOs

type RegistrationRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

// Normalize trims every field; a whitespace-only value counts as missing.
func (r *RegistrationRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
	r.Role = strings.TrimSpace(r.Role)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
}

// Form encodes the credentials the way the login form posts them.
func (r LoginRequest) Form() url.Values {
	form := url.Values{}
	form.Set("email", r.Email)
	form.Set("password", r.Password)
	return form
}

// AutoLoginRequest is sent right after a successful signup. Exactly one of
// FullName and Email is set, depending on the configured identifier.
type AutoLoginRequest struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type ChangeNameRequest struct {
	FullName string `json:"full_name"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ViewAsRequest struct {
	ViewAs string `json:"view_as"`
	Save   bool   `json:"save"`
}

// Response DTOs

type SignupResponse struct {
	Redirect string `json:"redirect"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
}

type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
