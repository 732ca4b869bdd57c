package controller

import (
	"sync"

	"github.com/skillvine/frontend/internal/api"
	"github.com/skillvine/frontend/internal/rules"
)

// Control is a submit button. Disabling it while a request is in flight keeps
// a form from being submitted twice.
type Control struct {
	mu       sync.Mutex
	label    string
	disabled bool
}

func NewControl(label string) *Control {
	return &Control{label: label}
}

func (c *Control) Disable(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = true
	c.label = label
}

func (c *Control) Enable(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = false
	c.label = label
}

// TryDisable disables the control unless it already is, and reports whether
// the caller now owns it.
func (c *Control) TryDisable(label string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return false
	}
	c.disabled = true
	c.label = label
	return true
}

func (c *Control) State() (label string, disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label, c.disabled
}

const (
	glyphMasked   = "👁"
	glyphRevealed = "🙈"
)

// Field is a password input whose masking can be toggled.
type Field struct {
	Value    string
	Revealed bool
}

func (f *Field) ToggleVisibility() {
	f.Revealed = !f.Revealed
}

func (f Field) InputType() string {
	if f.Revealed {
		return "text"
	}
	return "password"
}

// Glyph is the toggle's label: the eye while masked, the monkey once revealed.
func (f Field) Glyph() string {
	if f.Revealed {
		return glyphRevealed
	}
	return glyphMasked
}

// SignupForm is the live state of the signup form. The match is recomputed on
// every password or confirmation input, and after each strength update.
type SignupForm struct {
	FullName string
	Email    string
	Role     string
	Password Field
	Confirm  Field
	Strength rules.Indicator
	Match    rules.MatchResult
}

func (f *SignupForm) InputPassword(v string) {
	f.Password.Value = v
	f.Strength = rules.StrengthIndicator(v)
	f.recheck()
}

func (f *SignupForm) InputConfirm(v string) {
	f.Confirm.Value = v
	f.recheck()
}

func (f *SignupForm) recheck() {
	f.Match = rules.Match(f.Password.Value, f.Confirm.Value)
}

func (f *SignupForm) SubmitEnabled() bool {
	return f.Match.SubmitEnabled
}

func (f *SignupForm) Request() api.RegistrationRequest {
	return api.RegistrationRequest{
		FullName: f.FullName,
		Email:    f.Email,
		Password: f.Password.Value,
		Role:     f.Role,
	}
}
