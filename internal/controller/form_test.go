package controller

import (
	"sync"
	"testing"

	"github.com/skillvine/frontend/internal/api"
	"github.com/skillvine/frontend/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestField_ToggleVisibility(t *testing.T) {
	var f Field
	assert.Equal(t, "password", f.InputType())
	assert.Equal(t, "👁", f.Glyph())

	f.ToggleVisibility()
	assert.Equal(t, "text", f.InputType())
	assert.Equal(t, "🙈", f.Glyph())

	f.ToggleVisibility()
	assert.Equal(t, "password", f.InputType())
	assert.Equal(t, "👁", f.Glyph())
}

func TestSignupForm(t *testing.T) {
	var f SignupForm
	assert.False(t, f.SubmitEnabled())

	f.InputPassword("Abcdefg1!")
	assert.Equal(t, "Strong 🟢", f.Strength.Text)
	assert.Equal(t, rules.MatchNeutral, f.Match.State)
	assert.False(t, f.SubmitEnabled())

	f.InputConfirm("Abcdefg1")
	assert.Equal(t, rules.MatchMismatch, f.Match.State)
	assert.False(t, f.SubmitEnabled())

	f.InputConfirm("Abcdefg1!")
	assert.Equal(t, rules.MatchOK, f.Match.State)
	assert.True(t, f.SubmitEnabled())

	// editing the password re-runs the matcher
	f.InputPassword("abc")
	assert.Equal(t, "Weak 🔴", f.Strength.Text)
	assert.Equal(t, rules.MatchMismatch, f.Match.State)
	assert.False(t, f.SubmitEnabled())

	f.FullName, f.Email, f.Role = "Ada", "ada@example.com", "student"
	assert.Equal(t, api.RegistrationRequest{FullName: "Ada", Email: "ada@example.com", Password: "abc", Role: "student"}, f.Request())
}

func TestControl(t *testing.T) {
	c := NewControl("Login")
	label, disabled := c.State()
	assert.Equal(t, "Login", label)
	assert.False(t, disabled)

	assert.True(t, c.TryDisable("Logging in..."))
	assert.False(t, c.TryDisable("Logging in..."))
	label, disabled = c.State()
	assert.Equal(t, "Logging in...", label)
	assert.True(t, disabled)

	c.Enable("Login")
	_, disabled = c.State()
	assert.False(t, disabled)
}

func TestControl_SingleOwner(t *testing.T) {
	c := NewControl("Login")
	var wg sync.WaitGroup
	var mu sync.Mutex
	owners := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.TryDisable("busy") {
				mu.Lock()
				owners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, owners)
}
