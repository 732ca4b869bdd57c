package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.HTTP.Port)
	assert.Equal(t, "http://api:8080", cfg.Backend.BaseURL)
	assert.Equal(t, []string{"student", "teacher"}, cfg.Signup.Roles)
	assert.True(t, cfg.Signup.AutoLoginEnabled())
	assert.Equal(t, IdentifierFullName, cfg.Signup.AutoLoginIdentifier)
	assert.Equal(t, "/dashboard", cfg.Signup.DefaultRedirect)
	assert.Equal(t, "/", cfg.Login.DefaultRedirect)
	assert.Equal(t, 2*time.Second, cfg.Notice.FlashDuration)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "frontend.yaml", `
http:
  port: "9000"
  read_timeout: 3s
backend:
  base_url: http://localhost:8080
  timeout: 2s
signup:
  roles: [student]
  auto_login: false
  auto_login_identifier: email
notice:
  flash_duration: 500ms
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout, "missing keys keep defaults")
	assert.Equal(t, 2*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, []string{"student"}, cfg.Signup.Roles)
	assert.False(t, cfg.Signup.AutoLoginEnabled())
	assert.Equal(t, IdentifierEmail, cfg.Signup.AutoLoginIdentifier)
	assert.Equal(t, 500*time.Millisecond, cfg.Notice.FlashDuration)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "SKILLVINE_LOG_LEVEL=debug\n")
	t.Setenv(EnvBackendURL, "http://backend.internal:9090")
	t.Setenv(EnvSecureCookies, "true")
	// godotenv does not override variables that are already set, so make sure
	// the one we expect from the file is not inherited from the environment.
	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	cfg, err := Load("", envFile, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://backend.internal:9090", cfg.Backend.BaseURL)
	assert.True(t, cfg.Cookies.Secure)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	t.Run("unknown identifier", func(t *testing.T) {
		p := writeFile(t, dir, "bad_identifier.yaml", "signup:\n  auto_login_identifier: phone\n")
		_, err := Load(p)
		assert.Error(t, err)
	})

	t.Run("bad secure flag", func(t *testing.T) {
		t.Setenv(EnvSecureCookies, "maybe")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestMustLoad_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for missing config file, got none")
		}
	}()

	_ = MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
}
