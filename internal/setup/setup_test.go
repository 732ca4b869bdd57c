package setup

import (
	"testing"
	"testing/fstest"

	"github.com/skillvine/frontend/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates_Embedded(t *testing.T) {
	fsys, err := templateSource(config.Default())
	require.NoError(t, err)

	templates, err := LoadTemplates(fsys)
	require.NoError(t, err)

	for _, name := range []string{"signup.html", "login.html", "profile.html", "welcome.html", "redirect.html"} {
		assert.Contains(t, templates, name)
	}
	assert.NotContains(t, templates, "base.html")
	assert.NotContains(t, templates, "partials.html")
}

func TestLoadTemplates_BrokenTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"base.html":     {Data: []byte(`{{template "content" .}}`)},
		"partials.html": {Data: []byte(``)},
		"page.html":     {Data: []byte(`{{define "content"}}{{.Missing{{end}}`)},
	}

	_, err := LoadTemplates(fsys)
	assert.Error(t, err)
}

func TestSetupDependencies(t *testing.T) {
	cfg := config.Default()
	deps, err := SetupDependencies(cfg)
	require.NoError(t, err)
	defer deps.CancelFunc()

	assert.NotNil(t, deps.Handler)
	assert.NotNil(t, deps.AuthLimiter)

	_, err = deps.Static.Open("js/notice.js")
	assert.NoError(t, err)
}
