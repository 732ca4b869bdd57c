package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/skillvine/frontend/internal/apiclient"
	"github.com/skillvine/frontend/internal/controller"
	"github.com/skillvine/frontend/internal/flash"
	"github.com/skillvine/frontend/internal/redirect"
	"github.com/skillvine/frontend/internal/rules"
	"github.com/skillvine/frontend/shared/config"
)

type Handler struct {
	mu        sync.RWMutex
	templates map[string]*template.Template

	APIClient *apiclient.APIClient
	Rules     *rules.Rules
	Flashes   *flash.Store

	signup  *controller.Signup
	login   *controller.Login
	profile *controller.Profile
	flash   *controller.Flash

	controls      *submitControls
	secureCookies bool
	maxUpload     int64
}

func New(templates map[string]*template.Template, cfg *config.Config, apiClient *apiclient.APIClient) (*Handler, error) {
	r, err := rules.New(cfg.Signup.Roles)
	if err != nil {
		return nil, fmt.Errorf("building form rules: %w", err)
	}
	flashes := flash.New(cfg.Cookies.Secure)
	backendHost := apiClient.Host()

	return &Handler{
		templates: templates,
		APIClient: apiClient,
		Rules:     r,
		Flashes:   flashes,
		signup: controller.NewSignup(r, controller.SignupConfig{
			AutoLogin:       cfg.Signup.AutoLoginEnabled(),
			Identifier:      cfg.Signup.AutoLoginIdentifier,
			DefaultRedirect: cfg.Signup.DefaultRedirect,
			LoginRedirect:   "/login",
			AllowedHosts:    []string{backendHost},
		}),
		login:         controller.NewLogin(r, redirect.New(cfg.Login.DefaultRedirect, backendHost)),
		profile:       controller.NewProfile(),
		flash:         controller.NewFlash(flashes, cfg.Notice.FlashDuration),
		controls:      newSubmitControls(),
		secureCookies: cfg.Cookies.Secure,
		maxUpload:     cfg.Upload.MaxBytes,
	}, nil
}

// SetTemplates swaps the template set, used by the development reloader.
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.templates = templates
}

func (h *Handler) getTemplate(name string) (*template.Template, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	tmpl, ok := h.templates[name]
	return tmpl, ok
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
