package setup

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/skillvine/frontend/internal/apiclient"
	"github.com/skillvine/frontend/internal/handler"
	"github.com/skillvine/frontend/internal/passthrough"
	"github.com/skillvine/frontend/shared/config"
	"github.com/skillvine/frontend/shared/logger"
	"github.com/skillvine/frontend/shared/ratelimiter"
	"github.com/skillvine/frontend/web"
)

const (
	baseTemplate           = "base.html"
	partialsTemplate       = "partials.html"
	embeddedTemplateDir    = "templates"
	templateReloadInterval = 5 * time.Second
)

type Dependencies struct {
	Handler     *handler.Handler
	Config      *config.Config
	AuthLimiter *ratelimiter.KeyedLimiter
	Passthrough *passthrough.Handler
	Static      fs.FS
	CancelFunc  context.CancelFunc
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	ctx, cancel := context.WithCancel(context.Background())

	templateFS, err := templateSource(cfg)
	if err != nil {
		cancel()
		return nil, err
	}
	templates, err := LoadTemplates(templateFS)
	if err != nil {
		cancel()
		return nil, err
	}

	apiClient, err := apiclient.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	h, err := handler.New(templates, cfg, apiClient)
	if err != nil {
		cancel()
		return nil, err
	}
	if cfg.Templates.Reload && cfg.Templates.Dir != "" {
		startTemplateReloader(ctx, h, templateFS)
	}

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	backend, err := passthrough.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create backend passthrough: %w", err)
	}

	limiter := ratelimiter.New(cfg.RateLimit.AuthRate, cfg.RateLimit.AuthBurst, cfg.RateLimit.Expire)

	return &Dependencies{
		Handler:     h,
		Config:      cfg,
		AuthLimiter: limiter,
		Passthrough: backend,
		Static:      static,
		CancelFunc: func() {
			cancel()
			limiter.Stop()
		},
	}, nil
}

// templateSource is the embedded template set, or templates.dir when set.
func templateSource(cfg *config.Config) (fs.FS, error) {
	if cfg.Templates.Dir != "" {
		return os.DirFS(cfg.Templates.Dir), nil
	}
	sub, err := fs.Sub(web.Templates, embeddedTemplateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded templates: %w", err)
	}
	return sub, nil
}

// LoadTemplates parses every page together with the base layout and partials.
func LoadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || path.Ext(name) != ".html" || name == baseTemplate || name == partialsTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(handler.FuncMap()).ParseFS(fsys, baseTemplate, name, partialsTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

func startTemplateReloader(ctx context.Context, h *handler.Handler, fsys fs.FS) {
	ticker := time.NewTicker(templateReloadInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				templates, err := LoadTemplates(fsys)
				if err != nil {
					logger.Log.Error("reloading templates", "error", err)
					continue
				}
				h.SetTemplates(templates)
			}
		}
	}()
}
