package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skillvine/frontend/internal/handler"
	"github.com/skillvine/frontend/internal/middleware"
	"github.com/skillvine/frontend/internal/setup"
	mw "github.com/skillvine/frontend/shared/middleware"
	"github.com/skillvine/frontend/shared/middleware/metrics"
)

func SetupRouter(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config
	h := deps.Handler

	r.Use(mw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Logging)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeaders(mw.SecurityOptions{HTTPS: cfg.Cookies.Secure, CSP: mw.FrontendCSP}))

	// Paths the frontend does not serve belong to the backend.
	r.NotFound(deps.Passthrough.ServeHTTP)

	r.Get("/healthz", handler.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(deps.Static))))

	// Live password feedback, callable from other configured origins.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-CSRF-Token"},
			MaxAge:         300,
		}))
		r.Options("/api/password_strength", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/api/password_strength", h.PasswordStrengthHandler)
	})

	csrfCfg := middleware.CSRFConfig{
		SecureCookies: cfg.Cookies.Secure,
		MaxUploadSize: cfg.Upload.MaxBytes,
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.GenerateCSRFToken(csrfCfg))
		r.Use(middleware.ValidateCSRFToken(csrfCfg))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		})
		r.Get("/signup", h.SignupGetHandler)
		r.Get("/login", h.LoginGetHandler)
		r.Get("/profile", h.ProfileGetHandler)

		// Credential posts are limited per client address.
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(deps.AuthLimiter, mw.GetIP))
			r.Post("/signup", h.SignupPostHandler)
			r.Post("/login", h.LoginPostHandler)
			r.Post("/profile/password", h.ChangePasswordHandler)
		})

		r.Post("/profile/name", h.ChangeNameHandler)
		r.Post("/profile/verify_email", h.VerifyEmailHandler)
		r.Post("/profile/upload_id", h.UploadIDHandler)
		r.Post("/profile/view_as", h.ViewAsHandler)
	})

	return r
}
