package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"md2img-auth/internal/config"
	"md2img-auth/internal/service"
)

// NewRouter wires the dispatch table: /auth/* and its /api/auth/* alias
// (for deployments behind a path-rewriting gateway), health and metrics,
// and a catch-all 404. auth may be nil when DATABASE_URL is unset; the
// config guard then answers 500 for every auth route.
func NewRouter(cfg config.Config, auth service.AuthService) http.Handler {
	h := NewHandler(auth, CookiePolicy{
		Name:   cfg.CookieName,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	})

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(chimw.StripSlashes)
	r.Use(cors.Handler(corsOptions(cfg)))
	// Any OPTIONS request is answered 204 after the CORS middleware has
	// attached its headers (OptionsPassthrough lands preflights here too).
	r.Use(answerOptions)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authRoutes := func(r chi.Router) {
		r.Use(h.requireConfig)
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
	}
	r.Route("/auth", authRoutes)
	r.Route("/api/auth", authRoutes)

	// Everything else, including wrong methods on known paths, is 404.
	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.notFound)

	return r
}

func corsOptions(cfg config.Config) cors.Options {
	opts := cors.Options{
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type"},
		MaxAge:             300,
		OptionsPassthrough: true,
	}
	if cfg.CORSOrigin == "*" {
		// Reflect whatever origin asks. Credentialed cross-origin cookies
		// are impossible with a literal "*", so credentials stay off.
		opts.AllowOriginFunc = func(_ *http.Request, _ string) bool { return true }
		opts.AllowCredentials = false
	} else {
		opts.AllowedOrigins = []string{cfg.CORSOrigin}
		opts.AllowCredentials = true
	}
	return opts
}

func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
