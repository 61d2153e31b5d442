package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"md2img-auth/internal/config"
	"md2img-auth/internal/domain"
	"md2img-auth/internal/observability/logging"
	"md2img-auth/internal/observability/metrics"
	obsmw "md2img-auth/internal/observability/middleware"
	"md2img-auth/internal/service"
	impl "md2img-auth/internal/service/impl"
	"md2img-auth/internal/store"
	httpx "md2img-auth/internal/transport/http"
	"md2img-auth/pkg/db"
)

func main() {
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "authd",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	cfg := config.Load()
	metrics.MustRegister("authd")

	// With no database configured the server still comes up; every auth
	// request is answered with a configuration error until it is set.
	var authSvc service.AuthService
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set; auth routes will answer 500")
	} else {
		gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
		if err != nil {
			logger.Error("gorm open", "error", err)
			os.Exit(1)
		}

		st := store.New(gdb)
		if cfg.AutoMigrate {
			if err := st.AutoMigrate(); err != nil {
				logger.Error("auto migrate", "error", err)
				os.Exit(1)
			}
			logger.Info("schema migrated", "models", []string{domain.User{}.TableName(), domain.Session{}.TableName()})
		}

		pw := impl.NewPasswordServicePBKDF2()
		tk := impl.NewTokenService(st.Sessions(), cfg.SessionTTL)
		authSvc = impl.NewAuthService(st.Users(), pw, tk)
	}

	handler := obsmw.WithRequestAndTrace(obsmw.WithMetrics(httpx.NewRouter(cfg, authSvc)))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("auth service listening",
		"addr", srv.Addr,
		"cookie", cfg.CookieName,
		"session_ttl", cfg.SessionTTL.String(),
		"cors_origin", cfg.CORSOrigin,
	)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
