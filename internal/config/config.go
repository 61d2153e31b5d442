package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	DefaultCookieName = "md2img_session"
	DefaultSessionTTL = 604800 // 7 days, in seconds
)

type Config struct {
	// DB. Deliberately not fatal when empty: requests are answered with a
	// configuration error instead of the process refusing to boot.
	DatabaseURL string
	AutoMigrate bool
	LogSQL      bool

	// Sessions / cookies
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool

	// HTTP
	Addr       string
	CORSOrigin string
}

func Load() Config {
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AutoMigrate: getbool("DB_AUTOMIGRATE", false),
		LogSQL:      getbool("DB_LOG_SQL", false),

		SessionTTL:   time.Duration(getint("SESSION_TTL_SECONDS", DefaultSessionTTL)) * time.Second,
		CookieName:   getenv("COOKIE_NAME", DefaultCookieName),
		CookieSecure: getbool("COOKIE_SECURE", true),

		Addr:       getenv("ADDR", ":8080"),
		CORSOrigin: getenv("CORS_ORIGIN", "*"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		slog.Warn("invalid integer, using default", "key", k, "value", v, "default", def)
	}
	return def
}
