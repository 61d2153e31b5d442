package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"md2img-auth/internal/domain"
	"md2img-auth/internal/dto"
	"md2img-auth/internal/netutil"
	"md2img-auth/internal/observability/metrics"
	"md2img-auth/internal/service"
)

const (
	msgInvalidEmail       = "invalid email address"
	msgPasswordTooShort   = "password must be at least 8 characters"
	msgMissingCredentials = "email and password are required"
	msgEmailTaken         = "email already registered"
	// Shared between unknown-email and wrong-password on purpose; the
	// wording must not reveal which check failed.
	msgInvalidCredentials = "invalid email or password"
	msgNotAuthenticated   = "not authenticated"
	msgNotFound           = "Not found"
	msgBadBody            = "invalid request body"
	msgUnsupportedMedia   = "request body must be application/json"
	msgInternal           = "internal server error"
	msgNotConfigured      = "server configuration error"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	auth    service.AuthService
	cookies CookiePolicy
}

func NewHandler(auth service.AuthService, cookies CookiePolicy) *Handler {
	return &Handler{auth: auth, cookies: cookies}
}

// requireConfig short-circuits everything under /auth when the database was
// never configured; the process stays up so the failure is visible per
// request rather than at boot.
func (h *Handler) requireConfig(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.auth == nil {
			slog.Error("request rejected: DATABASE_URL is not configured",
				"method", r.Method, "path", r.URL.Path)
			writeError(w, http.StatusInternalServerError, msgNotConfigured)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, token, err := h.auth.Register(r.Context(), req, netutil.TruncateUserAgent(r.UserAgent()))
	if err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("failure").Inc()
		h.writeDomainError(w, r, err)
		return
	}

	metrics.AuthRegistrationsTotal.WithLabelValues("success").Inc()
	metrics.SessionsIssuedTotal.WithLabelValues("register").Inc()
	slog.Info("user registered", "user_id", user.ID, "ip", clientIP(r))

	h.cookies.Issue(w, token)
	writeJSON(w, http.StatusOK, dto.AuthResponse{User: dto.NewUser(user)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req, netutil.TruncateUserAgent(r.UserAgent()))
	if err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("failure").Inc()
		h.writeDomainError(w, r, err)
		return
	}

	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsIssuedTotal.WithLabelValues("login").Inc()
	slog.Info("user logged in", "user_id", user.ID, "ip", clientIP(r))

	h.cookies.Issue(w, token)
	writeJSON(w, http.StatusOK, dto.AuthResponse{User: dto.NewUser(user)})
}

// logout never fails on the caller's behalf: a missing or unknown cookie is
// a no-op delete, and a store failure is logged but still answered 200 with
// the cookie cleared.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if token := h.cookies.Read(r); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			slog.Error("session delete failed", "error", err)
		}
	}
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.UserFromToken(r.Context(), h.cookies.Read(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AuthResponse{User: dto.NewUser(user)})
}

func (h *Handler) notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

func (h *Handler) decodeCredentials(w http.ResponseWriter, r *http.Request) (dto.CredentialsRequest, bool) {
	var req dto.CredentialsRequest

	ct := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, msgUnsupportedMedia)
		return req, false
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadBody)
		return req, false
	}
	return req, true
}

// writeDomainError maps each domain error kind to its fixed status code and
// safe message; anything unrecognized is logged and answered with a generic
// 500, so internal detail never reaches the client.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, msgInvalidEmail)
	case errors.Is(err, domain.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, msgPasswordTooShort)
	case errors.Is(err, domain.ErrEmptyCredential):
		writeError(w, http.StatusBadRequest, msgMissingCredentials)
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, msgEmailTaken)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, domain.ErrNoSession):
		writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
	default:
		slog.Error("unhandled error", "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// XFF can be a list: client, proxy1, proxy2...
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if normalized, ok := netutil.NormalizeIP(ip); ok {
			return normalized
		}
	}
	if normalized, ok := netutil.NormalizeIP(r.RemoteAddr); ok {
		return normalized
	}
	return r.RemoteAddr
}
