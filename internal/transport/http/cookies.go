package http

import (
	"net/http"
	"time"
)

// CookiePolicy fixes the session cookie attributes: Path=/, HttpOnly against
// XSS, SameSite=Lax against CSRF, and Secure unless explicitly disabled for
// plain-HTTP development.
type CookiePolicy struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func (c CookiePolicy) Issue(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Secure,
	})
}

// Clear expires the cookie immediately. The epoch Expires covers clients
// that ignore Max-Age.
func (c CookiePolicy) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Secure,
	})
}

func (c CookiePolicy) Read(r *http.Request) string {
	ck, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return ck.Value
}
