package auth

import (
	"net/http"
	"time"
)

const CookieName = "token"

// production sessions are served cross-site over TLS
func sameSite(production bool) http.SameSite {
	if production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

func SessionCookie(token string, production bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   production,
		SameSite: sameSite(production),
	}
}

// ClearedCookie expires the session cookie. Attributes must match the
// issued cookie or browsers keep the old one.
func ClearedCookie(production bool) *http.Cookie {
	c := SessionCookie("", production)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
