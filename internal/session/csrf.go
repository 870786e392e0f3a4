package session

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFFieldName  = "csrf_token"
)

// CSRF implements the double-submit cookie pattern: the token is stored in a
// cookie and must be echoed back in the CSRFFieldName form field.
type CSRF struct {
	secure bool
}

func NewCSRF(secure bool) *CSRF {
	return &CSRF{secure: secure}
}

// Token returns the request's token, issuing a fresh cookie when absent.
// fresh is true when the browser did not present a token.
func (c *CSRF) Token(w http.ResponseWriter, r *http.Request) (token string, fresh bool) {
	if ck, err := r.Cookie(CSRFCookieName); err == nil && ck.Value != "" {
		return ck.Value, false
	}
	token = uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token, true
}

// Valid reports whether submitted matches the cookie token.
func (c *CSRF) Valid(r *http.Request, submitted string) bool {
	ck, err := r.Cookie(CSRFCookieName)
	if err != nil || ck.Value == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(ck.Value), []byte(submitted)) == 1
}
