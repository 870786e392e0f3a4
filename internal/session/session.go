// Package session tracks whether a browser is anonymous or logged in.
//
// The state lives in a signed cookie (HS256 JWT) so the server keeps no
// session table. A cookie that is missing, expired, tampered with or signed
// with another key reads back as Anonymous.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultCookieName = "session"

var ErrInvalidToken = errors.New("invalid session token")

// State is either Anonymous (UserID == 0) or Authenticated(UserID).
type State struct {
	UserID int
}

var Anonymous = State{}

func Authenticated(userID int) State { return State{UserID: userID} }

func (s State) IsAuthenticated() bool { return s.UserID > 0 }

// Claims defines the JWT claims stored in the cookie.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

type Options struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Manager issues, reads and clears session cookies.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewManager(opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	return &Manager{
		secret:     []byte(opts.Secret),
		ttl:        opts.TTL,
		cookieName: opts.CookieName,
		secure:     opts.Secure,
		now:        time.Now,
	}
}

// Start moves the browser to Authenticated(userID).
func (m *Manager) Start(w http.ResponseWriter, userID int) error {
	if userID <= 0 {
		return fmt.Errorf("start session: invalid user id %d", userID)
	}
	token, err := m.issueToken(userID)
	if err != nil {
		return err
	}
	// no MaxAge: the cookie lives as long as the browser session, the token caps it
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End moves the browser back to Anonymous.
func (m *Manager) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the state carried by the request's session cookie.
func (m *Manager) Read(r *http.Request) State {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return Anonymous
	}
	userID, err := m.parseToken(c.Value)
	if err != nil {
		return Anonymous
	}
	return Authenticated(userID)
}

func (m *Manager) issueToken(userID int) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parseToken(raw string) (int, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
