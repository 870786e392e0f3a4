package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager(Options{Secret: "test-secret", TTL: time.Hour})
}

// requestWith replays the cookies set on w into a new request.
func requestWith(w *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManager_StartThenRead(t *testing.T) {
	m := newManager()
	w := httptest.NewRecorder()

	require.NoError(t, m.Start(w, 42))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Zero(t, cookies[0].MaxAge, "browser-session cookie")

	st := m.Read(requestWith(w))
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, Authenticated(42), st)
}

func TestManager_ReadWithoutCookieIsAnonymous(t *testing.T) {
	st := newManager().Read(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, Anonymous, st)
	assert.False(t, st.IsAuthenticated())
}

func TestManager_End(t *testing.T) {
	m := newManager()
	w := httptest.NewRecorder()
	m.End(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
	assert.Equal(t, Anonymous, m.Read(requestWith(w)))
}

func TestManager_StartRejectsInvalidUser(t *testing.T) {
	assert.Error(t, newManager().Start(httptest.NewRecorder(), 0))
}

func TestManager_Read_RejectsBadTokens(t *testing.T) {
	m := newManager()
	other := NewManager(Options{Secret: "other-secret"})

	foreign, err := other.issueToken(7)
	require.NoError(t, err)

	expired := NewManager(Options{Secret: "test-secret", TTL: time.Minute})
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, err := expired.issueToken(7)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 7})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, value := range map[string]string{
		"garbage":      "not-a-jwt",
		"wrong key":    foreign,
		"expired":      stale,
		"alg none":     unsigned,
		"empty string": "",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: value})
			assert.Equal(t, Anonymous, m.Read(req))
		})
	}
}

func TestCSRF_TokenAndValid(t *testing.T) {
	c := NewCSRF(false)

	w := httptest.NewRecorder()
	token, fresh := c.Token(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, fresh)
	require.NotEmpty(t, token)

	req := requestWith(w)
	again, fresh := c.Token(httptest.NewRecorder(), req)
	assert.False(t, fresh)
	assert.Equal(t, token, again)

	assert.True(t, c.Valid(req, token))
	assert.False(t, c.Valid(req, "other"))
	assert.False(t, c.Valid(req, ""))
	assert.False(t, c.Valid(httptest.NewRequest(http.MethodPost, "/", nil), token))
}
