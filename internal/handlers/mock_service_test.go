package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"family_recipes/internal/credential"
	"family_recipes/internal/mail"
	"family_recipes/internal/models"
	"family_recipes/internal/repository"
	"family_recipes/internal/repository/db"
	"family_recipes/internal/service"
	"family_recipes/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ---- Service Mocks ----

type mockRecipes struct {
	recipes   []models.Recipe
	listErr   error
	createErr error
}

func (m *mockRecipes) List(ctx context.Context) ([]models.Recipe, error) {
	return m.recipes, m.listErr
}

func (m *mockRecipes) Create(ctx context.Context, title, description string) (*models.Recipe, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	r := models.Recipe{ID: len(m.recipes) + 1, Title: title, Description: description}
	m.recipes = append(m.recipes, r)
	return &r, nil
}

// mockAccounts answers Get only; any other call panics on the nil interface.
type mockAccounts struct {
	service.Accounts
	user   *models.User
	getErr error
}

func (m *mockAccounts) Get(ctx context.Context, id int) (*models.User, error) {
	return m.user, m.getErr
}

// ---- Test environment ----

const testSecret = "handlers-test-secret"

type testEnv struct {
	router   *gin.Engine
	repos    *repository.Repository
	sessions *session.Manager
	mail     *mail.Recorder
}

// newTestEnv wires the real services to a temporary SQLite file.
func newTestEnv(t *testing.T, withCSRF bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.InitDB(context.Background(), filepath.Join(t.TempDir(), "recipes.db"), nil)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repos := repository.NewRepository(conn)
	rec := &mail.Recorder{}
	svc := service.NewService(repos, credential.NewStore(bcrypt.MinCost), rec, nil)
	sessions := session.NewManager(session.Options{Secret: testSecret, TTL: time.Hour})

	var csrf *session.CSRF
	if withCSRF {
		csrf = session.NewCSRF(false)
	}
	return &testEnv{
		router:   NewHandler(svc, sessions, csrf, nil).InitRoutes(),
		repos:    repos,
		sessions: sessions,
		mail:     rec,
	}
}

// newMockRouter wires hand-written services, with CSRF disabled.
func newMockRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager(session.Options{Secret: testSecret, TTL: time.Hour})
	return NewHandler(s, sessions, nil, nil).InitRoutes()
}

// client is a minimal cookie-keeping browser.
type client struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, router http.Handler) *client {
	return &client{t: t, router: router, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodGet, target, nil)
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if ck, ok := c.cookies[session.CSRFCookieName]; ok && form.Get(session.CSRFFieldName) == "" {
		form.Set(session.CSRFFieldName, ck.Value)
	}
	return c.do(http.MethodPost, target, form)
}

func (c *client) register(email, password string) {
	c.t.Helper()
	w := c.post("/register", url.Values{"email": {email}, "password": {password}, "confirm": {password}})
	if w.Code != http.StatusOK {
		c.t.Fatalf("register %s: status=%d body=%s", email, w.Code, w.Body.String())
	}
}

func (c *client) login(email, password string) {
	c.t.Helper()
	w := c.post("/login", url.Values{"email": {email}, "password": {password}})
	if w.Code != http.StatusFound {
		c.t.Fatalf("login %s: status=%d body=%s", email, w.Code, w.Body.String())
	}
}

func assertContains(t *testing.T, w *httptest.ResponseRecorder, want ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range want {
		if !strings.Contains(body, s) {
			t.Fatalf("body missing %q:\n%s", s, body)
		}
	}
}
