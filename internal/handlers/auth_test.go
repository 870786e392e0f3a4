package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"family_recipes/internal/session"
)

func TestPages_Anonymous(t *testing.T) {
	env := newTestEnv(t, false)
	c := newClient(t, env.router)

	cases := []struct {
		path string
		want []string
	}{
		{"/", []string{"Mario's Recipes", "Breakfast Recipes", "Lunch Recipes", "Dinner Recipes", "Dessert Recipes"}},
		{"/login", []string{"Future site for logging into Mario's Family Recipes!"}},
		{"/register", []string{"Please Register Your New Account"}},
	}
	for _, tc := range cases {
		w := c.get(tc.path)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status=%d", tc.path, w.Code)
		}
		assertContains(t, w, tc.want...)
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, false)
	c := newClient(t, env.router)

	form := url.Values{"email": {"patkennedy79@gmail.com"}, "password": {"FlaskIsAwesome"}, "confirm": {"FlaskIsAwesome"}}
	w := c.post("/register", form)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}
	assertContains(t, w, "Thanks for registering!", "Mario's Recipes")

	// duplicate keeps the submitted email in the form
	w = c.post("/register", url.Values{"email": {"patkennedy79@gmail.com"}, "password": {"other22"}, "confirm": {"other22"}})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status=%d", w.Code)
	}
	assertContains(t, w, "ERROR! Email (patkennedy79@gmail.com) already exists.", `value="patkennedy79@gmail.com"`)

	n, err := env.repos.Users.Count(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("users=%d err=%v, want exactly one", n, err)
	}
	if got := len(env.mail.Sent()); got != 1 {
		t.Fatalf("want 1 confirmation mail, got %d", got)
	}
}

func TestRegister_FieldErrors(t *testing.T) {
	env := newTestEnv(t, false)
	c := newClient(t, env.router)

	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing confirm", url.Values{"email": {"x@example.com"}, "password": {"secret1"}}, "This field is required."},
		{"mismatch", url.Values{"email": {"x@example.com"}, "password": {"secret1"}, "confirm": {"secret2"}}, "Field must be equal to password."},
		{"bad email", url.Values{"email": {"nope-nope"}, "password": {"secret1"}, "confirm": {"secret1"}}, "Invalid email address."},
		{"short password", url.Values{"email": {"x@example.com"}, "password": {"abc"}, "confirm": {"abc"}}, "Field must be at least 6 characters long."},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := c.post("/register", tc.form)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d", w.Code)
			}
			assertContains(t, w, tc.want)
		})
	}

	n, _ := env.repos.Users.Count(context.Background())
	if n != 0 {
		t.Fatalf("invalid forms created %d users", n)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, false)
	setup := newClient(t, env.router)
	setup.register("a@b.com", "secret1")

	cases := []struct {
		name     string
		form     url.Values
		target   string
		code     int
		location string
		body     string
	}{
		{"success", url.Values{"email": {"a@b.com"}, "password": {"secret1"}}, "/login", http.StatusFound, "/", ""},
		{"next from query", url.Values{"email": {"a@b.com"}, "password": {"secret1"}}, "/login?next=/user_profile", http.StatusFound, "/user_profile", ""},
		{"next from form", url.Values{"email": {"a@b.com"}, "password": {"secret1"}, "next": {"/add_recipe"}}, "/login", http.StatusFound, "/add_recipe", ""},
		{"foreign next", url.Values{"email": {"a@b.com"}, "password": {"secret1"}, "next": {"//evil.example"}}, "/login", http.StatusFound, "/", ""},
		{"wrong password", url.Values{"email": {"a@b.com"}, "password": {"wrong"}}, "/login", http.StatusUnauthorized, "", "ERROR! Incorrect login credentials."},
		{"unknown email", url.Values{"email": {"nobody@b.com"}, "password": {"secret1"}}, "/login", http.StatusUnauthorized, "", "ERROR! Incorrect login credentials."},
		{"missing password", url.Values{"email": {"a@b.com"}}, "/login", http.StatusBadRequest, "", "This field is required."},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, env.router)
			w := c.post(tc.target, tc.form)
			if w.Code != tc.code {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.code, w.Body.String())
			}
			if tc.location != "" && w.Header().Get("Location") != tc.location {
				t.Fatalf("Location=%q want %q", w.Header().Get("Location"), tc.location)
			}
			if tc.body != "" {
				assertContains(t, w, tc.body)
			}
			_, hasSession := c.cookies[session.DefaultCookieName]
			if hasSession != (tc.code == http.StatusFound) {
				t.Fatalf("session cookie present=%v after status %d", hasSession, w.Code)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, false)
	c := newClient(t, env.router)
	c.register("out@example.com", "secret1")
	c.login("out@example.com", "secret1")

	w := c.get("/logout")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("logout status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	if _, ok := c.cookies[session.DefaultCookieName]; ok {
		t.Fatalf("session cookie survived logout")
	}

	u, err := env.repos.Users.GetByEmail(context.Background(), "out@example.com")
	if err != nil || u == nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.Authenticated {
		t.Fatalf("authenticated flag still set after logout")
	}

	w = c.get("/user_profile")
	if w.Code != http.StatusFound {
		t.Fatalf("profile after logout status=%d", w.Code)
	}
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/user_profile":        "/user_profile",
		"/add_recipe?x=1":      "/add_recipe?x=1",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"https://evil.example": "/",
		"relative":             "/",
	}
	for in, want := range cases {
		if got := safeNext(in); got != want {
			t.Fatalf("safeNext(%q)=%q want %q", in, got, want)
		}
	}
}
