package handlers

import (
	"net/http"
	"net/url"
	"testing"
)

func TestAddRecipe(t *testing.T) {
	env := newTestEnv(t, false)
	c := newClient(t, env.router)
	c.register("cook@example.com", "secret1")
	c.login("cook@example.com", "secret1")

	if w := c.get("/add_recipe"); w.Code != http.StatusOK {
		t.Fatalf("GET status=%d", w.Code)
	}

	w := c.post("/add_recipe", url.Values{"recipe_title": {"Pizza Margherita"}, "recipe_description": {"Tomato, mozzarella, basil."}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	assertContains(t, c.get("/"), "Pizza Margherita", "Tomato, mozzarella, basil.")

	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing fields", url.Values{}, "This field is required."},
		{"whitespace title", url.Values{"recipe_title": {"   "}, "recipe_description": {"x"}}, "This field is required."},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			w := c.post("/add_recipe", tc.form)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d", w.Code)
			}
			assertContains(t, w, tc.want)
		})
	}
}
