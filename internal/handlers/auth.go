package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"family_recipes/internal/forms"
	"family_recipes/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	invalidLoginMsg = "ERROR! Incorrect login credentials."
	registeredMsg   = "Thanks for registering!"
)

func emailExistsMsg(email string) string {
	return fmt.Sprintf("ERROR! Email (%s) already exists.", email)
}

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Log In", "Next": c.Query("next")})
}

func (h *Handler) login(c *gin.Context) {
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}

	var form forms.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"Title":  "Log In",
			"Next":   next,
			"Errors": forms.FromBinding(err),
			"Form":   map[string]string{"email": form.Email},
		})
		return
	}

	user, err := h.services.Accounts.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.render(c, http.StatusUnauthorized, "login.html", gin.H{
				"Title": "Log In",
				"Next":  next,
				"Error": invalidLoginMsg,
				"Form":  map[string]string{"email": form.Email},
			})
			return
		}
		h.internalError(c, "auth_login_error", err)
		return
	}

	if err := h.sessions.Start(c.Writer, user.ID); err != nil {
		h.internalError(c, "session_start_failed", err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.services.Accounts.Logout(c.Request.Context(), sessionState(c).UserID); err != nil &&
		!errors.Is(err, service.ErrNotFound) {
		h.internalError(c, "auth_logout_error", err)
		return
	}
	h.sessions.End(c.Writer)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (h *Handler) register(c *gin.Context) {
	var form forms.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"Title":  "Register",
			"Errors": forms.FromBinding(err),
			"Form":   map[string]string{"email": form.Email},
		})
		return
	}

	_, err := h.services.Accounts.Register(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		h.registerFailed(c, form.Email, err)
		return
	}

	recipes, err := h.services.Recipes.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "recipes_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"Message": registeredMsg, "Recipes": recipes})
}

func (h *Handler) registerFailed(c *gin.Context, email string, err error) {
	data := gin.H{"Title": "Register", "Form": map[string]string{"email": email}}

	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		data["Error"] = emailExistsMsg(email)
		h.render(c, http.StatusConflict, "register.html", data)
	case errors.As(err, &ve):
		data["Errors"] = forms.Errors{ve.Field: ve.Message}
		h.render(c, http.StatusBadRequest, "register.html", data)
	default:
		h.internalError(c, "auth_register_error", err)
	}
}

// safeNext accepts only local absolute paths as redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
