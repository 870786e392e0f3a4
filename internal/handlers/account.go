package handlers

import (
	"errors"
	"net/http"

	"family_recipes/internal/forms"
	"family_recipes/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	emailChangedMsg    = "Email changed!"
	passwordChangedMsg = "Password has been updated!"
)

func (h *Handler) profile(c *gin.Context) {
	h.render(c, http.StatusOK, "profile.html", gin.H{"Title": "User Profile"})
}

func (h *Handler) emailChangePage(c *gin.Context) {
	h.render(c, http.StatusOK, "email_change.html", gin.H{"Title": "Change Email"})
}

func (h *Handler) emailChange(c *gin.Context) {
	var form forms.EmailForm
	data := gin.H{"Title": "Change Email"}
	if err := c.ShouldBind(&form); err != nil {
		data["Errors"] = forms.FromBinding(err)
		data["Form"] = map[string]string{"email": form.Email}
		h.render(c, http.StatusBadRequest, "email_change.html", data)
		return
	}

	user, err := h.services.Accounts.ChangeEmail(c.Request.Context(), sessionState(c).UserID, form.Email)
	if err != nil {
		data["Form"] = map[string]string{"email": form.Email}
		h.accountChangeFailed(c, "email_change.html", data, form.Email, err)
		return
	}
	h.render(c, http.StatusOK, "profile.html", gin.H{"Title": "User Profile", "User": user, "Message": emailChangedMsg})
}

func (h *Handler) passwordChangePage(c *gin.Context) {
	h.render(c, http.StatusOK, "password_change.html", gin.H{"Title": "Change Password"})
}

func (h *Handler) passwordChange(c *gin.Context) {
	var form forms.PasswordForm
	data := gin.H{"Title": "Change Password"}
	if err := c.ShouldBind(&form); err != nil {
		data["Errors"] = forms.FromBinding(err)
		h.render(c, http.StatusBadRequest, "password_change.html", data)
		return
	}

	user, err := h.services.Accounts.ChangePassword(c.Request.Context(), sessionState(c).UserID, form.Password)
	if err != nil {
		h.accountChangeFailed(c, "password_change.html", data, "", err)
		return
	}
	h.render(c, http.StatusOK, "profile.html", gin.H{"Title": "User Profile", "User": user, "Message": passwordChangedMsg})
}

func (h *Handler) accountChangeFailed(c *gin.Context, page string, data gin.H, email string, err error) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		data["Error"] = emailExistsMsg(email)
		h.render(c, http.StatusConflict, page, data)
	case errors.As(err, &ve):
		data["Errors"] = forms.Errors{ve.Field: ve.Message}
		h.render(c, http.StatusBadRequest, page, data)
	case errors.Is(err, service.ErrNotFound):
		h.sessions.End(c.Writer)
		c.Redirect(http.StatusFound, "/login")
	default:
		h.internalError(c, "account_change_error", err)
	}
}
