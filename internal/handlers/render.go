package handlers

import (
	"net/http"

	"family_recipes/internal/forms"
	"family_recipes/internal/session"

	"github.com/gin-gonic/gin"
)

// render fills the keys every template expects and writes the page.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	if _, ok := data["Form"]; !ok {
		data["Form"] = map[string]string{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = currentUser(c)
	}
	if _, ok := data["Next"]; !ok {
		data["Next"] = ""
	}
	data["CSRFField"] = session.CSRFFieldName
	data["CSRFToken"] = c.GetString(ctxCSRF)
	c.HTML(status, name, data)
}

func (h *Handler) renderError(c *gin.Context, status int, msg string) {
	h.render(c, status, "error.html", gin.H{
		"Title":  http.StatusText(status),
		"Status": http.StatusText(status),
		"Error":  msg,
	})
}

// internalError logs err under key and answers with a generic 500 page.
func (h *Handler) internalError(c *gin.Context, key string, err error) {
	if h.log != nil {
		h.log.Errorw(key, "err", err, "path", c.Request.URL.Path)
	}
	h.renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}
