package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"family_recipes/internal/models"
	"family_recipes/internal/service"
	"family_recipes/internal/session"

	"github.com/gin-gonic/gin"
)

// Keys under which per-request state is stored in the gin context.
const (
	ctxSession = "session"
	ctxUser    = "user"
	ctxCSRF    = "csrf_token"
)

const csrfErrorMsg = "The CSRF token is missing or invalid."

// loadSession resolves the session cookie into a session.State and, for an
// authenticated state, the user record. A session naming a user that no
// longer exists is ended.
func (h *Handler) loadSession(c *gin.Context) {
	st := h.sessions.Read(c.Request)
	if st.IsAuthenticated() {
		user, err := h.services.Accounts.Get(c.Request.Context(), st.UserID)
		switch {
		case errors.Is(err, service.ErrNotFound):
			h.sessions.End(c.Writer)
			st = session.Anonymous
		case err != nil:
			h.internalError(c, "session_load_failed", err)
			c.Abort()
			return
		default:
			c.Set(ctxUser, user)
		}
	}
	c.Set(ctxSession, st)
	c.Next()
}

// requireAuth redirects anonymous callers to the login page, remembering
// the requested path in ?next=.
func (h *Handler) requireAuth(c *gin.Context) {
	if sessionState(c).IsAuthenticated() {
		c.Next()
		return
	}
	if h.log != nil {
		h.log.Infow("auth_required_redirect", "path", c.Request.URL.Path)
	}
	next := strings.ReplaceAll(url.QueryEscape(c.Request.URL.RequestURI()), "%2F", "/")
	c.Redirect(http.StatusFound, "/login?next="+next)
	c.Abort()
}

// csrfProtect issues the double-submit token and rejects POSTs whose form
// field does not match the cookie.
func (h *Handler) csrfProtect(c *gin.Context) {
	if h.csrf == nil {
		c.Next()
		return
	}
	token, _ := h.csrf.Token(c.Writer, c.Request)
	c.Set(ctxCSRF, token)

	if c.Request.Method == http.MethodPost && !h.csrf.Valid(c.Request, c.PostForm(session.CSRFFieldName)) {
		if h.log != nil {
			h.log.Infow("csrf_rejected", "path", c.Request.URL.Path)
		}
		h.renderError(c, http.StatusBadRequest, csrfErrorMsg)
		c.Abort()
		return
	}
	c.Next()
}

// requestLogger writes one line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
		"client_ip", c.ClientIP(),
	)
}

func sessionState(c *gin.Context) session.State {
	if v, ok := c.Get(ctxSession); ok {
		if st, ok := v.(session.State); ok {
			return st
		}
	}
	return session.Anonymous
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
