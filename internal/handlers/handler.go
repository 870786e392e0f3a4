package handlers

import (
	"html/template"

	fr "family_recipes"
	_ "family_recipes/docs"
	"family_recipes/internal/logger"
	"family_recipes/internal/metrics"
	"family_recipes/internal/service"
	"family_recipes/internal/session"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services, sessions and logging.
type Handler struct {
	services *service.Service
	sessions *session.Manager
	csrf     *session.CSRF // nil disables CSRF checks
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, sessions *session.Manager, csrf *session.CSRF, log *logger.Logger) *Handler {
	return &Handler{services: services, sessions: sessions, csrf: csrf, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger, metrics.Middleware())
	router.SetHTMLTemplate(parseTemplates())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)
	h.registerPageRoutes(router)

	return router
}

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(fr.Templates, fr.TemplatesDir+"/*.html"))
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/recipes", h.listRecipesJSON)
	}
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	pages := r.Group("/", h.loadSession, h.csrfProtect)
	{
		pages.GET("/", h.index)
		pages.GET("/login", h.loginPage)
		pages.POST("/login", h.login)
		pages.GET("/register", h.registerPage)
		pages.POST("/register", h.register)
	}

	private := pages.Group("/", h.requireAuth)
	{
		private.GET("/logout", h.logout)
		private.GET("/user_profile", h.profile)
		private.GET("/email_change", h.emailChangePage)
		private.POST("/email_change", h.emailChange)
		private.GET("/password_change", h.passwordChangePage)
		private.POST("/password_change", h.passwordChange)
		private.GET("/add_recipe", h.addRecipePage)
		private.POST("/add_recipe", h.addRecipe)
	}
}
