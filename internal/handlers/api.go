package handlers

import (
	"net/http"

	"family_recipes/internal/models"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// recipesResponse is the body of GET /api/v1/recipes.
type recipesResponse struct {
	Count   int             `json:"count" example:"2"`
	Recipes []models.Recipe `json:"recipes"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List recipes
// @Description  All stored recipes in the order they were added.
// @Tags         recipes
// @Produce      json
// @Success      200  {object}  recipesResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/recipes [get]
func (h *Handler) listRecipesJSON(c *gin.Context) {
	recipes, err := h.services.Recipes.List(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("recipes_list_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipes"})
		return
	}
	c.JSON(http.StatusOK, recipesResponse{Count: len(recipes), Recipes: recipes})
}
