package handlers

import (
	"errors"
	"net/http"

	"family_recipes/internal/forms"
	"family_recipes/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) index(c *gin.Context) {
	recipes, err := h.services.Recipes.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "recipes_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "index.html", gin.H{"Recipes": recipes})
}

func (h *Handler) addRecipePage(c *gin.Context) {
	h.render(c, http.StatusOK, "add_recipe.html", gin.H{"Title": "Add Recipe"})
}

func (h *Handler) addRecipe(c *gin.Context) {
	var form forms.RecipeForm
	err := c.ShouldBind(&form)
	data := gin.H{
		"Title": "Add Recipe",
		"Form":  map[string]string{"recipe_title": form.Title, "recipe_description": form.Description},
	}
	if err != nil {
		data["Errors"] = forms.FromBinding(err)
		h.render(c, http.StatusBadRequest, "add_recipe.html", data)
		return
	}

	recipe, err := h.services.Recipes.Create(c.Request.Context(), form.Title, form.Description)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			data["Errors"] = forms.Errors{ve.Field: ve.Message}
			h.render(c, http.StatusBadRequest, "add_recipe.html", data)
			return
		}
		h.internalError(c, "recipe_create_failed", err)
		return
	}

	if h.log != nil {
		h.log.Infow("recipe_added", "recipe_id", recipe.ID, "user_id", sessionState(c).UserID)
	}
	c.Redirect(http.StatusFound, "/")
}
