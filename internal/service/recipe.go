package service

import (
	"context"
	"fmt"
	"strings"

	"family_recipes/internal/models"
	"family_recipes/internal/repository"
)

type RecipeService struct {
	repos *repository.Repository
}

func NewRecipeService(repos *repository.Repository) *RecipeService {
	return &RecipeService{repos: repos}
}

// List returns every recipe in insertion order.
func (s *RecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := s.repos.Recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Create stores a recipe after trimming both fields. Blank fields yield a *ValidationError.
func (s *RecipeService) Create(ctx context.Context, title, description string) (*models.Recipe, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, &ValidationError{Field: "recipe_title", Message: requiredMsg}
	}
	if description == "" {
		return nil, &ValidationError{Field: "recipe_description", Message: requiredMsg}
	}

	var id int
	err := s.repos.WithTx(ctx, func(r *repository.Repository) error {
		var err error
		id, err = r.Recipes.Create(ctx, title, description)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create recipe %q: %w", title, err)
	}
	return &models.Recipe{ID: id, Title: title, Description: description}, nil
}
