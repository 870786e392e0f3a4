package repository

import (
	"context"
	"fmt"

	"family_recipes/internal/models"
)

type RecipeSQLite struct {
	db DBTX
}

func NewRecipeSQLite(db DBTX) *RecipeSQLite { return &RecipeSQLite{db: db} }

var _ RecipeRepo = (*RecipeSQLite)(nil)

const (
	insertRecipeSQL = `INSERT INTO recipes (title, description) VALUES (?, ?)`
	selectRecipeSQL = `SELECT id, title, description FROM recipes ORDER BY id ASC`
)

// Create inserts a recipe and returns its ID.
func (r *RecipeSQLite) Create(ctx context.Context, title, description string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertRecipeSQL, title, description)
	if err != nil {
		return 0, fmt.Errorf("insert recipe %q: %w", title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for recipe %q: %w", title, err)
	}
	return int(lastID), nil
}

// List returns every recipe in insertion order.
func (r *RecipeSQLite) List(ctx context.Context) ([]models.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, selectRecipeSQL)
	if err != nil {
		return nil, fmt.Errorf("select recipes: %w", err)
	}
	defer rows.Close()

	out := make([]models.Recipe, 0, 16)
	for rows.Next() {
		var rc models.Recipe
		if err := rows.Scan(&rc.ID, &rc.Title, &rc.Description); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return out, nil
}
