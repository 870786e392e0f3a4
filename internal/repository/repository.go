package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"family_recipes/internal/credential"
	"family_recipes/internal/models"
)

// ErrEmailTaken is returned when the users.email UNIQUE constraint rejects a write.
var ErrEmailTaken = errors.New("email already taken")

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepo interface {
	Create(ctx context.Context, email string, password credential.Credential, registeredOn time.Time) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateEmail(ctx context.Context, id int, email string) error
	UpdatePassword(ctx context.Context, id int, password credential.Credential) error
	SetAuthenticated(ctx context.Context, id int, authenticated bool) error
	RecordLogin(ctx context.Context, id int, at time.Time) error
	Count(ctx context.Context) (int, error)
}

type RecipeRepo interface {
	Create(ctx context.Context, title, description string) (int, error)
	List(ctx context.Context) ([]models.Recipe, error)
}

type Repository struct {
	Users   UserRepo
	Recipes RecipeRepo

	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:   NewUserSQLite(db),
		Recipes: NewRecipeSQLite(db),
		db:      db,
	}
}

func newTxRepository(tx *sql.Tx) *Repository {
	return &Repository{
		Users:   NewUserSQLite(tx),
		Recipes: NewRecipeSQLite(tx),
	}
}

// WithTx runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
// Nested calls reuse the outer transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(repos *Repository) error) (err error) {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit transaction: %w", cerr)
		}
	}()

	return fn(newTxRepository(tx))
}
