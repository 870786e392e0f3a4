package service

import (
	"context"

	"family_recipes/internal/credential"
	"family_recipes/internal/logger"
	"family_recipes/internal/mail"
	"family_recipes/internal/models"
	"family_recipes/internal/repository"
)

// Accounts holds the user registration, login and profile rules.
type Accounts interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id int) (*models.User, error)
	ChangeEmail(ctx context.Context, id int, email string) (*models.User, error)
	ChangePassword(ctx context.Context, id int, password string) (*models.User, error)
	VerifyLogin(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context, id int) error
}

// Recipes lists and adds recipes.
type Recipes interface {
	List(ctx context.Context) ([]models.Recipe, error)
	Create(ctx context.Context, title, description string) (*models.Recipe, error)
}

type Service struct {
	Accounts
	Recipes
}

func NewService(repos *repository.Repository, creds *credential.Store, mailer mail.Sender, log *logger.Logger) *Service {
	return &Service{
		Accounts: NewAccountService(repos, creds, mailer, log),
		Recipes:  NewRecipeService(repos),
	}
}
