package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"family_recipes/internal/credential"
	"family_recipes/internal/logger"
	"family_recipes/internal/mail"
	"family_recipes/internal/metrics"
	"family_recipes/internal/models"
	"family_recipes/internal/repository"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown email, so both failure paths cost one bcrypt comparison.
const dummyPassword = "family-recipes-timing-equalizer"

// AccountService implements Accounts. Every operation runs in one transaction.
type AccountService struct {
	repos  *repository.Repository
	creds  *credential.Store
	mailer mail.Sender
	log    *logger.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummy     credential.Credential
}

func NewAccountService(repos *repository.Repository, creds *credential.Store, mailer mail.Sender, log *logger.Logger) *AccountService {
	return &AccountService{
		repos:  repos,
		creds:  creds,
		mailer: mailer,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user with a freshly hashed password.
func (s *AccountService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: requiredMsg}
	}
	cred, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.repos.WithTx(ctx, func(r *repository.Repository) error {
		taken, err := r.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailAlreadyExists
		}
		id, err := r.Users.Create(ctx, email, cred, s.now())
		if err != nil {
			return err
		}
		user, err = r.Users.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapErr(err, fmt.Sprintf("register user %q", email))
	}

	metrics.RecordRegistration()
	if s.log != nil {
		s.log.Infow("account_registered", "user_id", user.ID, "email", user.Email)
	}
	s.notify(ctx, user.Email, "Welcome to Mario's Family Recipes",
		"Thanks for registering! You can now log in with "+user.Email+".")
	return user, nil
}

// FindByEmail returns ErrNotFound when no user owns email.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := s.repos.WithTx(ctx, func(r *repository.Repository) error {
		var err error
		user, err = findByEmail(ctx, r.Users, email)
		return err
	})
	if err != nil {
		return nil, s.mapErr(err, fmt.Sprintf("find user %q", email))
	}
	return user, nil
}

func findByEmail(ctx context.Context, users repository.UserRepo, email string) (*models.User, error) {
	user, err := users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Get returns ErrNotFound when id does not exist.
func (s *AccountService) Get(ctx context.Context, id int) (*models.User, error) {
	var user *models.User
	err := s.repos.WithTx(ctx, func(r *repository.Repository) error {
		var err error
		user, err = r.Users.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ChangeEmail moves the user to email. Any existing owner of email, the user
// included, makes the change fail with ErrEmailAlreadyExists.
func (s *AccountService) ChangeEmail(ctx context.Context, id int, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: requiredMsg}
	}

	var user *models.User
	err := s.repos.WithTx(ctx, func(r *repository.Repository) error {
		current, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}
		taken, err := r.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailAlreadyExists
		}
		if err := r.Users.UpdateEmail(ctx, id, email); err != nil {
			return err
		}
		user, err = r.Users.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapErr(err, fmt.Sprintf("change email of user %d", id))
	}

	if s.log != nil {
		s.log.Infow("account_email_changed", "user_id", id, "email", email)
	}
	s.notify(ctx, user.Email, "Your email address was changed",
		"This address is now the login for your Mario's Family Recipes account.")
	return user, nil
}

// ChangePassword replaces the stored credential. The old password stops verifying.
func (s *AccountService) ChangePassword(ctx context.Context, id int, password string) (*models.User, error) {
	cred, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.repos.WithTx(ctx, func(r *repository.Repository) error {
		current, err := r.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}
		if err := r.Users.UpdatePassword(ctx, id, cred); err != nil {
			return err
		}
		user, err = r.Users.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapErr(err, fmt.Sprintf("change password of user %d", id))
	}

	if s.log != nil {
		s.log.Infow("account_password_changed", "user_id", id)
	}
	s.notify(ctx, user.Email, "Your password was changed",
		"The password for your Mario's Family Recipes account has been updated.")
	return user, nil
}

// VerifyLogin checks email and password without touching the session columns.
func (s *AccountService) VerifyLogin(ctx context.Context, email, password string) (*models.User, error) {
	var user *models.User
	err := s.repos.WithTx(ctx, func(r *repository.Repository) error {
		var err error
		user, err = s.verify(ctx, r.Users, email, password)
		return err
	})
	if err != nil {
		return nil, s.mapErr(err, fmt.Sprintf("verify login %q", email))
	}
	return user, nil
}

// Login verifies the credentials, marks the user authenticated and rotates
// the login timestamps in a single transaction.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user *models.User
	err := s.repos.WithTx(ctx, func(r *repository.Repository) error {
		verified, err := s.verify(ctx, r.Users, email, password)
		if err != nil {
			return err
		}
		if err := r.Users.RecordLogin(ctx, verified.ID, s.now()); err != nil {
			return err
		}
		user, err = r.Users.GetByID(ctx, verified.ID)
		return err
	})
	if errors.Is(err, ErrInvalidCredentials) {
		metrics.RecordLogin(false)
		if s.log != nil {
			s.log.Infow("auth_login_failed", "email", email)
		}
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, s.mapErr(err, fmt.Sprintf("login %q", email))
	}

	metrics.RecordLogin(true)
	if s.log != nil {
		s.log.Infow("auth_login", "user_id", user.ID)
	}
	return user, nil
}

// verify yields ErrInvalidCredentials for an unknown email and for a wrong
// password alike. An unknown email still pays one bcrypt comparison.
func (s *AccountService) verify(ctx context.Context, users repository.UserRepo, email, password string) (*models.User, error) {
	user, err := findByEmail(ctx, users, email)
	if errors.Is(err, ErrNotFound) {
		s.creds.Verify(s.dummyCredential(), password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.creds.Verify(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Logout clears the authenticated flag.
func (s *AccountService) Logout(ctx context.Context, id int) error {
	err := s.repos.WithTx(ctx, func(r *repository.Repository) error {
		return r.Users.SetAuthenticated(ctx, id, false)
	})
	if err != nil {
		return s.mapErr(err, fmt.Sprintf("logout user %d", id))
	}
	if s.log != nil {
		s.log.Infow("auth_logout", "user_id", id)
	}
	return nil
}

func (s *AccountService) hash(password string) (credential.Credential, error) {
	cred, err := s.creds.Hash(password)
	switch {
	case errors.Is(err, credential.ErrInvalidInput):
		return credential.Credential{}, &ValidationError{Field: "password", Message: requiredMsg}
	case errors.Is(err, credential.ErrTooLong):
		return credential.Credential{}, &ValidationError{Field: "password", Message: tooLongMsg}
	}
	return cred, err
}

func (s *AccountService) dummyCredential() credential.Credential {
	s.dummyOnce.Do(func() {
		s.dummy, _ = s.creds.Hash(dummyPassword)
	})
	return s.dummy
}

// mapErr keeps domain sentinels unwrapped and translates repository errors.
func (s *AccountService) mapErr(err error, op string) error {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, repository.ErrEmailTaken):
		return ErrEmailAlreadyExists
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNoRowsAffected):
		return ErrNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return ErrInvalidCredentials
	}
	return fmt.Errorf("%s: %w", op, err)
}

// notify sends a notification email. Delivery failures are logged only.
func (s *AccountService) notify(ctx context.Context, to, subject, body string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		metrics.RecordMailFailure()
		if s.log != nil {
			s.log.Errorw("mail_send_failed", "to", to, "subject", subject, "err", err)
		}
	}
}
