package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"family_recipes/internal/credential"
	"family_recipes/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type UserSQLite struct {
	db DBTX
}

func NewUserSQLite(db DBTX) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserSQLite)(nil)

const (
	userColumns = `id, email, password_hash, authenticated, registered_on, last_logged_in, current_logged_in`

	insertUserSQL        = `INSERT INTO users (email, password_hash, authenticated, registered_on) VALUES (?, ?, 0, ?)`
	selectUserByIDSQL    = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	existsUserEmailSQL   = `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`
	updateUserEmailSQL   = `UPDATE users SET email = ? WHERE id = ?`
	updateUserPassSQL    = `UPDATE users SET password_hash = ? WHERE id = ?`
	updateUserAuthSQL    = `UPDATE users SET authenticated = ? WHERE id = ?`
	updateUserLoginSQL   = `UPDATE users SET last_logged_in = current_logged_in, current_logged_in = ?, authenticated = 1 WHERE id = ?`
	countUsersSQL        = `SELECT COUNT(*) FROM users`
)

// Create inserts a new user and returns its ID.
func (r *UserSQLite) Create(ctx context.Context, email string, password credential.Credential, registeredOn time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, email, password.Bytes(), registeredOn.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	return int(lastID), nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByEmailSQL, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	return u, nil
}

func (r *UserSQLite) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, existsUserEmailSQL, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email %q: %w", email, err)
	}
	return exists, nil
}

func (r *UserSQLite) UpdateEmail(ctx context.Context, id int, email string) error {
	res, err := r.db.ExecContext(ctx, updateUserEmailSQL, email, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("update email of user %d: %w", id, err)
	}
	return expectOneRow(res, "update email of user", id)
}

func (r *UserSQLite) UpdatePassword(ctx context.Context, id int, password credential.Credential) error {
	res, err := r.db.ExecContext(ctx, updateUserPassSQL, password.Bytes(), id)
	if err != nil {
		return fmt.Errorf("update password of user %d: %w", id, err)
	}
	return expectOneRow(res, "update password of user", id)
}

func (r *UserSQLite) SetAuthenticated(ctx context.Context, id int, authenticated bool) error {
	res, err := r.db.ExecContext(ctx, updateUserAuthSQL, authenticated, id)
	if err != nil {
		return fmt.Errorf("set authenticated of user %d: %w", id, err)
	}
	return expectOneRow(res, "set authenticated of user", id)
}

// RecordLogin shifts the current login stamp to last_logged_in, stores at as
// the current one and marks the user authenticated.
func (r *UserSQLite) RecordLogin(ctx context.Context, id int, at time.Time) error {
	res, err := r.db.ExecContext(ctx, updateUserLoginSQL, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("record login of user %d: %w", id, err)
	}
	return expectOneRow(res, "record login of user", id)
}

func (r *UserSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// ErrNoRowsAffected is returned by updates that matched no user.
var ErrNoRowsAffected = errors.New("no rows affected")

func expectOneRow(res sql.Result, op string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: rows affected: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, ErrNoRowsAffected)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u            models.User
		hash         []byte
		lastLogin    sql.NullTime
		currentLogin sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Email, &hash, &u.Authenticated, &u.RegisteredOn, &lastLogin, &currentLogin); err != nil {
		return nil, err
	}
	u.Password = credential.FromHash(hash)
	u.RegisteredOn = u.RegisteredOn.UTC()
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		u.LastLoggedIn = &t
	}
	if currentLogin.Valid {
		t := currentLogin.Time.UTC()
		u.CurrentLoggedIn = &t
	}
	return &u, nil
}

// isUniqueViolation reports whether err is SQLite's UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	// primary result code only, when extended codes are off
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
