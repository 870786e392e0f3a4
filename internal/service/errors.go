package service

import (
	"errors"
	"fmt"

	"family_recipes/internal/credential"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned for both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

const requiredMsg = "This field is required."

var tooLongMsg = fmt.Sprintf("Field cannot be longer than %d characters.", credential.MaxBytes)
