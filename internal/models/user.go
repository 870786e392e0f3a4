package models

import (
	"time"

	"family_recipes/internal/credential"
)

type User struct {
	ID              int                   `json:"id"`
	Email           string                `json:"email"`
	Password        credential.Credential `json:"-"` // never rendered
	Authenticated   bool                  `json:"authenticated"`
	RegisteredOn    time.Time             `json:"registered_on"`
	LastLoggedIn    *time.Time            `json:"last_logged_in,omitempty"`
	CurrentLoggedIn *time.Time            `json:"current_logged_in,omitempty"`
}
