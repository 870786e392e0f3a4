// Package forms declares the HTML form payloads and turns validation
// failures into per-field messages shown next to the inputs.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const RequiredMsg = "This field is required."

type RegisterForm struct {
	Email    string `form:"email" binding:"required,email,min=6,max=40"`
	Password string `form:"password" binding:"required,min=6,max=40"`
	Confirm  string `form:"confirm" binding:"required,eqfield=Password"`
}

type LoginForm struct {
	Email    string `form:"email" binding:"required,email,min=6,max=40"`
	Password string `form:"password" binding:"required"`
}

type EmailForm struct {
	Email string `form:"email" binding:"required,email,min=6,max=40"`
}

type PasswordForm struct {
	Password string `form:"password" binding:"required,max=72"`
}

type RecipeForm struct {
	Title       string `form:"recipe_title" binding:"required"`
	Description string `form:"recipe_description" binding:"required"`
}

// Errors maps a form field name to the message rendered under it.
type Errors map[string]string

// fieldNames maps struct fields to their HTML input names.
var fieldNames = map[string]string{
	"Email":       "email",
	"Password":    "password",
	"Confirm":     "confirm",
	"Title":       "recipe_title",
	"Description": "recipe_description",
}

// FromBinding converts a gin binding error into field messages. Errors that
// are not validation failures (malformed body, wrong content type) are
// reported under the "form" key.
func FromBinding(err error) Errors {
	if err == nil {
		return nil
	}
	out := Errors{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["form"] = "Invalid form submission."
		return out
	}
	for _, fe := range ve {
		name, ok := fieldNames[fe.Field()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		if _, seen := out[name]; !seen {
			out[name] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return RequiredMsg
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "eqfield":
		return fmt.Sprintf("Field must be equal to %s.", strings.ToLower(fe.Param()))
	default:
		return "Invalid value."
	}
}
