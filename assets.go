package family_recipes

import "embed"

// Templates holds the server-rendered HTML pages.
//
//go:embed templates/*.html
var Templates embed.FS

// Migrations holds the goose SQL migrations applied on startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const (
	// TemplatesDir is the directory inside Templates.
	TemplatesDir = "templates"
	// MigrationsDir is the directory inside Migrations.
	MigrationsDir = "migrations"
)
