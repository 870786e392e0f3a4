package service

import (
	"context"
	"errors"
	"testing"
)

func TestRecipes_CreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.recipes.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", empty)
	}

	titles := []string{"Pancakes", "Minestrone", "Lasagna"}
	for _, title := range titles {
		r, err := f.recipes.Create(ctx, "  "+title+"  ", " tasty ")
		if err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
		if r.Title != title || r.Description != "tasty" || r.ID == 0 {
			t.Fatalf("fields not trimmed or id missing: %+v", r)
		}
	}

	got, err := f.recipes.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(titles) {
		t.Fatalf("want %d recipes, got %d", len(titles), len(got))
	}
	for i, r := range got {
		if r.Title != titles[i] {
			t.Fatalf("position %d: want %q, got %q", i, titles[i], r.Title)
		}
	}
}

func TestRecipes_Create_RejectsBlankFields(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name, title, description, field string
	}{
		{"blank title", "   ", "desc", "recipe_title"},
		{"blank description", "Soup", "\t", "recipe_description"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.recipes.Create(context.Background(), tt.title, tt.description)
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("want ValidationError on %s, got %v", tt.field, err)
			}
		})
	}

	got, err := f.recipes.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("rejected recipes were stored: %+v", got)
	}
}
