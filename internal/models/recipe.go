package models

// Recipe is a single entry of the recipe listing.
type Recipe struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
