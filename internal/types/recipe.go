package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/recipegram/backend/internal/models"
)

// RecipeOwner is the public slice of a recipe's owner
type RecipeOwner struct {
	Username string `json:"username"`
}

// RecipeResponse is the JSON shape returned for a recipe
type RecipeResponse struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Caption     string      `json:"caption"`
	Image       string      `json:"image"`
	Ingredients []string    `json:"ingredients"`
	Rating      int         `json:"rating"`
	User        RecipeOwner `json:"user"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewRecipeResponse maps a recipe model to its response shape
func NewRecipeResponse(r *models.Recipe) RecipeResponse {
	ingredients := []string(r.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		Caption:     r.Caption,
		Image:       r.ImageURL,
		Ingredients: ingredients,
		Rating:      r.Rating,
		User:        RecipeOwner{Username: r.User.Username},
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// NewRecipeList maps a slice of recipe models to response shapes
func NewRecipeList(recipes []models.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		out[i] = NewRecipeResponse(&recipes[i])
	}
	return out
}
