package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/recipegram/backend/internal/models"
	"github.com/recipegram/backend/internal/types"
)

// AssetRef identifies an uploaded asset: the public URL stored on the recipe
// and the opaque id used to destroy the asset later.
type AssetRef struct {
	URL string
	ID  string
}

// AssetStore is the external media host holding uploaded image binaries
type AssetStore interface {
	Upload(ctx context.Context, dataURL, folder string) (*AssetRef, error)
	Destroy(ctx context.Context, id string) error
	// Hosts reports whether the URL points at this store
	Hosts(url string) bool
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	Highlights(ctx context.Context) ([]models.Recipe, error)
	Feed(ctx context.Context, page, limit int) ([]models.Recipe, error)
	Delete(ctx context.Context, userID uuid.UUID, id string) error
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ResolvePrincipal(ctx context.Context, token string) (*models.User, error)
}
