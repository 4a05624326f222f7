package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipegram/backend/internal/models"
)

// RecipeRepository handles persistence for recipes and owner lookups
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository instance
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// ListTop returns up to n recipes ordered by rating, newest first within a
// rating, with the owner preloaded
func (r *RecipeRepository) ListTop(ctx context.Context, n int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("rating DESC, created_at DESC").
		Limit(n).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListPage returns one page of recipes in reverse-chronological order, with
// the owner preloaded. Pages past the end yield an empty slice.
func (r *RecipeRepository) ListPage(ctx context.Context, page, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Create inserts a recipe and returns it with the owner preloaded
func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}

	var created models.Recipe
	if err := r.db.WithContext(ctx).Preload("User").First(&created, "id = ?", recipe.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// FindByID retrieves a recipe by its id. A malformed id is reported as
// gorm.ErrRecordNotFound rather than an error of its own.
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*models.Recipe, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	var recipe models.Recipe
	if err := r.db.WithContext(ctx).Preload("User").First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe by id
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// FindUserByID retrieves a user by id
func (r *RecipeRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail retrieves a user by email
func (r *RecipeRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByEmailOrUsername retrieves a user matching either identifier,
// used for duplicate checks during registration
func (r *RecipeRepository) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user
func (r *RecipeRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}
