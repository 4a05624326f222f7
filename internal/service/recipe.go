package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/recipegram/backend/internal/models"
	"github.com/recipegram/backend/internal/repository"
	"github.com/recipegram/backend/internal/types"
)

const (
	assetFolder = "recipes"

	highlightsLimit    = 10
	highlightsCacheKey = "recipes:highlights"
	highlightsCacheTTL = time.Minute
)

// RecipeService orchestrates recipe lifecycle: input validation, the
// upload-then-persist create sequence, listing, and owner-only delete with
// best-effort media cleanup. No state is held across requests.
//
// Create's upload and persist are two external calls with no transaction
// across them; a crash in between leaves an uploaded-but-unreferenced object
// behind. That orphan is accepted and not compensated for.
type RecipeService struct {
	repo   *repository.RecipeRepository
	assets AssetStore
	cache  *redis.Client
}

// NewRecipeService creates a new RecipeService instance. cache may be nil,
// in which case highlights are computed on every request.
func NewRecipeService(repo *repository.RecipeRepository, assets AssetStore, cache *redis.Client) *RecipeService {
	return &RecipeService{
		repo:   repo,
		assets: assets,
		cache:  cache,
	}
}

// Create validates the request, uploads the image to the media store and
// persists the recipe owned by userID. The record is only written after a
// successful upload, so no partial recipe is ever visible.
func (s *RecipeService) Create(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	if req.Title == "" || req.Caption == "" || req.Image == "" || req.Rating == nil {
		return nil, newValidationError("Please provide all fields (title, caption, image, rating)")
	}

	rating, ok := coerceRating(req.Rating)
	if !ok {
		return nil, newValidationError("Rating must be a number between 1 and 5")
	}

	if !strings.HasPrefix(req.Image, "data:image/") {
		return nil, newValidationError("Image must be a base64 data URL (data:image/...;base64,...)")
	}

	ref, err := s.assets.Upload(ctx, req.Image, assetFolder)
	if err != nil {
		log.Printf("[RecipeService] image upload failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	recipe := &models.Recipe{
		Title:       req.Title,
		Caption:     req.Caption,
		ImageURL:    ref.URL,
		Ingredients: normalizeIngredients(req.Ingredients),
		Rating:      rating,
		UserID:      userID,
	}

	created, err := s.repo.Create(ctx, recipe)
	if err != nil {
		return nil, err
	}

	s.invalidateHighlights(ctx)
	return created, nil
}

// Highlights returns the top-rated recipes, newest first within a rating
func (s *RecipeService) Highlights(ctx context.Context) ([]models.Recipe, error) {
	if cached, ok := s.cachedHighlights(ctx); ok {
		return cached, nil
	}

	recipes, err := s.repo.ListTop(ctx, highlightsLimit)
	if err != nil {
		return nil, err
	}

	s.storeHighlights(ctx, recipes)
	return recipes, nil
}

// Feed returns one page of the reverse-chronological recipe listing
func (s *RecipeService) Feed(ctx context.Context, page, limit int) ([]models.Recipe, error) {
	return s.repo.ListPage(ctx, page, limit)
}

// Delete removes a recipe owned by userID. The remote image is destroyed
// best-effort first; its failure is logged and never blocks record deletion.
func (s *RecipeService) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if recipe.UserID != userID {
		return ErrNotOwner
	}

	if recipe.ImageURL != "" && s.assets.Hosts(recipe.ImageURL) {
		key := DeriveAssetKey(recipe.ImageURL, assetFolder)
		if err := s.assets.Destroy(ctx, key); err != nil {
			log.Printf("[RecipeService] failed to destroy asset %s: %v", key, err)
		}
	}

	if err := s.repo.Delete(ctx, recipe.ID); err != nil {
		return err
	}

	s.invalidateHighlights(ctx)
	return nil
}

// coerceRating accepts any value coercible to a finite number, including
// numeric strings, and checks it is an integer in [1,5]
func coerceRating(v interface{}) (int, bool) {
	var r float64
	switch n := v.(type) {
	case float64:
		r = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		r = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		r = parsed
	default:
		return 0, false
	}

	if math.IsNaN(r) || math.IsInf(r, 0) || r != math.Trunc(r) || r < 1 || r > 5 {
		return 0, false
	}
	return int(r), true
}

// normalizeIngredients keeps the given sequence when it is array-shaped and
// silently substitutes an empty list otherwise
func normalizeIngredients(v interface{}) models.JSONBStringArray {
	items, ok := v.([]interface{})
	if !ok {
		return models.JSONBStringArray{}
	}

	out := make(models.JSONBStringArray, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

func (s *RecipeService) cachedHighlights(ctx context.Context) ([]models.Recipe, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, highlightsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[RecipeService] highlights cache read failed: %v", err)
		}
		return nil, false
	}

	var recipes []models.Recipe
	if err := json.Unmarshal(payload, &recipes); err != nil {
		log.Printf("[RecipeService] highlights cache decode failed: %v", err)
		return nil, false
	}
	return recipes, true
}

func (s *RecipeService) storeHighlights(ctx context.Context, recipes []models.Recipe) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(recipes)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, highlightsCacheKey, payload, highlightsCacheTTL).Err(); err != nil {
		log.Printf("[RecipeService] highlights cache write failed: %v", err)
	}
}

func (s *RecipeService) invalidateHighlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, highlightsCacheKey).Err(); err != nil {
		log.Printf("[RecipeService] highlights cache invalidation failed: %v", err)
	}
}
