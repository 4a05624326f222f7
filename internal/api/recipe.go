package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipegram/backend/internal/middleware"
	"github.com/recipegram/backend/internal/service"
	"github.com/recipegram/backend/internal/types"
)

const (
	defaultPage  = 1
	defaultLimit = 5
)

type RecipeHandler struct {
	service  service.IRecipeService
	resolver middleware.PrincipalResolver
}

func NewRecipeHandler(svc service.IRecipeService, resolver middleware.PrincipalResolver) *RecipeHandler {
	return &RecipeHandler{
		service:  svc,
		resolver: resolver,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/highlights", h.Highlights)
		recipes.GET("", middleware.AuthMiddleware(h.resolver), h.Feed)
		recipes.POST("", middleware.AuthMiddleware(h.resolver), h.Create)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.resolver), h.Delete)
	}
}

// Highlights is public: the top 10 recipes by rating, newest first on ties
func (h *RecipeHandler) Highlights(c *gin.Context) {
	recipes, err := h.service.Highlights(c.Request.Context())
	if err != nil {
		log.Printf("[RecipeHandler] highlights failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, types.NewRecipeList(recipes))
}

// Feed returns one page of the reverse-chronological listing. Absent or
// non-numeric page/limit values silently fall back to 1 and 5.
func (h *RecipeHandler) Feed(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), defaultPage)
	limit := parsePositiveInt(c.Query("limit"), defaultLimit)

	recipes, err := h.service.Feed(c.Request.Context(), page, limit)
	if err != nil {
		log.Printf("[RecipeHandler] feed failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, types.NewRecipeList(recipes))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No authentication token, access denied"})
		return
	}

	recipe, err := h.service.Create(c.Request.Context(), userID.(uuid.UUID), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.NewRecipeResponse(recipe))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No authentication token, access denied"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID.(uuid.UUID), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Ownership mismatch deliberately shares 401 with bad credentials; the
// original service's contract is preserved even though a 403 would be the
// cleaner split.
func writeServiceError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
	default:
		log.Printf("[RecipeHandler] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func parsePositiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
