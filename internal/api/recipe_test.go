package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipegram/backend/internal/api"
	"github.com/recipegram/backend/internal/database"
	"github.com/recipegram/backend/internal/mocks"
	"github.com/recipegram/backend/internal/models"
	"github.com/recipegram/backend/internal/repository"
	"github.com/recipegram/backend/internal/router"
	"github.com/recipegram/backend/internal/service"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	assets *mocks.MockAssetStore
	auth   *service.AuthService
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	assets := new(mocks.MockAssetStore)
	repo := repository.NewRecipeRepository(db)
	authService := service.NewAuthService(repo, "test-secret")
	recipeService := service.NewRecipeService(repo, assets, nil)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService, authService),
	)

	return &testApp{router: engine, db: db, assets: assets, auth: authService}
}

func (app *testApp) registerUser(t *testing.T, username string) string {
	t.Helper()

	token, err := app.auth.Register(context.Background(), username, username+"@example.com", "hunter22")
	require.NoError(t, err)
	return token
}

func (app *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func validRecipeBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Soup",
		"caption":     "Warm",
		"image":       "data:image/png;base64,AAAA",
		"rating":      3,
		"ingredients": []string{"water", "salt"},
	}
}

func TestFeedRequiresAuth(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "No authentication token, access denied", body["message"])
}

func TestHighlightsIsPublic(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/recipes/highlights", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCreateRecipeEndpoint(t *testing.T) {
	app := setupTestApp(t)
	token := app.registerUser(t, "chef")

	app.assets.On("Upload", mock.Anything, "data:image/png;base64,AAAA", "recipes").
		Return(&service.AssetRef{URL: "https://bucket.s3.amazonaws.com/recipes/abc", ID: "recipes/abc"}, nil)

	w := app.do(t, http.MethodPost, "/api/recipes", token, validRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Soup", created["title"])
	assert.Equal(t, "Warm", created["caption"])
	assert.Equal(t, "https://bucket.s3.amazonaws.com/recipes/abc", created["image"])
	assert.EqualValues(t, 3, created["rating"])
	assert.Equal(t, []interface{}{"water", "salt"}, created["ingredients"])
	assert.Contains(t, created, "createdAt")
	assert.Contains(t, created, "updatedAt")

	user, ok := created["user"].(map[string]interface{})
	require.True(t, ok, "response must embed the owner")
	assert.Equal(t, "chef", user["username"])
}

func TestCreateRecipeEndpointValidation(t *testing.T) {
	app := setupTestApp(t)
	token := app.registerUser(t, "chef")

	tests := []struct {
		name    string
		mutate  func(map[string]interface{})
		message string
	}{
		{
			"missing rating",
			func(b map[string]interface{}) { delete(b, "rating") },
			"Please provide all fields (title, caption, image, rating)",
		},
		{
			"null rating",
			func(b map[string]interface{}) { b["rating"] = nil },
			"Please provide all fields (title, caption, image, rating)",
		},
		{
			"rating out of range",
			func(b map[string]interface{}) { b["rating"] = 6 },
			"Rating must be a number between 1 and 5",
		},
		{
			"image not a data URL",
			func(b map[string]interface{}) { b["image"] = "https://example.com/cat.png" },
			"Image must be a base64 data URL (data:image/...;base64,...)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validRecipeBody()
			tt.mutate(body)

			w := app.do(t, http.MethodPost, "/api/recipes", token, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp["message"])
		})
	}

	app.assets.AssertNumberOfCalls(t, "Upload", 0)
}

func TestCreateRecipeUpstreamFailureIsGeneric(t *testing.T) {
	app := setupTestApp(t)
	token := app.registerUser(t, "chef")

	app.assets.On("Upload", mock.Anything, mock.Anything, "recipes").
		Return(nil, fmt.Errorf("bucket policy denied: secret detail"))

	w := app.do(t, http.MethodPost, "/api/recipes", token, validRecipeBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret detail")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp["message"])
}

func TestDeleteRecipeEndpoint(t *testing.T) {
	app := setupTestApp(t)
	ownerToken := app.registerUser(t, "owner")
	intruderToken := app.registerUser(t, "intruder")

	app.assets.On("Upload", mock.Anything, mock.Anything, "recipes").
		Return(&service.AssetRef{URL: "https://bucket.s3.amazonaws.com/recipes/abc", ID: "recipes/abc"}, nil)
	app.assets.On("Hosts", "https://bucket.s3.amazonaws.com/recipes/abc").Return(true)
	app.assets.On("Destroy", mock.Anything, "recipes/abc").Return(nil)

	w := app.do(t, http.MethodPost, "/api/recipes", ownerToken, validRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"].(string)

	// non-owner is rejected and the record stays
	w = app.do(t, http.MethodDelete, "/api/recipes/"+id, intruderToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// owner succeeds
	w = app.do(t, http.MethodDelete, "/api/recipes/"+id, ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// second delete is a clean 404
	w = app.do(t, http.MethodDelete, "/api/recipes/"+id, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	app.assets.AssertNumberOfCalls(t, "Destroy", 1)
}

type nopResolver struct{}

func (nopResolver) ResolvePrincipal(ctx context.Context, token string) (*models.User, error) {
	return nil, fmt.Errorf("token is not valid")
}

func TestHighlightsInternalErrorIsGeneric(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(mocks.MockRecipeService)
	svc.On("Highlights", mock.Anything).Return(nil, fmt.Errorf("driver: bad connection"))

	engine := gin.New()
	api.NewRecipeHandler(svc, nopResolver{}).RegisterRoutes(engine.Group("/api"))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/highlights", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "bad connection", "driver detail must not leak")
}

func TestFeedPaginationDefaults(t *testing.T) {
	app := setupTestApp(t)
	token := app.registerUser(t, "chef")

	app.assets.On("Upload", mock.Anything, mock.Anything, "recipes").
		Return(&service.AssetRef{URL: "https://bucket.s3.amazonaws.com/recipes/abc", ID: "recipes/abc"}, nil)

	for i := 0; i < 7; i++ {
		body := validRecipeBody()
		body["title"] = fmt.Sprintf("Recipe %d", i)
		w := app.do(t, http.MethodPost, "/api/recipes", token, body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// default limit is 5
	w := app.do(t, http.MethodGet, "/api/recipes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page, 5)

	// junk query values silently fall back to the defaults
	w = app.do(t, http.MethodGet, "/api/recipes?page=abc&limit=-3", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page, 5)

	// out-of-range page is an empty list, not an error
	w = app.do(t, http.MethodGet, "/api/recipes?page=9&limit=5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
