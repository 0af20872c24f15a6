package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	recipeService "diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/infrastructure/store"
	"diet-recipe-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, recipeService.CollectionRecipes, &recipeService.Document{
		ID:    "chips",
		Title: "바삭 감자칩",
		Tags:  []string{"감자", "간식"},
		Ingredients: recipeService.IngredientField{
			NormKo: []string{"감자"},
		},
	}))

	svc := recipeService.NewRecommendService(st, 400, 12)
	router := gin.New()
	router.POST("/recommend", HandleRecommend(svc))
	router.GET("/recipes/:id", HandleDetail(svc))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleRecommend_OK(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/recommend", RecommendRequest{Ingredients: []string{"감자 2개"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, []string{"감자"}, resp.Tokens)
	assert.Empty(t, resp.Reason)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "바삭 감자칩", resp.Items[0].Title)
}

func TestHandleRecommend_EmptyIngredients(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/recommend", map[string]interface{}{"ingredients": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRecommend_MalformedBody(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/recommend", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRecommend_NoUsableIngredients(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/recommend", RecommendRequest{Ingredients: []string{"소금", "물"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, "no_usable_ingredients", resp.Reason)
}

func TestHandleRecommend_NoMatches(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/recommend", RecommendRequest{Ingredients: []string{"토마토"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, "no_matches", resp.Reason)
}

func TestHandleDetail_OK(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/recipes/chips", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var card recipeService.RecipeCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.Equal(t, "바삭 감자칩", card.Title)
}

func TestHandleDetail_NotFound(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/recipes/no-such-id", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
