package recipe_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/infrastructure/store"
	"diet-recipe-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func seedStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()

	docs := []*recipe.Document{
		{
			ID:    "chips",
			Title: "바삭 감자칩",
			Tags:  []string{"감자", "팬프라이", "바삭함"},
			Ingredients: recipe.IngredientField{
				NormKo: []string{"감자", "식용유"},
			},
			StepsFull: []string{"감자를 얇게 썬다", "팬에 굽는다"},
		},
		{
			ID:    "soup",
			Title: "된장국",
			Ingredients: recipe.IngredientField{
				NormKo: []string{"두부", "대파"},
			},
		},
		{
			ID:    "pancake",
			Title: "감자전",
			Ingredients: recipe.IngredientField{
				NormKo: []string{"감자", "달걀"},
			},
		},
	}
	for _, d := range docs {
		require.NoError(t, st.Put(ctx, recipe.CollectionRecipes, d))
	}
	return st
}

func TestRecommend_EndToEnd(t *testing.T) {
	svc := recipe.NewRecommendService(seedStore(t), 400, 12)

	cards, tokens, err := svc.Recommend(context.Background(), []string{"감자 2개"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"감자"}, tokens)
	require.Len(t, cards, 2)

	// 標題命中且帶完整資料的排最前
	assert.Equal(t, "chips", cards[0].ID)
	assert.Equal(t, "pancake", cards[1].ID)
}

func TestRecommend_TwoTokenPool(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, recipe.CollectionRecipes, &recipe.Document{
		ID: "a", Title: "감자 양파 볶음",
	}))
	require.NoError(t, st.Put(ctx, recipe.CollectionRecipes, &recipe.Document{
		ID:          "b",
		Title:       "어묵볶음",
		Ingredients: recipe.IngredientField{NormKo: []string{"감자"}},
	}))
	require.NoError(t, st.Put(ctx, recipe.CollectionRecipes, &recipe.Document{
		ID: "c", Title: "미역국",
	}))

	svc := recipe.NewRecommendService(st, 400, 12)
	cards, _, err := svc.Recommend(ctx, []string{"감자", "양파"}, 0)
	require.NoError(t, err)

	// 兩個 token 都命中的排最前；完全不命中的不出現
	require.Len(t, cards, 2)
	assert.Equal(t, "a", cards[0].ID)
	assert.Equal(t, "b", cards[1].ID)
}

func TestRecommend_LimitApplied(t *testing.T) {
	svc := recipe.NewRecommendService(seedStore(t), 400, 12)

	cards, _, err := svc.Recommend(context.Background(), []string{"감자"}, 1)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestRecommend_NoMatches(t *testing.T) {
	svc := recipe.NewRecommendService(seedStore(t), 400, 12)

	cards, tokens, err := svc.Recommend(context.Background(), []string{"토마토"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"토마토"}, tokens)
	assert.Empty(t, cards)
}

// failingStore 任何呼叫都讓測試失敗：驗證空 token 短路不碰文件庫
type failingStore struct {
	t *testing.T
}

func (f *failingStore) Get(ctx context.Context, collection, id string) (*recipe.Document, error) {
	f.t.Fatal("store must not be contacted")
	return nil, nil
}

func (f *failingStore) Put(ctx context.Context, collection string, doc *recipe.Document) error {
	f.t.Fatal("store must not be contacted")
	return nil
}

func (f *failingStore) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	f.t.Fatal("store must not be contacted")
	return nil
}

func (f *failingStore) Search(ctx context.Context, collection string, tokens []string, limit int) ([]*recipe.Document, error) {
	f.t.Fatal("store must not be contacted")
	return nil, nil
}

func TestRecommend_EmptyTokensShortCircuit(t *testing.T) {
	svc := recipe.NewRecommendService(&failingStore{t: t}, 400, 12)

	cards, tokens, err := svc.Recommend(context.Background(), []string{"소금", "물", "!!!"}, 0)
	require.NoError(t, err)
	assert.Empty(t, tokens)
	assert.Empty(t, cards)
}

func TestCardDetail_FallsBackToRecipes(t *testing.T) {
	svc := recipe.NewRecommendService(seedStore(t), 400, 12)

	card, err := svc.CardDetail(context.Background(), "pancake")
	require.NoError(t, err)
	assert.Equal(t, "pancake", card.ID)
	assert.Equal(t, "감자전", card.Title)
}

func TestCardDetail_PrefersCardCollection(t *testing.T) {
	st := seedStore(t)
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, recipe.CollectionCards, &recipe.Document{
		ID:    "pancake",
		Title: "감자전 카드",
	}))

	svc := recipe.NewRecommendService(st, 400, 12)
	card, err := svc.CardDetail(ctx, "pancake")
	require.NoError(t, err)
	assert.Equal(t, "감자전 카드", card.Title)
}

func TestCardDetail_NotFound(t *testing.T) {
	svc := recipe.NewRecommendService(seedStore(t), 400, 12)

	_, err := svc.CardDetail(context.Background(), "no-such-id")
	assert.True(t, errors.Is(err, common.ErrRecipeNotFound))
}
