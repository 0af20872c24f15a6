package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/infrastructure/config"
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

const searchPageHTML = `<!DOCTYPE html>
<html><body>
<ul>
<li><a class="common_sp_link" href="/recipe/7014718">바삭 감자칩</a></li>
<li><a class="common_sp_link" href="/recipe/6880951">감자전</a></li>
<li><a class="common_sp_link" href="/recipe/7014718">바삭 감자칩 (중복)</a></li>
<li><a class="other_link" href="/recipe/999">무관한 링크</a></li>
</ul>
</body></html>`

const detailPageHTML = `<!DOCTYPE html>
<html><head>
<meta property="og:title" content="바삭 감자칩" />
<meta property="og:description" content="감자를 얇게 썰어 팬에 굽는 간식" />
<meta property="og:image" content="https://example.com/chips.jpg" />
</head><body>
<div class="ready_ingre3">
<ul>
<li>감자 2개</li>
<li>식용유 약간</li>
<li>소금 약간</li>
</ul>
</div>
<div class="view_step">
<ul>
<li>감자를 깨끗이 씻어 얇게 썬다</li>
<li>찬물에 담가 전분을 뺀다</li>
<li>팬에 올려 바삭하게 굽는다</li>
</ul>
</div>
<a href="/profile/tag/감자">#감자</a>
<a href="/profile/tag/간식">#간식</a>
<a href="/profile/tag/감자">#감자</a>
</body></html>`

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/recipe/list.html", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			http.Error(w, "missing query", http.StatusBadRequest)
			return
		}
		w.Write([]byte(searchPageHTML))
	})
	mux.HandleFunc("/recipe/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailPageHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func fixtureConfig(baseURL string) *config.Config {
	return &config.Config{
		Crawler: config.CrawlerConfig{
			BaseURL:  baseURL,
			Timeout:  5 * time.Second,
			MaxPages: 3,
		},
	}
}

func TestSearchLinks_DedupAndAbsolute(t *testing.T) {
	srv := fixtureServer(t)
	c := NewCrawler(fixtureConfig(srv.URL))

	links, err := c.SearchLinks(context.Background(), "감자", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/recipe/7014718",
		srv.URL + "/recipe/6880951",
	}, links)
}

func TestFetchRecipe_ParsesDetailPage(t *testing.T) {
	srv := fixtureServer(t)
	c := NewCrawler(fixtureConfig(srv.URL))

	page, err := c.FetchRecipe(context.Background(), srv.URL+"/recipe/7014718")
	require.NoError(t, err)

	assert.Equal(t, "바삭 감자칩", page.Title)
	assert.Equal(t, "감자를 얇게 썰어 팬에 굽는 간식", page.Description)
	assert.Equal(t, "https://example.com/chips.jpg", page.ImageURL)
	assert.Equal(t, []string{"감자 2개", "식용유 약간", "소금 약간"}, page.Ingredients)
	assert.Len(t, page.Steps, 3)
	assert.Equal(t, []string{"감자", "간식"}, page.Tags)
}

func TestSeedQuery_StoresNormalizedDocuments(t *testing.T) {
	srv := fixtureServer(t)
	st := store.NewMemoryStore()
	seeder := NewSeeder(NewCrawler(fixtureConfig(srv.URL)), st, 0, 3)

	stored, err := seeder.SeedQuery(context.Background(), "감자", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	doc, err := st.Get(context.Background(), recipe.CollectionRecipes, "10000-7014718")
	require.NoError(t, err)
	assert.Equal(t, "바삭 감자칩", doc.Title)
	assert.Equal(t, srv.URL+"/recipe/7014718", doc.URL)
	assert.Equal(t, "7014718", doc.Source.RecipeID)
	assert.Equal(t, "10000recipe", doc.Source.Site)

	// 食材同時保留原文與正規化 token；調味料已被停用詞過濾
	assert.Equal(t, []string{"감자 2개", "식용유 약간", "소금 약간"}, doc.Ingredients.Raw)
	assert.Equal(t, []string{"감자"}, doc.Ingredients.NormKo)
	assert.NotEmpty(t, doc.StepsFull)
}

func TestSeedQuery_PagesCappedByMaxPages(t *testing.T) {
	srv := fixtureServer(t)
	st := store.NewMemoryStore()
	seeder := NewSeeder(NewCrawler(fixtureConfig(srv.URL)), st, 0, 1)

	// 要求 10 頁也只會抓 maxPages=1 頁
	stored, err := seeder.SeedQuery(context.Background(), "감자", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)
}

func TestExtractRecipeID(t *testing.T) {
	assert.Equal(t, "7014718", extractRecipeID("https://www.10000recipe.com/recipe/7014718"))
	assert.Equal(t, "", extractRecipeID("https://www.10000recipe.com/profile/tag/감자"))
}
