package crawler

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/pkg/common"

	"go.uber.org/zap"
)

// recipeIDPattern 詳情頁 URL 中的站內編號
var recipeIDPattern = regexp.MustCompile(`/recipe/(\d+)`)

// Seeder 爬蟲 → 文件庫的攝取流程
type Seeder struct {
	crawler    *Crawler
	store      recipe.DocumentStore
	normalizer *recipe.Normalizer
	pageDelay  time.Duration
	maxPages   int
}

// NewSeeder 創建攝取器
func NewSeeder(c *Crawler, st recipe.DocumentStore, pageDelay time.Duration, maxPages int) *Seeder {
	return &Seeder{
		crawler:    c,
		store:      st,
		normalizer: recipe.NewNormalizer(),
		pageDelay:  pageDelay,
		maxPages:   maxPages,
	}
}

// SeedQuery 以關鍵字搜尋並逐頁攝取，回傳成功入庫筆數
// 單頁/單篇失敗記 log 後繼續，整批不因個別頁面中斷
func (s *Seeder) SeedQuery(ctx context.Context, query string, pages int) (int, error) {
	if pages <= 0 || pages > s.maxPages {
		pages = s.maxPages
	}

	total := 0
	for page := 1; page <= pages; page++ {
		links, err := s.crawler.SearchLinks(ctx, query, page)
		if err != nil {
			common.LogWarn("搜尋頁抓取失敗",
				zap.String("query", query),
				zap.Int("page", page),
				zap.Error(err),
			)
			continue
		}
		if len(links) == 0 {
			break
		}

		for _, link := range links {
			if err := ctx.Err(); err != nil {
				return total, err
			}
			if err := s.seedOne(ctx, link); err != nil {
				common.LogWarn("食譜攝取失敗",
					zap.String("url", link),
					zap.Error(err),
				)
				continue
			}
			total++
		}

		// 禮貌性翻頁間隔
		if page < pages && s.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			case <-time.After(s.pageDelay):
			}
		}
	}

	common.LogInfo("攝取完成",
		zap.String("query", query),
		zap.Int("pages", pages),
		zap.Int("stored", total),
	)
	return total, nil
}

// seedOne 抓單篇詳情頁並 upsert 進原始食譜集合
func (s *Seeder) seedOne(ctx context.Context, link string) error {
	page, err := s.crawler.FetchRecipe(ctx, link)
	if err != nil {
		return err
	}
	doc := s.buildDocument(page)
	if !doc.Eligible() {
		common.LogDebug("跳過無標題頁面", zap.String("url", link))
		return nil
	}
	return s.store.Put(ctx, recipe.CollectionRecipes, doc)
}

// buildDocument 頁面資料 → 文件，順便把食材正規化好供檢索
func (s *Seeder) buildDocument(page *PageRecipe) *recipe.Document {
	rid := extractRecipeID(page.URL)
	id := ""
	if rid != "" {
		id = "10000-" + rid
	}

	doc := &recipe.Document{
		ID:       id,
		URL:      page.URL,
		Title:    strings.TrimSpace(page.Title),
		Summary:  strings.TrimSpace(page.Description),
		ImageURL: page.ImageURL,
		Tags:     page.Tags,
		Ingredients: recipe.IngredientField{
			Raw:    page.Ingredients,
			NormKo: s.normalizer.Normalize(page.Ingredients),
		},
		StepsFull: page.Steps,
		Source: &recipe.Source{
			Site:     "10000recipe",
			URL:      page.URL,
			Domain:   hostOf(page.URL),
			RecipeID: rid,
		},
	}
	if len(page.Ingredients) > 0 {
		doc.IngredientsFull = page.Ingredients
	}
	return doc
}

func extractRecipeID(pageURL string) string {
	m := recipeIDPattern.FindStringSubmatch(pageURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Host
}
