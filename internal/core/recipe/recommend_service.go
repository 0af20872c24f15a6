package recipe

import (
	"context"
	"errors"
	"time"

	"diet-recipe-api/internal/pkg/common"

	"go.uber.org/zap"
)

// DocumentStore 推薦管線相依的文件庫切面
// 具體實作在 infrastructure/store（明確注入，不用全域連線）
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Put(ctx context.Context, collection string, doc *Document) error
	Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Search(ctx context.Context, collection string, tokens []string, limit int) ([]*Document, error)
}

// RecommendService 推薦服務
// 無狀態、請求範圍的計算：正規化 → 檢索 → 評分 → 投影
type RecommendService struct {
	store      DocumentStore
	normalizer *Normalizer
	poolCap    int
	topK       int
}

// NewRecommendService 創建推薦服務
func NewRecommendService(st DocumentStore, poolCap, topK int) *RecommendService {
	return &RecommendService{
		store:      st,
		normalizer: NewNormalizer(),
		poolCap:    poolCap,
		topK:       topK,
	}
}

// Recommend 原始食材名稱 → 排序後的精簡卡片
// 回傳正規化後的 token 一併給呼叫端：token 為空（全是停用詞或
// 什麼都沒抽到）時不碰文件庫就回空結果，呼叫端據此回應
// 「無法辨識可用食材」而不是「查無結果」
func (s *RecommendService) Recommend(ctx context.Context, rawNames []string, topK int) ([]RecipeCard, []string, error) {
	tokens := s.normalizer.Normalize(rawNames)
	if len(tokens) == 0 {
		return []RecipeCard{}, tokens, nil
	}
	if topK <= 0 {
		topK = s.topK
	}

	// 先查已物化的卡片集合，沒有命中再退回原始食譜集合
	docs, err := s.store.Search(ctx, CollectionCards, tokens, s.poolCap)
	if err != nil {
		return nil, tokens, common.WrapError(common.ErrStoreUnavailable, err)
	}
	if len(docs) == 0 {
		docs, err = s.store.Search(ctx, CollectionRecipes, tokens, s.poolCap)
		if err != nil {
			return nil, tokens, common.WrapError(common.ErrStoreUnavailable, err)
		}
	}

	ranked := Rank(docs, tokens, topK)

	cards := make([]RecipeCard, 0, len(ranked))
	for _, doc := range ranked {
		cards = append(cards, ProjectCard(doc, ModeCompact))
	}

	common.LogInfo("推薦完成",
		zap.Int("tokens", len(tokens)),
		zap.Int("candidates", len(docs)),
		zap.Int("cards", len(cards)),
	)
	return cards, tokens, nil
}

// CardDetail 以 id 取完整卡片
// 解析鏈：卡片集合 → 原始食譜集合；兩邊都沒有就是 NotFound。
// 原始文件帶完整資料而物化卡片沒有時，順手盡力補寫回卡片文件
// （絕不阻塞讀取路徑，失敗只記 log）
func (s *RecommendService) CardDetail(ctx context.Context, id string) (*RecipeCard, error) {
	doc, err := s.store.Get(ctx, CollectionCards, id)
	fromCards := err == nil
	if err != nil {
		if !errors.Is(err, common.ErrDocumentNotFound) {
			return nil, common.WrapError(common.ErrStoreUnavailable, err)
		}
		doc, err = s.store.Get(ctx, CollectionRecipes, id)
		if err != nil {
			if errors.Is(err, common.ErrDocumentNotFound) {
				return nil, common.ErrRecipeNotFound
			}
			return nil, common.WrapError(common.ErrStoreUnavailable, err)
		}
	}

	if fromCards && !doc.HasFullData() {
		s.backfillFullFields(doc)
	}

	card := ProjectCard(doc, ModeFull)
	return &card, nil
}

// backfillFullFields 從原始食譜文件補寫完整欄位到物化卡片
// 背景執行、自帶逾時，成敗都不影響本次讀取
func (s *RecommendService) backfillFullFields(cardDoc *Document) {
	id := cardDoc.Key()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		src, err := s.store.Get(ctx, CollectionRecipes, id)
		if err != nil || !src.HasFullData() {
			return
		}
		fields := map[string]interface{}{}
		if len(src.StepsFull) > 0 {
			fields["steps_full"] = src.StepsFull
		} else if len(src.Steps) > 0 {
			fields["steps_full"] = src.Steps
		}
		if len(src.IngredientsFull) > 0 {
			fields["ingredients_full"] = src.IngredientsFull
		}
		if len(fields) == 0 {
			return
		}
		if err := s.store.Merge(ctx, CollectionCards, id, fields); err != nil {
			common.LogWarn("卡片完整欄位補寫失敗",
				zap.String("id", id),
				zap.Error(err),
			)
		}
	}()
}

// MaterializeCard 將原始文件物化為可入庫的卡片文件（回填批次用）
// 精簡投影寫入顯示欄位，完整步驟/食材原樣保留，詳情頁才不用回查原始文件
func MaterializeCard(doc *Document) *Document {
	card := ProjectCard(doc, ModeCompact)

	out := &Document{
		ID:           card.ID,
		URL:          doc.URL,
		Title:        card.Title,
		Subtitle:     card.Subtitle,
		Summary:      card.Variants[0].Summary,
		ImageURL:     card.ImageURL,
		Tags:         card.Tags,
		Chips:        card.Variants[0].KeyIngredients,
		StepsCompact: card.Variants[0].Steps,
		Source:       doc.Source,
	}
	if len(doc.StepsFull) > 0 {
		out.StepsFull = doc.StepsFull
	} else if len(doc.Steps) > 0 {
		out.StepsFull = doc.Steps
	}
	if full := doc.Ingredients.Display(); len(full) > 0 {
		out.IngredientsFull = full
	}
	if len(doc.Ingredients.NormKo) > 0 {
		out.Ingredients = IngredientField{NormKo: doc.Ingredients.NormKo}
	}
	return out
}
