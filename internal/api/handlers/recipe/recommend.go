package recipe

import (
	"errors"
	"net/http"

	recipeService "diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecommendRequest 文字食材推薦請求
type RecommendRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"` // 原始食材名稱，可帶量詞/修飾詞
	Limit       int      `json:"limit,omitempty"`                // 可選，回傳張數上限
}

// RecommendResponse 推薦回應
// reason 只在 items 為空時出現，區分「辨識不出可用食材」與「查無結果」
type RecommendResponse struct {
	Total  int                        `json:"total"`
	Tokens []string                   `json:"tokens"`
	Items  []recipeService.RecipeCard `json:"items"`
	Reason string                     `json:"reason,omitempty"`
}

// HandleRecommend 處理 POST /photo/recommend 文字食材推薦
func HandleRecommend(svc *recipeService.RecommendService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = common.GenerateUUID()
			c.Header("X-Request-ID", requestID)
		}

		var req RecommendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.LogError("請求格式無效",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
		if len(req.Ingredients) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients must not be empty"})
			return
		}

		cards, tokens, err := svc.Recommend(c.Request.Context(), req.Ingredients, req.Limit)
		if err != nil {
			common.LogError("推薦失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.Int("ingredient_count", len(req.Ingredients)),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation failed"})
			return
		}

		resp := RecommendResponse{
			Total:  len(cards),
			Tokens: tokens,
			Items:  cards,
		}
		if len(cards) == 0 {
			if len(tokens) == 0 {
				resp.Reason = "no_usable_ingredients"
			} else {
				resp.Reason = "no_matches"
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// writeUpstreamError 影像辨識錯誤 → HTTP 狀態碼
func writeUpstreamError(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, common.ErrVisionNotReady):
		common.LogWarn("影像辨識未啟用",
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Vision service is not available"})
	case errors.Is(err, common.ErrUpstreamTransient):
		common.LogError("影像辨識上游暫時性錯誤",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Vision upstream temporarily unavailable, please retry"})
	default:
		common.LogError("影像辨識失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingredient recognition failed"})
	}
}
