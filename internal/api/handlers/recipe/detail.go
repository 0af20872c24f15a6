package recipe

import (
	"errors"
	"net/http"

	recipeService "diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleDetail 處理 GET /recipes/:id 完整卡片
func HandleDetail(svc *recipeService.RecommendService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = common.GenerateUUID()
			c.Header("X-Request-ID", requestID)
		}

		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipe id is required"})
			return
		}

		card, err := svc.CardDetail(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, common.ErrRecipeNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
				return
			}
			common.LogError("卡片詳情讀取失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("id", id),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recipe"})
			return
		}

		c.JSON(http.StatusOK, card)
	}
}
