package recipe

import (
	"io"
	"net/http"

	recipeService "diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/core/vision"
	"diet-recipe-api/internal/infrastructure/config"
	"diet-recipe-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadRecommendResponse 圖片上傳推薦回應
// 多帶辨識出的食材清單，前端可顯示「從照片看到了什麼」
type UploadRecommendResponse struct {
	Total      int                          `json:"total"`
	Recognized []vision.ExtractedIngredient `json:"recognized"`
	Tokens     []string                     `json:"tokens"`
	Items      []recipeService.RecipeCard   `json:"items"`
	Reason     string                       `json:"reason,omitempty"`
}

// HandleRecommendUpload 處理 POST /photo/recommend/upload
// multipart 欄位 "files" 可帶多張圖片，辨識結果合併後進推薦管線
func HandleRecommendUpload(svc *recipeService.RecommendService, visionSvc *vision.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = common.GenerateUUID()
			c.Header("X-Request-ID", requestID)
		}

		if !visionSvc.Ready() {
			writeUpstreamError(c, requestID, common.ErrVisionNotReady)
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			common.LogError("multipart 解析失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image file is required"})
			return
		}

		var images [][]byte
		for _, fh := range files {
			if fh.Size > cfg.Image.MaxSizeBytes {
				common.LogWarn("圖片超過大小上限",
					zap.String("request_id", requestID),
					zap.String("filename", fh.Filename),
					zap.Int64("size", fh.Size),
				)
				c.JSON(http.StatusBadRequest, gin.H{"error": "Image file too large"})
				return
			}
			f, err := fh.Open()
			if err != nil {
				common.LogError("圖片讀取失敗",
					zap.Error(err),
					zap.String("request_id", requestID),
					zap.String("filename", fh.Filename),
				)
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
				return
			}
			images = append(images, data)
		}

		recognized, err := visionSvc.ExtractIngredients(c.Request.Context(), images)
		if err != nil {
			writeUpstreamError(c, requestID, err)
			return
		}

		names := make([]string, 0, len(recognized))
		for _, ing := range recognized {
			names = append(names, ing.Name)
		}

		cards, tokens, err := svc.Recommend(c.Request.Context(), names, 0)
		if err != nil {
			common.LogError("推薦失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.Int("recognized_count", len(recognized)),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation failed"})
			return
		}

		resp := UploadRecommendResponse{
			Total:      len(cards),
			Recognized: recognized,
			Tokens:     tokens,
			Items:      cards,
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
