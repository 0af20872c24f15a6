package crawl

import (
	"net/http"
	"strconv"
	"strings"

	"diet-recipe-api/internal/core/crawler"
	"diet-recipe-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SeedResponse 單一關鍵字攝取結果
type SeedResponse struct {
	Query  string `json:"query"`
	Pages  int    `json:"pages"`
	Stored int    `json:"stored"`
}

// BatchSeedRequest 批次攝取請求
type BatchSeedRequest struct {
	Queries []string `json:"queries" binding:"required"`
	Pages   int      `json:"pages,omitempty"`
}

// BatchSeedResponse 批次攝取結果
type BatchSeedResponse struct {
	Results     []SeedResponse `json:"results"`
	TotalStored int            `json:"total_stored"`
}

// HandleSeed 處理 POST /crawl/seed?q=감자&pages=2
func HandleSeed(seeder *crawler.Seeder) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = common.GenerateUUID()
			c.Header("X-Request-ID", requestID)
		}

		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
			return
		}
		pages, _ := strconv.Atoi(c.DefaultQuery("pages", "1"))

		stored, err := seeder.SeedQuery(c.Request.Context(), query, pages)
		if err != nil {
			common.LogError("攝取中斷",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("query", query),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Seeding failed", "stored": stored})
			return
		}

		c.JSON(http.StatusOK, SeedResponse{
			Query:  query,
			Pages:  pages,
			Stored: stored,
		})
	}
}

// HandleBatchSeed 處理 POST /crawl/batch-seed
// 逐一執行，單一關鍵字失敗記 log 後繼續
func HandleBatchSeed(seeder *crawler.Seeder) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = common.GenerateUUID()
			c.Header("X-Request-ID", requestID)
		}

		var req BatchSeedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
		if len(req.Queries) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "queries must not be empty"})
			return
		}

		resp := BatchSeedResponse{Results: make([]SeedResponse, 0, len(req.Queries))}
		for _, query := range req.Queries {
			query = strings.TrimSpace(query)
			if query == "" {
				continue
			}
			stored, err := seeder.SeedQuery(c.Request.Context(), query, req.Pages)
			if err != nil {
				common.LogWarn("批次攝取單項失敗",
					zap.Error(err),
					zap.String("request_id", requestID),
					zap.String("query", query),
				)
			}
			resp.Results = append(resp.Results, SeedResponse{
				Query:  query,
				Pages:  req.Pages,
				Stored: stored,
			})
			resp.TotalStored += stored
		}

		c.JSON(http.StatusOK, resp)
	}
}
