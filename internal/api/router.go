package api

import (
	"context"
	"net/http"
	"time"

	crawlHandler "diet-recipe-api/internal/api/handlers/crawl"
	"diet-recipe-api/internal/api/handlers/health"
	recipeHandler "diet-recipe-api/internal/api/handlers/recipe"
	"diet-recipe-api/internal/api/middleware"
	"diet-recipe-api/internal/core/crawler"
	recipeService "diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/core/vision"
	"diet-recipe-api/internal/infrastructure/config"
	"diet-recipe-api/internal/infrastructure/store"
	"diet-recipe-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置（含影像辨識上游呼叫）
	timeoutDuration = 120 * time.Second
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, st store.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Image.MaxSizeBytes))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 初始化服務
	recommendSvc := recipeService.NewRecommendService(st, cfg.Recommend.PoolCap, cfg.Recommend.TopK)
	visionSvc := vision.NewService(cfg)
	seeder := crawler.NewSeeder(crawler.NewCrawler(cfg), st, cfg.Crawler.PageDelay, cfg.Crawler.MaxPages)

	common.LogInfo("Services initialized",
		zap.Bool("vision_ready", visionSvc.Ready()),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Int("pool_cap", cfg.Recommend.PoolCap),
		zap.Int("top_k", cfg.Recommend.TopK),
	)

	// 全局中間件：設置超時和配置
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck(st))
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		photoGroup := api.Group("/photo")
		{
			// 文字食材推薦
			photoGroup.POST("/recommend", recipeHandler.HandleRecommend(recommendSvc))

			// 圖片上傳 → 辨識 → 推薦
			photoGroup.POST("/recommend/upload", recipeHandler.HandleRecommendUpload(recommendSvc, visionSvc, cfg))
		}

		// 完整卡片詳情
		api.GET("/recipes/:id", recipeHandler.HandleDetail(recommendSvc))

		crawlGroup := api.Group("/crawl")
		{
			crawlGroup.POST("/seed", crawlHandler.HandleSeed(seeder))
			crawlGroup.POST("/batch-seed", crawlHandler.HandleBatchSeed(seeder))
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Image.MaxSizeBytes),
	)

	return router, nil
}
