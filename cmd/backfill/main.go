package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/infrastructure/config"
	"diet-recipe-api/internal/infrastructure/store"
	"diet-recipe-api/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// 批次工具：掃原始食譜集合，物化精簡卡片寫進卡片集合
// 推薦路徑讀卡片集合就不必每次重算投影
func main() {
	limit := flag.Int("limit", 0, "最多處理幾筆原始食譜（0 = 全部）")
	timeout := flag.Duration("timeout", 10*time.Minute, "整批逾時")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	st, err := store.New(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize document store", zap.Error(err))
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	docs, err := st.Search(ctx, recipe.CollectionRecipes, nil, *limit)
	if err != nil {
		common.LogFatal("原始食譜掃描失敗", zap.Error(err))
	}

	var written, skipped, failed int
	for _, doc := range docs {
		if !doc.Eligible() {
			skipped++
			continue
		}
		card := recipe.MaterializeCard(doc)
		if err := st.Put(ctx, recipe.CollectionCards, card); err != nil {
			failed++
			common.LogWarn("卡片寫入失敗",
				zap.String("id", doc.Key()),
				zap.Error(err),
			)
			continue
		}
		written++
	}

	common.LogInfo("卡片回填完成",
		zap.Int("scanned", len(docs)),
		zap.Int("written", written),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	fmt.Printf("scanned=%d written=%d skipped=%d failed=%d\n", len(docs), written, skipped, failed)
}
