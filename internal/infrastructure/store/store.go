package store

import (
	"context"
	"fmt"

	"diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/infrastructure/config"
)

// Store 文件庫抽象
// 推薦管線只讀；爬蟲/回填批次走 Put/Merge。
// Search 是跨欄位 OR 的 token 比對（任一 token 出現在任一檢索欄位即為候選），
// 結果數以 limit 封頂、依文件鍵升冪排序（輸出才可重現）。
// tokens 為空時回傳集合內全部文件（批次掃描用）。
type Store interface {
	// Get 以 id 取單一文件；不存在時回傳 common.ErrDocumentNotFound
	Get(ctx context.Context, collection, id string) (*recipe.Document, error)
	// Put 以文件鍵 upsert
	Put(ctx context.Context, collection string, doc *recipe.Document) error
	// Merge 盡力而為的欄位補寫；不存在時回傳 common.ErrDocumentNotFound
	Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// Search 跨欄位 OR token 比對，無標題的文件一律跳過
	Search(ctx context.Context, collection string, tokens []string, limit int) ([]*recipe.Document, error)
	// Ping 健康檢查
	Ping(ctx context.Context) error
	// Close 釋放連線
	Close() error
}

// New 依設定建立文件庫
func New(cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}
