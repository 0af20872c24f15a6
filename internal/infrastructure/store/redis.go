package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/infrastructure/config"
	"diet-recipe-api/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore Redis 文件庫
// 每份文件一個 key（doc:<collection>:<id>，值為 JSON），
// Search 以 SCAN 掃描集合前綴後在客戶端比對。
// 這是給單位數千份文件的規模用的；再大就該換倒排索引，
// 但 Store 介面的契約（OR 檢索 + 上限）在那種後端下也成立。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 創建 Redis 文件庫
func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Store.Addr,
		Password: cfg.Store.Password,
		DB:       cfg.Store.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 文件庫已連線", zap.String("addr", cfg.Store.Addr))
	return &RedisStore{client: client}, nil
}

func docKey(collection, id string) string {
	return fmt.Sprintf("doc:%s:%s", collection, id)
}

// Get 以 id 取單一文件
func (s *RedisStore) Get(ctx context.Context, collection, id string) (*recipe.Document, error) {
	raw, err := s.client.Get(ctx, docKey(collection, id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, common.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return decodeDocument(raw)
}

// Put 以文件鍵 upsert
func (s *RedisStore) Put(ctx context.Context, collection string, doc *recipe.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := s.client.Set(ctx, docKey(collection, doc.Key()), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to put document: %w", err)
	}
	return nil
}

// Merge 盡力而為的欄位補寫
func (s *RedisStore) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	key := docKey(collection, id)
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return common.ErrDocumentNotFound
		}
		return fmt.Errorf("failed to get document for merge: %w", err)
	}

	merged, err := mergeFields(raw, fields)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, merged, 0).Err(); err != nil {
		return fmt.Errorf("failed to merge document: %w", err)
	}
	return nil
}

// Search 以 SCAN 走訪集合，客戶端做 OR token 比對
func (s *RedisStore) Search(ctx context.Context, collection string, tokens []string, limit int) ([]*recipe.Document, error) {
	pattern := fmt.Sprintf("doc:%s:*", collection)

	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan collection %s: %w", collection, err)
	}
	// SCAN 順序不穩定，先排序再比對才能保證輸出可重現
	sort.Strings(keys)

	var out []*recipe.Document
	for _, key := range keys {
		if limit > 0 && len(out) >= limit {
			break
		}
		raw, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue // 掃描後被刪掉，略過
			}
			return nil, fmt.Errorf("failed to get document %s: %w", key, err)
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			common.LogWarn("文件解析失敗，跳過",
				zap.String("key", key),
				zap.Error(err),
			)
			continue
		}
		if !doc.Eligible() {
			common.LogDebug("無標題文件跳過", zap.String("key", key))
			continue
		}
		if matchesAny(doc, tokens) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Ping 健康檢查
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 釋放連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
