package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"diet-recipe-api/internal/core/recipe"
	"diet-recipe-api/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 行程內文件庫
// 零設定的開發/測試預設；文件以 JSON 複本存放，避免呼叫端共享可變狀態
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryStore 創建記憶體文件庫
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string][]byte),
	}
}

// Get 以 id 取單一文件
func (m *MemoryStore) Get(ctx context.Context, collection, id string) (*recipe.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collection]
	if !ok {
		return nil, common.ErrDocumentNotFound
	}
	raw, ok := col[id]
	if !ok {
		return nil, common.ErrDocumentNotFound
	}
	return decodeDocument(raw)
}

// Put 以文件鍵 upsert
func (m *MemoryStore) Put(ctx context.Context, collection string, doc *recipe.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		col = make(map[string][]byte)
		m.collections[collection] = col
	}
	col[doc.Key()] = raw
	return nil
}

// Merge 盡力而為的欄位補寫：讀出 → 覆寫指定欄位 → 存回
func (m *MemoryStore) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collection]
	if !ok {
		return common.ErrDocumentNotFound
	}
	raw, ok := col[id]
	if !ok {
		return common.ErrDocumentNotFound
	}

	merged, err := mergeFields(raw, fields)
	if err != nil {
		return err
	}
	col[id] = merged
	return nil
}

// Search 跨欄位 OR token 比對，id 升冪、limit 封頂
func (m *MemoryStore) Search(ctx context.Context, collection string, tokens []string, limit int) ([]*recipe.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col := m.collections[collection]
	ids := make([]string, 0, len(col))
	for id := range col {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*recipe.Document
	for _, id := range ids {
		if limit > 0 && len(out) >= limit {
			break
		}
		doc, err := decodeDocument(col[id])
		if err != nil {
			common.LogWarn("文件解析失敗，跳過",
				zap.String("collection", collection),
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}
		if !doc.Eligible() {
			// 連標題都沒有的文件不進候選池
			common.LogDebug("無標題文件跳過", zap.String("id", id))
			continue
		}
		if matchesAny(doc, tokens) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Ping 健康檢查（記憶體庫恆為可用）
func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close 釋放資源
func (m *MemoryStore) Close() error { return nil }

func decodeDocument(raw []byte) (*recipe.Document, error) {
	var doc recipe.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func mergeFields(raw []byte, fields map[string]interface{}) ([]byte, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	for k, v := range fields {
		obj[k] = v
	}
	return json.Marshal(obj)
}

// matchesAny 任一 token 出現在任一檢索欄位即為候選
// 精準度交給後段評分，這裡刻意從寬
func matchesAny(doc *recipe.Document, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	text := doc.SearchText()
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}
