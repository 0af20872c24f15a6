package recipe

import (
	"sort"
	"strings"
)

// 欄位權重：標題 > 標籤/chips > 食材 > 摘要
// 加上資料品質補正：帶完整步驟/食材的文件小幅加分（不是相關性訊號）
const (
	weightTitle      = 3.0
	weightTags       = 2.0
	weightIngredient = 1.2
	weightSummary    = 0.5
	fullDataBonus    = 0.2
)

// ScoredCandidate 評分中間結果，排序取完即丟
type ScoredCandidate struct {
	Doc        *Document
	Score      float64
	MatchedAll bool
}

// Rank 對候選文件評分並排序，回傳前 topK 個
// matchedAll（查詢 token 全部命中）的文件一律排在部分命中之前：
// 使用者給了多樣食材，就是想先看全用上的食譜，但部分命中也要露出
// 而不是空手而回。候選為空就回空，不做無關補位。
func Rank(candidates []*Document, tokens []string, topK int) []*Document {
	if len(candidates) == 0 || len(tokens) == 0 {
		return nil
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, d := range candidates {
		if !d.Eligible() {
			continue
		}
		score, matchedAll := scoreDocument(d, tokens)
		scored = append(scored, ScoredCandidate{Doc: d, Score: score, MatchedAll: matchedAll})
	}

	// matchedAll 分區優先；區內分數降冪；同分用文件鍵升冪，讓輸出可重現
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.MatchedAll != b.MatchedAll {
			return a.MatchedAll
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Doc.Key() < b.Doc.Key()
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	out := make([]*Document, len(scored))
	for i, s := range scored {
		out[i] = s.Doc
	}
	return out
}

// scoreDocument 單一文件的加權命中分數與 matchedAll 判定
func scoreDocument(d *Document, tokens []string) (float64, bool) {
	title := strings.ToLower(d.Title)
	tagText := strings.ToLower(d.TagText())
	ingText := strings.ToLower(d.IngredientText())
	sumText := strings.ToLower(d.SummaryText())
	allText := d.SearchText()

	var score float64
	matchedAll := true
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			score += weightTitle
		}
		if strings.Contains(tagText, tok) {
			score += weightTags
		}
		if strings.Contains(ingText, tok) {
			score += weightIngredient
		}
		if strings.Contains(sumText, tok) {
			score += weightSummary
		}
		if !strings.Contains(allText, tok) {
			matchedAll = false
		}
	}

	if d.HasFullData() {
		score += fullDataBonus
	}
	return score, matchedAll
}
