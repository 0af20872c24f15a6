package recipe

import (
	"regexp"
	"strings"
)

// CardMode 卡片投影模式
type CardMode int

const (
	// ModeCompact 清單用精簡卡：固定上限，長度可預期
	ModeCompact CardMode = iota
	// ModeFull 詳情用完整卡：仍做噪音清理，但不截斷
	ModeFull
)

// RecipeCard 顯示用卡片投影
// 永遠由 Document 推導而來，不是資料的真身
type RecipeCard struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	ImageURL string        `json:"imageUrl,omitempty"`
	Tags     []string      `json:"tags"`
	Variants []CardVariant `json:"variants"`
	Source   *Source       `json:"source,omitempty"`
}

// CardVariant 卡片變體
type CardVariant struct {
	Name           string   `json:"name"`
	KeyIngredients []string `json:"key_ingredients"`
	Summary        string   `json:"summary"`
	Steps          []string `json:"steps"`
}

// ProjectCard 將原始文件投影為顯示卡片
func ProjectCard(doc *Document, mode CardMode) RecipeCard {
	compact := mode == ModeCompact

	// 標籤：候選 = 文件標籤 + chips，一律過控制詞彙表
	tagCandidates := append(append([]string{}, doc.Tags...), doc.Chips...)
	maxTags := 0 // 完整模式不截斷，但仍只留詞彙表標籤
	if compact {
		maxTags = MaxTags
	}
	tags := CurateTags(tagCandidates, maxTags)

	// 摘要：summary/description → 沒有就用副標
	summary := doc.SummaryText()
	if summary == "" {
		summary = doc.Subtitle
	}
	rawSummary := summary
	if compact {
		summary = Clip(summary, MaxSummary)
	} else {
		summary = Clip(summary, 0) // 只攤平換行，不截斷
	}

	// 步驟：依優先序取來源欄位後清噪音；清完全空則合成保底三行
	steps := Sanitize(doc.StepLines())
	if len(steps) == 0 {
		steps = fallbackSteps(rawSummary, doc.Title)
	}
	if compact {
		if len(steps) > MaxStepLines {
			steps = steps[:MaxStepLines]
		}
		for i, s := range steps {
			steps[i] = Clip(s, MaxStepText)
		}
	}

	// key_ingredients：文件給的 chips 優先，否則從主食材詞彙推導
	chips := resolveKeyIngredients(doc)
	if compact && len(chips) > MaxKeyIngredients {
		chips = chips[:MaxKeyIngredients]
	}

	subtitle := doc.Subtitle
	if subtitle == "" {
		subtitle = "간단 요약"
	}

	return RecipeCard{
		ID:       doc.Key(),
		Title:    doc.Title,
		Subtitle: subtitle,
		ImageURL: doc.ImageRef(),
		Tags:     tags,
		Source:   doc.Source,
		Variants: []CardVariant{{
			Name:           "기본",
			KeyIngredients: chips,
			Summary:        summary,
			Steps:          steps,
		}},
	}
}

// resolveKeyIngredients chips 優先；否則掃描主食材詞彙是否出現在
// 食材文字或標題（原始資料常只在標題提到主食材）
func resolveKeyIngredients(doc *Document) []string {
	if len(doc.Chips) > 0 {
		return append([]string{}, doc.Chips...)
	}

	haystack := doc.IngredientText() + " " + doc.Title + " " + doc.TagText()
	var chips []string
	for _, name := range MainIngredientVocabulary() {
		if strings.Contains(haystack, name) {
			chips = append(chips, name)
		}
	}
	return chips
}

var phrasePattern = regexp.MustCompile(`[.!?。\n]+`)

// 保底步驟模板（原始步驟完全被噪音過濾掉時使用）
var fallbackTemplate = []string{
	"재료를 손질해 한입 크기로 준비한다.",
	"중불에서 속까지 익을 때까지 조리한다.",
	"소금·후추 또는 취향의 시즈닝으로 마무리한다.",
}

// fallbackSteps 從摘要與標題斷句合成三行保底步驟
// 卡片永遠要顯示點什麼，不能開天窗
func fallbackSteps(summary, title string) []string {
	var out []string
	for _, p := range phrasePattern.Split(summary+" "+title, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
		if len(out) >= MaxStepLines {
			return out
		}
	}
	for _, t := range fallbackTemplate {
		if len(out) >= MaxStepLines {
			break
		}
		out = append(out, t)
	}
	return out
}
