package recipe

import (
	"encoding/json"
	"regexp"
	"strings"
)

// 文件集合名稱
const (
	CollectionRecipes = "recipes"
	CollectionCards   = "recipe_cards"
)

// Source 食譜出處
type Source struct {
	Site     string `json:"site,omitempty"`
	URL      string `json:"url,omitempty"`
	Domain   string `json:"domain,omitempty"`
	RecipeID string `json:"recipe_id,omitempty"`
}

// Document 食譜原始文件
// 不同攝取路徑（爬蟲、種子、舊版 backfill）留下的欄位形狀不一致，
// 這裡全部吃下來，由下方的攤平方法提供一致的檢索視圖
type Document struct {
	ID          string `json:"id,omitempty"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Image       string `json:"image,omitempty"`

	Tags  []string `json:"tags,omitempty"`
	Chips []string `json:"chips,omitempty"`

	Ingredients     IngredientField `json:"ingredients,omitempty"`
	IngredientsFull []string        `json:"ingredients_full,omitempty"`

	Steps        []string `json:"steps,omitempty"`
	StepsFull    []string `json:"steps_full,omitempty"`
	StepsCompact []string `json:"steps_compact,omitempty"`

	Source *Source `json:"source,omitempty"`
}

// IngredientField 食材欄位的變體型別
// 來源資料可能是字串陣列、單一字串、或帶 raw/norm_ko/norm_slug/list/lines 的子文件
type IngredientField struct {
	Raw      []string `json:"raw,omitempty"`
	NormKo   []string `json:"norm_ko,omitempty"`
	NormSlug []string `json:"norm_slug,omitempty"`
	List     []string `json:"list,omitempty"`
	Lines    []string `json:"lines,omitempty"`
}

// UnmarshalJSON 接受三種歷史形狀：[]string、string、子文件
func (f *IngredientField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		f.Raw = arr
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.Raw = splitLines(s)
		return nil
	default:
		// 子文件形狀：用別名型別避免遞迴呼叫
		type alias IngredientField
		var a alias
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		*f = IngredientField(a)
		return nil
	}
}

// IsEmpty 是否完全沒有食材資料
func (f IngredientField) IsEmpty() bool {
	return len(f.Raw) == 0 && len(f.NormKo) == 0 && len(f.NormSlug) == 0 &&
		len(f.List) == 0 && len(f.Lines) == 0
}

// Display 給卡片顯示用的食材行：取第一個非空的來源
func (f IngredientField) Display() []string {
	for _, src := range [][]string{f.List, f.Lines, f.Raw, f.NormKo} {
		if len(src) > 0 {
			return src
		}
	}
	return nil
}

// searchText 所有形狀合併後的檢索文字
func (f IngredientField) searchText() string {
	var parts []string
	for _, src := range [][]string{f.Raw, f.NormKo, f.NormSlug, f.List, f.Lines} {
		if len(src) > 0 {
			parts = append(parts, strings.Join(src, " "))
		}
	}
	return strings.Join(parts, " ")
}

var lineSplitPattern = regexp.MustCompile(`\s*(?:\r?\n|\r)+\s*`)

func splitLines(s string) []string {
	var out []string
	for _, p := range lineSplitPattern.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Eligible 是否可進入評分：至少要有標題
func (d *Document) Eligible() bool {
	return d != nil && strings.TrimSpace(d.Title) != ""
}

// Key 排序/去重用的識別鍵：id > url > title
func (d *Document) Key() string {
	if d.ID != "" {
		return d.ID
	}
	if d.URL != "" {
		return d.URL
	}
	return d.Title
}

// ImageRef 第一個可用的圖片欄位
func (d *Document) ImageRef() string {
	if d.ImageURL != "" {
		return d.ImageURL
	}
	return d.Image
}

// TagText 標籤加 chips 的檢索文字
func (d *Document) TagText() string {
	return strings.Join(d.Tags, " ") + " " + strings.Join(d.Chips, " ")
}

// IngredientText 所有食材形狀攤平後的檢索文字
func (d *Document) IngredientText() string {
	text := d.Ingredients.searchText()
	if len(d.IngredientsFull) > 0 {
		text += " " + strings.Join(d.IngredientsFull, " ")
	}
	return text
}

// SummaryText 摘要（summary 優先於 description）
func (d *Document) SummaryText() string {
	if d.Summary != "" {
		return d.Summary
	}
	return d.Description
}

// StepLines 步驟來源：依歷史欄位優先序取第一個非空者
func (d *Document) StepLines() []string {
	for _, src := range [][]string{d.StepsFull, d.Steps, d.StepsCompact} {
		if len(src) > 0 {
			return src
		}
	}
	return nil
}

// HasFullData 是否帶有未刪節的步驟/食材（資料品質訊號）
func (d *Document) HasFullData() bool {
	return len(d.StepsFull) > 0 || len(d.IngredientsFull) > 0
}

// SearchText 全文件合併檢索文字，matchedAll 判定用
func (d *Document) SearchText() string {
	parts := []string{
		d.Title,
		d.TagText(),
		d.IngredientText(),
		strings.Join(d.StepLines(), " "),
		d.SummaryText(),
	}
	return strings.ToLower(strings.Join(parts, " "))
}
