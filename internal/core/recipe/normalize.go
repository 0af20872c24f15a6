package recipe

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// 數量+單位（例：200g、1컵、2큰술）
var quantityPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?\s*(?:kg|g|ml|l|cc|cups?|tsp|tbsp|큰술|작은술|티스푼|스푼|컵|개|쪽|줌|장|모|대|알|봉지|인분)?`)

// 括號/中括號註記（例：[브랜드]、(다진 것)）
var (
	bracketPattern = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	punctPattern   = regexp.MustCompile(`[·•,()\[\]{}\-_/\\.:;!?~'"]+`)
	wordPattern    = regexp.MustCompile(`[가-힣]+|[a-z]+`)
	koreanPattern  = regexp.MustCompile(`^[가-힣]+$`)
)

// 處理/烹調類修飾詞 — 以 token 為單位丟棄
var modifierWords = map[string]bool{
	"다진": true, "썬": true, "채썬": true, "채": true, "간": true,
	"익힌": true, "삶은": true, "데친": true, "볶은": true, "구운": true,
	"말린": true, "신선한": true, "잘게": true, "곱게": true, "다듬은": true,
	"씻은": true, "손질한": true, "통": true, "약간": true, "소량": true,
	"diced": true, "sliced": true, "minced": true, "chopped": true,
	"boiled": true, "fried": true, "grilled": true, "dried": true,
	"fresh": true, "and": true, "or": true, "of": true,
}

// 韓文同義詞 → 標準表記
var korSynonyms = map[string]string{
	"계란": "달걀",
	"쪽파": "대파",
	"파":  "대파",
	"돼지": "돼지고기",
	"닭":  "닭고기",
	"모차렐라": "모짜렐라",
}

// 英文同義詞模式 → 標準表記（正規化輸出一律用韓文標準表記）
var engSynonyms = []struct {
	pattern *regexp.Regexp
	canon   string
}{
	{regexp.MustCompile(`^potato(es)?$`), "감자"},
	{regexp.MustCompile(`^sweet\s*potato(es)?$`), "고구마"},
	{regexp.MustCompile(`^onions?$`), "양파"},
	{regexp.MustCompile(`^(scallions?|green\s*onions?)$`), "대파"},
	{regexp.MustCompile(`^garlic$`), "마늘"},
	{regexp.MustCompile(`^eggs?$`), "달걀"},
	{regexp.MustCompile(`^tomato(es)?$`), "토마토"},
	{regexp.MustCompile(`^carrots?$`), "당근"},
	{regexp.MustCompile(`^cucumbers?$`), "오이"},
	{regexp.MustCompile(`^mushrooms?$`), "버섯"},
	{regexp.MustCompile(`^broccoli$`), "브로콜리"},
	{regexp.MustCompile(`^eggplants?$`), "가지"},
	{regexp.MustCompile(`^(bell\s*)?peppers?$`), "파프리카"},
	{regexp.MustCompile(`^paprika$`), "파프리카"},
	{regexp.MustCompile(`^pork\s*belly$`), "삼겹살"},
	{regexp.MustCompile(`^pork$`), "돼지고기"},
	{regexp.MustCompile(`^chicken(\s*breasts?)?$`), "닭고기"},
	{regexp.MustCompile(`^tofu$`), "두부"},
	{regexp.MustCompile(`^kimchi$`), "김치"},
	{regexp.MustCompile(`^cheese$`), "치즈"},
	{regexp.MustCompile(`^mozzarella$`), "모짜렐라"},
	{regexp.MustCompile(`^parmesan$`), "파마산"},
	{regexp.MustCompile(`^parsley$`), "파슬리"},
	{regexp.MustCompile(`^butter$`), "버터"},
}

// 預設停用詞：鹽/水/糖這類常見調味料不構成匹配訊號
var defaultStopWords = []string{
	"소금", "후추", "물", "설탕", "식용유", "기름", "맛술", "미림", "참기름",
	"salt", "pepper", "water", "sugar", "oil",
}

// Normalizer 食材名稱正規化器
// 噪音輸入不報錯，map 不到的 token 安靜丟掉：
// 寧可漏掉（false negative）也不要錯配（false positive），
// 因為下游匹配是以 token 是否出現為準
type Normalizer struct {
	stopWords map[string]bool
}

// NewNormalizer 創建正規化器，可附加額外的不用語
func NewNormalizer(extraStopWords ...string) *Normalizer {
	stop := make(map[string]bool, len(defaultStopWords)+len(extraStopWords))
	for _, w := range defaultStopWords {
		stop[w] = true
	}
	for _, w := range extraStopWords {
		if w = strings.TrimSpace(strings.ToLower(w)); w != "" {
			stop[w] = true
		}
	}
	return &Normalizer{stopWords: stop}
}

// Normalize 批次正規化：展開每條原始字串 → 去重（保留首見順序）
func (n *Normalizer) Normalize(rawNames []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, raw := range rawNames {
		for _, tok := range n.normalizeOne(raw) {
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
		}
	}
	return out
}

// normalizeOne 單條原始字串 → 0..n 個標準 token
func (n *Normalizer) normalizeOne(raw string) []string {
	s := norm.NFKC.String(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}
	s = strings.ToLower(s)

	// 依序移除：括號註記 → 數量/單位 → 標點
	s = bracketPattern.ReplaceAllString(s, " ")
	s = quantityPattern.ReplaceAllString(s, " ")
	s = punctPattern.ReplaceAllString(s, " ")

	var out []string
	for _, word := range wordPattern.FindAllString(s, -1) {
		if modifierWords[word] {
			continue
		}
		canon, ok := n.canonicalize(word)
		if !ok {
			continue
		}
		if n.stopWords[canon] {
			continue
		}
		out = append(out, canon)
	}
	return out
}

// canonicalize 單一詞 → 標準表記
// 1) 英文同義詞模式  2) 韓文同義詞表
// 3) 純韓文且非停用詞則原樣採用，其餘丟棄
func (n *Normalizer) canonicalize(word string) (string, bool) {
	for _, syn := range engSynonyms {
		if syn.pattern.MatchString(word) {
			return syn.canon, true
		}
	}
	if canon, ok := korSynonyms[word]; ok {
		return canon, true
	}
	if koreanPattern.MatchString(word) && !n.stopWords[word] && len([]rune(word)) <= 20 {
		return word, true
	}
	return "", false
}
