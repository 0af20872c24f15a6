package recipe

// 卡片顯示長度上限
const (
	MaxTags           = 4
	MaxTitle          = 14
	MaxSubtitle       = 18
	MaxSummary        = 80
	MaxStepLines      = 3
	MaxStepText       = 60 // 每一步驟在精簡模式下的最大顯示字數
	MaxKeyIngredients = 3
)

// 控制詞彙表（標準顯示標籤），依語義群組分組
// 群組優先序：主食材 > 調理法 > 型態 > 時間 > 特性
var canonGroups = map[string][]string{
	"main": {
		"감자", "토마토", "치즈", "모짜렐라", "파마산", "파슬리",
		"양파", "달걀", "김치", "두부", "닭고기", "돼지고기",
	},
	"method": {
		"팬프라이", "팬구이", "굽기", "삶기", "데치기",
		"볶음", "튀김", "끓이기", "오븐구이", "에어프라이어",
	},
	"form": {
		"감자칩", "패티/전", "웨지", "국", "찌개", "샐러드", "면",
	},
	"time": {
		"30분이내", "15분이내",
	},
	"feature": {
		"바삭함", "간식", "술안주", "쉬움", "저지방", "오일절감",
	},
}

var groupPriority = []string{"main", "method", "form", "time", "feature"}

// IsCanonTag 是否屬於控制詞彙表
func IsCanonTag(tag string) bool {
	for _, vals := range canonGroups {
		for _, v := range vals {
			if v == tag {
				return true
			}
		}
	}
	return false
}

// MainIngredientVocabulary 主食材群組（卡片 chips 推導用）
func MainIngredientVocabulary() []string {
	return canonGroups["main"]
}

// CurateTags 將候選標籤依控制詞彙表與群組優先序精選為至多 maxTags 個
// 只挑選與排序，絕不造出或改寫標籤；同輸入必得同輸出
func CurateTags(candidates []string, maxTags int) []string {
	var out []string
	chosen := make(map[string]bool)

	// 第一輪：依群組優先序，詞彙表中的標準標籤若出現在候選就先採用
	for _, group := range groupPriority {
		for _, tag := range canonGroups[group] {
			if chosen[tag] {
				continue
			}
			for _, c := range candidates {
				if c == tag {
					out = append(out, tag)
					chosen[tag] = true
					break
				}
			}
		}
	}

	// 第二輪：依候選原始順序補上任何屬於詞彙表但尚未選中的標籤
	// （實務上與第一輪重複，留著對付群組順序的邊角情況）
	for _, c := range candidates {
		if !chosen[c] && IsCanonTag(c) {
			out = append(out, c)
			chosen[c] = true
		}
	}

	if maxTags > 0 && len(out) > maxTags {
		out = out[:maxTags]
	}
	return out
}
