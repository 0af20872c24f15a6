package recipe

import (
	"regexp"
	"strings"
)

// 價格（3,390원）與評分（4.9 (213)）模式
var (
	pricePattern  = regexp.MustCompile(`[0-9]{1,3}(?:,[0-9]{3})*\s*(?:원|won|₩)`)
	ratingPattern = regexp.MustCompile(`[0-5](?:\.[0-9])?\s*\([0-9]+\)`)
	bulletPattern = regexp.MustCompile(`^\s*(?:[0-9]+\s*[.)]\s*|[-•*·]\s*)`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// 購物/評論/廣告類噪音關鍵字
var noiseWords = []string{
	"구매", "리뷰", "평점", "만개의레시피", "추천 레시피", "추천레시피",
	"광고", "쇼핑", "쿠폰", "특가", "배송", "sponsored", "coupon",
}

// Sanitize 自由文字行的噪音過濾
// 純過濾器，不產生內容；冪等（再跑一次輸出不變）；保留存活行的順序
func Sanitize(lines []string) []string {
	var out []string
	for _, line := range lines {
		if cleaned, ok := sanitizeLine(line); ok {
			out = append(out, cleaned)
		}
	}
	return out
}

func sanitizeLine(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return "", false
	}

	// 廣告/價格/評分行整行丟棄
	if pricePattern.MatchString(s) || ratingPattern.MatchString(s) {
		return "", false
	}
	lower := strings.ToLower(s)
	for _, w := range noiseWords {
		if strings.Contains(lower, w) {
			return "", false
		}
	}

	// 去除行首編號/項目符號 — 像 "1. 2. foo" 的巢狀也要剝到底才能保持冪等
	for {
		stripped := bulletPattern.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}

	s = strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
	if s == "" {
		return "", false
	}
	return s, true
}

// Clip 以字數截斷文字，截斷時補上省略號；換行先轉成空格
func Clip(text string, maxLen int) string {
	s := strings.ReplaceAll(text, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "…"
}
