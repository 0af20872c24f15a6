package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_DropsPriceAndRatingLines(t *testing.T) {
	in := []string{
		"감자를 깨끗이 씻는다",
		"감자칩 3,390원",
		"4.9 (213)",
		"얇게 썰어 기름에 굽는다",
	}
	got := Sanitize(in)
	assert.Equal(t, []string{"감자를 깨끗이 씻는다", "얇게 썰어 기름에 굽는다"}, got)
}

func TestSanitize_DropsShoppingNoiseLines(t *testing.T) {
	in := []string{
		"리뷰 1,024개 보기",
		"만개의레시피 추천",
		"오늘만 특가!",
		"쿠폰 받기",
		"팬에 기름을 두른다",
	}
	got := Sanitize(in)
	assert.Equal(t, []string{"팬에 기름을 두른다"}, got)
}

func TestSanitize_StripsLeadingNumbering(t *testing.T) {
	in := []string{
		"1. 감자를 씻는다",
		"2) 얇게 썬다",
		"- 기름에 굽는다",
		"• 소금을 뿌린다",
	}
	got := Sanitize(in)
	assert.Equal(t, []string{
		"감자를 씻는다",
		"얇게 썬다",
		"기름에 굽는다",
		"소금을 뿌린다",
	}, got)
}

func TestSanitize_StripsNestedNumbering(t *testing.T) {
	got := Sanitize([]string{"1. 2) 감자를 씻는다"})
	assert.Equal(t, []string{"감자를 씻는다"}, got)
}

func TestSanitize_CollapsesWhitespace(t *testing.T) {
	got := Sanitize([]string{"  감자를   깨끗이 \t 씻는다  "})
	assert.Equal(t, []string{"감자를 깨끗이 씻는다"}, got)
}

func TestSanitize_DropsEmptyLines(t *testing.T) {
	got := Sanitize([]string{"", "   ", "감자를 씻는다", "- "})
	assert.Equal(t, []string{"감자를 씻는다"}, got)
}

func TestSanitize_Idempotent(t *testing.T) {
	in := []string{
		"1. 감자를 씻는다",
		"감자칩 3,390원",
		"2)  얇게   썬다",
	}
	once := Sanitize(in)
	twice := Sanitize(once)
	assert.Equal(t, once, twice)
}

func TestClip_Truncation(t *testing.T) {
	assert.Equal(t, "abc…", Clip("abcdef", 3))
	assert.Equal(t, "ab", Clip("ab", 3))
	assert.Equal(t, "abc", Clip("abc", 3))
}

func TestClip_RuneSafe(t *testing.T) {
	assert.Equal(t, "감자…", Clip("감자볶음", 2))
}

func TestClip_FlattensNewlines(t *testing.T) {
	assert.Equal(t, "a b c", Clip("a\nb\r\nc", 0))
}
