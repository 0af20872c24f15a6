package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurateTags_GroupPriorityOrdering(t *testing.T) {
	candidates := []string{"바삭함", "굽기", "감자", "팬프라이", "집밥일기"}

	got := CurateTags(candidates, MaxTags)
	assert.Equal(t, []string{"감자", "팬프라이", "굽기", "바삭함"}, got)
}

func TestCurateTags_ExcludesUnknownTags(t *testing.T) {
	got := CurateTags([]string{"집밥일기", "브이로그", "먹스타그램"}, MaxTags)
	assert.Empty(t, got)
}

func TestCurateTags_CapsAtMaxTags(t *testing.T) {
	candidates := []string{"치즈", "감자", "팬프라이", "굽기", "바삭함", "간식"}

	got := CurateTags(candidates, MaxTags)
	assert.Len(t, got, MaxTags)
	assert.Equal(t, []string{"감자", "치즈", "팬프라이", "굽기"}, got)
}

func TestCurateTags_ZeroMaxMeansNoCap(t *testing.T) {
	candidates := []string{"치즈", "감자", "팬프라이", "굽기", "바삭함", "간식"}

	got := CurateTags(candidates, 0)
	assert.Len(t, got, 6)
}

func TestCurateTags_NeverInventsTags(t *testing.T) {
	got := CurateTags([]string{"감자"}, MaxTags)
	assert.Equal(t, []string{"감자"}, got)
}

func TestCurateTags_Deterministic(t *testing.T) {
	candidates := []string{"굽기", "감자", "바삭함", "팬프라이"}

	first := CurateTags(candidates, MaxTags)
	second := CurateTags(candidates, MaxTags)
	assert.Equal(t, first, second)
}

func TestIsCanonTag(t *testing.T) {
	assert.True(t, IsCanonTag("감자"))
	assert.True(t, IsCanonTag("팬프라이"))
	assert.False(t, IsCanonTag("집밥일기"))
	assert.False(t, IsCanonTag(""))
}
