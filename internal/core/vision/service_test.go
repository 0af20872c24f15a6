package vision

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"diet-recipe-api/internal/infrastructure/config"
	"diet-recipe-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	common.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func visionConfig(enabled bool, apiKey string) *config.Config {
	return &config.Config{
		Vision: config.VisionConfig{
			Enabled:   enabled,
			APIKey:    apiKey,
			Model:     "test-model",
			MaxTokens: 100,
			Timeout:   5 * time.Second,
		},
	}
}

func TestReady(t *testing.T) {
	assert.True(t, NewService(visionConfig(true, "key")).Ready())
	assert.False(t, NewService(visionConfig(false, "key")).Ready())
	assert.False(t, NewService(visionConfig(true, "")).Ready())
}

func TestExtractIngredients_NotReady(t *testing.T) {
	svc := NewService(visionConfig(false, ""))

	_, err := svc.ExtractIngredients(context.Background(), [][]byte{{0x1}})
	assert.True(t, errors.Is(err, common.ErrVisionNotReady))
}

func TestExtractIngredients_NoImages(t *testing.T) {
	svc := NewService(visionConfig(true, "key"))

	got, err := svc.ExtractIngredients(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractIngredients_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	svc := NewService(visionConfig(true, "key"))
	svc.client.SetBaseURL(srv.URL)

	_, err := svc.ExtractIngredients(context.Background(), [][]byte{{0x1}})
	assert.True(t, errors.Is(err, common.ErrUpstreamTransient))
}

func TestExtractIngredients_ParsesChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"[{\"name\":\"감자\",\"amount\":\"2개\",\"confidence\":0.95},{\"name\":\"양파\",\"confidence\":0.8}]"}}]}`))
	}))
	t.Cleanup(srv.Close)

	svc := NewService(visionConfig(true, "key"))
	svc.client.SetBaseURL(srv.URL)

	got, err := svc.ExtractIngredients(context.Background(), [][]byte{{0x1}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "감자", got[0].Name)
	assert.Equal(t, "2개", got[0].Amount)
	assert.InDelta(t, 0.95, got[0].Confidence, 0.001)
}

func TestParseIngredients_FencedJSON(t *testing.T) {
	content := "```json\n[{\"name\": \"토마토\", \"confidence\": 0.9}]\n```"

	got, err := parseIngredients(content)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "토마토", got[0].Name)
}

func TestParseIngredients_EmptyContent(t *testing.T) {
	got, err := parseIngredients("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseIngredients_DropsNamelessEntries(t *testing.T) {
	got, err := parseIngredients(`[{"name":"감자"},{"name":"  "},{"name":""}]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "감자", got[0].Name)
}

func TestParseIngredients_InvalidJSON(t *testing.T) {
	_, err := parseIngredients("이미지에 감자가 보입니다")
	assert.Error(t, err)
}
