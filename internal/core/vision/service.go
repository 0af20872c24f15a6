package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"diet-recipe-api/internal/infrastructure/config"
	"diet-recipe-api/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// ingredientPrompt 影像食材辨識提示詞
// 要求模型只回 JSON 陣列，名稱用韓文（下游正規化表以韓文為準）
const ingredientPrompt = `당신은 음식 재료 인식 전문가입니다. 이미지에 보이는 식재료를 모두 찾아 JSON 배열로만 답하세요.
각 항목: {"name": "재료 한국어 이름", "amount": "수량(모르면 빈 문자열)", "confidence": 0.0~1.0}
재료가 하나도 없으면 빈 배열 []을 반환하세요. JSON 외의 다른 텍스트는 출력하지 마세요.`

// ExtractedIngredient 辨識出的單一食材
type ExtractedIngredient struct {
	Name       string  `json:"name"`
	Amount     string  `json:"amount,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Service 影像食材辨識服務
type Service struct {
	config *config.Config
	client *resty.Client
}

// NewService 創建影像辨識服務
func NewService(cfg *config.Config) *Service {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetTimeout(cfg.Vision.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Vision.APIKey)).
		SetHeader("HTTP-Referer", "https://diet-recipe-api.com").
		SetHeader("X-Title", "Diet Recipe API")

	return &Service{
		config: cfg,
		client: client,
	}
}

// Ready 服務是否可接受請求（已啟用且有金鑰）
func (s *Service) Ready() bool {
	return s.config.Vision.Enabled && s.config.Vision.APIKey != ""
}

// ExtractIngredients 從一或多張圖片辨識食材
// 未就緒回 ErrVisionNotReady，上游暫時性失敗回 ErrUpstreamTransient，
// 讓呼叫端能對應到 503 / 502
func (s *Service) ExtractIngredients(ctx context.Context, images [][]byte) ([]ExtractedIngredient, error) {
	if !s.Ready() {
		return nil, common.ErrVisionNotReady
	}
	if len(images) == 0 {
		return []ExtractedIngredient{}, nil
	}

	msgContent := []map[string]interface{}{
		{
			"type": "text",
			"text": ingredientPrompt,
		},
	}
	for _, img := range images {
		encoded := base64.StdEncoding.EncodeToString(img)
		msgContent = append(msgContent, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]string{
				"url": fmt.Sprintf("data:image/jpeg;base64,%s", encoded),
			},
		})
	}

	req := map[string]interface{}{
		"model": s.config.Vision.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": msgContent,
			},
		},
		"max_tokens": s.config.Vision.MaxTokens,
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		common.LogVisionCall(time.Since(start), 0, err)
		return nil, common.WrapError(common.ErrUpstreamTransient, err)
	}
	if resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("vision upstream returned %d: %s", resp.StatusCode(), resp.String())
		common.LogVisionCall(time.Since(start), 0, err)
		return nil, common.WrapError(common.ErrUpstreamTransient, err)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogVisionCall(time.Since(start), 0, err)
		return nil, common.WrapError(common.ErrUpstreamTransient, err)
	}
	if len(result.Choices) == 0 {
		err = fmt.Errorf("no choices in vision response")
		common.LogVisionCall(time.Since(start), 0, err)
		return nil, common.WrapError(common.ErrUpstreamTransient, err)
	}

	ingredients, err := parseIngredients(result.Choices[0].Message.Content)
	if err != nil {
		common.LogVisionCall(time.Since(start), 0, err)
		return nil, common.WrapError(common.ErrUpstreamTransient, err)
	}

	common.LogVisionCall(time.Since(start), len(ingredients), nil)
	return ingredients, nil
}

// parseIngredients 解析模型回應
// 模型偶爾會把 JSON 包在 markdown 圍欄裡，先剝掉再解
func parseIngredients(content string) ([]ExtractedIngredient, error) {
	cleaned := common.StripJSONFence(content)
	if strings.TrimSpace(cleaned) == "" {
		return []ExtractedIngredient{}, nil
	}

	var out []ExtractedIngredient
	if err := common.ParseJSONBytes([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("failed to parse vision content: %w", err)
	}

	filtered := out[:0]
	for _, ing := range out {
		if strings.TrimSpace(ing.Name) != "" {
			filtered = append(filtered, ing)
		}
	}
	return filtered, nil
}
