package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"diet-recipe-api/internal/infrastructure/config"
	"diet-recipe-api/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// userAgent 目標站會擋空 UA 的請求
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// PageRecipe 從詳情頁抽出的食譜原始資料
type PageRecipe struct {
	URL         string
	Title       string
	Description string
	ImageURL    string
	Ingredients []string
	Steps       []string
	Tags        []string
}

// Crawler 食譜站爬蟲
type Crawler struct {
	client  *resty.Client
	baseURL string
}

// NewCrawler 創建爬蟲
func NewCrawler(cfg *config.Config) *Crawler {
	client := resty.New().
		SetBaseURL(cfg.Crawler.BaseURL).
		SetTimeout(cfg.Crawler.Timeout).
		SetHeader("User-Agent", userAgent)

	return &Crawler{
		client:  client,
		baseURL: cfg.Crawler.BaseURL,
	}
}

// SearchLinks 搜尋結果頁中的食譜詳情頁連結（絕對 URL、去重）
func (c *Crawler) SearchLinks(ctx context.Context, query string, page int) ([]string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":    query,
			"page": fmt.Sprintf("%d", page),
		}).
		Get("/recipe/list.html")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search page: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("search page returned %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	seen := map[string]bool{}
	var links []string
	doc.Find("a.common_sp_link").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		abs := c.absoluteURL(href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})

	common.LogDebug("搜尋頁解析完成",
		zap.String("query", query),
		zap.Int("page", page),
		zap.Int("links", len(links)),
	)
	return links, nil
}

// FetchRecipe 抓取並解析單一詳情頁
func (c *Crawler) FetchRecipe(ctx context.Context, pageURL string) (*PageRecipe, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipe page: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("recipe page returned %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipe page: %w", err)
	}

	recipe := &PageRecipe{
		URL:         pageURL,
		Title:       metaContent(doc, "og:title"),
		Description: metaContent(doc, "og:description"),
		ImageURL:    metaContent(doc, "og:image"),
		Ingredients: extractIngredients(doc),
		Steps:       extractSteps(doc),
		Tags:        extractTags(doc),
	}
	if recipe.Title == "" {
		recipe.Title = strings.TrimSpace(doc.Find("h3").First().Text())
	}
	return recipe, nil
}

// absoluteURL 相對連結補上站台網域
func (c *Crawler) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).Attr("content")
	return strings.TrimSpace(content)
}

// extractIngredients 食材區塊，站上有新舊兩種版型
func extractIngredients(doc *goquery.Document) []string {
	selectors := []string{
		"div.ready_ingre3 li",
		"ul#divConfirmedMaterialArea li",
		"div#divConfirmedMaterialArea li",
	}
	for _, selector := range selectors {
		lines := collectText(doc, selector)
		if len(lines) > 0 {
			return lines
		}
	}
	return nil
}

// extractSteps 步驟區塊，同樣有兩種版型
func extractSteps(doc *goquery.Document) []string {
	if lines := collectText(doc, "div.view_step li"); len(lines) > 0 {
		return lines
	}
	return collectText(doc, "div.view_step_cont")
}

func extractTags(doc *goquery.Document) []string {
	seen := map[string]bool{}
	var tags []string
	doc.Find(`a[href*="/profile/tag/"]`).Each(func(_ int, sel *goquery.Selection) {
		tag := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sel.Text()), "#"))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	})
	return tags
}

func collectText(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text != "" {
			out = append(out, text)
		}
	})
	return out
}
