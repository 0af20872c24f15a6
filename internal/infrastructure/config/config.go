package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Vision    VisionConfig    `mapstructure:"vision"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Image     ImageConfig     `mapstructure:"image"`
	LogLevel  string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StoreConfig 文件庫配置
// driver: "memory"（零設定，開發/測試用）或 "redis"
type StoreConfig struct {
	Driver   string `mapstructure:"driver"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// VisionConfig 影像辨識（OpenRouter）配置
type VisionConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CrawlerConfig 爬蟲配置
type CrawlerConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	PageDelay time.Duration `mapstructure:"page_delay"`
	MaxPages  int           `mapstructure:"max_pages"`
}

// RecommendConfig 推薦管線配置
type RecommendConfig struct {
	PoolCap int `mapstructure:"pool_cap"` // 候選池上限
	TopK    int `mapstructure:"top_k"`    // 預設回傳張數
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時沿用環境變數）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("vision.enabled", "VISION_ENABLED")
	viper.BindEnv("vision.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("vision.model", "OPENROUTER_MODEL")
	viper.BindEnv("vision.max_tokens", "MODEL_MAX_TOKENS")
	viper.BindEnv("store.driver", "STORE_DRIVER")
	viper.BindEnv("store.addr", "REDIS_ADDR")
	viper.BindEnv("store.password", "REDIS_PASSWORD")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "diet-recipe-api")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 文件庫設定
	viper.SetDefault("store.driver", "memory")
	viper.SetDefault("store.addr", "localhost:6379")
	viper.SetDefault("store.db", 0)

	// 影像辨識設定
	viper.SetDefault("vision.enabled", false)
	viper.SetDefault("vision.model", "qwen/qwen2.5-vl-72b-instruct:free")
	viper.SetDefault("vision.max_tokens", 1000)
	viper.SetDefault("vision.timeout", "60s")

	// 爬蟲設定
	viper.SetDefault("crawler.base_url", "https://www.10000recipe.com")
	viper.SetDefault("crawler.timeout", "25s")
	viper.SetDefault("crawler.page_delay", "1s")
	viper.SetDefault("crawler.max_pages", 5)

	// 推薦管線設定
	viper.SetDefault("recommend.pool_cap", 400)
	viper.SetDefault("recommend.top_k", 12)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 圖片設定
	viper.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證文件庫設定
	switch config.Store.Driver {
	case "memory":
	case "redis":
		if config.Store.Addr == "" {
			return fmt.Errorf("store addr is required for redis driver")
		}
	default:
		return fmt.Errorf("unknown store driver: %s", config.Store.Driver)
	}

	// 驗證推薦管線設定
	if config.Recommend.PoolCap <= 0 {
		return fmt.Errorf("invalid recommend pool cap")
	}
	if config.Recommend.TopK <= 0 {
		return fmt.Errorf("invalid recommend top k")
	}

	// 驗證爬蟲設定
	if config.Crawler.MaxPages <= 0 {
		return fmt.Errorf("invalid crawler max pages")
	}

	return nil
}
