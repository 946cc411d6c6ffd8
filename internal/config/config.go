package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Serp      SerpConfig      `yaml:"serp" mapstructure:"serp"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Import    ImportConfig    `yaml:"import" mapstructure:"import"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the CRUD API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SerpConfig holds SerpAPI settings. An empty key disables the structured
// search tier and the chain starts at the HTML scrapers.
type SerpConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SearchConfig configures reference search and filtering.
type SearchConfig struct {
	MaxResults     int      `yaml:"max_results" mapstructure:"max_results"`
	ExcludeDomains []string `yaml:"exclude_domains" mapstructure:"exclude_domains"`
	TimeoutSecs    int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ScrapeConfig configures reference fetching and content extraction.
type ScrapeConfig struct {
	MinContentLen   int `yaml:"min_content_len" mapstructure:"min_content_len"`
	MaxContentLen   int `yaml:"max_content_len" mapstructure:"max_content_len"`
	ReferenceCap    int `yaml:"reference_cap" mapstructure:"reference_cap"`
	PromptRefLen    int `yaml:"prompt_ref_len" mapstructure:"prompt_ref_len"`
	FetchIntervalMs int `yaml:"fetch_interval_ms" mapstructure:"fetch_interval_ms"`
	TimeoutSecs     int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// BatchConfig configures sequential batch enhancement.
type BatchConfig struct {
	ArticleDelayMs int `yaml:"article_delay_ms" mapstructure:"article_delay_ms"`
}

// AnthropicConfig holds Anthropic API settings (primary backend).
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OpenAIConfig holds OpenAI API settings (fallback backend).
type OpenAIConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ImportConfig configures the bulk-import crawler for the source blog.
type ImportConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	StartPage int    `yaml:"start_page" mapstructure:"start_page"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ENHANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "./enhance.db")
	v.SetDefault("server.port", 3000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("serp.key", "")
	v.SetDefault("serp.base_url", "https://serpapi.com/search.json")
	v.SetDefault("search.max_results", 2)
	v.SetDefault("search.timeout_secs", 10)
	v.SetDefault("search.exclude_domains", []string{
		"beyondchats.com", "youtube.com", "twitter.com", "facebook.com",
		"instagram.com", "linkedin.com", "google.com", "wikipedia.org",
	})
	v.SetDefault("scrape.min_content_len", 200)
	v.SetDefault("scrape.max_content_len", 3000)
	v.SetDefault("scrape.reference_cap", 5000)
	v.SetDefault("scrape.prompt_ref_len", 2500)
	v.SetDefault("scrape.fetch_interval_ms", 500)
	v.SetDefault("scrape.timeout_secs", 10)
	v.SetDefault("batch.article_delay_ms", 2000)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4000)
	v.SetDefault("openai.key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("import.base_url", "https://beyondchats.com/blogs")
	v.SetDefault("import.start_page", 14)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
