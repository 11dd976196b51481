// Package config handles configuration loading for sentitrack.
// It supports YAML config files, a .env file and environment variable
// overrides, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Tracker    TrackerConfig    `mapstructure:"tracker"    yaml:"tracker"`
	News       NewsConfig       `mapstructure:"news"       yaml:"news"`
	Market     MarketConfig     `mapstructure:"market"     yaml:"market"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Output     OutputConfig     `mapstructure:"output"     yaml:"output"`
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// TrackerConfig names what is tracked and over how many days.
type TrackerConfig struct {
	Entity string `mapstructure:"entity" yaml:"entity"` // news search keyword, e.g. "Tesla"
	Ticker string `mapstructure:"ticker" yaml:"ticker"` // market symbol, e.g. "TSLA"
	Days   int    `mapstructure:"days"   yaml:"days"`
}

// NewsConfig holds news search settings.
type NewsConfig struct {
	Provider   string        `mapstructure:"provider"    yaml:"provider"` // "newsapi", "rss", "finnhub"
	APIKey     string        `mapstructure:"api_key"     yaml:"api_key"`
	BaseURL    string        `mapstructure:"base_url"    yaml:"base_url"`
	Language   string        `mapstructure:"language"    yaml:"language"`
	SortBy     string        `mapstructure:"sort_by"     yaml:"sort_by"`
	PageSize   int           `mapstructure:"page_size"   yaml:"page_size"`
	Delay      time.Duration `mapstructure:"delay"       yaml:"delay"`      // pause after each day's query
	RateLimit  int           `mapstructure:"rate_limit"  yaml:"rate_limit"` // queries per rate_window; replaces delay when > 0
	RateWindow time.Duration `mapstructure:"rate_window" yaml:"rate_window"`
	OnError    string        `mapstructure:"on_error"    yaml:"on_error"` // "fail" or "skip"
}

// MarketConfig holds market-data settings.
type MarketConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// ClassifierConfig selects and configures the headline sentiment model.
type ClassifierConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"` // "huggingface", "openai", "anthropic", "ollama", "lexicon"
	Model    string        `mapstructure:"model"    yaml:"model"`
	APIKey   string        `mapstructure:"api_key"  yaml:"api_key"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"  yaml:"timeout"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"    yaml:"dir"`
	Charts bool   `mapstructure:"charts" yaml:"charts"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.sentitrack/config.yaml (home directory)
//  3. /etc/sentitrack/config.yaml (system)
//
// A .env file in the working directory is loaded first; variables already
// set in the process environment win over it.
// Format: SENTITRACK_<SECTION>_<KEY>, e.g., SENTITRACK_NEWS_API_KEY
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".sentitrack"))
	v.AddConfigPath("/etc/sentitrack")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SENTITRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// loadDotEnv loads KEY=VALUE pairs from path into the environment.
// A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error reading %s: %w", path, err)
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Tracker defaults
	v.SetDefault("tracker.entity", "Tesla")
	v.SetDefault("tracker.ticker", "TSLA")
	v.SetDefault("tracker.days", 7)

	// News defaults (NewsAPI "everything" search)
	v.SetDefault("news.provider", "newsapi")
	v.SetDefault("news.language", "en")
	v.SetDefault("news.sort_by", "publishedAt")
	v.SetDefault("news.page_size", 100)
	v.SetDefault("news.delay", "1s")
	v.SetDefault("news.rate_limit", 0)
	v.SetDefault("news.rate_window", "1m")
	v.SetDefault("news.on_error", "fail")

	// Market defaults
	v.SetDefault("market.base_url", "https://query1.finance.yahoo.com")

	// Classifier defaults (FinBERT on the Hugging Face inference API)
	v.SetDefault("classifier.provider", "huggingface")
	v.SetDefault("classifier.model", "ProsusAI/finbert")
	v.SetDefault("classifier.timeout", "60s")

	// Output defaults
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.charts", true)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables,
// including the vendor-conventional names of the configured providers.
func overrideFromEnv(cfg *Config) {
	overrideNewsKey(cfg)
	overrideClassifierKey(cfg)
}

// overrideNewsKey reads the news key. SENTITRACK_NEWS_API_KEY wins; the
// vendor variable is only read for its own provider.
func overrideNewsKey(cfg *Config) {
	if key := os.Getenv("SENTITRACK_NEWS_API_KEY"); key != "" {
		cfg.News.APIKey = key
		return
	}
	var vendorEnv string
	switch cfg.News.Provider {
	case "", "newsapi":
		vendorEnv = "NEWS_API_KEY"
	case "finnhub":
		vendorEnv = "FINNHUB_API_KEY"
	}
	if vendorEnv != "" && cfg.News.APIKey == "" {
		cfg.News.APIKey = os.Getenv(vendorEnv)
	}
}

func overrideClassifierKey(cfg *Config) {
	if key := os.Getenv("SENTITRACK_CLASSIFIER_API_KEY"); key != "" {
		cfg.Classifier.APIKey = key
		return
	}
	var vendorEnv string
	switch cfg.Classifier.Provider {
	case "huggingface":
		vendorEnv = "HF_TOKEN"
	case "openai":
		vendorEnv = "OPENAI_API_KEY"
	case "anthropic":
		vendorEnv = "ANTHROPIC_API_KEY"
	}
	if vendorEnv != "" && cfg.Classifier.APIKey == "" {
		cfg.Classifier.APIKey = os.Getenv(vendorEnv)
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// UseClassifier switches the classifier backend and re-resolves its key
// from the environment. A key configured for the previous backend is dropped.
func (c *Config) UseClassifier(provider string) {
	if provider == "" || provider == c.Classifier.Provider {
		return
	}
	c.Classifier.Provider = provider
	c.Classifier.APIKey = ""
	overrideClassifierKey(c)
}

// UseNewsProvider switches the news backend and re-resolves its key
// from the environment. A key configured for the previous backend is dropped.
func (c *Config) UseNewsProvider(provider string) {
	if provider == "" || provider == c.News.Provider {
		return
	}
	c.News.Provider = provider
	c.News.APIKey = ""
	overrideNewsKey(c)
}
