package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var secretEnvVars = []string{
	"SENTITRACK_NEWS_API_KEY", "NEWS_API_KEY", "FINNHUB_API_KEY",
	"SENTITRACK_CLASSIFIER_API_KEY", "HF_TOKEN", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
}

// clearSecrets blanks every credential variable for the duration of the test.
func clearSecrets(t *testing.T) {
	t.Helper()
	for _, e := range secretEnvVars {
		t.Setenv(e, "")
	}
}

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	clearSecrets(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Tracker defaults
	if cfg.Tracker.Entity != "Tesla" {
		t.Errorf("Tracker.Entity: got %q, want %q", cfg.Tracker.Entity, "Tesla")
	}
	if cfg.Tracker.Ticker != "TSLA" {
		t.Errorf("Tracker.Ticker: got %q, want %q", cfg.Tracker.Ticker, "TSLA")
	}
	if cfg.Tracker.Days != 7 {
		t.Errorf("Tracker.Days: got %d, want 7", cfg.Tracker.Days)
	}

	// News defaults
	if cfg.News.Provider != "newsapi" {
		t.Errorf("News.Provider: got %q, want %q", cfg.News.Provider, "newsapi")
	}
	if cfg.News.Language != "en" {
		t.Errorf("News.Language: got %q, want %q", cfg.News.Language, "en")
	}
	if cfg.News.SortBy != "publishedAt" {
		t.Errorf("News.SortBy: got %q", cfg.News.SortBy)
	}
	if cfg.News.PageSize != 100 {
		t.Errorf("News.PageSize: got %d, want 100", cfg.News.PageSize)
	}
	if cfg.News.Delay != time.Second {
		t.Errorf("News.Delay: got %v, want 1s", cfg.News.Delay)
	}
	if cfg.News.OnError != "fail" {
		t.Errorf("News.OnError: got %q, want %q", cfg.News.OnError, "fail")
	}
	if cfg.News.RateLimit != 0 || cfg.News.RateWindow != time.Minute {
		t.Errorf("News rate limit: got %d per %v, want off with a 1m window", cfg.News.RateLimit, cfg.News.RateWindow)
	}
	if cfg.News.BaseURL != "" {
		t.Errorf("News.BaseURL: got %q, want empty so each backend picks its host", cfg.News.BaseURL)
	}

	// Classifier defaults
	if cfg.Classifier.Provider != "huggingface" {
		t.Errorf("Classifier.Provider: got %q", cfg.Classifier.Provider)
	}
	if cfg.Classifier.Model != "ProsusAI/finbert" {
		t.Errorf("Classifier.Model: got %q", cfg.Classifier.Model)
	}
	if cfg.Classifier.Timeout != time.Minute {
		t.Errorf("Classifier.Timeout: got %v, want 1m", cfg.Classifier.Timeout)
	}

	// Output defaults
	if cfg.Output.Dir != "." {
		t.Errorf("Output.Dir: got %q", cfg.Output.Dir)
	}
	if !cfg.Output.Charts {
		t.Error("Output.Charts should be true by default")
	}

	// API defaults
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	clearSecrets(t)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
tracker:
  entity: "Tenneco Clean air India"
  ticker: "TENNIND.NS"
  days: 5
news:
  provider: "rss"
  delay: "250ms"
  on_error: "skip"
classifier:
  provider: "openai"
  model: "gpt-4o-mini"
  api_key: "sk-test-config-key-1234"
output:
  dir: "out"
  charts: false
api:
  port: 9090
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Tracker.Entity != "Tenneco Clean air India" {
		t.Errorf("Tracker.Entity: got %q", cfg.Tracker.Entity)
	}
	if cfg.Tracker.Ticker != "TENNIND.NS" {
		t.Errorf("Tracker.Ticker: got %q", cfg.Tracker.Ticker)
	}
	if cfg.Tracker.Days != 5 {
		t.Errorf("Tracker.Days: got %d, want 5", cfg.Tracker.Days)
	}
	if cfg.News.Provider != "rss" {
		t.Errorf("News.Provider: got %q", cfg.News.Provider)
	}
	if cfg.News.Delay != 250*time.Millisecond {
		t.Errorf("News.Delay: got %v, want 250ms", cfg.News.Delay)
	}
	if cfg.News.OnError != "skip" {
		t.Errorf("News.OnError: got %q", cfg.News.OnError)
	}
	// untouched keys keep their defaults
	if cfg.News.PageSize != 100 {
		t.Errorf("News.PageSize: got %d, want 100", cfg.News.PageSize)
	}
	if cfg.Classifier.APIKey != "sk-test-config-key-1234" {
		t.Errorf("Classifier.APIKey: got %q", cfg.Classifier.APIKey)
	}
	if cfg.Output.Charts {
		t.Error("Output.Charts should be false")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearSecrets(t)
	t.Setenv("SENTITRACK_TRACKER_DAYS", "3")

	cfgPath := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(cfgPath, []byte("tracker:\n  days: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Tracker.Days != 3 {
		t.Errorf("Tracker.Days: got %d, want 3 from env", cfg.Tracker.Days)
	}
}

// ── .env ──

func TestLoadDotEnv(t *testing.T) {
	clearSecrets(t)
	os.Unsetenv("SENTITRACK_DOTENV_PROBE")
	t.Cleanup(func() { os.Unsetenv("SENTITRACK_DOTENV_PROBE") })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SENTITRACK_DOTENV_PROBE=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv error: %v", err)
	}
	if got := os.Getenv("SENTITRACK_DOTENV_PROBE"); got != "from-dotenv" {
		t.Errorf("probe: got %q, want from-dotenv", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing .env should not be an error, got %v", err)
	}
}

// ── overrideFromEnv ──

func TestOverrideFromEnv(t *testing.T) {
	clearSecrets(t)
	t.Setenv("NEWS_API_KEY", "newsapi-key-123456")
	t.Setenv("OPENAI_API_KEY", "sk-test-openai-key-123456")

	cfg := &Config{Classifier: ClassifierConfig{Provider: "openai"}}
	overrideFromEnv(cfg)

	if cfg.News.APIKey != "newsapi-key-123456" {
		t.Errorf("News.APIKey: got %q", cfg.News.APIKey)
	}
	if cfg.Classifier.APIKey != "sk-test-openai-key-123456" {
		t.Errorf("Classifier.APIKey: got %q", cfg.Classifier.APIKey)
	}
}

func TestOverrideFromEnvPrefixWins(t *testing.T) {
	clearSecrets(t)
	t.Setenv("SENTITRACK_CLASSIFIER_API_KEY", "prefixed")
	t.Setenv("HF_TOKEN", "vendor")

	cfg := &Config{Classifier: ClassifierConfig{Provider: "huggingface"}}
	overrideFromEnv(cfg)

	if cfg.Classifier.APIKey != "prefixed" {
		t.Errorf("Classifier.APIKey: got %q, want prefixed", cfg.Classifier.APIKey)
	}
}

func TestOverrideFromEnvNoEnvSet(t *testing.T) {
	clearSecrets(t)

	cfg := &Config{
		News:       NewsConfig{APIKey: "from-config"},
		Classifier: ClassifierConfig{Provider: "anthropic", APIKey: "from-config"},
	}
	overrideFromEnv(cfg)

	if cfg.News.APIKey != "from-config" {
		t.Errorf("News.APIKey should stay as 'from-config', got %q", cfg.News.APIKey)
	}
	if cfg.Classifier.APIKey != "from-config" {
		t.Errorf("Classifier.APIKey should stay as 'from-config', got %q", cfg.Classifier.APIKey)
	}
}

func TestUseClassifierRereadsVendorKey(t *testing.T) {
	clearSecrets(t)
	t.Setenv("HF_TOKEN", "hf-token-123456")
	t.Setenv("OPENAI_API_KEY", "sk-openai-123456")

	cfg := &Config{Classifier: ClassifierConfig{Provider: "huggingface"}}
	overrideFromEnv(cfg)
	cfg.UseClassifier("openai")

	if cfg.Classifier.Provider != "openai" {
		t.Errorf("Provider: got %q, want openai", cfg.Classifier.Provider)
	}
	if cfg.Classifier.APIKey != "sk-openai-123456" {
		t.Errorf("Classifier.APIKey: got %q", cfg.Classifier.APIKey)
	}

	cfg.UseClassifier("lexicon")
	if cfg.Classifier.APIKey != "" {
		t.Errorf("lexicon should carry no key, got %q", cfg.Classifier.APIKey)
	}
}

func TestUseClassifierSameProviderKeepsKey(t *testing.T) {
	clearSecrets(t)
	cfg := &Config{Classifier: ClassifierConfig{Provider: "anthropic", APIKey: "from-config"}}
	cfg.UseClassifier("anthropic")
	cfg.UseClassifier("")
	if cfg.Classifier.APIKey != "from-config" {
		t.Errorf("Classifier.APIKey: got %q, want from-config", cfg.Classifier.APIKey)
	}
}

func TestLoadNewsKeyFollowsProvider(t *testing.T) {
	clearSecrets(t)
	t.Setenv("NEWS_API_KEY", "newsapi-secret-key-123")
	t.Setenv("FINNHUB_API_KEY", "finnhub-secret-key-456")
	t.Setenv("SENTITRACK_NEWS_PROVIDER", "finnhub")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.News.Provider != "finnhub" {
		t.Fatalf("News.Provider: got %q, want finnhub", cfg.News.Provider)
	}
	if cfg.News.APIKey != "finnhub-secret-key-456" {
		t.Errorf("News.APIKey: got %q, want the Finnhub key", cfg.News.APIKey)
	}
}

func TestOverrideNewsKeyPerProvider(t *testing.T) {
	clearSecrets(t)
	t.Setenv("NEWS_API_KEY", "newsapi-key-123456")
	t.Setenv("FINNHUB_API_KEY", "finnhub-key-123456")

	tests := []struct {
		provider string
		want     string
	}{
		{"", "newsapi-key-123456"},
		{"newsapi", "newsapi-key-123456"},
		{"finnhub", "finnhub-key-123456"},
		{"rss", ""},
	}
	for _, tt := range tests {
		cfg := &Config{News: NewsConfig{Provider: tt.provider}}
		overrideFromEnv(cfg)
		if cfg.News.APIKey != tt.want {
			t.Errorf("provider %q: News.APIKey = %q, want %q", tt.provider, cfg.News.APIKey, tt.want)
		}
	}
}

func TestUseNewsProviderRereadsVendorKey(t *testing.T) {
	clearSecrets(t)
	t.Setenv("NEWS_API_KEY", "newsapi-key-123456")
	t.Setenv("FINNHUB_API_KEY", "finnhub-key-123456")

	cfg := &Config{News: NewsConfig{Provider: "newsapi"}}
	overrideFromEnv(cfg)
	cfg.UseNewsProvider("finnhub")

	if cfg.News.Provider != "finnhub" {
		t.Errorf("Provider: got %q, want finnhub", cfg.News.Provider)
	}
	if cfg.News.APIKey != "finnhub-key-123456" {
		t.Errorf("News.APIKey: got %q", cfg.News.APIKey)
	}

	cfg.UseNewsProvider("rss")
	if cfg.News.APIKey != "" {
		t.Errorf("rss should carry no key, got %q", cfg.News.APIKey)
	}
}

func TestUseNewsProviderPrefixWins(t *testing.T) {
	clearSecrets(t)
	t.Setenv("SENTITRACK_NEWS_API_KEY", "prefixed")
	t.Setenv("FINNHUB_API_KEY", "vendor")

	cfg := &Config{News: NewsConfig{Provider: "newsapi"}}
	cfg.UseNewsProvider("finnhub")
	if cfg.News.APIKey != "prefixed" {
		t.Errorf("News.APIKey: got %q, want prefixed", cfg.News.APIKey)
	}
}

// ── maskKey ──

func TestMaskKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "***"},
		{"abcd", "***"},
		{"12345678", "***"},
		{"123456789", "123...789"},
		{"2c5223b815864bdba1b2a691f5950b1c", "2c5...b1c"},
	}
	for _, tc := range tests {
		got := maskKey(tc.input)
		if got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

// ── CheckAPIKeys / checkKey ──

func TestCheckAPIKeysPerProvider(t *testing.T) {
	clearSecrets(t)

	tests := []struct {
		news, classifier string
		want             int
	}{
		{"newsapi", "huggingface", 2},
		{"finnhub", "openai", 2},
		{"rss", "anthropic", 1},
		{"rss", "lexicon", 0},
		{"newsapi", "ollama", 1},
	}
	for _, tt := range tests {
		cfg := &Config{
			News:       NewsConfig{Provider: tt.news},
			Classifier: ClassifierConfig{Provider: tt.classifier},
		}
		got := CheckAPIKeys(cfg)
		if len(got) != tt.want {
			t.Errorf("CheckAPIKeys(%s, %s): got %d statuses, want %d", tt.news, tt.classifier, len(got), tt.want)
		}
		for _, s := range got {
			if s.IsSet || s.Source != KeySourceNone {
				t.Errorf("key %q should be unset, got %+v", s.Name, s)
			}
		}
	}
}

func TestCheckAPIKeysFromConfig(t *testing.T) {
	clearSecrets(t)

	cfg := &Config{
		News:       NewsConfig{Provider: "newsapi", APIKey: "2c5223b815864bdba1b2a691f5950b1c"},
		Classifier: ClassifierConfig{Provider: "lexicon"},
	}
	statuses := CheckAPIKeys(cfg)
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses, want 1", len(statuses))
	}
	s := statuses[0]
	if !s.IsSet || s.Source != KeySourceConfig {
		t.Errorf("status: got %+v, want set from config", s)
	}
	if s.Masked != "2c5...b1c" {
		t.Errorf("Masked: got %q", s.Masked)
	}
}

func TestCheckKeySourceDetection(t *testing.T) {
	t.Setenv("TEST_VAR", "")
	s := checkKey("Test", "", "TEST_VAR")
	if s.Source != KeySourceNone || s.IsSet {
		t.Errorf("empty value: got %+v", s)
	}

	s = checkKey("Test", "config-value-long-enough", "TEST_VAR")
	if s.Source != KeySourceConfig {
		t.Errorf("config value: got source %q, want %q", s.Source, KeySourceConfig)
	}

	t.Setenv("TEST_VAR_ALT", "env-value-long-enough")
	s = checkKey("Test", "env-value-long-enough", "TEST_VAR", "TEST_VAR_ALT")
	if s.Source != KeySourceEnv {
		t.Errorf("env value: got source %q, want %q", s.Source, KeySourceEnv)
	}
}

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() should not return empty string")
	}
}
