package config

import "os"

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "2c5...b1c"
}

// CheckAPIKeys returns the status of the credentials the configured
// providers need. The lexicon classifier, Ollama and the RSS news feed
// need none.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	var keys []KeyStatus
	switch cfg.News.Provider {
	case "newsapi":
		keys = append(keys, checkKey("NewsAPI Key", cfg.News.APIKey, "SENTITRACK_NEWS_API_KEY", "NEWS_API_KEY"))
	case "finnhub":
		keys = append(keys, checkKey("Finnhub API Key", cfg.News.APIKey, "SENTITRACK_NEWS_API_KEY", "FINNHUB_API_KEY"))
	}
	switch cfg.Classifier.Provider {
	case "huggingface":
		keys = append(keys, checkKey("Hugging Face Token", cfg.Classifier.APIKey, "SENTITRACK_CLASSIFIER_API_KEY", "HF_TOKEN"))
	case "openai":
		keys = append(keys, checkKey("OpenAI API Key", cfg.Classifier.APIKey, "SENTITRACK_CLASSIFIER_API_KEY", "OPENAI_API_KEY"))
	case "anthropic":
		keys = append(keys, checkKey("Anthropic API Key", cfg.Classifier.APIKey, "SENTITRACK_CLASSIFIER_API_KEY", "ANTHROPIC_API_KEY"))
	}
	return keys
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value string, envVars ...string) KeyStatus {
	status := KeyStatus{
		Name:   name,
		IsSet:  value != "",
		Source: KeySourceNone,
	}
	if value == "" {
		return status
	}

	status.Source = KeySourceConfig
	for _, e := range envVars {
		if os.Getenv(e) != "" {
			status.Source = KeySourceEnv
			break
		}
	}
	status.Masked = maskKey(value)
	return status
}

// maskKey masks an API key for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
