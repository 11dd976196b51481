package sentiment

import (
	"fmt"
	"net/http"

	"github.com/seenimoa/sentitrack/internal/config"
)

// NewClassifier builds the configured classifier backend.
func NewClassifier(cfg config.ClassifierConfig) (Classifier, error) {
	var client *http.Client
	if cfg.Timeout > 0 {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	switch cfg.Provider {
	case "", "huggingface":
		opts := []HuggingFaceOption{}
		if cfg.Model != "" {
			opts = append(opts, WithHuggingFaceModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, WithHuggingFaceBaseURL(cfg.BaseURL))
		}
		if client != nil {
			opts = append(opts, WithHuggingFaceHTTPClient(client))
		}
		return NewHuggingFace(cfg.APIKey, opts...)
	case "openai":
		return NewOpenAI(cfg.APIKey, foreignModel(cfg.Model), cfg.BaseURL, client)
	case "anthropic":
		return NewAnthropic(cfg.APIKey, foreignModel(cfg.Model), cfg.BaseURL, client)
	case "ollama":
		return NewOllama(cfg.BaseURL, foreignModel(cfg.Model), client), nil
	case "lexicon":
		return NewLexicon(), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
}

// foreignModel drops the FinBERT default when another backend is chosen,
// so each backend falls back to its own default model.
func foreignModel(model string) string {
	if model == "ProsusAI/finbert" {
		return ""
	}
	return model
}
