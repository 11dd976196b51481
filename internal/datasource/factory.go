package datasource

import (
	"fmt"

	"github.com/seenimoa/sentitrack/internal/config"
)

// NewNewsSource builds the configured news backend. An empty BaseURL
// leaves each backend on its own default host.
func NewNewsSource(cfg config.NewsConfig) (NewsSource, error) {
	switch cfg.Provider {
	case "", "newsapi":
		return NewNewsAPI(NewsAPIConfig{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Language: cfg.Language,
			SortBy:   cfg.SortBy,
			PageSize: cfg.PageSize,
		}), nil
	case "rss", "googlenews":
		return NewGoogleNews(GoogleNewsConfig{BaseURL: cfg.BaseURL, Language: cfg.Language}), nil
	case "finnhub":
		return NewFinnhubNews(cfg.APIKey, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown news provider %q", cfg.Provider)
	}
}
