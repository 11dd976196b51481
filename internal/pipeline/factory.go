package pipeline

import (
	"fmt"

	"github.com/seenimoa/sentitrack/internal/analysis/sentiment"
	"github.com/seenimoa/sentitrack/internal/config"
	"github.com/seenimoa/sentitrack/internal/datasource"
	"github.com/seenimoa/sentitrack/internal/infra"
	"github.com/seenimoa/sentitrack/internal/report"
)

// NewFromConfig builds a Pipeline from cfg. Files go to cfg.Output.Dir
// unless an option overrides the writer.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	src, err := datasource.NewNewsSource(cfg.News)
	if err != nil {
		return nil, fmt.Errorf("news source: %w", err)
	}
	classifier, err := sentiment.NewClassifier(cfg.Classifier)
	if err != nil {
		return nil, fmt.Errorf("classifier %s: %w", cfg.Classifier.Provider, err)
	}

	base := []Option{WithWriter(report.NewWriter(cfg.Output.Dir), cfg.Output.Charts)}
	p := New(nil, datasource.NewYFinance(cfg.Market.BaseURL), nil, append(base, opts...)...)

	p.scorer = sentiment.NewScorer(classifier, p.log)
	p.news = datasource.NewNewsFetcher(src,
		datasource.WithThrottle(infra.NewThrottle(cfg.News.Delay, cfg.News.RateLimit, cfg.News.RateWindow)),
		datasource.WithFailurePolicy(datasource.ParseFailurePolicy(cfg.News.OnError)),
		datasource.WithClock(p.now),
		datasource.WithLogger(p.log),
		datasource.WithProgress(p.dayProgress),
	)
	return p, nil
}
