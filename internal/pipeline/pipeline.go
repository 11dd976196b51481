// Package pipeline runs one sentiment-vs-price comparison end to end:
// fetch news per day, score headlines, aggregate daily means, fetch closes
// for the same window, join on date and persist the results.
//
// A run is strictly sequential. Empty news halts it before scoring, before
// the price fetch and before any file is written.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/seenimoa/sentitrack/internal/analysis/comparison"
	"github.com/seenimoa/sentitrack/internal/analysis/sentiment"
	"github.com/seenimoa/sentitrack/internal/datasource"
	"github.com/seenimoa/sentitrack/internal/infra"
	"github.com/seenimoa/sentitrack/internal/report"
	"github.com/seenimoa/sentitrack/pkg/models"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeComplete    Outcome = "complete"
	OutcomeNoNews      Outcome = "no_news"      // every day query succeeded, nothing matched
	OutcomeFetchFailed Outcome = "fetch_failed" // no articles and at least one day query failed
)

// Input errors.
var (
	ErrNoEntity = errors.New("pipeline: entity is required")
	ErrNoTicker = errors.New("pipeline: ticker is required")
	ErrNoDays   = errors.New("pipeline: days must be positive")
)

// Target is what a run tracks.
type Target struct {
	Entity string `json:"entity"` // news search keyword
	Ticker string `json:"ticker"` // market symbol
	Days   int    `json:"days"`
}

// Validate performs the emptiness checks a run needs.
func (t Target) Validate() error {
	switch {
	case t.Entity == "":
		return ErrNoEntity
	case t.Ticker == "":
		return ErrNoTicker
	case t.Days <= 0:
		return ErrNoDays
	}
	return nil
}

// Result carries every intermediate table of a run. Later stages are empty
// when the run halted early.
type Result struct {
	RunID      string                  `json:"run_id"`
	Target     Target                  `json:"target"`
	Outcome    Outcome                 `json:"outcome"`
	Articles   []models.Article        `json:"-"`
	Scored     []models.ScoredArticle  `json:"articles"`
	Summary    []models.DailySentiment `json:"summary"`
	Prices     []models.DailyPrice     `json:"prices"`
	Comparison []models.ComparisonRow  `json:"comparison"`
	Failures   []models.DayFailure     `json:"failures,omitempty"`
	Files      []string                `json:"files,omitempty"`
}

// Pipeline wires the stages together. It keeps no per-run state, so one
// Pipeline may serve concurrent runs when its output writer allows it.
type Pipeline struct {
	news   *datasource.NewsFetcher
	prices datasource.PriceSource
	scorer *sentiment.Scorer
	writer *report.Writer // nil: nothing is written to disk
	charts bool
	out    io.Writer
	log    *slog.Logger
	now    func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOutput sets where human-readable progress lines go.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithWriter enables CSV output through w, and SVG charts when charts is
// set. A nil w disables all file output.
func WithWriter(w *report.Writer, charts bool) Option {
	return func(p *Pipeline) { p.writer, p.charts = w, charts }
}

// WithClock overrides the current time used for the price window.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline from its stages.
func New(news *datasource.NewsFetcher, prices datasource.PriceSource, scorer *sentiment.Scorer, opts ...Option) *Pipeline {
	p := &Pipeline{
		news:   news,
		prices: prices,
		scorer: scorer,
		out:    io.Discard,
		log:    infra.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Scorer returns the headline scorer.
func (p *Pipeline) Scorer() *sentiment.Scorer { return p.scorer }

// Sources names the configured backends.
func (p *Pipeline) Sources() (news, prices, classifier string) {
	return p.news.Source().Name(), p.prices.Name(), p.scorer.Classifier().Name()
}

func (p *Pipeline) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// dayProgress is the news fetcher's per-day callback.
func (p *Pipeline) dayProgress(w utils.DayWindow) {
	p.printf("   Fetching news for %s → %s\n", w.FromDay(), w.ToDay())
}

// Run executes one comparison for t.
func (p *Pipeline) Run(ctx context.Context, t Target) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString(), Target: t}
	log := p.log.With("run_id", res.RunID, "entity", t.Entity, "ticker", t.Ticker)
	start := time.Now()
	log.Info("run started", "days", t.Days, "news_source", p.news.Source().Name())

	// 1. News
	p.printf("🔍 Fetching multi-day news for %s...\n", t.Entity)
	news, err := p.news.Fetch(ctx, datasource.NewsQuery{Keyword: t.Entity, Ticker: t.Ticker}, t.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	res.Articles = news.Articles
	res.Failures = news.Failures
	p.printf("✅ Got %d articles.\n", len(res.Articles))

	if len(res.Articles) == 0 {
		res.Outcome = OutcomeNoNews
		if news.Failed() {
			res.Outcome = OutcomeFetchFailed
			p.printf("⚠️  No news articles retrieved: %d of %d day queries failed.\n", len(news.Failures), t.Days)
		} else {
			p.printf("⚠️  No news articles found. Try different keywords or increase --days.\n")
		}
		log.Warn("run halted", "outcome", res.Outcome, "failed_days", len(news.Failures))
		return res, nil
	}
	if news.Failed() {
		p.printf("⚠️  %d of %d day queries failed; continuing with the rest.\n", len(news.Failures), t.Days)
	}

	// 2. Sentiment
	p.printf("🧠 Running %s sentiment analysis...\n", p.scorer.Classifier().Name())
	res.Scored, err = p.scorer.Score(ctx, res.Articles)
	if err != nil {
		return res, fmt.Errorf("score headlines: %w", err)
	}

	// 3. Daily summary
	p.printf("📊 Creating daily summary...\n")
	res.Summary = comparison.DailyAverages(res.Scored)
	if p.writer != nil {
		if err := p.save(res, func() (string, error) { return p.writer.Articles(t.Entity, res.Scored) }); err != nil {
			return res, err
		}
		if err := p.save(res, func() (string, error) { return p.writer.Summary(t.Entity, res.Summary) }); err != nil {
			return res, err
		}
		if p.charts {
			if err := p.save(res, func() (string, error) { return p.writer.TrendChart(t.Entity, t.Days, res.Summary) }); err != nil {
				return res, err
			}
		}
		p.printf("💾 Results saved.\n")
	}

	// 4. Prices
	p.printf("📉 Fetching %s stock prices for comparison...\n", t.Ticker)
	from, to := utils.Lookback(p.now(), t.Days)
	res.Prices, err = p.prices.DailyCloses(ctx, t.Ticker, from, to)
	if err != nil {
		return res, fmt.Errorf("fetch prices: %w", err)
	}
	if p.writer != nil {
		if err := p.save(res, func() (string, error) { return p.writer.Prices(t.Ticker, res.Prices) }); err != nil {
			return res, err
		}
	}

	// 5. Join
	p.printf("📊 Comparing sentiment with real price movement...\n")
	res.Comparison = comparison.OuterJoin(res.Summary, res.Prices)
	if err := report.PrintTable(p.out, res.Comparison); err != nil {
		return res, fmt.Errorf("print comparison: %w", err)
	}
	if p.writer != nil {
		if p.charts {
			if err := p.save(res, func() (string, error) { return p.writer.ComparisonChart(t.Entity, res.Comparison) }); err != nil {
				return res, err
			}
		}
		if err := p.save(res, func() (string, error) { return p.writer.Comparison(t.Entity, res.Comparison) }); err != nil {
			return res, err
		}
		p.printf("✅ Comparison complete. Files saved.\n")
	} else {
		p.printf("✅ Comparison complete.\n")
	}

	res.Outcome = OutcomeComplete
	log.Info("run complete",
		"articles", len(res.Scored), "days_with_news", len(res.Summary),
		"trading_days", len(res.Prices), "rows", len(res.Comparison),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// save runs one artifact write and records its path.
func (p *Pipeline) save(res *Result, write func() (string, error)) error {
	path, err := write()
	if err != nil {
		return err
	}
	res.Files = append(res.Files, path)
	return nil
}
