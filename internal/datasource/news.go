package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/seenimoa/sentitrack/internal/infra"
	"github.com/seenimoa/sentitrack/pkg/models"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// FailurePolicy decides what a failed day query does to the whole fetch.
type FailurePolicy string

const (
	// FailFast aborts the fetch with the first day's error.
	FailFast FailurePolicy = "fail"
	// SkipDay records the failure and treats the day as having no articles.
	SkipDay FailurePolicy = "skip"
)

// ParseFailurePolicy maps a config value to a policy; unknown values fail fast.
func ParseFailurePolicy(s string) FailurePolicy {
	if FailurePolicy(s) == SkipDay {
		return SkipDay
	}
	return FailFast
}

// NewsResult is the outcome of a multi-day news fetch. An empty Articles
// slice with no Failures means nothing matched; an empty slice with
// Failures means the searches themselves failed.
type NewsResult struct {
	Articles []models.Article
	Failures []models.DayFailure
}

// Failed reports whether any day query failed.
func (r *NewsResult) Failed() bool { return len(r.Failures) > 0 }

// NewsFetcher walks one-day windows backward from now and searches each.
type NewsFetcher struct {
	source   NewsSource
	throttle infra.Throttle
	policy   FailurePolicy
	now      func() time.Time
	log      *slog.Logger
	progress func(w utils.DayWindow)
}

// NewsFetcherOption configures a NewsFetcher.
type NewsFetcherOption func(*NewsFetcher)

// WithThrottle sets the pause inserted after each day query.
func WithThrottle(t infra.Throttle) NewsFetcherOption {
	return func(f *NewsFetcher) { f.throttle = t }
}

// WithFailurePolicy sets what a failed day query does.
func WithFailurePolicy(p FailurePolicy) NewsFetcherOption {
	return func(f *NewsFetcher) { f.policy = p }
}

// WithClock overrides the current time.
func WithClock(now func() time.Time) NewsFetcherOption {
	return func(f *NewsFetcher) { f.now = now }
}

// WithLogger sets the logger for per-day diagnostics.
func WithLogger(l *slog.Logger) NewsFetcherOption {
	return func(f *NewsFetcher) { f.log = l }
}

// WithProgress registers a callback invoked before each day query.
func WithProgress(fn func(w utils.DayWindow)) NewsFetcherOption {
	return func(f *NewsFetcher) { f.progress = fn }
}

// NewNewsFetcher creates a fetcher over source. Defaults: 1s fixed delay,
// fail-fast policy, wall clock.
func NewNewsFetcher(source NewsSource, opts ...NewsFetcherOption) *NewsFetcher {
	f := &NewsFetcher{
		source:   source,
		throttle: infra.FixedDelay(time.Second),
		policy:   FailFast,
		now:      time.Now,
		log:      infra.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Source returns the underlying news source.
func (f *NewsFetcher) Source() NewsSource { return f.source }

// Fetch issues one query per day for the last days days, newest first,
// pausing after each, and concatenates the results.
func (f *NewsFetcher) Fetch(ctx context.Context, q NewsQuery, days int) (*NewsResult, error) {
	result := &NewsResult{}
	for _, w := range utils.DayWindows(f.now(), days) {
		if f.progress != nil {
			f.progress(w)
		}

		articles, err := f.source.SearchDay(ctx, q, w)
		if err != nil {
			if ctx.Err() != nil || f.policy == FailFast {
				return nil, fmt.Errorf("%s news %s→%s: %w", f.source.Name(), w.FromDay(), w.ToDay(), err)
			}
			f.log.Warn("news day query failed",
				"source", f.source.Name(), "from", w.FromDay(), "to", w.ToDay(), "error", err)
			result.Failures = append(result.Failures, models.DayFailure{
				From: w.FromDay(), To: w.ToDay(), Err: err.Error(),
			})
		} else {
			f.log.Debug("news day query",
				"source", f.source.Name(), "from", w.FromDay(), "to", w.ToDay(), "articles", len(articles))
			result.Articles = append(result.Articles, articles...)
		}

		if err := f.throttle.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return result, nil
}
