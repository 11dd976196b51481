package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seenimoa/sentitrack/internal/infra"
	"github.com/seenimoa/sentitrack/pkg/models"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// stubNews returns canned articles keyed by the window's upper day.
type stubNews struct {
	byDay   map[string][]models.Article
	failing map[string]error
	calls   []utils.DayWindow
}

func (s *stubNews) Name() string { return "stub" }

func (s *stubNews) SearchDay(_ context.Context, _ NewsQuery, w utils.DayWindow) ([]models.Article, error) {
	s.calls = append(s.calls, w)
	if err := s.failing[w.ToDay()]; err != nil {
		return nil, err
	}
	return s.byDay[w.ToDay()], nil
}

// countingThrottle records how often Wait was called.
type countingThrottle struct{ n int }

func (c *countingThrottle) Wait(ctx context.Context) error { c.n++; return ctx.Err() }

var fixedNow = func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) }

func TestNewsFetcherConcatenatesDays(t *testing.T) {
	src := &stubNews{byDay: map[string][]models.Article{
		"2024-01-03": {{Date: "2024-01-03", Title: "a", Source: "X"}},
		"2024-01-02": {{Date: "2024-01-02", Title: "b", Source: "Y"}, {Date: "2024-01-01", Title: "c", Source: "Y"}},
	}}
	th := &countingThrottle{}
	f := NewNewsFetcher(src, WithThrottle(th), WithClock(fixedNow))

	res, err := f.Fetch(context.Background(), NewsQuery{Keyword: "Tesla"}, 3)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(res.Articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(res.Articles))
	}
	if res.Failed() {
		t.Errorf("unexpected failures: %+v", res.Failures)
	}
	if len(src.calls) != 3 {
		t.Errorf("expected 3 day queries, got %d", len(src.calls))
	}
	if th.n != 3 {
		t.Errorf("expected a pause after each of 3 queries, got %d", th.n)
	}
	if src.calls[0].ToDay() != "2024-01-03" || src.calls[2].FromDay() != "2023-12-31" {
		t.Errorf("unexpected windows: first %s, last from %s", src.calls[0].ToDay(), src.calls[2].FromDay())
	}
}

func TestNewsFetcherZeroMatches(t *testing.T) {
	f := NewNewsFetcher(&stubNews{}, WithThrottle(infra.NoDelay{}), WithClock(fixedNow))
	res, err := f.Fetch(context.Background(), NewsQuery{Keyword: "nobody"}, 2)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(res.Articles) != 0 || res.Failed() {
		t.Errorf("expected empty, non-failed result, got %+v", res)
	}
}

func TestNewsFetcherFailFast(t *testing.T) {
	boom := errors.New("boom")
	src := &stubNews{failing: map[string]error{"2024-01-02": boom}}
	f := NewNewsFetcher(src, WithThrottle(infra.NoDelay{}), WithClock(fixedNow))

	_, err := f.Fetch(context.Background(), NewsQuery{Keyword: "Tesla"}, 3)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if len(src.calls) != 2 {
		t.Errorf("expected fetch to stop at the failing day, got %d calls", len(src.calls))
	}
}

func TestNewsFetcherSkipDayRecordsFailure(t *testing.T) {
	src := &stubNews{
		byDay:   map[string][]models.Article{"2024-01-03": {{Date: "2024-01-03", Title: "a"}}},
		failing: map[string]error{"2024-01-02": ErrRateLimited},
	}
	f := NewNewsFetcher(src, WithThrottle(infra.NoDelay{}), WithClock(fixedNow), WithFailurePolicy(SkipDay))

	res, err := f.Fetch(context.Background(), NewsQuery{Keyword: "Tesla"}, 3)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(res.Articles) != 1 {
		t.Errorf("expected 1 article, got %d", len(res.Articles))
	}
	if len(res.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(res.Failures))
	}
	if res.Failures[0].From != "2024-01-01" || res.Failures[0].To != "2024-01-02" {
		t.Errorf("failure window = %+v", res.Failures[0])
	}
	if len(src.calls) != 3 {
		t.Errorf("skip policy should query every day, got %d calls", len(src.calls))
	}
}

func TestNewsFetcherProgress(t *testing.T) {
	var seen []string
	f := NewNewsFetcher(&stubNews{}, WithThrottle(infra.NoDelay{}), WithClock(fixedNow),
		WithProgress(func(w utils.DayWindow) { seen = append(seen, w.FromDay()+"→"+w.ToDay()) }))
	if _, err := f.Fetch(context.Background(), NewsQuery{}, 2); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != "2024-01-02→2024-01-03" {
		t.Errorf("progress = %v", seen)
	}
}

func TestNewsFetcherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewNewsFetcher(&stubNews{}, WithThrottle(infra.FixedDelay(time.Hour)), WithClock(fixedNow),
		WithFailurePolicy(SkipDay))
	if _, err := f.Fetch(ctx, NewsQuery{}, 2); err == nil {
		t.Error("expected context error")
	}
}

func TestNewsFetcherRateLimit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	within := NewNewsFetcher(&stubNews{}, WithThrottle(infra.NewThrottle(time.Second, 3, time.Hour)), WithClock(fixedNow))
	if _, err := within.Fetch(ctx, NewsQuery{Keyword: "Tesla"}, 3); err != nil {
		t.Fatalf("3 queries within a burst of 3 should not wait: %v", err)
	}

	src := &stubNews{}
	over := NewNewsFetcher(src, WithThrottle(infra.NewThrottle(time.Second, 2, time.Hour)), WithClock(fixedNow))
	if _, err := over.Fetch(ctx, NewsQuery{Keyword: "Tesla"}, 3); err == nil {
		t.Fatal("expected the third pause to exceed the deadline")
	}
	if len(src.calls) != 3 {
		t.Errorf("expected 3 day queries before the limiter blocked, got %d", len(src.calls))
	}
}

func TestParseFailurePolicy(t *testing.T) {
	if ParseFailurePolicy("skip") != SkipDay {
		t.Error("skip should map to SkipDay")
	}
	for _, s := range []string{"fail", "", "whatever"} {
		if ParseFailurePolicy(s) != FailFast {
			t.Errorf("%q should map to FailFast", s)
		}
	}
}
