// Package datasource fetches the raw inputs of the tracker: news headlines
// per day from a search backend and daily closing prices from a market-data
// service. Transport failures and non-2xx responses are always errors;
// a query that legitimately matches nothing returns an empty slice.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/seenimoa/sentitrack/pkg/models"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// NewsQuery identifies what to search for. Keyword backends use Keyword;
// symbol backends (Finnhub) use Ticker.
type NewsQuery struct {
	Keyword string
	Ticker  string
}

// NewsSource searches one single-day window.
type NewsSource interface {
	// Name returns the human-readable name of this source.
	Name() string

	// SearchDay returns every article published inside w.
	SearchDay(ctx context.Context, q NewsQuery, w utils.DayWindow) ([]models.Article, error)
}

// PriceSource returns daily closing prices.
type PriceSource interface {
	// Name returns the human-readable name of this source.
	Name() string

	// DailyCloses returns one record per trading day in [from, to], oldest first.
	DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]models.DailyPrice, error)
}

// --- Sentinel errors ---

// ErrNotSupported is returned when a source cannot serve a request shape.
var ErrNotSupported = errors.New("operation not supported by this data source")

// ErrTickerNotFound is returned when a ticker cannot be resolved.
var ErrTickerNotFound = errors.New("ticker not found")

// ErrRateLimited is returned when a source rate-limits the request.
var ErrRateLimited = errors.New("rate limited by data source")

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// ErrAPI is an error reported inside a successful HTTP response body.
type ErrAPI struct {
	Provider string
	Code     string
	Message  string
}

func (e *ErrAPI) Error() string {
	return fmt.Sprintf("%s API error %s: %s", e.Provider, e.Code, e.Message)
}

// --- Shared HTTP client helpers ---

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// HTTPClient is a pre-configured HTTP client with reasonable timeouts.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// doGet performs a GET request with the given URL and headers, returning the response body.
// The caller is responsible for closing the returned ReadCloser.
// A 429 status wraps both ErrRateLimited and *ErrHTTP.
func doGet(ctx context.Context, client *http.Client, url string, headers map[string]string) (io.ReadCloser, error) {
	if client == nil {
		client = HTTPClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		// *url.Error repeats the raw URL, credentials included.
		var uerr *neturl.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("HTTP GET %s: %w", redact(url), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		httpErr := &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %w", ErrRateLimited, httpErr)
		}
		return nil, httpErr
	}

	return resp.Body, nil
}
