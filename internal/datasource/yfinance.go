package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/seenimoa/sentitrack/pkg/models"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// YFinance implements PriceSource using the Yahoo Finance chart API.
type YFinance struct {
	baseURL string
	client  *http.Client
}

// NewYFinance creates a new Yahoo Finance data source. baseURL may be empty.
func NewYFinance(baseURL string) *YFinance {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &YFinance{baseURL: strings.TrimRight(baseURL, "/"), client: HTTPClient}
}

// Name returns the data source name.
func (y *YFinance) Name() string { return "Yahoo Finance" }

// --- Yahoo Finance v8 chart types ---

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Meta       yfChartMeta  `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Indicators yfIndicators `json:"indicators"`
}

type yfChartMeta struct {
	Symbol               string `json:"symbol"`
	Currency             string `json:"currency"`
	ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	GMTOffset            int    `json:"gmtoffset"` // seconds east of UTC
}

type yfIndicators struct {
	Quote []yfQuote `json:"quote"`
}

type yfQuote struct {
	Close []*float64 `json:"close"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// DailyCloses returns daily closes from the v8 chart API.
func (y *YFinance) DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]models.DailyPrice, error) {
	u := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history",
		y.baseURL, url.PathEscape(ticker), from.Unix(), to.Unix(),
	)

	body, err := doGet(ctx, y.client, u, map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		var httpErr *ErrHTTP
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return nil, fmt.Errorf("yfinance chart %s: %w", ticker, err)
	}
	defer body.Close()

	var resp yfChartResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("parse yfinance chart: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, &ErrAPI{Provider: "yfinance", Code: resp.Chart.Error.Code, Message: resp.Chart.Error.Description}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	return parseYFCloses(resp.Chart.Result[0]), nil
}

// --- Helpers ---

// parseYFCloses converts chart points to exchange-local calendar days.
// Points with a nil close are dropped; when two points fall on the same
// day (Yahoo appends the live bar) the later one wins.
func parseYFCloses(result yfChartResult) []models.DailyPrice {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	closes := result.Indicators.Quote[0].Close
	loc := exchangeLocation(result.Meta)

	prices := make([]models.DailyPrice, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		day := utils.FormatDay(time.Unix(ts, 0).In(loc))
		if n := len(prices); n > 0 && prices[n-1].Date == day {
			prices[n-1].Close = *closes[i]
			continue
		}
		prices = append(prices, models.DailyPrice{Date: day, Close: *closes[i]})
	}
	return prices
}

func exchangeLocation(meta yfChartMeta) *time.Location {
	if meta.ExchangeTimezoneName != "" {
		if loc, err := time.LoadLocation(meta.ExchangeTimezoneName); err == nil {
			return loc
		}
	}
	return time.FixedZone("exchange", meta.GMTOffset)
}
