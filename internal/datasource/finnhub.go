package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/seenimoa/sentitrack/pkg/models"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// FinnhubNews implements NewsSource over Finnhub's company-news endpoint.
// It searches by ticker rather than keyword.
type FinnhubNews struct {
	client *finnhub.DefaultApiService
}

// NewFinnhubNews creates a Finnhub news source. baseURL may be empty.
func NewFinnhubNews(apiKey, baseURL string) *FinnhubNews {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	cfg.HTTPClient = HTTPClient
	if baseURL != "" {
		cfg.Servers = finnhub.ServerConfigurations{{URL: strings.TrimRight(baseURL, "/") + "/api/v1"}}
	}
	return &FinnhubNews{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

// Name returns the data source name.
func (f *FinnhubNews) Name() string { return "Finnhub" }

// SearchDay returns company news for q.Ticker inside w.
func (f *FinnhubNews) SearchDay(ctx context.Context, q NewsQuery, w utils.DayWindow) ([]models.Article, error) {
	if q.Ticker == "" {
		return nil, fmt.Errorf("finnhub company news needs a ticker: %w", ErrNotSupported)
	}

	res, httpResp, err := f.client.CompanyNews(ctx).
		Symbol(q.Ticker).
		From(w.FromDay()).
		To(w.ToDay()).
		Execute()
	if err != nil {
		if httpResp != nil && httpResp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("finnhub company news: %w: %w", ErrRateLimited, err)
		}
		var apiErr *finnhub.GenericOpenAPIError
		if errors.As(err, &apiErr) && httpResp != nil {
			return nil, fmt.Errorf("finnhub company news: %w", &ErrHTTP{
				StatusCode: httpResp.StatusCode,
				Status:     httpResp.Status,
				Body:       string(apiErr.Body()),
			})
		}
		return nil, fmt.Errorf("finnhub company news: %w", err)
	}

	return parseFinnhubNews(res), nil
}

func parseFinnhubNews(res []finnhub.CompanyNews) []models.Article {
	articles := make([]models.Article, 0, len(res))
	for _, n := range res {
		headline := strings.TrimSpace(n.GetHeadline())
		if headline == "" || n.GetDatetime() == 0 {
			continue
		}
		articles = append(articles, models.Article{
			Date:   utils.FormatDay(time.Unix(n.GetDatetime(), 0).UTC()),
			Title:  headline,
			Source: n.GetSource(),
		})
	}
	return articles
}
