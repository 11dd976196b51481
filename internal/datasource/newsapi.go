package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/seenimoa/sentitrack/pkg/models"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// NewsAPIConfig configures the NewsAPI "everything" search.
type NewsAPIConfig struct {
	APIKey   string
	BaseURL  string // default: https://newsapi.org
	Language string // default: en
	SortBy   string // default: publishedAt
	PageSize int    // default: 100 (the API maximum)
}

// NewsAPI implements NewsSource over https://newsapi.org/v2/everything.
type NewsAPI struct {
	cfg    NewsAPIConfig
	client *http.Client
}

// NewNewsAPI creates a NewsAPI source, filling unset fields with defaults.
func NewNewsAPI(cfg NewsAPIConfig) *NewsAPI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.SortBy == "" {
		cfg.SortBy = "publishedAt"
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		cfg.PageSize = 100
	}
	return &NewsAPI{cfg: cfg, client: HTTPClient}
}

// Name returns the data source name.
func (n *NewsAPI) Name() string { return "NewsAPI" }

// --- NewsAPI v2 types ---

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// SearchDay queries the everything endpoint for one window.
func (n *NewsAPI) SearchDay(ctx context.Context, q NewsQuery, w utils.DayWindow) ([]models.Article, error) {
	params := url.Values{}
	params.Set("q", q.Keyword)
	params.Set("from", w.FromDay())
	params.Set("to", w.ToDay())
	params.Set("language", n.cfg.Language)
	params.Set("sortBy", n.cfg.SortBy)
	params.Set("pageSize", strconv.Itoa(n.cfg.PageSize))
	params.Set("apiKey", n.cfg.APIKey)

	body, err := doGet(ctx, n.client, n.cfg.BaseURL+"/v2/everything?"+params.Encode(), map[string]string{
		"Accept": "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("newsapi everything: %w", err)
	}
	defer body.Close()

	var resp newsAPIResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("parse newsapi response: %w", err)
	}
	if resp.Status == "error" {
		return nil, &ErrAPI{Provider: "newsapi", Code: resp.Code, Message: resp.Message}
	}

	return parseNewsAPIArticles(resp.Articles), nil
}

// parseNewsAPIArticles keeps articles with a title and a valid publish day.
func parseNewsAPIArticles(raw []newsAPIArticle) []models.Article {
	articles := make([]models.Article, 0, len(raw))
	for _, a := range raw {
		if strings.TrimSpace(a.Title) == "" {
			continue
		}
		day, err := utils.DayFromTimestamp(a.PublishedAt)
		if err != nil {
			continue
		}
		articles = append(articles, models.Article{
			Date:   day,
			Title:  a.Title,
			Source: a.Source.Name,
		})
	}
	return articles
}
