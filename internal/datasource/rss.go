package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/sentitrack/pkg/models"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// GoogleNewsConfig configures the Google News RSS search source.
type GoogleNewsConfig struct {
	BaseURL  string // default: https://news.google.com
	Language string // default: en
	Region   string // default: US
}

// GoogleNews implements NewsSource over the Google News RSS search feed.
// It needs no API key. Day bounds are expressed with after:/before:
// search operators.
type GoogleNews struct {
	cfg    GoogleNewsConfig
	client *http.Client
	parser *gofeed.Parser
}

// NewGoogleNews creates a Google News RSS source.
func NewGoogleNews(cfg GoogleNewsConfig) *GoogleNews {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://news.google.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Region == "" {
		cfg.Region = "US"
	}
	return &GoogleNews{cfg: cfg, client: HTTPClient, parser: gofeed.NewParser()}
}

// Name returns the data source name.
func (g *GoogleNews) Name() string { return "Google News" }

// SearchDay fetches and parses the RSS search feed for one window.
func (g *GoogleNews) SearchDay(ctx context.Context, q NewsQuery, w utils.DayWindow) ([]models.Article, error) {
	body, err := doGet(ctx, g.client, g.searchURL(q.Keyword, w), map[string]string{
		"Accept": "application/rss+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, fmt.Errorf("google news rss: %w", err)
	}
	defer body.Close()

	feed, err := g.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse google news rss: %w", err)
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.PublishedParsed == nil {
			continue
		}
		title, source := splitPublisher(cleanHTML(item.Title))
		if title == "" {
			continue
		}
		if source == "" {
			source = g.Name()
		}
		articles = append(articles, models.Article{
			Date:   utils.FormatDay(item.PublishedParsed.UTC()),
			Title:  title,
			Source: source,
		})
	}
	return articles, nil
}

func (g *GoogleNews) searchURL(keyword string, w utils.DayWindow) string {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s after:%s before:%s", keyword, w.FromDay(), w.ToDay()))
	params.Set("hl", g.cfg.Language+"-"+g.cfg.Region)
	params.Set("gl", g.cfg.Region)
	params.Set("ceid", g.cfg.Region+":"+g.cfg.Language)
	return g.cfg.BaseURL + "/rss/search?" + params.Encode()
}

// splitPublisher splits Google News' "Headline - Publisher" titles.
func splitPublisher(title string) (headline, publisher string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}

// cleanHTML strips HTML tags and decodes entities using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
