package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/seenimoa/sentitrack/pkg/models"
	"github.com/seenimoa/sentitrack/pkg/utils"
)

// Artifact name suffixes, joined to the entity or ticker stem.
const (
	SuffixArticles   = "news_sentiment.csv"
	SuffixSummary    = "sentiment_summary.csv"
	SuffixPrices     = "stock_price.csv"
	SuffixComparison = "sentiment_vs_price.csv"
	SuffixTrendChart = "sentiment_trend.svg"
	SuffixCompChart  = "sentiment_vs_price.svg"
)

// Writer persists run artifacts under a single output directory.
type Writer struct {
	dir   string
	chart ChartConfig
}

// NewWriter creates a Writer rooted at dir; "" means the working directory.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir, chart: DefaultChartConfig()}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Path returns the artifact path for stem and suffix.
func (w *Writer) Path(stem, suffix string) string {
	return filepath.Join(w.dir, utils.ArtifactName(stem, suffix))
}

// create writes one artifact through fn and returns its path.
func (w *Writer) create(stem, suffix string, fn func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := w.Path(stem, suffix)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// Articles writes <entity>_news_sentiment.csv.
func (w *Writer) Articles(entity string, scored []models.ScoredArticle) (string, error) {
	return w.create(entity, SuffixArticles, func(out io.Writer) error { return WriteArticlesCSV(out, scored) })
}

// Summary writes <entity>_sentiment_summary.csv.
func (w *Writer) Summary(entity string, summary []models.DailySentiment) (string, error) {
	return w.create(entity, SuffixSummary, func(out io.Writer) error { return WriteSummaryCSV(out, summary) })
}

// Prices writes <ticker>_stock_price.csv.
func (w *Writer) Prices(ticker string, prices []models.DailyPrice) (string, error) {
	return w.create(ticker, SuffixPrices, func(out io.Writer) error { return WritePricesCSV(out, prices) })
}

// Comparison writes <entity>_sentiment_vs_price.csv.
func (w *Writer) Comparison(entity string, rows []models.ComparisonRow) (string, error) {
	return w.create(entity, SuffixComparison, func(out io.Writer) error { return WriteComparisonCSV(out, rows) })
}

// TrendChart writes <entity>_sentiment_trend.svg.
func (w *Writer) TrendChart(entity string, days int, summary []models.DailySentiment) (string, error) {
	return w.create(entity, SuffixTrendChart, func(out io.Writer) error {
		_, err := io.WriteString(out, TrendChart(entity, days, summary, w.chart))
		return err
	})
}

// ComparisonChart writes <entity>_sentiment_vs_price.svg.
func (w *Writer) ComparisonChart(entity string, rows []models.ComparisonRow) (string, error) {
	return w.create(entity, SuffixCompChart, func(out io.Writer) error {
		_, err := io.WriteString(out, ComparisonChart(entity, rows, w.chart))
		return err
	})
}
