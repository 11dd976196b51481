package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/seenimoa/sentitrack/pkg/models"
)

// CSV headers. Price columns keep the market-data "Close" spelling.
var (
	articlesHeader   = []string{"date", "title", "source", "sentiment_score"}
	summaryHeader    = []string{"date", "avg_sentiment"}
	pricesHeader     = []string{"date", "Close"}
	comparisonHeader = []string{"date", "avg_sentiment", "Close"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional renders nil as an empty cell.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// WriteArticlesCSV writes one row per scored article.
func WriteArticlesCSV(w io.Writer, scored []models.ScoredArticle) error {
	rows := make([][]string, 0, len(scored))
	for _, s := range scored {
		rows = append(rows, []string{s.Date, s.Title, s.Source, formatFloat(s.SentimentScore)})
	}
	return writeCSV(w, articlesHeader, rows)
}

// WriteSummaryCSV writes one row per day of the sentiment summary.
func WriteSummaryCSV(w io.Writer, summary []models.DailySentiment) error {
	rows := make([][]string, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []string{s.Date, formatFloat(s.AvgSentiment)})
	}
	return writeCSV(w, summaryHeader, rows)
}

// WritePricesCSV writes one row per trading day.
func WritePricesCSV(w io.Writer, prices []models.DailyPrice) error {
	rows := make([][]string, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, []string{p.Date, formatFloat(p.Close)})
	}
	return writeCSV(w, pricesHeader, rows)
}

// WriteComparisonCSV writes the merged table; missing values are empty cells.
func WriteComparisonCSV(w io.Writer, rows []models.ComparisonRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Date, formatOptional(r.AvgSentiment), formatOptional(r.Close)})
	}
	return writeCSV(w, comparisonHeader, out)
}
