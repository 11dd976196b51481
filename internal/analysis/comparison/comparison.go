// Package comparison aggregates scored headlines into daily means and joins
// them with daily closing prices on the calendar day.
package comparison

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/seenimoa/sentitrack/pkg/models"
)

// DailyAverages groups scored articles by Date and returns the arithmetic
// mean score per day, sorted ascending by Date. Every input date appears
// exactly once in the output.
func DailyAverages(scored []models.ScoredArticle) []models.DailySentiment {
	type bucket struct {
		sum   decimal.Decimal
		count int64
	}
	buckets := make(map[string]*bucket)
	for _, s := range scored {
		b, ok := buckets[s.Date]
		if !ok {
			b = &bucket{}
			buckets[s.Date] = b
		}
		b.sum = b.sum.Add(decimal.NewFromFloat(s.SentimentScore))
		b.count++
	}

	out := make([]models.DailySentiment, 0, len(buckets))
	for date, b := range buckets {
		mean, _ := b.sum.Div(decimal.NewFromInt(b.count)).Float64()
		out = append(out, models.DailySentiment{
			Date:         date,
			AvgSentiment: mean,
			Articles:     int(b.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// OuterJoin merges daily sentiment and prices on Date. Every date present
// on either side yields one row, sorted ascending; a side without a value
// for that date leaves its field nil.
func OuterJoin(summary []models.DailySentiment, prices []models.DailyPrice) []models.ComparisonRow {
	rows := make(map[string]*models.ComparisonRow, len(summary)+len(prices))
	row := func(date string) *models.ComparisonRow {
		r, ok := rows[date]
		if !ok {
			r = &models.ComparisonRow{Date: date}
			rows[date] = r
		}
		return r
	}

	for _, s := range summary {
		v := s.AvgSentiment
		row(s.Date).AvgSentiment = &v
	}
	for _, p := range prices {
		v := p.Close
		row(p.Date).Close = &v
	}

	out := make([]models.ComparisonRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
