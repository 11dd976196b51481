package models

// DailyPrice is the closing price for one trading day.
type DailyPrice struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// ComparisonRow is one date of the merged sentiment/price table.
// A nil field means the date had no value on that side of the join.
type ComparisonRow struct {
	Date         string   `json:"date"`
	AvgSentiment *float64 `json:"avg_sentiment"`
	Close        *float64 `json:"close"`
}

// HasSentiment reports whether the row carries a sentiment value.
func (r ComparisonRow) HasSentiment() bool { return r.AvgSentiment != nil }

// HasClose reports whether the row carries a closing price.
func (r ComparisonRow) HasClose() bool { return r.Close != nil }
