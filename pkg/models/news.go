// Package models defines the core data structures used throughout sentitrack.
package models

// Article is one retrieved news item, reduced to the fields the tracker uses.
type Article struct {
	Date   string `json:"date"` // calendar day, "2006-01-02"
	Title  string `json:"title"`
	Source string `json:"source"` // publisher name, e.g. "Reuters"
}

// ScoredArticle is an Article with its signed headline sentiment attached.
type ScoredArticle struct {
	Article
	SentimentScore float64 `json:"sentiment_score"` // -1.0 to +1.0
}

// DayFailure records a news sub-window whose query failed.
type DayFailure struct {
	From string `json:"from"`
	To   string `json:"to"`
	Err  string `json:"error"`
}
