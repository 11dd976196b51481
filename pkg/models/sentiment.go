package models

import "strings"

// Label is the class a sentiment classifier assigns to a piece of text.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

// ParseLabel normalizes a classifier label ("Positive", " NEGATIVE ") and
// reports whether it is one of the three known classes.
func ParseLabel(s string) (Label, bool) {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LabelPositive, LabelNegative, LabelNeutral:
		return l, true
	}
	return "", false
}

// Classification is the single best class returned for a text.
type Classification struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"score"` // 0.0 to 1.0
}

// DailySentiment is the mean headline sentiment for one calendar day.
type DailySentiment struct {
	Date         string  `json:"date"`
	AvgSentiment float64 `json:"avg_sentiment"`
	Articles     int     `json:"articles"`
}
