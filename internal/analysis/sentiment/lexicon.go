package sentiment

import (
	"context"
	"math"
	"strings"

	"github.com/seenimoa/sentitrack/pkg/models"
)

// ------------------------------------------------------------------
// Keyword-based classifier (offline, no model needed).
// Deterministic; used when no hosted model is configured and in tests.
// ------------------------------------------------------------------

// positive / negative keyword dictionaries (lowercase).
var positiveWords = map[string]float64{
	"bullish": 0.7, "rally": 0.6, "surge": 0.7, "soar": 0.7, "jump": 0.5,
	"upbeat": 0.5, "growth": 0.4, "upgrade": 0.6, "outperform": 0.6,
	"strong": 0.4, "recovery": 0.5, "record high": 0.7, "beat": 0.5,
	"exceeds": 0.5, "expansion": 0.4, "profit": 0.3, "gain": 0.4,
}

var negativeWords = map[string]float64{
	"bearish": 0.7, "crash": 0.8, "plunge": 0.7, "slump": 0.6, "tumble": 0.6,
	"downgrade": 0.6, "underperform": 0.6, "weak": 0.4, "decline": 0.5,
	"loss": 0.4, "selloff": 0.7, "fall": 0.4, "recall": 0.5, "lawsuit": 0.5,
	"fraud": 0.8, "investigation": 0.5, "cut": 0.3, "miss": 0.5, "warning": 0.5,
}

// Lexicon classifies text by weighted keyword matches.
type Lexicon struct{}

// NewLexicon returns the keyword classifier.
func NewLexicon() Lexicon { return Lexicon{} }

func (Lexicon) Name() string { return "lexicon" }

// Classify never fails.
func (Lexicon) Classify(_ context.Context, text string) (models.Classification, error) {
	return classifyKeywords(text), nil
}

func classifyKeywords(text string) models.Classification {
	lower := strings.ToLower(text)

	pos, neg := 0.0, 0.0
	matches := 0
	for word, weight := range positiveWords {
		if strings.Contains(lower, word) {
			pos += weight
			matches++
		}
	}
	for word, weight := range negativeWords {
		if strings.Contains(lower, word) {
			neg += weight
			matches++
		}
	}

	if matches == 0 || pos == neg {
		return models.Classification{Label: models.LabelNeutral, Confidence: 0.5}
	}

	// Confidence grows with the net share of the winning side and the
	// number of matches.
	net := math.Abs(pos-neg) / (pos + neg)
	conf := math.Min(0.5+net*0.3+float64(matches)*0.05, 0.95)

	label := models.LabelPositive
	if neg > pos {
		label = models.LabelNegative
	}
	return models.Classification{Label: label, Confidence: conf}
}
