// Package sentiment classifies news headlines and turns each class into a
// signed score in [-1, +1].
//
// A Classifier returns the single best class with its confidence. The
// Scorer maps that to a score: positive is +confidence, negative is
// -confidence and neutral is 0.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/seenimoa/sentitrack/internal/infra"
	"github.com/seenimoa/sentitrack/pkg/models"
)

// Common errors.
var (
	ErrUnknownLabel  = errors.New("sentiment: unknown label")
	ErrEmptyResponse = errors.New("sentiment: empty classifier response")
	ErrNoAPIKey      = errors.New("sentiment: API key not configured")
)

// Classifier assigns one of positive, negative or neutral to a text.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (models.Classification, error)
}

// SignedScore maps a classification to [-1, +1]. Confidence outside [0, 1]
// is clamped so the result is always bounded.
func SignedScore(c models.Classification) float64 {
	conf := c.Confidence
	switch {
	case conf < 0:
		conf = 0
	case conf > 1:
		conf = 1
	}
	switch c.Label {
	case models.LabelPositive:
		return conf
	case models.LabelNegative:
		return -conf
	default:
		return 0
	}
}

// Scorer attaches a signed sentiment score to every article title.
type Scorer struct {
	classifier Classifier
	log        *slog.Logger
}

// NewScorer creates a Scorer over c. A nil logger discards output.
func NewScorer(c Classifier, log *slog.Logger) *Scorer {
	if log == nil {
		log = infra.Discard()
	}
	return &Scorer{classifier: c, log: log}
}

// Classifier returns the underlying classifier.
func (s *Scorer) Classifier() Classifier { return s.classifier }

// ScoreText classifies one text and returns its signed score.
func (s *Scorer) ScoreText(ctx context.Context, text string) (float64, models.Classification, error) {
	c, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return 0, models.Classification{}, err
	}
	return SignedScore(c), c, nil
}

// Score classifies each title in order, one call per article. The first
// classifier error aborts and is returned with the failing title.
func (s *Scorer) Score(ctx context.Context, articles []models.Article) ([]models.ScoredArticle, error) {
	scored := make([]models.ScoredArticle, 0, len(articles))
	for i, a := range articles {
		score, c, err := s.ScoreText(ctx, a.Title)
		if err != nil {
			return nil, fmt.Errorf("%s: classify article %d %q: %w", s.classifier.Name(), i, a.Title, err)
		}
		s.log.Debug("scored headline", "date", a.Date, "label", c.Label, "confidence", c.Confidence, "score", score)
		scored = append(scored, models.ScoredArticle{Article: a, SentimentScore: score})
	}
	return scored, nil
}
