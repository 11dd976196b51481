package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/sentitrack/pkg/models"
)

func scoredOn(date string, score float64) models.ScoredArticle {
	return models.ScoredArticle{Article: models.Article{Date: date, Title: "t"}, SentimentScore: score}
}

func f(v float64) *float64 { return &v }

func TestDailyAverages(t *testing.T) {
	scored := []models.ScoredArticle{
		scoredOn("2024-01-02", 0.5),
		scoredOn("2024-01-01", 0.8),
		scoredOn("2024-01-01", -0.2),
		scoredOn("2024-01-01", 0.0),
	}

	got := DailyAverages(scored)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01", got[0].Date)
	assert.Equal(t, 0.2, got[0].AvgSentiment)
	assert.Equal(t, 3, got[0].Articles)
	assert.Equal(t, "2024-01-02", got[1].Date)
	assert.Equal(t, 0.5, got[1].AvgSentiment)
	assert.Equal(t, 1, got[1].Articles)
}

func TestDailyAveragesSingleArticle(t *testing.T) {
	got := DailyAverages([]models.ScoredArticle{scoredOn("2024-03-05", -0.73)})
	require.Len(t, got, 1)
	assert.Equal(t, -0.73, got[0].AvgSentiment)
}

func TestDailyAveragesEmpty(t *testing.T) {
	assert.Empty(t, DailyAverages(nil))
}

func TestDailyAveragesUniqueDates(t *testing.T) {
	var scored []models.ScoredArticle
	for _, d := range []string{"2024-01-03", "2024-01-01", "2024-01-03", "2024-01-02", "2024-01-01"} {
		scored = append(scored, scoredOn(d, 0.1))
	}
	got := DailyAverages(scored)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Date, got[i].Date)
	}
}

func TestOuterJoin(t *testing.T) {
	summary := []models.DailySentiment{
		{Date: "2024-01-01", AvgSentiment: 0.2},
		{Date: "2024-01-02", AvgSentiment: -0.1},
	}
	prices := []models.DailyPrice{
		{Date: "2024-01-02", Close: 100.0},
		{Date: "2024-01-03", Close: 101.5},
	}

	got := OuterJoin(summary, prices)

	want := []models.ComparisonRow{
		{Date: "2024-01-01", AvgSentiment: f(0.2)},
		{Date: "2024-01-02", AvgSentiment: f(-0.1), Close: f(100.0)},
		{Date: "2024-01-03", Close: f(101.5)},
	}
	assert.Equal(t, want, got)
	assert.False(t, got[0].HasClose())
	assert.False(t, got[2].HasSentiment())
}

func TestOuterJoinCommutative(t *testing.T) {
	summary := []models.DailySentiment{
		{Date: "2024-01-05", AvgSentiment: 0.4},
		{Date: "2024-01-02", AvgSentiment: 0.1},
	}
	prices := []models.DailyPrice{
		{Date: "2024-01-03", Close: 10},
		{Date: "2024-01-05", Close: 12},
	}

	forward := OuterJoin(summary, prices)

	// Input order on either side does not change the result.
	reversedSummary := []models.DailySentiment{summary[1], summary[0]}
	reversedPrices := []models.DailyPrice{prices[1], prices[0]}
	backward := OuterJoin(reversedSummary, reversedPrices)

	assert.Equal(t, forward, backward)
	require.Len(t, forward, 3)
	assert.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-05"},
		[]string{forward[0].Date, forward[1].Date, forward[2].Date})
}

func TestOuterJoinEmptySides(t *testing.T) {
	assert.Empty(t, OuterJoin(nil, nil))

	onlyPrices := OuterJoin(nil, []models.DailyPrice{{Date: "2024-01-01", Close: 5}})
	require.Len(t, onlyPrices, 1)
	assert.Nil(t, onlyPrices[0].AvgSentiment)

	onlySentiment := OuterJoin([]models.DailySentiment{{Date: "2024-01-01", AvgSentiment: 0}}, nil)
	require.Len(t, onlySentiment, 1)
	require.NotNil(t, onlySentiment[0].AvgSentiment)
	assert.Equal(t, 0.0, *onlySentiment[0].AvgSentiment)
	assert.Nil(t, onlySentiment[0].Close)
}
