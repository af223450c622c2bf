package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := map[int]Sentiment{
		0: SentimentNegative,
		1: SentimentNegative,
		2: SentimentNegative,
		3: SentimentNeutral,
		4: SentimentPositive,
		5: SentimentPositive,
	}
	for rating, want := range cases {
		assert.Equal(t, want, Classify(rating), "rating %d", rating)
	}
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Analytics{}, Summarize(nil))

	got := Summarize([]int{5, 4, 3, 1})
	assert.Equal(t, 4, got.TotalFeedbacks)
	assert.InDelta(t, 3.25, got.AverageRating, 1e-9)
	assert.Equal(t, 2, got.PositiveCount)
	assert.Equal(t, 1, got.NeutralCount)
	assert.Equal(t, 1, got.NegativeCount)
	assert.Equal(t, got.TotalFeedbacks, got.PositiveCount+got.NeutralCount+got.NegativeCount)
}
