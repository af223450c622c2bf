package domain

// Sentiment buckets a rating.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Classify maps a rating to its sentiment. Anything below 3, including an
// unrated 0, counts as negative.
func Classify(rating int) Sentiment {
	switch {
	case rating >= 4:
		return SentimentPositive
	case rating == 3:
		return SentimentNeutral
	default:
		return SentimentNegative
	}
}

// Analytics summarizes the ratings of a feedback set.
type Analytics struct {
	TotalFeedbacks int
	AverageRating  float64
	PositiveCount  int
	NegativeCount  int
	NeutralCount   int
}

// Summarize computes analytics over ratings. The empty set yields zeros.
func Summarize(ratings []int) Analytics {
	result := Analytics{TotalFeedbacks: len(ratings)}
	if len(ratings) == 0 {
		return result
	}
	sum := 0
	for _, r := range ratings {
		sum += r
		switch Classify(r) {
		case SentimentPositive:
			result.PositiveCount++
		case SentimentNeutral:
			result.NeutralCount++
		default:
			result.NegativeCount++
		}
	}
	result.AverageRating = float64(sum) / float64(len(ratings))
	return result
}

// SummarizeFeedbacks is Summarize over the ratings of feedbacks.
func SummarizeFeedbacks(feedbacks []Feedback) Analytics {
	ratings := make([]int, len(feedbacks))
	for i, f := range feedbacks {
		ratings[i] = f.Rating
	}
	return Summarize(ratings)
}
