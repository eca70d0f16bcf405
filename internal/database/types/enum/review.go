package enum

// ReviewSentiment classifies a review's effect on the reviewee's reputation.
type ReviewSentiment int

const (
	ReviewSentimentNeutral ReviewSentiment = iota
	ReviewSentimentPositive
	ReviewSentimentNegative
)

// String returns the lowercase label for the sentiment.
func (s ReviewSentiment) String() string {
	switch s {
	case ReviewSentimentPositive:
		return "positive"
	case ReviewSentimentNegative:
		return "negative"
	case ReviewSentimentNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}
