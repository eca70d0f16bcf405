package types

import (
	"time"

	"github.com/linkdao/reputation/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Review is a buyer's rating of a completed order. Inserting a review for a
// non-existent reviewee fails the whole insert at the database level.
type Review struct {
	bun.BaseModel `bun:"table:reviews"`

	ID          string               `bun:",pk"      json:"id"`
	OrderID     string               `bun:",notnull" json:"orderId"`
	ReviewerKey string               `bun:",notnull" json:"reviewerKey"`
	RevieweeKey string               `bun:",notnull" json:"revieweeKey"`
	Rating      int32                `bun:",notnull" json:"rating"`
	Sentiment   enum.ReviewSentiment `bun:",notnull" json:"sentiment"`
	Title       string               `bun:""         json:"title"`
	Body        string               `bun:""         json:"body"`
	CreatedAt   time.Time            `bun:",notnull" json:"createdAt"`
}

// SentimentFromRating maps a 1-5 star rating onto a sentiment bucket.
func SentimentFromRating(rating int32) enum.ReviewSentiment {
	switch {
	case rating >= 4:
		return enum.ReviewSentimentPositive
	case rating == 3:
		return enum.ReviewSentimentNeutral
	default:
		return enum.ReviewSentimentNegative
	}
}

// EventTypeForSentiment returns the scoring event label a review sentiment
// maps to.
func EventTypeForSentiment(sentiment enum.ReviewSentiment) string {
	switch sentiment {
	case enum.ReviewSentimentPositive:
		return EventTypePositiveReview
	case enum.ReviewSentimentNegative:
		return EventTypeNegativeReview
	default:
		return EventTypeNeutralReview
	}
}
