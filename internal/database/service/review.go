package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkdao/reputation/internal/database/dbretry"
	"github.com/linkdao/reputation/internal/database/models"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/events"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

var (
	// ErrInvalidRating indicates a rating outside the 1-5 range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrSelfReview indicates an actor reviewing themselves.
	ErrSelfReview = errors.New("reviewer and reviewee must differ")
	// ErrUnknownReviewee indicates a review for an actor that was never
	// registered.
	ErrUnknownReviewee = errors.New("reviewee is not a known actor")
)

// ReviewService handles review submission. Inserting a review is one of the
// two invocation points of the recalculation pipeline.
type ReviewService struct {
	db         *bun.DB
	reviews    *models.ReviewModel
	actors     *models.ActorModel
	dispatcher *events.Dispatcher
	logger     *zap.Logger
}

// NewReview creates a new review service.
func NewReview(
	db *bun.DB,
	reviews *models.ReviewModel,
	actors *models.ActorModel,
	dispatcher *events.Dispatcher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		db:         db,
		reviews:    reviews,
		actors:     actors,
		dispatcher: dispatcher,
		logger:     logger.Named("review_service"),
	}
}

// SubmitReview stores a review and dispatches the review-recorded event.
// The sentiment bucket is derived from the rating. A review for an unknown
// reviewee fails the whole insert.
func (s *ReviewService) SubmitReview(ctx context.Context, review *types.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidRating
	}

	if review.ReviewerKey == review.RevieweeKey {
		return ErrSelfReview
	}

	exists, err := s.actors.Exists(ctx, review.RevieweeKey)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownReviewee, review.RevieweeKey)
	}

	if review.ID == "" {
		review.ID = uuid.New().String()
	}

	review.Sentiment = types.SentimentFromRating(review.Rating)

	recorded := events.ReviewRecorded{
		ReviewID:    review.ID,
		OrderID:     review.OrderID,
		RevieweeKey: review.RevieweeKey,
		Rating:      review.Rating,
	}

	err = dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := s.reviews.Insert(ctx, tx, review); err != nil {
			return err
		}

		return s.dispatcher.Dispatch(ctx, tx, events.NameReviewRecorded, recorded)
	})
	if err != nil {
		return fmt.Errorf("failed to submit review: %w", err)
	}

	if err := s.dispatcher.Publish(ctx, events.NameReviewRecorded, recorded); err != nil {
		return fmt.Errorf("failed to deliver review recorded event: %w", err)
	}

	s.logger.Info("Submitted review",
		zap.String("reviewID", review.ID),
		zap.String("revieweeKey", review.RevieweeKey),
		zap.String("sentiment", review.Sentiment.String()))

	return nil
}

// GetOrderReviews retrieves the reviews left on an order.
func (s *ReviewService) GetOrderReviews(ctx context.Context, orderID string) ([]*types.Review, error) {
	return s.reviews.GetOrderReviews(ctx, orderID)
}
