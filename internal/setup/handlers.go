package setup

import (
	"context"

	"github.com/linkdao/reputation/internal/database"
	"github.com/linkdao/reputation/internal/database/service"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/events"
	"go.uber.org/zap"
)

// RegisterHandlers subscribes the recalculation pipeline to the domain
// events. Each handler applies the matching scoring rule and refreshes the
// denormalized metrics for the affected actors.
func RegisterHandlers(dispatcher *events.Dispatcher, db database.Client, logger *zap.Logger) {
	reputation := db.Service().Reputation()
	metrics := db.Service().Metrics()
	handlerLogger := logger.Named("event_handlers")

	dispatcher.Register(events.NameReviewRecorded, func(ctx context.Context, payload []byte) error {
		event, err := events.Decode[events.ReviewRecorded](payload)
		if err != nil {
			return err
		}

		eventType := types.EventTypeForSentiment(types.SentimentFromRating(event.Rating))

		_, err = reputation.ApplyEvent(ctx, event.RevieweeKey, eventType, &service.ApplyOptions{
			ReferenceID: event.ReviewID,
			Description: "review received on order " + event.OrderID,
		})
		if err != nil {
			return err
		}

		return refreshActors(ctx, metrics, handlerLogger, event.RevieweeKey)
	})

	dispatcher.Register(events.NameOrderCompleted, func(ctx context.Context, payload []byte) error {
		event, err := events.Decode[events.OrderCompleted](payload)
		if err != nil {
			return err
		}

		for _, actorKey := range []string{event.BuyerKey, event.SellerKey} {
			_, err = reputation.ApplyEvent(ctx, actorKey, types.EventTypeOrderCompleted, &service.ApplyOptions{
				ReferenceID: event.OrderID,
				Description: "order completed",
			})
			if err != nil {
				return err
			}
		}

		return refreshActors(ctx, metrics, handlerLogger, event.BuyerKey, event.SellerKey)
	})

	dispatcher.Register(events.NameDisputeOpened, func(ctx context.Context, payload []byte) error {
		event, err := events.Decode[events.DisputeOpened](payload)
		if err != nil {
			return err
		}

		_, err = reputation.ApplyEvent(ctx, event.RespondentKey, types.EventTypeDisputeOpened, &service.ApplyOptions{
			ReferenceID: event.DisputeID,
			Description: "dispute opened on order " + event.OrderID,
		})
		if err != nil {
			return err
		}

		return refreshActors(ctx, metrics, handlerLogger, event.RespondentKey)
	})

	dispatcher.Register(events.NameDisputeResolved, func(ctx context.Context, payload []byte) error {
		event, err := events.Decode[events.DisputeResolved](payload)
		if err != nil {
			return err
		}

		_, err = reputation.ApplyEvent(ctx, event.AgainstKey, types.EventTypeDisputeResolvedAgainst, &service.ApplyOptions{
			ReferenceID: event.DisputeID,
			Description: "dispute resolved against actor",
		})
		if err != nil {
			return err
		}

		_, err = reputation.ApplyEvent(ctx, event.WinnerKey, types.EventTypeDisputeResolvedFor, &service.ApplyOptions{
			ReferenceID: event.DisputeID,
			Description: "dispute resolved in favor of actor",
		})
		if err != nil {
			return err
		}

		return refreshActors(ctx, metrics, handlerLogger, event.AgainstKey, event.WinnerKey)
	})
}

// refreshActors recomputes denormalized metrics for each actor. A refresh
// failure is logged but does not fail the handler, since the refresher
// worker will pick the record up on its next pass.
func refreshActors(ctx context.Context, metrics *service.MetricsService, logger *zap.Logger, actorKeys ...string) error {
	for _, actorKey := range actorKeys {
		if _, err := metrics.RefreshMetrics(ctx, actorKey); err != nil {
			logger.Warn("Failed to refresh actor metrics",
				zap.String("actorKey", actorKey),
				zap.Error(err))
		}
	}

	return nil
}
