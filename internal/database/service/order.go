package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkdao/reputation/internal/database/dbretry"
	"github.com/linkdao/reputation/internal/database/models"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/database/types/enum"
	"github.com/linkdao/reputation/internal/events"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// OrderService handles order lifecycle operations. Completing an order is
// one of the two invocation points of the recalculation pipeline.
type OrderService struct {
	db         *bun.DB
	orders     *models.OrderModel
	actors     *models.ActorModel
	dispatcher *events.Dispatcher
	logger     *zap.Logger
}

// NewOrder creates a new order service.
func NewOrder(
	db *bun.DB,
	orders *models.OrderModel,
	actors *models.ActorModel,
	dispatcher *events.Dispatcher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:         db,
		orders:     orders,
		actors:     actors,
		dispatcher: dispatcher,
		logger:     logger.Named("order_service"),
	}
}

// PlaceOrder stores a new pending order, registering both parties as actors.
func (s *OrderService) PlaceOrder(ctx context.Context, order *types.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	order.Status = enum.OrderStatusPending

	if err := s.actors.Ensure(ctx, s.db, order.BuyerKey); err != nil {
		return err
	}

	if err := s.actors.Ensure(ctx, s.db, order.SellerKey); err != nil {
		return err
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return err
	}

	s.logger.Info("Placed order",
		zap.String("orderID", order.ID),
		zap.String("buyerKey", order.BuyerKey),
		zap.String("sellerKey", order.SellerKey))

	return nil
}

// UpdateStatus transitions an order to a new status. A transition into the
// completed state raises the order-completed event; in outbox mode the
// event commits atomically with the transition, in sync mode it is
// delivered once the transition has committed.
func (s *OrderService) UpdateStatus(
	ctx context.Context, id string, status enum.OrderStatus,
) (*types.Order, error) {
	var (
		updated   *types.Order
		completed *events.OrderCompleted
	)

	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		order, err := s.orders.UpdateStatus(ctx, tx, id, status)
		if err != nil {
			return err
		}

		updated = order
		completed = nil

		if status != enum.OrderStatusCompleted {
			return nil
		}

		completed = &events.OrderCompleted{
			OrderID:   order.ID,
			BuyerKey:  order.BuyerKey,
			SellerKey: order.SellerKey,
		}

		return s.dispatcher.Dispatch(ctx, tx, events.NameOrderCompleted, completed)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	if completed != nil {
		if err := s.dispatcher.Publish(ctx, events.NameOrderCompleted, completed); err != nil {
			return nil, fmt.Errorf("failed to deliver order completed event for %s: %w", id, err)
		}
	}

	s.logger.Info("Updated order status",
		zap.String("orderID", id),
		zap.String("status", status.String()))

	return updated, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*types.Order, error) {
	return s.orders.Get(ctx, id)
}
