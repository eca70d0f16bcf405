// Package outbox implements the outbox delivery worker. It polls the
// pending event table and runs the registered handlers for each event,
// marking events applied or failed.
package outbox

import (
	"context"
	"time"

	"github.com/linkdao/reputation/internal/database"
	"github.com/linkdao/reputation/internal/events"
	"github.com/linkdao/reputation/internal/setup"
	"github.com/linkdao/reputation/internal/setup/config"
	"github.com/linkdao/reputation/internal/worker/core"
	"github.com/linkdao/reputation/pkg/utils"
	"go.uber.org/zap"
)

const errorSleepDuration = 30 * time.Second

// Worker delivers pending outbox events to their handlers.
type Worker struct {
	db         database.Client
	dispatcher *events.Dispatcher
	config     *config.WorkerConfig
	reporter   *core.StatusReporter
	logger     *zap.Logger
}

// New creates a new outbox delivery worker.
func New(app *setup.App, logger *zap.Logger) *Worker {
	return &Worker{
		db:         app.DB,
		dispatcher: app.Dispatcher,
		config:     &app.Config.Worker,
		reporter:   core.NewStatusReporter(app.StatusClient, "outbox", logger),
		logger:     logger.Named("outbox_worker"),
	}
}

// Start begins the outbox worker's main loop.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Outbox worker started", zap.String("workerID", w.reporter.GetWorkerID()))
	w.reporter.Start(ctx)
	defer w.reporter.Stop()

	interval := time.Duration(w.config.OutboxInterval) * time.Second
	maxAttempts := int32(w.config.OutboxMaxAttempts)

	for {
		if utils.ContextGuard(ctx) {
			w.logger.Info("Context cancelled, stopping outbox worker")
			return
		}

		w.reporter.SetHealthy(true)
		w.reporter.UpdateStatus("Polling for pending events", 0)

		pending, err := w.db.Model().Event().GetPending(ctx, w.config.OutboxBatchSize)
		if err != nil {
			w.logger.Error("Failed to poll pending events", zap.Error(err))
			w.reporter.SetHealthy(false)

			if !utils.ErrorSleep(ctx, errorSleepDuration, w.logger, "outbox worker") {
				return
			}

			continue
		}

		if len(pending) == 0 {
			w.reporter.UpdateStatus("No pending events", 100)

			if !utils.IntervalSleep(ctx, interval, w.logger, "outbox worker") {
				return
			}

			continue
		}

		w.reporter.UpdateStatus("Delivering events", 50)

		delivered := 0

		for _, event := range pending {
			if err := w.dispatcher.Deliver(ctx, event.Name, event.Payload); err != nil {
				w.logger.Error("Failed to deliver event",
					zap.String("eventID", event.ID),
					zap.String("event", event.Name),
					zap.Error(err))

				if err := w.db.Model().Event().MarkFailed(ctx, event.ID, err.Error(), maxAttempts); err != nil {
					w.logger.Error("Failed to mark event failed", zap.String("eventID", event.ID), zap.Error(err))
				}

				continue
			}

			if err := w.db.Model().Event().MarkApplied(ctx, event.ID); err != nil {
				w.logger.Error("Failed to mark event applied", zap.String("eventID", event.ID), zap.Error(err))
				continue
			}

			delivered++
		}

		w.logger.Info("Delivery pass completed",
			zap.Int("pending", len(pending)),
			zap.Int("delivered", delivered))

		w.reporter.UpdateStatus("Delivery pass completed", 100)

		// Drain the backlog before sleeping the full poll interval.
		if len(pending) < w.config.OutboxBatchSize {
			if !utils.IntervalSleep(ctx, interval, w.logger, "outbox worker") {
				return
			}
		}
	}
}
