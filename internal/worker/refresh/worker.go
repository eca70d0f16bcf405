// Package refresh implements the periodic metrics refresher. It scans for
// reputation records whose denormalized metrics have gone stale and
// recomputes them from the order, review and dispute tables.
package refresh

import (
	"context"
	"time"

	"github.com/linkdao/reputation/internal/database"
	"github.com/linkdao/reputation/internal/setup"
	"github.com/linkdao/reputation/internal/setup/config"
	"github.com/linkdao/reputation/internal/worker/core"
	"github.com/linkdao/reputation/pkg/utils"
	"go.uber.org/zap"
)

const errorSleepDuration = 30 * time.Second

// Worker periodically refreshes stale reputation metrics.
type Worker struct {
	db       database.Client
	config   *config.WorkerConfig
	reporter *core.StatusReporter
	logger   *zap.Logger
}

// New creates a new metrics refresh worker.
func New(app *setup.App, logger *zap.Logger) *Worker {
	return &Worker{
		db:       app.DB,
		config:   &app.Config.Worker,
		reporter: core.NewStatusReporter(app.StatusClient, "refresh", logger),
		logger:   logger.Named("refresh_worker"),
	}
}

// Start begins the refresh worker's main loop.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Refresh worker started", zap.String("workerID", w.reporter.GetWorkerID()))
	w.reporter.Start(ctx)
	defer w.reporter.Stop()

	interval := time.Duration(w.config.RefreshInterval) * time.Minute
	staleAfter := time.Duration(w.config.StaleAfter) * time.Minute

	for {
		if utils.ContextGuard(ctx) {
			w.logger.Info("Context cancelled, stopping refresh worker")
			return
		}

		w.reporter.SetHealthy(true)
		w.reporter.UpdateStatus("Scanning for stale records", 0)

		cutoff := time.Now().Add(-staleAfter)

		staleKeys, err := w.db.Model().Reputation().GetStaleActorKeys(ctx, cutoff, w.config.RefreshBatchSize)
		if err != nil {
			w.logger.Error("Failed to scan for stale records", zap.Error(err))
			w.reporter.SetHealthy(false)

			if !utils.ErrorSleep(ctx, errorSleepDuration, w.logger, "refresh worker") {
				return
			}

			continue
		}

		if len(staleKeys) == 0 {
			w.reporter.UpdateStatus("No stale records", 100)

			if !utils.IntervalSleep(ctx, interval, w.logger, "refresh worker") {
				return
			}

			continue
		}

		w.reporter.UpdateStatus("Refreshing metrics", 50)

		refreshed, err := w.db.Service().Metrics().RefreshStale(ctx, staleKeys)
		if err != nil {
			w.logger.Error("Failed to refresh stale metrics", zap.Error(err))
			w.reporter.SetHealthy(false)
		}

		w.logger.Info("Refresh pass completed",
			zap.Int("stale", len(staleKeys)),
			zap.Int("refreshed", refreshed))

		w.reporter.UpdateStatus("Refresh pass completed", 100)

		// A full batch means more stale records are likely waiting, so
		// only sleep the full interval after a partial batch.
		if len(staleKeys) < w.config.RefreshBatchSize {
			if !utils.IntervalSleep(ctx, interval, w.logger, "refresh worker") {
				return
			}
		}
	}
}
