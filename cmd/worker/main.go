package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/linkdao/reputation/internal/logging"
	"github.com/linkdao/reputation/internal/setup"
	"github.com/linkdao/reputation/internal/worker/outbox"
	"github.com/linkdao/reputation/internal/worker/refresh"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"

	// RefreshWorker recomputes stale denormalized reputation metrics.
	RefreshWorker = "refresh"

	// OutboxWorker delivers pending domain events to their handlers.
	OutboxWorker = "outbox"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start the reputation workers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   1,
				Usage:   "Number of workers to start",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  RefreshWorker,
				Usage: "Start metrics refresh workers",
				Action: func(ctx context.Context, c *cli.Command) error {
					runWorkers(ctx, RefreshWorker, c.Int("workers"))
					return nil
				},
			},
			{
				Name:  OutboxWorker,
				Usage: "Start outbox delivery workers",
				Action: func(ctx context.Context, c *cli.Command) error {
					runWorkers(ctx, OutboxWorker, c.Int("workers"))
					return nil
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runWorkers starts multiple instances of a worker type.
func runWorkers(ctx context.Context, workerType string, count int64) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, WorkerLogDir)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup(ctx)

	var wg sync.WaitGroup

	for i := range count {
		wg.Add(1)

		go func(workerID int64) {
			defer wg.Done()

			workerLogger := logging.GetWorkerLogger(
				fmt.Sprintf("%s_worker_%d", workerType, workerID),
				WorkerLogDir,
				app.Config.Common.Debug.LogLevel,
			)

			var w interface{ Start(context.Context) }

			switch workerType {
			case RefreshWorker:
				w = refresh.New(app, workerLogger)
			case OutboxWorker:
				w = outbox.New(app, workerLogger)
			default:
				log.Fatalf("Invalid worker type: %s", workerType)
			}

			runWorker(ctx, w, workerLogger)
		}(i)
	}

	log.Printf("Started %d %s workers", count, workerType)
	wg.Wait()
	log.Println("All workers have finished. Exiting.")
}

// runWorker runs a single worker in a loop with error recovery.
func runWorker(ctx context.Context, w interface{ Start(context.Context) }, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Context cancelled, stopping worker")
			return
		default:
			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("Worker execution failed",
							zap.String("worker_type", fmt.Sprintf("%T", w)),
							zap.Any("panic", r),
						)
						logger.Info("Restarting worker in 5 seconds...")
						time.Sleep(5 * time.Second)
					}
				}()

				logger.Info("Starting worker")
				w.Start(ctx)
			}()
		}
	}
}
