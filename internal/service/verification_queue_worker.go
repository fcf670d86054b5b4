package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"figcheck/internal/port"
)

// runTimeout bounds a single run's processing.
const runTimeout = 5 * time.Minute

// QueueConfig holds settings for the verification queue worker.
type QueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// VerificationQueueWorker polls for queued runs and dispatches them for verification.
type VerificationQueueWorker struct {
	runRepo port.VerificationRunRepository
	svc     VerificationService
	cfg     QueueConfig
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewVerificationQueueWorker creates a new VerificationQueueWorker.
func NewVerificationQueueWorker(runRepo port.VerificationRunRepository, svc VerificationService, cfg QueueConfig, logger *zap.Logger) *VerificationQueueWorker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &VerificationQueueWorker{
		runRepo: runRepo,
		svc:     svc,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight runs have finished.
func (w *VerificationQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	w.logger.Info("verification queue worker started",
		zap.Duration("poll", w.cfg.PollInterval),
		zap.Int("concurrency", w.cfg.Concurrency),
		zap.Int("max_retries", w.cfg.MaxRetries))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("verification queue worker shutting down, waiting for in-flight runs")
			w.wg.Wait()
			w.logger.Info("verification queue worker shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			runs, err := w.runRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				w.logger.Error("claiming queued runs", zap.Error(err))
				continue
			}

			for i := range runs {
				run := runs[i]

				sem <- struct{}{}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()

					// Fresh context so in-flight runs complete during shutdown.
					runCtx, cancel := context.WithTimeout(context.Background(), runTimeout)
					defer cancel()

					w.logger.Debug("dispatching verification run",
						zap.String("run_id", run.ID.String()),
						zap.Int("attempt", run.Attempts))
					w.svc.ProcessRun(runCtx, &run, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
