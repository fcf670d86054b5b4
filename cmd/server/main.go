package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"figcheck/internal/config"
	"figcheck/internal/handler"
	"figcheck/internal/logging"
	"figcheck/internal/port"
	"figcheck/internal/repository/postgres"
	"figcheck/internal/router"
	"figcheck/internal/service"
	s3storage "figcheck/internal/storage/s3"
	"figcheck/internal/verify"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	runRepo := postgres.NewVerificationRunRepo(db)

	// Archiving is optional; without a bucket the archive endpoint reports unavailable.
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewReportStore(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		logger.Warn("s3 bucket not configured, report archiving disabled")
	}

	// Initialize services
	tokenSvc := service.NewTokenService(cfg.JWT)
	verifySvc := service.NewVerificationService(runRepo, storage, service.VerificationConfig{
		Tolerance: verify.Tolerance{
			Relative:         cfg.Verify.RelativeTolerance,
			PercentagePoints: cfg.Verify.PercentagePointTolerance,
		},
		Workers:       cfg.Verify.Workers,
		MaxClaims:     cfg.Verify.MaxClaims,
		Bucket:        cfg.S3.Bucket,
		PresignExpiry: cfg.S3.PresignExpiry,
	}, logger)

	worker := service.NewVerificationQueueWorker(runRepo, verifySvc, service.QueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	}, logger)

	// Initialize handlers
	verifyH := handler.NewVerificationHandler(verifySvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(tokenSvc, verifyH, healthH, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		stop()
		wg.Wait()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	wg.Wait()
	logger.Info("shutdown complete")
	return nil
}
