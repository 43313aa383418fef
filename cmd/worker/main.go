package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/vectorvault/internal/config"
	"github.com/spec-kit/vectorvault/internal/jobs"
	"github.com/spec-kit/vectorvault/internal/observability"
	"github.com/spec-kit/vectorvault/internal/persistence"
)

// The hello task simulates a slow document-processing job.
const helloWorkDuration = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, "worker")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	worker := jobs.NewWorker(redis.Client, cfg.Worker.QueueName, logger)
	worker.Register(jobs.JobHelloWorld, jobs.HelloWorldHandler(logger, helloWorkDuration))
	worker.Register(jobs.JobSendWelcome, jobs.SendWelcomeHandler(logger))

	if err := worker.Run(ctx); err != nil {
		logger.Fatal("worker stopped", zap.Error(err))
	}
}
