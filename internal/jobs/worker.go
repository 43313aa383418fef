package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const popTimeout = 5 * time.Second

// Handler executes one job. Returned errors are logged; jobs are never retried.
type Handler func(ctx context.Context, job Job) error

// Worker consumes jobs from a queue and dispatches them to registered
// handlers by name.
type Worker struct {
	client   *redis.Client
	queue    string
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewWorker builds a consumer for the named queue.
func NewWorker(client *redis.Client, queue string, logger *zap.Logger) *Worker {
	return &Worker{
		client:   client,
		queue:    queue,
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register binds a handler to a job name. Registration happens before Run;
// the map is not guarded for concurrent mutation.
func (w *Worker) Register(name string, handler Handler) {
	w.handlers[name] = handler
}

// Run blocks consuming jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started", zap.String("queue", w.queue))

	for {
		vals, err := w.client.BRPop(ctx, popTimeout, w.queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				w.logger.Info("worker stopping", zap.String("queue", w.queue))
				return nil
			}
			w.logger.Error("pop job", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		// BRPop returns [key, value].
		if len(vals) != 2 {
			continue
		}
		w.dispatch(ctx, []byte(vals[1]))
	}
}

func (w *Worker) dispatch(ctx context.Context, raw []byte) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		w.logger.Error("malformed job envelope", zap.Error(err))
		return
	}

	handler, ok := w.handlers[job.Name]
	if !ok {
		w.logger.Warn("no handler for job", zap.String("name", job.Name), zap.String("id", job.ID))
		return
	}

	start := time.Now()
	if err := handler(ctx, job); err != nil {
		w.logger.Error("job failed",
			zap.String("name", job.Name),
			zap.String("id", job.ID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	w.logger.Info("job completed",
		zap.String("name", job.Name),
		zap.String("id", job.ID),
		zap.Duration("elapsed", time.Since(start)))
}
