package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Job names shared between producers and the worker.
const (
	JobHelloWorld  = "hello_world"
	JobSendWelcome = "send_welcome"
)

// HelloWorldHandler simulates a long-running task: it logs the payload,
// sleeps for the given duration, and logs completion.
func HelloWorldHandler(logger *zap.Logger, workDuration time.Duration) Handler {
	return func(ctx context.Context, job Job) error {
		logger.Info("received job", zap.String("id", job.ID), zap.String("message", job.Payload))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(workDuration):
		}

		logger.Info("task completed", zap.String("id", job.ID), zap.String("message", job.Payload))
		return nil
	}
}

// SendWelcomeHandler handles the post-registration welcome job. Delivery is a
// stub; the payload is the username.
func SendWelcomeHandler(logger *zap.Logger) Handler {
	return func(_ context.Context, job Job) error {
		logger.Info("welcome sent", zap.String("id", job.ID), zap.String("username", job.Payload))
		return nil
	}
}
