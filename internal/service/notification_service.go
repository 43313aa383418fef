package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/vectorvault/internal/events"
	"github.com/spec-kit/vectorvault/internal/jobs"
)

// NotificationService reacts to account events by handing work to the job
// queue. Delivery failures are logged and dropped; account operations never
// depend on the broker.
type NotificationService struct {
	dispatcher events.Dispatcher
	enqueuer   jobs.Enqueuer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, enqueuer jobs.Enqueuer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		enqueuer:   enqueuer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to account events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	jobID, err := n.enqueuer.Enqueue(ctx, jobs.JobSendWelcome, event.Username)
	if err != nil {
		n.logger.Warn("enqueue welcome job", zap.String("username", event.Username), zap.Error(err))
		return err
	}
	n.logger.Info("user registered", zap.String("username", event.Username), zap.String("job_id", jobID))
	return nil
}

func (n *NotificationService) handlePasswordChanged(_ context.Context, event events.Event) error {
	n.logger.Info("password changed", zap.String("username", event.Username))
	return nil
}
