package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/uofr/urcourses-teststudent/internal/events"
)

// AuditService records lifecycle events to the structured log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to lifecycle events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTestStudentCreated, a.handleEvent)
	a.dispatcher.Subscribe(events.EventTestStudentPasswordReset, a.handleEvent)
	a.dispatcher.Subscribe(events.EventTestStudentEnrolled, a.handleEvent)
	a.dispatcher.Subscribe(events.EventTestStudentUnenrolled, a.handleEvent)
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("staff_id", event.StaffID),
		zap.Int64("account_id", event.AccountID),
		zap.Any("payload", event.Payload))
	return nil
}
