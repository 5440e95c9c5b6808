package employee

import (
	"context"
	"database/sql"
	"time"

	"go-hrm/internal/events"
	"go-hrm/internal/messaging/kafka"
	"go-hrm/internal/shared/contextutil"

	"go.uber.org/zap"
)

// EventRecorder appends lifecycle events to the outbox inside the caller's transaction.
type EventRecorder struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewEventRecorder(outbox kafka.OutboxRepository, logger ...*zap.Logger) *EventRecorder {
	l := zap.L().Named("employee.events")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.events")
	}
	return &EventRecorder{outbox: outbox, logger: l}
}

func NewLifecycleEvent(eventType, actorID string, empl *Employee, now time.Time) events.LifecycleEvent {
	return events.LifecycleEvent{
		EventType:    eventType,
		ActorID:      actorID,
		EmployeeCode: empl.EmployeeCode,
		Name:         empl.Name,
		Email:        empl.Email,
		Role:         empl.Role,
		Department:   empl.Department,
		Designation:  empl.Designation,
		OccurredAt:   now.UTC(),
	}
}

func (r *EventRecorder) Record(ctx context.Context, tx *sql.Tx, ev events.LifecycleEvent) error {
	if r == nil || r.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	ev.RequestID = rid

	row, err := kafka.NewOutboxEvent(rid, "employee", ev.EmployeeCode, ev.EventType, events.OnboardingLifecycleTopic, ev)
	if err != nil {
		r.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := r.outbox.WithTx(tx).Create(ctx, row); err != nil {
		r.logger.Error("employee outbox persist failed",
			zap.String("employee_code", ev.EmployeeCode),
			zap.String("event_type", ev.EventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}
