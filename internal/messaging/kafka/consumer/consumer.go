package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-hrm/internal/events"
	"go-hrm/internal/notify"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const notifyAttempts = 3

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeOnboardingLifecycle forwards lifecycle events to the HR notification
// channel. Delivery is best-effort: after notifyAttempts failures the message
// is committed and skipped.
func ConsumeOnboardingLifecycle(
	ctx context.Context,
	reader MessageReader,
	notifier notify.Notifier,
	logger *zap.Logger,
	backoff time.Duration,
) {
	log := logger.Named("kafka.consumer.onboarding_lifecycle")
	log.Info("onboarding lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("onboarding lifecycle consumer stopped")
				return
			}
			log.Error("fetch onboarding lifecycle message failed", zap.Error(err))
			continue
		}

		HandleMessage(ctx, msg, notifier, log, backoff)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit onboarding lifecycle message failed", zap.Error(err))
		}
	}
}

// HandleMessage decodes one message and delivers its notification.
// It reports whether the notification went out.
func HandleMessage(
	ctx context.Context,
	msg kafkago.Message,
	notifier notify.Notifier,
	log *zap.Logger,
	backoff time.Duration,
) bool {
	var event events.LifecycleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode lifecycle event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return false
	}

	out, ok := FormatNotification(event)
	if !ok {
		log.Debug("lifecycle event ignored", zap.String("event_type", event.EventType))
		return false
	}

	var err error
	for attempt := 1; attempt <= notifyAttempts; attempt++ {
		if err = notifier.Notify(ctx, out); err == nil {
			log.Info("lifecycle notification sent",
				zap.String("event_type", event.EventType),
				zap.String("request_id", event.RequestID),
				zap.String("employee_code", event.EmployeeCode),
			)
			return true
		}
		if attempt == notifyAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}

	log.Error("lifecycle notification dropped",
		zap.String("event_type", event.EventType),
		zap.String("email", event.Email),
		zap.Error(err),
	)
	return false
}
