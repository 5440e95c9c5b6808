package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hrm/internal/config"
	"go-hrm/internal/messaging/kafka/consumer"
	"go-hrm/internal/notify"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const notifyBackoff = 2 * time.Second

// RunConsumer forwards onboarding lifecycle events to the HR webhook until SIGINT/SIGTERM.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	if cfg.Notification.WebhookURL == "" {
		log.Warn("NOTIFY_WEBHOOK_URL not set, lifecycle notifications will be dropped")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.LifecycleTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	notifier := notify.New(cfg.Notification.WebhookURL, cfg.Notification.Timeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeOnboardingLifecycle(ctx, reader, notifier, logger, notifyBackoff)

	log.Info("consumer shutting down")
	return nil
}
