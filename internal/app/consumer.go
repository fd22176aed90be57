package app

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"leavedesk/internal/bootstrap"
	"leavedesk/internal/config"
	"leavedesk/internal/events"
	"leavedesk/internal/messaging/kafka/consumer"
)

// RunConsumer tails the leave lifecycle topic and fans events out to the
// notifier until interrupted.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")
	cfg := config.Load()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		Topic:          events.LeaveRequestTopic,
		GroupID:        "leavedesk-notifications",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	notifier := consumer.NewLogNotifier(logger, bootstrap.NewStdoutAuditLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveLifecycle(ctx, reader, notifier, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
