package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"leavedesk/internal/bootstrap"
	"leavedesk/internal/events"
)

// Notifier receives leave lifecycle events after they are committed and
// published. Implementations fan out to whatever channel the deployment
// has; the default just writes structured log lines.
type Notifier interface {
	NotifyLeaveEvent(ctx context.Context, event events.LeaveRequestEvent) error
}

type LogNotifier struct {
	logger *zap.Logger
	audit  bootstrap.AuditLogger
}

func NewLogNotifier(logger *zap.Logger, audit bootstrap.AuditLogger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify.leave"), audit: audit}
}

func (n *LogNotifier) NotifyLeaveEvent(ctx context.Context, event events.LeaveRequestEvent) error {
	n.logger.Info("leave request update",
		zap.String("event_type", event.EventType),
		zap.String("leave_id", event.LeaveID),
		zap.String("user_id", event.UserID),
		zap.String("status", event.Status),
		zap.String("start_date", event.StartDate),
		zap.String("end_date", event.EndDate),
	)

	// Approvals and rejections are reviewer decisions, so they also go to
	// the audit trail.
	if n.audit != nil {
		switch event.EventType {
		case events.LeaveApproved, events.LeaveRejected:
			n.audit.Log(ctx, bootstrap.AuditLog{
				Action:  "LEAVE_REQUEST_DECIDED",
				Message: "leave request " + event.Status,
				Meta: map[string]any{
					"leave_id": event.LeaveID,
					"user_id":  event.UserID,
					"status":   event.Status,
				},
			})
		}
	}
	return nil
}

// ConsumeLeaveLifecycle reads lifecycle events and hands them to the
// notifier. Malformed messages are committed and dropped; a notifier
// failure leaves the message uncommitted for redelivery.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyLeaveEvent(ctx, event); err != nil {
			log.Error("notify leave event failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
		}
	}
}
