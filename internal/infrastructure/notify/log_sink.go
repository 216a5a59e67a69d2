package notify

import (
	"context"

	"github.com/riskibarqy/kickabout/internal/domain/notification"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
)

// LogSink writes events to the structured log. It is the sink used when
// no webhook is configured.
type LogSink struct {
	logger *logging.Logger
}

func NewLogSink(logger *logging.Logger) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{logger: logger.Named("notify.log_sink")}
}

func (s *LogSink) Send(ctx context.Context, event notification.Event) error {
	s.logger.InfoContext(ctx, "notification event",
		"event_type", string(event.Type),
		"session_id", event.SessionID,
		"user_id", event.UserID,
		"badge_id", event.BadgeID,
		"occurred_at", event.OccurredAt,
		"attributes", event.Attributes,
	)
	return nil
}
