package notify

import (
	"testing"

	"github.com/riskibarqy/kickabout/internal/domain/notification"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSink_WritesEvent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewLogSink(logging.FromZap(zap.New(core)))

	if err := sink.Send(t.Context(), notification.Event{Type: notification.EventAttendanceConfirmed, SessionID: "s-1", UserID: "u-2"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["event_type"] != "attendance_confirmed" {
		t.Fatalf("unexpected log entries: %+v", entries)
	}
}
