package notification

import (
	"context"
	"time"
)

type EventType string

const (
	EventSeatFreed           EventType = "seat_freed"
	EventSessionCancelled    EventType = "session_cancelled"
	EventAttendanceConfirmed EventType = "attendance_confirmed"
	EventBadgeEarned         EventType = "badge_earned"
)

type Event struct {
	Type       EventType         `json:"type"`
	SessionID  string            `json:"sessionId,omitempty"`
	UserID     string            `json:"userId,omitempty"`
	BadgeID    string            `json:"badgeId,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Dispatcher accepts events after state has committed. It never blocks
// on delivery and never reports delivery failure to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// Sink delivers a single event somewhere.
type Sink interface {
	Send(ctx context.Context, event Event) error
}
