package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/notification"
	notificationmock "github.com/riskibarqy/kickabout/internal/mocks/domain/notification"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAsyncDispatcher_DeliversAfterCallerContextEnds(t *testing.T) {
	sink := notificationmock.NewSink(t)
	sink.On("Send", mock.Anything, mock.MatchedBy(func(e notification.Event) bool {
		return e.Type == notification.EventSeatFreed
	})).Return(nil).Times(3)

	dispatcher, err := NewAsyncDispatcher(DispatcherConfig{Workers: 2}, sink, logging.NewNop())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	for i := 0; i < 3; i++ {
		dispatcher.Dispatch(ctx, notification.Event{Type: notification.EventSeatFreed, SessionID: "s-1"})
	}
	cancel()

	if err := dispatcher.Close(t.Context()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestAsyncDispatcher_SinkFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := notificationmock.NewSink(t)
	sink.On("Send", mock.Anything, mock.Anything).Return(errors.New("webhook down")).Once()

	dispatcher, err := NewAsyncDispatcher(DispatcherConfig{Workers: 1}, sink, logging.FromZap(zap.New(core)))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	dispatcher.Dispatch(t.Context(), notification.Event{Type: notification.EventBadgeEarned, UserID: "u-1", BadgeID: "founder"})
	if err := dispatcher.Close(t.Context()); err != nil {
		t.Fatalf("close: %v", err)
	}

	entries := logs.FilterMessage("notification delivery failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one delivery failure log, got %d", len(entries))
	}
	if entries[0].ContextMap()["user_id"] != "u-1" {
		t.Fatalf("unexpected fields: %v", entries[0].ContextMap())
	}
}

func TestAsyncDispatcher_QueuesBurstLargerThanWorkers(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var delivered atomic.Int32

	sink := notificationmock.NewSink(t)
	sink.On("Send", mock.Anything, mock.Anything).Return(func(context.Context, notification.Event) error {
		time.Sleep(5 * time.Millisecond)
		delivered.Add(1)
		return nil
	}).Times(12)

	dispatcher, err := NewAsyncDispatcher(DispatcherConfig{Workers: 2, QueueSize: 32}, sink, logging.FromZap(zap.New(core)))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	for i := 0; i < 12; i++ {
		dispatcher.Dispatch(t.Context(), notification.Event{Type: notification.EventAttendanceConfirmed, SessionID: "s-1", UserID: fmt.Sprintf("u-%d", i)})
	}
	if err := dispatcher.Close(t.Context()); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := delivered.Load(); got != 12 {
		t.Fatalf("expected all 12 events delivered, got %d", got)
	}
	if logs.FilterMessage("notification dropped").Len() != 0 {
		t.Fatalf("expected no dropped events")
	}
}

func TestAsyncDispatcher_DropsOnlyWhenQueueIsFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	sink := notificationmock.NewSink(t)
	sink.On("Send", mock.Anything, mock.Anything).Return(func(context.Context, notification.Event) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	}).Times(2)

	dispatcher, err := NewAsyncDispatcher(DispatcherConfig{Workers: 1, QueueSize: 1}, sink, logging.FromZap(zap.New(core)))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	dispatcher.Dispatch(t.Context(), notification.Event{Type: notification.EventSeatFreed, UserID: "u-1"})
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first delivery never started")
	}

	returned := make(chan struct{})
	go func() {
		dispatcher.Dispatch(t.Context(), notification.Event{Type: notification.EventSeatFreed, UserID: "u-2"})
		dispatcher.Dispatch(t.Context(), notification.Event{Type: notification.EventSeatFreed, UserID: "u-3"})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch blocked on a full queue")
	}

	close(release)
	if err := dispatcher.Close(t.Context()); err != nil {
		t.Fatalf("close: %v", err)
	}

	dropped := logs.FilterMessage("notification dropped").All()
	if len(dropped) != 1 {
		t.Fatalf("expected exactly one dropped event, got %d", len(dropped))
	}
	fields := dropped[0].ContextMap()
	if fields["reason"] != "queue full" || fields["user_id"] != "u-3" {
		t.Fatalf("unexpected drop fields: %v", fields)
	}
}

func TestAsyncDispatcher_DispatchRacingCloseIsSafe(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := notificationmock.NewSink(t)
	sink.On("Send", mock.Anything, mock.Anything).Return(nil).Maybe()

	dispatcher, err := NewAsyncDispatcher(DispatcherConfig{Workers: 2, QueueSize: 8}, sink, logging.FromZap(zap.New(core)))
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	var wg conc.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			for j := 0; j < 20; j++ {
				dispatcher.Dispatch(t.Context(), notification.Event{Type: notification.EventBadgeEarned, UserID: "u-1"})
			}
		})
	}
	wg.Go(func() {
		if err := dispatcher.Close(t.Context()); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	wg.Wait()

	if err := dispatcher.Close(t.Context()); err != nil {
		t.Fatalf("second close: %v", err)
	}
	dispatcher.Dispatch(t.Context(), notification.Event{Type: notification.EventSeatFreed, UserID: "late"})

	var lateDropped bool
	for _, entry := range logs.FilterMessage("notification dropped").All() {
		if entry.ContextMap()["user_id"] == "late" && entry.ContextMap()["reason"] == "dispatcher closed" {
			lateDropped = true
		}
	}
	if !lateDropped {
		t.Fatalf("expected dispatch after close to be dropped and logged")
	}
}

func TestAsyncDispatcher_CloseHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	sink := notificationmock.NewSink(t)
	sink.On("Send", mock.Anything, mock.Anything).Return(func(context.Context, notification.Event) error {
		<-release
		return nil
	}).Maybe()

	dispatcher, err := NewAsyncDispatcher(DispatcherConfig{Workers: 1}, sink, logging.NewNop())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	dispatcher.Dispatch(t.Context(), notification.Event{Type: notification.EventSessionCancelled})

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	if err := dispatcher.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestNewAsyncDispatcher_RequiresSink(t *testing.T) {
	if _, err := NewAsyncDispatcher(DispatcherConfig{}, nil, nil); err == nil {
		t.Fatalf("expected error without sink")
	}
}
