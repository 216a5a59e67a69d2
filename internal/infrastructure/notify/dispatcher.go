package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/kickabout/internal/domain/notification"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
)

const (
	defaultWorkers     = 8
	defaultQueueSize   = 1024
	defaultSendTimeout = 10 * time.Second
)

type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

type queuedEvent struct {
	ctx   context.Context
	event notification.Event
}

// AsyncDispatcher buffers events in a bounded queue drained by a fixed set
// of ants workers. Dispatch never blocks; an event is dropped only when the
// queue is full or the dispatcher is closed.
type AsyncDispatcher struct {
	pool        *ants.Pool
	queue       chan queuedEvent
	sink        notification.Sink
	sendTimeout time.Duration
	logger      *logging.Logger

	mu      sync.RWMutex
	closed  bool
	drained sync.WaitGroup
}

func NewAsyncDispatcher(cfg DispatcherConfig, sink notification.Sink, logger *logging.Logger) (*AsyncDispatcher, error) {
	if sink == nil {
		return nil, fmt.Errorf("notification sink is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("notify")
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}

	pool, err := ants.NewPool(cfg.Workers,
		ants.WithPanicHandler(func(v any) {
			logger.Error("notification worker panicked", "panic", fmt.Sprint(v))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create notification worker pool: %w", err)
	}

	d := &AsyncDispatcher{
		pool:        pool,
		queue:       make(chan queuedEvent, cfg.QueueSize),
		sink:        sink,
		sendTimeout: cfg.SendTimeout,
		logger:      logger,
	}
	for range cfg.Workers {
		d.drained.Add(1)
		if err := pool.Submit(d.drain); err != nil {
			d.drained.Done()
			close(d.queue)
			pool.Release()
			return nil, fmt.Errorf("start notification worker: %w", err)
		}
	}
	return d, nil
}

func (d *AsyncDispatcher) Dispatch(ctx context.Context, event notification.Event) {
	// The request that produced the event may finish before delivery.
	ctx = context.WithoutCancel(ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logDropped(ctx, event, "dispatcher closed")
		return
	}
	select {
	case d.queue <- queuedEvent{ctx: ctx, event: event}:
	default:
		d.logDropped(ctx, event, "queue full")
	}
}

// drain runs on a pool worker until the queue is closed. A panicking sink
// only loses the event being delivered.
func (d *AsyncDispatcher) drain() {
	defer d.drained.Done()
	for item := range d.queue {
		d.deliver(item)
	}
}

func (d *AsyncDispatcher) deliver(item queuedEvent) {
	defer func() {
		if v := recover(); v != nil {
			d.logger.ErrorContext(item.ctx, "notification worker panicked",
				"event_type", string(item.event.Type),
				"panic", fmt.Sprint(v),
			)
		}
	}()

	sendCtx, cancel := context.WithTimeout(item.ctx, d.sendTimeout)
	defer cancel()
	if err := d.sink.Send(sendCtx, item.event); err != nil {
		d.logger.WarnContext(item.ctx, "notification delivery failed",
			"event_type", string(item.event.Type),
			"session_id", item.event.SessionID,
			"user_id", item.event.UserID,
			"error", err,
		)
	}
}

func (d *AsyncDispatcher) logDropped(ctx context.Context, event notification.Event, reason string) {
	d.logger.WarnContext(ctx, "notification dropped",
		"reason", reason,
		"event_type", string(event.Type),
		"session_id", event.SessionID,
		"user_id", event.UserID,
	)
}

// Close stops accepting events and waits for the queue to drain until ctx
// expires, then releases the pool. Later calls are no-ops.
func (d *AsyncDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.drained.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = fmt.Errorf("wait for notification deliveries: %w", ctx.Err())
	}
	d.pool.Release()
	return err
}
