package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrPublishBufferFull is returned when an event is dropped because the
// buffer is at capacity.
var ErrPublishBufferFull = errors.New("activity event buffer full")

// ErrPublisherClosed is returned by Publish after Shutdown.
var ErrPublisherClosed = errors.New("activity publisher closed")

const defaultPublishTimeout = 3 * time.Second

// AsyncPublisher queues events in memory and hands them to the wrapped
// Publisher from a single goroutine, so a slow or unreachable broker never
// holds up the caller. Publish never blocks; when the buffer is full the
// event is dropped.
type AsyncPublisher struct {
	next    Publisher
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	events chan ActivityEvent
	done   chan struct{}
}

func NewAsyncPublisher(next Publisher, buffer int, logger *slog.Logger) *AsyncPublisher {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &AsyncPublisher{
		next:    next,
		logger:  logger,
		timeout: defaultPublishTimeout,
		events:  make(chan ActivityEvent, buffer),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues ev. ctx is not used past the call.
func (p *AsyncPublisher) Publish(_ context.Context, ev ActivityEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.events <- ev:
		return nil
	default:
		return ErrPublishBufferFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for ev := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.next.Publish(ctx, ev)
		cancel()
		if err != nil {
			p.logger.Warn("publish activity event failed", "type", ev.Type, "event_id", ev.ID, "err", err)
		}
	}
}

// Shutdown stops accepting events and waits for the buffered ones to be
// handed off, or for ctx to end.
func (p *AsyncPublisher) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
