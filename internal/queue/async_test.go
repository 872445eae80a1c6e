package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingPublisher struct {
	release chan struct{}

	mu   sync.Mutex
	seen []EventType
}

func (p *blockingPublisher) Publish(ctx context.Context, ev ActivityEvent) error {
	select {
	case <-p.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, ev.Type)
	return nil
}

func (p *blockingPublisher) types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]EventType(nil), p.seen...)
}

func TestAsyncPublisher_DoesNotWaitForBroker(t *testing.T) {
	next := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(next, 4, nil)

	done := make(chan error, 1)
	go func() { done <- p.Publish(context.Background(), NewActivityEvent(WorkoutCreated, 1, 1)) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on the wrapped publisher")
	}

	close(next.release)
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, []EventType{WorkoutCreated}, next.types())
}

func TestAsyncPublisher_DropsWhenFull(t *testing.T) {
	next := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(next, 1, nil)
	t.Cleanup(func() {
		close(next.release)
		_ = p.Shutdown(context.Background())
	})

	var full bool
	for i := 0; i < 5 && !full; i++ {
		err := p.Publish(context.Background(), NewActivityEvent(SetCreated, 1, int64(i)))
		full = errors.Is(err, ErrPublishBufferFull)
	}
	assert.True(t, full)
}

func TestAsyncPublisher_ShutdownDrainsAndRejects(t *testing.T) {
	next := &blockingPublisher{release: make(chan struct{})}
	close(next.release)
	p := NewAsyncPublisher(next, 8, nil)

	require.NoError(t, p.Publish(context.Background(), NewActivityEvent(ExerciseCreated, 1, 1)))
	require.NoError(t, p.Publish(context.Background(), NewActivityEvent(ExerciseDeleted, 1, 1)))
	require.NoError(t, p.Shutdown(context.Background()))

	assert.Equal(t, []EventType{ExerciseCreated, ExerciseDeleted}, next.types())
	assert.ErrorIs(t, p.Publish(context.Background(), NewActivityEvent(SetDeleted, 1, 1)), ErrPublisherClosed)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestAsyncPublisher_ShutdownHonoursContext(t *testing.T) {
	next := &blockingPublisher{release: make(chan struct{})}
	p := NewAsyncPublisher(next, 2, nil)
	require.NoError(t, p.Publish(context.Background(), NewActivityEvent(WorkoutDeleted, 1, 1)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)

	close(next.release)
	require.NoError(t, p.Shutdown(context.Background()))
}
