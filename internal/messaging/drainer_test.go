package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemam-service/internal/models"
)

type fakeDispatcher struct {
	mu     sync.Mutex
	sent   []models.Message
	failOn string // fail if Recipient matches
}

func (d *fakeDispatcher) Send(_ context.Context, msg models.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failOn != "" && msg.Recipient == d.failOn {
		return errors.New("channel unreachable")
	}
	d.sent = append(d.sent, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDrainDispatchesDueBatch(t *testing.T) {
	t0 := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	queue := NewQueue(func() time.Time { return t0 })
	dispatcher := &fakeDispatcher{}
	drainer := NewDrainer(queue, dispatcher, time.Second, discardLogger(), nil, func() time.Time { return t0 })

	queue.ScheduleMessage("pat-1", "one", t0.Add(-time.Minute), models.ChannelWhatsApp, nil)
	queue.ScheduleMessage("pat-2", "two", t0.Add(-time.Minute), models.ChannelEmail, nil)
	queue.ScheduleMessage("pat-3", "later", t0.Add(time.Hour), models.ChannelWhatsApp, nil)

	dispatched := drainer.Drain(context.Background())
	assert.Equal(t, 2, dispatched)
	assert.Len(t, dispatcher.sent, 2)

	// Nothing left due; a second drain is a no-op.
	assert.Zero(t, drainer.Drain(context.Background()))
}

func TestDrainDispatchFailureIsNotReoffered(t *testing.T) {
	t0 := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	queue := NewQueue(func() time.Time { return t0 })
	dispatcher := &fakeDispatcher{failOn: "pat-1"}
	drainer := NewDrainer(queue, dispatcher, time.Second, discardLogger(), nil, func() time.Time { return t0 })

	id := queue.ScheduleMessage("pat-1", "doomed", t0.Add(-time.Minute), models.ChannelWhatsApp, nil)

	assert.Zero(t, drainer.Drain(context.Background()))

	// Claimed despite the failure; at-most-once means no retry.
	msg, ok := queue.Get(id)
	require.True(t, ok)
	assert.True(t, msg.Sent)

	dispatcher.failOn = ""
	assert.Zero(t, drainer.Drain(context.Background()))
	assert.Empty(t, dispatcher.sent)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	queue := NewQueue(nil)
	drainer := NewDrainer(queue, &fakeDispatcher{}, time.Millisecond, discardLogger(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		drainer.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drainer did not stop on cancel")
	}
}

func TestRunDrainsOnTicks(t *testing.T) {
	t0 := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	queue := NewQueue(func() time.Time { return t0 })
	dispatcher := &fakeDispatcher{}
	drainer := NewDrainer(queue, dispatcher, 5*time.Millisecond, discardLogger(), nil, func() time.Time { return t0 })

	queue.ScheduleMessage("pat-1", "due", t0.Add(-time.Minute), models.ChannelWhatsApp, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		drainer.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		dispatcher.mu.Lock()
		defer dispatcher.mu.Unlock()
		return len(dispatcher.sent) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
