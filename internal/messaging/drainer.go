package messaging

import (
	"context"
	"log/slog"
	"time"

	"hemam-service/internal/models"
	"hemam-service/internal/observability/metrics"
	"hemam-service/pkg/sl"
)

// Dispatcher is the external component that actually transmits a message over
// its channel. It is invoked once per claimed message; the queue never
// re-offers a message after a dispatch failure.
type Dispatcher interface {
	Send(ctx context.Context, msg models.Message) error
}

// Drainer periodically claims due messages from the queue and hands them to
// the dispatcher.
type Drainer struct {
	queue      *Queue
	dispatcher Dispatcher
	interval   time.Duration
	log        *slog.Logger
	metrics    *metrics.EngineMetrics
	now        func() time.Time
}

func NewDrainer(queue *Queue, dispatcher Dispatcher, interval time.Duration, log *slog.Logger, m *metrics.EngineMetrics, now func() time.Time) *Drainer {
	if now == nil {
		now = time.Now
	}
	return &Drainer{
		queue:      queue,
		dispatcher: dispatcher,
		interval:   interval,
		log:        log,
		metrics:    m,
		now:        now,
	}
}

// Run drains on a fixed interval until the context is cancelled.
func (d *Drainer) Run(ctx context.Context) {
	d.log.Info("Drainer started", slog.String("interval", d.interval.String()))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info("Drainer stopped")
			return
		case <-ticker.C:
			d.Drain(ctx)
		}
	}
}

// Drain claims the currently due batch and dispatches it. Dispatch errors are
// logged and counted, never retried from here.
func (d *Drainer) Drain(ctx context.Context) int {
	const op = "messaging.Drainer.Drain"

	claimed := d.queue.ProcessDue(d.now())
	if len(claimed) == 0 {
		return 0
	}

	dispatched := 0
	for _, msg := range claimed {
		if err := d.dispatcher.Send(ctx, msg); err != nil {
			d.log.Error("Failed to dispatch message",
				slog.String("op", op),
				slog.String("message_id", msg.ID),
				slog.String("channel", string(msg.Channel)),
				sl.Err(err),
			)
			d.metrics.ObserveDispatched(string(msg.Channel), "error")
			continue
		}
		d.metrics.ObserveDispatched(string(msg.Channel), "ok")
		dispatched++
	}

	d.log.Info("Drain cycle finished",
		slog.Int("claimed", len(claimed)),
		slog.Int("dispatched", dispatched),
	)

	return dispatched
}

// LogDispatcher is the local stand-in for real channel integrations; it just
// logs what would have been sent.
type LogDispatcher struct {
	Log *slog.Logger
}

func (d *LogDispatcher) Send(_ context.Context, msg models.Message) error {
	d.Log.Info("Sending message",
		slog.String("channel", string(msg.Channel)),
		slog.String("recipient", msg.Recipient),
		slog.String("content", msg.Content),
	)
	return nil
}
