package dispatch

import (
	"context"
	"time"

	"log/slog"

	"github.com/n4u77i/reminderApp/internal/stream"
)

// Runner drains the expiry feed into batches for the dispatcher. A batch is
// flushed when it reaches maxBatch events or when linger has elapsed since
// its first event, whichever comes first.
type Runner struct {
	feed       *stream.Feed
	dispatcher *Dispatcher
	maxBatch   int
	linger     time.Duration
}

func NewRunner(feed *stream.Feed, dispatcher *Dispatcher, maxBatch int, linger time.Duration) *Runner {
	return &Runner{
		feed:       feed,
		dispatcher: dispatcher,
		maxBatch:   maxBatch,
		linger:     linger,
	}
}

// shutdownFlushTimeout bounds the final delivery attempt for events still
// buffered when the run context is cancelled.
const shutdownFlushTimeout = time.Second * 30

// Run consumes the feed until ctx is cancelled or the feed closes. Events
// buffered when cancellation arrives are still flushed, on a fresh bounded
// context: the run context is already dead at that point and would fail
// every send.
func (r *Runner) Run(ctx context.Context) error {
	batch := make([]stream.Event, 0, r.maxBatch)

	timer := time.NewTimer(r.linger)
	defer timer.Stop()
	if !timer.Stop() {
		<-timer.C
	}

	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		dispatchLogger.Info("flushing batch", slog.Int("events", len(batch)))
		r.dispatcher.HandleBatch(ctx, batch)
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-r.feed.Events():
			if !ok {
				flush(ctx)
				return nil
			}
			if len(batch) == 0 {
				timer.Reset(r.linger)
			}
			batch = append(batch, e)
			if len(batch) >= r.maxBatch {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				flush(ctx)
			}
		case <-timer.C:
			flush(ctx)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
			flush(flushCtx)
			cancel()
			return ctx.Err()
		}
	}
}
