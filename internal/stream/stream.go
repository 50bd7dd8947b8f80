// Package stream carries expiry events from the store sweep to the
// notification dispatcher. The feed is REMOVE-only and every event holds the
// pre-removal snapshot of the record in wire format.
package stream

import (
	"context"

	"github.com/n4u77i/reminderApp/internal/codec"
)

// ChangeType identifies the mutation that produced an event.
type ChangeType string

// ChangeRemove is the only change surfaced on the feed. Creations are never
// watched and updates do not exist for reminders.
const ChangeRemove ChangeType = "REMOVE"

// Event is a single expiry notification. OldImage is the last persisted state
// of the record, captured before removal.
type Event struct {
	Change   ChangeType
	OldImage map[string]codec.Value
}

// Feed is an ordered, buffered channel of expiry events. Delivery is
// at-least-once: a consumer that crashes mid-batch may observe a record again
// after restart.
type Feed struct {
	events chan Event
}

func NewFeed(buffer int) *Feed {
	return &Feed{events: make(chan Event, buffer)}
}

// Publish appends an event to the feed. It blocks when the buffer is full
// rather than dropping, honoring ctx cancellation.
func (f *Feed) Publish(ctx context.Context, e Event) error {
	select {
	case f.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events exposes the feed for consumption.
func (f *Feed) Events() <-chan Event {
	return f.events
}

// Close marks the feed as finished. Only the producer may call it.
func (f *Feed) Close() {
	close(f.events)
}
