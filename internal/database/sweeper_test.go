package database

import (
	"context"
	"testing"
	"time"

	"github.com/n4u77i/reminderApp/internal/codec"
	"github.com/n4u77i/reminderApp/internal/model"
	"github.com/n4u77i/reminderApp/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepPublishesRemoveEventWithPreImage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	feed := stream.NewFeed(8)

	past := time.Now().Add(-time.Minute).UnixMilli()
	future := time.Now().Add(time.Hour).UnixMilli()

	require.NoError(t, s.Put(ctx, testRecord(t, "due", "alice@example.com", past, "Call mom")))
	require.NoError(t, s.Put(ctx, testRecord(t, "pending", "alice@example.com", future, "later")))

	sweeper := NewSweeper(s, feed, time.Second*30, model.AttrID)
	require.NoError(t, sweeper.Sweep(ctx))

	// the expired record is gone from the store before its event is consumed
	_, err := s.Get(ctx, "due")
	assert.ErrorIs(t, err, ErrReminderNotFound)
	_, err = s.Get(ctx, "pending")
	assert.NoError(t, err)

	select {
	case e := <-feed.Events():
		assert.Equal(t, stream.ChangeRemove, e.Change)
		assert.Equal(t, "due", e.OldImage[model.AttrID].Str())
		assert.Equal(t, "Call mom", e.OldImage[model.AttrMessage].Str())
	default:
		t.Fatal("expected one expiry event on the feed")
	}

	// exactly once per removed record
	select {
	case e := <-feed.Events():
		t.Fatalf("unexpected extra event for %q", e.OldImage[model.AttrID].Str())
	default:
	}
}

func TestSweepSecondCycleIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	feed := stream.NewFeed(8)

	past := time.Now().Add(-time.Minute).UnixMilli()
	require.NoError(t, s.Put(ctx, testRecord(t, "due", "alice@example.com", past, "once")))

	sweeper := NewSweeper(s, feed, time.Second*30, model.AttrID)
	require.NoError(t, sweeper.Sweep(ctx))
	require.NoError(t, sweeper.Sweep(ctx))

	count := 0
	for {
		select {
		case <-feed.Events():
			count++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 1, count)
}

// stalledStore blocks every call until its context expires, standing in for
// an unresponsive backend.
type stalledStore struct{}

func (stalledStore) ExpiredBefore(ctx context.Context, _ time.Time) ([]map[string]codec.Value, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stalledStore) Remove(ctx context.Context, _ string) (map[string]codec.Value, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSweepBoundsStoreCalls(t *testing.T) {
	feed := stream.NewFeed(1)
	defer feed.Close()

	sweeper := NewSweeper(stalledStore{}, feed, time.Second*30, model.AttrID)
	sweeper.storeTimeout = time.Millisecond * 25

	done := make(chan error, 1)
	go func() { done <- sweeper.Sweep(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second * 5):
		t.Fatal("sweep hung on an unresponsive store")
	}
}

func TestSweepNothingExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	feed := stream.NewFeed(1)

	future := time.Now().Add(time.Hour).UnixMilli()
	require.NoError(t, s.Put(ctx, testRecord(t, "pending", "alice@example.com", future, "later")))

	sweeper := NewSweeper(s, feed, time.Second*30, model.AttrID)
	require.NoError(t, sweeper.Sweep(ctx))

	select {
	case <-feed.Events():
		t.Fatal("expected no events for unexpired records")
	default:
	}
}
