package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/n4u77i/reminderApp/internal/codec"
	"github.com/n4u77i/reminderApp/internal/stream"
	"github.com/robfig/cron/v3"
)

// ExpiringStore is the slice of the store the sweeper needs: find expired
// records and remove them one at a time, getting the pre-removal snapshot
// back.
type ExpiringStore interface {
	ExpiredBefore(ctx context.Context, t time.Time) ([]map[string]codec.Value, error)
	Remove(ctx context.Context, id string) (map[string]codec.Value, error)
}

// Sweeper periodically removes records whose TTL has passed and publishes
// each pre-removal snapshot on the expiry feed. Removal happens before
// publish, so a record is never visible in the store and on the feed at once.
// Expiry is eventual: a record is removed at or after its TTL, bounded by the
// sweep interval, never at an exact instant.
type Sweeper struct {
	store        ExpiringStore
	feed         *stream.Feed
	interval     time.Duration
	idAttr       string
	storeTimeout time.Duration
}

const defaultStoreTimeout = time.Second * 5

func NewSweeper(store ExpiringStore, feed *stream.Feed, interval time.Duration, idAttr string) *Sweeper {
	return &Sweeper{
		store:        store,
		feed:         feed,
		interval:     interval,
		idAttr:       idAttr,
		storeTimeout: defaultStoreTimeout,
	}
}

// Run blocks sweeping on the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	c := cron.New()

	_, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		if err := s.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
			sweeperLogger.Error("sweep cycle failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("unable to schedule sweep: %w", err)
	}

	c.Start()
	sweeperLogger.Info("sweeper started", slog.Duration("interval", s.interval))

	<-ctx.Done()
	<-c.Stop().Done()

	return ctx.Err()
}

// Sweep runs a single expiry cycle. A failure removing or publishing one
// record is logged and does not stop the rest of the cycle.
func (s *Sweeper) Sweep(ctx context.Context) error {
	ctx, span := getTracer().Start(ctx, "expiry-sweep")
	defer span.End()

	listCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	expired, err := s.store.ExpiredBefore(listCtx, time.Now())
	cancel()
	if err != nil {
		return fmt.Errorf("unable to list expired records: %w", err)
	}

	for _, record := range expired {
		id := record[s.idAttr].Str()

		snapshot, err := s.removeOne(ctx, id)
		if err != nil {
			// a concurrent overwrite may have bumped the TTL; the record is
			// simply no longer expired or no longer there
			if errors.Is(err, ErrReminderNotFound) {
				continue
			}
			sweeperLogger.Error("failed to remove expired record", slog.String("id", id), slog.String("error", err.Error()))
			continue
		}

		event := stream.Event{Change: stream.ChangeRemove, OldImage: snapshot}
		if err := s.feed.Publish(ctx, event); err != nil {
			return fmt.Errorf("unable to publish expiry event for %q: %w", id, err)
		}

		sweeperLogger.Info("record expired", slog.String("id", id))
	}

	return nil
}

// removeOne bounds a single removal so one stalled store call cannot wedge
// the whole cycle.
func (s *Sweeper) removeOne(ctx context.Context, id string) (map[string]codec.Value, error) {
	removeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.store.Remove(removeCtx, id)
}
