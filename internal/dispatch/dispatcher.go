// Package dispatch drains the expiry feed and fans each removed reminder out
// to its contact channels.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/n4u77i/reminderApp/internal/codec"
	"github.com/n4u77i/reminderApp/internal/model"
	"github.com/n4u77i/reminderApp/internal/stream"
)

const defaultSendTimeout = time.Second * 30

// NotificationSender is the outbound transport capability. Implementations do
// their own retrying if any; the dispatcher never retries.
type NotificationSender interface {
	SendSMS(ctx context.Context, number, body string) (messageId string, err error)
	SendEmail(ctx context.Context, address, body string) (messageId string, err error)
}

// TransportError wraps a delivery failure on one channel for one record.
type TransportError struct {
	Channel string
	To      string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s to %s: %s", e.Channel, e.To, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EventResult is the outcome of processing a single expiry event.
type EventResult struct {
	ID  string
	Err error
}

type Dispatcher struct {
	sender      NotificationSender
	sendTimeout time.Duration
}

func NewDispatcher(sender NotificationSender) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		sendTimeout: defaultSendTimeout,
	}
}

// HandleBatch processes every event independently and concurrently. A decode
// or send failure on one event never prevents the others from being
// attempted; the returned results carry one entry per event in input order.
func (d *Dispatcher) HandleBatch(ctx context.Context, events []stream.Event) []EventResult {
	ctx, span := tracer.Start(ctx, "dispatch-batch")
	defer span.End()

	results := make([]EventResult, len(events))
	done := make(chan struct{})

	for i, e := range events {
		go func(i int, e stream.Event) {
			defer func() { done <- struct{}{} }()
			results[i] = d.handleEvent(ctx, e)
		}(i, e)
	}

	for range events {
		<-done
	}

	for _, res := range results {
		if res.Err != nil {
			dispatchLogger.Error("event processing failed", slog.String("id", res.ID), slog.String("error", res.Err.Error()))
		}
	}

	return results
}

// handleEvent decodes the pre-removal snapshot and sends on each present
// contact channel. Both sends are attempted for a record carrying both; the
// two are sequential since neither depends on the other finishing first.
func (d *Dispatcher) handleEvent(ctx context.Context, e stream.Event) EventResult {
	if e.Change != stream.ChangeRemove {
		return EventResult{Err: fmt.Errorf("unexpected change type %q on expiry feed", e.Change)}
	}

	record, err := codec.UnmarshalMap(e.OldImage)
	if err != nil {
		return EventResult{Err: fmt.Errorf("unable to decode expired record: %w", err)}
	}

	item := model.ItemFromRecord(record)

	var sendErrs []error

	if item.PhoneNumber != "" {
		smsCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		messageId, err := d.sender.SendSMS(smsCtx, item.PhoneNumber, item.Message)
		cancel()

		if err != nil {
			sendErrs = append(sendErrs, &TransportError{Channel: "sms", To: item.PhoneNumber, Err: err})
		} else {
			dispatchLogger.Info("SMS sent", slog.String("id", item.ID), slog.String("messageId", messageId))
		}
	}

	if item.Email != "" {
		emailCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		messageId, err := d.sender.SendEmail(emailCtx, item.Email, item.Message)
		cancel()

		if err != nil {
			sendErrs = append(sendErrs, &TransportError{Channel: "email", To: item.Email, Err: err})
		} else {
			dispatchLogger.Info("email sent", slog.String("id", item.ID), slog.String("messageId", messageId))
		}
	}

	return EventResult{ID: item.ID, Err: errors.Join(sendErrs...)}
}
