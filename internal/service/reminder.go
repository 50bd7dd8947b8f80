package service

import (
	"context"
	"strconv"
	"time"

	"log/slog"

	"github.com/n4u77i/reminderApp/internal/codec"
	"github.com/n4u77i/reminderApp/internal/database"
	"github.com/n4u77i/reminderApp/internal/dto"
	"github.com/n4u77i/reminderApp/internal/model"
)

const storeTimeout = time.Second * 5

var (
	ErrContactRequired = NewValidationError("contact required")
	ErrMessageRequired = NewValidationError("message required")
	ErrDueTimeRequired = NewValidationError("due time required")
	ErrOwnerRequired   = NewValidationError("owner required")
)

// ReminderRepository is the expiring store surface the service writes and
// reads through. Records cross the boundary in wire format; the service owns
// the codec translation.
type ReminderRepository interface {
	Put(ctx context.Context, record map[string]codec.Value) error
	Get(ctx context.Context, id string) (map[string]codec.Value, error)
	QueryByOwner(ctx context.Context, owner string, ops *database.QueryOps) ([]map[string]codec.Value, error)
}

// IdGenerator produces globally-unique identifiers. The service treats them
// as opaque.
type IdGenerator interface {
	Next() string
}

// ReminderService validates create requests, computes the key columns, writes
// through the expiring store, and answers owner-scoped queries. It is
// stateless aside from its injected handles.
type ReminderService struct {
	store ReminderRepository
	ids   IdGenerator
}

func NewReminderService(store ReminderRepository, ids IdGenerator) *ReminderService {
	return &ReminderService{
		store: store,
		ids:   ids,
	}
}

// Create validates the input, persists the reminder, and returns its id with
// a confirmation message. Validation short-circuits at the first violated
// rule and a failed validation performs no write.
func (s *ReminderService) Create(ctx context.Context, input *dto.CreateReminderInput) (*dto.CreateReminderOutput, error) {
	if input.Email == "" && input.PhoneNumber == "" {
		return nil, ErrContactRequired
	}
	if input.Message == "" {
		return nil, ErrMessageRequired
	}
	if input.DueTimeMillis == 0 {
		return nil, ErrDueTimeRequired
	}

	item := model.NewReminderItem(s.ids.Next(), input.Email, input.PhoneNumber, input.Message, input.DueTimeMillis, input.Extra)

	record, err := codec.MarshalMap(item.ToRecord())
	if err != nil {
		reminderLogger.Error("unable to encode reminder", slog.String("error", err.Error()))
		return nil, NewValidationError("reminder contains unsupported field values")
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := s.store.Put(storeCtx, record); err != nil {
		reminderLogger.Error("unable to store reminder", slog.String("error", err.Error()))
		return nil, err
	}

	dueTime := time.UnixMilli(input.DueTimeMillis).UTC()
	reminderLogger.Info("reminder created", slog.String("id", item.ID), slog.String("owner", item.OwnerKey))

	return &dto.CreateReminderOutput{
		ID:      item.ID,
		Message: "reminder scheduled for " + dueTime.Format(time.RFC1123),
	}, nil
}

// ListByOwner returns the owner's reminders ordered by due time, ascending by
// default.
func (s *ReminderService) ListByOwner(ctx context.Context, owner string, ops *dto.ListOps) ([]dto.Reminder, error) {
	if owner == "" {
		return nil, ErrOwnerRequired
	}

	queryOps := &database.QueryOps{}
	if ops != nil && ops.Order == "desc" {
		queryOps.Descending = true
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	records, err := s.store.QueryByOwner(storeCtx, owner, queryOps)
	if err != nil {
		reminderLogger.Error("unable to query reminders", slog.String("owner", owner), slog.String("error", err.Error()))
		return nil, err
	}

	reminders := make([]dto.Reminder, 0, len(records))
	for _, wire := range records {
		record, err := codec.UnmarshalMap(wire)
		if err != nil {
			reminderLogger.Error("unable to decode reminder", slog.String("owner", owner), slog.String("error", err.Error()))
			continue
		}

		item := model.ItemFromRecord(record)
		dueMillis, _ := strconv.ParseInt(item.SortKey, 10, 64)

		reminders = append(reminders, dto.Reminder{
			ID:            item.ID,
			Owner:         item.OwnerKey,
			Email:         item.Email,
			PhoneNumber:   item.PhoneNumber,
			Message:       item.Message,
			DueTimeMillis: dueMillis,
			ExpiresAt:     item.TTL,
			Extra:         item.Extra,
		})
	}

	return reminders, nil
}
