package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/n4u77i/reminderApp/internal/codec"
	"github.com/n4u77i/reminderApp/internal/database"
	"github.com/n4u77i/reminderApp/internal/dto"
	"github.com/n4u77i/reminderApp/internal/model"
)

type fakeRepo struct {
	puts    []map[string]codec.Value
	queried []map[string]codec.Value
	putErr  error
}

func (f *fakeRepo) Put(_ context.Context, record map[string]codec.Value) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts = append(f.puts, record)
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (map[string]codec.Value, error) {
	for _, record := range f.puts {
		if record[model.AttrID].Str() == id {
			return record, nil
		}
	}
	return nil, database.ErrReminderNotFound
}

func (f *fakeRepo) QueryByOwner(_ context.Context, _ string, ops *database.QueryOps) ([]map[string]codec.Value, error) {
	records := append([]map[string]codec.Value{}, f.queried...)
	if ops != nil && ops.Descending {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}
	return records, nil
}

type seqIds int

func (s *seqIds) Next() string {
	*s++
	return fmt.Sprintf("id-%d", *s)
}

func TestCreateValidationOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    dto.CreateReminderInput
		expected error
	}{
		{"no contact", dto.CreateReminderInput{Message: "hi", DueTimeMillis: 1700000000000}, ErrContactRequired},
		{"no message", dto.CreateReminderInput{Email: "a@example.com", DueTimeMillis: 1700000000000}, ErrMessageRequired},
		{"no due time", dto.CreateReminderInput{Email: "a@example.com", Message: "hi"}, ErrDueTimeRequired},
		{"contact checked first", dto.CreateReminderInput{}, ErrContactRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			ids := seqIds(0)
			svc := NewReminderService(repo, &ids)

			_, err := svc.Create(context.Background(), &tt.input)

			if !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected a ValidationError, got %T", err)
			}

			if len(repo.puts) != 0 {
				t.Errorf("failed validation must not write, got %d puts", len(repo.puts))
			}
		})
	}
}

func TestCreateComputesColumnsAndWrites(t *testing.T) {
	repo := &fakeRepo{}
	ids := seqIds(0)
	svc := NewReminderService(repo, &ids)

	out, err := svc.Create(context.Background(), &dto.CreateReminderInput{
		PhoneNumber:   "+15551234567",
		Message:       "Call mom",
		DueTimeMillis: 1700000000000,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if out.ID != "id-1" {
		t.Errorf("expected generated id, got %q", out.ID)
	}
	if !strings.Contains(out.Message, "14 Nov 2023") {
		t.Errorf("confirmation should contain the formatted due date, got %q", out.Message)
	}

	if len(repo.puts) != 1 {
		t.Fatalf("expected one write, got %d", len(repo.puts))
	}

	record := repo.puts[0]
	if got := record[model.AttrOwnerKey].Str(); got != "+15551234567" {
		t.Errorf("expected phone owner key, got %q", got)
	}
	if got := record[model.AttrSortKey].Str(); got != "1700000000000" {
		t.Errorf("expected millis sort key, got %q", got)
	}
	if got := record[model.AttrTTL].Int(); got != 1700000000 {
		t.Errorf("expected TTL in seconds, got %d", got)
	}
}

func TestCreateMergesExtrasComputedWins(t *testing.T) {
	repo := &fakeRepo{}
	ids := seqIds(0)
	svc := NewReminderService(repo, &ids)

	_, err := svc.Create(context.Background(), &dto.CreateReminderInput{
		Email:         "alice@example.com",
		Message:       "hi",
		DueTimeMillis: 1700000000000,
		Extra: map[string]any{
			"id":       "spoofed",
			"category": "errand",
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	record := repo.puts[0]
	if got := record[model.AttrID].Str(); got != "id-1" {
		t.Errorf("service-computed id must win, got %q", got)
	}
	if got := record["category"].Str(); got != "errand" {
		t.Errorf("extra field must pass through, got %q", got)
	}
}

func TestCreatePropagatesStorageError(t *testing.T) {
	repo := &fakeRepo{putErr: &database.StorageError{Op: "put", Err: errors.New("unavailable")}}
	ids := seqIds(0)
	svc := NewReminderService(repo, &ids)

	_, err := svc.Create(context.Background(), &dto.CreateReminderInput{
		Email:         "alice@example.com",
		Message:       "hi",
		DueTimeMillis: 1700000000000,
	})

	var storageErr *database.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected StorageError to propagate, got %v", err)
	}
}

func TestListByOwnerRequiresOwner(t *testing.T) {
	repo := &fakeRepo{}
	ids := seqIds(0)
	svc := NewReminderService(repo, &ids)

	_, err := svc.ListByOwner(context.Background(), "", nil)

	if !errors.Is(err, ErrOwnerRequired) {
		t.Fatalf("expected owner required, got %v", err)
	}
}

func TestListByOwnerOrdering(t *testing.T) {
	first := mustEncode(t, model.NewReminderItem("id-1", "alice@example.com", "", "sooner", 1700000000000, nil))
	second := mustEncode(t, model.NewReminderItem("id-2", "alice@example.com", "", "later", 1700000600000, nil))

	repo := &fakeRepo{queried: []map[string]codec.Value{first, second}}
	ids := seqIds(0)
	svc := NewReminderService(repo, &ids)

	asc, err := svc.ListByOwner(context.Background(), "alice@example.com", nil)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(asc) != 2 || asc[0].Message != "sooner" || asc[1].Message != "later" {
		t.Errorf("expected ascending order, got %#v", asc)
	}

	desc, err := svc.ListByOwner(context.Background(), "alice@example.com", &dto.ListOps{Order: "desc"})
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(desc) != 2 || desc[0].Message != "later" {
		t.Errorf("expected descending order, got %#v", desc)
	}
}

func mustEncode(t *testing.T, item *model.ReminderItem) map[string]codec.Value {
	t.Helper()

	record, err := codec.MarshalMap(item.ToRecord())
	if err != nil {
		t.Fatal(err)
	}
	return record
}
