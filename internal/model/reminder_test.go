package model

import (
	"testing"
	"time"
)

func TestNewReminderItemComputesKeyColumns(t *testing.T) {
	item := NewReminderItem("id-1", "", "+15551234567", "Call mom", 1700000000000, nil)

	if item.OwnerKey != "+15551234567" {
		t.Errorf("expected owner key from phone number, got %q", item.OwnerKey)
	}
	if item.SortKey != "1700000000000" {
		t.Errorf("expected stringified millis sort key, got %q", item.SortKey)
	}
	if item.TTL != 1700000000 {
		t.Errorf("expected TTL in seconds, got %d", item.TTL)
	}
}

func TestNewReminderItemPrefersEmailOwner(t *testing.T) {
	item := NewReminderItem("id-1", "alice@example.com", "+15551234567", "hi", 1700000000000, nil)

	if item.OwnerKey != "alice@example.com" {
		t.Errorf("expected email owner key, got %q", item.OwnerKey)
	}
}

func TestToRecordComputedFieldsWin(t *testing.T) {
	extra := map[string]any{
		"id":       "spoofed",
		"TTL":      int64(1),
		"category": "errand",
	}
	item := NewReminderItem("id-1", "alice@example.com", "", "hi", 1700000000000, extra)

	record := item.ToRecord()

	if record["id"] != "id-1" {
		t.Errorf("caller-supplied id should lose to computed id, got %v", record["id"])
	}
	if record["TTL"] != int64(1700000000) {
		t.Errorf("caller-supplied TTL should lose to computed TTL, got %v", record["TTL"])
	}
	if record["category"] != "errand" {
		t.Errorf("extra field should pass through, got %v", record["category"])
	}
	if _, ok := record["phoneNumber"]; ok {
		t.Error("absent contact channel should not be persisted")
	}
}

func TestItemFromRecordRoundTrip(t *testing.T) {
	item := NewReminderItem("id-1", "alice@example.com", "", "hi", 1700000000000, map[string]any{"category": "errand"})

	got := ItemFromRecord(item.ToRecord())

	if got.ID != item.ID || got.OwnerKey != item.OwnerKey || got.SortKey != item.SortKey || got.TTL != item.TTL {
		t.Errorf("key columns did not survive the round trip: %#v", got)
	}
	if got.Extra["category"] != "errand" {
		t.Errorf("extra fields did not survive the round trip: %#v", got.Extra)
	}
}

func TestDueTime(t *testing.T) {
	item := NewReminderItem("id-1", "alice@example.com", "", "hi", 1700000000000, nil)

	expected := time.UnixMilli(1700000000000).UTC()
	if !item.DueTime().Equal(expected) {
		t.Errorf("expected due time %s, got %s", expected, item.DueTime())
	}
}
