package model

import (
	"strconv"
	"time"
)

// Attribute names of the persisted reminder record. The record itself is an
// open map; these are the columns the service always computes or reads.
const (
	AttrID          = "id"
	AttrOwnerKey    = "pk"
	AttrSortKey     = "sk"
	AttrTTL         = "TTL"
	AttrEmail       = "email"
	AttrPhoneNumber = "phoneNumber"
	AttrMessage     = "message"
)

// ReminderItem is the entity persisted in the expiring store. OwnerKey
// partitions the secondary index by contact identity and SortKey orders it by
// due time. TTL is the absolute expiry in seconds since epoch.
type ReminderItem struct {
	ID          string
	OwnerKey    string
	SortKey     string
	TTL         int64
	Email       string
	PhoneNumber string
	Message     string
	Extra       map[string]any
}

// NewReminderItem computes the key columns from the contact identity and due
// time. The owner key is the email when present, the phone number otherwise.
func NewReminderItem(id, email, phoneNumber, message string, dueTimeMillis int64, extra map[string]any) *ReminderItem {
	owner := email
	if owner == "" {
		owner = phoneNumber
	}

	return &ReminderItem{
		ID:          id,
		OwnerKey:    owner,
		SortKey:     strconv.FormatInt(dueTimeMillis, 10),
		TTL:         dueTimeMillis / 1000,
		Email:       email,
		PhoneNumber: phoneNumber,
		Message:     message,
		Extra:       extra,
	}
}

// DueTime returns the due time carried in the sort key.
func (i *ReminderItem) DueTime() time.Time {
	millis, err := strconv.ParseInt(i.SortKey, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(millis).UTC()
}

// ToRecord flattens the item into an open record. Caller-supplied extras are
// merged first so the computed columns always win on conflict.
func (i *ReminderItem) ToRecord() map[string]any {
	record := make(map[string]any, len(i.Extra)+7)
	for k, v := range i.Extra {
		record[k] = v
	}

	record[AttrID] = i.ID
	record[AttrOwnerKey] = i.OwnerKey
	record[AttrSortKey] = i.SortKey
	record[AttrTTL] = i.TTL

	if i.Email != "" {
		record[AttrEmail] = i.Email
	}
	if i.PhoneNumber != "" {
		record[AttrPhoneNumber] = i.PhoneNumber
	}
	record[AttrMessage] = i.Message

	return record
}

// ItemFromRecord rebuilds an item from an open record. Unknown attributes land
// in Extra unmodified.
func ItemFromRecord(record map[string]any) *ReminderItem {
	item := &ReminderItem{Extra: make(map[string]any)}

	for k, v := range record {
		switch k {
		case AttrID:
			item.ID, _ = v.(string)
		case AttrOwnerKey:
			item.OwnerKey, _ = v.(string)
		case AttrSortKey:
			item.SortKey, _ = v.(string)
		case AttrTTL:
			item.TTL = asInt64(v)
		case AttrEmail:
			item.Email, _ = v.(string)
		case AttrPhoneNumber:
			item.PhoneNumber, _ = v.(string)
		case AttrMessage:
			item.Message, _ = v.(string)
		default:
			item.Extra[k] = v
		}
	}

	return item
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}
