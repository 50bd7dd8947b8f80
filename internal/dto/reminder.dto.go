package dto

// CreateReminderInput is a create request after JSON decoding. Extra carries
// any caller-supplied fields beyond the known ones; they pass through to the
// stored record unmodified unless they collide with a computed column.
type CreateReminderInput struct {
	Email         string
	PhoneNumber   string
	Message       string
	DueTimeMillis int64
	Extra         map[string]any
}

// CreateReminderOutput is the create confirmation.
type CreateReminderOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Reminder is the read-side representation returned by owner queries.
type Reminder struct {
	ID            string         `json:"id"`
	Owner         string         `json:"owner"`
	Email         string         `json:"email,omitempty"`
	PhoneNumber   string         `json:"phoneNumber,omitempty"`
	Message       string         `json:"message"`
	DueTimeMillis int64          `json:"reminderDate"`
	ExpiresAt     int64          `json:"TTL"`
	Extra         map[string]any `json:"extra,omitempty"`
}

// ListOps are the owner-query options bound from the request.
type ListOps struct {
	Order string `form:"order" json:"order" binding:"omitempty,oneof=asc desc"`
}
