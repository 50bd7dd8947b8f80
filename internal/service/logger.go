package service

import (
	"os"

	"log/slog"
)

// Reminder Logger
var (
	reminderHandler = slog.NewTextHandler(os.Stdout, nil).WithAttrs([]slog.Attr{slog.String("name", "Reminder Service")})
	reminderLogger  = slog.New(reminderHandler)
)
