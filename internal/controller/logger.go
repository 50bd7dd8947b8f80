package controller

import (
	"os"

	"log/slog"
)

var (
	reminderHandler = slog.NewTextHandler(os.Stdout, nil).WithAttrs([]slog.Attr{slog.String("name", "Reminder Controller")})
	reminderLogger  = slog.New(reminderHandler)
)
