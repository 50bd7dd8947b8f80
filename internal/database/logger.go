package database

import (
	"os"

	"log/slog"
)

// Store Logger
var (
	storeHandler = slog.NewTextHandler(os.Stdout, nil).WithAttrs([]slog.Attr{slog.String("name", "Reminder Store")})
	storeLogger  = slog.New(storeHandler)
)

// Sweeper Logger
var (
	sweeperHandler = slog.NewTextHandler(os.Stdout, nil).WithAttrs([]slog.Attr{slog.String("name", "Expiry Sweeper")})
	sweeperLogger  = slog.New(sweeperHandler)
)
