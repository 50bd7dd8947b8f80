package dispatch

import (
	"os"

	"log/slog"

	"go.opentelemetry.io/otel"
)

var (
	dispatchHandler = slog.NewTextHandler(os.Stdout, nil).WithAttrs([]slog.Attr{slog.String("name", "Dispatcher")})
	dispatchLogger  = slog.New(dispatchHandler)
)

var tracer = otel.Tracer("github.com/n4u77i/reminderApp/internal/dispatch")
