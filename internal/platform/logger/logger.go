package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. INTAKE_LOG_FORMAT=json switches
// to JSON output for log shippers; the default text handler stays readable in dev.
func New() *slog.Logger {
	var handler slog.Handler
	if os.Getenv("INTAKE_LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}
