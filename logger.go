package orderbook

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("component", "orderbook")

// SetLogger replaces the package logger, e.g. to route day-order expiry
// scan results into an operator's own handler instead of stdout JSON.
func SetLogger(l *slog.Logger) {
	logger = l
}
