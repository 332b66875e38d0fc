package logging

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide JSON logger on stdout. The Postgres sink is
// attached later in main, once a database connection exists.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
