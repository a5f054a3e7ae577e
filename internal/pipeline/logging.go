package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

// docLogger tags logger with the run and document carried by ctx.
func docLogger(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := common.RunIDFromContext(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	if doc := common.DocumentFromContext(ctx); doc != "" {
		logger = logger.With("document", doc)
	}
	return logger
}
