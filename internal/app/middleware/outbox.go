package middleware

import (
	"context"
	"log/slog"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/outbox"
)

// OutboxFlush publishes the events a successful command left in box. The write
// is already committed, so a flush error is only logged; undelivered records
// stay in box for the next flush or the outbox worker.
func OutboxFlush(box outbox.Outbox, logger *slog.Logger) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		return DispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				logger.WarnContext(ctx, "outbox flush failed", "command", cmd.Key(), "error", err)
			}
			return res, nil
		})
	}
}
