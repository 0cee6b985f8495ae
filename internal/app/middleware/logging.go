package middleware

import (
	"context"
	"log/slog"
	"time"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/queries"
)

// CommandLogging records each command key, duration and outcome.
func CommandLogging(logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		if logger == nil {
			return next
		}
		return DispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			attrs := []any{"command", cmd.Key(), "duration", time.Since(start)}
			if err != nil {
				logger.WarnContext(ctx, "command failed", append(attrs, "error", err)...)
				return nil, err
			}
			logger.InfoContext(ctx, "command handled", attrs...)
			return res, nil
		})
	}
}

// QueryLogging warns on failed reads. Successful ones go to debug.
func QueryLogging(logger *slog.Logger) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		if logger == nil {
			return next
		}
		return AskFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			attrs := []any{"query", q.Key(), "duration", time.Since(start)}
			if err != nil {
				logger.WarnContext(ctx, "query failed", append(attrs, "error", err)...)
				return nil, err
			}
			logger.DebugContext(ctx, "query handled", attrs...)
			return res, nil
		})
	}
}
