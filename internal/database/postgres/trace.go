package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/tracelog"
)

// newTracer routes pgx trace events to logger. Driver chatter is folded
// one level down so a Debug logger shows it and a Warn logger only sees
// failures.
func newTracer(logger *slog.Logger) *tracelog.TraceLog {
	level := tracelog.LogLevelWarn
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		level = tracelog.LogLevelDebug
	}

	return &tracelog.TraceLog{
		LogLevel: level,
		Logger: tracelog.LoggerFunc(func(ctx context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
			attrs := make([]slog.Attr, 0, len(data))
			for k, v := range data {
				attrs = append(attrs, slog.Any(k, v))
			}
			logger.LogAttrs(ctx, slogLevel(lvl), "pgx: "+msg, attrs...)
		}),
	}
}

func slogLevel(lvl tracelog.LogLevel) slog.Level {
	switch lvl {
	case tracelog.LogLevelError:
		return slog.LevelError
	case tracelog.LogLevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// noticeHandler logs asynchronous server notices, such as the NOTICE raised
// by DROP TABLE IF EXISTS on a missing table.
func noticeHandler(logger *slog.Logger) pgconn.NoticeHandler {
	return func(_ *pgconn.PgConn, n *pgconn.Notice) {
		logger.Info("server notice", "severity", n.Severity, "message", n.Message)
	}
}
