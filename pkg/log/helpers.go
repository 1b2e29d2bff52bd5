package log

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// LogHelper extends the Kratos helper with typed log methods. Each method adds
// a "type" field that the console encoder maps to an emoji.
type LogHelper struct {
	*log.Helper
}

// NewLogHelper wraps logger in a LogHelper.
func NewLogHelper(logger log.Logger) *LogHelper {
	return &LogHelper{
		Helper: log.NewHelper(logger),
	}
}

func withType(msg, logType string, kvs []interface{}) []interface{} {
	all := make([]interface{}, 0, len(kvs)+4)
	all = append(all, "msg", msg)
	all = append(all, kvs...)
	return append(all, "type", logType)
}

// RateLimit logs a quota or throttling denial at warn level.
func (h *LogHelper) RateLimit(msg string, kvs ...interface{}) {
	h.Warnw(withType(msg, "rate_limit", kvs)...)
}

// Circuit logs a circuit breaker state change.
func (h *LogHelper) Circuit(msg string, kvs ...interface{}) {
	h.Warnw(withType(msg, "circuit", kvs)...)
}

// Usage logs usage accounting events.
func (h *LogHelper) Usage(msg string, kvs ...interface{}) {
	h.Infow(withType(msg, "usage", kvs)...)
}

// Database logs database operations at debug level.
func (h *LogHelper) Database(msg string, kvs ...interface{}) {
	h.Debugw(withType(msg, "database", kvs)...)
}

// Redis logs Redis operations at debug level.
func (h *LogHelper) Redis(msg string, kvs ...interface{}) {
	h.Debugw(withType(msg, "redis", kvs)...)
}

// AI logs AI provider calls.
func (h *LogHelper) AI(msg string, kvs ...interface{}) {
	h.Infow(withType(msg, "ai", kvs)...)
}

// Scheduler logs cron activity.
func (h *LogHelper) Scheduler(msg string, kvs ...interface{}) {
	h.Infow(withType(msg, "scheduler", kvs)...)
}

// Startup logs boot-time messages.
func (h *LogHelper) Startup(msg string, kvs ...interface{}) {
	h.Infow(withType(msg, "startup", kvs)...)
}

// Audit logs audit trail events.
func (h *LogHelper) Audit(msg string, kvs ...interface{}) {
	h.Infow(withType(msg, "audit", kvs)...)
}

// Degraded logs a fallback path taken because a dependency failed.
func (h *LogHelper) Degraded(msg string, kvs ...interface{}) {
	h.Warnw(withType(msg, "degraded", kvs)...)
}

// RequestWithContext logs a finished HTTP request and flags slow ones (> 1000ms).
func (h *LogHelper) RequestWithContext(ctx context.Context, method, url string, status int, durationMs int64, kvs ...interface{}) {
	reqCtx := GetRequestContext(ctx)

	msg := fmt.Sprintf("%s %s - %d (%dms) | RequestID: %s",
		method, url, status, durationMs, reqCtx.RequestID)

	all := make([]interface{}, 0, len(kvs)+16)
	all = append(all, "msg", msg)
	all = append(all, kvs...)
	all = append(all,
		"type", "request",
		"request_id", reqCtx.RequestID,
		"user_id", reqCtx.UserID,
		"method", method,
		"url", url,
		"status", status,
		"duration_ms", durationMs,
	)
	h.Infow(all...)

	if durationMs > 1000 {
		h.Warnw(
			"msg", fmt.Sprintf("[%s] Slow request detected | %s %s | %dms", reqCtx.RequestID, method, url, durationMs),
			"type", "slow_request",
			"request_id", reqCtx.RequestID,
			"duration_ms", durationMs,
		)
	}
}
