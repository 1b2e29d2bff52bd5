package log

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

type contextKey string

const requestContextKey contextKey = "hireall_request_context"

// RequestContext carries per-request tracing fields through context.Context.
type RequestContext struct {
	RequestID string
	UserID    string
	StartTime time.Time
}

var (
	randSource  = rand.NewSource(time.Now().UnixNano())
	randMutex   sync.Mutex
	base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// GenerateRequestID returns a 10 character base36 id, e.g. mgrn0zfqda.
func GenerateRequestID() string {
	randMutex.Lock()
	defer randMutex.Unlock()

	b := make([]byte, 10)
	for i := range b {
		b[i] = base36Chars[randSource.Int63()%36]
	}
	return string(b)
}

// WithRequestContext stores a RequestContext on ctx.
func WithRequestContext(ctx context.Context, requestID, userID string) context.Context {
	return context.WithValue(ctx, requestContextKey, &RequestContext{
		RequestID: requestID,
		UserID:    userID,
		StartTime: time.Now(),
	})
}

// GetRequestContext returns the RequestContext on ctx, or a placeholder with
// RequestID "unknown" so callers never nil-check.
func GetRequestContext(ctx context.Context) *RequestContext {
	if ctx != nil {
		if reqCtx, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
			return reqCtx
		}
	}
	return &RequestContext{RequestID: "unknown"}
}

// GetRequestID returns the request id on ctx.
func GetRequestID(ctx context.Context) string {
	return GetRequestContext(ctx).RequestID
}

// GetUserID returns the user id on ctx.
func GetUserID(ctx context.Context) string {
	return GetRequestContext(ctx).UserID
}

// GetElapsedTime returns milliseconds since the request context was created.
func GetElapsedTime(ctx context.Context) int64 {
	reqCtx := GetRequestContext(ctx)
	if reqCtx.StartTime.IsZero() {
		return 0
	}
	return time.Since(reqCtx.StartTime).Milliseconds()
}
