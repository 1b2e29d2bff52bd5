package middleware

import (
	"context"
	"strings"
	"time"

	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// Logging returns a middleware that logs every HTTP request with its status
// and duration, and flags slow requests.
//
// Example output:
//
//	🟢 POST /v1/users/u1/generations - 200 (542ms) | RequestID: mgrn0zfqda
//	🐌 [mgrn0zfqda] Slow request detected | POST /v1/users/u1/generations | 1438ms
func Logging(logger *pkglog.LogHelper) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			startTime := time.Now()

			var (
				method    string
				path      string
				ip        string
				userAgent string
			)

			if tr, ok := transport.FromServerContext(ctx); ok {
				method = tr.Operation()
				path = tr.Operation()

				if ht, ok := tr.(http.Transporter); ok {
					httpReq := ht.Request()
					method = httpReq.Method
					path = httpReq.URL.Path
					if httpReq.URL.RawQuery != "" {
						path = path + "?" + httpReq.URL.RawQuery
					}
					ip = extractClientIP(httpReq)
					userAgent = httpReq.Header.Get("User-Agent")
				}
			}

			// Identity normally runs first; keep its request context.
			if pkglog.GetRequestContext(ctx).RequestID == "unknown" {
				ctx = pkglog.WithRequestContext(ctx, pkglog.GenerateRequestID(), "")
			}

			reply, err := handler(ctx, req)

			duration := time.Since(startTime).Milliseconds()
			logger.RequestWithContext(ctx, method, path, extractHTTPStatus(err), duration,
				"ip", ip,
				"user_agent", userAgent,
			)

			return reply, err
		}
	}
}

// extractClientIP returns the client address.
// Priority: X-Real-IP > X-Forwarded-For > RemoteAddr
func extractClientIP(req *http.Request) string {
	if ip := req.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	return req.RemoteAddr
}

// extractHTTPStatus maps a handler error to the status the encoder will write.
func extractHTTPStatus(err error) int {
	if err == nil {
		return 200
	}
	return int(errors.FromError(err).Code)
}
