// Package middleware provides HTTP middleware for caller identity and request logging.
package middleware

import (
	"context"
	"strings"

	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	// HeaderUserID carries the caller's user id, set by the upstream auth gateway.
	HeaderUserID = "X-User-ID"
	// HeaderRequestID carries the request id. Generated when absent.
	HeaderRequestID = "X-Request-ID"
)

// Identity returns a middleware that reads the caller identity and request id
// from headers and stores them as the request context. The request id is
// echoed in the reply headers.
//
// Identity is asserted by the gateway in front of this service; it is not
// verified here.
func Identity(logger *pkglog.LogHelper) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			var userID, requestID string

			if tr, ok := transport.FromServerContext(ctx); ok {
				requestID = tr.RequestHeader().Get(HeaderRequestID)
				userID = strings.TrimSpace(tr.RequestHeader().Get(HeaderUserID))

				if requestID == "" {
					requestID = pkglog.GenerateRequestID()
				}
				tr.ReplyHeader().Set(HeaderRequestID, requestID)

				if ht, ok := tr.(http.Transporter); ok && userID != "" {
					logger.Debugw(
						"msg", "caller identified",
						"user_id", userID,
						"path", ht.PathTemplate(),
						"request_id", requestID,
					)
				}
			}
			if requestID == "" {
				requestID = pkglog.GenerateRequestID()
			}

			ctx = pkglog.WithRequestContext(ctx, requestID, userID)
			return handler(ctx, req)
		}
	}
}
