package server

import (
	nethttp "net/http"

	"HireAll/internal/conf"
	"HireAll/internal/server/middleware"
	"HireAll/internal/service"
	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *conf.Server,
	usage *service.UsageService,
	circuits *service.CircuitService,
	generation *service.GenerationService,
	logger log.Logger,
) *http.Server {
	logHelper := pkglog.NewLogHelper(logger)

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			middleware.Identity(logHelper),
			middleware.Logging(logHelper),
		),
		http.ErrorEncoder(errorEncoder),
	}
	if c != nil && c.HTTP != nil {
		if c.HTTP.Network != "" {
			opts = append(opts, http.Network(c.HTTP.Network))
		}
		if c.HTTP.Addr != "" {
			opts = append(opts, http.Address(c.HTTP.Addr))
		}
		if c.HTTP.Timeout > 0 {
			opts = append(opts, http.Timeout(c.HTTP.Timeout))
		}
	}
	srv := http.NewServer(opts...)

	r := srv.Route("/v1")
	registerUsageRoutes(r, usage)
	registerGenerationRoutes(r, generation)
	registerCircuitRoutes(r, circuits)

	return srv
}

// errorEncoder copies the retry hint of throttling errors into a Retry-After
// header, then encodes the error as usual.
func errorEncoder(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	se := errors.FromError(err)
	if v := se.Metadata[service.MetadataRetryAfter]; v != "" {
		w.Header().Set("Retry-After", v)
	}
	http.DefaultErrorEncoder(w, r, err)
}
