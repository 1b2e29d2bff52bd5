// Package main is the entry point of the HireAll quota service.
// It initializes the Kratos application with an HTTP server.
package main

import (
	"context"
	"flag"
	"os"

	"HireAll/internal/biz"
	"HireAll/internal/conf"
	zapLogger "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/tracing"
	"github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name = "hireall"
	// Version is the version of the compiled software.
	Version string
	// flagconf is the config flag.
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/config.yaml", "config path, eg: -conf config.yaml")
}

func newApp(logger log.Logger, hs *http.Server, circuits *biz.CircuitUsecase) *kratos.App {
	reporter := newCircuitReportCron(circuits, logger)

	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
		kratos.AfterStart(func(context.Context) error {
			reporter.Start()
			return nil
		}),
		kratos.BeforeStop(func(context.Context) error {
			<-reporter.Stop().Done()
			return nil
		}),
	)
}

func main() {
	flag.Parse()

	// Load configuration using Viper with environment variable support
	bc, err := conf.NewBootstrap(flagconf)
	if err != nil {
		// Use fallback logger before Zap is initialized
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLog, err := zapLogger.NewZapLogger(bc.Log)
	if err != nil {
		log.Fatalf("failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	logger := zapLogger.NewKratosAdapter(zapLog)
	logger = log.With(logger,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
		"trace.id", tracing.TraceID(),
		"span.id", tracing.SpanID(),
	)

	zapLogger.NewLogHelper(logger).Startup("HireAll service starting",
		"log.level", bc.Log.Level,
		"log.format", bc.Log.Format,
		"http.addr", bc.Server.HTTP.Addr,
		"ai_requests_per_minute", bc.Usage.AIRequestsPerMinute,
		"gemini.enabled", bc.Gemini.APIKey != "",
	)

	app, cleanup, err := wireApp(bc.Server, bc.Data, bc.Usage, bc.CircuitBreaker, bc.Gemini, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
