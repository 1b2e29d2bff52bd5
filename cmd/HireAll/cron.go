package main

import (
	"context"
	"time"

	"HireAll/internal/biz"
	pkglog "HireAll/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
)

// circuitReportSpec runs at second 0 of every minute (sec min hour dom mon dow).
const circuitReportSpec = "0 * * * * *"

// newCircuitReportCron builds the job that logs every circuit not CLOSED,
// locally and across instances. The caller starts and stops it.
func newCircuitReportCron(circuits *biz.CircuitUsecase, logger log.Logger) *cron.Cron {
	helper := pkglog.NewLogHelper(logger)

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(circuitReportSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if n := circuits.ReportUnhealthy(ctx); n > 0 {
			helper.Scheduler("circuit report completed", "unhealthy", n)
		}
	})
	if err != nil {
		// only reachable if circuitReportSpec is malformed
		helper.Errorw("msg", "failed to register circuit report cron job", "error", err)
		return c
	}

	helper.Scheduler("circuit report cron job registered", "spec", circuitReportSpec)
	return c
}
