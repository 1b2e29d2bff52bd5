package main

import (
	"testing"

	"HireAll/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCircuitReportCron(t *testing.T) {
	registry := biz.NewCircuitBreakerRegistry()
	uc := biz.NewCircuitUsecase(registry, nil, nil, log.DefaultLogger)

	c := newCircuitReportCron(uc, log.DefaultLogger)
	require.NotNil(t, c)

	entries := c.Entries()
	require.Len(t, entries, 1)

	// the job runs safely outside the scheduler
	assert.NotPanics(t, func() { entries[0].WrappedJob.Run() })
}
