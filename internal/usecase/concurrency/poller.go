// Where: internal/usecase/concurrency/poller.go
// What: Wait for a provisioned concurrency config to reach READY.
// Why: Put returns before capacity is allocated; convergence must be confirmed.
package concurrency

import (
	"context"
	"fmt"
	"time"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

const (
	DefaultPollInterval = 10 * time.Second
	DefaultPollAttempts = 30
)

// ReadinessPoller polls GetProvisionedStatus on a fixed interval.
type ReadinessPoller struct {
	API      ProviderAPI
	Log      Logger
	Interval time.Duration
	Attempts int
	// Sleep defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Wait returns nil once the config is READY. Transport errors and a FAILED
// status abort immediately; running out of attempts yields a ReadinessTimeoutError.
func (p ReadinessPoller) Wait(ctx context.Context, function, version string, requested int) error {
	if p.API == nil {
		return errProviderNotConfigured
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultPollAttempts
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	log := p.Log
	if log == nil {
		log = nopLogger{}
	}

	last := capacity.StatusInProgress
	for attempt := 1; attempt <= attempts; attempt++ {
		record, err := p.API.GetProvisionedStatus(ctx, function, version)
		if err != nil {
			return &capacity.ProviderError{
				Operation:    "GetProvisionedStatus",
				FunctionName: function,
				Version:      version,
				Requested:    requested,
				Err:          err,
			}
		}
		last = record.Status
		switch record.Status {
		case capacity.StatusReady:
			return nil
		case capacity.StatusFailed:
			return &capacity.ProviderError{
				Operation:    "GetProvisionedStatus",
				FunctionName: function,
				Version:      version,
				Requested:    requested,
				Err:          fmt.Errorf("status %s: %s", record.Status, record.StatusReason),
			}
		}
		if attempt == attempts {
			break
		}
		log.Info(fmt.Sprintf(
			"Waiting for %s:%s (%d/%d allocated, attempt %d/%d)",
			function, version, record.Allocated, requested, attempt, attempts,
		))
		if err := sleep(ctx, interval); err != nil {
			return err
		}
	}
	return &capacity.ReadinessTimeoutError{
		FunctionName: function,
		Version:      version,
		Attempts:     attempts,
		Elapsed:      time.Duration(attempts-1) * interval,
		LastStatus:   last,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
