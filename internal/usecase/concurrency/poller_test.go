// Where: internal/usecase/concurrency/poller_test.go
// What: Tests for readiness polling.
// Why: Terminal states, timeouts, and transport errors each end the wait differently.
package concurrency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

func TestWaitReturnsWhenReady(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("fn", "3", 2)
	provider.pollsUntilReady = 2
	slept := 0
	poller := ReadinessPoller{
		API:      provider,
		Interval: time.Second,
		Attempts: 5,
		Sleep: func(context.Context, time.Duration) error {
			slept++
			return nil
		},
	}

	if err := poller.Wait(context.Background(), "fn", "3", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != 2 {
		t.Fatalf("expected two sleeps, got %d", slept)
	}
}

func TestWaitTimesOut(t *testing.T) {
	provider := newFakeProvider()
	provider.pollsUntilReady = 100
	poller := ReadinessPoller{API: provider, Attempts: 3, Sleep: noSleep}

	err := poller.Wait(context.Background(), "fn", "3", 2)
	if !errors.Is(err, capacity.ErrReadinessTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if provider.polls["fn:3"] != 3 {
		t.Fatalf("expected 3 polls, got %d", provider.polls["fn:3"])
	}
}

func TestWaitAbortsOnTransportError(t *testing.T) {
	provider := newFakeProvider()
	provider.statusErr["fn"] = errors.New("connection reset")
	poller := ReadinessPoller{API: provider, Attempts: 30, Sleep: noSleep}

	err := poller.Wait(context.Background(), "fn", "3", 2)
	if !errors.Is(err, capacity.ErrProviderRequestFailed) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if errors.Is(err, capacity.ErrReadinessTimeout) {
		t.Fatalf("transport error must not be reported as timeout")
	}
}

type failedStatusProvider struct{ *fakeProvider }

func (failedStatusProvider) GetProvisionedStatus(context.Context, string, string) (capacity.ProvisionedRecord, error) {
	return capacity.ProvisionedRecord{Status: capacity.StatusFailed, StatusReason: "FUNCTION_ERROR_INIT_FAILURE"}, nil
}

func TestWaitAbortsOnFailedStatus(t *testing.T) {
	poller := ReadinessPoller{API: failedStatusProvider{newFakeProvider()}, Attempts: 30, Sleep: noSleep}
	err := poller.Wait(context.Background(), "fn", "3", 2)
	if !errors.Is(err, capacity.ErrProviderRequestFailed) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestWaitHonoursContextCancellation(t *testing.T) {
	provider := newFakeProvider()
	provider.pollsUntilReady = 100
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	poller := ReadinessPoller{API: provider, Attempts: 5, Interval: time.Hour}

	if err := poller.Wait(ctx, "fn", "3", 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
