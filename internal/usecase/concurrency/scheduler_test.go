// Where: internal/usecase/concurrency/scheduler_test.go
// What: Tests for the per-target apply step.
// Why: Reconcile, put, and wait must all act on the same resolved version.
package concurrency

import (
	"context"
	"testing"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

func TestApplyConvergesResolvedTarget(t *testing.T) {
	provider := newFakeProvider()
	provider.seed("fn", "1", 5)
	log := &recordingLogger{}
	scheduler := &Scheduler{API: provider, Log: log, Poller: ReadinessPoller{API: provider, Sleep: noSleep, Attempts: 3}}

	target := capacity.ResolvedTarget{FunctionName: "fn", Version: "3", DesiredCapacity: 4}
	out := scheduler.apply(context.Background(), Reconciler{API: provider, Log: log}, target, Outcome{FunctionName: "fn", Version: "3"})
	if out.Err != nil {
		t.Fatalf("apply: %v", out.Err)
	}
	if out.Action != ActionApplied {
		t.Fatalf("expected applied, got %q", out.Action)
	}
	if len(provider.puts) != 1 || provider.puts[0] != "fn:3=4" {
		t.Fatalf("unexpected puts: %v", provider.puts)
	}
	if len(provider.deletes) != 1 || provider.deletes[0] != "fn:1" {
		t.Fatalf("unexpected deletes: %v", provider.deletes)
	}
	if holders := provider.holders("fn"); len(holders) != 1 || holders["3"] != 4 {
		t.Fatalf("expected only version 3 to hold capacity, got %v", holders)
	}

	again := scheduler.apply(context.Background(), Reconciler{API: provider, Log: log}, target, Outcome{FunctionName: "fn", Version: "3"})
	if again.Err != nil || again.Action != ActionUnchanged {
		t.Fatalf("expected unchanged on second apply, got %+v", again)
	}
	if len(provider.puts) != 1 {
		t.Fatalf("second apply must not put, got %v", provider.puts)
	}
}
