// Where: internal/usecase/concurrency/scheduler.go
// What: Apply desired capacity to every target under bounded parallelism.
// Why: One task per function; failures are isolated and aggregated at the end.
package concurrency

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
	"golang.org/x/sync/errgroup"
)

const progressLabel = "Provisioned concurrency"

// Scheduler runs resolve -> reconcile -> put -> wait for each target.
//
// Failure policy: isolate-and-aggregate. Every scheduled task runs to
// completion; the batch fails with all task errors joined if any failed.
type Scheduler struct {
	API        ProviderAPI
	Resolver   VersionResolver
	Reconciler Reconciler
	Poller     ReadinessPoller
	Log        Logger
	Progress   ProgressSink
	Qualifier  NameQualifier
	Recorder   OutcomeRecorder
	// Exclude marks functions that never receive new capacity but are still cleaned up.
	Exclude func(name string) bool
	// Concurrency defaults to the number of CPUs.
	Concurrency int
	RunID       string
	Now         func() time.Time
}

// Run processes all targets and returns the joined task errors.
func (s *Scheduler) Run(ctx context.Context, targets []capacity.FunctionTarget) error {
	if len(targets) == 0 {
		return nil
	}
	if s.API == nil {
		return errProviderNotConfigured
	}

	state := newRunState(s.Progress, progressLabel, len(targets), s.Now)
	defer state.close()

	errs := make([]error, len(targets))
	var group errgroup.Group
	group.SetLimit(s.limit())
	for i, target := range targets {
		group.Go(func() error {
			outcome := s.runTask(ctx, target)
			errs[i] = outcome.Err
			s.record(ctx, outcome)
			state.advance(outcome.Err != nil)
			return nil
		})
	}
	_ = group.Wait()
	return errors.Join(errs...)
}

func (s *Scheduler) limit() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return runtime.NumCPU()
}

func (s *Scheduler) logger() Logger {
	if s.Log == nil {
		return nopLogger{}
	}
	return s.Log
}

func (s *Scheduler) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Scheduler) excluded(names ...string) bool {
	if s.Exclude == nil {
		return false
	}
	for _, name := range names {
		if s.Exclude(name) {
			return true
		}
	}
	return false
}

func (s *Scheduler) runTask(ctx context.Context, target capacity.FunctionTarget) (out Outcome) {
	out = Outcome{RunID: s.RunID, FunctionName: target.Name, Desired: target.Desired()}
	defer func() {
		out.FinishedAt = s.now()
		if out.Err != nil {
			out.Action = ActionFailed
		}
	}()
	log := s.logger()

	qualifier := s.Qualifier
	if qualifier == nil {
		qualifier = identityQualifier{}
	}
	function, err := qualifier.Qualify(target.Name)
	if err != nil {
		out.Err = fmt.Errorf("qualify function name %s: %w", target.Name, err)
		log.Error(out.Err.Error())
		return out
	}
	out.FunctionName = function

	reconciler := s.Reconciler
	if reconciler.API == nil {
		reconciler.API = s.API
	}
	if reconciler.Log == nil {
		reconciler.Log = log
	}

	if !target.WantsCapacity() || s.excluded(target.Name, function) {
		if target.WantsCapacity() {
			log.Info(fmt.Sprintf("Skipping excluded function %s; removing any provisioned concurrency", function))
		}
		result, err := reconciler.Reconcile(ctx, function, "")
		out.Deleted = result.Deleted
		out.Err = err
		out.Action = ActionCleared
		return out
	}

	resolver := s.Resolver
	if resolver.API == nil {
		resolver.API = s.API
	}
	version, err := resolver.Resolve(ctx, function, target.VersionRef)
	if err != nil {
		log.Error(fmt.Sprintf("Unable to resolve version for %s (requested %d): %v", function, out.Desired, err))
		out.Err = err
		return out
	}
	resolved := capacity.ResolvedTarget{FunctionName: function, Version: version, DesiredCapacity: out.Desired}
	out.Version = resolved.Version
	return s.apply(ctx, reconciler, resolved, out)
}

// apply converges one resolved version: reconcile, then put and wait unless already ready.
func (s *Scheduler) apply(ctx context.Context, reconciler Reconciler, target capacity.ResolvedTarget, out Outcome) Outcome {
	log := s.logger()
	function, version, desired := target.FunctionName, target.Version, target.DesiredCapacity

	result, err := reconciler.Reconcile(ctx, function, version)
	out.Deleted = result.Deleted
	if err != nil {
		out.Err = err
		return out
	}
	if current := result.Current; current != nil &&
		current.Requested == desired &&
		current.Status == capacity.StatusReady {
		log.Info(fmt.Sprintf("Provisioned concurrency of %s:%s already at %d", function, version, desired))
		out.Action = ActionUnchanged
		return out
	}

	log.Info(fmt.Sprintf("Setting provisioned concurrency of %s:%s to %d", function, version, desired))
	if err := s.API.PutProvisionedCapacity(ctx, function, version, desired); err != nil {
		perr := &capacity.ProviderError{
			Operation:    "PutProvisionedCapacity",
			FunctionName: function,
			Version:      version,
			Requested:    desired,
			Err:          err,
		}
		log.Error(perr.Error())
		out.Err = perr
		return out
	}

	poller := s.Poller
	if poller.API == nil {
		poller.API = s.API
	}
	if poller.Log == nil {
		poller.Log = log
	}
	if err := poller.Wait(ctx, function, version, desired); err != nil {
		log.Error(fmt.Sprintf("Provisioned concurrency of %s:%s (requested %d) not ready: %v", function, version, desired, err))
		out.Err = err
		return out
	}
	log.Info(fmt.Sprintf("Provisioned concurrency of %s:%s is ready (%d)", function, version, desired))
	out.Action = ActionApplied
	return out
}

func (s *Scheduler) record(ctx context.Context, outcome Outcome) {
	if s.Recorder == nil {
		return
	}
	if err := s.Recorder.Record(ctx, outcome); err != nil {
		s.logger().Error(fmt.Sprintf("Unable to record outcome for %s: %v", outcome.FunctionName, err))
	}
}
