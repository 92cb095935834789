// Where: internal/usecase/concurrency/service.go
// What: Entry points for validating and reconciling provisioned concurrency.
// Why: Give any orchestrator an explicit validate-then-apply API.
package concurrency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

// Options configures a Service.
type Options struct {
	// MarginPercent applies when the manifest carries no margin of its own.
	MarginPercent int
}

// Service validates and applies the declared provisioned concurrency of one manifest.
// The manifest is read once at construction.
type Service struct {
	targets   []capacity.FunctionTarget
	byName    map[string]capacity.FunctionTarget
	margin    int
	marginErr error
	scheduler *Scheduler
	log       Logger

	mu           sync.Mutex
	validatedAll bool
	validated    map[string]bool
}

// NewService normalises the manifest and binds it to a scheduler.
func NewService(manifest capacity.Manifest, scheduler *Scheduler, opts Options) *Service {
	margin := opts.MarginPercent
	if manifest.MarginPercent != nil {
		margin = *manifest.MarginPercent
	}
	if margin == 0 {
		margin = capacity.DefaultMarginPercent
	}
	// An out-of-range margin fails every validation instead of being adjusted.
	marginErr := capacity.CheckMarginPercent(margin)
	targets := capacity.Normalize(manifest.Functions)
	byName := make(map[string]capacity.FunctionTarget, len(targets))
	for _, target := range targets {
		byName[target.Name] = target
	}
	if scheduler == nil {
		scheduler = &Scheduler{}
	}
	return &Service{
		targets:   targets,
		byName:    byName,
		margin:    margin,
		marginErr: marginErr,
		scheduler: scheduler,
		log:       scheduler.logger(),
		validated: map[string]bool{},
	}
}

// Targets returns the normalised targets in name order.
func (s *Service) Targets() []capacity.FunctionTarget {
	return append([]capacity.FunctionTarget(nil), s.targets...)
}

// MarginPercent returns the margin used by validation.
func (s *Service) MarginPercent() int {
	return s.margin
}

// ValidateAll checks every target; any failure rejects the whole batch.
func (s *Service) ValidateAll(_ context.Context) error {
	if s.marginErr != nil {
		s.log.Error(s.marginErr.Error())
		return s.marginErr
	}
	if err := capacity.ValidateAll(s.targets, s.margin); err != nil {
		s.log.Error(err.Error())
		return err
	}
	s.mu.Lock()
	s.validatedAll = true
	for _, target := range s.targets {
		s.validated[target.Name] = true
	}
	s.mu.Unlock()
	s.log.Info(fmt.Sprintf("Validated provisioned concurrency for %d functions (margin %d%%)", len(s.targets), s.margin))
	return nil
}

// ValidateOne checks a single function. Functions without capacity settings pass.
func (s *Service) ValidateOne(_ context.Context, name string) error {
	if s.marginErr != nil {
		s.log.Error(s.marginErr.Error())
		return s.marginErr
	}
	target, ok := s.byName[name]
	if ok {
		if err := capacity.ValidateAll([]capacity.FunctionTarget{target}, s.margin); err != nil {
			s.log.Error(err.Error())
			return err
		}
	}
	s.mu.Lock()
	s.validated[name] = true
	s.mu.Unlock()
	return nil
}

// ReconcileAll applies every target. ValidateAll must have succeeded first.
func (s *Service) ReconcileAll(ctx context.Context) error {
	s.mu.Lock()
	ready := s.validatedAll
	s.mu.Unlock()
	if !ready {
		s.log.Error(fmt.Sprintf("Provisioned concurrency failed: %v", ErrValidationRequired))
		return ErrValidationRequired
	}
	return s.run(ctx, s.targets)
}

// ReconcileOne applies a single function, used for incremental deployments.
// ValidateOne (or ValidateAll) must have succeeded for it first.
func (s *Service) ReconcileOne(ctx context.Context, name string) error {
	s.mu.Lock()
	ready := s.validatedAll || s.validated[name]
	s.mu.Unlock()
	if !ready {
		s.log.Error(fmt.Sprintf("Provisioned concurrency failed for %s: %v", name, ErrValidationRequired))
		return ErrValidationRequired
	}
	target, ok := s.byName[name]
	if !ok {
		s.log.Info(fmt.Sprintf("No provisioned concurrency declared for %s", name))
		return nil
	}
	return s.run(ctx, []capacity.FunctionTarget{target})
}

func (s *Service) run(ctx context.Context, targets []capacity.FunctionTarget) error {
	if len(targets) == 0 {
		s.log.Info("No provisioned concurrency to reconcile")
		return nil
	}
	started := time.Now()
	s.log.Info(fmt.Sprintf("Reconciling provisioned concurrency for %d functions", len(targets)))
	if err := s.scheduler.Run(ctx, targets); err != nil {
		s.log.Error(fmt.Sprintf("Provisioned concurrency failed: %v", err))
		return fmt.Errorf("reconcile provisioned concurrency: %w", err)
	}
	s.log.Info(fmt.Sprintf(
		"Provisioned concurrency reconciled for %d functions in %ds",
		len(targets),
		int(time.Since(started).Seconds()),
	))
	return nil
}
