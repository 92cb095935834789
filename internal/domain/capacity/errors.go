// Where: internal/domain/capacity/errors.go
// What: Error taxonomy for provisioned-concurrency reconciliation.
// Why: Let callers branch with errors.Is/As while messages keep function/version context.
package capacity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNoVersionFound           = errors.New("no published version found")
	ErrCapacityValidationFailed = errors.New("provisioned concurrency validation failed")
	ErrProviderRequestFailed    = errors.New("provider request failed")
	ErrReadinessTimeout         = errors.New("provisioned concurrency did not become ready")
)

// NoVersionError reports a function with nothing but the head pseudo-version.
type NoVersionError struct {
	FunctionName string
}

func (e *NoVersionError) Error() string {
	return fmt.Sprintf("%s for function %s", ErrNoVersionFound, e.FunctionName)
}

func (e *NoVersionError) Unwrap() error { return ErrNoVersionFound }

// ValidationError aggregates every failing target of a batch.
type ValidationError struct {
	Failures []ValidationFailure
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Failures)+1)
	lines = append(lines, ErrCapacityValidationFailed.Error()+":")
	for _, failure := range e.Failures {
		lines = append(lines, "  - "+failure.Message())
	}
	return strings.Join(lines, "\n")
}

func (e *ValidationError) Unwrap() error { return ErrCapacityValidationFailed }

// Message renders a single failure for humans.
func (f ValidationFailure) Message() string {
	return fmt.Sprintf(
		"function %s: provisioned concurrency %d exceeds maximum %d (%d%% of reserved concurrency %d)",
		f.FunctionName,
		f.Desired,
		f.MaxAllowed,
		f.MarginPercent,
		f.Ceiling,
	)
}

// ProviderError wraps a transport or API failure with the request context.
type ProviderError struct {
	Operation    string
	FunctionName string
	Version      string
	Requested    int
	Err          error
}

func (e *ProviderError) Error() string {
	subject := e.FunctionName
	if e.Version != "" {
		subject += ":" + e.Version
	}
	msg := fmt.Sprintf("%s: %s %s", ErrProviderRequestFailed, e.Operation, subject)
	if e.Requested > 0 {
		msg += fmt.Sprintf(" (requested %d)", e.Requested)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProviderRequestFailed }

// ReadinessTimeoutError reports a config that never reached READY.
type ReadinessTimeoutError struct {
	FunctionName string
	Version      string
	Attempts     int
	Elapsed      time.Duration
	LastStatus   Status
}

func (e *ReadinessTimeoutError) Error() string {
	return fmt.Sprintf(
		"%s: %s:%s still %s after %d attempts (%s)",
		ErrReadinessTimeout,
		e.FunctionName,
		e.Version,
		e.LastStatus,
		e.Attempts,
		e.Elapsed,
	)
}

func (e *ReadinessTimeoutError) Unwrap() error { return ErrReadinessTimeout }
