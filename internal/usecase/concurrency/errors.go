// Where: internal/usecase/concurrency/errors.go
// What: Shared precondition errors for the reconcile use case.
// Why: Ensure consistent error wrapping without dynamic error creation.
package concurrency

import "errors"

var (
	// ErrValidationRequired is returned when an apply entry point runs before its validate counterpart succeeded.
	ErrValidationRequired = errors.New("validation must succeed before reconciliation")

	errProviderNotConfigured = errors.New("provider client is not configured")
)
