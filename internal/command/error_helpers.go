// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Keep failure output consistent across commands.
package command

import (
	"errors"
	"fmt"
	"io"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	legacyUI(out).Warn(fmt.Sprintf("✗ %v", err))
	return 1
}

// exitCodeFor maps the reconcile error taxonomy to process exit codes.
// 2: rejected by validation, 3: every failure was a readiness timeout, 1: everything else.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, capacity.ErrCapacityValidationFailed):
		return 2
	case onlyReadinessTimeouts(err):
		return 3
	default:
		return 1
	}
}

// onlyReadinessTimeouts walks joined and wrapped errors and reports whether
// every leaf is a readiness timeout.
func onlyReadinessTimeouts(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*capacity.ReadinessTimeoutError); ok || err == capacity.ErrReadinessTimeout {
		return true
	}
	switch wrapped := err.(type) {
	case interface{ Unwrap() []error }:
		children := wrapped.Unwrap()
		if len(children) == 0 {
			return false
		}
		for _, child := range children {
			if !onlyReadinessTimeouts(child) {
				return false
			}
		}
		return true
	case interface{ Unwrap() error }:
		return onlyReadinessTimeouts(wrapped.Unwrap())
	default:
		return false
	}
}
