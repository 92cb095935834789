// Where: internal/domain/capacity/validate.go
// What: Capacity validation against reserved concurrency and a safety margin.
// Why: Reject an invalid desired state as a whole before anything is mutated.
package capacity

import "fmt"

// DefaultMarginPercent is the share of reserved concurrency provisioned capacity may use.
const DefaultMarginPercent = 80

// MaxMarginPercent keeps provisioned capacity within the reserved ceiling.
const MaxMarginPercent = 100

// CheckMarginPercent rejects margins outside 1..100.
func CheckMarginPercent(marginPercent int) error {
	if marginPercent < 1 || marginPercent > MaxMarginPercent {
		return fmt.Errorf("%w: margin percent must be within 1..%d, got %d",
			ErrCapacityValidationFailed, MaxMarginPercent, marginPercent)
	}
	return nil
}

// MaxAllowed returns floor(ceiling * margin / 100).
func MaxAllowed(ceiling, marginPercent int) int {
	if ceiling <= 0 || marginPercent <= 0 {
		return 0
	}
	return ceiling * marginPercent / 100
}

// Validate checks one target. A target without a known ceiling always passes.
func Validate(target FunctionTarget, marginPercent int) *ValidationFailure {
	if target.ReservedCeiling == nil || target.DesiredCapacity == nil {
		return nil
	}
	if marginPercent <= 0 {
		marginPercent = DefaultMarginPercent
	}
	if marginPercent > MaxMarginPercent {
		marginPercent = MaxMarginPercent
	}
	ceiling := *target.ReservedCeiling
	maxAllowed := MaxAllowed(ceiling, marginPercent)
	if *target.DesiredCapacity <= maxAllowed {
		return nil
	}
	return &ValidationFailure{
		FunctionName:  target.Name,
		Desired:       *target.DesiredCapacity,
		Ceiling:       ceiling,
		MaxAllowed:    maxAllowed,
		MarginPercent: marginPercent,
	}
}

// ValidateAll checks every target and returns a *ValidationError listing all failures.
func ValidateAll(targets []FunctionTarget, marginPercent int) error {
	var failures []ValidationFailure
	for _, target := range targets {
		if failure := Validate(target, marginPercent); failure != nil {
			failures = append(failures, *failure)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &ValidationError{Failures: failures}
}
