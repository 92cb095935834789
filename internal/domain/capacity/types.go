// Where: internal/domain/capacity/types.go
// What: Data model for provisioned-concurrency reconciliation.
// Why: Share one vocabulary between normalisation, validation, and the reconcile use case.
package capacity

import "strings"

// LatestVersionRef asks the resolver to pick the newest published version.
const LatestVersionRef = "latest"

// HeadVersion is the mutable pseudo-version that can never hold provisioned concurrency.
const HeadVersion = "$LATEST"

// FunctionTarget is the normalised desired state for one declared function.
// Nil fields mean "not declared".
type FunctionTarget struct {
	Name            string
	DesiredCapacity *int
	VersionRef      *string
	ReservedCeiling *int
}

// Desired returns the desired capacity, treating nil as zero.
func (t FunctionTarget) Desired() int {
	if t.DesiredCapacity == nil {
		return 0
	}
	return *t.DesiredCapacity
}

// WantsCapacity reports whether the target should hold provisioned concurrency.
func (t FunctionTarget) WantsCapacity() bool {
	return t.Desired() > 0
}

// NeedsResolution reports whether VersionRef must be looked up at the provider.
func (t FunctionTarget) NeedsResolution() bool {
	if t.VersionRef == nil {
		return true
	}
	ref := strings.TrimSpace(*t.VersionRef)
	return ref == "" || strings.EqualFold(ref, LatestVersionRef)
}

// ResolvedTarget is a FunctionTarget bound to a concrete published version.
type ResolvedTarget struct {
	FunctionName    string
	Version         string
	DesiredCapacity int
}

// Status is the provider-side state of a provisioned concurrency config.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusFailed     Status = "FAILED"
)

// ParseStatus maps provider strings to Status; unknown values are reported as in progress.
func ParseStatus(raw string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusReady:
		return StatusReady
	case StatusFailed:
		return StatusFailed
	default:
		return StatusInProgress
	}
}

// ProvisionedRecord is a read-only snapshot of one provisioned concurrency config.
type ProvisionedRecord struct {
	ResourceID   string
	Version      string
	Requested    int
	Available    int
	Allocated    int
	Status       Status
	StatusReason string
}

// ValidationFailure describes one target whose desired capacity exceeds its allowance.
type ValidationFailure struct {
	FunctionName  string
	Desired       int
	Ceiling       int
	MaxAllowed    int
	MarginPercent int
}

// Manifest is the declared input of one run: raw per-function fields plus the
// optional manifest-level margin override.
type Manifest struct {
	Functions     map[string]map[string]any
	MarginPercent *int
}
