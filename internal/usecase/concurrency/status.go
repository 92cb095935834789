// Where: internal/usecase/concurrency/status.go
// What: Read-only view of provider-side provisioned concurrency per declared function.
// Why: Let operators inspect drift without mutating anything.
package concurrency

import (
	"context"
	"fmt"
	"strings"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

// FunctionStatus pairs a declared target with the records the provider holds.
type FunctionStatus struct {
	Target       capacity.FunctionTarget
	FunctionName string
	Records      []capacity.ProvisionedRecord
	// Drift is true when the records violate the declared state.
	Drift bool
	Err   error
}

// Status lists provisioned records for every declared function.
// Per-function errors are reported in FunctionStatus.Err.
func (s *Service) Status(ctx context.Context) ([]FunctionStatus, error) {
	api := s.scheduler.API
	if api == nil {
		return nil, errProviderNotConfigured
	}
	qualifier := s.scheduler.Qualifier
	if qualifier == nil {
		qualifier = identityQualifier{}
	}

	out := make([]FunctionStatus, 0, len(s.targets))
	for _, target := range s.targets {
		status := FunctionStatus{Target: target, FunctionName: target.Name}
		function, err := qualifier.Qualify(target.Name)
		if err != nil {
			status.Err = fmt.Errorf("qualify function name %s: %w", target.Name, err)
			out = append(out, status)
			continue
		}
		status.FunctionName = function
		records, err := api.ListProvisionedRecords(ctx, function)
		if err != nil {
			status.Err = &capacity.ProviderError{Operation: "ListProvisionedRecords", FunctionName: function, Err: err}
			out = append(out, status)
			continue
		}
		for _, record := range records {
			if version, ok := VersionFromResourceID(record.ResourceID); ok {
				record.Version = version
			}
			status.Records = append(status.Records, record)
		}
		status.Drift = hasDrift(target, status.Records)
		out = append(out, status)
	}
	return out, nil
}

func hasDrift(target capacity.FunctionTarget, records []capacity.ProvisionedRecord) bool {
	if !target.WantsCapacity() {
		return len(records) > 0
	}
	if len(records) != 1 {
		return true
	}
	record := records[0]
	if record.Requested != target.Desired() {
		return true
	}
	if !target.NeedsResolution() && record.Version != strings.TrimSpace(*target.VersionRef) {
		return true
	}
	return false
}
