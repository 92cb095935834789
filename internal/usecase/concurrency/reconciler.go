// Where: internal/usecase/concurrency/reconciler.go
// What: Enforce the single-active-version invariant for one function.
// Why: Capacity left on superseded versions keeps billing and eats reserved concurrency.
package concurrency

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

// qualified function ARN: arn:aws:lambda:<region>:<account>:function:<name>:<version>
const qualifiedARNSegments = 8

// VersionFromResourceID extracts the version qualifier from a qualified function ARN.
func VersionFromResourceID(resourceID string) (string, bool) {
	parts := strings.Split(resourceID, ":")
	if len(parts) < qualifiedARNSegments {
		return "", false
	}
	version := strings.TrimSpace(parts[qualifiedARNSegments-1])
	if version == "" {
		return "", false
	}
	return version, true
}

// Reconciler removes provisioned concurrency from every version but the target.
type Reconciler struct {
	API ProviderAPI
	Log Logger
}

// ReconcileResult reports what a reconcile pass saw and removed.
type ReconcileResult struct {
	// Current is the target version's existing record, if any.
	Current *capacity.ProvisionedRecord
	Deleted []string
}

// Reconcile deletes every provisioned record whose version differs from
// targetVersion. An empty targetVersion clears all records.
// Enumeration failures degrade to "no records"; delete failures are returned.
func (r Reconciler) Reconcile(ctx context.Context, function, targetVersion string) (ReconcileResult, error) {
	if r.API == nil {
		return ReconcileResult{}, errProviderNotConfigured
	}
	log := r.Log
	if log == nil {
		log = nopLogger{}
	}

	records, err := r.API.ListProvisionedRecords(ctx, function)
	if err != nil {
		log.Error(fmt.Sprintf("Unable to list provisioned concurrency for %s, skipping cleanup: %v", function, err))
		records = nil
	}

	var (
		result ReconcileResult
		errs   []error
	)
	for _, record := range records {
		version, ok := VersionFromResourceID(record.ResourceID)
		if !ok {
			log.Error(fmt.Sprintf("Skipping provisioned concurrency record with malformed resource id %q", record.ResourceID))
			continue
		}
		if version == targetVersion {
			current := record
			current.Version = version
			result.Current = &current
			continue
		}
		log.Info(fmt.Sprintf("Removing provisioned concurrency from %s:%s (requested %d)", function, version, record.Requested))
		if err := r.API.DeleteProvisionedCapacity(ctx, function, version); err != nil {
			perr := &capacity.ProviderError{
				Operation:    "DeleteProvisionedCapacity",
				FunctionName: function,
				Version:      version,
				Err:          err,
			}
			log.Error(perr.Error())
			errs = append(errs, perr)
			continue
		}
		result.Deleted = append(result.Deleted, version)
	}
	return result, errors.Join(errs...)
}
