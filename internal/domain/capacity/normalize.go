// Where: internal/domain/capacity/normalize.go
// What: Turn heterogeneous declared function entries into FunctionTarget records.
// Why: Manifests spell capacity settings several ways; downstream code sees one shape.
package capacity

import (
	"github.com/poruru/esb-concurrency/internal/domain/value"
)

// Keys of a nested capacity block.
var capacityBlockKeys = []string{"concurrency", "provisionedConcurrencyConfig", "ProvisionedConcurrencyConfig"}

var (
	desiredKeys  = []string{"provisioned", "provisionedConcurrency", "ProvisionedConcurrentExecutions"}
	versionKeys  = []string{"version", "Version", "provisionedConcurrencyVersion"}
	reservedKeys = []string{"reserved", "reservedConcurrency", "ReservedConcurrentExecutions"}
)

// Normalize converts declared function entries into targets.
// Only functions carrying at least one capacity-related key produce a target;
// a present-but-empty capacity block yields a target with nil DesiredCapacity.
// Output is ordered by function name.
func Normalize(declared map[string]map[string]any) []FunctionTarget {
	targets := make([]FunctionTarget, 0, len(declared))
	for _, name := range value.SortedKeys(declared) {
		if target, ok := NormalizeOne(name, declared[name]); ok {
			targets = append(targets, target)
		}
	}
	return targets
}

// NormalizeOne converts a single entry; ok is false when nothing capacity-related is declared.
func NormalizeOne(name string, fields map[string]any) (FunctionTarget, bool) {
	target := FunctionTarget{Name: name}
	found := false

	var block map[string]any
	for _, key := range capacityBlockKeys {
		raw, present := fields[key]
		if !present {
			continue
		}
		found = true
		if nested := value.AsMap(raw); nested != nil {
			block = nested
		} else if desired, ok := value.AsIntPointer(raw); ok {
			// `concurrency: 5` shorthand
			target.DesiredCapacity = desired
		}
		break
	}

	if block != nil {
		target.DesiredCapacity = firstInt(block, desiredKeys)
		target.VersionRef = firstString(block, versionKeys)
		target.ReservedCeiling = firstInt(block, reservedKeys)
	}

	if target.DesiredCapacity == nil && hasAny(fields, desiredKeys) {
		found = true
		target.DesiredCapacity = firstInt(fields, desiredKeys)
	}
	if target.VersionRef == nil && hasAny(fields, versionKeys[2:]) {
		target.VersionRef = firstString(fields, versionKeys[2:])
	}
	if hasAny(fields, reservedKeys) {
		found = true
		if target.ReservedCeiling == nil {
			target.ReservedCeiling = firstInt(fields, reservedKeys)
		}
	}

	if !found {
		return FunctionTarget{}, false
	}
	return target, true
}

func hasAny(fields map[string]any, keys []string) bool {
	for _, key := range keys {
		if _, ok := fields[key]; ok {
			return true
		}
	}
	return false
}

func firstInt(fields map[string]any, keys []string) *int {
	for _, key := range keys {
		if parsed, ok := value.AsIntPointer(fields[key]); ok {
			return parsed
		}
	}
	return nil
}

func firstString(fields map[string]any, keys []string) *string {
	for _, key := range keys {
		if parsed := value.AsStringPointer(fields[key]); parsed != nil {
			return parsed
		}
	}
	return nil
}
