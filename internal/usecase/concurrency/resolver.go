// Where: internal/usecase/concurrency/resolver.go
// What: Resolve symbolic version references to published versions.
// Why: Provisioned concurrency attaches to immutable versions only.
package concurrency

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

// VersionResolver looks up the newest published version of a function.
type VersionResolver struct {
	API ProviderAPI
}

// Resolve returns ref verbatim unless it is nil, blank, or "latest".
func (r VersionResolver) Resolve(ctx context.Context, function string, ref *string) (string, error) {
	target := capacity.FunctionTarget{Name: function, VersionRef: ref}
	if !target.NeedsResolution() {
		return strings.TrimSpace(*ref), nil
	}
	if r.API == nil {
		return "", errProviderNotConfigured
	}
	versions, err := r.API.ListVersions(ctx, function)
	if err != nil {
		return "", &capacity.ProviderError{Operation: "ListVersions", FunctionName: function, Err: err}
	}
	return LatestVersion(function, versions)
}

// LatestVersion picks the numerically greatest version, ignoring the head
// pseudo-version and anything that is not all digits ("v3", "1.5", "2.0.0-rc1").
func LatestVersion(function string, versions []string) (string, error) {
	var (
		best       string
		bestParsed *semver.Version
	)
	for _, raw := range versions {
		candidate := strings.TrimSpace(raw)
		if !isPublishedVersion(candidate) {
			continue
		}
		parsed, err := semver.NewVersion(candidate)
		if err != nil {
			continue
		}
		if bestParsed == nil || parsed.GreaterThan(bestParsed) {
			best, bestParsed = candidate, parsed
		}
	}
	if bestParsed == nil {
		return "", &capacity.NoVersionError{FunctionName: function}
	}
	return best, nil
}

// isPublishedVersion accepts only the all-digit numbers the provider assigns.
func isPublishedVersion(candidate string) bool {
	if candidate == "" || candidate == capacity.HeadVersion {
		return false
	}
	for _, r := range candidate {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
