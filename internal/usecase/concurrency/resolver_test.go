// Where: internal/usecase/concurrency/resolver_test.go
// What: Tests for version resolution.
// Why: Guard numeric ordering and head-version exclusion.
package concurrency

import (
	"context"
	"errors"
	"testing"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

func TestLatestVersionIsNumeric(t *testing.T) {
	got, err := LatestVersion("fn", []string{"$LATEST", "1", "2", "10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "10" {
		t.Fatalf("expected 10, got %s", got)
	}
}

func TestLatestVersionIgnoresNonNumericVersions(t *testing.T) {
	got, err := LatestVersion("fn", []string{"$LATEST", "v3", "1.5", "2.0.0-rc1", "2", "10", " 4 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "10" {
		t.Fatalf("expected 10, got %s", got)
	}

	_, err = LatestVersion("fn", []string{"v3", "1.5", "2.0.0-rc1", "-1"})
	if !errors.Is(err, capacity.ErrNoVersionFound) {
		t.Fatalf("expected ErrNoVersionFound when nothing is all digits, got %v", err)
	}
}

func TestLatestVersionRequiresPublishedVersion(t *testing.T) {
	_, err := LatestVersion("fn", []string{"$LATEST"})
	if !errors.Is(err, capacity.ErrNoVersionFound) {
		t.Fatalf("expected ErrNoVersionFound, got %v", err)
	}
	_, err = LatestVersion("fn", nil)
	if !errors.Is(err, capacity.ErrNoVersionFound) {
		t.Fatalf("expected ErrNoVersionFound for empty list, got %v", err)
	}
}

func TestResolveUsesExplicitVersionVerbatim(t *testing.T) {
	provider := newFakeProvider()
	provider.versions["fn"] = []string{"$LATEST", "1", "2"}
	ref := " 7 "

	got, err := VersionResolver{API: provider}.Resolve(context.Background(), "fn", &ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "7" {
		t.Fatalf("expected explicit version 7, got %s", got)
	}
}

func TestResolveLatestLooksUpProvider(t *testing.T) {
	provider := newFakeProvider()
	provider.versions["fn"] = []string{"$LATEST", "9", "11"}
	for _, ref := range []*string{nil, strRef("latest")} {
		got, err := VersionResolver{API: provider}.Resolve(context.Background(), "fn", ref)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "11" {
			t.Fatalf("expected 11, got %s", got)
		}
	}
}

func strRef(v string) *string { return &v }
func intRef(v int) *int       { return &v }
