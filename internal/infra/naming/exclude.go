// Where: internal/infra/naming/exclude.go
// What: Glob matcher for functions whose capacity must always be cleared.
// Why: Warm-up helper functions must never keep provisioned concurrency.
package naming

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// NewExcluder compiles patterns into a single predicate.
// A nil predicate is returned when no pattern is configured.
func NewExcluder(patterns []string) (func(string) bool, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	if len(compiled) == 0 {
		return nil, nil
	}
	return func(name string) bool {
		for _, g := range compiled {
			if g.Match(name) {
				return true
			}
		}
		return false
	}, nil
}
