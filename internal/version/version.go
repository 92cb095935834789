// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Provide build-time version information (Git commit, state) to the CLI.
package version

import (
	"fmt"
	"runtime/debug"

	"github.com/poruru/esb-concurrency/internal/meta"
)

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the version information derived from build info.
// It returns "dev" if build info is not available.
// Otherwise, it returns the module version when tagged, or the short VCS
// revision, optionally appended with "(dirty)" if the tree was modified.
func GetVersion() string {
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}

	var revision string
	var modified bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
		return "dev"
	}

	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}

// String renders "<app> <version>" for the version command.
func String() string {
	return fmt.Sprintf("%s %s", meta.AppName, GetVersion())
}
