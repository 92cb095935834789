// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep names and on-disk locations in one place.
package meta

const (
	// Project Identity
	AppName = "esb-concurrency"
	Slug    = "esb-concurrency"

	// Directory Layout
	HomeDir    = ".esb"
	ConfigFile = "concurrency.yaml"

	// Default manifest looked up in the working directory.
	DefaultTemplate = "template.yaml"
)
