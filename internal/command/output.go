// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Centralize UserInterface usage and terminal detection.
package command

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/poruru/esb-concurrency/internal/infra/ui"
)

func legacyUI(out io.Writer) ui.UserInterface {
	return ui.NewLegacyUI(out)
}

// commandUI picks the emoji console for terminals and bare lines otherwise.
func commandUI(out io.Writer, noEmoji bool, interactive bool) ui.UserInterface {
	if !interactive {
		return legacyUI(out)
	}
	return ui.NewConsoleUI(out, !noEmoji)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
