// Where: internal/command/init.go
// What: init command writing the default run configuration.
// Why: Give projects a schema-valid starting file instead of hand-written YAML.
package command

import (
	"context"
	"fmt"
	"os"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
	"github.com/poruru/esb-concurrency/internal/infra/config"
)

func runInit(_ context.Context, cli CLI, deps Dependencies) int {
	ui := legacyUI(deps.Out)
	projectDir, err := deps.Getwd()
	if err != nil {
		return exitWithError(deps.Out, fmt.Errorf("resolve working directory: %w", err))
	}
	path, err := resolveConfigPath(cli, projectDir)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	if _, err := os.Stat(path); err == nil && !cli.Init.Force {
		ui.Warn(fmt.Sprintf("%s already exists; use --force to overwrite", path))
		return 1
	}

	cfg := config.DefaultRunConfig()
	if cli.Margin != 0 {
		if err := capacity.CheckMarginPercent(cli.Margin); err != nil {
			return exitWithError(deps.Out, err)
		}
		cfg.MarginPercent = cli.Margin
	}
	if cli.Region != "" {
		cfg.Region = cli.Region
	}
	if cli.Local {
		cfg.Local.Enabled = true
		cfg.Local.Project = cli.Project
	}
	if err := config.SaveRunConfig(path, cfg); err != nil {
		return exitWithError(deps.Out, err)
	}
	// The written file must pass the same schema check as a load.
	if _, err := config.LoadRunConfig(path); err != nil {
		return exitWithError(deps.Out, err)
	}
	ui.Success(fmt.Sprintf("Wrote %s", path))
	return 0
}
