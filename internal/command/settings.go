// Where: internal/command/settings.go
// What: Resolve run configuration from file, environment, and flags.
// Why: Every command needs the same precedence: flags > env > file > defaults.
package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/esb-concurrency/internal/constants"
	"github.com/poruru/esb-concurrency/internal/infra/config"
	lambdainfra "github.com/poruru/esb-concurrency/internal/infra/lambda"
	"github.com/poruru/esb-concurrency/internal/meta"
)

var errLocalEndpointNotFound = errors.New("local lambda endpoint not found (set ESB_PORT_LAMBDA or --endpoint)")

type runSettings struct {
	Config     config.RunConfig
	ProjectDir string
	Template   string
	Client     lambdainfra.ClientOptions
}

func resolveSettings(ctx context.Context, cli CLI, deps Dependencies) (runSettings, error) {
	projectDir, err := deps.Getwd()
	if err != nil {
		return runSettings{}, fmt.Errorf("resolve working directory: %w", err)
	}

	path, err := resolveConfigPath(cli, projectDir)
	if err != nil {
		return runSettings{}, err
	}
	cfg, err := config.LoadRunConfig(path)
	if err != nil {
		return runSettings{}, err
	}
	if cfg, err = config.ApplyEnv(cfg); err != nil {
		return runSettings{}, err
	}

	if cli.Margin != 0 {
		if cli.Margin < 1 || cli.Margin > 100 {
			return runSettings{}, fmt.Errorf("--margin must be within 1..100, got %d", cli.Margin)
		}
		cfg.MarginPercent = cli.Margin
	}
	if value := strings.TrimSpace(cli.Region); value != "" {
		cfg.Region = value
	}
	if value := strings.TrimSpace(cli.Endpoint); value != "" {
		cfg.Endpoint = value
	}
	if cli.Local {
		cfg.Local.Enabled = true
	}
	if value := strings.TrimSpace(cli.Project); value != "" {
		cfg.Local.Project = value
	}
	if cli.Apply.Concurrency > 0 {
		cfg.Concurrency = cli.Apply.Concurrency
	}

	if cfg.Local.Enabled && cfg.Endpoint == "" {
		endpoint, err := discoverLocalEndpoint(ctx, cfg.Local.Project, deps)
		if err != nil {
			return runSettings{}, err
		}
		cfg.Endpoint = endpoint
	}

	return runSettings{
		Config:     cfg,
		ProjectDir: projectDir,
		Template:   resolveTemplate(cli.Template, projectDir),
		Client:     lambdainfra.ClientOptions{Region: cfg.Region, Endpoint: cfg.Endpoint},
	}, nil
}

// resolveConfigPath applies --config > ESB_CONCURRENCY_CONFIG > <project>/.esb/concurrency.yaml.
func resolveConfigPath(cli CLI, projectDir string) (string, error) {
	if path := strings.TrimSpace(cli.Config); path != "" {
		return path, nil
	}
	if path := strings.TrimSpace(os.Getenv(constants.EnvConfigPath)); path != "" {
		return path, nil
	}
	return config.ConfigPath(projectDir)
}

func discoverLocalEndpoint(ctx context.Context, project string, deps Dependencies) (string, error) {
	var resolver lambdainfra.PortResolver
	if deps.Clients.Ports != nil {
		r, err := deps.Clients.Ports()
		if err != nil {
			return "", fmt.Errorf("connect to docker: %w", err)
		}
		resolver = r
	}
	endpoint, ok := lambdainfra.LocalEndpoint(ctx, constants.EnvPortLambda, project, resolver)
	if !ok {
		return "", errLocalEndpointNotFound
	}
	return endpoint, nil
}

func resolveTemplate(template, projectDir string) string {
	template = strings.TrimSpace(template)
	if template == "" {
		template = meta.DefaultTemplate
	}
	if strings.HasPrefix(template, "s3://") || filepath.IsAbs(template) {
		return template
	}
	return filepath.Join(projectDir, template)
}
