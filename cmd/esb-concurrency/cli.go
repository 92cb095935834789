// Where: cmd/esb-concurrency/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"io"
	"os"

	"github.com/poruru/esb-concurrency/internal/command"
	lambdainfra "github.com/poruru/esb-concurrency/internal/infra/lambda"
	"github.com/poruru/esb-concurrency/internal/infra/manifest"
	"github.com/poruru/esb-concurrency/internal/infra/report"
	"github.com/poruru/esb-concurrency/internal/usecase/concurrency"
)

var (
	getwd            = os.Getwd
	newDockerClient  = lambdainfra.NewDockerClient
	newClientFactory = lambdainfra.NewClientFactory
)

// buildDependencies constructs all runtime dependencies required by the CLI.
// AWS and Docker clients are created lazily by the commands that need them.
// Returns the dependencies, a closer for cleanup, and any initialization error.
func buildDependencies() (command.Dependencies, io.Closer, error) {
	if _, err := getwd(); err != nil {
		return command.Dependencies{}, nil, err
	}

	factory := newClientFactory()
	docker := &lazyDocker{}
	deps := command.Dependencies{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		Getwd:  getwd,
		Clients: command.ClientDeps{
			Provider: func(ctx context.Context, opts lambdainfra.ClientOptions) (concurrency.ProviderAPI, error) {
				client, err := factory.Lambda(ctx, opts)
				if err != nil {
					return nil, err
				}
				return client, nil
			},
			S3: func(ctx context.Context, opts lambdainfra.ClientOptions) (manifest.S3Getter, error) {
				client, err := factory.S3(ctx, opts)
				if err != nil {
					return nil, err
				}
				return client, nil
			},
			DynamoDB: func(ctx context.Context, opts lambdainfra.ClientOptions) (report.PutItemAPI, error) {
				client, err := factory.DynamoDB(ctx, opts)
				if err != nil {
					return nil, err
				}
				return client, nil
			},
			Ports: docker.resolver,
		},
	}
	return deps, docker, nil
}

// lazyDocker connects on first use and closes the client if one was created.
type lazyDocker struct {
	client lambdainfra.DockerClient
}

func (d *lazyDocker) resolver() (lambdainfra.PortResolver, error) {
	if d.client == nil {
		client, err := newDockerClient()
		if err != nil {
			return nil, err
		}
		d.client = client
	}
	return lambdainfra.DockerPortResolver{Client: d.client}, nil
}

func (d *lazyDocker) Close() error {
	if closer, ok := d.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
