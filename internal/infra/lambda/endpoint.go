// Where: internal/infra/lambda/endpoint.go
// What: Local Lambda endpoint discovery for compose-managed emulators.
// Why: Docker Compose may publish the emulator on a dynamic host port.
package lambda

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

const (
	composeProjectLabel = "com.docker.compose.project"
	composeServiceLabel = "com.docker.compose.service"

	defaultLocalService       = "lambda"
	defaultLocalContainerPort = 9001
)

// DockerClient is the subset of the Docker SDK used for port discovery.
type DockerClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// NewDockerClient connects using DOCKER_HOST and friends.
func NewDockerClient() (DockerClient, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return dockerClient, nil
}

// PortRequest identifies a published container port.
type PortRequest struct {
	Project       string
	Service       string
	ContainerPort int
}

// PortResolver finds the host port published for a container port.
type PortResolver interface {
	Resolve(ctx context.Context, request PortRequest) (int, error)
}

// DockerPortResolver resolves ports from compose labels.
type DockerPortResolver struct {
	Client DockerClient
}

func (r DockerPortResolver) Resolve(ctx context.Context, request PortRequest) (int, error) {
	if r.Client == nil {
		return 0, errDockerClientNil
	}
	if strings.TrimSpace(request.Project) == "" {
		return 0, errProjectRequired
	}
	if strings.TrimSpace(request.Service) == "" {
		return 0, errServiceRequired
	}
	if request.ContainerPort <= 0 {
		return 0, errContainerPortZero
	}

	labelFilter := filters.NewArgs()
	labelFilter.Add("label", fmt.Sprintf("%s=%s", composeProjectLabel, request.Project))
	labelFilter.Add("label", fmt.Sprintf("%s=%s", composeServiceLabel, request.Service))

	containers, err := r.Client.ContainerList(ctx, container.ListOptions{Filters: labelFilter})
	if err != nil {
		return 0, err
	}
	for _, ctr := range containers {
		if ctr.Labels[composeProjectLabel] != request.Project || ctr.Labels[composeServiceLabel] != request.Service {
			continue
		}
		for _, port := range ctr.Ports {
			if int(port.PrivatePort) == request.ContainerPort && port.PublicPort > 0 {
				return int(port.PublicPort), nil
			}
		}
	}
	return 0, fmt.Errorf("published port not found for %s:%d", request.Service, request.ContainerPort)
}

// LocalEndpoint builds the endpoint of a local emulator. An explicit port in
// envVar wins; otherwise the resolver is asked; ok is false when neither works.
func LocalEndpoint(ctx context.Context, envVar, project string, resolver PortResolver) (string, bool) {
	if raw := strings.TrimSpace(os.Getenv(envVar)); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 {
			return fmt.Sprintf("http://localhost:%d", port), true
		}
	}
	if resolver == nil {
		return "", false
	}
	port, err := resolver.Resolve(ctx, PortRequest{
		Project:       project,
		Service:       defaultLocalService,
		ContainerPort: defaultLocalContainerPort,
	})
	if err != nil || port <= 0 {
		return "", false
	}
	return fmt.Sprintf("http://localhost:%d", port), true
}
