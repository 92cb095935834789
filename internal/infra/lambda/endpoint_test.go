// Where: internal/infra/lambda/endpoint_test.go
// What: Tests for local endpoint discovery.
// Why: Env overrides must win and compose labels must match exactly.
package lambda

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/poruru/esb-concurrency/internal/constants"
)

type fakeDocker struct {
	containers []container.Summary
	err        error
}

func (f fakeDocker) ContainerList(context.Context, container.ListOptions) ([]container.Summary, error) {
	return f.containers, f.err
}

type fakePortResolver struct {
	port  int
	err   error
	calls int
}

func (f *fakePortResolver) Resolve(context.Context, PortRequest) (int, error) {
	f.calls++
	return f.port, f.err
}

func TestLocalEndpointPrefersEnv(t *testing.T) {
	t.Setenv(constants.EnvPortLambda, "9101")
	resolver := &fakePortResolver{port: 1234}

	endpoint, ok := LocalEndpoint(context.Background(), constants.EnvPortLambda, "esb", resolver)
	if !ok || endpoint != "http://localhost:9101" {
		t.Fatalf("unexpected endpoint %q (%v)", endpoint, ok)
	}
	if resolver.calls != 0 {
		t.Fatalf("resolver should not be called")
	}
}

func TestLocalEndpointFallsBackToResolver(t *testing.T) {
	t.Setenv(constants.EnvPortLambda, "")
	endpoint, ok := LocalEndpoint(context.Background(), constants.EnvPortLambda, "esb", &fakePortResolver{port: 32768})
	if !ok || endpoint != "http://localhost:32768" {
		t.Fatalf("unexpected endpoint %q (%v)", endpoint, ok)
	}

	_, ok = LocalEndpoint(context.Background(), constants.EnvPortLambda, "esb", &fakePortResolver{err: errors.New("not found")})
	if ok {
		t.Fatalf("expected resolution failure")
	}
}

func TestDockerPortResolverMatchesLabels(t *testing.T) {
	resolver := DockerPortResolver{Client: fakeDocker{containers: []container.Summary{
		{
			Labels: map[string]string{composeProjectLabel: "other", composeServiceLabel: "lambda"},
			Ports:  []container.Port{{PrivatePort: 9001, PublicPort: 1111}},
		},
		{
			Labels: map[string]string{composeProjectLabel: "esb", composeServiceLabel: "lambda"},
			Ports:  []container.Port{{PrivatePort: 9001, PublicPort: 2222}},
		},
	}}}
	port, err := resolver.Resolve(context.Background(), PortRequest{Project: "esb", Service: "lambda", ContainerPort: 9001})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != 2222 {
		t.Fatalf("expected 2222, got %d", port)
	}
}

func TestDockerPortResolverValidatesRequest(t *testing.T) {
	if _, err := (DockerPortResolver{}).Resolve(context.Background(), PortRequest{}); !errors.Is(err, errDockerClientNil) {
		t.Fatalf("expected errDockerClientNil, got %v", err)
	}
	resolver := DockerPortResolver{Client: fakeDocker{}}
	if _, err := resolver.Resolve(context.Background(), PortRequest{Service: "lambda", ContainerPort: 1}); !errors.Is(err, errProjectRequired) {
		t.Fatalf("expected errProjectRequired, got %v", err)
	}
}
