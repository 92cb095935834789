// Where: internal/infra/lambda/errors.go
// What: Shared error definitions for the Lambda adapter.
// Why: Ensure consistent error wrapping without dynamic error creation.
package lambda

import "errors"

var (
	errLambdaClientNil   = errors.New("lambda client is nil")
	errDockerClientNil   = errors.New("docker client is nil")
	errProjectRequired   = errors.New("compose project is required")
	errServiceRequired   = errors.New("compose service is required")
	errContainerPortZero = errors.New("container port is required")
)
