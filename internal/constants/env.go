// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Run configuration overrides
	EnvConfigPath    = "ESB_CONCURRENCY_CONFIG"
	EnvMarginPercent = "ESB_CONCURRENCY_MARGIN_PERCENT"
	EnvConcurrency   = "ESB_CONCURRENCY_WORKERS"
	EnvRegion        = "ESB_CONCURRENCY_REGION"
	EnvEndpoint      = "ESB_CONCURRENCY_ENDPOINT"
	EnvReportTable   = "ESB_CONCURRENCY_REPORT_TABLE"

	// Local emulator
	EnvProjectName    = "ESB_PROJECT_NAME"
	EnvPortLambda     = "ESB_PORT_LAMBDA"
	EnvLocalAccessKey = "ESB_LOCAL_ACCESS_KEY"
	EnvLocalSecretKey = "ESB_LOCAL_SECRET_KEY"
)
