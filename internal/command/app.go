// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	lambdainfra "github.com/poruru/esb-concurrency/internal/infra/lambda"
	"github.com/poruru/esb-concurrency/internal/infra/manifest"
	"github.com/poruru/esb-concurrency/internal/infra/report"
	"github.com/poruru/esb-concurrency/internal/usecase/concurrency"
	"github.com/poruru/esb-concurrency/internal/version"
)

// Dependencies holds all injected dependencies required for CLI command execution.
// Tests swap the client constructors for in-memory fakes.
type Dependencies struct {
	Out     io.Writer
	ErrOut  io.Writer
	Getwd   func() (string, error)
	Clients ClientDeps
	// Interactive reports whether w is a terminal; defaults to isatty detection.
	Interactive func(w io.Writer) bool
	NewRunID    func() string
	// PollSleep overrides the readiness poller's wait between attempts.
	PollSleep func(ctx context.Context, d time.Duration) error
}

// ClientDeps builds provider-side clients once options are resolved.
type ClientDeps struct {
	Provider func(context.Context, lambdainfra.ClientOptions) (concurrency.ProviderAPI, error)
	S3       func(context.Context, lambdainfra.ClientOptions) (manifest.S3Getter, error)
	DynamoDB func(context.Context, lambdainfra.ClientOptions) (report.PutItemAPI, error)
	Ports    func() (lambdainfra.PortResolver, error)
}

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Template  string            `short:"t" help:"Path or s3:// URL of the SAM template or serverless manifest (default: template.yaml)"`
	Config    string            `name:"config" help:"Path to run configuration (default: .esb/concurrency.yaml)"`
	EnvFile   string            `name:"env-file" help:"Path to .env file"`
	Parameter map[string]string `short:"P" name:"parameter" help:"Template parameter override KEY=VALUE (repeatable)"`
	Margin    int               `name:"margin" help:"Margin percent of reserved concurrency when the manifest sets none"`
	Region    string            `help:"AWS region"`
	Endpoint  string            `help:"Lambda API endpoint override"`
	Local     bool              `help:"Target the local compose-managed Lambda emulator"`
	Project   string            `short:"p" help:"Compose project name of the local emulator"`
	NoEmoji   bool              `name:"no-emoji" help:"Disable emoji output"`

	Validate ValidateCmd `cmd:"" help:"Check declared provisioned concurrency against reserved concurrency"`
	Apply    ApplyCmd    `cmd:"" help:"Validate and reconcile provisioned concurrency"`
	Status   StatusCmd   `cmd:"" help:"Show provisioned concurrency and drift per function"`
	Init     InitCmd     `cmd:"" help:"Write the default run configuration"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

type (
	// ValidateCmd defines the validate command flags.
	ValidateCmd struct {
		Function string `short:"f" help:"Validate a single declared function"`
	}

	// ApplyCmd defines the apply command flags.
	ApplyCmd struct {
		Function    string `short:"f" help:"Reconcile a single declared function"`
		Concurrency int    `short:"c" help:"Maximum functions reconciled in parallel (default: CPU count)"`
		RunID       string `name:"run-id" help:"Identifier written to the run report"`
	}

	// StatusCmd defines the status command flags.
	StatusCmd struct {
		FailOnDrift bool `name:"fail-on-drift" help:"Exit non-zero when any function drifted"`
	}

	// InitCmd defines the init command flags.
	InitCmd struct {
		Force bool `help:"Overwrite an existing run configuration"`
	}

	VersionCmd struct{}
)

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	deps.Out = out
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.Interactive == nil {
		deps.Interactive = isTerminal
	}
	ui := legacyUI(out)

	if len(args) == 0 {
		return runNoArgs(out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli, kong.Name(cliName()))
	if err != nil {
		return exitWithError(out, err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return handleParseError(err, out)
	}

	// Load environment file if provided or if .env exists in current directory
	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			ui.Warn(fmt.Sprintf("Warning: failed to load env file %s: %v", cli.EnvFile, err))
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			ui.Warn(fmt.Sprintf("Warning: failed to load .env: %v", err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if exitCode, handled := dispatchCommand(ctx, kctx.Command(), cli, deps); handled {
		return exitCode
	}

	ui.Warn("unknown command")
	return 1
}

type commandHandler func(context.Context, CLI, Dependencies) int

func dispatchCommand(ctx context.Context, command string, cli CLI, deps Dependencies) (int, bool) {
	exactHandlers := map[string]commandHandler{
		"validate": runValidate,
		"apply":    runApply,
		"status":   runStatus,
		"init":     runInit,
		"version":  func(_ context.Context, _ CLI, deps Dependencies) int { return runVersion(deps.Out) },
	}

	if handler, ok := exactHandlers[command]; ok {
		return handler(ctx, cli, deps), true
	}

	return 1, false
}

// runVersion prints the version information of the CLI.
func runVersion(out io.Writer) int {
	legacyUI(out).Info(version.String())
	return 0
}

// runNoArgs prints a short usage hint when the CLI is invoked without arguments.
func runNoArgs(out io.Writer) int {
	ui := legacyUI(out)
	cmd := cliName()
	ui.Info("Usage:")
	ui.Info(fmt.Sprintf("  %s validate --template <path> [--function <name>]", cmd))
	ui.Info(fmt.Sprintf("  %s apply --template <path> [--function <name>] [flags]", cmd))
	ui.Info(fmt.Sprintf("  %s status --template <path>", cmd))
	ui.Info(fmt.Sprintf("  %s init [--force]", cmd))
	ui.Info("")
	ui.Info(fmt.Sprintf("Try: %s apply --help", cmd))
	return 0
}

// handleParseError provides user-friendly error messages for parse failures.
func handleParseError(err error, out io.Writer) int {
	msg := err.Error()
	if strings.Contains(msg, "expected string value") || strings.Contains(msg, "expected a value") {
		ui := legacyUI(out)
		cmd := cliName()
		switch {
		case strings.Contains(msg, "--template"):
			ui.Warn("`-t/--template` expects a value. Provide a local path or an s3:// URL.")
			ui.Info(fmt.Sprintf("Example: %s apply -t ./template.yaml", cmd))
			return 1
		case strings.Contains(msg, "--function"):
			ui.Warn("`-f/--function` expects a declared function name.")
			ui.Info(fmt.Sprintf("Example: %s apply -f OrdersFunction", cmd))
			return 1
		case strings.Contains(msg, "--env-file"):
			ui.Warn("`--env-file` expects a value. Provide a file path.")
			ui.Info(fmt.Sprintf("Example: %s apply --env-file .env.prod", cmd))
			return 1
		}
	}
	return exitWithError(out, err)
}
