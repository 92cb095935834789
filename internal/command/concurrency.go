// Where: internal/command/concurrency.go
// What: validate, apply, and status command handlers.
// Why: Bridge CLI flags to the provisioned concurrency service.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/poruru/esb-concurrency/internal/domain/capacity"
	"github.com/poruru/esb-concurrency/internal/infra/manifest"
	"github.com/poruru/esb-concurrency/internal/infra/naming"
	"github.com/poruru/esb-concurrency/internal/infra/report"
	"github.com/poruru/esb-concurrency/internal/infra/ui"
	"github.com/poruru/esb-concurrency/internal/usecase/concurrency"
)

var (
	errProviderFactoryMissing = errors.New("lambda client factory is not configured")
	errS3FactoryMissing       = errors.New("s3 client factory is not configured")
	errDynamoFactoryMissing   = errors.New("dynamodb client factory is not configured")
)

func runValidate(ctx context.Context, cli CLI, deps Dependencies) int {
	out := commandUI(deps.Out, cli.NoEmoji, deps.Interactive(deps.Out))
	settings, err := resolveSettings(ctx, cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	service, err := buildService(ctx, cli, settings, deps, out, false)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	if err := validate(ctx, service, cli.Validate.Function); err != nil {
		return exitCodeFor(err)
	}
	out.Success(fmt.Sprintf("Provisioned concurrency is within %d%% of reserved concurrency", service.MarginPercent()))
	return 0
}

func runApply(ctx context.Context, cli CLI, deps Dependencies) int {
	out := commandUI(deps.Out, cli.NoEmoji, deps.Interactive(deps.Out))
	settings, err := resolveSettings(ctx, cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	service, err := buildService(ctx, cli, settings, deps, out, true)
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	function := strings.TrimSpace(cli.Apply.Function)
	if err := validate(ctx, service, function); err != nil {
		return exitCodeFor(err)
	}
	if function != "" {
		err = service.ReconcileOne(ctx, function)
	} else {
		err = service.ReconcileAll(ctx)
	}
	if err != nil {
		return exitCodeFor(err)
	}
	out.Success("Provisioned concurrency applied")
	return 0
}

func runStatus(ctx context.Context, cli CLI, deps Dependencies) int {
	out := commandUI(deps.Out, cli.NoEmoji, deps.Interactive(deps.Out))
	settings, err := resolveSettings(ctx, cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	service, err := buildService(ctx, cli, settings, deps, out, true)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	statuses, err := service.Status(ctx)
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	drifted := 0
	failed := 0
	for _, status := range statuses {
		out.Block("📦", status.FunctionName, statusRows(status))
		if status.Err != nil {
			failed++
		} else if status.Drift {
			drifted++
		}
	}
	if failed > 0 {
		out.Error(fmt.Sprintf("%d functions could not be inspected", failed))
		return 1
	}
	if drifted > 0 {
		out.Warn(fmt.Sprintf("%d of %d functions drifted from the manifest", drifted, len(statuses)))
		if cli.Status.FailOnDrift {
			return 1
		}
		return 0
	}
	out.Success(fmt.Sprintf("%d functions match the manifest", len(statuses)))
	return 0
}

func validate(ctx context.Context, service *concurrency.Service, function string) error {
	if function != "" {
		return service.ValidateOne(ctx, function)
	}
	return service.ValidateAll(ctx)
}

// buildService loads the manifest and wires the scheduler. Provider-side
// clients are only constructed when withProvider is set.
func buildService(
	ctx context.Context,
	cli CLI,
	settings runSettings,
	deps Dependencies,
	out ui.UserInterface,
	withProvider bool,
) (*concurrency.Service, error) {
	cfg := settings.Config

	loader := manifest.Loader{Parameters: cli.Parameter}
	if strings.HasPrefix(settings.Template, "s3://") {
		if deps.Clients.S3 == nil {
			return nil, errS3FactoryMissing
		}
		s3Client, err := deps.Clients.S3(ctx, settings.Client)
		if err != nil {
			return nil, fmt.Errorf("create s3 client: %w", err)
		}
		loader.S3 = s3Client
	}
	parsed, err := loader.Load(ctx, settings.Template)
	if err != nil {
		return nil, err
	}

	scheduler := &concurrency.Scheduler{
		Log:         out,
		Concurrency: cfg.Concurrency,
		Poller: concurrency.ReadinessPoller{
			Interval: cfg.PollInterval(),
			Attempts: cfg.PollAttempts,
			Sleep:    deps.PollSleep,
		},
	}
	if withProvider {
		if err := wireProvider(ctx, cli, settings, deps, scheduler); err != nil {
			return nil, err
		}
	}

	return concurrency.NewService(parsed, scheduler, concurrency.Options{MarginPercent: cfg.MarginPercent}), nil
}

func wireProvider(
	ctx context.Context,
	cli CLI,
	settings runSettings,
	deps Dependencies,
	scheduler *concurrency.Scheduler,
) error {
	cfg := settings.Config
	if deps.Clients.Provider == nil {
		return errProviderFactoryMissing
	}
	provider, err := deps.Clients.Provider(ctx, settings.Client)
	if err != nil {
		return fmt.Errorf("create lambda client: %w", err)
	}
	scheduler.API = provider

	qualifier, err := naming.NewTemplateQualifier(cfg.NameTemplate, cfg.NameVars)
	if err != nil {
		return err
	}
	scheduler.Qualifier = qualifier

	exclude, err := naming.NewExcluder(cfg.ExcludeFunctions)
	if err != nil {
		return err
	}
	scheduler.Exclude = exclude

	scheduler.RunID = strings.TrimSpace(cli.Apply.RunID)
	if scheduler.RunID == "" {
		scheduler.RunID = newRunID(deps)
	}
	if deps.Interactive(deps.ErrOut) {
		progress := ui.NewProgress(deps.ErrOut, true)
		scheduler.Progress = progress
		scheduler.Log = progress.Logger(scheduler.Log)
	}

	if table := strings.TrimSpace(cfg.ReportTable); table != "" {
		if deps.Clients.DynamoDB == nil {
			return errDynamoFactoryMissing
		}
		client, err := deps.Clients.DynamoDB(ctx, settings.Client)
		if err != nil {
			return fmt.Errorf("create dynamodb client: %w", err)
		}
		recorder, err := report.NewDynamoRecorder(client, table)
		if err != nil {
			return err
		}
		scheduler.Recorder = recorder
	}
	return nil
}

func newRunID(deps Dependencies) string {
	if deps.NewRunID != nil {
		return deps.NewRunID()
	}
	return uuid.NewString()
}

func statusRows(status concurrency.FunctionStatus) []ui.KeyValue {
	rows := []ui.KeyValue{{Key: "Declared", Value: describeTarget(status.Target)}}
	if status.Err != nil {
		return append(rows, ui.KeyValue{Key: "Error", Value: status.Err})
	}
	records := append([]capacity.ProvisionedRecord(nil), status.Records...)
	sort.Slice(records, func(i, j int) bool { return records[i].Version < records[j].Version })
	if len(records) == 0 {
		rows = append(rows, ui.KeyValue{Key: "Provisioned", Value: "none"})
	}
	for _, record := range records {
		rows = append(rows, ui.KeyValue{
			Key:   "Version " + record.Version,
			Value: describeRecord(record),
		})
	}
	drift := "no"
	if status.Drift {
		drift = "yes"
	}
	return append(rows, ui.KeyValue{Key: "Drift", Value: drift})
}

func describeTarget(target capacity.FunctionTarget) string {
	if !target.WantsCapacity() {
		return "none"
	}
	ref := capacity.LatestVersionRef
	if !target.NeedsResolution() {
		ref = strings.TrimSpace(*target.VersionRef)
	}
	return fmt.Sprintf("%d on %s", target.Desired(), ref)
}

func describeRecord(record capacity.ProvisionedRecord) string {
	text := fmt.Sprintf("requested %d, available %d, %s", record.Requested, record.Available, record.Status)
	if reason := strings.TrimSpace(record.StatusReason); reason != "" {
		text += " (" + reason + ")"
	}
	return text
}
