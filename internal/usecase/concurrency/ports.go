// Where: internal/usecase/concurrency/ports.go
// What: Collaborator interfaces consumed by the reconcile use case.
// Why: Keep the protocol independent of the AWS SDK and the terminal.
package concurrency

import (
	"context"
	"time"

	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

// ProviderAPI is the subset of the resource-management API used by reconciliation.
type ProviderAPI interface {
	ListVersions(ctx context.Context, function string) ([]string, error)
	ListProvisionedRecords(ctx context.Context, function string) ([]capacity.ProvisionedRecord, error)
	PutProvisionedCapacity(ctx context.Context, function, version string, count int) error
	DeleteProvisionedCapacity(ctx context.Context, function, version string) error
	GetProvisionedStatus(ctx context.Context, function, version string) (capacity.ProvisionedRecord, error)
}

// Logger is a fire-and-forget log sink.
type Logger interface {
	Info(msg string)
	Error(msg string)
}

// ProgressSink renders a single ephemeral status line.
type ProgressSink interface {
	Create(msg string) ProgressHandle
}

// ProgressHandle removes the line it was created for.
type ProgressHandle interface {
	Remove()
}

// NameQualifier maps a declared function name to the provider-side name.
type NameQualifier interface {
	Qualify(name string) (string, error)
}

// OutcomeRecorder persists per-function results of a run.
type OutcomeRecorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Action is what a task did to a function.
type Action string

const (
	ActionApplied   Action = "applied"
	ActionUnchanged Action = "unchanged"
	ActionCleared   Action = "cleared"
	ActionFailed    Action = "failed"
)

// Outcome summarises one function task.
type Outcome struct {
	RunID        string
	FunctionName string
	Version      string
	Desired      int
	Deleted      []string
	Action       Action
	Err          error
	FinishedAt   time.Time
}

type nopLogger struct{}

func (nopLogger) Info(string)  {}
func (nopLogger) Error(string) {}

type nopProgress struct{}

func (nopProgress) Create(string) ProgressHandle { return nopHandle{} }

type nopHandle struct{}

func (nopHandle) Remove() {}

type identityQualifier struct{}

func (identityQualifier) Qualify(name string) (string, error) { return name, nil }
