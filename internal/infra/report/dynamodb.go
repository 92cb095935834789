// Where: internal/infra/report/dynamodb.go
// What: DynamoDB-backed recorder for per-function reconcile outcomes.
// Why: Keep an audit trail of what each run changed.
package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poruru/esb-concurrency/internal/usecase/concurrency"
)

var (
	errTableRequired  = errors.New("report table is required")
	errClientRequired = errors.New("dynamodb client is required")
)

// PutItemAPI is the subset of the DynamoDB client used for reports.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoRecorder writes one item per outcome keyed by run id and function name.
type DynamoRecorder struct {
	client PutItemAPI
	table  string
}

// NewDynamoRecorder validates inputs and returns a recorder.
func NewDynamoRecorder(client PutItemAPI, table string) (*DynamoRecorder, error) {
	if client == nil {
		return nil, errClientRequired
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, errTableRequired
	}
	return &DynamoRecorder{client: client, table: table}, nil
}

// Record stores outcome.
func (r *DynamoRecorder) Record(ctx context.Context, outcome concurrency.Outcome) error {
	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      outcomeItem(outcome),
	})
	if err != nil {
		return fmt.Errorf("put report item for %s: %w", outcome.FunctionName, err)
	}
	return nil
}

func outcomeItem(outcome concurrency.Outcome) map[string]types.AttributeValue {
	finished := outcome.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	item := map[string]types.AttributeValue{
		"RunId":        &types.AttributeValueMemberS{Value: outcome.RunID},
		"FunctionName": &types.AttributeValueMemberS{Value: outcome.FunctionName},
		"Action":       &types.AttributeValueMemberS{Value: string(outcome.Action)},
		"Desired":      &types.AttributeValueMemberN{Value: strconv.Itoa(outcome.Desired)},
		"FinishedAt":   &types.AttributeValueMemberS{Value: finished.UTC().Format(time.RFC3339)},
	}
	if outcome.Version != "" {
		item["Version"] = &types.AttributeValueMemberS{Value: outcome.Version}
	}
	if len(outcome.Deleted) > 0 {
		item["Deleted"] = &types.AttributeValueMemberSS{Value: append([]string(nil), outcome.Deleted...)}
	}
	if outcome.Err != nil {
		item["Error"] = &types.AttributeValueMemberS{Value: outcome.Err.Error()}
	}
	return item
}
