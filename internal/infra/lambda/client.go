// Where: internal/infra/lambda/client.go
// What: AWS Lambda adapter for provisioned concurrency calls.
// Why: Map the reconcile use case's provider API onto SDK types.
package lambda

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
	"github.com/poruru/esb-concurrency/internal/domain/capacity"
)

// SDK is the subset of *lambda.Client used by Client.
type SDK interface {
	awslambda.ListVersionsByFunctionAPIClient
	awslambda.ListProvisionedConcurrencyConfigsAPIClient
	PutProvisionedConcurrencyConfig(
		ctx context.Context,
		params *awslambda.PutProvisionedConcurrencyConfigInput,
		optFns ...func(*awslambda.Options),
	) (*awslambda.PutProvisionedConcurrencyConfigOutput, error)
	DeleteProvisionedConcurrencyConfig(
		ctx context.Context,
		params *awslambda.DeleteProvisionedConcurrencyConfigInput,
		optFns ...func(*awslambda.Options),
	) (*awslambda.DeleteProvisionedConcurrencyConfigOutput, error)
	GetProvisionedConcurrencyConfig(
		ctx context.Context,
		params *awslambda.GetProvisionedConcurrencyConfigInput,
		optFns ...func(*awslambda.Options),
	) (*awslambda.GetProvisionedConcurrencyConfigOutput, error)
}

// Client implements concurrency.ProviderAPI over the Lambda API.
type Client struct {
	sdk SDK
}

// NewClient wraps an SDK client.
func NewClient(sdk SDK) *Client {
	return &Client{sdk: sdk}
}

func (c *Client) ListVersions(ctx context.Context, function string) ([]string, error) {
	if c == nil || c.sdk == nil {
		return nil, errLambdaClientNil
	}
	paginator := awslambda.NewListVersionsByFunctionPaginator(c.sdk, &awslambda.ListVersionsByFunctionInput{
		FunctionName: aws.String(function),
	})
	var versions []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, describeAPIError(err)
		}
		for _, cfg := range page.Versions {
			if cfg.Version == nil {
				continue
			}
			versions = append(versions, *cfg.Version)
		}
	}
	return versions, nil
}

func (c *Client) ListProvisionedRecords(ctx context.Context, function string) ([]capacity.ProvisionedRecord, error) {
	if c == nil || c.sdk == nil {
		return nil, errLambdaClientNil
	}
	paginator := awslambda.NewListProvisionedConcurrencyConfigsPaginator(c.sdk, &awslambda.ListProvisionedConcurrencyConfigsInput{
		FunctionName: aws.String(function),
	})
	var records []capacity.ProvisionedRecord
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, describeAPIError(err)
		}
		for _, item := range page.ProvisionedConcurrencyConfigs {
			records = append(records, capacity.ProvisionedRecord{
				ResourceID:   aws.ToString(item.FunctionArn),
				Requested:    int(aws.ToInt32(item.RequestedProvisionedConcurrentExecutions)),
				Available:    int(aws.ToInt32(item.AvailableProvisionedConcurrentExecutions)),
				Allocated:    int(aws.ToInt32(item.AllocatedProvisionedConcurrentExecutions)),
				Status:       capacity.ParseStatus(string(item.Status)),
				StatusReason: aws.ToString(item.StatusReason),
			})
		}
	}
	return records, nil
}

func (c *Client) PutProvisionedCapacity(ctx context.Context, function, version string, count int) error {
	if c == nil || c.sdk == nil {
		return errLambdaClientNil
	}
	_, err := c.sdk.PutProvisionedConcurrencyConfig(ctx, &awslambda.PutProvisionedConcurrencyConfigInput{
		FunctionName:                    aws.String(function),
		Qualifier:                       aws.String(version),
		ProvisionedConcurrentExecutions: aws.Int32(int32(count)),
	})
	return describeAPIError(err)
}

// DeleteProvisionedCapacity treats an already-missing config as deleted.
func (c *Client) DeleteProvisionedCapacity(ctx context.Context, function, version string) error {
	if c == nil || c.sdk == nil {
		return errLambdaClientNil
	}
	_, err := c.sdk.DeleteProvisionedConcurrencyConfig(ctx, &awslambda.DeleteProvisionedConcurrencyConfigInput{
		FunctionName: aws.String(function),
		Qualifier:    aws.String(version),
	})
	var notFound *types.ProvisionedConcurrencyConfigNotFoundException
	if errors.As(err, &notFound) {
		return nil
	}
	return describeAPIError(err)
}

func (c *Client) GetProvisionedStatus(ctx context.Context, function, version string) (capacity.ProvisionedRecord, error) {
	if c == nil || c.sdk == nil {
		return capacity.ProvisionedRecord{}, errLambdaClientNil
	}
	out, err := c.sdk.GetProvisionedConcurrencyConfig(ctx, &awslambda.GetProvisionedConcurrencyConfigInput{
		FunctionName: aws.String(function),
		Qualifier:    aws.String(version),
	})
	if err != nil {
		return capacity.ProvisionedRecord{}, describeAPIError(err)
	}
	return capacity.ProvisionedRecord{
		ResourceID:   function + ":" + version,
		Version:      version,
		Requested:    int(aws.ToInt32(out.RequestedProvisionedConcurrentExecutions)),
		Available:    int(aws.ToInt32(out.AvailableProvisionedConcurrentExecutions)),
		Allocated:    int(aws.ToInt32(out.AllocatedProvisionedConcurrentExecutions)),
		Status:       capacity.ParseStatus(string(out.Status)),
		StatusReason: aws.ToString(out.StatusReason),
	}, nil
}

// describeAPIError keeps the service error code in the message.
func describeAPIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", apiErr.ErrorCode(), err)
	}
	return err
}
