// Where: internal/infra/lambda/factory.go
// What: AWS client factory for Lambda, S3, and DynamoDB.
// Why: Encapsulate SDK configuration for real accounts and local endpoints.
package lambda

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru/esb-concurrency/internal/constants"
)

const defaultAWSRegion = "ap-northeast-1"

// ClientOptions selects region and an optional endpoint override.
// A non-empty Endpoint implies a local emulator and static credentials.
type ClientOptions struct {
	Region   string
	Endpoint string
}

// ClientFactory builds SDK clients from shared options.
type ClientFactory interface {
	Lambda(ctx context.Context, opts ClientOptions) (*Client, error)
	S3(ctx context.Context, opts ClientOptions) (*s3.Client, error)
	DynamoDB(ctx context.Context, opts ClientOptions) (*dynamodb.Client, error)
}

// NewClientFactory returns the SDK-backed factory.
func NewClientFactory() ClientFactory {
	return awsClientFactory{}
}

type awsClientFactory struct{}

func (awsClientFactory) Lambda(ctx context.Context, opts ClientOptions) (*Client, error) {
	cfg, err := loadAWSConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	client := awslambda.NewFromConfig(cfg, func(options *awslambda.Options) {
		if opts.Endpoint != "" {
			options.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return NewClient(client), nil
}

func (awsClientFactory) S3(ctx context.Context, opts ClientOptions) (*s3.Client, error) {
	cfg, err := loadAWSConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(options *s3.Options) {
		if opts.Endpoint != "" {
			options.BaseEndpoint = aws.String(opts.Endpoint)
			options.UsePathStyle = true
		}
	}), nil
}

func (awsClientFactory) DynamoDB(ctx context.Context, opts ClientOptions) (*dynamodb.Client, error) {
	cfg, err := loadAWSConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		if opts.Endpoint != "" {
			options.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

func loadAWSConfig(ctx context.Context, opts ClientOptions) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{
		config.WithRegion(resolveRegion(opts.Region)),
	}
	if opts.Endpoint != "" {
		creds := credentials.NewStaticCredentialsProvider(localAccessKey(), localSecretKey(), "")
		loaders = append(loaders, config.WithCredentialsProvider(creds))
	}
	return config.LoadDefaultConfig(ctx, loaders...)
}

func resolveRegion(region string) string {
	if region = strings.TrimSpace(region); region != "" {
		return region
	}
	if value := os.Getenv("AWS_REGION"); value != "" {
		return value
	}
	return defaultAWSRegion
}

func localAccessKey() string {
	if value := os.Getenv(constants.EnvLocalAccessKey); value != "" {
		return value
	}
	return "dummy"
}

func localSecretKey() string {
	if value := os.Getenv(constants.EnvLocalSecretKey); value != "" {
		return value
	}
	return "dummy"
}
