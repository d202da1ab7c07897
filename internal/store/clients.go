package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Clients bundles the AWS clients used for lookup sources and chart output.
type Clients struct {
	S3       *s3.Client
	DynamoDB *dynamodb.Client
	Athena   *athena.Client
}

// NewClients builds clients from the default credential chain and region
// (AWS_REGION, shared config, or the Lambda environment).
func NewClients(ctx context.Context) (*Clients, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &Clients{
		S3:       s3.NewFromConfig(cfg),
		DynamoDB: dynamodb.NewFromConfig(cfg),
		Athena:   athena.NewFromConfig(cfg),
	}, nil
}
