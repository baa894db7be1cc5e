package database

import (
	"context"
	"log"
	"os"

	appconfig "motostore/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// ConnectDynamoDB creates a DynamoDB client from the DynamoDB section of the
// service configuration, creating the tables first when AutoMigrate is set.
//
// Credentials come from AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY when present
// and default to "local" so DynamoDB Local works out of the box.
func ConnectDynamoDB(ctx context.Context, cfg appconfig.DynamoDBConfig) *dynamodb.Client {
	awsCfg, err := NewAWSConfig(ctx, cfg.Region, cfg.Endpoint)
	if err != nil {
		log.Fatalf("failed to create dynamodb config: %v", err)
	}
	client := dynamodb.NewFromConfig(awsCfg)

	if cfg.AutoMigrate {
		if err := EnsureTables(ctx, client, TablesFromConfig(cfg)); err != nil {
			log.Fatalf("failed to create dynamodb tables: %v", err)
		}
	}
	return client
}

func NewAWSConfig(ctx context.Context, region, endpoint string) (aws.Config, error) {
	// Local DynamoDB does not validate credentials, but the AWS SDK requires them.
	creds := credentials.NewStaticCredentialsProvider(
		getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithCredentialsProvider(creds),
	}

	if endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == dynamodb.ServiceID {
				return aws.Endpoint{URL: endpoint, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
