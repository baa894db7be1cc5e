package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	appconfig "motostore/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Secondary index names shared by the repositories and the table bootstrap.
const (
	UsersEmailIndex         = "email-index"
	PaymentsExternalIDIndex = "external_id-index"
	PaymentsOrderIDIndex    = "order_id-index"
	OrdersStatusIndex       = "status-created_at-index"
)

const tableActiveTimeout = 2 * time.Minute

// Tables holds the physical table names.
type Tables struct {
	Users    string
	Products string
	Variants string
	Orders   string
	Payments string
}

func TablesFromConfig(cfg appconfig.DynamoDBConfig) Tables {
	return Tables{
		Users:    cfg.UsersTable,
		Products: cfg.ProductsTable,
		Variants: cfg.VariantsTable,
		Orders:   cfg.OrdersTable,
		Payments: cfg.PaymentsTable,
	}
}

type tableCreator interface {
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// EnsureTables creates every table (on-demand billing) that does not exist yet
// and waits until all of them are ACTIVE.
func EnsureTables(ctx context.Context, client *dynamodb.Client, t Tables) error {
	created, err := createTables(ctx, client, t)
	if err != nil {
		return err
	}
	waiter := dynamodb.NewTableExistsWaiter(client)
	for _, name := range created {
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, tableActiveTimeout); err != nil {
			return fmt.Errorf("wait for table %s: %w", name, err)
		}
	}
	return nil
}

func createTables(ctx context.Context, client tableCreator, t Tables) ([]string, error) {
	var created []string
	for _, in := range TableDefinitions(t) {
		_, err := client.CreateTable(ctx, in)
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return created, fmt.Errorf("create table %s: %w", aws.ToString(in.TableName), err)
		}
		log.Printf("[database][dynamodb] table created name=%s", aws.ToString(in.TableName))
		created = append(created, aws.ToString(in.TableName))
	}
	return created, nil
}

// TableDefinitions returns the CreateTable input of every table.
func TableDefinitions(t Tables) []*dynamodb.CreateTableInput {
	return []*dynamodb.CreateTableInput{
		hashTable(t.Users, []types.AttributeDefinition{stringAttr("email")},
			gsi(UsersEmailIndex, "email", "")),
		hashTable(t.Products, nil),
		hashTable(t.Variants, nil),
		hashTable(t.Orders, []types.AttributeDefinition{stringAttr("status"), stringAttr("created_at")},
			gsi(OrdersStatusIndex, "status", "created_at")),
		hashTable(t.Payments, []types.AttributeDefinition{stringAttr("external_id"), stringAttr("order_id")},
			gsi(PaymentsExternalIDIndex, "external_id", ""),
			gsi(PaymentsOrderIDIndex, "order_id", "")),
	}
}

func hashTable(name string, attrs []types.AttributeDefinition, indexes ...types.GlobalSecondaryIndex) *dynamodb.CreateTableInput {
	in := &dynamodb.CreateTableInput{
		TableName:            aws.String(name),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: append([]types.AttributeDefinition{stringAttr("id")}, attrs...),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
	}
	if len(indexes) > 0 {
		in.GlobalSecondaryIndexes = indexes
	}
	return in
}

func gsi(name, hashKey, rangeKey string) types.GlobalSecondaryIndex {
	keys := []types.KeySchemaElement{{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash}}
	if rangeKey != "" {
		keys = append(keys, types.KeySchemaElement{AttributeName: aws.String(rangeKey), KeyType: types.KeyTypeRange})
	}
	return types.GlobalSecondaryIndex{
		IndexName:  aws.String(name),
		KeySchema:  keys,
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func stringAttr(name string) types.AttributeDefinition {
	return types.AttributeDefinition{AttributeName: aws.String(name), AttributeType: types.ScalarAttributeTypeS}
}
