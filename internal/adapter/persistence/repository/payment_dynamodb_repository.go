package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"motostore/internal/domain/entities"
	"motostore/internal/infrastructure/database"
	"motostore/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrOrderNotAwaitingPayment means the order was no longer PENDING or already
// had a payment when the payment record was created.
var ErrOrderNotAwaitingPayment = errors.New("order is not awaiting payment creation")

type paymentItem struct {
	ID             string `dynamodbav:"id"`
	OrderID        string `dynamodbav:"order_id"`
	Provider       string `dynamodbav:"provider"`
	Status         string `dynamodbav:"status"`
	Amount         string `dynamodbav:"amount"`
	Currency       string `dynamodbav:"currency"`
	ExternalID     string `dynamodbav:"external_id"`
	ExternalStatus string `dynamodbav:"external_status,omitempty"`
	WebhookData    string `dynamodbav:"webhook_data,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
}

// PaymentDynamoRepository persists payments in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: external_id-index (PK: external_id)
//   - GSI: order_id-index (PK: order_id)
type PaymentDynamoRepository struct {
	ddb         *dynamodb.Client
	tableName   string
	ordersTable string
	now         func() time.Time
}

var _ interfaces.IPaymentRepository = (*PaymentDynamoRepository)(nil)

func NewPaymentDynamoRepository(ddb *dynamodb.Client, tables database.Tables) *PaymentDynamoRepository {
	return &PaymentDynamoRepository{
		ddb:         ddb,
		tableName:   tables.Payments,
		ordersTable: tables.Orders,
		now:         time.Now,
	}
}

// CreateForOrder puts the payment and links it to its order in one
// transaction. The order must still be PENDING without a payment.
func (r *PaymentDynamoRepository) CreateForOrder(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	av, err := attributevalue.MarshalMap(toPaymentItem(p))
	if err != nil {
		return entities.Payment{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{
					"#id": "id",
				},
			}},
			{Update: &types.Update{
				TableName:           aws.String(r.ordersTable),
				Key:                 idKey(p.OrderID),
				UpdateExpression:    aws.String("SET #payment_id = :pid, #updated_at = :now"),
				ConditionExpression: aws.String("#status = :pending AND attribute_not_exists(#payment_id)"),
				ExpressionAttributeNames: map[string]string{
					"#payment_id": "payment_id",
					"#status":     "status",
					"#updated_at": "updated_at",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pid":     &types.AttributeValueMemberS{Value: p.ID},
					":pending": &types.AttributeValueMemberS{Value: string(entities.OrderStatusPending)},
					":now":     &types.AttributeValueMemberS{Value: formatTime(r.now())},
				},
			}},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) > 1 &&
			aws.ToString(tce.CancellationReasons[1].Code) == conditionalCheckFailed {
			return entities.Payment{}, ErrOrderNotAwaitingPayment
		}
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentDynamoRepository) GetByExternalID(ctx context.Context, externalID string) (entities.Payment, error) {
	return r.queryOne(ctx, database.PaymentsExternalIDIndex, "external_id", externalID)
}

// GetByOrderID returns the latest payment of the order.
func (r *PaymentDynamoRepository) GetByOrderID(ctx context.Context, orderID string) (entities.Payment, error) {
	return r.queryOne(ctx, database.PaymentsOrderIDIndex, "order_id", orderID)
}

func (r *PaymentDynamoRepository) queryOne(ctx context.Context, index, attr, value string) (entities.Payment, error) {
	if value == "" {
		return entities.Payment{}, nil
	}
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	})
	if err != nil {
		return entities.Payment{}, err
	}
	if len(out.Items) == 0 {
		return entities.Payment{}, nil
	}

	payments := make([]entities.Payment, 0, len(out.Items))
	for _, raw := range out.Items {
		var it paymentItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return entities.Payment{}, err
		}
		payments = append(payments, fromPaymentItem(it))
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments[0], nil
}

// UpdateFromWebhook overwrites status, external status and the raw webhook body.
// A missing payment yields a zero value and nil error.
func (r *PaymentDynamoRepository) UpdateFromWebhook(ctx context.Context, id string, status entities.PaymentStatus, externalStatus string, webhookData json.RawMessage) (entities.Payment, error) {
	expr := "SET #status = :status, #external_status = :external_status, #updated_at = :now"
	values := map[string]types.AttributeValue{
		":status":          &types.AttributeValueMemberS{Value: string(status)},
		":external_status": &types.AttributeValueMemberS{Value: externalStatus},
		":now":             &types.AttributeValueMemberS{Value: formatTime(r.now())},
	}
	names := map[string]string{
		"#status":          "status",
		"#external_status": "external_status",
		"#updated_at":      "updated_at",
	}
	if len(webhookData) > 0 {
		expr += ", #webhook_data = :webhook_data"
		values[":webhook_data"] = &types.AttributeValueMemberS{Value: string(webhookData)}
		names["#webhook_data"] = "webhook_data"
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       idKey(id),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.Payment{}, nil
		}
		return entities.Payment{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Payment{}, nil
	}
	var it paymentItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Payment{}, err
	}
	return fromPaymentItem(it), nil
}

func toPaymentItem(p entities.Payment) paymentItem {
	return paymentItem{
		ID:             p.ID,
		OrderID:        p.OrderID,
		Provider:       string(p.Provider),
		Status:         string(p.Status),
		Amount:         formatMoney(p.Amount),
		Currency:       p.Currency,
		ExternalID:     p.ExternalID,
		ExternalStatus: p.ExternalStatus,
		WebhookData:    string(p.WebhookData),
		CreatedAt:      formatTime(p.CreatedAt),
		UpdatedAt:      formatTime(p.UpdatedAt),
	}
}

func fromPaymentItem(it paymentItem) entities.Payment {
	p := entities.Payment{
		ID:             it.ID,
		OrderID:        it.OrderID,
		Provider:       entities.PaymentProvider(it.Provider),
		Status:         entities.PaymentStatus(it.Status),
		Amount:         parseMoney(it.Amount),
		Currency:       it.Currency,
		ExternalID:     it.ExternalID,
		ExternalStatus: it.ExternalStatus,
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}
	if it.WebhookData != "" {
		p.WebhookData = json.RawMessage(it.WebhookData)
	}
	return p
}
