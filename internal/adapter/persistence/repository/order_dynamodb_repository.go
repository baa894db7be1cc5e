package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"motostore/internal/domain/entities"
	"motostore/internal/infrastructure/database"
	"motostore/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxTransactItems is the DynamoDB TransactWriteItems action limit.
const maxTransactItems = 100

const conditionalCheckFailed = "ConditionalCheckFailed"

var ErrTooManyOrderLines = errors.New("order has too many lines for a single transaction")

type orderLineItem struct {
	VariantID  string `dynamodbav:"variant_id"`
	Quantity   int    `dynamodbav:"quantity"`
	UnitPrice  string `dynamodbav:"unit_price"`
	TotalPrice string `dynamodbav:"total_price"`
}

type orderItem struct {
	ID             string          `dynamodbav:"id"`
	UserID         string          `dynamodbav:"user_id"`
	Status         string          `dynamodbav:"status"`
	Subtotal       string          `dynamodbav:"subtotal"`
	ShippingCost   string          `dynamodbav:"shipping_cost"`
	Tax            string          `dynamodbav:"tax"`
	Total          string          `dynamodbav:"total"`
	Items          []orderLineItem `dynamodbav:"items"`
	PaymentID      string          `dynamodbav:"payment_id,omitempty"`
	StockOverdraft bool            `dynamodbav:"stock_overdraft,omitempty"`
	CreatedAt      string          `dynamodbav:"created_at"`
	UpdatedAt      string          `dynamodbav:"updated_at"`
}

// OrderDynamoRepository persists orders and owns every stock write.
//
// Table requirements:
//   - orders PK: id; GSI status-created_at-index (PK: status, SK: created_at)
//   - variants PK: id
type OrderDynamoRepository struct {
	ddb           *dynamodb.Client
	tableName     string
	variantsTable string
	now           func() time.Time
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client, tables database.Tables) *OrderDynamoRepository {
	return &OrderDynamoRepository{
		ddb:           ddb,
		tableName:     tables.Orders,
		variantsTable: tables.Variants,
		now:           time.Now,
	}
}

func (r *OrderDynamoRepository) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	if id == "" {
		return entities.Order{}, nil
	}
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

// MarkPaid moves a PENDING order to PAID and decrements the stock of every
// line in one transaction. When only stock conditions fail, the order still
// moves to PAID flagged with stock_overdraft and no stock is written.
func (r *OrderDynamoRepository) MarkPaid(ctx context.Context, o entities.Order) (entities.PaidTransition, error) {
	lines := aggregateQuantities(o.Items)
	if len(lines)+1 > maxTransactItems {
		return entities.PaidTransition{}, fmt.Errorf("%w: order_id=%s lines=%d", ErrTooManyOrderLines, o.ID, len(lines))
	}
	now := formatTime(r.now())

	items := make([]types.TransactWriteItem, 0, len(lines)+1)
	items = append(items, types.TransactWriteItem{Update: r.paidUpdate(o.ID, now, false)})
	for _, l := range lines {
		items = append(items, types.TransactWriteItem{Update: &types.Update{
			TableName:           aws.String(r.variantsTable),
			Key:                 idKey(l.variantID),
			UpdateExpression:    aws.String("SET #stock = #stock - :qty"),
			ConditionExpression: aws.String("attribute_exists(#id) AND #stock >= :qty"),
			ExpressionAttributeNames: map[string]string{
				"#id":    "id",
				"#stock": "stock",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":qty": &types.AttributeValueMemberN{Value: strconv.Itoa(l.quantity)},
			},
		}})
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return entities.PaidTransition{Applied: true}, nil
	}

	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return entities.PaidTransition{}, err
	}
	switch classifyPaidCancellation(tce.CancellationReasons) {
	case paidOrderClosed:
		return entities.PaidTransition{Applied: false}, nil
	case paidStockShort:
		log.Printf("[checkout][repository] stock guard failed, marking order paid with overdraft order_id=%s", o.ID)
		return r.markPaidOverdraft(ctx, o.ID, now)
	default:
		return entities.PaidTransition{}, err
	}
}

func (r *OrderDynamoRepository) markPaidOverdraft(ctx context.Context, orderID, now string) (entities.PaidTransition, error) {
	u := r.paidUpdate(orderID, now, true)
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 u.TableName,
		Key:                       u.Key,
		UpdateExpression:          u.UpdateExpression,
		ConditionExpression:       u.ConditionExpression,
		ExpressionAttributeNames:  u.ExpressionAttributeNames,
		ExpressionAttributeValues: u.ExpressionAttributeValues,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return entities.PaidTransition{Applied: false}, nil
		}
		return entities.PaidTransition{}, err
	}
	return entities.PaidTransition{Applied: true, Overdraft: true}, nil
}

func (r *OrderDynamoRepository) paidUpdate(orderID, now string, overdraft bool) *types.Update {
	expr := "SET #status = :paid, #updated_at = :now"
	names := map[string]string{"#status": "status", "#updated_at": "updated_at"}
	values := map[string]types.AttributeValue{
		":paid":    &types.AttributeValueMemberS{Value: string(entities.OrderStatusPaid)},
		":pending": &types.AttributeValueMemberS{Value: string(entities.OrderStatusPending)},
		":now":     &types.AttributeValueMemberS{Value: now},
	}
	if overdraft {
		expr += ", #overdraft = :overdraft"
		names["#overdraft"] = "stock_overdraft"
		values[":overdraft"] = &types.AttributeValueMemberBOOL{Value: true}
	}
	return &types.Update{
		TableName:                 aws.String(r.tableName),
		Key:                       idKey(orderID),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("#status = :pending"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}
}

// MarkCancelled moves the order to CANCELLED only while it is PENDING.
func (r *OrderDynamoRepository) MarkCancelled(ctx context.Context, orderID string) (bool, error) {
	return r.cancel(ctx, orderID, "#status = :pending")
}

// CancelIfAwaitingPayment cancels a PENDING order that never got a payment.
func (r *OrderDynamoRepository) CancelIfAwaitingPayment(ctx context.Context, orderID string) (bool, error) {
	return r.cancel(ctx, orderID, "#status = :pending AND attribute_not_exists(payment_id)")
}

func (r *OrderDynamoRepository) cancel(ctx context.Context, orderID, condition string) (bool, error) {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 idKey(orderID),
		UpdateExpression:    aws.String("SET #status = :cancelled, #updated_at = :now"),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeNames: map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cancelled": &types.AttributeValueMemberS{Value: string(entities.OrderStatusCancelled)},
			":pending":   &types.AttributeValueMemberS{Value: string(entities.OrderStatusPending)},
			":now":       &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListAwaitingPayment returns PENDING orders without a payment created before createdBefore.
func (r *OrderDynamoRepository) ListAwaitingPayment(ctx context.Context, createdBefore time.Time) ([]entities.Order, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(database.OrdersStatusIndex),
		KeyConditionExpression: aws.String("#status = :pending AND #created_at < :before"),
		FilterExpression:       aws.String("attribute_not_exists(payment_id)"),
		ExpressionAttributeNames: map[string]string{
			"#status":     "status",
			"#created_at": "created_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: string(entities.OrderStatusPending)},
			":before":  &types.AttributeValueMemberS{Value: formatTime(createdBefore)},
		},
	})

	var orders []entities.Order
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it orderItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			orders = append(orders, fromOrderItem(it))
		}
	}
	return orders, nil
}

type paidCancellation int

const (
	paidUnknown paidCancellation = iota
	paidOrderClosed
	paidStockShort
)

// classifyPaidCancellation reads the reasons of a cancelled MarkPaid
// transaction. Index 0 is the order update, the rest are stock decrements.
func classifyPaidCancellation(reasons []types.CancellationReason) paidCancellation {
	if len(reasons) == 0 {
		return paidUnknown
	}
	if aws.ToString(reasons[0].Code) == conditionalCheckFailed {
		return paidOrderClosed
	}
	stockShort := false
	for _, reason := range reasons[1:] {
		switch aws.ToString(reason.Code) {
		case conditionalCheckFailed:
			stockShort = true
		case "", "None":
		default:
			return paidUnknown
		}
	}
	if stockShort {
		return paidStockShort
	}
	return paidUnknown
}

type lineQuantity struct {
	variantID string
	quantity  int
}

func aggregateQuantities(items []entities.OrderItem) []lineQuantity {
	out := make([]lineQuantity, 0, len(items))
	pos := make(map[string]int, len(items))
	for _, it := range items {
		if i, ok := pos[it.VariantID]; ok {
			out[i].quantity += it.Quantity
			continue
		}
		pos[it.VariantID] = len(out)
		out = append(out, lineQuantity{variantID: it.VariantID, quantity: it.Quantity})
	}
	return out
}

func toOrderItem(o entities.Order) orderItem {
	lines := make([]orderLineItem, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, orderLineItem{
			VariantID:  it.VariantID,
			Quantity:   it.Quantity,
			UnitPrice:  formatMoney(it.UnitPrice),
			TotalPrice: formatMoney(it.TotalPrice),
		})
	}
	return orderItem{
		ID:             o.ID,
		UserID:         o.UserID,
		Status:         string(o.Status),
		Subtotal:       formatMoney(o.Subtotal),
		ShippingCost:   formatMoney(o.ShippingCost),
		Tax:            formatMoney(o.Tax),
		Total:          formatMoney(o.Total),
		Items:          lines,
		PaymentID:      o.PaymentID,
		StockOverdraft: o.StockOverdraft,
		CreatedAt:      formatTime(o.CreatedAt),
		UpdatedAt:      formatTime(o.UpdatedAt),
	}
}

func fromOrderItem(it orderItem) entities.Order {
	items := make([]entities.OrderItem, 0, len(it.Items))
	for _, l := range it.Items {
		items = append(items, entities.OrderItem{
			VariantID:  l.VariantID,
			Quantity:   l.Quantity,
			UnitPrice:  parseMoney(l.UnitPrice),
			TotalPrice: parseMoney(l.TotalPrice),
		})
	}
	return entities.Order{
		ID:             it.ID,
		UserID:         it.UserID,
		Status:         entities.OrderStatus(it.Status),
		Subtotal:       parseMoney(it.Subtotal),
		ShippingCost:   parseMoney(it.ShippingCost),
		Tax:            parseMoney(it.Tax),
		Total:          parseMoney(it.Total),
		Items:          items,
		PaymentID:      it.PaymentID,
		StockOverdraft: it.StockOverdraft,
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}
}
