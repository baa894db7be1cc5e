package repository

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"motostore/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

func TestFormatTime_SortsLexicographically(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{
		base.Add(500 * time.Millisecond),
		base,
		base.Add(-time.Nanosecond),
		base.Add(time.Second),
	}
	formatted := make([]string, 0, len(times))
	for _, tm := range times {
		formatted = append(formatted, formatTime(tm))
	}
	sort.Strings(formatted)

	want := []time.Time{base.Add(-time.Nanosecond), base, base.Add(500 * time.Millisecond), base.Add(time.Second)}
	for i, s := range formatted {
		if !parseTime(s).Equal(want[i]) {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], s)
		}
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("305.10")
	if got := formatMoney(d); got != "305.10" {
		t.Fatalf("expected 305.10, got %s", got)
	}
	if !parseMoney("305.10").Equal(d) {
		t.Fatalf("expected parse to keep value")
	}
	if !parseMoney("garbage").IsZero() {
		t.Fatalf("expected zero for invalid money")
	}
}

func TestOrderItemMapping(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o := entities.Order{
		ID:           "order-1",
		UserID:       "user-1",
		Status:       entities.OrderStatusPending,
		Subtotal:     decimal.RequireFromString("250"),
		ShippingCost: decimal.RequireFromString("10"),
		Tax:          decimal.RequireFromString("45"),
		Total:        decimal.RequireFromString("305"),
		Items:        []entities.OrderItem{{VariantID: "var-1", Quantity: 2, UnitPrice: decimal.RequireFromString("125"), TotalPrice: decimal.RequireFromString("250")}},
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	it := toOrderItem(o)
	if it.Total != "305.00" || it.Items[0].UnitPrice != "125.00" {
		t.Fatalf("unexpected stored money %+v", it)
	}
	back := fromOrderItem(it)
	if !back.Total.Equal(o.Total) || !back.CreatedAt.Equal(created) || back.Items[0].Quantity != 2 {
		t.Fatalf("unexpected mapped order %+v", back)
	}
	if !back.AwaitingPayment() {
		t.Fatalf("expected order without payment to be awaiting payment")
	}
}

func TestAggregateQuantities(t *testing.T) {
	got := aggregateQuantities([]entities.OrderItem{
		{VariantID: "a", Quantity: 1},
		{VariantID: "b", Quantity: 2},
		{VariantID: "a", Quantity: 3},
	})
	if len(got) != 2 || got[0].variantID != "a" || got[0].quantity != 4 || got[1].quantity != 2 {
		t.Fatalf("unexpected aggregation %+v", got)
	}
}

func reason(code string) types.CancellationReason {
	return types.CancellationReason{Code: aws.String(code)}
}

func TestClassifyPaidCancellation(t *testing.T) {
	tests := []struct {
		name    string
		reasons []types.CancellationReason
		want    paidCancellation
	}{
		{"order not pending", []types.CancellationReason{reason("ConditionalCheckFailed"), reason("None")}, paidOrderClosed},
		{"order closed and stock short", []types.CancellationReason{reason("ConditionalCheckFailed"), reason("ConditionalCheckFailed")}, paidOrderClosed},
		{"stock short", []types.CancellationReason{reason("None"), reason("None"), reason("ConditionalCheckFailed")}, paidStockShort},
		{"transaction conflict", []types.CancellationReason{reason("None"), reason("TransactionConflict")}, paidUnknown},
		{"no reasons", nil, paidUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyPaidCancellation(tt.reasons); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

type fakeBatchGetter struct {
	calls       int
	unprocessed int
}

func (f *fakeBatchGetter) BatchGetItem(_ context.Context, in *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	f.calls++
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]types.AttributeValue{}}
	for table, ka := range in.RequestItems {
		keys := ka.Keys
		if f.unprocessed > 0 && len(keys) > 1 {
			f.unprocessed--
			out.UnprocessedKeys = map[string]types.KeysAndAttributes{table: {Keys: keys[1:]}}
			keys = keys[:1]
		}
		out.Responses[table] = append(out.Responses[table], keys...)
	}
	return out, nil
}

func TestBatchGetByID(t *testing.T) {
	t.Run("retries unprocessed keys", func(t *testing.T) {
		f := &fakeBatchGetter{unprocessed: 1}
		got, err := batchGetByID(context.Background(), f, "variants", []string{"a", "b", "c"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 || f.calls != 2 {
			t.Fatalf("expected 3 items in 2 calls, got %d items in %d calls", len(got), f.calls)
		}
	})

	t.Run("chunks large requests", func(t *testing.T) {
		ids := make([]string, 0, 150)
		for i := 0; i < 150; i++ {
			ids = append(ids, "v-"+strconv.Itoa(i))
		}
		f := &fakeBatchGetter{}
		got, err := batchGetByID(context.Background(), f, "variants", ids)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 150 || f.calls != 2 {
			t.Fatalf("expected 150 items in 2 calls, got %d items in %d calls", len(got), f.calls)
		}
	})
}

func TestUniqueIDs(t *testing.T) {
	got := uniqueIDs([]string{"a", "", "b", "a"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestAssembleVariants(t *testing.T) {
	variants := map[string]variantItem{
		"var-1": {ID: "var-1", ProductID: "prod-1", Color: "Rojo", Stock: 3},
		"var-2": {ID: "var-2", ProductID: "prod-gone", Color: "Azul", Stock: 9},
		"var-3": {ID: "var-3", ProductID: "prod-1", Color: "Negro", Stock: 1},
	}
	products := map[string]entities.Product{
		"prod-1": {ID: "prod-1", Name: "Pulsar NS200", Price: decimal.RequireFromString("9500")},
	}

	got := assembleVariants([]string{"var-3", "var-2", "missing", "var-1"}, variants, products)
	if len(got) != 2 || got[0].ID != "var-3" || got[1].ID != "var-1" {
		t.Fatalf("unexpected variants %+v", got)
	}
	if got[1].Product.Name != "Pulsar NS200" || !got[1].Product.Price.Equal(decimal.NewFromInt(9500)) {
		t.Fatalf("product not attached: %+v", got[1].Product)
	}
}
