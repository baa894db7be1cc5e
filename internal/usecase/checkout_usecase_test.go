package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"motostore/internal/domain/entities"
	mock_interfaces "motostore/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type checkoutMocks struct {
	users    *mock_interfaces.MockIUserRepository
	variants *mock_interfaces.MockIVariantRepository
	orders   *mock_interfaces.MockIOrderRepository
	payments *mock_interfaces.MockIPaymentRepository
	resolver *mock_interfaces.MockIPaymentGatewayResolver
	gateway  *mock_interfaces.MockIPaymentGateway
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newCheckoutFixture(t *testing.T, opts ...CheckoutOption) (*CheckoutUseCase, checkoutMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := checkoutMocks{
		users:    mock_interfaces.NewMockIUserRepository(ctrl),
		variants: mock_interfaces.NewMockIVariantRepository(ctrl),
		orders:   mock_interfaces.NewMockIOrderRepository(ctrl),
		payments: mock_interfaces.NewMockIPaymentRepository(ctrl),
		resolver: mock_interfaces.NewMockIPaymentGatewayResolver(ctrl),
		gateway:  mock_interfaces.NewMockIPaymentGateway(ctrl),
	}
	ids := []string{"order-0001-aaaa", "pay-1", "x-3", "x-4"}
	next := 0
	base := []CheckoutOption{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			id := ids[next%len(ids)]
			next++
			return id
		}),
	}
	uc := NewCheckoutUseCase(m.users, m.variants, m.orders, m.payments, m.resolver, append(base, opts...)...)
	m.resolver.EXPECT().DefaultProvider().Return(entities.PaymentProviderDemo).AnyTimes()
	m.gateway.EXPECT().Provider().Return(entities.PaymentProviderDemo).AnyTimes()
	return uc, m
}

func testUser() entities.User {
	return entities.User{ID: "user-1", Email: "ana@example.com", FirstName: "Ana", LastName: "Quispe"}
}

func testVariant(id string, stock int, price string) entities.Variant {
	return entities.Variant{
		ID:        id,
		ProductID: "prod-" + id,
		Color:     "Rojo",
		Stock:     stock,
		Product: entities.Product{
			ID:    "prod-" + id,
			Name:  "Pulsar NS200",
			Price: decimal.RequireFromString(price),
		},
	}
}

func TestCheckoutUseCase_CreateCheckout_Success(t *testing.T) {
	uc, m := newCheckoutFixture(t)
	ctx := context.Background()

	m.users.EXPECT().GetByID(ctx, "user-1").Return(testUser(), nil)
	helmet := testVariant("var-2", 4, "50.00")
	helmet.Color = "Negro"
	helmet.Product.Name = "Casco LS2"
	m.variants.EXPECT().GetByIDs(ctx, []string{"var-1", "var-2"}).Return([]entities.Variant{testVariant("var-1", 5, "100.00"), helmet}, nil)
	m.resolver.EXPECT().GetGateway("").Return(m.gateway, nil)
	m.orders.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, o entities.Order) (entities.Order, error) {
		if o.Status != entities.OrderStatusPending {
			t.Fatalf("expected PENDING order, got %s", o.Status)
		}
		if o.PaymentID != "" {
			t.Fatalf("expected no payment id before preference, got %q", o.PaymentID)
		}
		return o, nil
	})
	m.gateway.EXPECT().CreatePreference(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req entities.PreferenceRequest) (entities.PreferenceResult, error) {
		if req.OrderID != "order-0001-aaaa" {
			t.Fatalf("unexpected order id %q", req.OrderID)
		}
		if !req.Amount.Equal(decimal.RequireFromString("305")) {
			t.Fatalf("expected amount 305, got %s", req.Amount)
		}
		if req.Description != "Orden #order-00" {
			t.Fatalf("unexpected description %q", req.Description)
		}
		if req.Payer.Email != "ana@example.com" || len(req.Items) != 2 || req.Items[0].Title != "Pulsar NS200 - Rojo" || req.Items[1].Title != "Casco LS2 - Negro" {
			t.Fatalf("unexpected preference request %+v", req)
		}
		return entities.PreferenceResult{PreferenceID: "pref-9", ExternalID: "pref-9", InitPoint: "https://pay.example/pref-9"}, nil
	})
	m.payments.EXPECT().CreateForOrder(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p entities.Payment) (entities.Payment, error) {
		if p.Status != entities.PaymentStatusPending || p.ExternalID != "pref-9" || p.Provider != entities.PaymentProviderDemo {
			t.Fatalf("unexpected payment %+v", p)
		}
		if p.OrderID != "order-0001-aaaa" || p.Currency != "PEN" {
			t.Fatalf("unexpected payment linkage %+v", p)
		}
		return p, nil
	})

	res, err := uc.CreateCheckout(ctx, CheckoutInput{
		UserID:       "user-1",
		Items:        []CheckoutItemInput{{VariantID: "var-1", Quantity: 2}, {VariantID: "var-2", Quantity: 1}},
		ShippingCost: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Order.Subtotal.Equal(decimal.NewFromInt(250)) || !res.Order.Tax.Equal(decimal.NewFromInt(45)) || !res.Order.Total.Equal(decimal.NewFromInt(305)) {
		t.Fatalf("unexpected totals subtotal=%s tax=%s total=%s", res.Order.Subtotal, res.Order.Tax, res.Order.Total)
	}
	if res.CheckoutURL != "https://pay.example/pref-9" {
		t.Fatalf("unexpected checkout url %q", res.CheckoutURL)
	}
	if res.Order.PaymentID != "pay-1" || res.Payment.ID != "pay-1" {
		t.Fatalf("expected order linked to payment pay-1, got order=%q payment=%q", res.Order.PaymentID, res.Payment.ID)
	}
	if len(res.Order.Items) != 2 || !res.Order.Items[0].TotalPrice.Equal(decimal.NewFromInt(200)) || !res.Order.Items[1].TotalPrice.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected order items %+v", res.Order.Items)
	}
}

func TestCheckoutUseCase_CreateCheckout_Validation(t *testing.T) {
	uc, _ := newCheckoutFixture(t)

	_, err := uc.CreateCheckout(context.Background(), CheckoutInput{
		Items:        []CheckoutItemInput{{VariantID: "", Quantity: 0}},
		ShippingCost: decimal.NewFromInt(-1),
		BackURLs:     &entities.BackURLs{Success: "not-a-url", Failure: "https://x.pe/f", Pending: "https://x.pe/p"},
	})
	if !errors.Is(err, ErrInvalidCheckoutInput) {
		t.Fatalf("expected ErrInvalidCheckoutInput, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	want := []string{"userId", "items.0.variantId", "items.0.quantity", "shippingCost", "backUrls.success"}
	if len(ve.Fields) != len(want) {
		t.Fatalf("expected %d violations, got %+v", len(want), ve.Fields)
	}
	for i, f := range want {
		if ve.Fields[i].Field != f {
			t.Fatalf("violation %d: expected %s, got %s", i, f, ve.Fields[i].Field)
		}
	}
}

func TestCheckoutUseCase_CreateCheckout_Limits(t *testing.T) {
	tests := []struct {
		name  string
		in    CheckoutInput
		field string
	}{
		{
			name:  "merged quantity cannot wrap",
			in:    CheckoutInput{UserID: "user-1", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: math.MaxInt}, {VariantID: "var-1", Quantity: 2}}},
			field: "items.0.quantity",
		},
		{
			name:  "merged quantity over the line limit",
			in:    CheckoutInput{UserID: "user-1", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 600}, {VariantID: " var-1 ", Quantity: 400}}},
			field: "items.1.quantity",
		},
		{
			name:  "shipping with sub-cent precision",
			in:    CheckoutInput{UserID: "user-1", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 1}}, ShippingCost: decimal.RequireFromString("10.005")},
			field: "shippingCost",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, m := newCheckoutFixture(t)
			m.users.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)
			m.orders.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

			_, err := uc.CreateCheckout(context.Background(), tt.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(ve.Fields) != 1 || ve.Fields[0].Field != tt.field {
				t.Fatalf("expected one violation on %s, got %+v", tt.field, ve.Fields)
			}
		})
	}
}

func TestCheckoutUseCase_CreateCheckout_UserResolution(t *testing.T) {
	t.Run("falls back to email", func(t *testing.T) {
		uc, m := newCheckoutFixture(t)
		ctx := context.Background()
		m.users.EXPECT().GetByID(ctx, "Ana@Example.com").Return(entities.User{}, nil)
		m.users.EXPECT().GetByEmail(ctx, "ana@example.com").Return(testUser(), nil)
		m.variants.EXPECT().GetByIDs(ctx, []string{"var-1"}).Return([]entities.Variant{testVariant("var-1", 5, "10")}, nil)
		m.resolver.EXPECT().GetGateway("").Return(m.gateway, nil)
		m.orders.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, o entities.Order) (entities.Order, error) {
			if o.UserID != "user-1" {
				t.Fatalf("expected resolved user id, got %q", o.UserID)
			}
			return o, nil
		})
		m.gateway.EXPECT().CreatePreference(ctx, gomock.Any()).Return(entities.PreferenceResult{ExternalID: "ext"}, nil)
		m.payments.EXPECT().CreateForOrder(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p entities.Payment) (entities.Payment, error) { return p, nil })

		if _, err := uc.CreateCheckout(ctx, CheckoutInput{UserID: "Ana@Example.com", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 1}}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		uc, m := newCheckoutFixture(t)
		m.users.EXPECT().GetByID(gomock.Any(), "ghost").Return(entities.User{}, nil)

		_, err := uc.CreateCheckout(context.Background(), CheckoutInput{UserID: "ghost", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 1}}})
		if !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestCheckoutUseCase_CreateCheckout_VariantChecks(t *testing.T) {
	t.Run("missing variant", func(t *testing.T) {
		uc, m := newCheckoutFixture(t)
		m.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(testUser(), nil)
		m.variants.EXPECT().GetByIDs(gomock.Any(), []string{"var-1", "var-2"}).Return([]entities.Variant{testVariant("var-1", 5, "10")}, nil)

		_, err := uc.CreateCheckout(context.Background(), CheckoutInput{UserID: "user-1", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 1}, {VariantID: "var-2", Quantity: 1}}})
		if !errors.Is(err, ErrVariantNotFound) {
			t.Fatalf("expected ErrVariantNotFound, got %v", err)
		}
	})

	t.Run("variant without product", func(t *testing.T) {
		uc, m := newCheckoutFixture(t)
		orphan := testVariant("var-1", 5, "10")
		orphan.Product = entities.Product{}
		m.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(testUser(), nil)
		m.variants.EXPECT().GetByIDs(gomock.Any(), []string{"var-1"}).Return([]entities.Variant{orphan}, nil)
		m.orders.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := uc.CreateCheckout(context.Background(), CheckoutInput{UserID: "user-1", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 1}}})
		if !errors.Is(err, ErrVariantNotFound) {
			t.Fatalf("expected ErrVariantNotFound, got %v", err)
		}
	})

	t.Run("insufficient stock creates nothing", func(t *testing.T) {
		uc, m := newCheckoutFixture(t)
		m.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(testUser(), nil)
		m.variants.EXPECT().GetByIDs(gomock.Any(), []string{"var-1"}).Return([]entities.Variant{testVariant("var-1", 1, "10")}, nil)
		m.orders.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
		m.payments.EXPECT().CreateForOrder(gomock.Any(), gomock.Any()).Times(0)

		_, err := uc.CreateCheckout(context.Background(), CheckoutInput{UserID: "user-1", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 2}}})
		if !errors.Is(err, ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		if err.Error() != "insufficient stock for Pulsar NS200 (Rojo). Available: 1" {
			t.Fatalf("unexpected message %q", err.Error())
		}
	})

	t.Run("duplicate lines are merged before the stock check", func(t *testing.T) {
		uc, m := newCheckoutFixture(t)
		m.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(testUser(), nil)
		m.variants.EXPECT().GetByIDs(gomock.Any(), []string{"var-1"}).Return([]entities.Variant{testVariant("var-1", 3, "10")}, nil)

		_, err := uc.CreateCheckout(context.Background(), CheckoutInput{UserID: "user-1", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 2}, {VariantID: "var-1", Quantity: 2}}})
		var stock *InsufficientStockError
		if !errors.As(err, &stock) {
			t.Fatalf("expected *InsufficientStockError, got %v", err)
		}
		if stock.Requested != 4 || stock.Available != 3 {
			t.Fatalf("unexpected stock error %+v", stock)
		}
	})
}

func TestCheckoutUseCase_CreateCheckout_PreferenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mock_interfaces.NewMockICheckoutMetrics(ctrl)
	uc, m := newCheckoutFixture(t, WithMetrics(metrics))

	m.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(testUser(), nil)
	m.variants.EXPECT().GetByIDs(gomock.Any(), gomock.Any()).Return([]entities.Variant{testVariant("var-1", 5, "10")}, nil)
	m.resolver.EXPECT().GetGateway("").Return(m.gateway, nil)
	m.orders.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, o entities.Order) (entities.Order, error) { return o, nil })
	m.gateway.EXPECT().CreatePreference(gomock.Any(), gomock.Any()).Return(entities.PreferenceResult{}, errors.New("timeout"))
	m.payments.EXPECT().CreateForOrder(gomock.Any(), gomock.Any()).Times(0)
	metrics.EXPECT().CheckoutCompleted("DEMO", "provider_error")

	_, err := uc.CreateCheckout(context.Background(), CheckoutInput{UserID: "user-1", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 1}}})
	if !errors.Is(err, entities.ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
	var pe *entities.ProviderError
	if !errors.As(err, &pe) || pe.Provider != entities.PaymentProviderDemo {
		t.Fatalf("expected ProviderError for DEMO, got %v", err)
	}
}

func TestCheckoutUseCase_CreateCheckout_UnknownProvider(t *testing.T) {
	uc, m := newCheckoutFixture(t)
	cfgErr := errors.New("provider not configured")
	m.users.EXPECT().GetByID(gomock.Any(), "user-1").Return(testUser(), nil)
	m.variants.EXPECT().GetByIDs(gomock.Any(), gomock.Any()).Return([]entities.Variant{testVariant("var-1", 5, "10")}, nil)
	m.resolver.EXPECT().GetGateway("CULQI").Return(nil, cfgErr)
	m.orders.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := uc.CreateCheckout(context.Background(), CheckoutInput{UserID: "user-1", Provider: "CULQI", Items: []CheckoutItemInput{{VariantID: "var-1", Quantity: 1}}})
	if !errors.Is(err, cfgErr) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestComputeTotals(t *testing.T) {
	items := []entities.OrderItem{
		{TotalPrice: decimal.RequireFromString("99.99")},
		{TotalPrice: decimal.RequireFromString("0.03")},
	}
	subtotal, tax, total := ComputeTotals(items, decimal.RequireFromString("15.50"))
	if subtotal.StringFixed(2) != "100.02" || tax.StringFixed(2) != "18.00" || total.StringFixed(2) != "133.52" {
		t.Fatalf("unexpected totals %s %s %s", subtotal, tax, total)
	}
}

func TestCheckoutUseCase_GetOrder(t *testing.T) {
	order := entities.Order{ID: "order-1", UserID: "user-1", Status: entities.OrderStatusPending, Items: []entities.OrderItem{{VariantID: "var-1", Quantity: 1}}}

	t.Run("owner sees order with payment", func(t *testing.T) {
		uc, m := newCheckoutFixture(t)
		ctx := context.Background()
		m.orders.EXPECT().GetByID(ctx, "order-1").Return(order, nil)
		m.users.EXPECT().GetByID(ctx, "user-1").Return(testUser(), nil)
		m.variants.EXPECT().GetByIDs(ctx, []string{"var-1"}).Return([]entities.Variant{testVariant("var-1", 2, "10")}, nil)
		m.payments.EXPECT().GetByOrderID(ctx, "order-1").Return(entities.Payment{ID: "pay-1", OrderID: "order-1"}, nil)

		got, err := uc.GetOrder(ctx, "order-1", "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Payment == nil || got.Payment.ID != "pay-1" {
			t.Fatalf("expected payment pay-1, got %+v", got.Payment)
		}
		if _, ok := got.Variants["var-1"]; !ok {
			t.Fatalf("expected variant var-1 in details")
		}
	})

	t.Run("other user gets not found", func(t *testing.T) {
		uc, m := newCheckoutFixture(t)
		m.orders.EXPECT().GetByID(gomock.Any(), "order-1").Return(order, nil)
		m.users.EXPECT().GetByID(gomock.Any(), "user-2").Return(entities.User{ID: "user-2"}, nil)

		if _, err := uc.GetOrder(context.Background(), "order-1", "user-2"); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		uc, m := newCheckoutFixture(t)
		m.orders.EXPECT().GetByID(gomock.Any(), "nope").Return(entities.Order{}, nil)

		if _, err := uc.GetOrder(context.Background(), "nope", ""); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}
