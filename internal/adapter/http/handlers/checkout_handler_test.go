package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"motostore/internal/adapter/http/handlers/mocks"
	"motostore/internal/domain/entities"
	"motostore/internal/infrastructure/payments"
	"motostore/internal/usecase"
	"motostore/pkg"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

const validCheckoutBody = `{"userId":"user-1","items":[{"variantId":"var-1","quantity":2}],"shippingCost":10}`

func newCheckoutRouter(uc usecase.ICheckoutUseCase) *gin.Engine {
	h := NewCheckoutHandler(uc)
	r := gin.New()
	r.POST("/api/checkout", h.CreateCheckout)
	r.GET("/api/checkout/:orderId", h.GetOrder)
	return r
}

func postCheckout(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) pkg.HTTPError {
	t.Helper()
	var body pkg.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestCheckoutHandler_CreateCheckout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := newCheckoutRouter(uc)

		uc.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, in usecase.CheckoutInput) (usecase.CheckoutResult, error) {
			if in.UserID != "user-1" || len(in.Items) != 1 || !in.ShippingCost.Equal(decimal.NewFromInt(10)) {
				t.Fatalf("unexpected input %+v", in)
			}
			return usecase.CheckoutResult{
				Order:       entities.Order{ID: "order-1", Status: entities.OrderStatusPending, Total: decimal.RequireFromString("305")},
				Payment:     entities.Payment{ID: "pay-1"},
				CheckoutURL: "https://pay.example/1",
			}, nil
		})

		w := postCheckout(r, validCheckoutBody)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
		}
		var body struct {
			Success bool `json:"success"`
			Data    struct {
				OrderID     string  `json:"orderId"`
				CheckoutURL string  `json:"checkoutUrl"`
				Total       float64 `json:"total"`
				Status      string  `json:"status"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if !body.Success || body.Data.OrderID != "order-1" || body.Data.Total != 305 || body.Data.Status != "PENDING" {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("binding validation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := newCheckoutRouter(uc)

		w := postCheckout(r, `{"items":[]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		body := decodeError(t, w)
		if body.Code != "VALIDATION_ERROR" || len(body.Errors) != 2 {
			t.Fatalf("unexpected error body %+v", body)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r := newCheckoutRouter(mocks.NewMockICheckoutUseCase(ctrl))

		w := postCheckout(r, "{")
		if w.Code != http.StatusBadRequest || decodeError(t, w).Code != "INVALID_REQUEST" {
			t.Fatalf("expected INVALID_REQUEST 400, got %d %s", w.Code, w.Body.String())
		}
	})

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"usecase validation", &usecase.ValidationError{Fields: []usecase.FieldViolation{{Field: "shippingCost", Message: "shippingCost must be greater than or equal to 0"}}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"insufficient stock", &usecase.InsufficientStockError{ProductName: "Pulsar NS200", Color: "Rojo", Available: 1, Requested: 2}, http.StatusInternalServerError, "INSUFFICIENT_STOCK"},
		{"user not found", usecase.ErrUserNotFound, http.StatusInternalServerError, "USER_NOT_FOUND"},
		{"variant not found", usecase.ErrVariantNotFound, http.StatusInternalServerError, "VARIANT_NOT_FOUND"},
		{"unknown provider", &payments.ConfigurationError{Provider: "PAYPAL", Reason: "unsupported provider"}, http.StatusBadRequest, "PAYMENT_PROVIDER_NOT_CONFIGURED"},
		{"provider failure", &entities.ProviderError{Provider: entities.PaymentProviderCulqi, Op: "create preference", Err: errors.New("timeout")}, http.StatusBadGateway, "PAYMENT_PROVIDER_ERROR"},
		{"unexpected", errors.New("dynamodb down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockICheckoutUseCase(ctrl)
			r := newCheckoutRouter(uc)
			uc.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(usecase.CheckoutResult{}, tt.err)

			w := postCheckout(r, validCheckoutBody)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			body := decodeError(t, w)
			if body.Success || body.Code != tt.code {
				t.Fatalf("unexpected error body %+v", body)
			}
		})
	}

	t.Run("stock message is surfaced", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := newCheckoutRouter(uc)
		uc.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(usecase.CheckoutResult{}, &usecase.InsufficientStockError{ProductName: "Pulsar NS200", Color: "Rojo", Available: 1})

		body := decodeError(t, postCheckout(r, validCheckoutBody))
		if body.Message != "insufficient stock for Pulsar NS200 (Rojo). Available: 1" {
			t.Fatalf("unexpected message %q", body.Message)
		}
	})
}

func TestCheckoutHandler_GetOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := newCheckoutRouter(uc)
		uc.EXPECT().GetOrder(gomock.Any(), "order-1", "user-1").Return(usecase.OrderDetails{
			Order: entities.Order{ID: "order-1", Status: entities.OrderStatusPaid},
			User:  entities.User{ID: "user-1"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/checkout/order-1?userId=user-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := newCheckoutRouter(uc)
		uc.EXPECT().GetOrder(gomock.Any(), "order-9", "").Return(usecase.OrderDetails{}, usecase.ErrOrderNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/checkout/order-9", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound || decodeError(t, w).Code != "ORDER_NOT_FOUND" {
			t.Fatalf("expected ORDER_NOT_FOUND 404, got %d %s", w.Code, w.Body.String())
		}
	})
}
