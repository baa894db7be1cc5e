package response

import (
	"encoding/json"
	"time"

	"motostore/internal/domain/entities"
	"motostore/internal/usecase"

	"github.com/shopspring/decimal"
)

const MessageCheckoutCreated = "Checkout created successfully"

type CheckoutData struct {
	OrderID     string      `json:"orderId"`
	PaymentID   string      `json:"paymentId"`
	CheckoutURL string      `json:"checkoutUrl"`
	Total       json.Number `json:"total" swaggertype:"number"`
	Status      string      `json:"status"`
}

type CheckoutResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    CheckoutData `json:"data"`
}

func FromCheckoutResult(r usecase.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		Success: true,
		Message: MessageCheckoutCreated,
		Data: CheckoutData{
			OrderID:     r.Order.ID,
			PaymentID:   r.Payment.ID,
			CheckoutURL: r.CheckoutURL,
			Total:       money(r.Order.Total),
			Status:      string(r.Order.Status),
		},
	}
}

type BrandResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Slug  string        `json:"slug"`
	Brand BrandResponse `json:"brand"`
}

type VariantResponse struct {
	ID      string          `json:"id"`
	Color   string          `json:"color"`
	SKU     string          `json:"sku"`
	Product ProductResponse `json:"product"`
}

type OrderItemResponse struct {
	VariantID  string           `json:"variantId"`
	Quantity   int              `json:"quantity"`
	UnitPrice  json.Number      `json:"unitPrice" swaggertype:"number"`
	TotalPrice json.Number      `json:"totalPrice" swaggertype:"number"`
	Variant    *VariantResponse `json:"variant,omitempty"`
}

type UserSummaryResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type PaymentResponse struct {
	ID             string      `json:"id"`
	Provider       string      `json:"provider"`
	Status         string      `json:"status"`
	Amount         json.Number `json:"amount" swaggertype:"number"`
	Currency       string      `json:"currency"`
	ExternalID     string      `json:"externalId"`
	ExternalStatus string      `json:"externalStatus,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	Status         string              `json:"status"`
	Subtotal       json.Number         `json:"subtotal" swaggertype:"number"`
	ShippingCost   json.Number         `json:"shippingCost" swaggertype:"number"`
	Tax            json.Number         `json:"tax" swaggertype:"number"`
	Total          json.Number         `json:"total" swaggertype:"number"`
	StockOverdraft bool                `json:"stockOverdraft,omitempty"`
	User           UserSummaryResponse `json:"user"`
	Items          []OrderItemResponse `json:"items"`
	Payment        *PaymentResponse    `json:"payment,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

type OrderEnvelope struct {
	Success bool          `json:"success"`
	Data    OrderResponse `json:"data"`
}

func FromOrderDetails(d usecase.OrderDetails) OrderEnvelope {
	o := d.Order
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		item := OrderItemResponse{
			VariantID:  it.VariantID,
			Quantity:   it.Quantity,
			UnitPrice:  money(it.UnitPrice),
			TotalPrice: money(it.TotalPrice),
		}
		if v, ok := d.Variants[it.VariantID]; ok {
			item.Variant = fromVariant(v)
		}
		items = append(items, item)
	}

	resp := OrderResponse{
		ID:             o.ID,
		Status:         string(o.Status),
		Subtotal:       money(o.Subtotal),
		ShippingCost:   money(o.ShippingCost),
		Tax:            money(o.Tax),
		Total:          money(o.Total),
		StockOverdraft: o.StockOverdraft,
		User: UserSummaryResponse{
			ID:        d.User.ID,
			Email:     d.User.Email,
			FirstName: d.User.FirstName,
			LastName:  d.User.LastName,
		},
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if d.Payment != nil {
		resp.Payment = fromPayment(*d.Payment)
	}
	return OrderEnvelope{Success: true, Data: resp}
}

func fromVariant(v entities.Variant) *VariantResponse {
	return &VariantResponse{
		ID:    v.ID,
		Color: v.Color,
		SKU:   v.SKU,
		Product: ProductResponse{
			ID:    v.Product.ID,
			Name:  v.Product.Name,
			Slug:  v.Product.Slug,
			Brand: BrandResponse{ID: v.Product.Brand.ID, Name: v.Product.Brand.Name},
		},
	}
}

func fromPayment(p entities.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:             p.ID,
		Provider:       string(p.Provider),
		Status:         string(p.Status),
		Amount:         money(p.Amount),
		Currency:       p.Currency,
		ExternalID:     p.ExternalID,
		ExternalStatus: p.ExternalStatus,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// money renders a decimal as a JSON number with two decimals.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
