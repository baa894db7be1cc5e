package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the buyer identity. Only the fields the checkout needs are modelled.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is the priced catalog entry. The brand is stored embedded.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Slug  string          `json:"slug"`
	Price decimal.Decimal `json:"price"`
	Brand Brand           `json:"brand"`
}

// Variant is a purchasable color/SKU of a product. Stock is the only field the
// checkout flow mutates, and only through the guarded approval transition.
type Variant struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Color     string  `json:"color"`
	SKU       string  `json:"sku"`
	Stock     int     `json:"stock"`
	Product   Product `json:"product"`
}
