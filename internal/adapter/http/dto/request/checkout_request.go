package request

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"motostore/internal/domain/entities"
	"motostore/internal/usecase"
	"motostore/pkg"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CheckoutItemRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0,lte=999"`
}

type BackURLsRequest struct {
	Success string `json:"success" binding:"required,url"`
	Failure string `json:"failure" binding:"required,url"`
	Pending string `json:"pending" binding:"required,url"`
}

// CheckoutRequest is the body of POST /api/checkout.
//
// userId accepts a user id or the user's email. provider optionally overrides
// the configured gateway (MERCADOPAGO, CULQI or DEMO).
type CheckoutRequest struct {
	UserID       string                `json:"userId" binding:"required"`
	Items        []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingCost decimal.Decimal       `json:"shippingCost" swaggertype:"number"`
	BackURLs     *BackURLsRequest      `json:"backUrls,omitempty"`
	Provider     string                `json:"provider,omitempty"`
}

func (r CheckoutRequest) ToInput() usecase.CheckoutInput {
	items := make([]usecase.CheckoutItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, usecase.CheckoutItemInput{VariantID: strings.TrimSpace(it.VariantID), Quantity: it.Quantity})
	}
	in := usecase.CheckoutInput{
		UserID:       strings.TrimSpace(r.UserID),
		Items:        items,
		ShippingCost: r.ShippingCost,
		Provider:     strings.TrimSpace(r.Provider),
	}
	if r.BackURLs != nil {
		in.BackURLs = &entities.BackURLs{
			Success: r.BackURLs.Success,
			Failure: r.BackURLs.Failure,
			Pending: r.BackURLs.Pending,
		}
	}
	return in
}

var registerJSONNames sync.Once

// UseJSONFieldNames makes binding errors report JSON field names.
func UseJSONFieldNames() {
	registerJSONNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// FieldErrors converts binding validation errors into field errors with
// dotted paths (items.0.quantity). ok is false for non-validation errors
// such as malformed JSON.
func FieldErrors(err error) ([]pkg.FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make([]pkg.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		out = append(out, pkg.FieldError{Field: field, Message: fieldMessage(field, fe)})
	}
	return out, true
}

// FromViolations converts usecase validation violations.
func FromViolations(violations []usecase.FieldViolation) []pkg.FieldError {
	out := make([]pkg.FieldError, 0, len(violations))
	for _, v := range violations {
		out = append(out, pkg.FieldError{Field: v.Field, Message: v.Message})
	}
	return out
}

func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	r := strings.NewReplacer("[", ".", "]", "")
	return r.Replace(namespace)
}

func fieldMessage(field string, fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		if field == "items" {
			return "at least one item is required"
		}
		return name + " is required"
	case "min":
		return "at least one item is required"
	case "gt":
		return name + " must be greater than " + fe.Param()
	case "lte":
		return name + " must be less than or equal to " + fe.Param()
	case "url":
		return name + " must be a valid URL"
	default:
		return name + " is invalid"
	}
}
