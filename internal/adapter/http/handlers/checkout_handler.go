package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	request "motostore/internal/adapter/http/dto/request"
	response "motostore/internal/adapter/http/dto/response"
	"motostore/internal/domain/entities"
	"motostore/internal/infrastructure/payments"
	"motostore/internal/usecase"
	"motostore/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidCheckoutPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request body", http.StatusBadRequest)

// CheckoutHandler handles the storefront checkout endpoints.
type CheckoutHandler struct {
	usecase usecase.ICheckoutUseCase
}

func NewCheckoutHandler(uc usecase.ICheckoutUseCase) *CheckoutHandler {
	request.UseJSONFieldNames()
	return &CheckoutHandler{usecase: uc}
}

// CreateCheckout godoc
// @Summary      Create an order and its payment checkout
// @Description  Validates the cart, persists a PENDING order and returns the provider checkout URL. Stock is decremented only when the payment is approved.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        body  body      request.CheckoutRequest    true  "Checkout request"
// @Success      201   {object}  response.CheckoutResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      500   {object}  pkg.HTTPError
// @Failure      502   {object}  pkg.HTTPError
// @Router       /api/checkout [post]
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	var payload request.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		if fields, ok := request.FieldErrors(err); ok {
			log.Printf("[checkout][handler] validation failed fields=%d", len(fields))
			appErr := pkg.NewValidationError(fields, http.StatusBadRequest)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		log.Printf("[checkout][handler] invalid payload err=%v", err)
		c.JSON(errInvalidCheckoutPayload.HTTPStatus, errInvalidCheckoutPayload.ToHTTPError())
		return
	}

	in := payload.ToInput()
	log.Printf("[checkout][handler] create start user=%q items=%d provider=%q", in.UserID, len(in.Items), in.Provider)

	res, err := h.usecase.CreateCheckout(c.Request.Context(), in)
	if err != nil {
		log.Printf("[checkout][handler] create failed user=%q err=%v", in.UserID, err)
		appErr := mapCheckoutError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[checkout][handler] create success order_id=%s payment_id=%s", res.Order.ID, res.Payment.ID)

	c.JSON(http.StatusCreated, response.FromCheckoutResult(res))
}

// GetOrder godoc
// @Summary      Get an order
// @Description  Returns the order with its items, variants, payment and buyer summary. When userId is given it must own the order.
// @Tags         Checkout
// @Produce      json
// @Param        orderId  path      string  true   "Order ID"
// @Param        userId   query     string  false  "Owner user id or email"
// @Success      200      {object}  response.OrderEnvelope
// @Failure      404      {object}  pkg.HTTPError
// @Failure      500      {object}  pkg.HTTPError
// @Router       /api/checkout/{orderId} [get]
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("orderId"))
	requester := strings.TrimSpace(c.Query("userId"))
	log.Printf("[checkout][handler] get order start order_id=%s", orderID)

	details, err := h.usecase.GetOrder(c.Request.Context(), orderID, requester)
	if err != nil {
		log.Printf("[checkout][handler] get order failed order_id=%s err=%v", orderID, err)
		appErr := mapCheckoutError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromOrderDetails(details))
}

func mapCheckoutError(err error) *pkg.AppError {
	var (
		validation *usecase.ValidationError
		stock      *usecase.InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		return pkg.NewValidationError(request.FromViolations(validation.Fields), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.As(err, &stock):
		return pkg.NewDomainError("INSUFFICIENT_STOCK", stock.Error(), err, http.StatusInternalServerError)
	case errors.Is(err, usecase.ErrUserNotFound):
		return pkg.NewDomainError("USER_NOT_FOUND", "User not found", err, http.StatusInternalServerError)
	case errors.Is(err, usecase.ErrVariantNotFound):
		return pkg.NewDomainError("VARIANT_NOT_FOUND", "Some variants were not found", err, http.StatusInternalServerError)
	case errors.Is(err, payments.ErrPaymentConfiguration):
		return pkg.NewDomainError("PAYMENT_PROVIDER_NOT_CONFIGURED", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrProviderFailure):
		return pkg.NewDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider error", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
