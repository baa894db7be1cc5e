package handlers

import (
	"net/http"

	response "motostore/internal/adapter/http/dto/response"

	"github.com/gin-gonic/gin"
)

// PaymentConfigHandler exposes the public payment settings the storefront
// needs to render the payment step.
type PaymentConfigHandler struct {
	config response.PaymentConfigResponse
}

func NewPaymentConfigHandler(provider, currency, publicKey string) *PaymentConfigHandler {
	return &PaymentConfigHandler{config: response.PaymentConfigResponse{
		Provider:  provider,
		Currency:  currency,
		PublicKey: publicKey,
	}}
}

// GetConfig godoc
// @Summary      Public payment configuration
// @Tags         Payments
// @Produce      json
// @Success      200  {object}  response.PaymentConfigResponse
// @Router       /api/payments/config [get]
func (h *PaymentConfigHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.config)
}
