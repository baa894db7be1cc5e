package routes

import (
	"net/http"
	"time"

	"motostore/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathCheckout = "/checkout"
	PathWebhooks = "/webhooks"
	PathPayments = "/payments"
)

func addCheckoutRoutes(rg *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler) {
	checkout := rg.Group(PathCheckout)
	{
		checkout.POST("", checkoutHandler.CreateCheckout)
		checkout.GET("/:orderId", checkoutHandler.GetOrder)
	}
}

// addWebhookRoutes mounts the provider callbacks. The demo callback settles
// orders without any signature, so it only exists when DEMO is the provider.
func addWebhookRoutes(rg *gin.RouterGroup, webhookHandler *handlers.WebhookHandler, demoEnabled bool) {
	webhooks := rg.Group(PathWebhooks)
	{
		webhooks.POST("/mercadopago", webhookHandler.HandleMercadoPago)
		webhooks.POST("/culqi", webhookHandler.HandleCulqi)
		if demoEnabled {
			webhooks.POST("/demo", webhookHandler.HandleDemo)
		}
	}
}

func addPaymentRoutes(rg *gin.RouterGroup, paymentConfigHandler *handlers.PaymentConfigHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.GET("/config", paymentConfigHandler.GetConfig)
	}
}

// HealthCheck godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func addHealthRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"mode":      gin.Mode(),
		})
	})
}
