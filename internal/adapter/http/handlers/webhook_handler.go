package handlers

import (
	"log"
	"net/http"
	"strings"

	response "motostore/internal/adapter/http/dto/response"
	"motostore/internal/domain/entities"
	"motostore/internal/usecase"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives payment provider callbacks.
//
// Every response is HTTP 200 so providers do not retry on our errors; the
// body reports whether the delivery was applied.
type WebhookHandler struct {
	usecase usecase.ICheckoutUseCase
}

func NewWebhookHandler(uc usecase.ICheckoutUseCase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// HandleMercadoPago godoc
// @Summary      MercadoPago payment webhook
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        x-signature   header    string  false  "ts=<unix>,v1=<hmac>"
// @Param        x-request-id  header    string  false  "Request id used in the signed manifest"
// @Success      200           {object}  response.WebhookResponse
// @Router       /api/webhooks/mercadopago [post]
func (h *WebhookHandler) HandleMercadoPago(c *gin.Context) {
	h.handle(c, entities.PaymentProviderMercadoPago, "x-signature")
}

// HandleCulqi godoc
// @Summary      Culqi payment webhook
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        x-culqi-signature  header    string  false  "Hex HMAC-SHA256 of the raw body"
// @Success      200                {object}  response.WebhookResponse
// @Router       /api/webhooks/culqi [post]
func (h *WebhookHandler) HandleCulqi(c *gin.Context) {
	h.handle(c, entities.PaymentProviderCulqi, "x-culqi-signature")
}

// HandleDemo godoc
// @Summary      Demo payment webhook
// @Description  Simulates a provider callback with {paymentId, orderId, status}. Only routed when the DEMO provider is configured.
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.WebhookResponse
// @Router       /api/webhooks/demo [post]
func (h *WebhookHandler) HandleDemo(c *gin.Context) {
	h.handle(c, entities.PaymentProviderDemo, "")
}

func (h *WebhookHandler) handle(c *gin.Context, provider entities.PaymentProvider, signatureHeader string) {
	body, err := c.GetRawData()
	if err != nil {
		log.Printf("[webhook][handler] read body failed provider=%s err=%v", provider, err)
		c.JSON(http.StatusOK, response.WebhookResponse{Success: false, Message: "could not read request body"})
		return
	}

	headers := lowerHeaders(c.Request.Header)
	req := entities.WebhookRequest{Body: body, Headers: headers}
	if signatureHeader != "" {
		req.Signature = headers[signatureHeader]
	}
	log.Printf("[webhook][handler] received provider=%s bytes=%d", provider, len(body))

	outcome, err := h.usecase.ProcessWebhook(c.Request.Context(), string(provider), req)
	if err != nil {
		log.Printf("[webhook][handler] failed provider=%s outcome=%s err=%v", provider, outcome, err)
		c.JSON(http.StatusOK, response.WebhookResponse{Success: false, Message: err.Error()})
		return
	}
	log.Printf("[webhook][handler] done provider=%s outcome=%s", provider, outcome)

	c.JSON(http.StatusOK, response.WebhookResponse{Success: true, Message: response.MessageWebhookProcessed})
}

// lowerHeaders keeps the first value of every header under its lower-cased name.
func lowerHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) == 0 {
			continue
		}
		out[strings.ToLower(k)] = v[0]
	}
	return out
}
