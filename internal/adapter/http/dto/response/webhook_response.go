package response

const MessageWebhookProcessed = "Webhook processed"

// WebhookResponse is always sent with HTTP 200 so providers stop retrying.
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PaymentConfigResponse is the public payment configuration used by the storefront.
type PaymentConfigResponse struct {
	Provider  string `json:"provider"`
	Currency  string `json:"currency"`
	PublicKey string `json:"publicKey,omitempty"`
}
