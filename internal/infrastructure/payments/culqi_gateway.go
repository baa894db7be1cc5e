package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"motostore/internal/domain/entities"
	"motostore/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

const (
	defaultCulqiBaseURL = "https://api.culqi.com/v2"
	culqiOrderTTL       = 24 * time.Hour
)

type CulqiOptions struct {
	PublicKey     string
	SecretKey     string
	WebhookSecret string
	// BaseURL is the Culqi API root.
	BaseURL string
	// APIBaseURL is this service's public URL, used for the hosted checkout page.
	APIBaseURL string
	Currency   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// CulqiGateway talks to the Culqi v2 REST API.
//
// Preference creation maps to POST /orders (amount in minor units, 24h expiry).
// Webhooks are signed with an HMAC-SHA256 hex digest of the raw body.
type CulqiGateway struct {
	httpClient    *http.Client
	baseURL       string
	apiBaseURL    string
	publicKey     string
	secretKey     string
	webhookSecret string
	currency      string
	timeout       time.Duration
	now           func() time.Time
}

var _ interfaces.IPaymentGateway = (*CulqiGateway)(nil)

func NewCulqiGateway(opts CulqiOptions) *CulqiGateway {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultCulqiBaseURL
	}
	currency := opts.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return &CulqiGateway{
		httpClient:    client,
		baseURL:       baseURL,
		apiBaseURL:    strings.TrimRight(opts.APIBaseURL, "/"),
		publicKey:     opts.PublicKey,
		secretKey:     opts.SecretKey,
		webhookSecret: opts.WebhookSecret,
		currency:      currency,
		timeout:       timeout,
		now:           time.Now,
	}
}

func (g *CulqiGateway) Provider() entities.PaymentProvider {
	return entities.PaymentProviderCulqi
}

// PublicKey is the key the storefront uses to tokenize cards with Culqi.js.
func (g *CulqiGateway) PublicKey() string {
	return g.publicKey
}

type culqiClientDetails struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type culqiOrderRequest struct {
	Amount         int64              `json:"amount"`
	CurrencyCode   string             `json:"currency_code"`
	Description    string             `json:"description"`
	OrderNumber    string             `json:"order_number"`
	ClientDetails  culqiClientDetails `json:"client_details"`
	ExpirationDate int64              `json:"expiration_date"`
	Confirm        bool               `json:"confirm"`
}

type culqiOrderResponse struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	State       string `json:"state"`
}

type culqiCharge struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
	Outcome      struct {
		Type string `json:"type"`
	} `json:"outcome"`
	Metadata struct {
		OrderID string `json:"order_id"`
	} `json:"metadata"`
	Source struct {
		IIN struct {
			CardBrand string `json:"card_brand"`
		} `json:"iin"`
	} `json:"source"`
}

type culqiOrderEvent struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`
	State       string `json:"state"`
}

type culqiErrorResponse struct {
	Object          string `json:"object"`
	Type            string `json:"type"`
	MerchantMessage string `json:"merchant_message"`
	UserMessage     string `json:"user_message"`
}

func (g *CulqiGateway) CreatePreference(ctx context.Context, req entities.PreferenceRequest) (entities.PreferenceResult, error) {
	if !req.Amount.IsPositive() {
		return entities.PreferenceResult{}, g.providerError("create order", "amount must be positive", nil)
	}
	if g.secretKey == "" {
		return entities.PreferenceResult{}, g.providerError("create order", "CULQI_SECRET_KEY is not configured", nil)
	}
	if g.apiBaseURL == "" {
		return entities.PreferenceResult{}, g.providerError("create order", "API_BASE_URL is not configured", nil)
	}
	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}

	body := culqiOrderRequest{
		Amount:       toMinorUnits(req.Amount),
		CurrencyCode: currency,
		Description:  req.Description,
		OrderNumber:  req.OrderID,
		ClientDetails: culqiClientDetails{
			FirstName:   req.Payer.FirstName,
			LastName:    req.Payer.LastName,
			Email:       req.Payer.Email,
			PhoneNumber: req.Payer.Phone,
		},
		ExpirationDate: g.now().Add(culqiOrderTTL).Unix(),
		Confirm:        false,
	}
	log.Printf("[payment][culqi] create order start order_id=%s amount_minor=%d", req.OrderID, body.Amount)

	var out culqiOrderResponse
	if err := g.do(ctx, http.MethodPost, "/orders", body, &out); err != nil {
		log.Printf("[payment][culqi] create order failed order_id=%s err=%v", req.OrderID, err)
		return entities.PreferenceResult{}, g.wrapError("create order", err)
	}
	if out.ID == "" {
		return entities.PreferenceResult{}, g.providerError("create order", "empty order id", nil)
	}
	log.Printf("[payment][culqi] create order success order_id=%s culqi_order_id=%s", req.OrderID, out.ID)

	return entities.PreferenceResult{
		PreferenceID: out.ID,
		ExternalID:   out.ID,
		InitPoint:    g.apiBaseURL + "/checkout/culqi?order=" + url.QueryEscape(out.ID),
	}, nil
}

// VerifyWebhook validates x-culqi-signature against the raw body and maps
// charge.succeeded, charge.failed and order.status.changed events.
func (g *CulqiGateway) VerifyWebhook(_ context.Context, req entities.WebhookRequest) entities.WebhookVerification {
	signature := req.Headers["x-culqi-signature"]
	if signature == "" {
		signature = req.Signature
	}
	if strings.TrimSpace(signature) == "" {
		return invalidWebhook("missing webhook signature")
	}
	if g.webhookSecret == "" {
		return invalidWebhook("webhook secret not configured")
	}
	if !signatureMatches(computeHMACHex(g.webhookSecret, req.Body), signature) {
		log.Printf("[payment][culqi] webhook signature mismatch body_len=%d", len(req.Body))
		return invalidWebhook("invalid webhook signature")
	}

	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(req.Body, &event); err != nil {
		return invalidWebhook("malformed webhook body")
	}

	switch event.Type {
	case "charge.succeeded", "charge.failed":
		var charge culqiCharge
		if err := json.Unmarshal(event.Data, &charge); err != nil {
			return invalidWebhook("malformed charge data")
		}
		outcome := charge.Outcome.Type
		if outcome == "" {
			outcome = "pending"
		}
		amount := fromMinorUnits(charge.Amount)
		return entities.WebhookVerification{
			IsValid:        true,
			PaymentID:      charge.ID,
			OrderID:        charge.Metadata.OrderID,
			Status:         MapCulqiChargeStatus(outcome),
			ExternalStatus: outcome,
			Amount:         &amount,
		}
	case "order.status.changed":
		var order culqiOrderEvent
		if err := json.Unmarshal(event.Data, &order); err != nil {
			return invalidWebhook("malformed order data")
		}
		return entities.WebhookVerification{
			IsValid:        true,
			PaymentID:      order.ID,
			OrderID:        order.OrderNumber,
			Status:         MapCulqiOrderStatus(order.State),
			ExternalStatus: order.State,
		}
	default:
		return entities.WebhookVerification{IsValid: true, ErrorMessage: "unsupported event type"}
	}
}

func (g *CulqiGateway) GetPaymentStatus(ctx context.Context, paymentID string) (entities.ProviderPaymentStatus, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return entities.ProviderPaymentStatus{}, g.providerError("get charge", "empty charge id", nil)
	}

	var charge culqiCharge
	if err := g.do(ctx, http.MethodGet, "/charges/"+url.PathEscape(paymentID), nil, &charge); err != nil {
		log.Printf("[payment][culqi] get charge failed charge_id=%s err=%v", paymentID, err)
		return entities.ProviderPaymentStatus{}, g.wrapError("get charge", err)
	}

	method := charge.Source.IIN.CardBrand
	if method == "" {
		method = "card"
	}
	return entities.ProviderPaymentStatus{
		Status:            charge.Outcome.Type,
		Amount:            fromMinorUnits(charge.Amount),
		Currency:          charge.CurrencyCode,
		PaymentMethod:     method,
		ExternalReference: charge.Metadata.OrderID,
	}, nil
}

type culqiHTTPError struct {
	StatusCode int
	Message    string
}

func (e *culqiHTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("culqi responded %d", e.StatusCode)
	}
	return fmt.Sprintf("culqi responded %d: %s", e.StatusCode, e.Message)
}

func (g *CulqiGateway) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr culqiErrorResponse
		_ = json.Unmarshal(raw, &apiErr)
		msg := apiErr.MerchantMessage
		if msg == "" {
			msg = apiErr.UserMessage
		}
		return &culqiHTTPError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (g *CulqiGateway) wrapError(op string, err error) error {
	return g.providerError(op, "", err)
}

func (g *CulqiGateway) providerError(op, detail string, err error) error {
	return &entities.ProviderError{Provider: entities.PaymentProviderCulqi, Op: op, Detail: detail, Err: err}
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func fromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
