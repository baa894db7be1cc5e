package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"motostore/internal/domain/entities"
	"motostore/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")

const mercadoPagoStatementDescriptor = "MOTO ECOMMERCE"

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentFetcher interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// MercadoPagoOptions configures the Checkout Pro adapter.
type MercadoPagoOptions struct {
	AccessToken   string
	WebhookSecret string
	StoreBaseURL  string
	APIBaseURL    string
	Currency      string
	Timeout       time.Duration
}

// MercadoPagoGateway creates Checkout Pro preferences and verifies x-signature webhooks.
type MercadoPagoGateway struct {
	preferences   preferenceCreator
	payments      paymentFetcher
	webhookSecret string
	storeBaseURL  string
	apiBaseURL    string
	currency      string
	timeout       time.Duration
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(opts MercadoPagoOptions) (*MercadoPagoGateway, error) {
	if strings.TrimSpace(opts.AccessToken) == "" {
		log.Printf("[payment][mercadopago] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(opts.AccessToken)
	if err != nil {
		log.Printf("[payment][mercadopago] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][mercadopago] client initialized")

	return newMercadoPagoGateway(opts, preference.NewClient(cfg), payment.NewClient(cfg)), nil
}

func newMercadoPagoGateway(opts MercadoPagoOptions, preferences preferenceCreator, payments paymentFetcher) *MercadoPagoGateway {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}
	currency := opts.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return &MercadoPagoGateway{
		preferences:   preferences,
		payments:      payments,
		webhookSecret: opts.WebhookSecret,
		storeBaseURL:  strings.TrimRight(opts.StoreBaseURL, "/"),
		apiBaseURL:    strings.TrimRight(opts.APIBaseURL, "/"),
		currency:      currency,
		timeout:       timeout,
	}
}

func (g *MercadoPagoGateway) Provider() entities.PaymentProvider {
	return entities.PaymentProviderMercadoPago
}

// CreatePreference creates a Checkout Pro preference.
//
// Back URLs are always built from the store base URL; caller-supplied ones are ignored.
func (g *MercadoPagoGateway) CreatePreference(ctx context.Context, req entities.PreferenceRequest) (entities.PreferenceResult, error) {
	if !req.Amount.IsPositive() {
		return entities.PreferenceResult{}, g.providerError("create preference", "amount must be positive", nil)
	}
	if g.storeBaseURL == "" {
		return entities.PreferenceResult{}, g.providerError("create preference", "STORE_BASE_URL is not configured", nil)
	}
	if g.apiBaseURL == "" {
		return entities.PreferenceResult{}, g.providerError("create preference", "API_BASE_URL is not configured", nil)
	}
	currency := req.Currency
	if currency == "" {
		currency = g.currency
	}
	log.Printf("[payment][mercadopago] create preference start order_id=%s amount=%s items=%d", req.OrderID, req.Amount.StringFixed(2), len(req.Items))

	items := make([]preference.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, preference.ItemRequest{
			Title:      it.Title,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.InexactFloat64(),
			CurrencyID: currency,
		})
	}

	payer := &preference.PayerRequest{
		Name:    req.Payer.FirstName,
		Surname: req.Payer.LastName,
		Email:   req.Payer.Email,
	}
	if req.Payer.Phone != "" {
		payer.Phone = &preference.PhoneRequest{Number: req.Payer.Phone}
	}

	mpReq := preference.Request{
		Items: items,
		Payer: payer,
		BackURLs: &preference.BackURLsRequest{
			Success: g.storeBaseURL + "/checkout/success",
			Failure: g.storeBaseURL + "/checkout/failure",
			Pending: g.storeBaseURL + "/checkout/pending",
		},
		AutoReturn:          "approved",
		ExternalReference:   req.OrderID,
		StatementDescriptor: mercadoPagoStatementDescriptor,
		NotificationURL:     g.apiBaseURL + "/api/webhooks/mercadopago",
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.preferences.Create(ctx, mpReq)
	if err != nil {
		log.Printf("[payment][mercadopago] sdk create preference failed order_id=%s err=%v", req.OrderID, err)
		return entities.PreferenceResult{}, g.providerError("create preference", "", err)
	}
	if resp == nil || resp.ID == "" {
		log.Printf("[payment][mercadopago] empty preference response order_id=%s", req.OrderID)
		return entities.PreferenceResult{}, g.providerError("create preference", "empty preference id", nil)
	}

	initPoint := resp.InitPoint
	if initPoint == "" {
		initPoint = resp.SandboxInitPoint
	}
	log.Printf("[payment][mercadopago] create preference success order_id=%s preference_id=%s", req.OrderID, resp.ID)

	return entities.PreferenceResult{
		PreferenceID: resp.ID,
		ExternalID:   resp.ID,
		InitPoint:    initPoint,
	}, nil
}

type mercadoPagoNotification struct {
	Type              string `json:"type"`
	Action            string `json:"action"`
	ExternalReference string `json:"external_reference"`
	Data              struct {
		ID flexibleID `json:"id"`
	} `json:"data"`
}

// VerifyWebhook checks the x-signature HMAC and, for payment events, fetches
// the payment to obtain its authoritative status and external reference.
func (g *MercadoPagoGateway) VerifyWebhook(ctx context.Context, req entities.WebhookRequest) entities.WebhookVerification {
	xSignature := req.Headers["x-signature"]
	if xSignature == "" {
		xSignature = req.Signature
	}
	if strings.TrimSpace(xSignature) == "" {
		return invalidWebhook("missing webhook signature")
	}
	if g.webhookSecret == "" {
		return invalidWebhook("webhook secret not configured")
	}

	var note mercadoPagoNotification
	if err := json.Unmarshal(req.Body, &note); err != nil {
		return invalidWebhook("malformed webhook body")
	}

	ts, v1 := parseMercadoPagoSignature(xSignature)
	if ts == "" || v1 == "" {
		return invalidWebhook("malformed x-signature header")
	}

	dataID := string(note.Data.ID)
	manifest := mercadoPagoManifest(dataID, req.Headers["x-request-id"], ts)
	if !signatureMatches(computeHMACHex(g.webhookSecret, []byte(manifest)), v1) {
		log.Printf("[payment][mercadopago] webhook signature mismatch data_id=%s", dataID)
		return invalidWebhook("invalid webhook signature")
	}

	if note.Type != "payment" {
		return entities.WebhookVerification{IsValid: true, ErrorMessage: "unsupported event type"}
	}
	if dataID == "" {
		return entities.WebhookVerification{IsValid: true, ErrorMessage: "payment id not found in webhook"}
	}

	st, err := g.GetPaymentStatus(ctx, dataID)
	if err != nil {
		return invalidWebhook(err.Error())
	}

	orderID := st.ExternalReference
	if orderID == "" {
		orderID = note.ExternalReference
	}
	amount := st.Amount

	return entities.WebhookVerification{
		IsValid:        true,
		PaymentID:      dataID,
		OrderID:        orderID,
		Status:         MapMercadoPagoStatus(st.Status),
		ExternalStatus: st.Status,
		Amount:         &amount,
	}
}

func (g *MercadoPagoGateway) GetPaymentStatus(ctx context.Context, paymentID string) (entities.ProviderPaymentStatus, error) {
	id, err := strconv.Atoi(strings.TrimSpace(paymentID))
	if err != nil {
		return entities.ProviderPaymentStatus{}, g.providerError("get payment", "invalid payment id "+strconv.Quote(paymentID), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		log.Printf("[payment][mercadopago] sdk get payment failed payment_id=%d err=%v", id, err)
		return entities.ProviderPaymentStatus{}, g.providerError("get payment", "", err)
	}
	if resp == nil {
		return entities.ProviderPaymentStatus{}, g.providerError("get payment", "empty payment response", nil)
	}
	log.Printf("[payment][mercadopago] get payment success payment_id=%d status=%s", resp.ID, resp.Status)

	return entities.ProviderPaymentStatus{
		Status:            resp.Status,
		Amount:            decimal.NewFromFloat(resp.TransactionAmount),
		Currency:          resp.CurrencyID,
		PaymentMethod:     resp.PaymentMethodID,
		ExternalReference: resp.ExternalReference,
	}, nil
}

func (g *MercadoPagoGateway) providerError(op, detail string, err error) error {
	return &entities.ProviderError{Provider: entities.PaymentProviderMercadoPago, Op: op, Detail: detail, Err: err}
}

// flexibleID accepts ids sent either as JSON strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexibleID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

func invalidWebhook(msg string) entities.WebhookVerification {
	return entities.WebhookVerification{IsValid: false, ErrorMessage: msg}
}
