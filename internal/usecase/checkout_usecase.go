package usecase

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"motostore/internal/domain/entities"
	"motostore/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ICheckoutUseCase encapsulates checkout creation, order lookup and webhook reconciliation.
//
// Flow:
//   - CreateCheckout persists a PENDING order, creates the provider preference,
//     then stores the PENDING payment. Stock is not touched here.
//   - ProcessWebhook verifies a provider callback and applies the mapped status
//     through ApplyPaymentStatus, the only path that moves orders or stock.
type ICheckoutUseCase interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (CheckoutResult, error)
	GetOrder(ctx context.Context, orderID, requester string) (OrderDetails, error)
	ProcessWebhook(ctx context.Context, provider string, req entities.WebhookRequest) (WebhookOutcome, error)
}

type CheckoutItemInput struct {
	VariantID string
	Quantity  int
}

// CheckoutInput is a checkout request. UserID may be a user id or an email.
// Provider overrides the default gateway when set.
type CheckoutInput struct {
	UserID       string
	Items        []CheckoutItemInput
	ShippingCost decimal.Decimal
	BackURLs     *entities.BackURLs
	Provider     string
}

type CheckoutResult struct {
	Order       entities.Order
	Payment     entities.Payment
	CheckoutURL string
}

// OrderDetails is an order with everything needed to render it.
// Variants is keyed by variant id; Payment is nil while none exists.
type OrderDetails struct {
	Order    entities.Order
	User     entities.User
	Variants map[string]entities.Variant
	Payment  *entities.Payment
}

type CheckoutUseCase struct {
	users     interfaces.IUserRepository
	variants  interfaces.IVariantRepository
	orders    interfaces.IOrderRepository
	payments  interfaces.IPaymentRepository
	gateways  interfaces.IPaymentGatewayResolver
	publisher interfaces.IOrderEventPublisher
	dedup     interfaces.IWebhookDeduplicator
	metrics   interfaces.ICheckoutMetrics
	currency  string
	now       func() time.Time
	newID     func() string
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

type CheckoutOption func(*CheckoutUseCase)

func WithEventPublisher(p interfaces.IOrderEventPublisher) CheckoutOption {
	return func(u *CheckoutUseCase) {
		if p != nil {
			u.publisher = p
		}
	}
}

func WithWebhookDeduplicator(d interfaces.IWebhookDeduplicator) CheckoutOption {
	return func(u *CheckoutUseCase) {
		if d != nil {
			u.dedup = d
		}
	}
}

func WithMetrics(m interfaces.ICheckoutMetrics) CheckoutOption {
	return func(u *CheckoutUseCase) {
		if m != nil {
			u.metrics = m
		}
	}
}

func WithCurrency(currency string) CheckoutOption {
	return func(u *CheckoutUseCase) {
		if currency != "" {
			u.currency = strings.ToUpper(currency)
		}
	}
}

func WithClock(now func() time.Time) CheckoutOption {
	return func(u *CheckoutUseCase) { u.now = now }
}

func WithIDGenerator(newID func() string) CheckoutOption {
	return func(u *CheckoutUseCase) { u.newID = newID }
}

func NewCheckoutUseCase(
	users interfaces.IUserRepository,
	variants interfaces.IVariantRepository,
	orders interfaces.IOrderRepository,
	payments interfaces.IPaymentRepository,
	gateways interfaces.IPaymentGatewayResolver,
	opts ...CheckoutOption,
) *CheckoutUseCase {
	u := &CheckoutUseCase{
		users:     users,
		variants:  variants,
		orders:    orders,
		payments:  payments,
		gateways:  gateways,
		publisher: noopPublisher{},
		dedup:     noopDeduplicator{},
		metrics:   noopMetrics{},
		currency:  "PEN",
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *CheckoutUseCase) CreateCheckout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	log.Printf("[checkout][usecase] create start user=%q items=%d", in.UserID, len(in.Items))
	provider := in.Provider

	res, err := u.createCheckout(ctx, in)
	if err != nil {
		if provider == "" && u.gateways != nil {
			provider = string(u.gateways.DefaultProvider())
		}
		u.metrics.CheckoutCompleted(provider, checkoutOutcome(err))
		return CheckoutResult{}, err
	}
	u.metrics.CheckoutCompleted(string(res.Payment.Provider), "created")
	log.Printf("[checkout][usecase] create success order_id=%s payment_id=%s provider=%s total=%s", res.Order.ID, res.Payment.ID, res.Payment.Provider, res.Order.Total.StringFixed(2))
	return res, nil
}

func (u *CheckoutUseCase) createCheckout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	if err := validateCheckoutInput(in); err != nil {
		log.Printf("[checkout][usecase] invalid input err=%v", err)
		return CheckoutResult{}, err
	}
	items := mergeItems(in.Items)

	user, err := u.resolveUser(ctx, in.UserID)
	if err != nil {
		log.Printf("[checkout][usecase] failed resolving user user=%q err=%v", in.UserID, err)
		return CheckoutResult{}, err
	}
	if user.ID == "" {
		log.Printf("[checkout][usecase] user not found user=%q", in.UserID)
		return CheckoutResult{}, ErrUserNotFound
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VariantID)
	}
	variants, err := u.variants.GetByIDs(ctx, ids)
	if err != nil {
		log.Printf("[checkout][usecase] failed loading variants count=%d err=%v", len(ids), err)
		return CheckoutResult{}, err
	}
	byID := make(map[string]entities.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}
	if len(variants) != len(ids) || len(byID) != len(ids) {
		log.Printf("[checkout][usecase] variants not found requested=%d found=%d", len(ids), len(byID))
		return CheckoutResult{}, ErrVariantNotFound
	}

	lines := make([]entities.OrderItem, 0, len(items))
	prefItems := make([]entities.PreferenceItem, 0, len(items))
	for _, it := range items {
		v, ok := byID[it.VariantID]
		if !ok || v.Product.ID == "" {
			log.Printf("[checkout][usecase] variant without product variant_id=%s", it.VariantID)
			return CheckoutResult{}, ErrVariantNotFound
		}
		if v.Stock < it.Quantity {
			log.Printf("[checkout][usecase] insufficient stock variant_id=%s available=%d requested=%d", v.ID, v.Stock, it.Quantity)
			return CheckoutResult{}, &InsufficientStockError{
				VariantID:   v.ID,
				ProductName: v.Product.Name,
				Color:       v.Color,
				Available:   v.Stock,
				Requested:   it.Quantity,
			}
		}
		unit := v.Product.Price
		lines = append(lines, entities.OrderItem{
			VariantID:  v.ID,
			Quantity:   it.Quantity,
			UnitPrice:  unit,
			TotalPrice: unit.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
		prefItems = append(prefItems, entities.PreferenceItem{
			Title:     v.Product.Name + " - " + v.Color,
			Quantity:  it.Quantity,
			UnitPrice: unit,
		})
	}

	gateway, err := u.gateways.GetGateway(in.Provider)
	if err != nil {
		log.Printf("[checkout][usecase] gateway not available provider=%q err=%v", in.Provider, err)
		return CheckoutResult{}, err
	}

	subtotal, tax, total := ComputeTotals(lines, in.ShippingCost)
	now := u.now().UTC()
	order := entities.Order{
		ID:           u.newID(),
		UserID:       user.ID,
		Status:       entities.OrderStatusPending,
		Subtotal:     subtotal,
		ShippingCost: in.ShippingCost,
		Tax:          tax,
		Total:        total,
		Items:        lines,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := u.orders.Create(ctx, order)
	if err != nil {
		log.Printf("[checkout][usecase] order create failed order_id=%s err=%v", order.ID, err)
		return CheckoutResult{}, err
	}
	log.Printf("[checkout][usecase] order persisted order_id=%s subtotal=%s tax=%s total=%s", created.ID, subtotal.StringFixed(2), tax.StringFixed(2), total.StringFixed(2))

	pref, err := gateway.CreatePreference(ctx, entities.PreferenceRequest{
		OrderID:     created.ID,
		Amount:      total,
		Currency:    u.currency,
		Description: "Orden #" + shortID(created.ID),
		Payer: entities.Payer{
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Phone:     user.Phone,
		},
		Items:    prefItems,
		BackURLs: in.BackURLs,
	})
	if err != nil {
		// The order stays PENDING without a payment; the reconciliation worker cancels it.
		log.Printf("[checkout][usecase] preference failed order_id=%s provider=%s err=%v", created.ID, gateway.Provider(), err)
		return CheckoutResult{}, asProviderError(gateway.Provider(), err)
	}

	p := entities.Payment{
		ID:         u.newID(),
		OrderID:    created.ID,
		Provider:   gateway.Provider(),
		Status:     entities.PaymentStatusPending,
		Amount:     total,
		Currency:   u.currency,
		ExternalID: pref.ExternalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	payment, err := u.payments.CreateForOrder(ctx, p)
	if err != nil {
		log.Printf("[checkout][usecase] payment create failed order_id=%s external_id=%s err=%v", created.ID, pref.ExternalID, err)
		return CheckoutResult{}, err
	}
	created.PaymentID = payment.ID

	return CheckoutResult{Order: created, Payment: payment, CheckoutURL: pref.InitPoint}, nil
}

func (u *CheckoutUseCase) GetOrder(ctx context.Context, orderID, requester string) (OrderDetails, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return OrderDetails{}, ErrOrderNotFound
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		log.Printf("[checkout][usecase] get order failed order_id=%s err=%v", orderID, err)
		return OrderDetails{}, err
	}
	if order.ID == "" {
		return OrderDetails{}, ErrOrderNotFound
	}

	var owner entities.User
	if strings.TrimSpace(requester) != "" {
		owner, err = u.resolveUser(ctx, requester)
		if err != nil {
			return OrderDetails{}, err
		}
		if owner.ID == "" || owner.ID != order.UserID {
			log.Printf("[checkout][usecase] order not owned order_id=%s requester=%q", orderID, requester)
			return OrderDetails{}, ErrOrderNotFound
		}
	} else {
		owner, err = u.users.GetByID(ctx, order.UserID)
		if err != nil {
			return OrderDetails{}, err
		}
	}

	ids := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		ids = append(ids, it.VariantID)
	}
	variants := map[string]entities.Variant{}
	if len(ids) > 0 {
		loaded, err := u.variants.GetByIDs(ctx, ids)
		if err != nil {
			return OrderDetails{}, err
		}
		for _, v := range loaded {
			variants[v.ID] = v
		}
	}

	details := OrderDetails{Order: order, User: owner, Variants: variants}
	p, err := u.payments.GetByOrderID(ctx, order.ID)
	if err != nil {
		return OrderDetails{}, err
	}
	if p.ID != "" {
		details.Payment = &p
	}
	return details, nil
}

// resolveUser looks the requester up by id, falling back to email.
func (u *CheckoutUseCase) resolveUser(ctx context.Context, requester string) (entities.User, error) {
	requester = strings.TrimSpace(requester)
	user, err := u.users.GetByID(ctx, requester)
	if err != nil {
		return entities.User{}, err
	}
	if user.ID == "" && strings.Contains(requester, "@") {
		return u.users.GetByEmail(ctx, strings.ToLower(requester))
	}
	return user, nil
}

// ComputeTotals returns subtotal, 18% IGV (rounded to cents) and total.
func ComputeTotals(items []entities.OrderItem, shipping decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	tax = subtotal.Mul(entities.TaxRate).Round(2)
	total = subtotal.Add(shipping).Add(tax)
	return subtotal, tax, total
}

func validateCheckoutInput(in CheckoutInput) error {
	var fields []FieldViolation
	if strings.TrimSpace(in.UserID) == "" {
		fields = append(fields, FieldViolation{Field: "userId", Message: "userId is required"})
	}
	if len(in.Items) == 0 {
		fields = append(fields, FieldViolation{Field: "items", Message: "at least one item is required"})
	}
	merged := make(map[string]int, len(in.Items))
	for i, it := range in.Items {
		id := strings.TrimSpace(it.VariantID)
		if id == "" {
			fields = append(fields, FieldViolation{Field: itemField(i, "variantId"), Message: "variantId is required"})
		}
		switch {
		case it.Quantity <= 0:
			fields = append(fields, FieldViolation{Field: itemField(i, "quantity"), Message: "quantity must be greater than 0"})
		case it.Quantity > MaxItemQuantity:
			fields = append(fields, FieldViolation{Field: itemField(i, "quantity"), Message: quantityLimitMessage})
		case id != "":
			// both operands are within (0, MaxItemQuantity], so the sum cannot wrap
			if merged[id]+it.Quantity > MaxItemQuantity {
				fields = append(fields, FieldViolation{Field: itemField(i, "quantity"), Message: quantityLimitMessage})
				continue
			}
			merged[id] += it.Quantity
		}
	}
	switch {
	case in.ShippingCost.IsNegative():
		fields = append(fields, FieldViolation{Field: "shippingCost", Message: "shippingCost must be greater than or equal to 0"})
	case !in.ShippingCost.Equal(in.ShippingCost.Round(2)):
		fields = append(fields, FieldViolation{Field: "shippingCost", Message: "shippingCost must have at most 2 decimal places"})
	}
	if in.BackURLs != nil {
		backURLs := []struct{ name, raw string }{
			{"success", in.BackURLs.Success},
			{"failure", in.BackURLs.Failure},
			{"pending", in.BackURLs.Pending},
		}
		for _, b := range backURLs {
			if !isAbsoluteURL(b.raw) {
				fields = append(fields, FieldViolation{Field: "backUrls." + b.name, Message: b.name + " must be a valid URL"})
			}
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// MaxItemQuantity bounds the quantity of one variant in an order, after
// repeated lines are merged.
const MaxItemQuantity = 999

var quantityLimitMessage = "quantity must be less than or equal to " + strconv.Itoa(MaxItemQuantity)

// mergeItems sums quantities of repeated variants, keeping first-seen order.
func mergeItems(items []CheckoutItemInput) []CheckoutItemInput {
	out := make([]CheckoutItemInput, 0, len(items))
	pos := make(map[string]int, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.VariantID)
		if i, ok := pos[id]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[id] = len(out)
		out = append(out, CheckoutItemInput{VariantID: id, Quantity: it.Quantity})
	}
	return out
}

func itemField(i int, name string) string {
	return "items." + strconv.Itoa(i) + "." + name
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func asProviderError(provider entities.PaymentProvider, err error) error {
	var pe *entities.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &entities.ProviderError{Provider: provider, Op: "create preference", Err: err}
}

func checkoutOutcome(err error) string {
	var stock *InsufficientStockError
	switch {
	case errors.Is(err, ErrInvalidCheckoutInput):
		return "validation_error"
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrVariantNotFound):
		return "variant_not_found"
	case errors.As(err, &stock):
		return "insufficient_stock"
	case errors.Is(err, entities.ErrProviderFailure):
		return "provider_error"
	default:
		return "error"
	}
}
