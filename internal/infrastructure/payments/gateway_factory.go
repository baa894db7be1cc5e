package payments

import (
	"errors"
	"fmt"
	"log"
	"time"

	"motostore/internal/config"
	"motostore/internal/domain/entities"
	"motostore/internal/usecase/interfaces"
)

const (
	defaultGatewayTimeout = 10 * time.Second
	defaultCurrency       = "PEN"
)

var ErrPaymentConfiguration = errors.New("payment gateway configuration error")

// ConfigurationError reports an unknown or unconfigured provider.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("payment provider %q: %s", e.Provider, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrPaymentConfiguration }

// GatewayFactory resolves a gateway by provider name. The set of gateways is
// built once and never mutated, so GetGateway is safe for concurrent use.
type GatewayFactory struct {
	defaultProvider entities.PaymentProvider
	gateways        map[entities.PaymentProvider]interfaces.IPaymentGateway
}

var _ interfaces.IPaymentGatewayResolver = (*GatewayFactory)(nil)

// NewGatewayFactory builds every gateway whose credentials are present.
// The default provider must be among them.
func NewGatewayFactory(cfg *config.Config) (*GatewayFactory, error) {
	gateways := []interfaces.IPaymentGateway{
		NewDemoGateway(cfg.Payment.StoreBaseURL, cfg.Payment.Currency),
	}

	if cfg.MercadoPago.AccessToken != "" {
		mp, err := NewMercadoPagoGateway(MercadoPagoOptions{
			AccessToken:   cfg.MercadoPago.AccessToken,
			WebhookSecret: cfg.MercadoPago.WebhookSecret,
			StoreBaseURL:  cfg.Payment.StoreBaseURL,
			APIBaseURL:    cfg.Payment.APIBaseURL,
			Currency:      cfg.Payment.Currency,
			Timeout:       cfg.Payment.GatewayTimeout,
		})
		if err != nil {
			return nil, err
		}
		gateways = append(gateways, mp)
	}

	if cfg.Culqi.SecretKey != "" {
		gateways = append(gateways, NewCulqiGateway(CulqiOptions{
			PublicKey:     cfg.Culqi.PublicKey,
			SecretKey:     cfg.Culqi.SecretKey,
			WebhookSecret: cfg.Culqi.WebhookSecret,
			BaseURL:       cfg.Culqi.APIBaseURL,
			APIBaseURL:    cfg.Payment.APIBaseURL,
			Currency:      cfg.Payment.Currency,
			Timeout:       cfg.Payment.GatewayTimeout,
		}))
	}

	return NewGatewayFactoryWith(cfg.Payment.Provider, gateways...)
}

// NewGatewayFactoryWith builds a factory from ready gateways.
func NewGatewayFactoryWith(defaultProvider string, gateways ...interfaces.IPaymentGateway) (*GatewayFactory, error) {
	def, ok := entities.ParsePaymentProvider(defaultProvider)
	if !ok {
		return nil, &ConfigurationError{Provider: defaultProvider, Reason: "unsupported provider"}
	}

	f := &GatewayFactory{
		defaultProvider: def,
		gateways:        make(map[entities.PaymentProvider]interfaces.IPaymentGateway, len(gateways)),
	}
	for _, g := range gateways {
		f.gateways[g.Provider()] = g
	}
	if _, ok := f.gateways[def]; !ok {
		return nil, &ConfigurationError{Provider: string(def), Reason: "default provider is not configured"}
	}
	log.Printf("[payment][factory] default_provider=%s configured=%d", def, len(f.gateways))
	return f, nil
}

func (f *GatewayFactory) DefaultProvider() entities.PaymentProvider {
	return f.defaultProvider
}

// GetGateway returns the gateway for provider, or the default one when provider is empty.
func (f *GatewayFactory) GetGateway(provider string) (interfaces.IPaymentGateway, error) {
	p := f.defaultProvider
	if provider != "" {
		parsed, ok := entities.ParsePaymentProvider(provider)
		if !ok {
			return nil, &ConfigurationError{Provider: provider, Reason: "unsupported provider"}
		}
		p = parsed
	}
	g, ok := f.gateways[p]
	if !ok {
		return nil, &ConfigurationError{Provider: string(p), Reason: "provider is not configured"}
	}
	return g, nil
}
