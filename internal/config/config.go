// Package config loads the service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderMercadoPago = "MERCADOPAGO"
	ProviderCulqi       = "CULQI"
	ProviderDemo        = "DEMO"
)

// Config holds all configuration for the service.
type Config struct {
	Server         ServerConfig
	Payment        PaymentConfig
	MercadoPago    MercadoPagoConfig
	Culqi          CulqiConfig
	DynamoDB       DynamoDBConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	Reconciliation ReconciliationConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

// PaymentConfig holds the provider-agnostic payment settings.
type PaymentConfig struct {
	Provider       string
	Currency       string
	GatewayTimeout time.Duration
	// APIBaseURL is the externally reachable URL of this service (notification URLs).
	APIBaseURL string
	// StoreBaseURL is the storefront URL (buyer redirects).
	StoreBaseURL string
}

type MercadoPagoConfig struct {
	AccessToken   string
	WebhookSecret string
}

type CulqiConfig struct {
	PublicKey     string
	SecretKey     string
	WebhookSecret string
	APIBaseURL    string
}

type DynamoDBConfig struct {
	Region        string
	Endpoint      string
	AutoMigrate   bool
	UsersTable    string
	ProductsTable string
	VariantsTable string
	OrdersTable   string
	PaymentsTable string
}

// RedisConfig is optional; an empty Addr disables webhook deduplication.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	DedupTTL time.Duration
}

// KafkaConfig is optional; no brokers disables order event publishing.
type KafkaConfig struct {
	Brokers []string
}

type ReconciliationConfig struct {
	Interval       time.Duration
	OrphanOrderTTL time.Duration
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Payment: PaymentConfig{
			Provider:       strings.ToUpper(strings.TrimSpace(getEnv("PAYMENT_PROVIDER", ProviderDemo))),
			Currency:       strings.ToUpper(getEnv("PAYMENT_CURRENCY", "PEN")),
			GatewayTimeout: getEnvDuration("PAYMENT_GATEWAY_TIMEOUT", 10*time.Second),
			APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", os.Getenv("NEXT_PUBLIC_API_BASE")), "/"),
			StoreBaseURL:   strings.TrimRight(getEnv("STORE_BASE_URL", ""), "/"),
		},
		MercadoPago: MercadoPagoConfig{
			AccessToken:   getEnv("MERCADOPAGO_ACCESS_TOKEN", ""),
			WebhookSecret: getEnv("MERCADOPAGO_WEBHOOK_SECRET", ""),
		},
		Culqi: CulqiConfig{
			PublicKey:     getEnv("CULQI_PUBLIC_KEY", ""),
			SecretKey:     getEnv("CULQI_SECRET_KEY", ""),
			WebhookSecret: getEnv("CULQI_WEBHOOK_SECRET", ""),
			APIBaseURL:    strings.TrimRight(getEnv("CULQI_API_BASE_URL", "https://api.culqi.com/v2"), "/"),
		},
		DynamoDB: DynamoDBConfig{
			Region:        getEnv("AWS_REGION", "us-east-1"),
			Endpoint:      getEnv("DYNAMODB_ENDPOINT", ""),
			AutoMigrate:   getEnvBool("DYNAMODB_AUTO_MIGRATE", false),
			UsersTable:    getEnv("USERS_TABLE", "users"),
			ProductsTable: getEnv("PRODUCTS_TABLE", "products"),
			VariantsTable: getEnv("VARIANTS_TABLE", "variants"),
			OrdersTable:   getEnv("ORDERS_TABLE", "orders"),
			PaymentsTable: getEnv("PAYMENTS_TABLE", "payments"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			DedupTTL: getEnvDuration("WEBHOOK_DEDUP_TTL", 48*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
		},
		Reconciliation: ReconciliationConfig{
			Interval:       getEnvDuration("RECONCILIATION_INTERVAL", time.Minute),
			OrphanOrderTTL: getEnvDuration("ORPHAN_ORDER_TTL", 30*time.Minute),
		},
	}
}

// Validate fails fast when the selected provider is missing credentials or URLs.
func (c *Config) Validate() error {
	var errs []error

	switch c.Payment.Provider {
	case ProviderMercadoPago:
		errs = append(errs,
			required("MERCADOPAGO_ACCESS_TOKEN", c.MercadoPago.AccessToken),
			required("MERCADOPAGO_WEBHOOK_SECRET", c.MercadoPago.WebhookSecret),
			absoluteURL("STORE_BASE_URL", c.Payment.StoreBaseURL),
			absoluteURL("API_BASE_URL", c.Payment.APIBaseURL),
		)
	case ProviderCulqi:
		errs = append(errs,
			required("CULQI_PUBLIC_KEY", c.Culqi.PublicKey),
			required("CULQI_SECRET_KEY", c.Culqi.SecretKey),
			required("CULQI_WEBHOOK_SECRET", c.Culqi.WebhookSecret),
			absoluteURL("API_BASE_URL", c.Payment.APIBaseURL),
			absoluteURL("CULQI_API_BASE_URL", c.Culqi.APIBaseURL),
		)
	case ProviderDemo:
		if c.Payment.StoreBaseURL != "" {
			errs = append(errs, absoluteURL("STORE_BASE_URL", c.Payment.StoreBaseURL))
		}
	default:
		errs = append(errs, fmt.Errorf("PAYMENT_PROVIDER %q is not supported (MERCADOPAGO, CULQI, DEMO)", c.Payment.Provider))
	}

	if c.Payment.GatewayTimeout <= 0 {
		errs = append(errs, errors.New("PAYMENT_GATEWAY_TIMEOUT must be positive"))
	}
	if c.Reconciliation.Interval <= 0 {
		errs = append(errs, errors.New("RECONCILIATION_INTERVAL must be positive"))
	}
	if c.Reconciliation.OrphanOrderTTL <= 0 {
		errs = append(errs, errors.New("ORPHAN_ORDER_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func required(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", key)
	}
	return nil
}

func absoluteURL(key, value string) error {
	if err := required(key, value); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL", key)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
