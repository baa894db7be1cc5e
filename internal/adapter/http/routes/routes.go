package routes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "motostore/docs" // swag registration
	"motostore/internal/adapter/http/handlers"
	"motostore/internal/adapter/persistence/repository"
	"motostore/internal/config"
	"motostore/internal/infrastructure/cache"
	"motostore/internal/infrastructure/database"
	"motostore/internal/infrastructure/messaging"
	"motostore/internal/infrastructure/metrics"
	"motostore/internal/infrastructure/payments"
	"motostore/internal/usecase"
	"motostore/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP API plus the reconciliation worker.
type Server struct {
	httpServer *http.Server
	worker     *worker.ReconciliationWorker
	closers    []func() error
}

// NewServer wires every dependency from cfg. Redis, Kafka and metrics are
// optional and fall back to no-ops when not configured.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	setMiddlewares(router, cfg.Server.AllowedOrigins)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s := &Server{}
	checkoutUseCase, err := s.buildCheckoutUseCase(ctx, cfg)
	if err != nil {
		s.close()
		return nil, err
	}

	getRoutes(router, cfg, checkoutUseCase)

	s.worker = worker.NewReconciliationWorker(checkoutUseCase, cfg.Reconciliation.Interval, cfg.Reconciliation.OrphanOrderTTL)
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) buildCheckoutUseCase(ctx context.Context, cfg *config.Config) (*usecase.CheckoutUseCase, error) {
	ddb := database.ConnectDynamoDB(ctx, cfg.DynamoDB)
	tables := database.TablesFromConfig(cfg.DynamoDB)

	userRepo := repository.NewUserDynamoRepository(ddb, tables)
	variantRepo := repository.NewVariantDynamoRepository(ddb, tables)
	orderRepo := repository.NewOrderDynamoRepository(ddb, tables)
	paymentRepo := repository.NewPaymentDynamoRepository(ddb, tables)

	gateways, err := payments.NewGatewayFactory(cfg)
	if err != nil {
		return nil, fmt.Errorf("payment gateways: %w", err)
	}

	opts := []usecase.CheckoutOption{
		usecase.WithCurrency(cfg.Payment.Currency),
		usecase.WithMetrics(metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)),
	}

	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		s.closers = append(s.closers, rdb.Close)
		opts = append(opts, usecase.WithWebhookDeduplicator(cache.NewWebhookDeduplicator(rdb, cfg.Redis.DedupTTL)))
		log.Printf("[config] webhook deduplication enabled addr=%s", cfg.Redis.Addr)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := messaging.NewOrderEventPublisher(cfg.Kafka.Brokers)
		s.closers = append(s.closers, publisher.Close)
		opts = append(opts, usecase.WithEventPublisher(publisher))
		log.Printf("[config] order events enabled brokers=%v", cfg.Kafka.Brokers)
	}

	return usecase.NewCheckoutUseCase(userRepo, variantRepo, orderRepo, paymentRepo, gateways, opts...), nil
}

func getRoutes(router *gin.Engine, cfg *config.Config, checkoutUseCase usecase.ICheckoutUseCase) {
	checkoutHandler := handlers.NewCheckoutHandler(checkoutUseCase)
	webhookHandler := handlers.NewWebhookHandler(checkoutUseCase)
	paymentConfigHandler := handlers.NewPaymentConfigHandler(cfg.Payment.Provider, cfg.Payment.Currency, publicKey(cfg))

	addHealthRoutes(router)

	api := router.Group("/api")
	addCheckoutRoutes(api, checkoutHandler)
	addWebhookRoutes(api, webhookHandler, cfg.Payment.Provider == config.ProviderDemo)
	addPaymentRoutes(api, paymentConfigHandler)
}

// publicKey is the browser-side key of the default provider, if it has one.
func publicKey(cfg *config.Config) string {
	if cfg.Payment.Provider == config.ProviderCulqi {
		return cfg.Culqi.PublicKey
	}
	return ""
}

func setMiddlewares(router *gin.Engine, allowedOrigins []string) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// Run serves HTTP and runs the worker until ctx is cancelled, then shuts
// both down gracefully.
func (s *Server) Run(ctx context.Context) error {
	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		s.worker.Run(workerCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[config] http listening addr=%s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Printf("[config] shutting down")
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("failed to startup the application: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("http shutdown: %w", err))
	}

	stopWorker()
	<-workerDone
	s.close()
	return runErr
}

func (s *Server) close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			log.Printf("[config] close failed err=%v", err)
		}
	}
}
