package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "cervejaria_storefront/docs"
	"cervejaria_storefront/internal/adapter/http/handlers"
	repository2 "cervejaria_storefront/internal/adapter/persistence/repository"
	"cervejaria_storefront/internal/config"
	"cervejaria_storefront/internal/infrastructure/backend"
	"cervejaria_storefront/internal/infrastructure/database"
	"cervejaria_storefront/internal/infrastructure/events"
	"cervejaria_storefront/internal/infrastructure/payments"
	"cervejaria_storefront/internal/infrastructure/telemetry"
	"cervejaria_storefront/internal/usecase"
	"cervejaria_storefront/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var router = gin.Default()

// Run will start the server and block until SIGINT or SIGTERM.
func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.OTelEnabled, cfg.OTelEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	setMiddlewares(cfg.ServiceName)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	app, err := getRoutes(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to wire the application: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[http] listening port=%s provider=%s", cfg.HTTPPort, cfg.PixProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("[http] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		app.close()
		return errors.Join(err, shutdownTelemetry(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Failed to startup the application: %v", err)
	}
}

// application holds what must be released on shutdown.
type application struct {
	sessions  *usecase.PixSessionUseCase
	publisher *events.KafkaPaymentEventPublisher
}

func (a *application) close() {
	a.sessions.Shutdown()
	if err := a.publisher.Close(); err != nil {
		log.Printf("[kafka] close failed err=%v", err)
	}
}

func getRoutes(ctx context.Context, cfg *config.Config) (*application, error) {
	storefront := backend.NewStorefrontClient(cfg.StorefrontAPIURL, cfg.BackendTimeout)

	provider, err := newPixProvider(cfg, storefront)
	if err != nil {
		return nil, err
	}

	// Nil interfaces, not typed nils, when the optional sinks are off.
	var attempts interfaces.IPaymentAttemptRepository
	if cfg.LedgerEnabled {
		ddb, err := database.ConnectDynamoDB(ctx)
		if err != nil {
			return nil, err
		}
		if err := database.EnsurePaymentAttemptsTable(ctx, ddb, cfg.PaymentAttemptsTable); err != nil {
			return nil, err
		}
		attempts = repository2.NewPaymentAttemptDynamoRepository(ddb, cfg.PaymentAttemptsTable)
		log.Printf("[ledger] enabled table=%s", cfg.PaymentAttemptsTable)
	}

	var publisher interfaces.IPaymentEventPublisher
	kafkaPublisher := events.NewKafkaPaymentEventPublisher(cfg.KafkaBrokersList(), cfg.PaymentEventsTopic)
	if kafkaPublisher != nil {
		publisher = kafkaPublisher
		log.Printf("[kafka] publishing topic=%s", cfg.PaymentEventsTopic)
	}

	checkoutUseCase := usecase.NewCheckoutUseCase(storefront)
	sessionUseCase := usecase.NewPixSessionUseCase(provider, storefront, attempts, publisher, usecase.PixSessionConfig{
		PollInterval:   cfg.PollInterval,
		TickInterval:   cfg.TickInterval,
		FallbackWindow: cfg.FallbackWindow,
		RetainTerminal: cfg.RetainTerminal,
	})

	checkoutHandler := handlers.NewCheckoutHandler(checkoutUseCase, sessionUseCase)
	pixSessionHandler := handlers.NewPixSessionHandler(sessionUseCase)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addStorefrontRoutes(v1, checkoutHandler, pixSessionHandler)

	return &application{sessions: sessionUseCase, publisher: kafkaPublisher}, nil
}

// newPixProvider picks who generates and confirms the PIX charge. Orders
// are always created on the storefront backend.
func newPixProvider(cfg *config.Config, storefront *backend.StorefrontClient) (interfaces.IPixProvider, error) {
	if cfg.PixProvider != config.ProviderMercadoPago {
		return storefront, nil
	}
	mp, err := payments.NewMercadoPagoPixProvider(cfg.MercadoPagoAccessToken, cfg.MercadoPagoPayerEmail)
	if err != nil {
		return nil, err
	}
	log.Printf("[pix] using Mercado Pago provider")
	return mp, nil
}

func setMiddlewares(serviceName string) {
	router.Use(otelgin.Middleware(serviceName))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}
