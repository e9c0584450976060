package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurastore/backend/order/internal/dal/jwtverify"
	"github.com/aurastore/backend/order/internal/dal/postgres"
	"github.com/aurastore/backend/order/internal/dal/rabbitmq"
	"github.com/aurastore/backend/order/internal/dal/repositories/notification"
	"github.com/aurastore/backend/order/internal/jaeger"
	"github.com/aurastore/backend/order/internal/service/services/identsvc"
	"github.com/aurastore/backend/order/internal/service/services/ordersvc"
	httptransport "github.com/aurastore/backend/order/internal/transport/http"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	identitySvc    *identsvc.IdentityService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	dispatcher     *notification.Dispatcher
	tracerProvider *sdktrace.TracerProvider
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	tracerProvider := setupTracing()

	postgresClient := postgres.MustNewClient()

	// The mailer is optional: without a configured broker, order
	// notifications are a silent no-op.
	var rabbitClient *rabbitmq.Client
	var dispatcher *notification.Dispatcher
	if os.Getenv("RABBITMQ_HOST") != "" {
		client, err := rabbitmq.NewClient()
		if err != nil {
			slog.Warn("Mailer broker unavailable, order notifications disabled", "error", err)
		} else {
			rabbitClient = client
			dispatcher, err = notification.NewDispatcher(client)
			if err != nil {
				slog.Warn("Failed to set up notification dispatcher, order notifications disabled", "error", err)
				dispatcher = nil
			}
		}
	} else {
		slog.Info("Mailer not configured, order notifications disabled")
	}

	verifier := jwtverify.NewVerifier(os.Getenv("JWT_SECRET"))

	identitySvc := identsvc.MustNewIdentityService(
		identsvc.WithPostgresClient(postgresClient),
		identsvc.WithVerifier(verifier),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithNotifier(dispatcher),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, identitySvc)
	transport.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		identitySvc:    identitySvc,
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		dispatcher:     dispatcher,
		tracerProvider: tracerProvider,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.dispatcher.Close(ctx); err != nil {
		slog.Warn("Notification dispatcher drain interrupted", "error", err)
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			slog.Error("Tracer provider shutdown error", "error", err)
		}
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	slog.Info("Application shutdown complete")
}

func setupTracing() *sdktrace.TracerProvider {
	if viper.GetString("jaeger.endpoint") == "" {
		return nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(jaeger.MustNewJaeger()),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("order-svc"),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp
}
