package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sfelinto/orderms/internal/dal/postgres"
	"github.com/sfelinto/orderms/internal/dal/rabbitmq"
	orderrepo "github.com/sfelinto/orderms/internal/dal/repositories/order/postgres"
	"github.com/sfelinto/orderms/internal/metrics"
	"github.com/sfelinto/orderms/internal/otel"
	"github.com/sfelinto/orderms/internal/service/services/ordersvc"
	"github.com/sfelinto/orderms/internal/transport/consumer"
	httptransport "github.com/sfelinto/orderms/internal/transport/http"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	consumerTransp *consumer.Consumer
	httpTransp     *httptransport.HTTPTransport
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	rabbitMqClient := rabbitmq.MustNewClient()
	postgresClient := postgres.MustNewClient()

	orderRepository := orderrepo.NewOrderRepository(postgresClient)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepository),
	)

	consumerTransp := consumer.NewConsumer(rabbitMqClient, orderSvc, metrics.NewConsumerMetrics())

	httpTransp := httptransport.NewHTTPTransport(orderSvc, metrics.NewServerMetrics())
	httpTransp.RegisterRoutes()

	return &App{
		orderSvc:       orderSvc,
		consumerTransp: consumerTransp,
		httpTransp:     httpTransp,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting consumer")
		if err := a.consumerTransp.Run(ctx); err != nil {
			slog.Error("Consumer error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.httpTransp.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops the consumer first so no new messages arrive, then
// the HTTP server, then closes the broker, database and tracing clients.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.consumerTransp.Shutdown(); err != nil {
		slog.Error("Consumer shutdown error", "error", err)
	} else {
		slog.Info("Consumer stopped gracefully")
	}

	if err := a.httpTransp.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider close error", "error", err)
	} else {
		slog.Info("Otel trace provider closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
