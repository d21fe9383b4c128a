package consumer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/sfelinto/orderms/internal/dal/rabbitmq"
	"github.com/sfelinto/orderms/internal/metrics"
	"github.com/sfelinto/orderms/internal/service/models/order"
)

// maxInFlight bounds how many deliveries are processed concurrently.
// Messages are independent (disjoint order ids), so no ordering is needed.
const maxInFlight = 50

// service represents the service layer interface.
type service interface {
	ProcessOrderCreated(ctx context.Context, payload []byte) error
}

// Consumer represents the RabbitMQ consumer transport for order-created
// events.
type Consumer struct {
	client  *rabbitmq.Client
	service service
	metrics *metrics.ConsumerMetrics
	queue   amqp.Queue
	stop    chan struct{}
	done    chan struct{}
}

// NewConsumer creates a new Consumer and declares the order-created queue.
func NewConsumer(client *rabbitmq.Client, service service, m *metrics.ConsumerMetrics) *Consumer {
	queueName := viper.GetString("rabbitmq.queue")
	if queueName == "" {
		panic("rabbitmq.queue is not set in config")
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    true,
		AutoDelete: false,
		Exclusive:  false,
		NoWait:     false,
	})
	if err != nil {
		panic(err)
	}

	return &Consumer{
		client:  client,
		service: service,
		metrics: m,
		queue:   queue,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run starts consuming messages from RabbitMQ.
func (c *Consumer) Run(ctx context.Context) error {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "orderms"
	}

	msgs, err := c.client.Consume(rabbitmq.ConsumeConfig{
		Queue:     c.queue.Name,
		Consumer:  consumerTag,
		AutoAck:   false,
		Exclusive: false,
		NoLocal:   false,
		NoWait:    false,
	})
	if err != nil {
		return err
	}

	slog.Info("Consumer started", "queue", c.queue.Name, "consumer_tag", consumerTag)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)

	go func() {
		for {
			select {
			case <-c.stop:
				slog.Info("Stopping consumer")
				close(c.done)

				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Info("Message channel closed")
					close(c.done)

					return
				}

				g.Go(func() error {
					c.processMessage(gctx, msg)

					return nil
				})
			}
		}
	}()

	<-c.done
	if err := g.Wait(); err != nil {
		slog.Error("Error processing messages", "error", err)
	}

	return nil
}

// processMessage handles a single delivery. Malformed payloads are rejected
// without requeue so the broker's dead-letter policy takes over; store
// failures are requeued for redelivery.
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	ctx, span := otel.Tracer("consumer").Start(ctx, "Consumer.processMessage")
	defer span.End()

	start := time.Now()
	slog.Info("Received message", "delivery_tag", msg.DeliveryTag)

	err := c.service.ProcessOrderCreated(ctx, msg.Body)
	if err != nil {
		if errors.Is(err, order.ErrInvalidEvent) {
			slog.Error("Rejecting malformed message", "error", err, "delivery_tag", msg.DeliveryTag)
			c.metrics.ObserveMessage(metrics.MessageOutcomeRejected, time.Since(start))
			if err := msg.Nack(false, false); err != nil {
				slog.Error("Failed to nack message", "error", err)
			}

			return
		}

		slog.Error("Requeueing message after processing failure",
			"error", err, "delivery_tag", msg.DeliveryTag)
		c.metrics.ObserveMessage(metrics.MessageOutcomeRequeued, time.Since(start))
		if err := msg.Nack(false, true); err != nil {
			slog.Error("Failed to nack message", "error", err)
		}

		return
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("Failed to ack message", "error", err)

		return
	}

	c.metrics.ObserveMessage(metrics.MessageOutcomeProcessed, time.Since(start))
	slog.Info("Message processed successfully", "delivery_tag", msg.DeliveryTag)
}

// Shutdown gracefully shuts down the consumer.
func (c *Consumer) Shutdown() error {
	slog.Info("Shutting down consumer")
	close(c.stop)

	// Wait for processing to finish with timeout
	select {
	case <-c.done:
		slog.Info("Consumer stopped successfully")
	case <-time.After(10 * time.Second):
		slog.Warn("Consumer shutdown timeout")
	}

	return nil
}
