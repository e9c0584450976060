package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aurastore/backend/order/internal/dal/rabbitmq"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

// emailMessage is the payload the external mailer consumes off the
// queue: contract send(to, subject, htmlBody). ID lets the consumer
// deduplicate should the broker redeliver.
type emailMessage struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Dispatcher publishes order-placed emails to the mailer queue. It is
// strictly best-effort: publish failures are logged and discarded, and
// a nil Dispatcher (mailer not configured) is a silent no-op.
type Dispatcher struct {
	client *rabbitmq.Client
	queue  amqp.Queue
	group  errgroup.Group
}

// NewDispatcher creates a dispatcher bound to the configured mailer
// queue.
func NewDispatcher(client *rabbitmq.Client) (*Dispatcher, error) {
	queueName := viper.GetString("rabbitmq.notifications.queue")
	if queueName == "" {
		queueName = "storefront.order.placed"
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    false,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare notification queue: %w", err)
	}

	d := &Dispatcher{
		client: client,
		queue:  queue,
	}

	maxInFlight := viper.GetInt("rabbitmq.notifications.max_in_flight")
	if maxInFlight == 0 {
		maxInFlight = 8
	}
	d.group.SetLimit(maxInFlight)

	return d, nil
}

// Close waits for in-flight publishes to finish, bounded by the
// context. Called on shutdown before the broker connection closes.
func (d *Dispatcher) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		_ = d.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyOrderPlaced dispatches an order-placed email without blocking
// the caller on the outcome. At-most-once: if the dispatcher is
// saturated the notification is dropped, and no delivery is retried.
func (d *Dispatcher) NotifyOrderPlaced(email, orderID string, totalCents int64) {
	if d == nil || email == "" {
		return
	}

	msg := emailMessage{
		ID:      uuid.NewString(),
		To:      email,
		Subject: fmt.Sprintf("Your order %s is confirmed", orderID),
		HTML: fmt.Sprintf(
			"<p>Thanks for your purchase!</p><p>Order <b>%s</b> for a total of %d.%02d has been confirmed.</p>",
			orderID, totalCents/100, totalCents%100,
		),
	}

	started := d.group.TryGo(func() error {
		body, err := json.Marshal(msg)
		if err != nil {
			slog.Error("Failed to marshal order notification", "order_id", orderID, "error", err)

			return nil
		}

		err = d.client.Channel().Publish(
			"",
			d.queue.Name,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		)
		if err != nil {
			slog.Warn("Failed to publish order notification", "order_id", orderID, "error", err)
		}

		return nil
	})

	if !started {
		slog.Warn("Order notification dropped, dispatcher saturated", "order_id", orderID)
	}
}
