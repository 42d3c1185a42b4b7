// Package amqp provides the RabbitMQ connectivity layer: a resilient client
// with automatic reconnect and idempotent topology setup, plus the event
// publisher built on top of it.
package amqp

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Topology names. Events travel on one topic exchange, routed by event type;
// failed deliveries dead-letter to a parallel exchange for inspection.
const (
	EventsExchange     = "orders.events"
	DeadLetterExchange = "orders.events.dlx"
	DeadLetterQueue    = "orders.events.dlq"

	// AssignmentQueue receives assignment outcomes for the order side.
	AssignmentQueue = "order.assignments"
	// MatchingQueue receives order announcements and retry requests for the
	// fleet side.
	MatchingQueue = "fleet.matching"
	// TelemetryQueue receives courier position and vehicle status reports.
	TelemetryQueue = "fleet.telemetry"
)

// Client is a resilient RabbitMQ connector with auto-reconnect and topology
// setup.
type Client struct {
	url    string
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	pubChan *amqp.Channel

	closed    chan struct{}
	reconnect chan struct{}
}

// Connect establishes the connection, declares the topology, and starts a
// background watcher that reconnects on failures.
func Connect(url string, logger *slog.Logger) (*Client, error) {
	client := &Client{
		url:       url,
		logger:    logger.With("component", "amqp_client"),
		closed:    make(chan struct{}),
		reconnect: make(chan struct{}, 1),
	}

	if err := client.connectOnce(); err != nil {
		return nil, err
	}

	go client.watch()

	return client, nil
}

// NewConsumerChannel returns a fresh channel with prefetch (QoS) applied.
func (client *Client) NewConsumerChannel(prefetch int) (*amqp.Channel, error) {
	client.mu.RLock()
	conn := client.conn
	client.mu.RUnlock()

	if conn == nil || conn.IsClosed() {
		return nil, errors.New("rabbitmq: connection is not ready")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			ch.Close()
			return nil, err
		}
	}

	return ch, nil
}

// PublishMessage publishes a persistent JSON message to the events exchange.
func (client *Client) PublishMessage(ctx context.Context, routingKey, messageID string, body []byte) error {
	client.mu.RLock()
	ch := client.pubChan
	conn := client.conn
	client.mu.RUnlock()

	if conn == nil || conn.IsClosed() {
		return errors.New("rabbitmq: connection is not open")
	}
	if ch == nil || ch.IsClosed() {
		return errors.New("rabbitmq: publish channel is not open")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return ch.PublishWithContext(ctx,
		EventsExchange, routingKey, false, false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    messageID,
			Body:         body,
		})
}

// Close gracefully stops the watcher and closes AMQP resources.
func (client *Client) Close() {
	select {
	case <-client.closed:
	default:
		close(client.closed)
	}

	client.mu.Lock()
	if client.pubChan != nil {
		_ = client.pubChan.Close()
		client.pubChan = nil
	}
	if client.conn != nil {
		_ = client.conn.Close()
		client.conn = nil
	}
	client.mu.Unlock()
}

func (client *Client) connectOnce() error {
	conn, err := amqp.DialConfig(client.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	client.mu.Lock()
	client.conn = conn
	if client.pubChan != nil {
		_ = client.pubChan.Close()
	}
	client.pubChan = ch
	client.mu.Unlock()

	// Either the connection or the publisher channel closing triggers a
	// reconnect.
	go func() {
		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-client.closed:
			return
		case <-connClosed:
		case <-chClosed:
		}

		select {
		case client.reconnect <- struct{}{}:
		default:
		}
	}()

	client.logger.Info("connected to rabbitmq", "exchange", EventsExchange)
	return nil
}

// watch runs in background and attempts reconnects with exponential backoff.
func (client *Client) watch() {
	backoff := time.Second
	for {
		select {
		case <-client.closed:
			return
		case <-client.reconnect:
			for {
				select {
				case <-client.closed:
					return
				default:
				}

				if err := client.connectOnce(); err == nil {
					backoff = time.Second
					client.logger.Info("reconnected to rabbitmq")
					break
				} else {
					client.logger.Error("rabbitmq reconnect failed", "error", err)
				}

				time.Sleep(backoff)
				if backoff < 30*time.Second {
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
				}
			}
		}
	}
}

// declareTopology declares exchanges, queues, and bindings. Safe to run on
// every connect.
func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(DeadLetterExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	queueArgs := amqp.Table{
		"x-dead-letter-exchange": DeadLetterExchange,
	}

	if _, err := ch.QueueDeclare(AssignmentQueue, true, false, false, false, queueArgs); err != nil {
		return err
	}
	if err := ch.QueueBind(AssignmentQueue, "order.assignment_completed", EventsExchange, false, nil); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(MatchingQueue, true, false, false, false, queueArgs); err != nil {
		return err
	}
	for _, key := range []string{"order.created", "order.retry_assignment_requested"} {
		if err := ch.QueueBind(MatchingQueue, key, EventsExchange, false, nil); err != nil {
			return err
		}
	}

	if _, err := ch.QueueDeclare(TelemetryQueue, true, false, false, false, queueArgs); err != nil {
		return err
	}
	for _, key := range []string{"fleet.courier_location_updated", "fleet.vehicle_status_changed"} {
		if err := ch.QueueBind(TelemetryQueue, key, EventsExchange, false, nil); err != nil {
			return err
		}
	}

	if _, err := ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(DeadLetterQueue, "#", DeadLetterExchange, false, nil); err != nil {
		return err
	}

	return nil
}
