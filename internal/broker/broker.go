package broker

import (
	"fmt"

	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type TraceCarrier map[string]interface{}

func (c TraceCarrier) Get(key string) string {
	if val, ok := c[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func (c TraceCarrier) Set(key, val string) {
	c[key] = val
}

func (c TraceCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Broker owns the AMQP connection and channel for the notification queue.
// One Broker per process; the channel is not safe for concurrent publishes
// from multiple goroutines, which is fine here because gin handlers publish
// through the coordinator one message per request.
type Broker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	tracer  trace.Tracer
}

func NewBroker(amqpURL, queueName string) (*Broker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	tracer := otel.Tracer("service-ticketing.broker")
	return &Broker{conn: conn, channel: channel, queue: queueName, tracer: tracer}, nil
}

// DeclareNotificationQueue makes the durable queue exist. Both the API and
// the worker call this so either can start first.
func (b *Broker) DeclareNotificationQueue() error {
	_, err := b.channel.QueueDeclare(
		b.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	return err
}

func (b *Broker) Close() {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
