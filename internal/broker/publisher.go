package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/globalevent/service-ticketing/internal/logging"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PublishNotification enqueues one confirmation message. Delivery is
// at-least-once: the message is persistent and the worker acks only after a
// successful send.
func (b *Broker) PublishNotification(ctx context.Context, msg NotificationMessage) error {
	spanCtx, span := b.tracer.Start(ctx, b.queue+" publish", trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemRabbitmq,
			semconv.MessagingDestinationName(b.queue),
		),
	)
	defer span.End()

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	headers := make(TraceCarrier)
	otel.GetTextMapPropagator().Inject(spanCtx, headers)

	err = b.channel.Publish(
		"",      // default exchange routes on queue name
		b.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Headers:      amqp.Table(headers),
		})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish message")
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logging.Info(spanCtx, "✅ notification enqueued", zap.String("order_id", msg.OrderID))
	return nil
}
