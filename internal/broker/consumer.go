package broker

import (
	"context"
	"encoding/json"

	"github.com/globalevent/service-ticketing/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// StartNotificationConsumer drains the queue in a background goroutine.
// Acks are manual: a handler error nacks with requeue so the broker
// redelivers after its backoff window, which is the only retry mechanism for
// notification delivery. A payload that cannot be unmarshalled is dropped —
// redelivery cannot fix it.
func (b *Broker) StartNotificationConsumer(handler func(ctx context.Context, msg NotificationMessage) error) error {
	if err := b.DeclareNotificationQueue(); err != nil {
		return err
	}

	msgs, err := b.channel.Consume(
		b.queue, // queue
		"",      // consumer
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			carrier := make(TraceCarrier)
			for k, v := range d.Headers {
				carrier[k] = v
			}
			parentCtx := otel.GetTextMapPropagator().Extract(context.Background(), carrier)

			spanCtx, span := b.tracer.Start(parentCtx, b.queue+" receive", trace.WithSpanKind(trace.SpanKindConsumer),
				trace.WithAttributes(
					semconv.MessagingSystemRabbitmq,
					semconv.MessagingDestinationName(b.queue),
				),
			)

			var msg NotificationMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logging.Error(spanCtx, "dropping malformed notification", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to unmarshal message")
				span.End()
				_ = d.Nack(false, false)
				continue
			}

			logging.Info(spanCtx, "📩 notification received", zap.String("order_id", msg.OrderID))
			if err := handler(spanCtx, msg); err != nil {
				logging.Error(spanCtx, "notification handling failed, requeueing", err, zap.String("order_id", msg.OrderID))
				span.RecordError(err)
				span.SetStatus(codes.Error, "handler failed")
				span.End()
				_ = d.Nack(false, true)
				continue
			}

			_ = d.Ack(false)
			span.End()
		}
	}()
	logging.Info(context.Background(), "👂 listening for notifications", zap.String("queue", b.queue))
	return nil
}
