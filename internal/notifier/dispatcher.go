package notifier

import (
	"context"
	"fmt"

	"github.com/globalevent/service-ticketing/internal/broker"
	"github.com/globalevent/service-ticketing/internal/logging"
	"go.uber.org/zap"
)

// Sender delivers one rendered message. Real providers (SES, SNS, SMTP) live
// behind this; failures bubble up so the queue redelivers.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Dispatcher turns queued notification messages into outbound mail. It never
// touches the order or the inventory: delivery failures only trigger
// redelivery, they cannot invalidate the sale.
type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// HandleMessage is the queue consumer callback. A returned error makes the
// consumer nack the delivery for a later retry.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg broker.NotificationMessage) error {
	if msg.Type != broker.MessageTypeConfirmationEmail {
		logging.Warn(ctx, "ignoring notification of unknown type",
			zap.String("type", msg.Type), zap.String("order_id", msg.OrderID))
		return nil
	}

	subject := fmt.Sprintf("GlobalEvent - Order Confirmation %s", msg.OrderID)
	if err := d.sender.Send(ctx, msg.Email, subject, renderConfirmation(msg)); err != nil {
		return fmt.Errorf("failed to send confirmation for order %s: %w", msg.OrderID, err)
	}
	logging.Info(ctx, "confirmation delivered", zap.String("order_id", msg.OrderID))
	return nil
}

func renderConfirmation(msg broker.NotificationMessage) string {
	event := msg.Artist
	if event == "" {
		event = msg.EventID
	}
	return fmt.Sprintf(
		"Hello,\n\n"+
			"Your order has been received!\n"+
			"Order number: %s\n"+
			"Event: %s\n"+
			"Customer email: %s\n\n"+
			"Thank you for using GlobalEvent.",
		msg.OrderID, event, msg.Email,
	)
}

// LogSender stands in for a real mail provider and records the delivery in
// the process log.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, _ string) error {
	logging.Info(ctx, "📧 email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
