package ticketing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/globalevent/service-ticketing/internal/broker"
	"github.com/globalevent/service-ticketing/internal/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// ticketPrice is the fixed simulated price; there is no payment step.
	ticketPrice = 49.99

	// defaultInitialTickets is the stock a freshly seeded concert starts with.
	defaultInitialTickets = 100

	// stepTimeout bounds each dependency round trip inside a purchase.
	stepTimeout = 3 * time.Second
)

// InventoryStore is the keyed counter store. ConditionalDecrement must be
// atomic per event: with one ticket left, two concurrent calls never both
// succeed.
type InventoryStore interface {
	ConditionalDecrement(ctx context.Context, eventID string) (int64, error)
	List(ctx context.Context) ([]Concert, error)
	Put(ctx context.Context, c Concert) error
}

// OrderLedger records committed orders durably.
type OrderLedger interface {
	Insert(ctx context.Context, o Order) error
}

// NotificationQueue hands confirmation messages to the worker, at least once.
type NotificationQueue interface {
	PublishNotification(ctx context.Context, msg broker.NotificationMessage) error
}

// Service runs the purchase protocol across the three stores. It holds no
// locks and no mutable state: serialization of concurrent purchases of the
// same concert is delegated entirely to the store's atomic decrement.
type Service struct {
	store  InventoryStore
	ledger OrderLedger
	queue  NotificationQueue
}

func NewService(store InventoryStore, ledger OrderLedger, queue NotificationQueue) *Service {
	return &Service{store: store, ledger: ledger, queue: queue}
}

// Purchase reserves one ticket for eventID and records the sale.
//
// The steps are strictly ordered: the stock decrement is the admission gate
// and runs before any ledger write, so stock can never be oversold even when
// a later step fails. Returns ErrInsufficientStock when the concert is sold
// out and ErrUnavailable on any dependency failure.
func (s *Service) Purchase(ctx context.Context, eventID, email string) (PurchaseResult, error) {
	decCtx, cancel := context.WithTimeout(ctx, stepTimeout)
	remaining, err := s.store.ConditionalDecrement(decCtx, eventID)
	cancel()
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			logging.Info(ctx, "purchase rejected, sold out", zap.String("event_id", eventID))
			return PurchaseResult{}, err
		}
		logging.Error(ctx, "inventory store unavailable", err, zap.String("event_id", eventID))
		return PurchaseResult{}, fmt.Errorf("inventory decrement: %w", ErrUnavailable)
	}

	order := Order{
		OrderID:   uuid.NewString(),
		EventID:   eventID,
		UserEmail: email,
		Amount:    ticketPrice,
	}
	insCtx, cancel := context.WithTimeout(ctx, stepTimeout)
	err = s.ledger.Insert(insCtx, order)
	cancel()
	if err != nil {
		// The decrement is deliberately not compensated here: a rare
		// undersell on ledger failure is preferred over racing a
		// non-atomic increment against live purchases.
		logging.Error(ctx, "order insert failed after stock decrement", err,
			zap.String("event_id", eventID), zap.String("order_id", order.OrderID))
		return PurchaseResult{}, fmt.Errorf("order insert: %w", ErrUnavailable)
	}

	msg := broker.NotificationMessage{
		OrderID: order.OrderID,
		Email:   order.UserEmail,
		EventID: order.EventID,
		Type:    broker.MessageTypeConfirmationEmail,
	}
	pubCtx, cancel := context.WithTimeout(ctx, stepTimeout)
	err = s.queue.PublishNotification(pubCtx, msg)
	cancel()
	if err != nil {
		// Best effort. The ticket is reserved and the order recorded, so
		// the purchase stands; the failure stays visible for alerting.
		logging.Error(ctx, "failed to enqueue confirmation", err, zap.String("order_id", order.OrderID))
	}

	logging.Info(ctx, "purchase completed",
		zap.String("event_id", eventID),
		zap.String("order_id", order.OrderID),
		zap.Int64("tickets_left", remaining))
	return PurchaseResult{OrderID: order.OrderID}, nil
}

// ListConcerts is a read-through snapshot of the catalog.
func (s *Service) ListConcerts(ctx context.Context) ([]Concert, error) {
	concerts, err := s.store.List(ctx)
	if err != nil {
		logging.Error(ctx, "catalog listing failed", err)
		return nil, fmt.Errorf("catalog listing: %w", ErrUnavailable)
	}
	return concerts, nil
}

// CreateConcert seeds a new catalog entry with the default initial stock.
func (s *Service) CreateConcert(ctx context.Context, artist, date string) (Concert, error) {
	concert := Concert{
		EventID:     uuid.NewString(),
		Artist:      artist,
		Date:        date,
		TicketsLeft: defaultInitialTickets,
	}
	if err := s.store.Put(ctx, concert); err != nil {
		logging.Error(ctx, "concert seeding failed", err, zap.String("artist", artist))
		return Concert{}, fmt.Errorf("concert seeding: %w", ErrUnavailable)
	}
	logging.Info(ctx, "concert created", zap.String("event_id", concert.EventID), zap.String("artist", artist))
	return concert, nil
}
