package ledger

import (
	"context"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/globalevent/service-ticketing/internal/ticketing"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ledger is the durable record of committed orders. Rows are append-only.
type Ledger struct {
	db *pgxpool.Pool
}

func NewLedger(db *pgxpool.Pool) *Ledger {
	return &Ledger{db: db}
}

// Connect builds a traced pgx pool for the ledger database.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	cfg.ConnConfig.Tracer = otelpgx.NewTracer()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the orders table when absent. Idempotent; runs once
// at startup.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS orders (
			order_id VARCHAR(50) PRIMARY KEY,
			event_id VARCHAR(50),
			user_email VARCHAR(100),
			amount DECIMAL(10,2),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure orders schema: %w", err)
	}
	return nil
}

// Insert records one committed order. A duplicate order_id is a no-op so a
// retried insert of the same attempt cannot double-record the sale.
func (l *Ledger) Insert(ctx context.Context, o ticketing.Order) error {
	_, err := l.db.Exec(ctx,
		`INSERT INTO orders (order_id, event_id, user_email, amount) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (order_id) DO NOTHING`,
		o.OrderID, o.EventID, o.UserEmail, o.Amount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", o.OrderID, err)
	}
	return nil
}
