package ticketing

import "time"

// Concert is one sellable inventory entry. Dates are kept as the plain
// YYYY-MM-DD strings the catalog is seeded with.
type Concert struct {
	EventID     string `json:"event_id"`
	Artist      string `json:"artist"`
	Date        string `json:"date"`
	TicketsLeft int64  `json:"tickets_left"`
}

// Order is one committed sale. Rows are append-only: written exactly once on
// a successful purchase, never updated or deleted.
type Order struct {
	OrderID   string
	EventID   string
	UserEmail string
	Amount    float64
	CreatedAt time.Time
}

// PurchaseResult is returned to the buyer on a completed purchase.
type PurchaseResult struct {
	OrderID string
}
