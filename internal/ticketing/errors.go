package ticketing

import "errors"

var (
	// ErrInsufficientStock is the expected business outcome when a concert
	// has no tickets left. It is never retried.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrUnavailable covers any dependency failure during a purchase. The
	// buyer may retry the whole purchase from scratch; a fresh attempt
	// re-runs the stock gate.
	ErrUnavailable = errors.New("dependency unavailable")
)
