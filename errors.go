package orderbook

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateOrderID is returned by checkAdmissible when AddOrder
	// is asked to admit an id already present in the book. The public
	// API does not surface it as an error; AddOrder simply returns no
	// trades.
	ErrDuplicateOrderID = errors.New("orderbook: duplicate order id")

	// ErrOrderNotFound is returned by requireOrder, used internally by
	// cancelLocked and ModifyOrder. The public Cancel/Modify API never
	// returns it: an absent id is a silent no-op.
	ErrOrderNotFound = errors.New("orderbook: order not found")

	// ErrInvalidOrder is returned by validateOrder for malformed input
	// (zero id, zero quantity).
	ErrInvalidOrder = errors.New("orderbook: invalid order")

	// ErrShutdown is returned by checkShutdown, used internally by
	// AddOrder, CancelOrder, and ModifyOrder once Close has been called.
	// The public API does not surface it as an error; those methods
	// simply become no-ops.
	ErrShutdown = errors.New("orderbook: shut down")
)

// PolicyViolationError marks a programmer error: an invariant the engine
// itself is responsible for upholding was violated. It is never expected
// to surface from a well-formed caller and is raised via panic, not a
// returned error.
type PolicyViolationError struct {
	Op      string
	Message string
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("orderbook: policy violation in %s: %s", e.Op, e.Message)
}
