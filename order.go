package orderbook

// Side identifies which side of the book an order rests on.
type Side int8

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// OrderType is the order-lifecycle policy an order is admitted under.
type OrderType string

const (
	// GoodTillCancel rests until filled or explicitly cancelled.
	GoodTillCancel OrderType = "good_till_cancel"
	// FillAndKill matches whatever it can on arrival; any residue is cancelled.
	FillAndKill OrderType = "fill_and_kill"
	// FillOrKill must be fully fillable on arrival or is rejected entirely.
	FillOrKill OrderType = "fill_or_kill"
	// GoodForDay rests like GoodTillCancel but is cancelled at the daily cutoff.
	GoodForDay OrderType = "good_for_day"
	// Market crosses every reachable opposite-side level on arrival.
	Market OrderType = "market"
)

// InvalidPrice is the sentinel price carried by a Market order before
// admission promotes it to a resting limit. It must never be observed
// on an order that has passed AddOrder's admission sequence.
const InvalidPrice int32 = -1

// Order is a single resting or in-flight order. Its identity (ID, Side,
// initial type/price/quantity) is fixed at construction; RemainingQuantity
// and, for Market orders only, Type/Price are mutated internally by the
// book under its lock.
type Order struct {
	ID                uint64
	Side              Side
	Type              OrderType
	Price             int32
	InitialQuantity   uint32
	RemainingQuantity uint32

	// prev/next form the intrusive FIFO linked list within a price level.
	// Only the owning sideBook may touch these.
	prev, next *Order
}

// NewOrder constructs a resting order. Market orders carry InvalidPrice
// until admitted; callers must not pass a real price for a Market order.
func NewOrder(id uint64, side Side, typ OrderType, price int32, quantity uint32) *Order {
	return &Order{
		ID:                id,
		Side:              side,
		Type:              typ,
		Price:             price,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
	}
}

// NewMarketOrder constructs a Market order. Its price is InvalidPrice
// until admission promotes it via promoteToLimit.
func NewMarketOrder(id uint64, side Side, quantity uint32) *Order {
	return NewOrder(id, side, Market, InvalidPrice, quantity)
}

// validateOrder rejects malformed input before it reaches admission: a
// zero id (indistinguishable from an unset field) or a zero quantity.
// A zero-quantity order let through would still "match" with q=0 and
// leave a zero-quantity trade in its wake.
func validateOrder(o *Order) error {
	if o.ID == 0 {
		return ErrInvalidOrder
	}
	if o.InitialQuantity == 0 {
		return ErrInvalidOrder
	}
	return nil
}

// FilledQuantity returns the amount already matched.
func (o *Order) FilledQuantity() uint32 {
	return o.InitialQuantity - o.RemainingQuantity
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity == 0
}

// fill decreases the remaining quantity by q. Filling more than what
// remains is a broken invariant in the matching loop itself, never a
// reachable outcome for a well-formed caller, so it panics rather than
// returning an error (see errors.go, PolicyViolationError).
func (o *Order) fill(q uint32) {
	if q > o.RemainingQuantity {
		panic(&PolicyViolationError{
			Op:      "fill",
			Message: "fill quantity exceeds remaining quantity",
		})
	}
	o.RemainingQuantity -= q
}

// promoteToLimit converts a Market order into a resting GoodTillCancel
// limit at price. Only valid on Market orders; anything else indicates
// the admission sequence invoked it out of order.
func (o *Order) promoteToLimit(price int32) {
	if o.Type != Market {
		panic(&PolicyViolationError{
			Op:      "promoteToLimit",
			Message: "promoteToLimit called on a non-Market order",
		})
	}
	o.Price = price
	o.Type = GoodTillCancel
}

// snapshot returns an immutable copy safe to hand to an EventSink after
// the order may have been mutated or destroyed.
func (o *Order) snapshot() OrderSnapshot {
	return OrderSnapshot{
		ID:                o.ID,
		Side:              o.Side,
		Type:              o.Type,
		Price:             o.Price,
		InitialQuantity:   o.InitialQuantity,
		RemainingQuantity: o.RemainingQuantity,
	}
}
