package orderbook

import (
	"sync"

	"github.com/shopspring/decimal"
)

// OrderSnapshot is an immutable copy of an order's state at the moment
// an event is emitted. The book never hands out a live *Order to a
// sink, so a sink cannot mutate book state by holding onto one.
type OrderSnapshot struct {
	ID                uint64
	Side              Side
	Type              OrderType
	Price             int32
	InitialQuantity   uint32
	RemainingQuantity uint32
}

// MatchedEvent reports one leg of a cross: the price and quantity
// filled at that price, and whether the order on that leg was fully
// filled (vs. partially, still resting). NotionalValue is an audit-only
// field (Price * Quantity computed in decimal for display precision);
// it plays no role in matching decisions, which stay on native ints.
type MatchedEvent struct {
	OrderID       uint64
	Price         int32
	Quantity      uint32
	FullyFilled   bool
	NotionalValue decimal.Decimal
}

// TradeEvent is the event-sink form of a Trade, carrying the same
// audit-only notional value as MatchedEvent.
type TradeEvent struct {
	Trade         Trade
	NotionalValue decimal.Decimal
}

func notionalValue(price int32, quantity uint32) decimal.Decimal {
	return decimal.NewFromInt32(price).Mul(decimal.NewFromInt32(int32(quantity)))
}

// EventSink is the abstract event emitter. Implementations must not call
// back into the Orderbook from within any of these methods: emission
// happens synchronously while the book lock is held, and a reentrant
// call would deadlock.
type EventSink interface {
	OrderAdded(OrderSnapshot)
	OrderCancelled(OrderSnapshot)
	OrderMatched(MatchedEvent)
	Trade(TradeEvent)
}

// discardSink is the default sink; it drops every event.
type discardSink struct{}

func (discardSink) OrderAdded(OrderSnapshot)     {}
func (discardSink) OrderCancelled(OrderSnapshot) {}
func (discardSink) OrderMatched(MatchedEvent)    {}
func (discardSink) Trade(TradeEvent)             {}

// MemoryEventSink records every event in memory, useful for tests and
// for adapters that want to inspect a run after the fact rather than
// streaming it live.
type MemoryEventSink struct {
	mu              sync.Mutex
	OrdersAdded     []OrderSnapshot
	OrdersCancelled []OrderSnapshot
	Matches         []MatchedEvent
	Trades          []TradeEvent
}

// NewMemoryEventSink creates an empty MemoryEventSink.
func NewMemoryEventSink() *MemoryEventSink {
	return &MemoryEventSink{}
}

func (m *MemoryEventSink) OrderAdded(s OrderSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersAdded = append(m.OrdersAdded, s)
}

func (m *MemoryEventSink) OrderCancelled(s OrderSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersCancelled = append(m.OrdersCancelled, s)
}

func (m *MemoryEventSink) OrderMatched(e MatchedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Matches = append(m.Matches, e)
}

func (m *MemoryEventSink) Trade(t TradeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Trades = append(m.Trades, t)
}

// DepthChangeAction classifies how a DepthChange should be applied by a
// downstream depth view.
type DepthChangeAction int

const (
	DepthAdd DepthChangeAction = iota
	DepthRemove
)

// DepthChange describes a delta a downstream depth-tracking adapter
// should apply. Each of the three event kinds maps to its own
// straightforward delta rather than sharing one derivation routine.
type DepthChange struct {
	Side     Side
	Price    int32
	Action   DepthChangeAction
	Quantity uint32
}

// OrderAddedDepthChange derives the depth delta for a newly admitted
// resting order.
func OrderAddedDepthChange(s OrderSnapshot) DepthChange {
	return DepthChange{Side: s.Side, Price: s.Price, Action: DepthAdd, Quantity: s.InitialQuantity}
}

// OrderCancelledDepthChange derives the depth delta for a cancellation.
func OrderCancelledDepthChange(s OrderSnapshot) DepthChange {
	return DepthChange{Side: s.Side, Price: s.Price, Action: DepthRemove, Quantity: s.RemainingQuantity}
}

// MatchedDepthChange derives the depth delta for one leg of a cross.
// Partial fills still remove liquidity from the book even though the
// order survives, so both partial and full fills report DepthRemove.
func MatchedDepthChange(side Side, e MatchedEvent) DepthChange {
	return DepthChange{Side: side, Price: e.Price, Action: DepthRemove, Quantity: e.Quantity}
}
