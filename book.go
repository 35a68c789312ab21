package orderbook

import (
	"sync"
	"sync/atomic"
)

// LevelInfo is a single price level's aggregate view: the price and
// the total remaining quantity resting there.
type LevelInfo struct {
	Price          int32
	TotalRemaining uint32
}

// OrderInfos is GetOrderInfos' return shape: bids in descending price
// order, asks in ascending.
type OrderInfos struct {
	Bids []LevelInfo
	Asks []LevelInfo
}

// Orderbook is a limit-order matching engine: a dual price-indexed
// book with per-level FIFO queues, a level-aggregate index, a matching
// loop, order-type admission policy, Modify, a background day-order
// expiry worker, and an event sink.
//
// All mutation of the book indices, the aggregate table, the by-id
// index, and per-order remaining quantities happens under mu, shared
// between the caller goroutine and the expiry worker goroutine.
type Orderbook struct {
	mu sync.Mutex

	bids       *sideBook
	asks       *sideBook
	byID       map[uint64]*Order
	aggregates *levelAggregates
	size       int

	cfg config

	shutdown   atomic.Bool
	done       chan struct{}
	workerDone chan struct{}
}

// NewOrderbook creates an empty book and starts the day-order expiry
// worker.
func NewOrderbook(opts ...Option) *Orderbook {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	book := &Orderbook{
		bids:       newBidBook(),
		asks:       newAskBook(),
		byID:       make(map[uint64]*Order),
		aggregates: newLevelAggregates(),
		cfg:        cfg,
		done:       make(chan struct{}),
		workerDone: make(chan struct{}),
	}

	go book.runExpiryWorker()

	return book
}

// Size returns the count of live orders across both sides.
func (b *Orderbook) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// GetOrderInfos returns a snapshot of the book's price levels, bids
// descending and asks ascending.
func (b *Orderbook) GetOrderInfos() OrderInfos {
	b.mu.Lock()
	defer b.mu.Unlock()
	return OrderInfos{
		Bids: b.bids.levelInfos(),
		Asks: b.asks.levelInfos(),
	}
}

// CancelOrder removes a live order. Unknown ids are a silent no-op.
func (b *Orderbook) CancelOrder(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkShutdown(); err != nil {
		return
	}
	b.cancelLocked(id)
}

// cancelLocked performs the cancellation under an already-held lock.
// Returns false if id was not found (a no-op).
func (b *Orderbook) cancelLocked(id uint64) bool {
	order, err := b.requireOrder(id)
	if err != nil {
		return false
	}

	delete(b.byID, id)
	b.sideFor(order.Side).remove(order)
	b.aggregates.apply(order.Price, order.RemainingQuantity, levelRemove)
	b.size--

	b.cfg.sink.OrderCancelled(order.snapshot())
	return true
}

// requireOrder looks up a live order by id, or ErrOrderNotFound if it
// is absent. Callers in the public API treat that as a silent no-op;
// this distinction exists for internal use and tests.
func (b *Orderbook) requireOrder(id uint64) (*Order, error) {
	order, ok := b.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// checkShutdown reports ErrShutdown if Close has already been called.
func (b *Orderbook) checkShutdown() error {
	if b.shutdown.Load() {
		return ErrShutdown
	}
	return nil
}

// Close signals shutdown and blocks until the expiry worker has
// exited. After Close returns, the book must not be used again.
func (b *Orderbook) Close() error {
	if b.shutdown.CompareAndSwap(false, true) {
		close(b.done)
	}
	<-b.workerDone
	return nil
}

func (b *Orderbook) sideFor(s Side) *sideBook {
	if s == Buy {
		return b.bids
	}
	return b.asks
}

func (b *Orderbook) oppositeSideBook(s Side) *sideBook {
	if s == Buy {
		return b.asks
	}
	return b.bids
}
