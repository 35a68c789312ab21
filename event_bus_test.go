package orderbook

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedEventSink_PreservesOrdering(t *testing.T) {
	inner := NewMemoryEventSink()
	bus := NewBufferedEventSink(16, inner)

	for i := uint64(1); i <= 10; i++ {
		bus.OrderAdded(OrderSnapshot{ID: i})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Close(ctx))

	require.Len(t, inner.OrdersAdded, 10)
	for i, snap := range inner.OrdersAdded {
		assert.EqualValues(t, i+1, snap.ID)
	}
}

func TestBufferedEventSink_RoutesAllEventKinds(t *testing.T) {
	inner := NewMemoryEventSink()
	bus := NewBufferedEventSink(8, inner)

	bus.OrderAdded(OrderSnapshot{ID: 1})
	bus.OrderCancelled(OrderSnapshot{ID: 2})
	bus.OrderMatched(MatchedEvent{OrderID: 3})
	bus.Trade(TradeEvent{Trade: Trade{Bid: TradeInfo{OrderID: 4}}})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Close(ctx))

	assert.Len(t, inner.OrdersAdded, 1)
	assert.Len(t, inner.OrdersCancelled, 1)
	assert.Len(t, inner.Matches, 1)
	assert.Len(t, inner.Trades, 1)
}

func TestBufferedEventSink_ConcurrentPublishersDoNotLoseEvents(t *testing.T) {
	inner := NewMemoryEventSink()
	bus := NewBufferedEventSink(64, inner)

	var wg sync.WaitGroup
	const producers = 8
	const perProducer = 50
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				bus.OrderAdded(OrderSnapshot{ID: uint64(base*perProducer + i)})
			}
		}(p)
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Close(ctx))

	assert.Len(t, inner.OrdersAdded, producers*perProducer)
}

func TestBufferedEventSink_CloseTimesOutOnUnconsumedBacklog(t *testing.T) {
	block := make(chan struct{})
	blocker := &blockingSink{block: block}
	bus := NewBufferedEventSink(2, blocker)

	for i := uint64(0); i < 2; i++ {
		bus.OrderAdded(OrderSnapshot{ID: i})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := bus.Close(ctx)
	close(block)

	assert.ErrorIs(t, err, ErrEventBusShutdownTimeout)
}

type blockingSink struct {
	block chan struct{}
}

func (b *blockingSink) OrderAdded(OrderSnapshot)     { <-b.block }
func (b *blockingSink) OrderCancelled(OrderSnapshot) {}
func (b *blockingSink) OrderMatched(MatchedEvent)    {}
func (b *blockingSink) Trade(TradeEvent)             {}

func TestNewRingBuffer_RejectsNonPowerOfTwoCapacity(t *testing.T) {
	assert.Panics(t, func() {
		newRingBuffer(3, func(event) {})
	})
}
