package orderbook

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets a test choose what time the book's Clock reports. The
// expiry worker reads it only to compute how long to wait; the wait
// itself still runs on a real timer.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestScanAndCancelGoodForDay_DirectCallIgnoresCutoff(t *testing.T) {
	start := time.Date(2026, 8, 6, 15, 59, 0, 0, time.Local)
	clock := newFakeClock(start)
	sink := NewMemoryEventSink()

	book := NewOrderbook(
		WithClock(clock),
		WithExpiryCutoff(16, 0),
		WithExpirySlack(10*time.Millisecond),
		WithEventSink(sink),
	)
	defer book.Close()

	book.AddOrder(NewOrder(1, Buy, GoodForDay, 100, 5))
	book.AddOrder(NewOrder(2, Buy, GoodTillCancel, 99, 5))
	require.Equal(t, 2, book.Size())

	// scanAndCancelGoodForDay itself is unconditional: it cancels every
	// live GoodForDay order the moment it runs. The cutoff gate lives in
	// the worker's timer (nextCutoff), not in the scan, so a direct call
	// takes effect immediately regardless of clock.Now().
	book.scanAndCancelGoodForDay()

	assert.Equal(t, 1, book.Size())

	infos := book.GetOrderInfos()
	require.Len(t, infos.Bids, 1)
	assert.EqualValues(t, 99, infos.Bids[0].Price)
}

func TestScanAndCancelGoodForDay_LeavesOtherTypesResting(t *testing.T) {
	book := newTestBook(t)

	book.AddOrder(NewOrder(1, Buy, GoodForDay, 100, 5))
	book.AddOrder(NewOrder(2, Buy, GoodTillCancel, 99, 5))
	book.AddOrder(NewOrder(3, Sell, FillAndKill, 200, 5))

	book.scanAndCancelGoodForDay()

	assert.Equal(t, 1, book.Size())
	infos := book.GetOrderInfos()
	require.Len(t, infos.Bids, 1)
	assert.EqualValues(t, 99, infos.Bids[0].Price)
}

func TestScanAndCancelGoodForDay_EmptyBookIsNoOp(t *testing.T) {
	book := newTestBook(t)
	book.scanAndCancelGoodForDay()
	assert.Equal(t, 0, book.Size())
}

func TestNextCutoff_SchedulesTomorrowWhenPastCutoff(t *testing.T) {
	now := time.Date(2026, 8, 6, 16, 1, 0, 0, time.Local)
	next := nextCutoff(now, 16, 0, 100*time.Millisecond)
	assert.Equal(t, 7, next.Day())
	assert.Equal(t, 16, next.Hour())
}

func TestNextCutoff_SchedulesTodayWhenBeforeCutoff(t *testing.T) {
	now := time.Date(2026, 8, 6, 9, 0, 0, 0, time.Local)
	next := nextCutoff(now, 16, 0, 100*time.Millisecond)
	assert.Equal(t, 6, next.Day())
	assert.Equal(t, 16, next.Hour())
}

func TestClose_StopsExpiryWorker(t *testing.T) {
	book := NewOrderbook()
	err := book.Close()
	require.NoError(t, err)

	select {
	case <-book.workerDone:
	default:
		t.Fatal("expected workerDone to be closed after Close")
	}
}
