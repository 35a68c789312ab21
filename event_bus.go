package orderbook

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrEventBusShutdownTimeout is returned by BufferedEventSink.Close
// when ctx expires before the queued events have drained.
var ErrEventBusShutdownTimeout = errors.New("orderbook: event bus shutdown timeout")

// event is the internal envelope carried through the ring buffer,
// tagging which EventSink method to replay on the consumer side.
type event struct {
	kind      eventKind
	added     OrderSnapshot
	cancelled OrderSnapshot
	matched   MatchedEvent
	trade     TradeEvent
}

type eventKind int8

const (
	eventKindAdded eventKind = iota
	eventKindCancelled
	eventKindMatched
	eventKindTrade
)

// ringBuffer is a single-producer-per-call, single-consumer MPSC ring
// buffer built on a claim/publish/consume protocol: producers CAS a
// sequence number to claim a slot, publish the slot, and the single
// consumer goroutine only advances past slots it has confirmed
// published.
type ringBuffer struct {
	producerSequence atomic.Int64
	consumerSequence atomic.Int64

	buffer     []event
	bufferMask int64
	capacity   int64
	published  []int64

	handler func(event)

	isShutdown atomic.Bool
}

// newRingBuffer creates a ring buffer. capacity must be a power of two.
func newRingBuffer(capacity int64, handler func(event)) *ringBuffer {
	if capacity <= 0 || (capacity&(capacity-1)) != 0 {
		panic("orderbook: ring buffer capacity must be a power of 2")
	}

	rb := &ringBuffer{
		buffer:     make([]event, capacity),
		published:  make([]int64, capacity),
		capacity:   capacity,
		bufferMask: capacity - 1,
		handler:    handler,
	}
	rb.producerSequence.Store(-1)
	rb.consumerSequence.Store(-1)
	for i := range rb.published {
		rb.published[i] = -1
	}
	return rb
}

// publish enqueues ev, blocking (via Gosched, not a real sleep) only if
// the buffer is momentarily full. It is safe to call under the book
// lock: it never performs I/O and only spins on a full buffer, which a
// correctly sized capacity makes vanishingly rare.
func (rb *ringBuffer) publish(ev event) {
	if rb.isShutdown.Load() {
		return
	}

	var nextSeq int64
	for {
		current := rb.producerSequence.Load()
		nextSeq = current + 1

		wrapPoint := nextSeq - rb.capacity
		if wrapPoint > rb.consumerSequence.Load() {
			runtime.Gosched()
			continue
		}

		if rb.producerSequence.CompareAndSwap(current, nextSeq) {
			break
		}
		runtime.Gosched()
	}

	index := nextSeq & rb.bufferMask
	rb.buffer[index] = ev
	atomic.StoreInt64(&rb.published[index], nextSeq)
}

func (rb *ringBuffer) start() {
	go rb.consumeLoop()
}

// shutdown stops accepting new events and waits for the consumer to
// drain everything already claimed, or until ctx expires.
func (rb *ringBuffer) shutdown(ctx context.Context) error {
	rb.isShutdown.Store(true)

	for {
		select {
		case <-ctx.Done():
			return ErrEventBusShutdownTimeout
		default:
			if rb.consumerSequence.Load() >= rb.producerSequence.Load() {
				return nil
			}
			runtime.Gosched()
		}
	}
}

func (rb *ringBuffer) consumeLoop() {
	next := rb.consumerSequence.Load() + 1

	for {
		available := rb.producerSequence.Load()

		if rb.isShutdown.Load() {
			rb.drain(next)
			return
		}

		for next <= available {
			index := next & rb.bufferMask
			for atomic.LoadInt64(&rb.published[index]) != next {
				runtime.Gosched()
			}
			rb.handler(rb.buffer[index])
			rb.consumerSequence.Store(next)
			next++
		}

		if next > available {
			runtime.Gosched()
		}
	}
}

func (rb *ringBuffer) drain(next int64) {
	available := rb.producerSequence.Load()
	for next <= available {
		index := next & rb.bufferMask
		for atomic.LoadInt64(&rb.published[index]) != next {
			runtime.Gosched()
		}
		rb.handler(rb.buffer[index])
		rb.consumerSequence.Store(next)
		next++
	}
}

// BufferedEventSink wraps a slow downstream EventSink so that the
// matching thread never blocks on it. It records events into a ring
// buffer synchronously (fast, O(1), safe to call under the book lock,
// preserving emission order) and replays them to the wrapped sink from
// a background goroutine.
//
// AddOrder/CancelOrder/ModifyOrder must still complete synchronously
// while holding the book lock, so the ring buffer here only decouples a
// slow EventSink implementation (persistence, a network publisher) from
// the matching hot path; it is never used as the book's own mutation
// path.
type BufferedEventSink struct {
	rb   *ringBuffer
	next EventSink
}

// NewBufferedEventSink wraps next behind a ring buffer of the given
// capacity (must be a power of two) and starts its consumer goroutine.
func NewBufferedEventSink(capacity int64, next EventSink) *BufferedEventSink {
	s := &BufferedEventSink{next: next}
	s.rb = newRingBuffer(capacity, s.replay)
	s.rb.start()
	return s
}

func (s *BufferedEventSink) replay(ev event) {
	switch ev.kind {
	case eventKindAdded:
		s.next.OrderAdded(ev.added)
	case eventKindCancelled:
		s.next.OrderCancelled(ev.cancelled)
	case eventKindMatched:
		s.next.OrderMatched(ev.matched)
	case eventKindTrade:
		s.next.Trade(ev.trade)
	}
}

func (s *BufferedEventSink) OrderAdded(o OrderSnapshot) {
	s.rb.publish(event{kind: eventKindAdded, added: o})
}

func (s *BufferedEventSink) OrderCancelled(o OrderSnapshot) {
	s.rb.publish(event{kind: eventKindCancelled, cancelled: o})
}

func (s *BufferedEventSink) OrderMatched(e MatchedEvent) {
	s.rb.publish(event{kind: eventKindMatched, matched: e})
}

func (s *BufferedEventSink) Trade(t TradeEvent) {
	s.rb.publish(event{kind: eventKindTrade, trade: t})
}

// Close stops accepting new events and waits for the buffered ones to
// drain to the wrapped sink, or until ctx expires.
func (s *BufferedEventSink) Close(ctx context.Context) error {
	return s.rb.shutdown(ctx)
}
