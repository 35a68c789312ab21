package orderbook

import (
	"math/rand"
	"testing"

	"github.com/rs/xid"
)

// syntheticID turns an xid into a uint64 so benchmark load doesn't need
// a hand-rolled counter. Only the xid's last 8 bytes (machine id, pid,
// counter) survive the shifts, which stay unique within one process.
func syntheticID(x xid.ID) uint64 {
	var v uint64
	for _, b := range x.Bytes() {
		v = v<<8 | uint64(b)
	}
	return v
}

func BenchmarkAddOrder_RestingNoMatch(b *testing.B) {
	book := NewOrderbook()
	defer book.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := syntheticID(xid.New())
		side := Buy
		if i%2 == 0 {
			side = Sell
		}
		// Bids stay in 1..500 and asks in 501..1000, so nothing crosses.
		price := int32(rand.Intn(500) + 1)
		if side == Sell {
			price += 500
		}
		book.AddOrder(NewOrder(id, side, GoodTillCancel, price, 1))
	}
}

func BenchmarkAddOrder_HeavyCrossing(b *testing.B) {
	book := NewOrderbook()
	defer book.Close()

	for i := 0; i < 1000; i++ {
		book.AddOrder(NewOrder(syntheticID(xid.New()), Sell, GoodTillCancel, int32(i%50+1), 10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.AddOrder(NewOrder(syntheticID(xid.New()), Buy, GoodTillCancel, 50, 5))
	}
}
