package orderbook

// TradeInfo carries one side of a trade: the resting order id, the
// price recorded for that side at match time, and the traded quantity.
type TradeInfo struct {
	OrderID  uint64
	Price    int32
	Quantity uint32
}

// Trade is a pair of (bid-side info, ask-side info) produced by a
// single cross. Both sides carry identical Quantity; the source of the
// price on each side is that side's own resting price, not a single
// shared execution price.
type Trade struct {
	Bid TradeInfo
	Ask TradeInfo
}
