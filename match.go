package orderbook

// match crosses best bid against best ask repeatedly, producing trades,
// until the sides no longer cross or one is exhausted. It must be
// called with the book lock already held.
func (b *Orderbook) match() []Trade {
	var trades []Trade

	for {
		bidPrice, bidLevel, bidOK := b.bids.best()
		askPrice, askLevel, askOK := b.asks.best()
		if !bidOK || !askOK || bidPrice < askPrice {
			break
		}

		for bidLevel.head != nil && askLevel.head != nil {
			bid := bidLevel.head
			ask := askLevel.head

			q := bid.RemainingQuantity
			if ask.RemainingQuantity < q {
				q = ask.RemainingQuantity
			}

			bid.fill(q)
			ask.fill(q)

			bidFullyFilled := bid.IsFilled()
			askFullyFilled := ask.IsFilled()

			if bidFullyFilled {
				b.bids.remove(bid)
				delete(b.byID, bid.ID)
				b.size--
			}
			if askFullyFilled {
				b.asks.remove(ask)
				delete(b.byID, ask.ID)
				b.size--
			}

			trade := Trade{
				Bid: TradeInfo{OrderID: bid.ID, Price: bid.Price, Quantity: q},
				Ask: TradeInfo{OrderID: ask.ID, Price: ask.Price, Quantity: q},
			}
			trades = append(trades, trade)

			bidAction := levelMatch
			if bidFullyFilled {
				bidAction = levelRemove
			}
			b.aggregates.apply(bid.Price, q, bidAction)

			askAction := levelMatch
			if askFullyFilled {
				askAction = levelRemove
			}
			b.aggregates.apply(ask.Price, q, askAction)

			b.cfg.sink.OrderMatched(MatchedEvent{
				OrderID: bid.ID, Price: bid.Price, Quantity: q,
				FullyFilled: bidFullyFilled, NotionalValue: notionalValue(bid.Price, q),
			})
			b.cfg.sink.OrderMatched(MatchedEvent{
				OrderID: ask.ID, Price: ask.Price, Quantity: q,
				FullyFilled: askFullyFilled, NotionalValue: notionalValue(ask.Price, q),
			})
			b.cfg.sink.Trade(TradeEvent{Trade: trade, NotionalValue: notionalValue(bid.Price, q)})
		}
	}

	b.applyResiduePolicy()
	return trades
}

// applyResiduePolicy cancels a FillAndKill order that survives to
// become the new top-of-book after the cross loop terminates. Only the
// current top-of-book is inspected: a FillAndKill can only become
// resting as a direct consequence of the admission that just ran.
func (b *Orderbook) applyResiduePolicy() {
	if _, level, ok := b.bids.best(); ok && level.head != nil && level.head.Type == FillAndKill {
		b.cancelLocked(level.head.ID)
	}
	if _, level, ok := b.asks.best(); ok && level.head != nil && level.head.Type == FillAndKill {
		b.cancelLocked(level.head.ID)
	}
}
