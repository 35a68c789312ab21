package orderbook

// AddOrder submits order to the book. It returns the (possibly empty)
// sequence of trades produced by admission-time matching. A rejected
// order (malformed input, duplicate id, non-crossing Market/FillAndKill,
// infeasible FillOrKill) is not indexed and produces no trades and no
// OrderAdded event.
func (b *Orderbook) AddOrder(order *Order) []Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkShutdown(); err != nil {
		return nil
	}

	return b.addOrderLocked(order)
}

// addOrderLocked runs the admission sequence under an already-held
// lock:
//  1. reject malformed input (zero id, zero quantity) or a duplicate id
//  2. promote Market orders to a limit at the far opposite price
//  3. reject non-crossing FillAndKill
//  4. reject infeasible FillOrKill
//  5. insert, index, aggregate, emit OrderAdded
//  6. match and return trades
func (b *Orderbook) addOrderLocked(order *Order) []Trade {
	if err := b.checkAdmissible(order); err != nil {
		return nil
	}

	switch order.Type {
	case Market:
		worstPrice, _, ok := b.oppositeSideBook(order.Side).worst()
		if !ok {
			return nil
		}
		order.promoteToLimit(worstPrice)
	case FillAndKill:
		if !b.canCross(order.Side, order.Price) {
			return nil
		}
	case FillOrKill:
		if !b.canFullyFill(order.Side, order.Price, order.InitialQuantity) {
			return nil
		}
	}

	b.sideFor(order.Side).insert(order)
	b.byID[order.ID] = order
	b.aggregates.apply(order.Price, order.InitialQuantity, levelAdd)
	b.size++
	b.cfg.sink.OrderAdded(order.snapshot())

	return b.match()
}

// checkAdmissible reports why order cannot be admitted, or nil if it
// can proceed to order-type policy. Rejection is silent at the public
// API (AddOrder returns no trades either way), but the distinction is
// preserved here for internal callers and tests.
func (b *Orderbook) checkAdmissible(order *Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}
	if _, exists := b.byID[order.ID]; exists {
		return ErrDuplicateOrderID
	}
	return nil
}

// canCross reports whether an order of side/price would find an
// immediately crossing counterparty. Buy crosses iff asks are
// non-empty and price >= best ask; Sell is symmetric.
func (b *Orderbook) canCross(side Side, price int32) bool {
	if side == Buy {
		askPrice, _, ok := b.asks.best()
		return ok && price >= askPrice
	}
	bidPrice, _, ok := b.bids.best()
	return ok && price <= bidPrice
}

// canFullyFill reports whether quantity can be entirely satisfied by
// opposite-side liquidity reachable from the current top-of-book and
// within price's marketable bound, using level aggregates for O(levels)
// cost rather than walking individual orders.
//
// Levels are skipped until the current top-of-book is reached, then
// consumed until either quantity is satisfied or a level beyond
// price's marketable bound is reached, at which point the scan stops
// rather than continuing to skip.
func (b *Orderbook) canFullyFill(side Side, price int32, quantity uint32) bool {
	if !b.canCross(side, price) {
		return false
	}

	var threshold int32
	if side == Buy {
		threshold, _, _ = b.asks.best()
	} else {
		threshold, _, _ = b.bids.best()
	}

	ascending := side == Buy
	reachedThreshold := false
	need := int64(quantity)
	fullyFillable := false

	b.aggregates.iterateAll(ascending, func(levelPrice int32, agg *LevelAggregate) bool {
		if !reachedThreshold {
			if side == Buy && levelPrice < threshold {
				return true // not yet reachable from the current top-of-book; keep skipping
			}
			if side == Sell && levelPrice > threshold {
				return true
			}
			reachedThreshold = true
		}

		// Beyond this point levels only get less marketable (ascending
		// past a Buy's bound, or descending past a Sell's bound), so
		// stop entirely rather than skip individual levels.
		if side == Buy && levelPrice > price {
			return false
		}
		if side == Sell && levelPrice < price {
			return false
		}

		need -= int64(agg.QuantitySum)
		if need <= 0 {
			fullyFillable = true
			return false
		}
		return true
	})

	return fullyFillable
}
