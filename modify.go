package orderbook

// ModifyOrder atomically cancels the order at id (if it exists) and
// resubmits it with the captured order type and the caller-supplied
// side/price/quantity, reusing the caller-supplied id. An absent id is
// a no-op that returns no trades. Because the order is
// re-inserted at the tail of its new price level, a Modify always
// loses time priority even when price and quantity are unchanged.
func (b *Orderbook) ModifyOrder(id uint64, side Side, price int32, quantity uint32) []Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkShutdown(); err != nil {
		return nil
	}

	existing, err := b.requireOrder(id)
	if err != nil {
		return nil
	}
	orderType := existing.Type

	b.cancelLocked(id)

	replacement := NewOrder(id, side, orderType, price, quantity)
	return b.addOrderLocked(replacement)
}
