package orderbook

import "time"

// runExpiryWorker is the book's single long-lived background worker. It cycles between
// Waiting (blocked in an interruptible timed wait for the next daily
// cutoff) and Scanning (cancelling every GoodForDay order present at
// the cutoff), and exits to Stopped when the book signals shutdown.
//
// A time.Timer raced against the book's done channel stands in for a
// condition-variable timed wait: whichever fires first, either the
// cutoff arrives or shutdown is requested.
func (b *Orderbook) runExpiryWorker() {
	for {
		b.mu.Lock()
		clock := b.cfg.clock
		hour, minute, slack := b.cfg.cutoffHour, b.cfg.cutoffMinute, b.cfg.slack
		b.mu.Unlock()

		now := clock.Now()
		wait := nextCutoff(now, hour, minute, slack).Sub(now)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
			b.scanAndCancelGoodForDay()
		case <-b.done:
			timer.Stop()
			close(b.workerDone)
			return
		}
	}
}

// scanAndCancelGoodForDay collects every GoodForDay order live at scan
// time and cancels all of them in a single critical section, so the
// batch of resulting OrderCancelled events is contiguous.
func (b *Orderbook) scanAndCancelGoodForDay() {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]uint64, 0)
	for id, order := range b.byID {
		if order.Type == GoodForDay {
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		b.cancelLocked(id)
	}

	if len(ids) > 0 {
		logger.Info("day-order expiry scan complete", "cancelled", len(ids))
	}
}
