package orderbook

import (
	treemap "github.com/igrmk/treemap/v2"
)

// LevelAggregate is the precomputed {quantity_sum, live_count} pair
// maintained in lockstep with the book's price-level indices. It is
// the union of bid and ask prices: a price with resting orders on
// either side has exactly one entry here.
type LevelAggregate struct {
	QuantitySum uint32
	LiveCount   int32
}

// levelAction is the update kind applied to a LevelAggregate.
type levelAction int

const (
	levelAdd levelAction = iota
	levelRemove
	levelMatch
)

// levelAggregates is the book's aggregate table, kept ordered
// (ascending by price) via treemap so canFullyFill can walk levels in
// price order through iterateAll. GetOrderInfos does not read this
// table; it walks the sideBooks. Ordering is unobserved by the update
// routine itself, which is a plain point lookup regardless of key order.
type levelAggregates struct {
	table *treemap.TreeMap[int32, *LevelAggregate]
}

func newLevelAggregates() *levelAggregates {
	return &levelAggregates{table: treemap.New[int32, *LevelAggregate]()}
}

// apply is the single update routine for a level aggregate:
//   Add:    count += 1; quantity_sum += q.
//   Remove: count -= 1; quantity_sum -= q.
//   Match:  count unchanged; quantity_sum -= q.
// When count reaches 0 the entry at that price is erased.
func (a *levelAggregates) apply(price int32, q uint32, action levelAction) {
	agg, ok := a.table.Get(price)
	if !ok {
		if action != levelAdd {
			// Defensive: nothing to remove/match against. Should not
			// happen if the book's price-level index and this table are
			// kept in lockstep by the caller.
			return
		}
		agg = &LevelAggregate{}
		a.table.Set(price, agg)
	}

	switch action {
	case levelAdd:
		agg.LiveCount++
		agg.QuantitySum += q
	case levelRemove:
		agg.LiveCount--
		agg.QuantitySum -= q
	case levelMatch:
		agg.QuantitySum -= q
	}

	if agg.LiveCount <= 0 {
		a.table.Del(price)
	}
}

func (a *levelAggregates) get(price int32) (*LevelAggregate, bool) {
	return a.table.Get(price)
}

// iterateAll walks every level in the table in the given direction,
// invoking fn for each level until fn returns false or the table is
// exhausted. ascending controls iteration direction (true = increasing
// price).
func (a *levelAggregates) iterateAll(ascending bool, fn func(price int32, agg *LevelAggregate) bool) {
	if ascending {
		it := a.table.Iterator()
		for it.Valid() {
			if !fn(it.Key(), it.Value()) {
				return
			}
			it.Next()
		}
		return
	}

	it := a.table.Reverse()
	for it.Valid() {
		if !fn(it.Key(), it.Value()) {
			return
		}
		it.Next()
	}
}
