package orderbook

import "github.com/huandu/skiplist"

// priceLevel is the FIFO queue of live orders resting at a single
// price. It keeps no quantity total: the per-price quantity sum used by
// canFullyFill lives in levelAggregates; head/tail/count here serve
// FIFO admission and O(1) removal only.
type priceLevel struct {
	head, tail *Order
	count      int
}

// sideBook is one side of the book: an ordered price -> priceLevel
// map, iterated best-first, with an intrusive doubly-linked FIFO per
// level for O(1) cancellation once the level is located.
//
// Bids and Asks each get their own sideBook with a side-specific
// comparator over github.com/huandu/skiplist.
type sideBook struct {
	side   Side
	levels *skiplist.SkipList
}

// newBidBook orders prices descending (highest first).
func newBidBook() *sideBook {
	return &sideBook{
		side: Buy,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			a, b := lhs.(int32), rhs.(int32)
			switch {
			case a < b:
				return 1
			case a > b:
				return -1
			default:
				return 0
			}
		})),
	}
}

// newAskBook orders prices ascending (lowest first).
func newAskBook() *sideBook {
	return &sideBook{
		side: Sell,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			a, b := lhs.(int32), rhs.(int32)
			switch {
			case a > b:
				return 1
			case a < b:
				return -1
			default:
				return 0
			}
		})),
	}
}

// insert places order at the tail of its price level's FIFO queue,
// creating the level if absent.
func (s *sideBook) insert(order *Order) {
	el := s.levels.Get(order.Price)
	if el == nil {
		el = s.levels.Set(order.Price, &priceLevel{})
	}
	level := el.Value.(*priceLevel)

	order.prev = level.tail
	order.next = nil
	if level.tail != nil {
		level.tail.next = order
	} else {
		level.head = order
	}
	level.tail = order
	level.count++
}

// remove unlinks order from its price level's FIFO queue and prunes
// the level if it becomes empty. order must currently be resting in s.
func (s *sideBook) remove(order *Order) {
	el := s.levels.Get(order.Price)
	if el == nil {
		return
	}
	level := el.Value.(*priceLevel)

	if order.prev != nil {
		order.prev.next = order.next
	} else {
		level.head = order.next
	}
	if order.next != nil {
		order.next.prev = order.prev
	} else {
		level.tail = order.prev
	}
	order.prev, order.next = nil, nil
	level.count--

	if level.count == 0 {
		s.levels.RemoveElement(el)
	}
}

// best returns the top-of-book price and level for this side, or
// ok=false if the side is empty.
func (s *sideBook) best() (price int32, level *priceLevel, ok bool) {
	el := s.levels.Front()
	if el == nil {
		return 0, nil, false
	}
	return el.Key().(int32), el.Value.(*priceLevel), true
}

// worst returns the far-end price and level for this side, used only
// to promote a Market order to a limit at the least favorable resting
// price. ok=false if the side is empty.
func (s *sideBook) worst() (price int32, level *priceLevel, ok bool) {
	el := s.levels.Back()
	if el == nil {
		return 0, nil, false
	}
	return el.Key().(int32), el.Value.(*priceLevel), true
}

// empty reports whether this side has no resting orders at any price.
func (s *sideBook) empty() bool {
	return s.levels.Front() == nil
}

// levelInfos walks this side best-first, returning one LevelInfo per
// price with the total remaining quantity resting there.
func (s *sideBook) levelInfos() []LevelInfo {
	infos := make([]LevelInfo, 0, s.levels.Len())
	for el := s.levels.Front(); el != nil; el = el.Next() {
		level := el.Value.(*priceLevel)
		var total uint32
		for o := level.head; o != nil; o = o.next {
			total += o.RemainingQuantity
		}
		infos = append(infos, LevelInfo{Price: el.Key().(int32), TotalRemaining: total})
	}
	return infos
}
