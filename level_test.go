package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelAggregates_AddCreatesLevel(t *testing.T) {
	a := newLevelAggregates()
	a.apply(100, 10, levelAdd)

	agg, ok := a.get(100)
	require.True(t, ok)
	assert.EqualValues(t, 10, agg.QuantitySum)
	assert.EqualValues(t, 1, agg.LiveCount)
}

func TestLevelAggregates_MatchLeavesCountUnchanged(t *testing.T) {
	a := newLevelAggregates()
	a.apply(100, 10, levelAdd)
	a.apply(100, 4, levelMatch)

	agg, ok := a.get(100)
	require.True(t, ok)
	assert.EqualValues(t, 6, agg.QuantitySum)
	assert.EqualValues(t, 1, agg.LiveCount)
}

func TestLevelAggregates_RemoveErasesEmptyLevel(t *testing.T) {
	a := newLevelAggregates()
	a.apply(100, 10, levelAdd)
	a.apply(100, 10, levelRemove)

	_, ok := a.get(100)
	assert.False(t, ok)
}

func TestLevelAggregates_MultipleOrdersAtLevel(t *testing.T) {
	a := newLevelAggregates()
	a.apply(100, 10, levelAdd)
	a.apply(100, 5, levelAdd)

	agg, ok := a.get(100)
	require.True(t, ok)
	assert.EqualValues(t, 15, agg.QuantitySum)
	assert.EqualValues(t, 2, agg.LiveCount)

	a.apply(100, 10, levelRemove)
	agg, ok = a.get(100)
	require.True(t, ok)
	assert.EqualValues(t, 5, agg.QuantitySum)
	assert.EqualValues(t, 1, agg.LiveCount)
}

func TestLevelAggregates_IterateAllOrdering(t *testing.T) {
	a := newLevelAggregates()
	a.apply(102, 1, levelAdd)
	a.apply(100, 1, levelAdd)
	a.apply(105, 1, levelAdd)

	var ascending []int32
	a.iterateAll(true, func(price int32, _ *LevelAggregate) bool {
		ascending = append(ascending, price)
		return true
	})
	assert.Equal(t, []int32{100, 102, 105}, ascending)

	var descending []int32
	a.iterateAll(false, func(price int32, _ *LevelAggregate) bool {
		descending = append(descending, price)
		return true
	})
	assert.Equal(t, []int32{105, 102, 100}, descending)
}
