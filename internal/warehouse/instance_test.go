package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDerivedIndices(t *testing.T) {
	inst := New(
		[]map[int]int{{0: 2, 1: 3}, {1: 1}},
		[]map[int]int{{0: 5}, {1: 4, 0: 0}},
		2, 1, 10,
	)

	assert.Equal(t, 5, inst.Units(0))
	assert.Equal(t, 1, inst.Units(1))
	assert.Equal(t, 2, inst.Demand(0))
	assert.Equal(t, 4, inst.Demand(1))
	assert.Equal(t, []int{0}, inst.OrdersByItem(0))
	assert.Equal(t, []int{0, 1}, inst.OrdersByItem(1))
	assert.Equal(t, []int{0}, inst.AislesByItem(0), "zero quantities do not stock an item")
	assert.Equal(t, []int{1}, inst.AislesByItem(1))

	assert.Zero(t, inst.Demand(7))
	assert.Nil(t, inst.OrdersByItem(-1))
	assert.Nil(t, inst.AislesByItem(2))
}

func TestMalformed(t *testing.T) {
	inst := New(
		[]map[int]int{{0: 1}, {5: 1}, {1: 0}, {}},
		nil,
		2, 0, 10,
	)

	assert.False(t, inst.Malformed(0))
	assert.True(t, inst.Malformed(1), "item out of range")
	assert.True(t, inst.Malformed(2), "non-positive quantity")
	assert.False(t, inst.Malformed(3))
	assert.Equal(t, 1, inst.Units(1), "units still count the raw entry")
	assert.Zero(t, inst.Demand(1))
}

func TestSortedItems(t *testing.T) {
	assert.Equal(t, []int{1, 3, 9}, SortedItems(map[int]int{9: 1, 1: 1, 3: 1}))
	assert.Empty(t, SortedItems(nil))
}
