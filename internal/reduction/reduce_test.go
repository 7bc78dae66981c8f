package reduction

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/your_project/wave-picking/internal/warehouse"
)

func TestCapacityCappedToDemand(t *testing.T) {
	inst := warehouse.New(
		[]map[int]int{{0: 3}, {0: 4}},
		[]map[int]int{{0: 100}},
		1, 1, 20,
	)
	red := Reduce(inst, nil)

	require.True(t, red.Valid(0))
	assert.Equal(t, 7, red.Cap(0))
	assert.Equal(t, map[int]int{0: 7}, red.Capacity(0))
	assert.Equal(t, 100, inst.Aisle(0)[0], "the source instance is not modified")
}

func TestCapacityInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 50; n++ {
		inst := randomInstance(rng, 4, 5, 6)
		red := Reduce(inst, nil)
		for a := 0; a < red.NumAisles(); a++ {
			if !red.Valid(a) {
				assert.Equal(t, -1, red.Cap(a))
				assert.Nil(t, red.Capacity(a))
				continue
			}
			total := 0
			for item, qty := range red.Capacity(a) {
				assert.LessOrEqual(t, qty, inst.Demand(item), "aisle %d item %d", a, item)
				assert.Positive(t, qty)
				total += qty
			}
			assert.Equal(t, total, red.Cap(a))
		}
	}
}

func TestDuplicateAislesInvalidated(t *testing.T) {
	inst := warehouse.New(
		[]map[int]int{{0: 5}},
		[]map[int]int{{0: 5}, {0: 5}},
		1, 1, 20,
	)
	red := Reduce(inst, nil)

	assert.Equal(t, []State{Valid, Invalid}, red.States())
	assert.Equal(t, Duplicate, red.Reason(1))
	assert.Equal(t, []int{1}, red.Invalid())
	assert.Equal(t, -1, red.Cap(1))
	assert.Equal(t, []int{0}, red.AislesByItem(0))
}

func TestDuplicatesDetectedAfterCapping(t *testing.T) {
	inst := warehouse.New(
		[]map[int]int{{0: 5}},
		[]map[int]int{{0: 10}, {0: 20}},
		1, 1, 20,
	)
	red := Reduce(inst, nil)

	assert.True(t, red.Valid(0))
	assert.Equal(t, Duplicate, red.Reason(1))
}

func TestDominatedAislesInvalidated(t *testing.T) {
	inst := warehouse.New(
		[]map[int]int{{0: 2}, {1: 3}},
		[]map[int]int{{0: 2}, {0: 2, 1: 3}, {1: 1}},
		2, 1, 20,
	)
	red := Reduce(inst, nil)

	assert.Equal(t, []int{0, 2}, red.Invalid())
	assert.Equal(t, Dominated, red.Reason(0))
	assert.Equal(t, Dominated, red.Reason(2))
	assert.Equal(t, []int{0, 2}, red.Dominates(1))
	assert.Equal(t, []int{0, 1}, red.Full(1))

	assert.Equal(t, []int{0, 1}, red.Fits(1))
	assert.Equal(t, []int{0, 1}, red.Sole(1))
	assert.Equal(t, []int{0, 1}, red.Group(1))
}

func TestPriorStatesKept(t *testing.T) {
	inst := warehouse.New(
		[]map[int]int{{0: 1}, {1: 1}},
		[]map[int]int{{0: 1}, {1: 1}},
		2, 1, 20,
	)
	red := Reduce(inst, []State{Invalid})

	assert.Equal(t, Prior, red.Reason(0))
	assert.True(t, red.Valid(1))
	assert.Equal(t, []int{0}, red.Unservable(), "item 0 has no valid aisle left")
}

func TestGroups(t *testing.T) {
	inst := warehouse.New(
		[]map[int]int{{0: 2}, {1: 2}, {2: 2}},
		[]map[int]int{{0: 2, 1: 2}, {0: 2, 2: 2}},
		3, 1, 20,
	)
	red := Reduce(inst, nil)

	require.Empty(t, red.Invalid())
	assert.Equal(t, []int{0, 1}, red.Fits(0))
	assert.Equal(t, []int{0, 2}, red.Fits(1))
	assert.Equal(t, []int{1}, red.Sole(0))
	assert.Equal(t, []int{2}, red.Sole(1))
	assert.Equal(t, []int{1}, red.Group(0))
	assert.Equal(t, []int{2}, red.Group(1))
}

func TestMalformedEntriesIgnored(t *testing.T) {
	inst := warehouse.New(
		[]map[int]int{{0: 1}, {1: 1}, {5: 1}},
		[]map[int]int{{0: 3, 7: 2, 1: 0}},
		2, 1, 20,
	)
	red := Reduce(inst, nil)

	assert.Equal(t, 2, red.Ignored())
	assert.Equal(t, map[int]int{0: 1}, red.Capacity(0))
	assert.Equal(t, []int{1, 2}, red.Unservable())
	assert.Equal(t, []int{0}, red.Fits(0))
}

func TestReduceIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for n := 0; n < 50; n++ {
		inst := randomInstance(rng, 5, 6, 4)
		first := Reduce(inst, nil)
		second := Reduce(first.Capped(), first.States())

		if diff := cmp.Diff(first.States(), second.States()); diff != "" {
			t.Fatalf("states changed on re-reduction (-first +second):\n%s", diff)
		}
		if diff := cmp.Diff(first.Caps(), second.Caps()); diff != "" {
			t.Fatalf("caps changed on re-reduction (-first +second):\n%s", diff)
		}
		for a := 0; a < first.NumAisles(); a++ {
			assert.Equal(t, first.Capacity(a), second.Capacity(a), "capacity of aisle %d", a)
			assert.Equal(t, first.Group(a), second.Group(a), "group of aisle %d", a)
			assert.Equal(t, first.Fits(a), second.Fits(a), "fits of aisle %d", a)
		}
		assert.Equal(t, first.Unservable(), second.Unservable())
	}
}

func TestSummary(t *testing.T) {
	inst := warehouse.New(
		[]map[int]int{{0: 5}},
		[]map[int]int{{0: 5}, {0: 5}},
		1, 1, 20,
	)
	s := Reduce(inst, nil).Summary()

	assert.Equal(t, 2, s.Aisles)
	assert.Equal(t, 1, s.Valid)
	assert.Equal(t, map[int]string{1: "duplicate"}, s.Invalid)
	assert.Equal(t, []int{5, -1}, s.Cap)
	assert.Equal(t, map[int][]int{0: {0}}, s.Groups)
}

// randomInstance draws small instances with overlapping stock so that
// duplicates and dominance show up regularly.
func randomInstance(rng *rand.Rand, orders, aisles, items int) *warehouse.Instance {
	o := make([]map[int]int, orders)
	for i := range o {
		o[i] = make(map[int]int)
		for k := 1 + rng.Intn(2); k > 0; k-- {
			o[i][rng.Intn(items)] = 1 + rng.Intn(3)
		}
	}
	a := make([]map[int]int, aisles)
	for i := range a {
		a[i] = make(map[int]int)
		for k := 1 + rng.Intn(3); k > 0; k-- {
			a[i][rng.Intn(items)] = 1 + rng.Intn(6)
		}
	}
	return warehouse.New(o, a, items, 1, 12)
}
