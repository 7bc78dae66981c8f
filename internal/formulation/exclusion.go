package formulation

import (
	"math"
	"sort"

	"example.com/your_project/wave-picking/internal/reduction"
)

// Exclusion is what a search phase takes out of consideration: the
// lowest-capacity aisles (plus every invalid aisle), the items none of the
// remaining aisles stock, and the orders needing such items.
type Exclusion struct {
	Fraction float64
	Aisles   []int
	Items    []int
	Orders   []int

	numAisles int
}

// Exclude computes the exclusion sets for a retention fraction in [0, 1]:
// the ⌊fraction·NA⌋ aisles of smallest Cap (ties broken by index) are
// excluded together with the invalid aisles.
func Exclude(red *reduction.Reduced, fraction float64) Exclusion {
	na := red.NumAisles()
	ex := Exclusion{Fraction: fraction, numAisles: na}

	order := make([]int, na)
	for a := range order {
		order[a] = a
	}
	sort.SliceStable(order, func(i, j int) bool {
		return red.Cap(order[i]) < red.Cap(order[j])
	})
	k := int(math.Floor(fraction * float64(na)))
	k = max(0, min(k, na))

	excluded := make([]bool, na)
	for _, a := range order[:k] {
		excluded[a] = true
	}
	for _, a := range red.Invalid() {
		excluded[a] = true
	}
	for a, x := range excluded {
		if x {
			ex.Aisles = append(ex.Aisles, a)
		}
	}

	inst := red.Source()
	orders := make(map[int]struct{})
	for item := 0; item < inst.NumItems(); item++ {
		requesters := inst.OrdersByItem(item)
		if len(requesters) == 0 {
			continue
		}
		reachable := false
		for _, a := range red.AislesByItem(item) {
			if !excluded[a] {
				reachable = true
				break
			}
		}
		if reachable {
			continue
		}
		ex.Items = append(ex.Items, item)
		for _, o := range requesters {
			orders[o] = struct{}{}
		}
	}
	for _, o := range red.Unservable() {
		orders[o] = struct{}{}
	}
	for o := range orders {
		ex.Orders = append(ex.Orders, o)
	}
	sort.Ints(ex.Orders)

	return ex
}

// Available is the number of aisles a sub-problem may still visit.
func (ex Exclusion) Available() int {
	return ex.numAisles - len(ex.Aisles)
}
