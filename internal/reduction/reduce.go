// Package reduction shrinks a wave instance before any sub-problem is built.
//
// It caps every aisle capacity at the true demand of its item, invalidates
// duplicate and dominated aisles, and precomputes the order groups that tie
// an order to the only aisle able to serve it. Invalid aisles keep their
// index so that order and aisle indices stay stable across search phases.
package reduction

import (
	"sort"
	"strconv"

	"example.com/your_project/wave-picking/internal/warehouse"
)

// State tags an aisle as usable or not.
type State uint8

const (
	Valid State = iota
	Invalid
)

func (s State) String() string {
	if s == Invalid {
		return "invalid"
	}
	return "valid"
}

// Reason records why an aisle was invalidated.
type Reason uint8

const (
	None Reason = iota
	Prior
	Duplicate
	Dominated
)

func (r Reason) String() string {
	switch r {
	case Prior:
		return "prior"
	case Duplicate:
		return "duplicate"
	case Dominated:
		return "dominated"
	}
	return "none"
}

// Reduced is the output of Reduce. All slices are indexed by the original
// order and aisle indices and must be treated as read-only.
type Reduced struct {
	inst *warehouse.Instance

	states   []State
	reasons  []Reason
	capacity []map[int]int

	full      [][]int
	stocked   [][]int
	dominates [][]int
	fits      [][]int
	sole      [][]int
	groups    [][]int
	cap       []int

	aislesByItem [][]int
	unservable   []int
	ignored      int
}

// Reduce runs the reduction on inst. prior optionally carries the aisle states
// of an earlier reduction; aisles marked Invalid there stay invalid. A nil or
// short prior treats the missing aisles as valid.
func Reduce(inst *warehouse.Instance, prior []State) *Reduced {
	na := inst.NumAisles()
	r := &Reduced{
		inst:      inst,
		states:    make([]State, na),
		reasons:   make([]Reason, na),
		capacity:  make([]map[int]int, na),
		full:      make([][]int, na),
		stocked:   make([][]int, na),
		dominates: make([][]int, na),
		fits:      make([][]int, na),
		sole:      make([][]int, na),
		groups:    make([][]int, na),
		cap:       make([]int, na),
	}
	for a := 0; a < na && a < len(prior); a++ {
		if prior[a] == Invalid {
			r.invalidate(a, Prior)
		}
	}

	r.capCapacities()
	r.removeDuplicates()
	r.classifyItems()
	r.removeDominated()
	r.indexItems()
	r.computeGroups()
	r.computeCap()
	r.findUnservable()

	return r
}

func (r *Reduced) invalidate(a int, why Reason) {
	if r.states[a] == Invalid {
		return
	}
	r.states[a] = Invalid
	r.reasons[a] = why
}

// capCapacities copies every valid aisle, truncating each capacity to the
// item's demand. Out-of-range items, non-positive quantities and items nobody
// requests are dropped.
func (r *Reduced) capCapacities() {
	for a := range r.capacity {
		if r.states[a] == Invalid {
			continue
		}
		raw := r.inst.Aisle(a)
		capped := make(map[int]int, len(raw))
		for item, qty := range raw {
			if !r.inst.InRange(item) || qty <= 0 {
				r.ignored++
				continue
			}
			if d := r.inst.Demand(item); qty > d {
				qty = d
			}
			if qty > 0 {
				capped[item] = qty
			}
		}
		r.capacity[a] = capped
	}
}

// removeDuplicates invalidates every valid aisle whose capped content equals
// that of a valid aisle with a smaller index.
func (r *Reduced) removeDuplicates() {
	seen := make(map[string]int)
	for a, c := range r.capacity {
		if r.states[a] == Invalid {
			continue
		}
		key := contentKey(c)
		if _, ok := seen[key]; ok {
			r.invalidate(a, Duplicate)
			r.capacity[a] = nil
			continue
		}
		seen[key] = a
	}
}

func contentKey(m map[int]int) string {
	items := warehouse.SortedItems(m)
	b := make([]byte, 0, len(items)*8)
	for _, item := range items {
		b = strconv.AppendInt(b, int64(item), 10)
		b = append(b, ':')
		b = strconv.AppendInt(b, int64(m[item]), 10)
		b = append(b, ',')
	}
	return string(b)
}

// classifyItems fills, for every valid aisle, the items it stocks at all and
// the items it can supply in full (capacity >= demand).
func (r *Reduced) classifyItems() {
	for a, c := range r.capacity {
		if r.states[a] == Invalid {
			continue
		}
		for _, item := range warehouse.SortedItems(c) {
			r.stocked[a] = append(r.stocked[a], item)
			if c[item] >= r.inst.Demand(item) {
				r.full[a] = append(r.full[a], item)
			}
		}
	}
}

// removeDominated invalidates every aisle i for which another valid aisle j
// can supply in full every item i stocks.
func (r *Reduced) removeDominated() {
	fullSet, fullByItem := r.fullIndex()
	var valid []int
	for a, st := range r.states {
		if st == Valid {
			valid = append(valid, a)
		}
	}

	var dominated []int
	for _, i := range valid {
		candidates := valid
		if items := r.stocked[i]; len(items) > 0 {
			candidates = fullByItem[rarest(items, fullByItem)]
		}
		for _, j := range candidates {
			if j == i || !containsAll(fullSet[j], r.stocked[i]) {
				continue
			}
			r.dominates[j] = append(r.dominates[j], i)
			if len(dominated) == 0 || dominated[len(dominated)-1] != i {
				dominated = append(dominated, i)
			}
		}
	}
	for _, i := range dominated {
		r.invalidate(i, Dominated)
		r.capacity[i] = nil
		r.full[i] = nil
		r.stocked[i] = nil
	}
}

// fullIndex returns, over valid aisles, each aisle's fully supplied items as a
// set and, per item, the aisles supplying it in full.
func (r *Reduced) fullIndex() ([]map[int]struct{}, map[int][]int) {
	fullSet := make([]map[int]struct{}, len(r.capacity))
	fullByItem := make(map[int][]int)
	for a := range r.capacity {
		if r.states[a] == Invalid {
			continue
		}
		fullSet[a] = make(map[int]struct{}, len(r.full[a]))
		for _, item := range r.full[a] {
			fullSet[a][item] = struct{}{}
			fullByItem[item] = append(fullByItem[item], a)
		}
	}
	return fullSet, fullByItem
}

func rarest(items []int, byItem map[int][]int) int {
	best := items[0]
	for _, item := range items[1:] {
		if len(byItem[item]) < len(byItem[best]) {
			best = item
		}
	}
	return best
}

func containsAll(set map[int]struct{}, items []int) bool {
	for _, item := range items {
		if _, ok := set[item]; !ok {
			return false
		}
	}
	return true
}

func (r *Reduced) indexItems() {
	r.aislesByItem = make([][]int, r.inst.NumItems())
	for a, c := range r.capacity {
		if r.states[a] == Invalid {
			continue
		}
		for _, item := range warehouse.SortedItems(c) {
			r.aislesByItem[item] = append(r.aislesByItem[item], a)
		}
	}
}

// computeGroups builds fits (orders an aisle alone can serve), sole (orders
// needing an item only that aisle stocks) and their intersection.
func (r *Reduced) computeGroups() {
	fullSet, fullByItem := r.fullIndex()
	for o := 0; o < r.inst.NumOrders(); o++ {
		if r.inst.Malformed(o) {
			continue
		}
		items := warehouse.SortedItems(r.inst.Order(o))
		if len(items) == 0 {
			continue
		}
		for _, a := range fullByItem[rarest(items, fullByItem)] {
			if containsAll(fullSet[a], items) {
				r.fits[a] = append(r.fits[a], o)
			}
		}
	}

	for item, aisles := range r.aislesByItem {
		if len(aisles) != 1 {
			continue
		}
		a := aisles[0]
		r.sole[a] = append(r.sole[a], r.inst.OrdersByItem(item)...)
	}
	for a := range r.sole {
		r.sole[a] = dedupe(r.sole[a])
		r.groups[a] = intersect(r.fits[a], r.sole[a])
	}
}

func dedupe(s []int) []int {
	if len(s) < 2 {
		return s
	}
	sort.Ints(s)
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// intersect expects both inputs sorted ascending.
func intersect(a, b []int) []int {
	var out []int
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func (r *Reduced) computeCap() {
	for a, c := range r.capacity {
		if r.states[a] == Invalid {
			r.cap[a] = -1
			continue
		}
		total := 0
		for _, qty := range c {
			total += qty
		}
		r.cap[a] = total
	}
}

func (r *Reduced) findUnservable() {
	for o := 0; o < r.inst.NumOrders(); o++ {
		if r.inst.Malformed(o) {
			r.unservable = append(r.unservable, o)
			continue
		}
		for item := range r.inst.Order(o) {
			if len(r.aislesByItem[item]) == 0 {
				r.unservable = append(r.unservable, o)
				break
			}
		}
	}
}
