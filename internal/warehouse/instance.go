// Package warehouse holds the problem model of a picking wave: orders, aisles,
// the item universe and the wave-size band, plus the per-item indices every
// later stage reads from.
package warehouse

import "sort"

// Instance is one wave-selection problem. It is read-only after New returns.
type Instance struct {
	orders []map[int]int
	aisles []map[int]int
	nItems int
	lb, ub int

	units        []int
	demand       []int
	ordersByItem [][]int
	aislesByItem [][]int
}

// New builds an instance and computes the derived per-order units and
// per-item demand. Entries that reference an item outside [0, nItems) are
// kept in the raw maps but left out of every derived index.
func New(orders, aisles []map[int]int, nItems, waveSizeLB, waveSizeUB int) *Instance {
	if nItems < 0 {
		nItems = 0
	}
	inst := &Instance{
		orders:       orders,
		aisles:       aisles,
		nItems:       nItems,
		lb:           waveSizeLB,
		ub:           waveSizeUB,
		units:        make([]int, len(orders)),
		demand:       make([]int, nItems),
		ordersByItem: make([][]int, nItems),
		aislesByItem: make([][]int, nItems),
	}

	for o, order := range orders {
		for _, item := range SortedItems(order) {
			qty := order[item]
			inst.units[o] += qty
			if !inst.InRange(item) {
				continue
			}
			inst.demand[item] += qty
			inst.ordersByItem[item] = append(inst.ordersByItem[item], o)
		}
	}
	for a, aisle := range aisles {
		for _, item := range SortedItems(aisle) {
			if inst.InRange(item) && aisle[item] > 0 {
				inst.aislesByItem[item] = append(inst.aislesByItem[item], a)
			}
		}
	}

	return inst
}

func (inst *Instance) NumOrders() int { return len(inst.orders) }
func (inst *Instance) NumAisles() int { return len(inst.aisles) }
func (inst *Instance) NumItems() int { return inst.nItems }
func (inst *Instance) WaveSizeLB() int { return inst.lb }
func (inst *Instance) WaveSizeUB() int { return inst.ub }

// InRange reports whether item is a valid item id for this instance.
func (inst *Instance) InRange(item int) bool {
	return item >= 0 && item < inst.nItems
}

// Order returns the item quantities requested by order o. The map must not be
// modified.
func (inst *Instance) Order(o int) map[int]int { return inst.orders[o] }

// Aisle returns the raw item capacities of aisle a. The map must not be
// modified.
func (inst *Instance) Aisle(a int) map[int]int { return inst.aisles[a] }

// Units is the total number of units requested by order o.
func (inst *Instance) Units(o int) int { return inst.units[o] }

// Demand is the total quantity of item requested across all orders.
func (inst *Instance) Demand(item int) int {
	if !inst.InRange(item) {
		return 0
	}
	return inst.demand[item]
}

// OrdersByItem lists, in ascending order, the orders requesting item.
func (inst *Instance) OrdersByItem(item int) []int {
	if !inst.InRange(item) {
		return nil
	}
	return inst.ordersByItem[item]
}

// AislesByItem lists, in ascending order, the aisles stocking item with a
// positive quantity.
func (inst *Instance) AislesByItem(item int) []int {
	if !inst.InRange(item) {
		return nil
	}
	return inst.aislesByItem[item]
}

// Malformed reports whether order o references an item id outside the
// instance or a non-positive quantity.
func (inst *Instance) Malformed(o int) bool {
	for item, qty := range inst.orders[o] {
		if !inst.InRange(item) || qty <= 0 {
			return true
		}
	}
	return false
}

// SortedItems returns the keys of an item map in ascending order so callers
// iterate deterministically.
func SortedItems(m map[int]int) []int {
	items := make([]int, 0, len(m))
	for item := range m {
		items = append(items, item)
	}
	sort.Ints(items)
	return items
}
