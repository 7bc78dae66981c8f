package reduction

import "example.com/your_project/wave-picking/internal/warehouse"

// Source returns the instance the reduction was run on.
func (r *Reduced) Source() *warehouse.Instance { return r.inst }

func (r *Reduced) NumAisles() int { return len(r.states) }
func (r *Reduced) NumOrders() int { return r.inst.NumOrders() }

func (r *Reduced) State(a int) State { return r.states[a] }
func (r *Reduced) Reason(a int) Reason { return r.reasons[a] }
func (r *Reduced) Valid(a int) bool { return r.states[a] == Valid }

// States returns a copy of the per-aisle states, suitable as the prior of a
// later Reduce call.
func (r *Reduced) States() []State {
	return append([]State(nil), r.states...)
}

// Invalid lists the invalid aisles in ascending order.
func (r *Reduced) Invalid() []int {
	var out []int
	for a, st := range r.states {
		if st == Invalid {
			out = append(out, a)
		}
	}
	return out
}

// Capacity is the capped item capacity map of aisle a; nil when a is invalid.
func (r *Reduced) Capacity(a int) map[int]int { return r.capacity[a] }

// Cap is the summed capped capacity of aisle a, or -1 when a is invalid.
func (r *Reduced) Cap(a int) int { return r.cap[a] }

// Caps returns a copy of Cap for every aisle.
func (r *Reduced) Caps() []int { return append([]int(nil), r.cap...) }

// Full lists the items aisle a can supply up to their whole demand.
func (r *Reduced) Full(a int) []int { return r.full[a] }

// Stocked lists the items aisle a holds after capping.
func (r *Reduced) Stocked(a int) []int { return r.stocked[a] }

// Dominates lists the aisles that a made redundant.
func (r *Reduced) Dominates(a int) []int { return r.dominates[a] }

// Fits lists the orders aisle a can serve on its own.
func (r *Reduced) Fits(a int) []int { return r.fits[a] }

// Sole lists the orders requesting an item that only aisle a stocks.
func (r *Reduced) Sole(a int) []int { return r.sole[a] }

// Group lists the orders that must be picked exactly when aisle a is visited.
func (r *Reduced) Group(a int) []int { return r.groups[a] }

// AislesByItem lists the valid aisles stocking item.
func (r *Reduced) AislesByItem(item int) []int {
	if item < 0 || item >= len(r.aislesByItem) {
		return nil
	}
	return r.aislesByItem[item]
}

// Unservable lists the orders no combination of valid aisles can serve.
func (r *Reduced) Unservable() []int { return r.unservable }

// Ignored counts the aisle entries dropped as malformed.
func (r *Reduced) Ignored() int { return r.ignored }

// Capped returns an instance with the same orders and the capped aisle
// contents; invalid aisles are empty.
func (r *Reduced) Capped() *warehouse.Instance {
	orders := make([]map[int]int, r.inst.NumOrders())
	for o := range orders {
		orders[o] = r.inst.Order(o)
	}
	aisles := make([]map[int]int, len(r.capacity))
	for a, c := range r.capacity {
		aisles[a] = make(map[int]int, len(c))
		for item, qty := range c {
			aisles[a][item] = qty
		}
	}
	return warehouse.New(orders, aisles, r.inst.NumItems(), r.inst.WaveSizeLB(), r.inst.WaveSizeUB())
}

// Summary is a serializable view of a reduction.
type Summary struct {
	Aisles     int            `json:"aisles" yaml:"aisles"`
	Valid      int            `json:"valid" yaml:"valid"`
	Invalid    map[int]string `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	Cap        []int          `json:"cap" yaml:"cap,flow"`
	Groups     map[int][]int  `json:"groups,omitempty" yaml:"groups,omitempty"`
	Fits       map[int][]int  `json:"fits,omitempty" yaml:"fits,omitempty"`
	Unservable []int          `json:"unservable,omitempty" yaml:"unservable,omitempty,flow"`
	Ignored    int            `json:"ignored,omitempty" yaml:"ignored,omitempty"`
}

func (r *Reduced) Summary() Summary {
	s := Summary{
		Aisles:     len(r.states),
		Invalid:    make(map[int]string),
		Cap:        r.Caps(),
		Groups:     make(map[int][]int),
		Fits:       make(map[int][]int),
		Unservable: r.unservable,
		Ignored:    r.ignored,
	}
	for a, st := range r.states {
		if st == Invalid {
			s.Invalid[a] = r.reasons[a].String()
			continue
		}
		s.Valid++
		if len(r.groups[a]) > 0 {
			s.Groups[a] = r.groups[a]
		}
		if len(r.fits[a]) > 0 {
			s.Fits[a] = r.fits[a]
		}
	}
	return s
}
