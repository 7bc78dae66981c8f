// Package formulation turns a reduced wave instance into the fixed-L
// sub-problem handed to a MIP solver.
//
// For a given aisle count L the ratio objective units/L becomes linear, so
// each sub-problem is a plain binary program: pick orders and exactly L
// aisles, keep per-item supply above demand, stay inside the wave band and
// beat the incumbent ratio by at least one unit.
package formulation

import (
	"fmt"

	"example.com/your_project/wave-picking/internal/linear"
	"example.com/your_project/wave-picking/internal/reduction"
	"example.com/your_project/wave-picking/internal/warehouse"
)

// Ratio is an exact units-per-aisle value. The zero Ratio means no wave.
type Ratio struct {
	Units  int
	Aisles int
}

// Value returns Units/Aisles, or 0 when no aisle is visited.
func (r Ratio) Value() float64 {
	if r.Aisles == 0 {
		return 0
	}
	return float64(r.Units) / float64(r.Aisles)
}

// Less reports whether r is strictly worse than other.
func (r Ratio) Less(other Ratio) bool {
	if other.Aisles == 0 {
		return false
	}
	if r.Aisles == 0 {
		return other.Units > 0
	}
	return r.Units*other.Aisles < other.Units*r.Aisles
}

// MinUnits is the fewest units a wave over l aisles needs to strictly beat r:
// ⌊r·l⌋ + 1, the smallest integer above r·l. It is the weakest cut that
// still rules out ties, so no strictly better wave is ever cut off; a
// ceiling-based bound such as ⌈r⌉·l + 1 can skip better waves when r is
// fractional.
func (r Ratio) MinUnits(l int) int {
	if r.Aisles == 0 {
		return 1
	}
	return r.Units*l/r.Aisles + 1
}

// MaxAisles is ⌊ub / r⌋, the largest aisle count that can still beat r within
// the wave upper bound. ok is false when r is zero: the rule gives no bound.
func (r Ratio) MaxAisles(ub int) (n int, ok bool) {
	if r.Units <= 0 || r.Aisles == 0 {
		return 0, false
	}
	return ub * r.Aisles / r.Units, true
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Units, r.Aisles)
}

// Params selects one sub-problem.
type Params struct {
	L         int
	Incumbent Ratio
	Exclusion Exclusion
}

// Layout maps program variables back to orders and aisles.
type Layout struct {
	Orders []linear.Var
	Aisles []linear.Var
}

// Decode returns the orders and aisles whose variables are set in values.
func (l Layout) Decode(values []float64) warehouse.Solution {
	var sol warehouse.Solution
	for o, v := range l.Orders {
		if int(v) < len(values) && values[v] > 0.5 {
			sol.Orders = append(sol.Orders, o)
		}
	}
	for a, v := range l.Aisles {
		if int(v) < len(values) && values[v] > 0.5 {
			sol.Aisles = append(sol.Aisles, a)
		}
	}
	return sol
}

// Build formulates the sub-problem for params.L aisles.
func Build(red *reduction.Reduced, params Params) (*linear.Program, Layout) {
	inst := red.Source()
	no, na := inst.NumOrders(), red.NumAisles()
	l := params.L

	prog := &linear.Program{Maximize: true}
	layout := Layout{
		Orders: make([]linear.Var, no),
		Aisles: make([]linear.Var, na),
	}
	for o := range layout.Orders {
		layout.Orders[o] = prog.NewVar(fmt.Sprintf("p_%d", o))
	}
	for a := range layout.Aisles {
		layout.Aisles[a] = prog.NewVar(fmt.Sprintf("c_%d", a))
	}
	p, c := layout.Orders, layout.Aisles

	for o := 0; o < no; o++ {
		prog.Objective = append(prog.Objective, linear.Term{Var: p[o], Coef: float64(inst.Units(o)) / float64(l)})
	}

	/* Excluded aisles are never visited. */
	for _, a := range params.Exclusion.Aisles {
		prog.Add(fmt.Sprintf("excluded_aisle_%d", a), linear.Equal, 0).NewTerm(1, c[a])
	}

	/* Visiting an aisle picks exactly the orders tied to it, and those orders
	cannot be picked without it. */
	for a := 0; a < na; a++ {
		group := red.Group(a)
		if len(group) == 0 {
			continue
		}
		link := prog.Add(fmt.Sprintf("group_%d", a), linear.Equal, 0)
		for _, o := range group {
			link.NewTerm(1, p[o])
		}
		link.NewTerm(-float64(len(group)), c[a])
	}

	/* Orders depending on excluded items are dropped. */
	for _, o := range params.Exclusion.Orders {
		prog.Add(fmt.Sprintf("excluded_order_%d", o), linear.Equal, 0).NewTerm(1, p[o])
	}

	/* Visiting an aisle picks every order it can serve on its own. */
	for a := 0; a < na; a++ {
		fits := red.Fits(a)
		if len(fits) == 0 {
			continue
		}
		cover := prog.Add(fmt.Sprintf("fits_%d", a), linear.GreaterOrEqual, 0)
		for _, o := range fits {
			cover.NewTerm(1, p[o])
		}
		cover.NewTerm(-float64(len(fits)), c[a])
	}

	/* Wave size: strictly better than the incumbent and inside [LB, UB]. */
	cut := prog.Add("improvement", linear.GreaterOrEqual, float64(params.Incumbent.MinUnits(l)))
	lower := prog.Add("wave_lb", linear.GreaterOrEqual, float64(inst.WaveSizeLB()))
	upper := prog.Add("wave_ub", linear.LessOrEqual, float64(inst.WaveSizeUB()))
	for o := 0; o < no; o++ {
		units := float64(inst.Units(o))
		cut.NewTerm(units, p[o])
		lower.NewTerm(units, p[o])
		upper.NewTerm(units, p[o])
	}

	/* Per item, picked units never exceed the stock of visited aisles. */
	skip := make(map[int]bool, len(params.Exclusion.Items))
	for _, item := range params.Exclusion.Items {
		skip[item] = true
	}
	for item := 0; item < inst.NumItems(); item++ {
		requesters := inst.OrdersByItem(item)
		if skip[item] || len(requesters) == 0 {
			continue
		}
		stock := prog.Add(fmt.Sprintf("stock_%d", item), linear.LessOrEqual, 0)
		for _, o := range requesters {
			stock.NewTerm(float64(inst.Order(o)[item]), p[o])
		}
		for _, a := range red.AislesByItem(item) {
			stock.NewTerm(-float64(red.Capacity(a)[item]), c[a])
		}
	}

	/* Exactly L aisles. */
	count := prog.Add("aisle_count", linear.Equal, float64(l))
	for a := 0; a < na; a++ {
		count.NewTerm(1, c[a])
	}

	return prog, layout
}
