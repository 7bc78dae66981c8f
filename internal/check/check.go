// Package check validates a wave against the unreduced instance and computes
// its objective.
package check

import (
	"errors"
	"fmt"

	"example.com/your_project/wave-picking/internal/warehouse"
)

var (
	ErrEmpty        = errors.New("empty wave")
	ErrUnknownIndex = errors.New("index out of range")
	ErrDuplicate    = errors.New("duplicate index")
	ErrWaveSize     = errors.New("wave size outside bounds")
	ErrStock        = errors.New("insufficient stock")
)

// Feasible returns nil when sol selects at least one order and one aisle,
// its total units lie in [LB, UB] and, per item, the selected aisles stock at
// least what the selected orders request. The error wraps one of the
// package's sentinel errors.
func Feasible(inst *warehouse.Instance, sol warehouse.Solution) error {
	if len(sol.Orders) == 0 || len(sol.Aisles) == 0 {
		return ErrEmpty
	}
	if err := distinct("order", sol.Orders, inst.NumOrders()); err != nil {
		return err
	}
	if err := distinct("aisle", sol.Aisles, inst.NumAisles()); err != nil {
		return err
	}

	picked := make(map[int]int)
	total := 0
	for _, o := range sol.Orders {
		for item, qty := range inst.Order(o) {
			picked[item] += qty
			total += qty
		}
	}
	if total < inst.WaveSizeLB() || total > inst.WaveSizeUB() {
		return fmt.Errorf("%w: %d units, bounds [%d, %d]", ErrWaveSize, total, inst.WaveSizeLB(), inst.WaveSizeUB())
	}

	available := make(map[int]int)
	for _, a := range sol.Aisles {
		for item, qty := range inst.Aisle(a) {
			if inst.InRange(item) && qty > 0 {
				available[item] += qty
			}
		}
	}
	for _, item := range warehouse.SortedItems(picked) {
		if picked[item] > available[item] {
			return fmt.Errorf("%w: item %d needs %d units, %d available", ErrStock, item, picked[item], available[item])
		}
	}
	return nil
}

func distinct(what string, idx []int, n int) error {
	seen := make(map[int]bool, len(idx))
	for _, i := range idx {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %s %d (have %d)", ErrUnknownIndex, what, i, n)
		}
		if seen[i] {
			return fmt.Errorf("%w: %s %d", ErrDuplicate, what, i)
		}
		seen[i] = true
	}
	return nil
}

// Units is the total number of units the selected orders request.
func Units(inst *warehouse.Instance, sol warehouse.Solution) int {
	total := 0
	for _, o := range sol.Orders {
		if o >= 0 && o < inst.NumOrders() {
			total += inst.Units(o)
		}
	}
	return total
}

// Objective is units picked per aisle visited, or 0 for an empty wave.
func Objective(inst *warehouse.Instance, sol warehouse.Solution) float64 {
	if len(sol.Orders) == 0 || len(sol.Aisles) == 0 {
		return 0
	}
	return float64(Units(inst, sol)) / float64(len(sol.Aisles))
}
