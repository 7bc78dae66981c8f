package search

import (
	"sync"

	"example.com/your_project/wave-picking/internal/formulation"
	"example.com/your_project/wave-picking/internal/warehouse"
)

// Incumbent is the best wave found so far. Its ratio never decreases.
type Incumbent struct {
	mu    sync.Mutex
	ratio formulation.Ratio
	sol   warehouse.Solution
}

// Offer replaces the incumbent when ratio is strictly better and reports
// whether it did.
func (inc *Incumbent) Offer(ratio formulation.Ratio, sol warehouse.Solution) bool {
	inc.mu.Lock()
	defer inc.mu.Unlock()
	if !inc.ratio.Less(ratio) {
		return false
	}
	inc.ratio = ratio
	inc.sol = warehouse.Solution{
		Orders: append([]int(nil), sol.Orders...),
		Aisles: append([]int(nil), sol.Aisles...),
	}
	return true
}

// Best returns the current incumbent.
func (inc *Incumbent) Best() (formulation.Ratio, warehouse.Solution) {
	inc.mu.Lock()
	defer inc.mu.Unlock()
	return inc.ratio, inc.sol
}

// Ratio returns the incumbent ratio.
func (inc *Incumbent) Ratio() formulation.Ratio {
	inc.mu.Lock()
	defer inc.mu.Unlock()
	return inc.ratio
}
