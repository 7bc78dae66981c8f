package formulation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/your_project/wave-picking/internal/linear"
	"example.com/your_project/wave-picking/internal/reduction"
	"example.com/your_project/wave-picking/internal/warehouse"
)

func TestRatio(t *testing.T) {
	r := Ratio{Units: 10, Aisles: 3}

	assert.InDelta(t, 3.3333, r.Value(), 1e-4)
	assert.Zero(t, Ratio{}.Value())
	assert.Equal(t, "10/3", r.String())

	assert.True(t, Ratio{}.Less(r))
	assert.False(t, r.Less(Ratio{}))
	assert.False(t, Ratio{}.Less(Ratio{}))
	assert.True(t, Ratio{Units: 6, Aisles: 2}.Less(r))
	assert.False(t, Ratio{Units: 20, Aisles: 6}.Less(r), "equal ratios are not an improvement")
	assert.True(t, r.Less(Ratio{Units: 7, Aisles: 2}))

	assert.Equal(t, 7, r.MinUnits(2))
	assert.True(t, r.Less(Ratio{Units: 7, Aisles: 2}), "7 units over 2 aisles beats 10/3, so the cut must admit it")
	assert.Equal(t, 11, r.MinUnits(3), "an exact tie needs one more unit")
	assert.Equal(t, 11, Ratio{Units: 10, Aisles: 1}.MinUnits(1))
	assert.Equal(t, 1, Ratio{}.MinUnits(5))

	n, ok := r.MaxAisles(20)
	assert.True(t, ok)
	assert.Equal(t, 6, n)
	_, ok = Ratio{}.MaxAisles(20)
	assert.False(t, ok, "no bound without an incumbent")
}

// fiveAisles has one item per aisle with caps 3, 1, 5, 2, 4.
func fiveAisles() *reduction.Reduced {
	qty := []int{3, 1, 5, 2, 4}
	orders := make([]map[int]int, len(qty))
	aisles := make([]map[int]int, len(qty))
	for i, q := range qty {
		orders[i] = map[int]int{i: q}
		aisles[i] = map[int]int{i: q}
	}
	return reduction.Reduce(warehouse.New(orders, aisles, len(qty), 1, 100), nil)
}

func TestExclude(t *testing.T) {
	red := fiveAisles()
	require.Empty(t, red.Invalid())

	ex := Exclude(red, 0.4)
	assert.Equal(t, []int{1, 3}, ex.Aisles)
	assert.Equal(t, []int{1, 3}, ex.Items)
	assert.Equal(t, []int{1, 3}, ex.Orders)
	assert.Equal(t, 3, ex.Available())

	none := Exclude(red, 0)
	assert.Empty(t, none.Aisles)
	assert.Empty(t, none.Orders)
	assert.Equal(t, 5, none.Available())

	all := Exclude(red, 1)
	assert.Len(t, all.Aisles, 5)
	assert.Zero(t, all.Available())
}

func TestExcludeAlwaysDropsInvalid(t *testing.T) {
	red := reduction.Reduce(warehouse.New(
		[]map[int]int{{0: 5}},
		[]map[int]int{{0: 5}, {0: 5}},
		1, 1, 20,
	), nil)

	ex := Exclude(red, 0)
	assert.Equal(t, []int{1}, ex.Aisles)
	assert.Empty(t, ex.Items, "item 0 is still reachable through aisle 0")
	assert.Equal(t, 1, ex.Available())
}

func singleAisle() *reduction.Reduced {
	return reduction.Reduce(warehouse.New(
		[]map[int]int{{0: 5}, {0: 5}},
		[]map[int]int{{0: 10}},
		1, 1, 20,
	), nil)
}

func constraint(t *testing.T, prog *linear.Program, name string) *linear.Constraint {
	t.Helper()
	for _, c := range prog.Constraints {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("constraint %s not found", name)
	return nil
}

func TestBuild(t *testing.T) {
	red := singleAisle()
	prog, layout := Build(red, Params{L: 1, Exclusion: Exclude(red, 0)})

	require.Equal(t, 3, prog.NumVars())
	assert.True(t, prog.Maximize)
	for _, name := range []string{"group_0", "fits_0", "improvement", "wave_lb", "wave_ub", "stock_0", "aisle_count"} {
		constraint(t, prog, name)
	}
	assert.Equal(t, 1.0, constraint(t, prog, "improvement").RHS)
	assert.Equal(t, 1.0, constraint(t, prog, "aisle_count").RHS)

	all := []float64{1, 1, 1}
	assert.Nil(t, prog.Violated(all, 1e-9))
	assert.Equal(t, 10.0, prog.Value(all))
	assert.Equal(t, warehouse.Solution{Orders: []int{0, 1}, Aisles: []int{0}}, layout.Decode(all))

	half := []float64{1, 0, 1}
	assert.NotNil(t, prog.Violated(half, 1e-9), "the aisle group forces both orders")
}

func TestBuildImprovementCut(t *testing.T) {
	red := singleAisle()
	prog, _ := Build(red, Params{
		L:         1,
		Incumbent: Ratio{Units: 10, Aisles: 1},
		Exclusion: Exclude(red, 0),
	})

	cut := constraint(t, prog, "improvement")
	assert.Equal(t, 11.0, cut.RHS)
	assert.Equal(t, "improvement", prog.Violated([]float64{1, 1, 1}, 1e-9).Name)
}

func TestBuildExclusion(t *testing.T) {
	red := fiveAisles()
	prog, layout := Build(red, Params{L: 2, Exclusion: Exclude(red, 0.4)})

	for _, a := range []int{1, 3} {
		c := constraint(t, prog, fmt.Sprintf("excluded_aisle_%d", a))
		assert.Equal(t, layout.Aisles[a], c.Terms[0].Var)
		o := constraint(t, prog, fmt.Sprintf("excluded_order_%d", a))
		assert.Equal(t, layout.Orders[a], o.Terms[0].Var)
	}
	for _, c := range prog.Constraints {
		assert.NotEqual(t, "stock_1", c.Name, "excluded items carry no stock row")
	}

	values := make([]float64, prog.NumVars())
	for _, i := range []int{2, 4} {
		values[layout.Orders[i]] = 1
		values[layout.Aisles[i]] = 1
	}
	assert.Nil(t, prog.Violated(values, 1e-9))
	assert.Equal(t, 4.5, prog.Value(values))
}
