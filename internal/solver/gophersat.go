package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	sat "github.com/crillab/gophersat/solver"

	"example.com/your_project/wave-picking/internal/linear"
)

// ErrNotIntegral is returned when a row or the objective cannot be scaled to
// integer weights.
var ErrNotIntegral = errors.New("coefficients cannot be scaled to integers")

// maxScale bounds the multiplier tried when scaling a row to integers.
const maxScale = 1 << 12

const tolerance = 1e-9

// Exhaustive solves a program to proven optimality with the gophersat
// pseudo-boolean optimizer. Rows and the objective are scaled to integer
// weights first; a fixed-L objective of units/L scales back by L.
type Exhaustive struct{}

func (e *Exhaustive) Solve(ctx context.Context, prog *linear.Program, limit time.Duration) (Result, error) {
	start := time.Now()
	if ctx.Err() != nil || limit <= 0 {
		return Result{Status: TimeLimitNoSolution}, nil
	}

	enc, feasible, err := encode(prog)
	if err != nil {
		return Result{}, err
	}
	if !feasible {
		return Result{Status: Infeasible, RunTime: time.Since(start)}, nil
	}
	lits, weights, err := enc.cost()
	if err != nil {
		return Result{}, err
	}

	values := enc.unconstrained()
	if len(enc.vars) == 0 {
		return Result{
			Status:    Optimal,
			Objective: prog.Value(values),
			Values:    values,
			RunTime:   time.Since(start),
		}, nil
	}

	pb := sat.ParsePBConstrs(enc.constraints())
	if len(lits) > 0 {
		pb.SetCostFunc(lits, weights)
	}
	s := sat.New(pb)

	stop := make(chan struct{})
	done := make(chan struct{})
	var stopped atomic.Bool
	go func() {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		select {
		case <-done:
			return
		case <-ctx.Done():
		case <-timer.C:
		}
		stopped.Store(true)
		close(stop)
	}()
	res := s.Optimal(nil, stop)
	close(done)

	result := Result{RunTime: time.Since(start)}
	switch res.Status {
	case sat.Sat:
		for i, v := range enc.vars {
			if i < len(res.Model) && res.Model[i] {
				values[v] = 1
			}
		}
		result.Status = Optimal
		if stopped.Load() {
			result.Status = Feasible
		}
		result.Values = values
		result.Objective = prog.Value(values)
	case sat.Unsat:
		result.Status = Infeasible
	default:
		result.Status = TimeLimitNoSolution
	}
	return result, nil
}

// row is Σ weights·literals ≥ atLeast with positive weights. A negated
// literal stands for 1 - var.
type row struct {
	vars    []linear.Var
	negated []bool
	weights []int
	atLeast int
}

// encoding maps the program variables that appear in some non-trivial row to
// gophersat variables 1..n.
type encoding struct {
	prog *linear.Program
	rows []row
	lit  map[linear.Var]int
	vars []linear.Var
}

// encode scales every row to integers and keeps the ones that constrain
// anything. feasible is false when a row can be refuted without search.
func encode(prog *linear.Program) (enc *encoding, feasible bool, err error) {
	enc = &encoding{prog: prog, lit: make(map[linear.Var]int)}
	for _, c := range prog.Constraints {
		vars, coefs := merge(c.Terms)
		k, ok := integralScale(coefs)
		if !ok {
			return nil, false, fmt.Errorf("%w: row %s", ErrNotIntegral, c.Name)
		}
		scaled := make([]int, len(coefs))
		for i, coef := range coefs {
			scaled[i] = int(math.Round(coef * float64(k)))
		}
		rhs := c.RHS * float64(k)

		var bounds []row
		switch c.Sense {
		case linear.GreaterOrEqual:
			bounds = append(bounds, atLeast(vars, scaled, int(math.Ceil(rhs-tolerance))))
		case linear.LessOrEqual:
			bounds = append(bounds, atLeast(vars, negate(scaled), -int(math.Floor(rhs+tolerance))))
		default:
			if math.Abs(rhs-math.Round(rhs)) > tolerance {
				return enc, false, nil
			}
			n := int(math.Round(rhs))
			bounds = append(bounds, atLeast(vars, scaled, n), atLeast(vars, negate(scaled), -n))
		}
		for _, r := range bounds {
			total := 0
			for _, w := range r.weights {
				total += w
			}
			if total < r.atLeast {
				return enc, false, nil
			}
			if r.atLeast > 0 {
				enc.rows = append(enc.rows, r)
			}
		}
	}

	for _, r := range enc.rows {
		for _, v := range r.vars {
			if _, ok := enc.lit[v]; !ok {
				enc.vars = append(enc.vars, v)
				enc.lit[v] = len(enc.vars)
			}
		}
	}
	return enc, true, nil
}

// atLeast normalizes Σ coefs·vars ≥ n to positive weights by flipping the
// literal of every negative coefficient.
func atLeast(vars []linear.Var, coefs []int, n int) row {
	r := row{atLeast: n}
	for i, v := range vars {
		w := coefs[i]
		if w == 0 {
			continue
		}
		neg := w < 0
		if neg {
			w = -w
			r.atLeast += w
		}
		r.vars = append(r.vars, v)
		r.negated = append(r.negated, neg)
		r.weights = append(r.weights, w)
	}
	return r
}

// constraints translates the kept rows to gophersat constraints.
func (enc *encoding) constraints() []sat.PBConstr {
	constrs := make([]sat.PBConstr, 0, len(enc.rows))
	for _, r := range enc.rows {
		lits := make([]int, len(r.vars))
		for i, v := range r.vars {
			lits[i] = enc.lit[v]
			if r.negated[i] {
				lits[i] = -lits[i]
			}
		}
		weights := append([]int(nil), r.weights...)
		constrs = append(constrs, sat.GtEq(lits, weights, r.atLeast))
	}
	return constrs
}

// unconstrained sets every variable outside all kept rows to its best value
// under the objective.
func (enc *encoding) unconstrained() []float64 {
	values := make([]float64, enc.prog.NumVars())
	gain := make([]float64, len(values))
	for _, t := range enc.prog.Objective {
		gain[t.Var] += t.Coef
	}
	for v, g := range gain {
		if _, ok := enc.lit[linear.Var(v)]; ok {
			continue
		}
		if (enc.prog.Maximize && g > tolerance) || (!enc.prog.Maximize && g < -tolerance) {
			values[v] = 1
		}
	}
	return values
}

// cost is the objective as a minimization over positive integer weights.
func (enc *encoding) cost() ([]sat.Lit, []int, error) {
	var terms []linear.Term
	for _, t := range enc.prog.Objective {
		if _, ok := enc.lit[t.Var]; ok {
			terms = append(terms, t)
		}
	}
	vars, coefs := merge(terms)
	k, ok := integralScale(coefs)
	if !ok {
		return nil, nil, fmt.Errorf("%w: objective", ErrNotIntegral)
	}

	var lits []sat.Lit
	var weights []int
	for i, v := range vars {
		w := int(math.Round(coefs[i] * float64(k)))
		if enc.prog.Maximize {
			w = -w
		}
		lit := enc.lit[v]
		if w == 0 {
			continue
		}
		if w < 0 {
			lit, w = -lit, -w
		}
		lits = append(lits, sat.IntToLit(int32(lit)))
		weights = append(weights, w)
	}
	return lits, weights, nil
}

// merge sums the coefficients of repeated variables, keeping first-seen order.
func merge(terms []linear.Term) ([]linear.Var, []float64) {
	index := make(map[linear.Var]int, len(terms))
	var vars []linear.Var
	var coefs []float64
	for _, t := range terms {
		if t.Coef == 0 {
			continue
		}
		i, ok := index[t.Var]
		if !ok {
			i = len(vars)
			index[t.Var] = i
			vars = append(vars, t.Var)
			coefs = append(coefs, 0)
		}
		coefs[i] += t.Coef
	}
	return vars, coefs
}

// integralScale is the smallest k ≤ maxScale turning every coefficient into
// an integer.
func integralScale(coefs []float64) (int, bool) {
	for k := 1; k <= maxScale; k++ {
		ok := true
		for _, c := range coefs {
			x := c * float64(k)
			if math.Abs(x-math.Round(x)) > 1e-6 {
				ok = false
				break
			}
		}
		if ok {
			return k, true
		}
	}
	return 0, false
}

func negate(coefs []int) []int {
	out := make([]int, len(coefs))
	for i, c := range coefs {
		out[i] = -c
	}
	return out
}
