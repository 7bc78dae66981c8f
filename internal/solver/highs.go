package solver

import (
	"context"
	"strconv"
	"time"

	"github.com/nextmv-io/sdk/mip"
	"github.com/nextmv-io/sdk/model"

	"example.com/your_project/wave-picking/internal/linear"
)

// HiGHS solves programs with the 'highs' provider of the nextmv mip package.
type HiGHS struct {
	Options Options
}

// variable is the index set of the decision multimap.
type variable struct {
	index linear.Var
}

// ID is implemented to fulfill the model.Identifier interface.
func (v variable) ID() string {
	return strconv.Itoa(int(v.index))
}

func (h *HiGHS) Solve(ctx context.Context, prog *linear.Program, limit time.Duration) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Status: TimeLimitNoSolution}, err
	}

	// We start by creating a MIP model.
	m := mip.NewModel()

	vars := make([]variable, prog.NumVars())
	for i := range vars {
		vars[i] = variable{index: linear.Var(i)}
	}

	// x holds one binary decision per program variable. To retrieve a
	// variable, call x.Get(element) where element is from the index set.
	x := model.NewMultiMap(
		func(...variable) mip.Bool {
			return m.NewBool()
		}, vars)

	if prog.Maximize {
		m.Objective().SetMaximize()
	} else {
		m.Objective().SetMinimize()
	}
	for _, t := range prog.Objective {
		m.Objective().NewTerm(t.Coef, x.Get(vars[t.Var]))
	}

	for _, c := range prog.Constraints {
		var constraint mip.Constraint
		switch c.Sense {
		case linear.LessOrEqual:
			constraint = m.NewConstraint(mip.LessThanOrEqual, c.RHS)
		case linear.GreaterOrEqual:
			constraint = m.NewConstraint(mip.GreaterThanOrEqual, c.RHS)
		default:
			constraint = m.NewConstraint(mip.Equal, c.RHS)
		}
		for _, t := range c.Terms {
			constraint.NewTerm(t.Coef, x.Get(vars[t.Var]))
		}
	}

	// We create a solver using the 'highs' provider
	solver, err := mip.NewSolver("highs", m)
	if err != nil {
		return Result{}, err
	}

	solveOptions := mip.NewSolveOptions()

	// Limit the solve to a maximum duration. A zero duration means no limit
	// to the provider, so never pass one.
	if limit < time.Millisecond {
		limit = time.Millisecond
	}
	if err = solveOptions.SetMaximumDuration(limit); err != nil {
		return Result{}, err
	}
	if err = solveOptions.SetMIPGapRelative(h.Options.MIPGap); err != nil {
		return Result{}, err
	}
	solveOptions.SetVerbosity(mip.Off)

	solution, err := solver.Solve(solveOptions)
	if err != nil {
		return Result{}, err
	}

	return format(solution, x, vars), nil
}

// verdict is the part of mip.Solution that decides a Status.
type verdict interface {
	HasValues() bool
	IsOptimal() bool
	IsTimeOut() bool
}

// status maps a provider verdict to a Status. A time out without values is
// the only way to report TimeLimitNoSolution; any other empty answer is
// Infeasible.
func status(v verdict) Status {
	switch {
	case v == nil:
		return Infeasible
	case !v.HasValues() && v.IsTimeOut():
		return TimeLimitNoSolution
	case !v.HasValues():
		return Infeasible
	case v.IsOptimal():
		return Optimal
	}
	return Feasible
}

func format(
	solution mip.Solution,
	x model.MultiMap[mip.Bool, variable],
	vars []variable,
) Result {
	if solution == nil {
		return Result{Status: Infeasible}
	}
	result := Result{Status: status(solution), RunTime: solution.RunTime()}
	if !result.Status.HasSolution() {
		return result
	}

	result.Objective = solution.ObjectiveValue()
	result.Values = make([]float64, len(vars))
	for i, v := range vars {
		result.Values[i] = solution.Value(x.Get(v))
	}
	return result
}
