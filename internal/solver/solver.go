// Package solver is the boundary to the MIP engine. The search only ever sees
// a Status, an objective value and a variable assignment.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"example.com/your_project/wave-picking/internal/linear"
)

// Status is the outcome of one solve.
type Status int

const (
	Optimal Status = iota
	Feasible
	Infeasible
	TimeLimitNoSolution
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case TimeLimitNoSolution:
		return "time_limit_no_solution"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// HasSolution reports whether the result carries an assignment.
func (s Status) HasSolution() bool {
	return s == Optimal || s == Feasible
}

// Result of a solve. Values is indexed by linear.Var and only set when the
// status has a solution.
type Result struct {
	Status    Status
	Objective float64
	Values    []float64
	RunTime   time.Duration
}

// Solver solves a binary linear program within limit. Implementations must
// return on their own once limit elapses; the caller never interrupts them.
type Solver interface {
	Solve(ctx context.Context, prog *linear.Program, limit time.Duration) (Result, error)
}

// Func adapts a plain function to Solver.
type Func func(ctx context.Context, prog *linear.Program, limit time.Duration) (Result, error)

func (f Func) Solve(ctx context.Context, prog *linear.Program, limit time.Duration) (Result, error) {
	return f(ctx, prog, limit)
}

// Options configures the backends. Fields a backend does not use are ignored.
type Options struct {
	// MIPGap is the relative optimality gap handed to HiGHS.
	MIPGap float64 `yaml:"mip_gap" json:"mipGap"`
}

const (
	HiGHSName = "highs"
	// ExhaustiveName selects the gophersat backend, which needs no plugin.
	ExhaustiveName = "exhaustive"
)

var ErrUnknownSolver = errors.New("unknown solver")

// New returns the backend registered under name.
func New(name string, opts Options) (Solver, error) {
	switch name {
	case HiGHSName, "":
		return &HiGHS{Options: opts}, nil
	case ExhaustiveName:
		return &Exhaustive{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
}
