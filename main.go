// package main holds the nextmv app that picks a wave from a JSON instance.
package main

import (
	"context"
	"log"
	"time"

	"github.com/nextmv-io/sdk/run"

	"example.com/your_project/wave-picking/internal/config"
	"example.com/your_project/wave-picking/internal/logging"
	"example.com/your_project/wave-picking/internal/search"
	"example.com/your_project/wave-picking/internal/warehouse"
)

// This app solves the wave-picking problem. A warehouse holds items in
// aisles and customers place orders for items. A wave is a subset of the
// orders together with a subset of the aisles that can supply every unit of
// those orders. The wave must pick between a lower and an upper bound of
// units, and we want to pick as many units per visited aisle as possible.
// The ratio objective is not linear, so we fix the number of aisles L and
// solve one Mixed Integer Program per L. The instance is reduced first:
// aisles that duplicate or are dominated by another aisle are dropped, and
// capacities are capped by the demand. A phase schedule then excludes the
// weakest aisles, scans L, and keeps the best wave until the time budget is
// spent.
func main() {
	err := run.CLI(solve).Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}
}

type input = warehouse.Input

// The Option for the solver.
type Option struct {
	// The whole search, including reduction, runs within this duration. A
	// safety margin is kept to write the result.
	Limits struct {
		Duration time.Duration `json:"duration" default:"600s"`
	} `json:"limits"`
	Wave struct {
		SafetyMargin time.Duration `json:"safety_margin" default:"5s"`
		Solver       string        `json:"solver" default:"highs"`
		Workers      int           `json:"workers" default:"1"`
		Verbose      bool          `json:"verbose"`
	} `json:"wave"`
}

// Output is the output of the solver.
type Output struct {
	Status  string  `json:"status,omitempty"`
	Runtime string  `json:"runtime,omitempty"`
	Orders  []int   `json:"orders"`
	Aisles  []int   `json:"aisles"`
	Units   int     `json:"units"`
	Value   float64 `json:"value"`
	Calls   int     `json:"calls"`
}

func solve(in input, opts Option) ([]Output, error) {
	start := time.Now()

	// We start from the defaults and apply the run options on top.
	cfg := config.Default()
	cfg.SafetyMargin = opts.Wave.SafetyMargin
	cfg = cfg.WithTimeLimit(opts.Limits.Duration)
	cfg.Solver.Name = opts.Wave.Solver
	cfg.Search.Workers = opts.Wave.Workers
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, opts.Wave.Verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	// We create a solver using the configured provider.
	s, err := cfg.NewSolver()
	if err != nil {
		return nil, err
	}

	ctl := search.New(s, cfg.SearchOptions(), search.WithLogger(logger))
	outcome := ctl.Solve(context.Background(), in.Instance(), cfg.Deadline(start))

	return []Output{format(outcome, start)}, nil
}

func format(outcome search.Outcome, start time.Time) Output {
	output := Output{
		Status:  outcome.Status(),
		Runtime: time.Since(start).String(),
		Orders:  []int{},
		Aisles:  []int{},
		Calls:   outcome.Calls,
	}
	if outcome.Solution.Empty() {
		return output
	}

	output.Orders = outcome.Solution.Orders
	output.Aisles = outcome.Solution.Aisles
	output.Units = outcome.Ratio.Units
	output.Value = outcome.Objective

	return output
}
