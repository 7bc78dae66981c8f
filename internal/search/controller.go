// Package search drives the multi-phase search over the number of visited
// aisles L. Each phase fixes an exclusion fraction, scans L in one direction,
// solves the fixed-L sub-problem for every L and folds the answers into a
// single monotone incumbent until the schedule or the time budget runs out.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"example.com/your_project/wave-picking/internal/check"
	"example.com/your_project/wave-picking/internal/formulation"
	"example.com/your_project/wave-picking/internal/reduction"
	"example.com/your_project/wave-picking/internal/solver"
	"example.com/your_project/wave-picking/internal/warehouse"
)

// Options tunes a Controller.
type Options struct {
	// Fractions are the exclusion fractions of successive phases.
	Fractions []float64
	// MinRemaining stops the search once less time than this is left.
	MinRemaining time.Duration
	// MaxSolveTime caps a single solver call; zero hands every call all the
	// remaining time.
	MaxSolveTime time.Duration
	// Workers is the number of L values solved concurrently.
	Workers int
}

// DefaultOptions mirrors the production schedule.
func DefaultOptions() Options {
	return Options{
		Fractions:    DefaultFractions,
		MinRemaining: time.Second,
		Workers:      1,
	}
}

// Controller runs the phase schedule against a Solver.
type Controller struct {
	solver solver.Solver
	opts   Options
	clock  Clock
	log    *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(ctl *Controller) { ctl.log = l }
}

// New returns a Controller. Zero option fields fall back to DefaultOptions.
func New(s solver.Solver, opts Options, options ...Option) *Controller {
	def := DefaultOptions()
	if opts.Fractions == nil {
		opts.Fractions = def.Fractions
	}
	if opts.MinRemaining <= 0 {
		opts.MinRemaining = def.MinRemaining
	}
	if opts.Workers < 1 {
		opts.Workers = def.Workers
	}
	ctl := &Controller{
		solver: s,
		opts:   opts,
		clock:  systemClock{},
		log:    zap.NewNop(),
	}
	for _, o := range options {
		o(ctl)
	}
	return ctl
}

// Improvement records one incumbent update.
type Improvement struct {
	Step  int
	L     int
	Ratio formulation.Ratio
}

// Outcome is the result of Run. An empty Solution means no feasible wave was
// found within the budget.
type Outcome struct {
	Solution     warehouse.Solution
	Ratio        formulation.Ratio
	Objective    float64
	Calls        int
	FirstL       int
	Steps        int
	Stopped      bool
	Elapsed      time.Duration
	Improvements []Improvement
}

// Status names the outcome the way every entry point reports it.
func (o Outcome) Status() string {
	switch {
	case o.Solution.Empty():
		return "infeasible"
	case o.Stopped:
		return "suboptimal"
	}
	return "completed"
}

// attempt is the folded answer of one sub-problem.
type attempt struct {
	L      int
	Status solver.Status
	Ratio  formulation.Ratio
	Sol    warehouse.Solution
}

type run struct {
	ctl      *Controller
	red      *reduction.Reduced
	deadline time.Time
	inc      Incumbent
	first    int
	calls    int
	history  []Improvement
}

// Run executes the schedule on red and returns the best wave found before
// deadline. It never fails: solver errors count as empty answers.
func (c *Controller) Run(ctx context.Context, red *reduction.Reduced, deadline time.Time) Outcome {
	start := c.clock.Now()
	r := &run{ctl: c, red: red, deadline: deadline}

	steps := Schedule(c.opts.Fractions)
	out := Outcome{}
	for i, step := range steps {
		stop := r.scan(ctx, i, step)
		if stop {
			out.Stopped = true
			break
		}
		out.Steps++
	}

	ratio, sol := r.inc.Best()
	out.Solution = sol
	out.Ratio = ratio
	out.Objective = ratio.Value()
	out.Calls = r.calls
	out.FirstL = r.first
	out.Elapsed = c.clock.Now().Sub(start)
	out.Improvements = r.history

	c.log.Info("search finished",
		zap.Stringer("ratio", ratio),
		zap.Float64("objective", out.Objective),
		zap.Int("orders", len(sol.Orders)),
		zap.Int("aisles", len(sol.Aisles)),
		zap.Int("calls", out.Calls),
		zap.Int("steps", out.Steps),
		zap.Bool("stopped", out.Stopped),
		zap.Duration("elapsed", out.Elapsed),
	)
	return out
}

// Solve reduces inst and runs the schedule on the reduced instance.
func (c *Controller) Solve(ctx context.Context, inst *warehouse.Instance, deadline time.Time) Outcome {
	red := reduction.Reduce(inst, nil)
	invalid := red.Invalid()
	c.log.Info("instance reduced",
		zap.Int("orders", inst.NumOrders()),
		zap.Int("aisles", inst.NumAisles()),
		zap.Int("invalid_aisles", len(invalid)),
		zap.Int("unservable_orders", len(red.Unservable())),
	)
	if n := red.Ignored(); n > 0 {
		c.log.Debug("malformed entries ignored", zap.Int("count", n))
	}
	return c.Run(ctx, red, deadline)
}

func (r *run) remaining() time.Duration {
	return r.deadline.Sub(r.ctl.clock.Now())
}

// exhausted reports whether the search has to stop now.
func (r *run) exhausted(ctx context.Context) bool {
	return ctx.Err() != nil || r.remaining() < r.ctl.opts.MinRemaining
}

// maxL is the largest L worth solving under ex: bounded by the aisles left
// after exclusion and, once a wave exists, by ⌊UB / CB⌋.
func (r *run) maxL(ex formulation.Exclusion) int {
	bound := ex.Available()
	if n, ok := r.inc.Ratio().MaxAisles(r.red.Source().WaveSizeUB()); ok && n < bound {
		bound = n
	}
	return bound
}

// scan runs one schedule step and reports whether the whole search must stop.
func (r *run) scan(ctx context.Context, index int, step Step) bool {
	ex := formulation.Exclude(r.red, step.Fraction)
	log := r.ctl.log.With(zap.Int("step", index), zap.Stringer("scan", step))
	log.Debug("phase start",
		zap.Int("excluded_aisles", len(ex.Aisles)),
		zap.Int("excluded_items", len(ex.Items)),
		zap.Int("excluded_orders", len(ex.Orders)),
		zap.Int("first_l", r.first),
	)

	l := 1
	switch step.Start {
	case BelowFirst:
		if r.first > 0 {
			l = r.first - 1
		}
	case AtFirst:
		if r.first > 0 {
			l = r.first
		}
	}
	if step.Direction == Down {
		l = min(l, r.maxL(ex))
	}

	workers := r.ctl.opts.Workers
	for {
		var batch []int
		switch step.Direction {
		case Up:
			for hi := r.maxL(ex); l <= hi && len(batch) < workers; l++ {
				batch = append(batch, l)
			}
		case Down:
			for ; l >= 1 && len(batch) < workers; l-- {
				batch = append(batch, l)
			}
		}
		if len(batch) == 0 {
			return false
		}
		if r.exhausted(ctx) {
			log.Info("time budget exhausted, keeping current incumbent", zap.Duration("remaining", r.remaining()))
			return true
		}

		for _, a := range r.solveBatch(ctx, log, ex, batch) {
			r.fold(log, index, a)
		}

		if r.exhausted(ctx) {
			log.Info("time budget exhausted after solve, keeping current incumbent", zap.Duration("remaining", r.remaining()))
			return true
		}
	}
}

// fold applies one answer in L order: it tracks the first feasible L and
// offers the wave to the incumbent.
func (r *run) fold(log *zap.Logger, step int, a attempt) {
	if a.Ratio.Units > 0 && (r.first == 0 || a.L < r.first) {
		if r.first == 0 {
			log.Info("first feasible aisle count", zap.Int("l", a.L))
		}
		r.first = a.L
	}
	if r.inc.Offer(a.Ratio, a.Sol) {
		r.history = append(r.history, Improvement{Step: step, L: a.L, Ratio: a.Ratio})
		log.Info("incumbent improved",
			zap.Int("l", a.L),
			zap.Stringer("ratio", a.Ratio),
			zap.Float64("objective", a.Ratio.Value()),
		)
	}
}

// solveBatch solves every L of batch against the incumbent as it stands now
// and returns the answers in batch order.
func (r *run) solveBatch(ctx context.Context, log *zap.Logger, ex formulation.Exclusion, batch []int) []attempt {
	best := r.inc.Ratio()
	limit := r.remaining()
	if ceiling := r.ctl.opts.MaxSolveTime; ceiling > 0 && limit > ceiling {
		limit = ceiling
	}
	r.calls += len(batch)

	answers := make([]attempt, len(batch))
	if len(batch) == 1 {
		answers[0] = r.solve(ctx, log, ex, batch[0], best, limit)
		return answers
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range batch {
		i, l := i, l
		g.Go(func() error {
			answers[i] = r.solve(gctx, log, ex, l, best, limit)
			return nil
		})
	}
	_ = g.Wait()
	return answers
}

// solve formulates and solves the sub-problem for l aisles. Any failure is an
// empty answer.
func (r *run) solve(ctx context.Context, log *zap.Logger, ex formulation.Exclusion, l int, best formulation.Ratio, limit time.Duration) attempt {
	a := attempt{L: l}
	prog, layout := formulation.Build(r.red, formulation.Params{L: l, Incumbent: best, Exclusion: ex})

	res, err := r.ctl.solver.Solve(ctx, prog, limit)
	if err != nil {
		log.Warn("solver failed", zap.Int("l", l), zap.Error(err))
		a.Status = solver.Infeasible
		return a
	}
	a.Status = res.Status
	log.Debug("sub-problem solved",
		zap.Int("l", l),
		zap.Stringer("status", res.Status),
		zap.Float64("objective", res.Objective),
		zap.Duration("limit", limit),
		zap.Duration("runtime", res.RunTime),
	)
	if !res.Status.HasSolution() {
		return a
	}

	sol := layout.Decode(res.Values)
	if err := check.Feasible(r.red.Source(), sol); err != nil {
		log.Warn("solver returned an infeasible wave", zap.Int("l", l), zap.Error(err))
		return a
	}
	a.Sol = sol
	a.Ratio = formulation.Ratio{Units: check.Units(r.red.Source(), sol), Aisles: len(sol.Aisles)}
	return a
}
