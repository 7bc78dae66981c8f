package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/your_project/wave-picking/internal/search"
	"example.com/your_project/wave-picking/internal/warehouse"
)

func newSolveCmd(a *app) *cobra.Command {
	var (
		input, output string
		timeLimit     time.Duration
		solverName    string
		workers       int
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Search for the best wave within the time limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			flags := cmd.Flags()
			if flags.Changed("time-limit") {
				a.cfg = a.cfg.WithTimeLimit(timeLimit)
			}
			if flags.Changed("solver") {
				a.cfg.Solver.Name = solverName
			}
			if flags.Changed("workers") {
				a.cfg.Search.Workers = workers
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			inst, err := readInstance(input)
			if err != nil {
				return err
			}
			s, err := a.cfg.NewSolver()
			if err != nil {
				return err
			}

			ctl := search.New(s, a.cfg.SearchOptions(), search.WithLogger(a.logger))
			outcome := ctl.Solve(cmd.Context(), inst, a.cfg.Deadline(start))
			if outcome.Solution.Empty() {
				a.logger.Warn("no feasible wave found")
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create solution file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := warehouse.WriteSolution(w, outcome.Solution); err != nil {
				return err
			}
			a.logger.Info("wave written",
				zap.String("output", output),
				zap.Float64("objective", outcome.Objective),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "instance file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "solution file (default stdout)")
	cmd.Flags().DurationVarP(&timeLimit, "time-limit", "t", 0, "overall time limit (overrides config)")
	cmd.Flags().StringVar(&solverName, "solver", "", "solver backend: highs or exhaustive")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "aisle counts solved concurrently")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
