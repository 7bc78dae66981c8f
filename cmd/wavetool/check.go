package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"example.com/your_project/wave-picking/internal/check"
	"example.com/your_project/wave-picking/internal/warehouse"
)

func newCheckCmd(a *app) *cobra.Command {
	var input, solution string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify a solution and print its objective",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := readInstance(input)
			if err != nil {
				return err
			}
			f, err := os.Open(solution)
			if err != nil {
				return fmt.Errorf("failed to open solution: %w", err)
			}
			defer f.Close()
			sol, err := warehouse.ReadSolution(f)
			if err != nil {
				return fmt.Errorf("%s: %w", solution, err)
			}

			if err := check.Feasible(inst, sol); err != nil {
				return fmt.Errorf("infeasible wave: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "feasible: %d orders, %d aisles, %d units, objective %.4f\n",
				len(sol.Orders), len(sol.Aisles), check.Units(inst, sol), check.Objective(inst, sol))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "instance file")
	cmd.Flags().StringVarP(&solution, "solution", "s", "", "solution file")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("solution")
	return cmd
}
