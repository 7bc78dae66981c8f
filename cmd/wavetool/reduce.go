package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"example.com/your_project/wave-picking/internal/reduction"
)

func newReduceCmd(a *app) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Print the reduction summary of an instance as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := readInstance(input)
			if err != nil {
				return err
			}
			red := reduction.Reduce(inst, nil)

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(red.Summary()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "instance file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
