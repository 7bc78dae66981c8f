// Command wavetool solves, reduces and checks wave-picking instances in the
// challenge text format.
//
// Usage:
//
//	wavetool solve -i instance.txt -o solution.txt [--config wave.yaml]
//	wavetool reduce -i instance.txt
//	wavetool check -i instance.txt -s solution.txt
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"example.com/your_project/wave-picking/internal/config"
	"example.com/your_project/wave-picking/internal/logging"
	"example.com/your_project/wave-picking/internal/warehouse"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "wavetool",
		Short:         "Wave-picking search and reduction",
		Long:          `Selects a wave of orders and aisles that maximizes picked units per visited aisle.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger, err := logging.New(cfg.Log, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newSolveCmd(a),
		newReduceCmd(a),
		newCheckCmd(a),
	)
	return root
}

func readInstance(path string) (*warehouse.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instance: %w", err)
	}
	defer f.Close()
	inst, err := warehouse.ReadInstance(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}
