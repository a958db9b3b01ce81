package main

import (
	"fmt"
	"os"

	"github.com/fystack/mab-simulator/internal/experiment"
	"github.com/fystack/mab-simulator/internal/report"
	"github.com/fystack/mab-simulator/pkg/common/config"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/common/logger"
	"github.com/fystack/mab-simulator/pkg/common/types"
	"github.com/spf13/cobra"
)

type runOptions struct {
	algorithm     string
	trials        int
	seed          uint64
	probabilities []float64
	epsilon       float64
	decay         string
	curve         string
	curvePoints   int
	logX          bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single experiment and print its metrics",
		Long: `Run one algorithm against one set of arms.

The algorithm is looked up by name in the config file, then by type.
A type that is not configured runs with default parameters.`,
		Example: `  mab run --algorithm ucb1 --probabilities 0.2,0.5,0.75 --trials 10000
  mab run --algorithm epsilon_greedy --decay exponential --curve curve.csv --log-x`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			expCfg, err := opts.experimentConfig(cmd, cfg)
			if err != nil {
				return err
			}

			e, err := experiment.New(expCfg)
			if err != nil {
				return err
			}
			logger.Info("Running experiment",
				"experiment", e.Label(),
				"trials", expCfg.Trials,
				"seed", expCfg.Seed,
			)
			res, err := e.Run()
			if err != nil {
				return err
			}

			if opts.curve != "" {
				if err := writeCurve(opts.curve, res, report.CurveOptions{
					Points:   opts.curvePoints,
					LogScale: opts.logX,
				}); err != nil {
					return err
				}
				logger.Info("Convergence curve written", "path", opts.curve)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return report.WriteJSON(cmd.OutOrStdout(), report.Summarize(res))
			}
			return report.WriteText(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&opts.algorithm, "algorithm", string(enum.AlgorithmEpsilonGreedy), "Algorithm name or type (random, epsilon_greedy, optimistic, ucb1)")
	cmd.Flags().IntVar(&opts.trials, "trials", 0, "Override the number of trials")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Override the random seed")
	cmd.Flags().Float64SliceVar(&opts.probabilities, "probabilities", nil, "Override arm probabilities, comma separated")
	cmd.Flags().Float64Var(&opts.epsilon, "epsilon", 0, "Override the initial epsilon (epsilon_greedy)")
	cmd.Flags().StringVar(&opts.decay, "decay", "", "Override the decay strategy (epsilon_greedy)")
	cmd.Flags().StringVar(&opts.curve, "curve", "", "Write the convergence curve as CSV to this path")
	cmd.Flags().IntVar(&opts.curvePoints, "curve-points", 1000, "Maximum rows in the curve, 0 for every trial")
	cmd.Flags().BoolVar(&opts.logX, "log-x", false, "Space curve rows for a logarithmic trial axis")

	return cmd
}

// experimentConfig narrows cfg to the selected algorithm and applies flag
// overrides on top of the file values.
func (o *runOptions) experimentConfig(cmd *cobra.Command, cfg *config.Config) (experiment.Config, error) {
	alg, err := cfg.Algorithm(o.algorithm)
	if err != nil {
		if !enum.Algorithm(o.algorithm).Valid() {
			return experiment.Config{}, fmt.Errorf("%w: algorithm %q", types.ErrUnknownStrategy, o.algorithm)
		}
		alg = config.AlgorithmCfg{Type: enum.Algorithm(o.algorithm)}
	}

	flags := cmd.Flags()
	if flags.Changed("trials") {
		cfg.Experiment.Trials = o.trials
	}
	if flags.Changed("probabilities") {
		cfg.Experiment.Probabilities = o.probabilities
		cfg.Experiment.Arms = 0
	}
	if flags.Changed("seed") {
		seed := o.seed
		cfg.Experiment.Seed = &seed
		alg.Seed = &seed
	}
	if flags.Changed("epsilon") {
		eps := o.epsilon
		alg.Epsilon = &eps
	}
	if flags.Changed("decay") {
		derived := alg.Name == alg.DefaultName()
		alg.Decay.Strategy = enum.DecayStrategy(o.decay)
		if derived {
			alg.Name = ""
		}
	}

	cfg.Algorithms = []config.AlgorithmCfg{alg}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return experiment.Config{}, err
	}
	return cfg.Experiments()[0], nil
}

func writeCurve(path string, res *experiment.Result, opts report.CurveOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create curve file: %w", err)
	}
	if err := report.WriteCurveCSV(f, res, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
