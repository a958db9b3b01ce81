package main

import (
	"fmt"

	"github.com/fystack/mab-simulator/internal/compare"
	"github.com/fystack/mab-simulator/internal/report"
	"github.com/fystack/mab-simulator/pkg/common/logger"
	"github.com/spf13/cobra"
)

type comparison struct {
	Standings   []compare.Standing `json:"standings"`
	Experiments []report.Summary   `json:"experiments"`
}

func newCompareCmd() *cobra.Command {
	var (
		workers int
		detail  bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every configured algorithm and rank them by total reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Compare.Workers = workers
			}

			runner := compare.NewRunner(cfg.Compare.Workers)
			logger.Info("Comparing algorithms",
				"experiments", len(cfg.Algorithms),
				"trials", cfg.Experiment.Trials,
				"workers", runner.Workers(),
			)
			results, err := runner.Run(cmd.Context(), cfg.Experiments())
			if err != nil {
				return err
			}
			standings := compare.Rank(results)

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				c := comparison{Standings: standings}
				for _, res := range results {
					c.Experiments = append(c.Experiments, report.Summarize(res))
				}
				return report.WriteJSON(out, c)
			}

			if detail {
				for _, res := range results {
					if err := report.WriteText(out, res); err != nil {
						return err
					}
					fmt.Fprintln(out)
				}
			}
			return report.WriteComparison(out, standings)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Experiments run in parallel, 0 for GOMAXPROCS")
	cmd.Flags().BoolVar(&detail, "detail", false, "Print each experiment's metrics before the ranking")

	return cmd
}
