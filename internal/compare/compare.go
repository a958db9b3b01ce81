package compare

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/fystack/mab-simulator/internal/experiment"
	"github.com/fystack/mab-simulator/pkg/common/logger"
	"golang.org/x/sync/errgroup"
)

// Runner executes independent experiments in parallel. Parallelism is at
// the experiment level only; each run stays sequential and owns its own
// random source.
type Runner struct {
	workers int
}

func NewRunner(workers int) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{workers: workers}
}

func (r *Runner) Workers() int { return r.workers }

// Run builds and runs every config, returning results in config order.
// A construction error cancels experiments that have not started yet;
// experiments already running finish normally.
func (r *Runner) Run(ctx context.Context, cfgs []experiment.Config) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, len(cfgs))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, cfg := range cfgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := experiment.New(cfg)
			if err != nil {
				return fmt.Errorf("experiment %d (%s): %w", i, cfg.Label, err)
			}
			res, err := e.Run()
			if err != nil {
				return fmt.Errorf("experiment %d (%s): %w", i, e.Label(), err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Comparison finished",
		"experiments", len(cfgs),
		"workers", r.workers,
		"elapsed", time.Since(start),
	)
	return results, nil
}

// Standing is one row of a comparison leaderboard.
type Standing struct {
	Rank        int     `json:"rank"`
	Label       string  `json:"label"`
	TotalReward int     `json:"total_reward"`
	WinRate     float64 `json:"win_rate"`
	OptimalRate float64 `json:"optimal_rate"`
	Regret      float64 `json:"regret"`
	Converged   bool    `json:"converged"`
}

// Rank orders results by total reward, highest first. Ties keep the
// input order.
func Rank(results []*experiment.Result) []Standing {
	out := make([]Standing, len(results))
	for i, res := range results {
		out[i] = Standing{
			Label:       res.Label,
			TotalReward: res.TotalReward(),
			WinRate:     res.WinRate(),
			OptimalRate: res.OptimalRate(),
			Regret:      res.Regret(),
			Converged:   res.Converged(),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalReward > out[j].TotalReward
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
