package experiment

import (
	"github.com/fystack/mab-simulator/internal/arm"
	"github.com/fystack/mab-simulator/internal/decay"
	"github.com/fystack/mab-simulator/pkg/common/enum"
)

// DecayInfo describes the epsilon schedule an epsilon-greedy run used.
type DecayInfo struct {
	Strategy enum.DecayStrategy `json:"strategy"`
	Params   decay.Params       `json:"params"`
	Steps    int                `json:"steps"`
}

// Result is the final, immutable state of a run. Everything derived from
// the reward history is computed on demand.
type Result struct {
	Label           string         `json:"label"`
	Algorithm       enum.Algorithm `json:"algorithm"`
	Seed            uint64         `json:"seed"`
	Trials          int            `json:"trials"`
	Rewards         []bool         `json:"-"`
	Arms            []arm.Snapshot `json:"arms"`
	OptimalIndex    int            `json:"optimal_index"`
	Explored        int            `json:"explored"`
	Exploited       int            `json:"exploited"`
	OptimalSelected int            `json:"optimal_selected"`
	FinalEpsilon    float64        `json:"final_epsilon,omitempty"`
	Decay           *DecayInfo     `json:"decay,omitempty"`
	EpsilonTrace    []float64      `json:"-"`
}

func (r *Result) TotalReward() int {
	total := 0
	for _, won := range r.Rewards {
		if won {
			total++
		}
	}
	return total
}

func (r *Result) WinRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.TotalReward()) / float64(r.Trials)
}

// CumulativeWinRate returns the running mean of the rewards, one value
// per trial.
func (r *Result) CumulativeWinRate() []float64 {
	out := make([]float64, len(r.Rewards))
	wins := 0
	for i, won := range r.Rewards {
		if won {
			wins++
		}
		out[i] = float64(wins) / float64(i+1)
	}
	return out
}

// BestEstimateIndex is the arm the run ended up believing in.
func (r *Result) BestEstimateIndex() int {
	return arm.ArgmaxEstimate(r.Arms)
}

func (r *Result) MaxTrueProbability() float64 {
	if len(r.Arms) == 0 {
		return 0
	}
	return r.Arms[r.OptimalIndex].TrueProbability
}

func (r *Result) OptimalRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.OptimalSelected) / float64(r.Trials)
}

// Regret is the expected reward of always playing the best arm minus
// the reward actually collected.
func (r *Result) Regret() float64 {
	return float64(r.Trials)*r.MaxTrueProbability() - float64(r.TotalReward())
}

// Converged reports whether the best estimate points at the optimal arm.
func (r *Result) Converged() bool {
	return r.BestEstimateIndex() == r.OptimalIndex
}
