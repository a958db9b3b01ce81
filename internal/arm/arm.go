package arm

import (
	"fmt"
	"math"

	"github.com/fystack/mab-simulator/pkg/common/types"
	"github.com/fystack/mab-simulator/pkg/randsrc"
)

// Arm is one simulated reward source. The true probability is fixed at
// construction; the estimate is the running mean of every outcome fed
// to Update.
type Arm struct {
	p        float64
	estimate float64
	pulls    int
}

// Snapshot is a read-only copy of an arm's state.
type Snapshot struct {
	TrueProbability float64 `json:"true_probability"`
	Estimate        float64 `json:"estimate"`
	Pulls           int     `json:"pulls"`
}

func New(p float64) (*Arm, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: arm probability %v not in [0,1]", types.ErrInvalidParameter, p)
	}
	return &Arm{p: p}, nil
}

// NewSet builds one arm per probability, in order.
func NewSet(probs []float64) ([]*Arm, error) {
	arms := make([]*Arm, len(probs))
	for i, p := range probs {
		a, err := New(p)
		if err != nil {
			return nil, fmt.Errorf("arm %d: %w", i, err)
		}
		arms[i] = a
	}
	return arms, nil
}

// Pull draws a Bernoulli outcome. It does not mutate the arm.
func (a *Arm) Pull(r randsrc.Source) bool {
	return r.Float64() < a.p
}

// Update folds one outcome into the running mean.
func (a *Arm) Update(outcome bool) {
	x := 0.0
	if outcome {
		x = 1
	}
	a.pulls++
	n := float64(a.pulls)
	a.estimate = ((n-1)*a.estimate + x) / n
}

// Preset installs a prior before the first pull. Pulls counts the prior
// as that many observations in later Update calls.
func (a *Arm) Preset(estimate float64, pulls int) error {
	if pulls < 0 {
		return fmt.Errorf("%w: preset pulls %d < 0", types.ErrInvalidParameter, pulls)
	}
	if math.IsNaN(estimate) || math.IsInf(estimate, 0) {
		return fmt.Errorf("%w: preset estimate %v", types.ErrInvalidParameter, estimate)
	}
	a.estimate = estimate
	a.pulls = pulls
	return nil
}

func (a *Arm) TrueProbability() float64 { return a.p }
func (a *Arm) Estimate() float64        { return a.estimate }
func (a *Arm) Pulls() int               { return a.pulls }

func (a *Arm) Snapshot() Snapshot {
	return Snapshot{TrueProbability: a.p, Estimate: a.estimate, Pulls: a.pulls}
}

// Optimal returns the index of the highest true probability, first on ties.
func Optimal(arms []*Arm) int {
	best := 0
	for i, a := range arms {
		if a.p > arms[best].p {
			best = i
		}
	}
	return best
}

// ArgmaxEstimate returns the index with the highest estimate, first on ties.
func ArgmaxEstimate(view []Snapshot) int {
	best := 0
	for i, s := range view {
		if s.Estimate > view[best].Estimate {
			best = i
		}
	}
	return best
}
