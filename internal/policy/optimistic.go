package policy

import (
	"fmt"

	"github.com/fystack/mab-simulator/internal/arm"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/common/types"
	"github.com/fystack/mab-simulator/pkg/randsrc"
)

var _ Policy = (*Optimistic)(nil)

// Optimistic starts every estimate high and then always plays greedy.
// The inflated prior forces each arm to be tried until its estimate
// sinks below the others.
type Optimistic struct {
	rng         randsrc.Source
	initialMean float64
	jitterScale float64
	tracker     repeatTracker
}

func NewOptimistic(r randsrc.Source, initialMean, jitterScale float64) (*Optimistic, error) {
	if !finite(initialMean) {
		return nil, fmt.Errorf("%w: initial mean %v", types.ErrInvalidParameter, initialMean)
	}
	if !finite(jitterScale) || jitterScale < 0 {
		return nil, fmt.Errorf("%w: jitter scale %v < 0", types.ErrInvalidParameter, jitterScale)
	}
	return &Optimistic{rng: r, initialMean: initialMean, jitterScale: jitterScale}, nil
}

func (p *Optimistic) Name() enum.Algorithm { return enum.AlgorithmOptimistic }

// Init presets each arm to initialMean plus jitter with one pseudo-pull.
// Without the pseudo-pull the first real Update would weigh the prior by
// zero and discard it.
func (p *Optimistic) Init(arms []*arm.Arm, _ int) error {
	if err := validateArms(arms); err != nil {
		return err
	}
	for i, a := range arms {
		if err := a.Preset(p.initialMean+p.rng.Float64()*p.jitterScale, 1); err != nil {
			return fmt.Errorf("arm %d: %w", i, err)
		}
	}
	return nil
}

func (p *Optimistic) Choose(view []arm.Snapshot) Choice {
	idx := arm.ArgmaxEstimate(view)
	return Choice{Index: idx, Explored: p.tracker.classify(idx)}
}

func (p *Optimistic) OnRoundComplete(int, bool) {}
