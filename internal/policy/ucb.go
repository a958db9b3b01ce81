package policy

import (
	"fmt"
	"math"

	"github.com/fystack/mab-simulator/internal/arm"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/common/types"
)

var _ Policy = (*UCB1)(nil)

// UCB1 plays the arm with the highest upper confidence bound
// estimate + sqrt(c * ln(N) / n). Every arm is pulled once, in index
// order, before the bound is used since it is undefined at n = 0.
type UCB1 struct {
	exploration float64
	tracker     repeatTracker
}

func NewUCB1(exploration float64) (*UCB1, error) {
	if !finite(exploration) || exploration <= 0 {
		return nil, fmt.Errorf("%w: exploration constant %v <= 0", types.ErrInvalidParameter, exploration)
	}
	return &UCB1{exploration: exploration}, nil
}

func (p *UCB1) Name() enum.Algorithm { return enum.AlgorithmUCB1 }

func (p *UCB1) Init(arms []*arm.Arm, trials int) error {
	if err := validateArms(arms); err != nil {
		return err
	}
	if len(arms) > trials {
		return fmt.Errorf("%w: ucb1 needs one seeding pull per arm, got %d arms and %d trials",
			types.ErrPrecursorViolation, len(arms), trials)
	}
	return nil
}

func (p *UCB1) Choose(view []arm.Snapshot) Choice {
	idx := p.pick(view)
	return Choice{Index: idx, Explored: p.tracker.classify(idx)}
}

func (p *UCB1) pick(view []arm.Snapshot) int {
	total := 0
	for i, s := range view {
		if s.Pulls == 0 {
			return i
		}
		total += s.Pulls
	}

	logTotal := math.Log(float64(total))
	best, bestScore := 0, math.Inf(-1)
	for i, s := range view {
		score := s.Estimate + math.Sqrt(p.exploration*logTotal/float64(s.Pulls))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func (p *UCB1) OnRoundComplete(int, bool) {}
