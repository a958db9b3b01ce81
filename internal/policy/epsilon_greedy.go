package policy

import (
	"fmt"

	"github.com/fystack/mab-simulator/internal/arm"
	"github.com/fystack/mab-simulator/internal/decay"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/common/types"
	"github.com/fystack/mab-simulator/pkg/randsrc"
)

var _ Policy = (*EpsilonGreedy)(nil)

// EpsilonGreedy explores uniformly with probability epsilon and otherwise
// exploits the best current estimate. Epsilon moves through the decay
// strategy once per round, whichever branch the round took.
type EpsilonGreedy struct {
	rng      randsrc.Source
	epsilon  float64
	strategy decay.Strategy

	rounds int
	wins   int

	trace []float64 // nil unless tracing was requested
}

func NewEpsilonGreedy(r randsrc.Source, epsilon float64, strategy decay.Strategy, traceEpsilon bool) (*EpsilonGreedy, error) {
	if !finite(epsilon) || epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("%w: epsilon %v not in [0,1]", types.ErrInvalidParameter, epsilon)
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: nil decay strategy", types.ErrInvalidParameter)
	}
	p := &EpsilonGreedy{rng: r, epsilon: epsilon, strategy: strategy}
	if traceEpsilon {
		p.trace = []float64{}
	}
	return p, nil
}

func (p *EpsilonGreedy) Name() enum.Algorithm { return enum.AlgorithmEpsilonGreedy }

func (p *EpsilonGreedy) Init(arms []*arm.Arm, _ int) error {
	return validateArms(arms)
}

func (p *EpsilonGreedy) Choose(view []arm.Snapshot) Choice {
	if p.rng.Float64() < p.epsilon {
		return Choice{Index: p.rng.IntN(len(view)), Explored: true}
	}
	return Choice{Index: arm.ArgmaxEstimate(view)}
}

func (p *EpsilonGreedy) OnRoundComplete(_ int, outcome bool) {
	p.rounds++
	if outcome {
		p.wins++
	}
	if obs, ok := p.strategy.(decay.PerformanceObserver); ok {
		obs.Observe(float64(p.wins) / float64(p.rounds))
	}
	if p.trace != nil {
		p.trace = append(p.trace, p.epsilon)
	}
	p.epsilon = p.strategy.Apply(p.epsilon)
}

func (p *EpsilonGreedy) Epsilon() float64 { return p.epsilon }

func (p *EpsilonGreedy) Strategy() decay.Strategy { return p.strategy }

// EpsilonTrace returns the epsilon used in each completed round, or nil
// when tracing is off.
func (p *EpsilonGreedy) EpsilonTrace() []float64 {
	if p.trace == nil {
		return nil
	}
	out := make([]float64, len(p.trace))
	copy(out, p.trace)
	return out
}
