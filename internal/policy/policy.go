package policy

import (
	"fmt"
	"math"

	"github.com/fystack/mab-simulator/internal/arm"
	"github.com/fystack/mab-simulator/internal/decay"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/common/types"
	"github.com/fystack/mab-simulator/pkg/randsrc"
)

const (
	DefaultEpsilon     = 0.1
	DefaultJitterScale = 1e-3
	// DefaultExploration gives the classic UCB1 bonus sqrt(2 ln N / n).
	DefaultExploration = 2.0
)

// Choice is the arm picked for one round and whether the round is
// booked as exploration.
type Choice struct {
	Index    int
	Explored bool
}

// Policy picks an arm each round. Init runs once before the first round
// and may seed per-arm state; OnRoundComplete receives the outcome of
// the round that Choose just decided.
type Policy interface {
	Name() enum.Algorithm
	Init(arms []*arm.Arm, trials int) error
	Choose(view []arm.Snapshot) Choice
	OnRoundComplete(index int, outcome bool)
}

// Spec carries every algorithm-specific parameter; each policy reads
// only its own fields.
type Spec struct {
	Algorithm enum.Algorithm

	// epsilon greedy
	Epsilon      float64
	Decay        enum.DecayStrategy
	DecayParams  decay.Params
	TraceEpsilon bool

	// optimistic initial values
	InitialMean float64
	JitterScale float64

	// ucb1
	Exploration float64
}

// New builds the policy named by spec.Algorithm. The random source is
// owned by the calling experiment.
func New(spec Spec, r randsrc.Source) (Policy, error) {
	switch spec.Algorithm {
	case enum.AlgorithmRandom:
		return NewRandom(r), nil
	case enum.AlgorithmEpsilonGreedy:
		strategy, err := decay.New(spec.Decay, spec.DecayParams)
		if err != nil {
			return nil, err
		}
		return NewEpsilonGreedy(r, spec.Epsilon, strategy, spec.TraceEpsilon)
	case enum.AlgorithmOptimistic:
		return NewOptimistic(r, spec.InitialMean, spec.JitterScale)
	case enum.AlgorithmUCB1:
		return NewUCB1(spec.Exploration)
	default:
		return nil, fmt.Errorf("%w: algorithm %q", types.ErrUnknownStrategy, spec.Algorithm)
	}
}

// repeatTracker books a round as exploitation when it repeats the
// previous round's arm. It is a descriptive statistic for greedy
// policies, not a behavioral signal.
type repeatTracker struct {
	prev    int
	started bool
}

func (rt *repeatTracker) classify(index int) (explored bool) {
	explored = !rt.started || rt.prev != index
	rt.prev = index
	rt.started = true
	return explored
}

func validateArms(arms []*arm.Arm) error {
	if len(arms) == 0 {
		return fmt.Errorf("%w: no arms", types.ErrInvalidParameter)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
