package experiment

import (
	"fmt"

	"github.com/fystack/mab-simulator/internal/arm"
	"github.com/fystack/mab-simulator/internal/policy"
	"github.com/fystack/mab-simulator/pkg/common/logger"
	"github.com/fystack/mab-simulator/pkg/common/types"
	"github.com/fystack/mab-simulator/pkg/randsrc"
)

type Config struct {
	Label string
	// Arms may be zero when Probabilities is set. When Probabilities is
	// empty, Arms probabilities are drawn from the experiment's source.
	Arms          int
	Probabilities []float64
	Trials        int
	Seed          uint64
	Policy        policy.Spec
	// Source overrides the generator derived from Seed.
	Source randsrc.Source
}

// Experiment runs one policy against one set of arms. It owns the arms,
// the policy state and the random source; a run cannot be repeated.
type Experiment struct {
	label   string
	seed    uint64
	rng     randsrc.Source
	arms    []*arm.Arm
	policy  policy.Policy
	optimal int
	trials  int

	view            []arm.Snapshot
	rewards         []bool
	explored        int
	exploited       int
	optimalSelected int
	ran             bool
}

func New(cfg Config) (*Experiment, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials %d must be > 0", types.ErrInvalidParameter, cfg.Trials)
	}
	n := cfg.Arms
	if len(cfg.Probabilities) > 0 {
		if n != 0 && n != len(cfg.Probabilities) {
			return nil, fmt.Errorf("%w: %d arms but %d probabilities",
				types.ErrInvalidParameter, n, len(cfg.Probabilities))
		}
		n = len(cfg.Probabilities)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: arm count %d must be > 0", types.ErrInvalidParameter, n)
	}

	rng := cfg.Source
	if rng == nil {
		rng = randsrc.New(cfg.Seed)
	}

	probs := cfg.Probabilities
	if len(probs) == 0 {
		probs = make([]float64, n)
		for i := range probs {
			probs[i] = rng.Float64()
		}
	}
	arms, err := arm.NewSet(probs)
	if err != nil {
		return nil, err
	}

	p, err := policy.New(cfg.Policy, rng)
	if err != nil {
		return nil, err
	}
	if err := p.Init(arms, cfg.Trials); err != nil {
		return nil, err
	}

	label := cfg.Label
	if label == "" {
		label = string(p.Name())
	}

	return &Experiment{
		label:   label,
		seed:    cfg.Seed,
		rng:     rng,
		arms:    arms,
		policy:  p,
		optimal: arm.Optimal(arms),
		trials:  cfg.Trials,
		view:    make([]arm.Snapshot, n),
		rewards: make([]bool, cfg.Trials),
	}, nil
}

// Run plays every trial in order and returns the final state.
func (e *Experiment) Run() (*Result, error) {
	if e.ran {
		return nil, fmt.Errorf("%w: %s", types.ErrAlreadyRun, e.label)
	}
	e.ran = true

	log := logger.With("experiment", e.label, "algorithm", e.policy.Name())
	log.Debug("Experiment started", "arms", len(e.arms), "trials", e.trials, "seed", e.seed)

	for t := 0; t < e.trials; t++ {
		e.step(t)
	}

	res := e.result()
	log.Debug("Experiment finished",
		"total_reward", res.TotalReward(),
		"win_rate", res.WinRate(),
		"optimal_selected", res.OptimalSelected,
	)
	return res, nil
}

func (e *Experiment) step(t int) {
	for i, a := range e.arms {
		e.view[i] = a.Snapshot()
	}

	choice := e.policy.Choose(e.view)
	if choice.Index == e.optimal {
		e.optimalSelected++
	}
	if choice.Explored {
		e.explored++
	} else {
		e.exploited++
	}

	chosen := e.arms[choice.Index]
	outcome := chosen.Pull(e.rng)
	e.rewards[t] = outcome
	chosen.Update(outcome)
	e.policy.OnRoundComplete(choice.Index, outcome)
}

func (e *Experiment) result() *Result {
	res := &Result{
		Label:           e.label,
		Algorithm:       e.policy.Name(),
		Seed:            e.seed,
		Trials:          e.trials,
		Rewards:         append([]bool(nil), e.rewards...),
		Arms:            e.Arms(),
		OptimalIndex:    e.optimal,
		Explored:        e.explored,
		Exploited:       e.exploited,
		OptimalSelected: e.optimalSelected,
	}
	if eg, ok := e.policy.(*policy.EpsilonGreedy); ok {
		res.FinalEpsilon = eg.Epsilon()
		res.EpsilonTrace = eg.EpsilonTrace()
		s := eg.Strategy()
		res.Decay = &DecayInfo{Strategy: s.Name(), Params: s.Params(), Steps: s.Steps()}
	}
	return res
}

func (e *Experiment) Label() string { return e.label }

// Arms returns a snapshot of every arm in index order.
func (e *Experiment) Arms() []arm.Snapshot {
	out := make([]arm.Snapshot, len(e.arms))
	for i, a := range e.arms {
		out[i] = a.Snapshot()
	}
	return out
}
