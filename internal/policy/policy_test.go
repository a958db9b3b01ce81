package policy

import (
	"testing"

	"github.com/fystack/mab-simulator/internal/arm"
	"github.com/fystack/mab-simulator/internal/decay"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/common/types"
	"github.com/fystack/mab-simulator/pkg/randsrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArms(t *testing.T, probs ...float64) []*arm.Arm {
	t.Helper()
	arms, err := arm.NewSet(probs)
	require.NoError(t, err)
	return arms
}

func snapshots(arms []*arm.Arm) []arm.Snapshot {
	view := make([]arm.Snapshot, len(arms))
	for i, a := range arms {
		view[i] = a.Snapshot()
	}
	return view
}

var defaultDecay = decay.Params{Minimum: decay.DefaultMinimum, Rate: decay.DefaultRate}

func TestNew_Factory(t *testing.T) {
	r := randsrc.New(1)
	specs := map[enum.Algorithm]Spec{
		enum.AlgorithmRandom:        {Algorithm: enum.AlgorithmRandom},
		enum.AlgorithmEpsilonGreedy: {Algorithm: enum.AlgorithmEpsilonGreedy, Epsilon: 0.1, DecayParams: defaultDecay},
		enum.AlgorithmOptimistic:    {Algorithm: enum.AlgorithmOptimistic, InitialMean: 5, JitterScale: DefaultJitterScale},
		enum.AlgorithmUCB1:          {Algorithm: enum.AlgorithmUCB1, Exploration: DefaultExploration},
	}
	for name, spec := range specs {
		p, err := New(spec, r)
		require.NoError(t, err, "algorithm %s", name)
		assert.Equal(t, name, p.Name())
	}

	_, err := New(Spec{Algorithm: "thompson"}, r)
	assert.ErrorIs(t, err, types.ErrUnknownStrategy)

	_, err = New(Spec{Algorithm: enum.AlgorithmEpsilonGreedy, Epsilon: 0.1, Decay: "cubic", DecayParams: defaultDecay}, r)
	assert.ErrorIs(t, err, types.ErrUnknownStrategy)

	_, err = New(Spec{Algorithm: enum.AlgorithmEpsilonGreedy, Epsilon: 0.1, DecayParams: decay.Params{Minimum: 1, Rate: 0.1}}, r)
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestInit_RejectsNoArms(t *testing.T) {
	r := randsrc.New(1)
	eg, err := NewEpsilonGreedy(r, 0.1, &decay.Constant{}, false)
	require.NoError(t, err)
	opt, err := NewOptimistic(r, 5, 0)
	require.NoError(t, err)
	ucb, err := NewUCB1(2)
	require.NoError(t, err)

	for _, p := range []Policy{NewRandom(r), eg, opt, ucb} {
		assert.ErrorIs(t, p.Init(nil, 10), types.ErrInvalidParameter, "policy %s", p.Name())
	}
}

func TestRandom_AlwaysExplores(t *testing.T) {
	arms := newArms(t, 0.1, 0.5, 0.9)
	p := NewRandom(randsrc.New(3))
	require.NoError(t, p.Init(arms, 100))

	seen := map[int]bool{}
	for i := 0; i < 300; i++ {
		c := p.Choose(snapshots(arms))
		assert.True(t, c.Explored)
		assert.GreaterOrEqual(t, c.Index, 0)
		assert.Less(t, c.Index, 3)
		seen[c.Index] = true
	}
	assert.Len(t, seen, 3)
}

func TestEpsilonGreedy_Validation(t *testing.T) {
	r := randsrc.New(1)
	for _, eps := range []float64{-0.1, 1.1} {
		_, err := NewEpsilonGreedy(r, eps, &decay.Constant{}, false)
		assert.ErrorIs(t, err, types.ErrInvalidParameter)
	}
	_, err := NewEpsilonGreedy(r, 0.1, nil, false)
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestEpsilonGreedy_ZeroEpsilonExploitsFirstBest(t *testing.T) {
	p, err := NewEpsilonGreedy(randsrc.New(1), 0, &decay.Constant{}, false)
	require.NoError(t, err)

	view := []arm.Snapshot{{Estimate: 0.2}, {Estimate: 0.6}, {Estimate: 0.6}}
	for i := 0; i < 20; i++ {
		c := p.Choose(view)
		assert.Equal(t, Choice{Index: 1, Explored: false}, c)
	}
}

func TestEpsilonGreedy_FullEpsilonExplores(t *testing.T) {
	p, err := NewEpsilonGreedy(randsrc.New(1), 1, &decay.Constant{}, false)
	require.NoError(t, err)

	view := []arm.Snapshot{{Estimate: 0.2}, {Estimate: 0.6}}
	for i := 0; i < 20; i++ {
		assert.True(t, p.Choose(view).Explored)
	}
}

func TestEpsilonGreedy_DecaysOncePerRound(t *testing.T) {
	strategy, err := decay.New(enum.DecayInverseSqrt, decay.Params{Minimum: 0.05, Rate: 0.01})
	require.NoError(t, err)
	p, err := NewEpsilonGreedy(randsrc.New(1), 0.10, strategy, true)
	require.NoError(t, err)

	p.OnRoundComplete(0, true)
	p.OnRoundComplete(1, false)
	p.OnRoundComplete(0, false)

	assert.Equal(t, 3, strategy.Steps())
	assert.InDelta(t, 0.05, p.Epsilon(), 1e-12)
	trace := p.EpsilonTrace()
	require.Len(t, trace, 3)
	assert.Equal(t, 0.10, trace[0])
	assert.Same(t, strategy, p.Strategy())
}

func TestEpsilonGreedy_TraceOff(t *testing.T) {
	p, err := NewEpsilonGreedy(randsrc.New(1), 0.1, &decay.Constant{}, false)
	require.NoError(t, err)
	p.OnRoundComplete(0, true)
	assert.Nil(t, p.EpsilonTrace())
}

func TestEpsilonGreedy_AdaptiveSeesWinRate(t *testing.T) {
	strategy, err := decay.New(enum.DecayAdaptive, decay.Params{Minimum: 0.01, Rate: 0.5})
	require.NoError(t, err)
	p, err := NewEpsilonGreedy(randsrc.New(1), 0.3, strategy, false)
	require.NoError(t, err)

	p.OnRoundComplete(0, true) // win rate 1
	assert.InDelta(t, 0.3/1.5, p.Epsilon(), 1e-12)

	p.OnRoundComplete(0, false) // win rate 0.5
	assert.InDelta(t, 0.3/1.5/1.25, p.Epsilon(), 1e-12)
}

func TestOptimistic_InitPresetsPrior(t *testing.T) {
	arms := newArms(t, 0.1, 0.9)
	p, err := NewOptimistic(randsrc.New(9), 5, 0.01)
	require.NoError(t, err)
	require.NoError(t, p.Init(arms, 100))

	for _, a := range arms {
		assert.Equal(t, 1, a.Pulls())
		assert.GreaterOrEqual(t, a.Estimate(), 5.0)
		assert.Less(t, a.Estimate(), 5.01)
	}
}

func TestOptimistic_Validation(t *testing.T) {
	_, err := NewOptimistic(randsrc.New(1), 5, -1)
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestOptimistic_RepeatHeuristic(t *testing.T) {
	p, err := NewOptimistic(randsrc.New(1), 5, 0)
	require.NoError(t, err)

	view := []arm.Snapshot{{Estimate: 1}, {Estimate: 2}}
	assert.Equal(t, Choice{Index: 1, Explored: true}, p.Choose(view))
	assert.Equal(t, Choice{Index: 1, Explored: false}, p.Choose(view))

	view[0].Estimate = 3
	assert.Equal(t, Choice{Index: 0, Explored: true}, p.Choose(view))
}

func TestUCB1_Validation(t *testing.T) {
	for _, c := range []float64{0, -1} {
		_, err := NewUCB1(c)
		assert.ErrorIs(t, err, types.ErrInvalidParameter)
	}

	p, err := NewUCB1(DefaultExploration)
	require.NoError(t, err)
	arms := newArms(t, 0.1, 0.2, 0.3)
	assert.ErrorIs(t, p.Init(arms, 2), types.ErrPrecursorViolation)
	assert.NoError(t, p.Init(arms, 3))
}

func TestUCB1_SeedsEachArmInOrder(t *testing.T) {
	p, err := NewUCB1(DefaultExploration)
	require.NoError(t, err)
	arms := newArms(t, 0.1, 0.9, 0.5)
	require.NoError(t, p.Init(arms, 10))

	for want := range arms {
		c := p.Choose(snapshots(arms))
		assert.Equal(t, want, c.Index)
		assert.True(t, c.Explored)
		arms[c.Index].Update(false)
	}
}

func TestUCB1_BonusFavorsUnderSampledArm(t *testing.T) {
	p, err := NewUCB1(DefaultExploration)
	require.NoError(t, err)

	// equal estimates: the arm pulled less often has the larger bonus
	view := []arm.Snapshot{{Estimate: 0.5, Pulls: 50}, {Estimate: 0.5, Pulls: 2}}
	assert.Equal(t, 1, p.Choose(view).Index)

	// a large estimate gap outweighs the bonus
	view = []arm.Snapshot{{Estimate: 0.95, Pulls: 500}, {Estimate: 0.05, Pulls: 400}}
	assert.Equal(t, 0, p.Choose(view).Index)

	// identical arms tie on the first index
	view = []arm.Snapshot{{Estimate: 0.5, Pulls: 3}, {Estimate: 0.5, Pulls: 3}}
	assert.Equal(t, 0, p.Choose(view).Index)
}
