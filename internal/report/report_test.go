package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fystack/mab-simulator/internal/arm"
	"github.com/fystack/mab-simulator/internal/compare"
	"github.com/fystack/mab-simulator/internal/decay"
	"github.com/fystack/mab-simulator/internal/experiment"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *experiment.Result {
	return &experiment.Result{
		Label:     "eps-linear",
		Algorithm: enum.AlgorithmEpsilonGreedy,
		Seed:      123,
		Trials:    4,
		Rewards:   []bool{false, true, true, false},
		Arms: []arm.Snapshot{
			{TrueProbability: 0.25, Estimate: 0, Pulls: 1},
			{TrueProbability: 0.75, Estimate: 2.0 / 3.0, Pulls: 3},
		},
		OptimalIndex:    1,
		Explored:        1,
		Exploited:       3,
		OptimalSelected: 3,
		FinalEpsilon:    0.05,
		Decay: &experiment.DecayInfo{
			Strategy: enum.DecayLinear,
			Params:   decay.Params{Minimum: 0.05, Rate: 0.01},
			Steps:    4,
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResult())

	assert.Equal(t, 2, s.TotalReward)
	assert.Equal(t, "0.5", s.WinRate.String())
	assert.Equal(t, "0.75", s.MaxProbability.String())
	assert.Equal(t, "1", s.Regret.String())
	assert.Equal(t, "0.75", s.OptimalRate.String())
	assert.True(t, s.Converged)
	require.NotNil(t, s.FinalEpsilon)
	assert.Equal(t, "0.05", s.FinalEpsilon.String())
	require.NotNil(t, s.Decay)
	assert.Equal(t, enum.DecayLinear, s.Decay.Strategy)
	assert.Equal(t, "0.05", s.Decay.Minimum.String())
	assert.Equal(t, "0.01", s.Decay.Rate.String())
	assert.Equal(t, 4, s.Decay.Steps)

	require.Len(t, s.Arms, 2)
	assert.Equal(t, "0.6667", s.Arms[1].Estimate.String())
	assert.True(t, s.Arms[1].Optimal)
	assert.False(t, s.Arms[0].Optimal)
}

func TestSummarize_NoEpsilonForGreedyPolicies(t *testing.T) {
	res := sampleResult()
	res.Algorithm = enum.AlgorithmUCB1
	res.Decay = nil
	s := Summarize(res)
	assert.Nil(t, s.FinalEpsilon)
	assert.Nil(t, s.Decay)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "eps-linear (epsilon_greedy, seed 123)")
	assert.Contains(t, out, "0.5000")
	assert.Contains(t, out, "Final epsilon:")
	assert.Contains(t, out, "linear (minimum 0.0500, rate 0.0100, 4 steps)")
	assert.Contains(t, out, "1*")
	assert.Contains(t, out, "0.6667")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Summarize(sampleResult())))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "eps-linear", decoded["label"])
	assert.Equal(t, "0.5", decoded["win_rate"])
	assert.Len(t, decoded["arms"], 2)
}

func TestWriteComparison(t *testing.T) {
	var buf bytes.Buffer
	standings := []compare.Standing{
		{Rank: 1, Label: "ucb", TotalReward: 70, WinRate: 0.7, OptimalRate: 0.9, Regret: 5, Converged: true},
		{Rank: 2, Label: "random", TotalReward: 50, WinRate: 0.5, OptimalRate: 0.5, Regret: 25},
	}
	require.NoError(t, WriteComparison(&buf, standings))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "RANK")
	assert.Contains(t, lines[1], "ucb")
	assert.Contains(t, lines[1], "0.7000")
	assert.Contains(t, lines[2], "25.00")
}

func TestCurveIndices(t *testing.T) {
	assert.Nil(t, CurveIndices(0, CurveOptions{}))
	assert.Equal(t, []int{0, 1, 2}, CurveIndices(3, CurveOptions{}))
	assert.Equal(t, []int{0, 1, 2}, CurveIndices(3, CurveOptions{Points: 10}))
	assert.Equal(t, []int{0, 5, 9}, CurveIndices(10, CurveOptions{Points: 3}))
	assert.Equal(t, []int{0, 9, 99, 999}, CurveIndices(1000, CurveOptions{Points: 4, LogScale: true}))
	assert.Equal(t, []int{99}, CurveIndices(100, CurveOptions{Points: 1}))

	// log spacing collapses duplicate early indices
	idx := CurveIndices(50, CurveOptions{Points: 20, LogScale: true})
	for i := 1; i < len(idx); i++ {
		assert.Greater(t, idx[i], idx[i-1])
	}
	assert.Equal(t, 49, idx[len(idx)-1])
}

func TestWriteCurveCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCurveCSV(&buf, sampleResult(), CurveOptions{}))

	want := "trial,win_rate,max_probability\n" +
		"1,0.000000,0.75\n" +
		"2,0.500000,0.75\n" +
		"3,0.666667,0.75\n" +
		"4,0.500000,0.75\n"
	assert.Equal(t, want, buf.String())
}
