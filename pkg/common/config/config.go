package config

import (
	"fmt"

	"github.com/fystack/mab-simulator/internal/decay"
	"github.com/fystack/mab-simulator/internal/experiment"
	"github.com/fystack/mab-simulator/internal/policy"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/randsrc"
)

type Config struct {
	Experiment ExperimentCfg  `yaml:"experiment"`
	Algorithms []AlgorithmCfg `yaml:"algorithms" validate:"required,min=1,dive"`
	Compare    CompareCfg     `yaml:"compare"`
	Logging    LoggingCfg     `yaml:"logging"`
}

type ExperimentCfg struct {
	// Arms may be omitted when probabilities are listed.
	Arms          int       `yaml:"arms"          validate:"gte=0"`
	Probabilities []float64 `yaml:"probabilities" validate:"omitempty,dive,gte=0,lte=1"`
	Trials        int       `yaml:"trials"        validate:"gt=0"`
	Seed          *uint64   `yaml:"seed"`
}

type AlgorithmCfg struct {
	Name         string         `yaml:"name"`
	Type         enum.Algorithm `yaml:"type"`
	Seed         *uint64        `yaml:"seed"`
	Epsilon      *float64       `yaml:"epsilon"       validate:"omitempty,gte=0,lte=1"`
	Decay        DecayCfg       `yaml:"decay"`
	TraceEpsilon bool           `yaml:"trace_epsilon"`
	InitialMean  *float64       `yaml:"initial_mean"`
	Jitter       *float64       `yaml:"jitter"        validate:"omitempty,gte=0"`
	Exploration  *float64       `yaml:"exploration"   validate:"omitempty,gt=0"`
}

type DecayCfg struct {
	Strategy enum.DecayStrategy `yaml:"strategy"`
	Minimum  *float64           `yaml:"minimum" validate:"omitempty,gte=0,lt=1"`
	Rate     *float64           `yaml:"rate"    validate:"omitempty,gt=0,lt=1"`
}

type CompareCfg struct {
	// Workers bounds parallel experiments; zero means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0"`
	// IndependentSeeds gives every algorithm without its own seed a
	// distinct stream derived from experiment.seed. When false they all
	// share experiment.seed.
	IndependentSeeds bool `yaml:"independent_seeds"`
}

type LoggingCfg struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

const (
	DefaultTrials      = 10000
	DefaultInitialMean = 5.0
)

// Default is a runnable comparison of every algorithm on three arms.
func Default() *Config {
	cfg := &Config{
		Experiment: ExperimentCfg{
			Probabilities: []float64{0.2, 0.5, 0.75},
			Trials:        DefaultTrials,
		},
		Algorithms: []AlgorithmCfg{
			{Type: enum.AlgorithmRandom},
			{Type: enum.AlgorithmEpsilonGreedy},
			{Name: "epsilon_greedy_exponential", Type: enum.AlgorithmEpsilonGreedy, Decay: DecayCfg{Strategy: enum.DecayExponential}},
			{Type: enum.AlgorithmOptimistic},
			{Type: enum.AlgorithmUCB1},
		},
		Logging: LoggingCfg{Level: "info"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func f64(v float64) *float64 { return &v }
func u64(v uint64) *uint64   { return &v }

// ApplyDefaults fills every optional field left unset.
func (c *Config) ApplyDefaults() {
	if c.Experiment.Seed == nil {
		c.Experiment.Seed = u64(randsrc.DefaultSeed)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	for i := range c.Algorithms {
		a := &c.Algorithms[i]
		if a.Name == "" {
			a.Name = a.DefaultName()
		}
		if a.Seed == nil {
			seed := *c.Experiment.Seed
			if c.Compare.IndependentSeeds {
				seed = randsrc.Derive(seed, i)
			}
			a.Seed = u64(seed)
		}
		if a.Epsilon == nil {
			a.Epsilon = f64(policy.DefaultEpsilon)
		}
		if a.Decay.Strategy == "" {
			a.Decay.Strategy = enum.DecayConstant
		}
		if a.Decay.Minimum == nil {
			a.Decay.Minimum = f64(decay.DefaultMinimum)
		}
		if a.Decay.Rate == nil {
			a.Decay.Rate = f64(decay.DefaultRate)
		}
		if a.InitialMean == nil {
			a.InitialMean = f64(DefaultInitialMean)
		}
		if a.Jitter == nil {
			a.Jitter = f64(policy.DefaultJitterScale)
		}
		if a.Exploration == nil {
			a.Exploration = f64(policy.DefaultExploration)
		}
	}
}

// DefaultName is the name used when none is configured: the type, with the
// decay strategy appended unless it is constant.
func (a AlgorithmCfg) DefaultName() string {
	if a.Decay.Strategy == "" || a.Decay.Strategy == enum.DecayConstant {
		return string(a.Type)
	}
	return string(a.Type) + "_" + string(a.Decay.Strategy)
}

// ArmCount is the number of arms the experiment section describes.
func (e ExperimentCfg) ArmCount() int {
	if len(e.Probabilities) > 0 {
		return len(e.Probabilities)
	}
	return e.Arms
}

// Spec converts the algorithm section into a policy spec. Call after
// ApplyDefaults.
func (a AlgorithmCfg) Spec() policy.Spec {
	return policy.Spec{
		Algorithm:    a.Type,
		Epsilon:      deref(a.Epsilon),
		Decay:        a.Decay.Strategy,
		DecayParams:  decay.Params{Minimum: deref(a.Decay.Minimum), Rate: deref(a.Decay.Rate)},
		TraceEpsilon: a.TraceEpsilon,
		InitialMean:  deref(a.InitialMean),
		JitterScale:  deref(a.Jitter),
		Exploration:  deref(a.Exploration),
	}
}

// Experiments returns one experiment config per algorithm, in file order.
// Every experiment plays the same arms: omitted probabilities are drawn
// once from experiment.seed, and the per-algorithm seed only drives the
// policy and the pulls.
func (c *Config) Experiments() []experiment.Config {
	probs := c.Experiment.Probabilities
	if len(probs) == 0 {
		probs = c.Experiment.drawProbabilities()
	}

	out := make([]experiment.Config, len(c.Algorithms))
	for i, a := range c.Algorithms {
		out[i] = experiment.Config{
			Label:         a.Name,
			Arms:          len(probs),
			Probabilities: append([]float64(nil), probs...),
			Trials:        c.Experiment.Trials,
			Seed:          deref(a.Seed),
			Policy:        a.Spec(),
		}
	}
	return out
}

func (e ExperimentCfg) drawProbabilities() []float64 {
	seed := randsrc.DefaultSeed
	if e.Seed != nil {
		seed = *e.Seed
	}
	rng := randsrc.New(seed)
	probs := make([]float64, e.ArmCount())
	for i := range probs {
		probs[i] = rng.Float64()
	}
	return probs
}

// Algorithm returns the first algorithm entry whose name or type matches.
func (c *Config) Algorithm(name string) (AlgorithmCfg, error) {
	for _, a := range c.Algorithms {
		if a.Name == name {
			return a, nil
		}
	}
	for _, a := range c.Algorithms {
		if string(a.Type) == name {
			return a, nil
		}
	}
	return AlgorithmCfg{}, fmt.Errorf("algorithm %q not configured", name)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
