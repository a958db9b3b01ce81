package decay

import (
	"fmt"
	"math"

	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/common/types"
)

const (
	DefaultMinimum = 0.001
	DefaultRate    = 0.01
)

// Strategy maps the current epsilon to the next one. Each Apply advances
// an internal step counter, so a Strategy must not be shared between
// experiments.
type Strategy interface {
	Name() enum.DecayStrategy
	Apply(current float64) float64
	Steps() int
	Params() Params
}

// PerformanceObserver is implemented by strategies that decay on a
// performance signal rather than on elapsed steps.
type PerformanceObserver interface {
	Observe(performance float64)
}

type Params struct {
	Minimum float64 `json:"minimum"`
	Rate    float64 `json:"rate"`
}

func (p Params) Validate() error {
	if math.IsNaN(p.Minimum) || p.Minimum < 0 || p.Minimum >= 1 {
		return fmt.Errorf("%w: decay minimum %v not in [0,1)", types.ErrInvalidParameter, p.Minimum)
	}
	if math.IsNaN(p.Rate) || p.Rate <= 0 || p.Rate >= 1 {
		return fmt.Errorf("%w: decay rate %v not in (0,1)", types.ErrInvalidParameter, p.Rate)
	}
	return nil
}

// New builds the named strategy. An empty name is the constant strategy;
// any other unknown name is an error.
func New(name enum.DecayStrategy, p Params) (Strategy, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b := base{params: p}
	switch name {
	case "", enum.DecayConstant:
		return &Constant{base: b}, nil
	case enum.DecayLinear:
		return &Linear{base: b}, nil
	case enum.DecayExponential:
		return &Exponential{base: b}, nil
	case enum.DecayInverseSqrt:
		return &InverseSqrt{base: b}, nil
	case enum.DecayAdaptive:
		return &Adaptive{base: b}, nil
	default:
		return nil, fmt.Errorf("%w: decay %q", types.ErrUnknownStrategy, name)
	}
}

type base struct {
	params Params
	steps  int
}

func (b *base) Steps() int     { return b.steps }
func (b *base) Params() Params { return b.params }

func (b *base) floor(v float64) float64 {
	return math.Max(v, b.params.Minimum)
}

// Constant never changes epsilon.
type Constant struct{ base }

func (c *Constant) Name() enum.DecayStrategy { return enum.DecayConstant }

func (c *Constant) Apply(current float64) float64 {
	c.steps++
	return current
}

// Linear removes n*rate of the distance to the minimum at step n.
type Linear struct{ base }

func (l *Linear) Name() enum.DecayStrategy { return enum.DecayLinear }

func (l *Linear) Apply(current float64) float64 {
	l.steps++
	n := float64(l.steps)
	return l.floor(current - (current-l.params.Minimum)*n*l.params.Rate)
}

// Exponential shrinks the distance to the minimum by exp(-rate*n).
type Exponential struct{ base }

func (e *Exponential) Name() enum.DecayStrategy { return enum.DecayExponential }

func (e *Exponential) Apply(current float64) float64 {
	e.steps++
	n := float64(e.steps)
	return e.floor(e.params.Minimum + (current-e.params.Minimum)*math.Exp(-e.params.Rate*n))
}

// InverseSqrt divides epsilon by sqrt(n+1).
type InverseSqrt struct{ base }

func (s *InverseSqrt) Name() enum.DecayStrategy { return enum.DecayInverseSqrt }

func (s *InverseSqrt) Apply(current float64) float64 {
	s.steps++
	n := float64(s.steps)
	return s.floor(current / math.Sqrt(n+1))
}

// Adaptive divides epsilon by 1 + rate*performance, where performance is
// the last value passed to Observe. Experimental: the update rule has no
// convergence guarantee and is kept for comparison runs only.
type Adaptive struct {
	base
	performance float64
}

func (a *Adaptive) Name() enum.DecayStrategy { return enum.DecayAdaptive }

func (a *Adaptive) Observe(performance float64) {
	if math.IsNaN(performance) || performance < 0 {
		performance = 0
	}
	a.performance = performance
}

func (a *Adaptive) Apply(current float64) float64 {
	a.steps++
	return a.floor(current / (1 + a.params.Rate*a.performance))
}
