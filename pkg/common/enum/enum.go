package enum

type Algorithm string
type DecayStrategy string

const (
	AlgorithmRandom        Algorithm = "random"
	AlgorithmEpsilonGreedy Algorithm = "epsilon_greedy"
	AlgorithmOptimistic    Algorithm = "optimistic"
	AlgorithmUCB1          Algorithm = "ucb1"
)

const (
	DecayConstant    DecayStrategy = "constant"
	DecayLinear      DecayStrategy = "linear"
	DecayExponential DecayStrategy = "exponential"
	DecayInverseSqrt DecayStrategy = "inverse_sqrt"
	DecayAdaptive    DecayStrategy = "adaptive"
)

func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmRandom, AlgorithmEpsilonGreedy, AlgorithmOptimistic, AlgorithmUCB1:
		return true
	}
	return false
}

func (d DecayStrategy) Valid() bool {
	switch d {
	case DecayConstant, DecayLinear, DecayExponential, DecayInverseSqrt, DecayAdaptive:
		return true
	}
	return false
}

func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmRandom, AlgorithmEpsilonGreedy, AlgorithmOptimistic, AlgorithmUCB1}
}
