// Package randsrc provides the explicitly owned random source every
// experiment carries. Nothing in the simulator touches a global generator.
package randsrc

import "math/rand/v2"

// DefaultSeed keeps runs reproducible when no seed is configured.
const DefaultSeed uint64 = 123

// Source is the subset of *rand.Rand the simulator draws from.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// New returns a PCG-backed generator. Two generators built from the same
// seed produce the same stream.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Derive returns the seed for the i-th independent stream of a base seed,
// so parallel experiments never share a generator.
func Derive(base uint64, i int) uint64 {
	// splitmix64 step
	z := base + uint64(i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
