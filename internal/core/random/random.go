// Package random provides the single seedable source of randomness used by
// the simulation. Each agent draws from its own stream, derived from the
// source seed and the agent ID, so an agent's trajectory does not depend on
// which other agents share the simulation or in which order they tick.
package random

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Stream is a sequence of random draws owned by one agent.
type Stream interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// NormFloat64 returns a standard normal value (mean 0, stddev 1).
	NormFloat64() float64
}

// Source hands out per-agent streams.
type Source interface {
	Seed() uint64
	Stream(agentID string) Stream
}

type pcgSource struct {
	seed uint64
}

// NewSource returns a deterministic Source. Two sources with the same seed
// produce identical streams for identical agent IDs.
func NewSource(seed uint64) Source {
	return pcgSource{seed: seed}
}

func (s pcgSource) Seed() uint64 { return s.seed }

func (s pcgSource) Stream(agentID string) Stream {
	return rand.New(rand.NewPCG(s.seed, xxhash.Sum64String(agentID)))
}

// Func adapts a function to Source, mostly for tests that need to observe
// or script draws.
type Func func(agentID string) Stream

func (f Func) Seed() uint64                 { return 0 }
func (f Func) Stream(agentID string) Stream { return f(agentID) }
