package insertion

import "math/rand"

// LegSelector narrows the positions scanned within a route, trading evaluation
// accuracy for speed on long tours.
type LegSelector interface {
	// Select filters positions (already restricted by Policy) down to the subset
	// actually scanned.
	Select(positions []int, r *rand.Rand) []int
}

// Exhaustive scans every candidate position; the accurate, default choice.
type Exhaustive struct{}

// Select implements LegSelector.
func (Exhaustive) Select(positions []int, _ *rand.Rand) []int { return positions }

// Stochastic scans a sampled subset of size Sample (or all positions, if there
// are fewer than Sample), drawn without replacement from the evaluation
// Environment's RNG. Trades completeness for speed on routes with many legs.
type Stochastic struct {
	Sample int
}

// NewStochastic returns a Stochastic leg selector sampling up to sample
// positions per route.
func NewStochastic(sample int) Stochastic {
	if sample < 1 {
		sample = 1
	}
	return Stochastic{Sample: sample}
}

// Select implements LegSelector.
func (s Stochastic) Select(positions []int, r *rand.Rand) []int {
	if len(positions) <= s.Sample {
		return positions
	}
	shuffled := append([]int(nil), positions...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:s.Sample]
}
