package population

import "math/rand"

// Greedy keeps only the single best individual seen so far: the simplest
// Population variant, useful for deterministic hill-climbing comparisons
// against the adaptive variants.
type Greedy struct {
	list *sortedList
}

// NewGreedy builds a Greedy population.
func NewGreedy() *Greedy {
	return &Greedy{list: newSortedList(1)}
}

// Add implements Population.
func (g *Greedy) Add(individual *Individual) bool { return g.list.add(individual) }

// Select implements Population: with only ever one individual held, every
// draw returns it.
func (g *Greedy) Select(n int, rng *rand.Rand) []*Individual {
	return selectUniform(g.list.individuals, n, rng)
}

// Best implements Population.
func (g *Greedy) Best() *Individual { return g.list.best() }

// Len implements Population.
func (g *Greedy) Len() int { return g.list.len() }
