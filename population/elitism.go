package population

import (
	"math/rand"
	"sort"
)

// Elitism keeps up to MaxSize individuals and selects with weighted bias
// toward better ranks: the sorted list's front (rank 0) is far more likely to
// be drawn than its tail, but every kept individual retains some chance.
type Elitism struct {
	list *sortedList
}

// NewElitism builds an Elitism population holding up to maxSize individuals.
func NewElitism(maxSize int) *Elitism {
	return &Elitism{list: newSortedList(maxSize)}
}

// Add implements Population.
func (e *Elitism) Add(individual *Individual) bool { return e.list.add(individual) }

// Best implements Population.
func (e *Elitism) Best() *Individual { return e.list.best() }

// Len implements Population.
func (e *Elitism) Len() int { return e.list.len() }

// Select implements Population: the current best first, then n-1 weighted
// draws with replacement. Weight at sorted position i is 1/(i+1), so the
// best individual is twice as likely to be drawn as the second-best and three
// times as likely as the third, and so on — biased toward better ranks without
// ever zeroing out the tail.
func (e *Elitism) Select(n int, rng *rand.Rand) []*Individual {
	individuals := e.list.individuals
	if len(individuals) == 0 || n <= 0 {
		return nil
	}
	cdf := make([]float64, len(individuals))
	var total float64
	for i := range individuals {
		total += 1.0 / float64(i+1)
		cdf[i] = total
	}
	for i := range cdf {
		cdf[i] /= total
	}

	out := make([]*Individual, 0, n)
	out = append(out, individuals[0])
	for len(out) < n {
		u := rng.Float64()
		idx := sort.SearchFloat64s(cdf, u)
		if idx >= len(individuals) {
			idx = len(individuals) - 1
		}
		out = append(out, individuals[idx])
	}
	return out
}
