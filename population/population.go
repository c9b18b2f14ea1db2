package population

import (
	"sort"

	"math/rand"
)

// Population holds a bounded set of Individuals and selects parents from it.
// Add and Select are the only operations the search loop drives; concurrent
// callers must serialise access themselves (the search package wraps a
// Population in a mutex, since it is the only structure search threads share).
type Population interface {
	// Add merges individual into the population, returning true iff it is
	// strictly better than the previous best individual, or the population was
	// empty before the call.
	Add(individual *Individual) bool
	// Select returns n individuals: the current best first, then n-1 uniform
	// draws with replacement from the full population. Returns nil if the
	// population is empty.
	Select(n int, rng *rand.Rand) []*Individual
	// Best returns the current best individual, or nil if the population is empty.
	Best() *Individual
	// Len returns the current individual count.
	Len() int
}

// sortedList is the shared non-dominated-sort-and-truncate machinery every
// Population variant below builds on: Greedy is sortedList capped at 1,
// Elitism is sortedList capped at k with weighted Select, Rosomaxa layers a SOM
// on top for Select while still using sortedList to hold its elite subset.
type sortedList struct {
	maxSize     int
	individuals []*Individual
}

func newSortedList(maxSize int) *sortedList {
	return &sortedList{maxSize: maxSize}
}

// add implements the spec's four-step add algorithm: rank via non-dominated
// sort, merge into the existing sorted order, dedup identical fitness tuples
// at the same rank, truncate to maxSize. Returns whether individual improved
// on the previous best.
func (s *sortedList) add(individual *Individual) bool {
	prevBest := s.best()
	improved := prevBest == nil || dominates(individual.Fitness, prevBest.Fitness)

	merged := append(append([]*Individual(nil), s.individuals...), individual)
	ranks := rank(merged)

	type ranked struct {
		ind  *Individual
		rank int
	}
	entries := make([]ranked, len(merged))
	for i, ind := range merged {
		entries[i] = ranked{ind: ind, rank: ranks[i]}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].rank < entries[j].rank })

	deduped := make([]*Individual, 0, len(entries))
	dedupedRanks := make([]int, 0, len(entries))
	for _, e := range entries {
		duplicate := false
		for i := len(deduped) - 1; i >= 0 && dedupedRanks[i] == e.rank; i-- {
			if sameFitness(deduped[i].Fitness, e.ind.Fitness) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		deduped = append(deduped, e.ind)
		dedupedRanks = append(dedupedRanks, e.rank)
	}
	if s.maxSize > 0 && len(deduped) > s.maxSize {
		deduped = deduped[:s.maxSize]
	}
	s.individuals = deduped
	return improved
}

func (s *sortedList) best() *Individual {
	if len(s.individuals) == 0 {
		return nil
	}
	return s.individuals[0]
}

func (s *sortedList) len() int { return len(s.individuals) }

// selectUniform implements the shared select(n) contract: best first, then
// n-1 uniform draws with replacement from the full list (including the best,
// per spec — the "with replacement" draws are not restricted to the rest).
func selectUniform(individuals []*Individual, n int, rng *rand.Rand) []*Individual {
	if len(individuals) == 0 || n <= 0 {
		return nil
	}
	out := make([]*Individual, 0, n)
	out = append(out, individuals[0])
	for len(out) < n {
		out = append(out, individuals[rng.Intn(len(individuals))])
	}
	return out
}
