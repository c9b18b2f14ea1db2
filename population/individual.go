// Package population keeps a bounded, diverse set of candidate solutions,
// ranks them by the goal context's lexicographic group order, and selects
// parents for the next search generation.
package population

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/solution"
)

// Individual bundles a solution snapshot with its per-group fitness vector, so
// ranking never has to re-evaluate the goal context on every comparison.
type Individual struct {
	Solution *solution.Context
	Fitness  []float64 // one entry per main-goal group, in group order
}

// NewIndividual deep-copies sol and evaluates its fitness vector under gc. The
// population never holds a solution that search is still mutating.
func NewIndividual(gc *goal.GoalContext, sol *solution.Context) *Individual {
	snapshot := sol.DeepCopy()
	return &Individual{Solution: snapshot, Fitness: gc.FitnessByGroup(snapshot)}
}

// dominates reports whether a is at least as good as b in every goal group and
// strictly better in at least one — lower fitness is better throughout. Groups
// are compared in order since earlier groups lexicographically dominate, but
// dominance itself still requires a to never be worse in any group.
func dominates(a, b []float64) bool {
	strictlyBetter := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// sameFitness reports whether two fitness vectors are identical, the dedup
// test the population uses when merging individuals at the same rank.
func sameFitness(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// rank computes each individual's non-domination rank (0 is best) over the
// full set, the classic front-peeling algorithm: rank 0 is every individual no
// one dominates, rank 1 is every individual dominated only by rank-0 members,
// and so on.
func rank(individuals []*Individual) []int {
	n := len(individuals)
	ranks := make([]int, n)
	dominatedBy := make([][]int, n)
	dominationCount := make([]int, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if dominates(individuals[i].Fitness, individuals[j].Fitness) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if dominates(individuals[j].Fitness, individuals[i].Fitness) {
				dominationCount[i]++
			}
		}
	}

	front := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if dominationCount[i] == 0 {
			front = append(front, i)
			ranks[i] = 0
		}
	}
	for current := 0; len(front) > 0; current++ {
		var next []int
		for _, i := range front {
			for _, j := range dominatedBy[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					ranks[j] = current + 1
					next = append(next, j)
				}
			}
		}
		front = next
	}
	return ranks
}
