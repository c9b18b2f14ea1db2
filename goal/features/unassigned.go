package features

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/solution"
)

// defaultUnassignedPenalty is the per-job cost charged for each job left
// unassigned, dominating any feasible reshuffle that would place it instead.
const defaultUnassignedPenalty = 1_000_000.0

type unassignedFeature struct {
	penalty float64
}

// NewUnassigned builds the unassigned-job penalty objective every solution
// carries: every solution is scored, feasible or not, and an unassigned job
// always costs more than any transport detour that would have placed it.
func NewUnassigned(penalty float64) goal.Feature {
	if penalty <= 0 {
		penalty = defaultUnassignedPenalty
	}
	return goal.Feature{Name: "unassigned", Objective: unassignedFeature{penalty: penalty}}
}

func (f unassignedFeature) Fitness(sol *solution.Context) float64 {
	return float64(len(sol.Unassigned)) * f.penalty
}

// Estimate implements goal.Objective; the unassigned penalty has no per-move
// marginal cost since it only scores whole solutions, not candidate positions.
func (f unassignedFeature) Estimate(goal.MoveContext) float64 { return 0 }
