package goal

import (
	"fmt"

	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// maxSolutionStatePasses bounds the accept_solution_state fixed-point loop: a
// feature that keeps promoting jobs between required/ignored/unassigned/locked
// forever would otherwise hang the search loop.
const maxSolutionStatePasses = 100

// GoalContext composes an ordered slice of Features into the single constraint,
// state and objective the rest of the solver calls through. It also carries the
// two goal maps used for total ordering between solutions: main (lexicographic
// dominance groups) and optimisation (a tie-breaker permutation used by
// selection).
type GoalContext struct {
	Features     []Feature
	MainGoal     [][]string // ordered groups of objective names; earlier groups dominate
	Optimisation []string   // flat tie-breaker order, a permutation of all objective names
}

// NewGoalContext builds a GoalContext, validating that every name referenced by
// the goal maps corresponds to a feature carrying an Objective.
func NewGoalContext(features []Feature, mainGoal [][]string, optimisation []string) (*GoalContext, error) {
	byName := make(map[string]Feature, len(features))
	for _, f := range features {
		byName[f.Name] = f
	}
	for _, group := range mainGoal {
		for _, name := range group {
			if f, ok := byName[name]; !ok || f.Objective == nil {
				return nil, fmt.Errorf("goal: main goal map references unknown or non-objective feature %q", name)
			}
		}
	}
	for _, name := range optimisation {
		if f, ok := byName[name]; !ok || f.Objective == nil {
			return nil, fmt.Errorf("goal: optimisation goal map references unknown or non-objective feature %q", name)
		}
	}
	return &GoalContext{Features: features, MainGoal: mainGoal, Optimisation: optimisation}, nil
}

// Evaluate runs every feature's Constraint in order, short-circuiting on the
// first violation — the composite behavior is "first failure wins", not
// "collect all failures", since later evaluations after an infeasible move are
// meaningless.
func (g *GoalContext) Evaluate(move MoveContext) *Violation {
	for _, f := range g.Features {
		if f.Constraint == nil {
			continue
		}
		if v := f.Constraint.Evaluate(move); v != nil {
			return v
		}
	}
	return nil
}

// Merge runs every feature's Merge in order; the first one to reject the pair
// fails the whole merge (all features must agree the jobs combine).
func (g *GoalContext) Merge(source, candidate model.Job) (model.Job, error) {
	result := candidate
	for _, f := range g.Features {
		if f.Constraint == nil {
			continue
		}
		merged, err := f.Constraint.Merge(source, result)
		if err != nil {
			return nil, err
		}
		result = merged
	}
	return result, nil
}

// AcceptInsertion runs every feature's State.AcceptInsertion in order.
func (g *GoalContext) AcceptInsertion(sol *solution.Context, routeIdx int, job model.Job) {
	for _, f := range g.Features {
		if f.State != nil {
			f.State.AcceptInsertion(sol, routeIdx, job)
		}
	}
}

// AcceptRouteState recomputes routeCtx's derived state via every feature, then
// clears the stale flag. A no-op if the route is not stale.
func (g *GoalContext) AcceptRouteState(routeCtx *solution.RouteContext) {
	if !routeCtx.IsStale() {
		return
	}
	for _, f := range g.Features {
		if f.State != nil {
			f.State.AcceptRouteState(routeCtx)
		}
	}
	routeCtx.MarkStale(false)
}

// AcceptSolutionState runs the full feature pipeline's cross-route recompute,
// repeating until no feature changes the required/ignored/unassigned/locked job
// sets (a fixed point) or maxSolutionStatePasses is reached.
func (g *GoalContext) AcceptSolutionState(sol *solution.Context) {
	for pass := 0; pass < maxSolutionStatePasses; pass++ {
		before := jobSetSignature(sol)
		for _, f := range g.Features {
			if f.State != nil {
				f.State.AcceptSolutionState(sol)
			}
		}
		for _, rctx := range sol.Routes {
			g.AcceptRouteState(rctx)
		}
		if jobSetSignature(sol) == before {
			return
		}
	}
}

// jobSetSignature is a cheap fixed-point check over the sizes of the job buckets
// a solution state pass may move jobs between. A feature that moves a job from
// unassigned to required without changing any bucket's size cannot happen (every
// move is a transfer between exactly two buckets), so size tuples are sufficient
// to detect "nothing changed this pass".
func jobSetSignature(sol *solution.Context) [4]int {
	return [4]int{len(sol.Required), len(sol.Ignored), len(sol.Unassigned), len(sol.Locked)}
}

// Fitness sums every feature's Objective.Fitness, in feature order, as a single
// scalar. Full lexicographic dominance comparison between two solutions'
// per-group fitness vectors is implemented by the population package, which
// needs the per-group breakdown rather than this flattened total.
func (g *GoalContext) Fitness(sol *solution.Context) float64 {
	var total float64
	for _, f := range g.Features {
		if f.Objective != nil {
			total += f.Objective.Fitness(sol)
		}
	}
	return total
}

// FitnessByGroup evaluates each main-goal group's total fitness, in group order,
// for lexicographic comparison between two solutions.
func (g *GoalContext) FitnessByGroup(sol *solution.Context) []float64 {
	byName := make(map[string]Feature, len(g.Features))
	for _, f := range g.Features {
		byName[f.Name] = f
	}
	out := make([]float64, len(g.MainGoal))
	for i, group := range g.MainGoal {
		var sum float64
		for _, name := range group {
			sum += byName[name].Objective.Fitness(sol)
		}
		out[i] = sum
	}
	return out
}

// Estimate sums every feature's Objective.Estimate for the candidate move — the
// incremental cost used to rank insertion positions.
func (g *GoalContext) Estimate(move MoveContext) float64 {
	var total float64
	for _, f := range g.Features {
		if f.Objective != nil {
			total += f.Objective.Estimate(move)
		}
	}
	return total
}
