package goal

import (
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// MergeError reports why two jobs could not be combined by the clustering
// pre-processor.
type MergeError struct {
	Code ViolationCode
}

func (e *MergeError) Error() string { return "goal: jobs cannot be merged" }

// Violation is returned by a Constraint when a candidate move is infeasible.
// Stopped=true means every later position on the route is infeasible too (the
// insertion evaluator should stop scanning this route entirely); Stopped=false
// means only this particular position fails.
type Violation struct {
	Code    ViolationCode
	Stopped bool
}

// Constraint evaluates move feasibility and, for the clustering pre-processor,
// whether two jobs can be merged into one.
type Constraint interface {
	// Evaluate returns nil if move is feasible, else the Violation describing why.
	Evaluate(move MoveContext) *Violation
	// Merge combines source and candidate into a single job for clustering, or
	// returns an error (carrying a ViolationCode) if they cannot combine.
	Merge(source, candidate model.Job) (model.Job, error)
}

// State reacts to tour mutation: incremental updates after a successful
// insertion, route-local recomputation when a route's stale flag is set, and
// cross-route recomputation that may reassign jobs between required, ignored,
// unassigned and locked.
type State interface {
	// AcceptInsertion runs after job has been committed into routeIdx.
	AcceptInsertion(sol *solution.Context, routeIdx int, job model.Job)
	// AcceptRouteState recomputes routeCtx's derived state. Only called when
	// routeCtx.IsStale() holds; must be idempotent on a non-stale route.
	AcceptRouteState(routeCtx *solution.RouteContext)
	// AcceptSolutionState runs a cross-route recompute pass. May move jobs between
	// sol.Required/Ignored/Unassigned/Locked; the composite state retries the full
	// pipeline until a fixed point or a 100-iteration cap.
	AcceptSolutionState(sol *solution.Context)
}

// Objective scores a whole solution and estimates the incremental cost of one
// candidate move, used both for total ordering between solutions and for
// selecting the cheapest feasible insertion.
type Objective interface {
	Fitness(sol *solution.Context) float64
	Estimate(move MoveContext) float64
}

// Feature is a named, optional bundle of constraint/state/objective behavior. Any
// subset of the three may be present; a feature that only contributes a hard
// constraint leaves State and Objective nil, and so on.
type Feature struct {
	Name       string
	Constraint Constraint
	State      State
	Objective  Objective
}
