package insertion

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// Result is the outcome of evaluating one job against one route (or, for
// Failure, against every route that was tried). A Success result has not yet
// been applied to the tour — Context.Commit applies it.
type Result struct {
	Success bool

	Job   model.Job
	Route *solution.RouteContext

	// Positions and Activities hold one insertion index and materialised
	// activity per sub-job of Job, in the order they must be spliced into the
	// tour (length 1 for a Single). For a Multi this is the winning
	// permutation's assignment.
	Positions  []int
	Activities []*solution.Activity
	Cost       float64

	// Violation and Detailed are set only on failure: Violation is the most
	// specific one seen while scanning, Detailed reports whether every actor in
	// the fleet was actually tried (vs. abandoned early for some other reason).
	Violation *goal.Violation
	Detailed  bool
}

// Failure builds a failed Result, optionally carrying the most specific
// violation observed.
func Failure(job model.Job, violation *goal.Violation, detailed bool) Result {
	return Result{Job: job, Violation: violation, Detailed: detailed}
}

// Succeed builds a successful Result for a Single job at one position.
func Succeed(job model.Job, route *solution.RouteContext, position int, activity *solution.Activity, cost float64) Result {
	return Result{
		Success: true, Job: job, Route: route,
		Positions: []int{position}, Activities: []*solution.Activity{activity}, Cost: cost,
	}
}

// SucceedMulti builds a successful Result for a Multi job at a winning
// permutation's positions and materialised activities (one per sub-job,
// ascending).
func SucceedMulti(job model.Job, route *solution.RouteContext, positions []int, activities []*solution.Activity, cost float64) Result {
	return Result{
		Success: true, Job: job, Route: route,
		Positions: append([]int(nil), positions...), Activities: append([]*solution.Activity(nil), activities...), Cost: cost,
	}
}

// Apply splices every Activities[i] into routeCtx's tour at Positions[i] (in
// the order given — later positions assume earlier insertions already
// happened, matching how the positions were derived during evaluation), marks
// the route stale, and runs the goal context's AcceptInsertion hook.
func (r Result) Apply(gc *goal.GoalContext, sol *solution.Context) {
	if !r.Success {
		return
	}
	tour := r.Route.RouteMut().Tour
	for i, pos := range r.Positions {
		tour.InsertAt(pos, r.Activities[i])
	}
	routeIdx := -1
	for i, rctx := range sol.Routes {
		if rctx == r.Route {
			routeIdx = i
			break
		}
	}
	gc.AcceptInsertion(sol, routeIdx, r.Job)
}

// betterThan reports whether r is strictly cheaper than other, treating a
// Success as always better than a Failure.
func (r Result) betterThan(other Result) bool {
	if r.Success != other.Success {
		return r.Success
	}
	if !r.Success {
		return false
	}
	return r.Cost < other.Cost
}
