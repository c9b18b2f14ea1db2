package search

import (
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/problem"
	"github.com/vrp-solver/vrp-solver/solution"
)

// ownerIndex maps every Single pointer back to the Job it belongs to (itself
// for a standalone Single, the enclosing Multi otherwise). Duplicated from
// ruin.ownerIndex, which is unexported and this package has no other reason to
// depend on ruin for.
func ownerIndex(jobs []model.Job) map[*model.Single]model.Job {
	out := make(map[*model.Single]model.Job, len(jobs))
	for _, j := range jobs {
		switch v := j.(type) {
		case *model.Single:
			out[v] = v
		case *model.Multi:
			for _, s := range v.Jobs {
				out[s] = v
			}
		}
	}
	return out
}

// Repair synchronises a possibly-infeasible solution's routes back into a
// fresh, feasible InsertionContext over original: for every route, replay its
// activities one at a time (at the Last position, in tour order) into a
// scratch context scoped to that route's own actor — the "fake-job
// synchronisation" step, forcing each job to either re-insert at the end of
// the same route or be dropped, without the evaluator silently rerouting it
// onto some other actor's route. Multi-jobs are then validated atomically:
// if not every sub-job survived resynchronisation, in the original
// permutation, the whole group is removed and left unassigned. Remaining
// required jobs (including whatever was already required in infeasible, and
// anything untouched since it was never on a route) feed the normal recreate
// path — Repair itself only rebuilds what it can place directly.
func Repair(original *problem.Problem, evaluator *insertion.Evaluator, env *insertion.Environment, infeasible *solution.Context) *insertion.Context {
	owners := ownerIndex(original.Jobs.All())

	fresh := insertion.NewContext(original, solution.NewContext(original.Fleet, original.Jobs.All()), env)

	for _, routeCtx := range infeasible.Routes {
		if !routeCtx.Route().Tour.HasJobs() {
			continue
		}
		actor := routeCtx.Route().Actor
		scratchSol := solution.NewContext(model.NewFleet([]*model.Actor{actor}), nil)
		scratchCtx := insertion.NewContext(original, scratchSol, env)

		var placed []*model.Single
		for _, act := range routeCtx.Route().Tour.JobActivities() {
			single := act.Job
			result := evaluator.EvaluateJob(scratchCtx, single, insertion.LastPosition())
			if !result.Success {
				continue
			}
			scratchCtx.Commit(result)
			placed = append(placed, single)
		}
		if len(scratchSol.Routes) == 0 {
			continue
		}
		newRouteCtx := scratchSol.Routes[0]
		fresh.Solution.Routes = append(fresh.Solution.Routes, newRouteCtx)
		fresh.Solution.Registry.Registry().UseActor(actor)

		settleMultiJobs(fresh.Solution, newRouteCtx, owners, placed)
	}

	original.Goal.AcceptSolutionState(fresh.Solution)
	return fresh
}

// settleMultiJobs groups placed singles by owner: standalone singles are
// simply marked assigned, Multi groups are validated against their declared
// permutation and, if invalid or incomplete, stripped back out of the route
// and left for a later recreate pass to retry as a whole unit.
func settleMultiJobs(sol *solution.Context, routeCtx *solution.RouteContext, owners map[*model.Single]model.Job, placed []*model.Single) {
	byOwner := make(map[model.Job][]*model.Single)
	order := make([]model.Job, 0)
	for _, single := range placed {
		owner := owners[single]
		if owner == nil {
			continue
		}
		if _, seen := byOwner[owner]; !seen {
			order = append(order, owner)
		}
		byOwner[owner] = append(byOwner[owner], single)
	}

	for _, owner := range order {
		singles := byOwner[owner]
		multi, isMulti := owner.(*model.Multi)
		if !isMulti {
			sol.RemoveRequired(owner)
			sol.MarkAssigned(owner)
			continue
		}
		if len(singles) == len(multi.Jobs) && multi.Validate(singles) {
			sol.RemoveRequired(owner)
			sol.MarkAssigned(owner)
			continue
		}
		for _, single := range singles {
			routeCtx.Route().Tour.RemoveJob(single)
		}
		routeCtx.MarkStale(true)
		sol.AddRequired(owner)
	}
}
