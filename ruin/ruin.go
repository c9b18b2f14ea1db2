// Package ruin destroys part of a solution under construction to re-open the
// search for recreate to rebuild: every operator here respects locked jobs and
// reports what it removed back onto the solution's required-job list.
package ruin

import (
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// Ruin removes some portion of an already-built solution, adding the affected
// jobs back onto ctx.Solution.Required for a subsequent recreate pass.
type Ruin interface {
	Run(ctx *insertion.Context)
}

// RemovalTracker bounds how much damage a single Run call may do. A zero field
// means "unbounded" for that dimension.
type RemovalTracker struct {
	MaxRuinedJobs       int
	MaxRuinedActivities int
	MaxAffectedRoutes   int
}

// tracking is RemovalTracker's mutable running state across one Run call.
type tracking struct {
	limits     RemovalTracker
	jobs       int
	activities int
	routes     map[*solution.RouteContext]bool
}

func newTracking(limits RemovalTracker) *tracking {
	return &tracking{limits: limits, routes: make(map[*solution.RouteContext]bool)}
}

// allow reports whether removing jobCount jobs / activityCount activities from
// route would stay within budget. The very first removal of a Run call is
// always allowed regardless of budget, so a small instance with one
// oversized cluster still gets ruined at least once (spec's "at least one
// full route" exploration guarantee, generalised to every operator here).
func (tr *tracking) allow(route *solution.RouteContext, jobCount, activityCount int) bool {
	if tr.jobs == 0 && len(tr.routes) == 0 {
		return true
	}
	newRoutes := len(tr.routes)
	if !tr.routes[route] {
		newRoutes++
	}
	if tr.limits.MaxRuinedJobs > 0 && tr.jobs+jobCount > tr.limits.MaxRuinedJobs {
		return false
	}
	if tr.limits.MaxRuinedActivities > 0 && tr.activities+activityCount > tr.limits.MaxRuinedActivities {
		return false
	}
	if tr.limits.MaxAffectedRoutes > 0 && newRoutes > tr.limits.MaxAffectedRoutes {
		return false
	}
	return true
}

func (tr *tracking) record(route *solution.RouteContext, jobCount, activityCount int) {
	tr.jobs += jobCount
	tr.activities += activityCount
	tr.routes[route] = true
}

// ownerIndex maps every Single pointer back to the Job it belongs to (itself,
// for a standalone Single; the enclosing Multi for one of its sub-jobs), so an
// operator that finds a tour activity can recover the all-or-nothing job unit
// that must be ruined atomically.
func ownerIndex(jobs []model.Job) map[*model.Single]model.Job {
	idx := make(map[*model.Single]model.Job, len(jobs))
	for _, j := range jobs {
		switch v := j.(type) {
		case *model.Single:
			idx[v] = v
		case *model.Multi:
			for _, s := range v.Jobs {
				idx[s] = v
			}
		}
	}
	return idx
}

// isLocked reports whether job must never be ruined: either the solution's own
// bookkeeping says so, or it is referenced by one of the problem's locks
// directly (consulted as a fallback since nothing currently populates
// solution.Context.Locked eagerly).
func isLocked(ctx *insertion.Context, job model.Job) bool {
	if ctx.Solution.IsLocked(job) {
		return true
	}
	for _, lock := range ctx.Problem.Locks {
		for _, j := range lock.JobsOf() {
			if j == job {
				return true
			}
		}
	}
	return false
}

// removeFromRoute removes every activity belonging to job from routeCtx's
// tour (one activity for a Single, all sub-job activities for a Multi),
// returning how many activities were actually removed.
func removeFromRoute(routeCtx *solution.RouteContext, job model.Job) int {
	tour := routeCtx.Route().Tour
	removed := 0
	switch j := job.(type) {
	case *model.Single:
		if tour.RemoveJob(j) {
			removed = 1
		}
	case *model.Multi:
		for _, s := range j.Jobs {
			if tour.RemoveJob(s) {
				removed++
			}
		}
	}
	if removed > 0 {
		routeCtx.MarkStale(true)
	}
	return removed
}

// ruinJob removes job from routeCtx, re-queues it onto Required and evicts any
// cached insertion results that now refer to a changed route or a
// newly-unassigned job.
func ruinJob(ctx *insertion.Context, routeCtx *solution.RouteContext, job model.Job) int {
	removed := removeFromRoute(routeCtx, job)
	if removed == 0 {
		return 0
	}
	ctx.Solution.AddRequired(job)
	if ctx.Cache != nil {
		ctx.Cache.EvictRoute(routeCtx)
		ctx.Cache.EvictJob(job)
	}
	return removed
}

// routeJobs returns the distinct jobs (Single or owning Multi) currently
// assigned to routeCtx, in tour order, using owner to resolve Multi
// membership.
func routeJobs(routeCtx *solution.RouteContext, owner map[*model.Single]model.Job) []model.Job {
	var out []model.Job
	seen := make(map[model.Job]bool)
	for _, act := range routeCtx.Route().Tour.JobActivities() {
		job := owner[act.Job]
		if job == nil || seen[job] {
			continue
		}
		seen[job] = true
		out = append(out, job)
	}
	return out
}

// jobLocation returns a representative location for job (its first resolved
// place), or ok=false for a job with no located place.
func jobLocation(job model.Job) (model.Location, bool) {
	locs := model.Locations(job)
	if len(locs) == 0 {
		return 0, false
	}
	return locs[0], true
}
