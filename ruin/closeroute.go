package ruin

import (
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/solution"
)

// CloseRoute removes a cluster of K routes grouped by proximity: a random
// seed route plus its K-1 nearest routes by representative location (the
// first job's location on each route). Each selected route falls back to
// partial removal if it carries a locked job, same as RandomRoute.
type CloseRoute struct {
	K      int
	Limits RemovalTracker
}

// Run implements Ruin.
func (op CloseRoute) Run(ctx *insertion.Context) {
	r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemRuin)
	owner := ownerIndex(ctx.Problem.Jobs.All())

	var withLoc []*solution.RouteContext
	for _, routeCtx := range ctx.Solution.Routes {
		if len(routeCtx.Route().Tour.JobActivities()) > 0 {
			withLoc = append(withLoc, routeCtx)
		}
	}
	if len(withLoc) == 0 {
		return
	}
	seed := withLoc[r.Intn(len(withLoc))]
	seedLoc := representativeLocation(seed)
	profile := seed.Route().Actor.Detail.Profile

	cluster := rankRoutesByProximity(ctx, seedLoc, profile, op.K)

	tr := newTracking(op.Limits)
	for _, routeCtx := range cluster {
		jobs := routeJobs(routeCtx, owner)
		var removable []model.Job
		activityCount := 0
		for _, job := range jobs {
			if isLocked(ctx, job) {
				continue
			}
			removable = append(removable, job)
			n := len(model.Locations(job))
			if n == 0 {
				n = 1
			}
			activityCount += n
		}
		if len(removable) == 0 {
			continue
		}
		if !tr.allow(routeCtx, len(removable), activityCount) {
			continue
		}
		removedActivities := 0
		for _, job := range removable {
			removedActivities += ruinJob(ctx, routeCtx, job)
		}
		tr.record(routeCtx, len(removable), removedActivities)
	}
	ctx.Solution.RemoveEmptyRoutes()
}

func representativeLocation(routeCtx *solution.RouteContext) model.Location {
	for _, act := range routeCtx.Route().Tour.JobActivities() {
		return act.Place.Location
	}
	return routeCtx.Route().Actor.Detail.Start
}
