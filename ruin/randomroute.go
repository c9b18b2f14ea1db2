package ruin

import (
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/solution"
)

// RandomRoute removes entire routes, up to Count of them: a free route (no
// locked job) is emptied completely so RemoveEmptyRoutes can reclaim its
// actor; a route carrying a locked job falls back to removing only its
// unlocked jobs, leaving the locked ones in place.
type RandomRoute struct {
	Count  int
	Limits RemovalTracker
}

// Run implements Ruin.
func (op RandomRoute) Run(ctx *insertion.Context) {
	r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemRuin)
	owner := ownerIndex(ctx.Problem.Jobs.All())

	routes := append([]*solution.RouteContext(nil), ctx.Solution.Routes...)
	r.Shuffle(len(routes), func(i, j int) { routes[i], routes[j] = routes[j], routes[i] })

	tr := newTracking(op.Limits)
	affected := 0
	for _, routeCtx := range routes {
		if affected >= op.Count {
			break
		}
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
		affected++
	}
	ctx.Solution.RemoveEmptyRoutes()
}
