package ruin

import (
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/solution"
)

// RandomJob removes up to Count random unlocked jobs, scattered across
// whichever routes they happen to be on.
type RandomJob struct {
	Count  int
	Limits RemovalTracker
}

// Run implements Ruin.
func (op RandomJob) Run(ctx *insertion.Context) {
	r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemRuin)
	owner := ownerIndex(ctx.Problem.Jobs.All())

	type placed struct {
		job   model.Job
		route *solution.RouteContext
	}
	var pool []placed
	for _, routeCtx := range ctx.Solution.Routes {
		for _, job := range routeJobs(routeCtx, owner) {
			if isLocked(ctx, job) {
				continue
			}
			pool = append(pool, placed{job: job, route: routeCtx})
		}
	}
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	tr := newTracking(op.Limits)
	removed := 0
	for _, p := range pool {
		if removed >= op.Count {
			break
		}
		activities := len(model.Locations(p.job))
		if activities == 0 {
			activities = 1
		}
		if !tr.allow(p.route, 1, activities) {
			continue
		}
		n := ruinJob(ctx, p.route, p.job)
		if n > 0 {
			tr.record(p.route, 1, n)
			removed++
		}
	}
}
