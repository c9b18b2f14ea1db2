package ruin

import (
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// WorstJob removes the K unlocked assigned jobs whose removal reduces route
// cost the most: the marginal saving of detaching a job from between its
// tour neighbours, dist(prev,job)+dist(job,next)-dist(prev,next).
type WorstJob struct {
	K      int
	Limits RemovalTracker
}

type worstCandidate struct {
	job    model.Job
	route  *solution.RouteContext
	saving float64
}

// Run implements Ruin.
func (op WorstJob) Run(ctx *insertion.Context) {
	owner := ownerIndex(ctx.Problem.Jobs.All())

	var candidates []worstCandidate
	for _, routeCtx := range ctx.Solution.Routes {
		profile := routeCtx.Route().Actor.Detail.Profile
		tour := routeCtx.Route().Tour
		activities := tour.All()
		for i, act := range activities {
			if act.Job == nil {
				continue
			}
			job := owner[act.Job]
			if job == nil || isLocked(ctx, job) {
				continue
			}
			prev := activities[i-1]
			var next *solution.Activity
			if i+1 < len(activities) {
				next = activities[i+1]
			}
			saving := ctx.Problem.Transport.DistanceApprox(profile, prev.Place.Location, act.Place.Location)
			if next != nil {
				saving += ctx.Problem.Transport.DistanceApprox(profile, act.Place.Location, next.Place.Location)
				saving -= ctx.Problem.Transport.DistanceApprox(profile, prev.Place.Location, next.Place.Location)
			}
			candidates = append(candidates, worstCandidate{job: job, route: routeCtx, saving: saving})
		}
	}

	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].saving > candidates[j-1].saving; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	tr := newTracking(op.Limits)
	seen := make(map[model.Job]bool)
	removed := 0
	for _, c := range candidates {
		if removed >= op.K {
			break
		}
		if seen[c.job] {
			continue
		}
		seen[c.job] = true
		n := len(model.Locations(c.job))
		if n == 0 {
			n = 1
		}
		if !tr.allow(c.route, 1, n) {
			continue
		}
		if ruinJob(ctx, c.route, c.job) > 0 {
			tr.record(c.route, 1, n)
			removed++
		}
	}
}
