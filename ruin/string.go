package ruin

import (
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/solution"
)

// AdjustedStringRemoval picks a seed job and removes a contiguous "string" of
// nearby jobs from each of up to MaxRoutes routes passing through the seed's
// neighbourhood. String length is drawn from [MinLength, MaxLength], capped by
// MaxRatio of the currently-assigned job count.
type AdjustedStringRemoval struct {
	MinLength int
	MaxLength int
	MaxRatio  float64
	MaxRoutes int
	Limits    RemovalTracker
}

// Run implements Ruin.
func (op AdjustedStringRemoval) Run(ctx *insertion.Context) {
	r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemRuin)
	owner := ownerIndex(ctx.Problem.Jobs.All())

	assigned := 0
	var seedCandidates []model.Job
	jobRoute := make(map[model.Job]*solution.RouteContext)
	for _, routeCtx := range ctx.Solution.Routes {
		for _, job := range routeJobs(routeCtx, owner) {
			assigned++
			jobRoute[job] = routeCtx
			if !isLocked(ctx, job) {
				seedCandidates = append(seedCandidates, job)
			}
		}
	}
	if len(seedCandidates) == 0 {
		return
	}
	seed := seedCandidates[r.Intn(len(seedCandidates))]
	seedLoc, ok := jobLocation(seed)
	if !ok {
		return
	}

	length := op.MinLength
	if op.MaxLength > op.MinLength {
		length += r.Intn(op.MaxLength - op.MinLength + 1)
	}
	if op.MaxRatio > 0 {
		if ratioCap := int(op.MaxRatio * float64(assigned)); ratioCap > 0 && length > ratioCap {
			length = ratioCap
		}
	}
	if length < 1 {
		length = 1
	}

	maxRoutes := op.MaxRoutes
	if maxRoutes <= 0 {
		maxRoutes = 1
	}

	profile := seedRouteProfile(jobRoute[seed])
	routes := rankRoutesByProximity(ctx, seedLoc, profile, maxRoutes)

	tr := newTracking(op.Limits)
	for _, routeCtx := range routes {
		jobs := routeJobs(routeCtx, owner)
		if len(jobs) == 0 {
			continue
		}
		center := nearestIndex(ctx, jobs, seedLoc, profile)
		window := stringWindow(jobs, center, length)

		var removable []model.Job
		activityCount := 0
		for _, job := range window {
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
}

func seedRouteProfile(routeCtx *solution.RouteContext) model.Profile {
	if routeCtx == nil {
		return ""
	}
	return routeCtx.Route().Actor.Detail.Profile
}

// rankRoutesByProximity ranks ctx.Solution.Routes by how close their nearest
// job activity is to loc, returning up to limit of the closest.
func rankRoutesByProximity(ctx *insertion.Context, loc model.Location, profile model.Profile, limit int) []*solution.RouteContext {
	type scored struct {
		route *solution.RouteContext
		dist  float64
	}
	var ranked []scored
	for _, routeCtx := range ctx.Solution.Routes {
		best := -1.0
		for _, act := range routeCtx.Route().Tour.JobActivities() {
			d := ctx.Problem.Transport.DistanceApprox(profile, loc, act.Place.Location)
			if best < 0 || d < best {
				best = d
			}
		}
		if best < 0 {
			continue
		}
		ranked = append(ranked, scored{route: routeCtx, dist: best})
	}
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].dist < ranked[j-1].dist; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]*solution.RouteContext, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, ranked[i].route)
	}
	return out
}

// nearestIndex returns the index into jobs of the one closest to loc.
func nearestIndex(ctx *insertion.Context, jobs []model.Job, loc model.Location, profile model.Profile) int {
	best := 0
	bestDist := -1.0
	for i, job := range jobs {
		jl, ok := jobLocation(job)
		if !ok {
			continue
		}
		d := ctx.Problem.Transport.DistanceApprox(profile, loc, jl)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// stringWindow returns up to length jobs from jobs, contiguous around center.
func stringWindow(jobs []model.Job, center, length int) []model.Job {
	start := center - length/2
	if start < 0 {
		start = 0
	}
	end := start + length
	if end > len(jobs) {
		end = len(jobs)
		start = end - length
		if start < 0 {
			start = 0
		}
	}
	return jobs[start:end]
}
