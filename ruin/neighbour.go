package ruin

import (
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/solution"
)

// NeighbourRemoval picks a random unlocked assigned seed job, then removes up
// to K of its geographic neighbours (via the problem's job index) that are
// currently assigned and unlocked.
type NeighbourRemoval struct {
	K      int
	Limits RemovalTracker
}

// Run implements Ruin.
func (op NeighbourRemoval) Run(ctx *insertion.Context) {
	r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemRuin)
	owner := ownerIndex(ctx.Problem.Jobs.All())

	jobRoute := make(map[model.Job]*solution.RouteContext)
	var seedCandidates []model.Job
	for _, routeCtx := range ctx.Solution.Routes {
		for _, job := range routeJobs(routeCtx, owner) {
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
	profile := seedRouteProfile(jobRoute[seed])
	distance := func(a, b model.Location) float64 { return ctx.Problem.Transport.DistanceApprox(profile, a, b) }
	neighbours := ctx.Problem.Jobs.Neighbours(profile, seedLoc, distance, op.K+1) // +1: seed itself is its own nearest neighbour

	tr := newTracking(op.Limits)
	removed := 0
	for _, job := range neighbours {
		if removed >= op.K {
			break
		}
		routeCtx, onRoute := jobRoute[job]
		if !onRoute || isLocked(ctx, job) {
			continue
		}
		n := len(model.Locations(job))
		if n == 0 {
			n = 1
		}
		if !tr.allow(routeCtx, 1, n) {
			continue
		}
		if ruinJob(ctx, routeCtx, job) > 0 {
			tr.record(routeCtx, 1, n)
			removed++
		}
	}
}
