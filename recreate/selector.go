// Package recreate re-inserts unassigned jobs into a solution under
// construction, driving the insertion evaluator one job (or one batch) at a
// time until no required job remains or no further insertion succeeds.
package recreate

import (
	"math/rand"
	"sort"

	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
)

// JobSelector picks the subset (and order) of required jobs a recreate pass
// considers next, given the jobs still required and the insertion context they
// would be inserted into.
type JobSelector interface {
	Select(ctx *insertion.Context, required []model.Job) []model.Job
}

// All considers every required job, unordered.
type All struct{}

// Select implements JobSelector.
func (All) Select(_ *insertion.Context, required []model.Job) []model.Job {
	return append([]model.Job(nil), required...)
}

const demandDimension = "demand"

// demandMagnitude sums the absolute value of a job's demand vector, used to rank
// jobs by how much capacity they consume. Jobs without a demand dimension rank
// lowest.
func demandMagnitude(job model.Job) float64 {
	v, _ := job.Dimens()[demandDimension].([]float64)
	var total float64
	for _, d := range v {
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total
}

// TopDemand orders required jobs by descending demand magnitude, so the
// hardest-to-place (bulkiest) jobs get first shot at the cheapest positions
// while the route set is still mostly empty.
type TopDemand struct{}

// Select implements JobSelector.
func (TopDemand) Select(_ *insertion.Context, required []model.Job) []model.Job {
	out := append([]model.Job(nil), required...)
	sort.SliceStable(out, func(i, j int) bool {
		return demandMagnitude(out[i]) > demandMagnitude(out[j])
	})
	return out
}

// RandomGaps shuffles the required jobs before insertion, spreading demand
// evenly across routes rather than greedily filling one at a time — useful as
// a counterweight to selectors that always insert in the same order.
type RandomGaps struct {
	RNG *rand.Rand
}

// Select implements JobSelector.
func (s RandomGaps) Select(ctx *insertion.Context, required []model.Job) []model.Job {
	r := s.RNG
	if r == nil {
		r = ctx.Environment.RNG.ForSubsystem("recreate")
	}
	out := append([]model.Job(nil), required...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Farthest orders required jobs by descending distance from the problem's
// depot-equivalence centroid (approximated here by the first actor's start
// location), placing the hardest-to-reach jobs first so later, easier jobs
// don't get stranded with no remaining route able to detour far enough.
type Farthest struct{}

// Select implements JobSelector.
func (Farthest) Select(ctx *insertion.Context, required []model.Job) []model.Job {
	out := append([]model.Job(nil), required...)
	if len(ctx.Problem.Fleet.Actors) == 0 {
		return out
	}
	origin := ctx.Problem.Fleet.Actors[0].Detail.Start
	profile := ctx.Problem.Fleet.Actors[0].Detail.Profile
	dist := func(job model.Job) float64 {
		best := 0.0
		for i, loc := range model.Locations(job) {
			d := ctx.Problem.Transport.DistanceApprox(profile, origin, loc)
			if i == 0 || d > best {
				best = d
			}
		}
		return best
	}
	sort.SliceStable(out, func(i, j int) bool { return dist(out[i]) > dist(out[j]) })
	return out
}
