package insertion

import (
	"math/rand"

	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/solution"
)

// maxMultiPermutations bounds the sub-job permutation search for a Multi: beyond
// this many sub-jobs we only try the declared order, since the full factorial
// search becomes prohibitively expensive long before it becomes useful.
const maxMultiPermutations = 6

// Evaluator scores candidate insertions of a job into a solution under
// construction, following position-scan semantics: for each candidate route and
// place, scan positions in order, stopping the scan early once a constraint
// reports the rest of the route is hopeless.
type Evaluator struct {
	Legs    LegSelector
	Results ResultSelector
}

// NewEvaluator builds an Evaluator with the given leg and result selection
// strategy.
func NewEvaluator(legs LegSelector, results ResultSelector) *Evaluator {
	if legs == nil {
		legs = Exhaustive{}
	}
	if results == nil {
		results = Best{}
	}
	return &Evaluator{Legs: legs, Results: results}
}

// EvaluateJob scores job against every route in ctx.Solution plus one fresh
// route per available actor group, under policy, returning the cheapest
// feasible insertion found (or, when no route fits, a Failure for job carrying
// the violation of the first candidate route that reported one).
func (e *Evaluator) EvaluateJob(ctx *Context, job model.Job, policy Policy) Result {
	r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemInsertion)
	results := e.EvaluateCandidates(ctx, job, policy)
	if len(results) == 0 {
		return Failure(job, nil, true)
	}
	best := results[0]
	for _, result := range results[1:] {
		if !best.Success && best.Violation == nil && !result.Success {
			best = result
			continue
		}
		best = e.Results.Select(best, result, r)
	}
	return best
}

// EvaluateCandidates scores job against every candidate route (existing routes
// plus one fresh route per available actor group) individually, returning one
// Result per candidate route rather than folding them into a single winner.
// Callers needing more than the overall best — e.g. a regret-k selector
// comparing the best and second-best route for a job — use this directly.
func (e *Evaluator) EvaluateCandidates(ctx *Context, job model.Job, policy Policy) []Result {
	r := ctx.Environment.RNG.ForSubsystem(rng.SubsystemInsertion)

	candidates := make([]*solution.RouteContext, 0, len(ctx.Solution.Routes))
	candidates = append(candidates, ctx.Solution.Routes...)
	candidates = append(candidates, ctx.Solution.Registry.NextRoute()...)

	out := make([]Result, 0, len(candidates))
	for _, routeCtx := range candidates {
		out = append(out, e.evaluateRoute(ctx, job, routeCtx, policy, r))
	}
	return out
}

// evaluateRoute checks job against one route: a route-level feasibility filter
// first (skills, locks, tour-size caps — anything that rejects the whole route
// regardless of position), then a per-position scan.
func (e *Evaluator) evaluateRoute(ctx *Context, job model.Job, routeCtx *solution.RouteContext, policy Policy, r *rand.Rand) Result {
	actor := routeCtx.Route().Actor
	if ctx.Cache != nil && !routeCtx.IsStale() {
		if cached, ok := ctx.Cache.Get(actor, job, policy); ok {
			return cached
		}
	}

	result := e.evaluateRouteUncached(ctx, job, routeCtx, policy, r)

	if ctx.Cache != nil {
		ctx.Cache.Put(actor, job, policy, result)
	}
	return result
}

func (e *Evaluator) evaluateRouteUncached(ctx *Context, job model.Job, routeCtx *solution.RouteContext, policy Policy, r *rand.Rand) Result {
	routeMove := goal.RouteMoveContext{Solution: ctx.Solution, Route: routeCtx, Job: job}
	if v := ctx.Problem.Goal.Evaluate(routeMove); v != nil {
		return Failure(job, v, true)
	}

	switch j := job.(type) {
	case *model.Single:
		return e.evaluateSingleInRoute(ctx, j, routeCtx, policy, r)
	case *model.Multi:
		return e.evaluateMultiInRoute(ctx, j, routeCtx, r)
	default:
		return Failure(job, nil, true)
	}
}

// evaluateSingleInRoute scans every candidate (place, time span) materialisation
// of single across the positions policy allows, keeping the cheapest feasible
// one.
func (e *Evaluator) evaluateSingleInRoute(ctx *Context, single *model.Single, routeCtx *solution.RouteContext, policy Policy, r *rand.Rand) Result {
	tour := routeCtx.Route().Tour
	start := tour.Get(0)
	hasEnd := routeCtx.Route().Actor.Detail.End != nil
	positions := e.Legs.Select(policy.positions(tour.Total(), hasEnd), r)

	var best Result
	var lastViolation *goal.Violation
	for _, place := range candidatePlaces(single, start.Schedule.Departure) {
		candidate := &solution.Activity{Place: place, Job: single}
		for _, idx := range positions {
			move := goal.ActivityMoveContext{
				Route: routeCtx,
				Activity: goal.ActivityContext{
					Index:  idx,
					Prev:   tour.Get(idx - 1),
					Target: candidate,
					Next:   tour.Get(idx),
				},
			}
			v := ctx.Problem.Goal.Evaluate(move)
			if v != nil {
				lastViolation = v
				if v.Stopped {
					break
				}
				continue
			}
			cost := ctx.Problem.Goal.Estimate(move)
			candidateResult := Succeed(single, routeCtx, idx, candidate, cost)
			if !best.Success || candidateResult.betterThan(best) {
				best = candidateResult
			}
		}
	}
	if !best.Success {
		return Failure(single, lastViolation, true)
	}
	return best
}

// evaluateMultiInRoute tries every sub-job permutation consistent with
// single.StrictOrder (capped at maxMultiPermutations sub-jobs; beyond that only
// the declared order is tried), applying each permutation's sub-jobs in turn to
// a scratch copy of the route so later sub-jobs see the earlier ones' effect on
// timing. A permutation succeeds only if every sub-job finds a feasible
// position; the cheapest successful permutation wins.
func (e *Evaluator) evaluateMultiInRoute(ctx *Context, multi *model.Multi, routeCtx *solution.RouteContext, r *rand.Rand) Result {
	perms := subJobPermutations(multi)

	var best Result
	for _, perm := range perms {
		scratch := routeCtx.DeepCopy()
		total := 0.0
		positions := make([]int, 0, len(perm))
		activities := make([]*solution.Activity, 0, len(perm))
		minPosition := 1
		ok := true
		for _, sub := range perm {
			result := e.evaluateSingleInRoute(ctx, sub, scratch, AnyPosition(), r)
			if !result.Success || result.Positions[0] < minPosition {
				ok = false
				break
			}
			pos := result.Positions[0]
			scratch.RouteMut().Tour.InsertAt(pos, result.Activities[0])
			ctx.Problem.Goal.AcceptRouteState(scratch)
			total += result.Cost
			positions = append(positions, pos)
			activities = append(activities, result.Activities[0])
			minPosition = pos + 1
		}
		if !ok {
			continue
		}
		candidate := SucceedMulti(multi, routeCtx, positions, activities, total)
		if !best.Success || candidate.betterThan(best) {
			best = candidate
		}
	}
	if !best.Success {
		return Failure(multi, nil, true)
	}
	return best
}

// subJobPermutations returns the orderings of multi's sub-jobs to try: every
// permutation when unordered and small enough, otherwise just the declared
// order.
func subJobPermutations(multi *model.Multi) [][]*model.Single {
	if multi.StrictOrder() || len(multi.Jobs) > maxMultiPermutations {
		return [][]*model.Single{append([]*model.Single(nil), multi.Jobs...)}
	}
	var perms [][]*model.Single
	rest := append([]*model.Single(nil), multi.Jobs...)
	permute(rest, 0, &perms)
	return perms
}

func permute(jobs []*model.Single, k int, out *[][]*model.Single) {
	if k == len(jobs) {
		*out = append(*out, append([]*model.Single(nil), jobs...))
		return
	}
	for i := k; i < len(jobs); i++ {
		jobs[k], jobs[i] = jobs[i], jobs[k]
		permute(jobs, k+1, out)
		jobs[k], jobs[i] = jobs[i], jobs[k]
	}
}

// candidatePlaces expands a Single's (Place, TimeSpan) combinations into
// resolved solution.Place values, using tourStart to re-materialise any
// departure-relative offsets.
func candidatePlaces(single *model.Single, tourStart model.Timestamp) []solution.Place {
	var out []solution.Place
	for _, p := range single.Places {
		loc := model.Location(0)
		if p.Location != nil {
			loc = *p.Location
		}
		if len(p.Times) == 0 {
			out = append(out, solution.Place{Location: loc, Duration: p.Duration, Time: model.NoTimeWindow})
			continue
		}
		for _, ts := range p.Times {
			out = append(out, solution.Place{Location: loc, Duration: p.Duration, Time: ts.Resolve(tourStart)})
		}
	}
	return out
}
