package features

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/schedule"
	"github.com/vrp-solver/vrp-solver/solution"
)

// ViolationTimeWindow marks a move whose arrival would fall outside every
// candidate time span of the job's chosen place, or would push a later
// activity's arrival past its own latest-arrival bound.
const ViolationTimeWindow goal.ViolationCode = 2

// timeWindowFeature enforces time-window feasibility and contributes the
// travel-cost (distance + duration based) objective. It owns the schedule
// package's state keys and is the only feature that calls schedule.UpdateRoute,
// since timing and travel cost are two views of the same propagation.
type timeWindowFeature struct {
	keys      schedule.Keys
	transport model.TransportCost
	activity  model.ActivityCost
}

// NewTransport builds the time-window/transport-cost feature. transport and
// activity are the problem's shared cost models; keys must come from
// schedule.NewKeys registered against the same StateKeyRegistry used to build the
// rest of the goal context.
func NewTransport(transport model.TransportCost, activity model.ActivityCost, keys schedule.Keys) goal.Feature {
	f := &timeWindowFeature{keys: keys, transport: transport, activity: activity}
	return goal.Feature{Name: "transport", Constraint: f, State: f, Objective: f}
}

// Evaluate implements goal.Constraint: the candidate activity's arrival must fit
// at least one of the job's time spans (resolved against the tour's start
// departure for offset spans), and inserting it must not push the next
// activity's arrival past its cached latest-arrival bound.
func (f *timeWindowFeature) Evaluate(move goal.MoveContext) *goal.Violation {
	m, ok := move.(goal.ActivityMoveContext)
	if !ok || m.Activity.Target == nil {
		return nil
	}
	actor := m.Route.Route().Actor
	prev := m.Activity.Prev
	target := m.Activity.Target

	arrival := prev.Schedule.Departure + f.transport.Duration(actor, prev.Place.Location, target.Place.Location, model.Departure(prev.Schedule.Departure))
	if arrival > target.Place.Time.End {
		// Arriving early just means waiting; arriving after the window closes is
		// infeasible regardless of what comes later in the tour.
		return &goal.Violation{Code: ViolationTimeWindow, Stopped: false}
	}
	departure := f.activity.EstimateDeparture(actor, toModelPlace(target.Place), target.Place.Time, arrival)

	if next := m.Activity.Next; next != nil {
		nextArrival := departure + f.transport.Duration(actor, target.Place.Location, next.Place.Location, model.Departure(departure))
		bound := schedule.LatestArrival(m.Route, f.keys, m.Activity.Index+1)
		if nextArrival > bound {
			return &goal.Violation{Code: ViolationTimeWindow, Stopped: true}
		}
	}
	return nil
}

// Merge implements goal.Constraint: time windows never block a merge by
// themselves; feasibility of the combined job is re-checked at insertion time.
func (f *timeWindowFeature) Merge(_, candidate model.Job) (model.Job, error) { return candidate, nil }

// AcceptInsertion implements goal.State; the route-state recompute that follows
// insertion (via AcceptRouteState) already handles timing, so there's no
// additional per-insertion work here.
func (f *timeWindowFeature) AcceptInsertion(*solution.Context, int, model.Job) {}

// AcceptRouteState implements goal.State by delegating to the shared schedule
// propagator.
func (f *timeWindowFeature) AcceptRouteState(routeCtx *solution.RouteContext) {
	schedule.UpdateRoute(routeCtx, f.activity, f.transport, f.keys)
}

// AcceptSolutionState implements goal.State; timing has no cross-route effect.
func (f *timeWindowFeature) AcceptSolutionState(*solution.Context) {}

// Fitness implements goal.Objective as each route's distance- and duration-based
// cost, plus its actor's fixed cost for a route that serves at least one job,
// summed across every route in the solution.
func (f *timeWindowFeature) Fitness(sol *solution.Context) float64 {
	var total float64
	for _, rctx := range sol.Routes {
		costs := rctx.Route().Actor.Costs
		if rctx.Route().Tour.HasJobs() {
			total += costs.Fixed
		}
		total += costs.PerDistance*schedule.TotalDistance(rctx, f.keys) + costs.PerDrivingTime*schedule.TotalDuration(rctx, f.keys)
	}
	return total
}

// Estimate implements goal.Objective: the marginal transport cost of inserting
// target between Prev and Next (detour distance minus the skipped direct leg).
func (f *timeWindowFeature) Estimate(move goal.MoveContext) float64 {
	m, ok := move.(goal.ActivityMoveContext)
	if !ok || m.Activity.Target == nil {
		return 0
	}
	actor := m.Route.Route().Actor
	prev, target := m.Activity.Prev, m.Activity.Target
	toTarget := f.transport.Distance(actor, prev.Place.Location, target.Place.Location, model.Departure(prev.Schedule.Departure))
	if next := m.Activity.Next; next != nil {
		fromTarget := f.transport.Distance(actor, target.Place.Location, next.Place.Location, model.Departure(target.Schedule.Departure))
		direct := f.transport.Distance(actor, prev.Place.Location, next.Place.Location, model.Departure(prev.Schedule.Departure))
		return toTarget + fromTarget - direct
	}
	return toTarget
}
