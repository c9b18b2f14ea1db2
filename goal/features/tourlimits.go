package features

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/model"
)

// ViolationTourSize marks a move that would push a tour's job-activity count past
// its actor's limit; ViolationTravelLimit marks one that would push cumulative
// tour distance or duration past its actor's limit.
const (
	ViolationTourSize    goal.ViolationCode = 4
	ViolationTravelLimit goal.ViolationCode = 5
)

// ActivityLimit returns, for an actor, the maximum number of job activities it
// may serve in one tour, or false if unlimited.
type ActivityLimit func(actor *model.Actor) (int, bool)

// TravelLimit returns, for an actor, a distance or duration ceiling, or false if
// unlimited.
type TravelLimit func(actor *model.Actor) (float64, bool)

func jobActivityCount(job model.Job) int {
	switch j := job.(type) {
	case *model.Multi:
		return len(j.Jobs)
	default:
		return 1
	}
}

type tourSizeFeature struct{ limit ActivityLimit }

// NewTourSize builds the max-activities-per-tour constraint.
func NewTourSize(limit ActivityLimit) goal.Feature {
	return goal.Feature{Name: "tour_size", Constraint: tourSizeFeature{limit: limit}}
}

func (f tourSizeFeature) Evaluate(move goal.MoveContext) *goal.Violation {
	m, ok := move.(goal.RouteMoveContext)
	if !ok {
		return nil
	}
	limit, bounded := f.limit(m.Route.Route().Actor)
	if !bounded {
		return nil
	}
	current := m.Route.Route().Tour.JobCount()
	if current+jobActivityCount(m.Job) > limit {
		return &goal.Violation{Code: ViolationTourSize, Stopped: true}
	}
	return nil
}

func (f tourSizeFeature) Merge(source, _ model.Job) (model.Job, error) { return source, nil }

type travelLimitFeature struct {
	transport     model.TransportCost
	distanceLimit TravelLimit
	durationLimit TravelLimit
}

// NewTourLimits builds the cumulative distance/duration-per-tour constraint.
// Either limit function may be nil to skip that dimension.
func NewTourLimits(transport model.TransportCost, distanceLimit, durationLimit TravelLimit) goal.Feature {
	return goal.Feature{Name: "tour_limits", Constraint: &travelLimitFeature{
		transport: transport, distanceLimit: distanceLimit, durationLimit: durationLimit,
	}}
}

// travel computes the marginal distance/duration this insertion adds, matching
// the detour-minus-direct-leg shape used by the objective's cost estimate.
func (f *travelLimitFeature) travel(actor *model.Actor, ac goal.ActivityContext) (model.Distance, model.Duration) {
	prev, target, next := ac.Prev, ac.Target, ac.Next
	prevDep := prev.Schedule.Departure

	toTargetDist := f.transport.Distance(actor, prev.Place.Location, target.Place.Location, model.Departure(prevDep))
	toTargetDur := f.transport.Duration(actor, prev.Place.Location, target.Place.Location, model.Departure(prevDep))
	if next == nil {
		return toTargetDist, toTargetDur
	}

	targetDep := prevDep + toTargetDur
	directDist := f.transport.Distance(actor, prev.Place.Location, next.Place.Location, model.Departure(prevDep))
	directDur := f.transport.Duration(actor, prev.Place.Location, next.Place.Location, model.Departure(prevDep))
	fromTargetDist := f.transport.Distance(actor, target.Place.Location, next.Place.Location, model.Departure(targetDep))
	fromTargetDur := f.transport.Duration(actor, target.Place.Location, next.Place.Location, model.Departure(targetDep))

	return toTargetDist + fromTargetDist - directDist, toTargetDur + fromTargetDur - directDur
}

func (f *travelLimitFeature) Evaluate(move goal.MoveContext) *goal.Violation {
	m, ok := move.(goal.ActivityMoveContext)
	if !ok || m.Activity.Target == nil {
		return nil
	}
	actor := m.Route.Route().Actor
	addedDist, addedDur := f.travel(actor, m.Activity)

	tour := m.Route.Route().Tour
	var curDist model.Distance
	for i := 1; i < tour.Total(); i++ {
		from, to := tour.Get(i-1), tour.Get(i)
		curDist += f.transport.Distance(actor, from.Place.Location, to.Place.Location, model.Departure(from.Schedule.Departure))
	}
	curDur := tour.Get(tour.Total()-1).Schedule.Departure - tour.Start().Schedule.Departure
	if curDur < 0 {
		curDur = 0
	}

	if f.distanceLimit != nil {
		if limit, bounded := f.distanceLimit(actor); bounded && curDist+addedDist > limit {
			return &goal.Violation{Code: ViolationTravelLimit, Stopped: false}
		}
	}
	if f.durationLimit != nil {
		if limit, bounded := f.durationLimit(actor); bounded && curDur+addedDur > limit {
			return &goal.Violation{Code: ViolationTravelLimit, Stopped: false}
		}
	}
	return nil
}

func (f *travelLimitFeature) Merge(source, _ model.Job) (model.Job, error) { return source, nil }
