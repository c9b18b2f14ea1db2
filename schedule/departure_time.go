package schedule

import (
	"math"

	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// AdvanceDeparture tries to push the tour's start departure later, either just
// enough to make the first activity's wait disappear (considerWholeTour=false)
// or as far as the whole tour's accumulated waiting time allows
// (considerWholeTour=true, used by e.g. break-as-last-resort packing). A no-op if
// no later departure is feasible.
func AdvanceDeparture(routeCtx *solution.RouteContext, activity model.ActivityCost, transport model.TransportCost, considerWholeTour bool, keys Keys) {
	if newDeparture, ok := tryAdvanceDeparture(routeCtx, transport, considerWholeTour); ok {
		UpdateDeparture(routeCtx, activity, transport, newDeparture, keys)
	}
}

// RecedeDeparture tries to pull the tour's start departure earlier, bounded by
// the first activity's latest-arrival slack, the actor's shift start, and an
// optional route-wide duration limit (limitDuration; pass +math.MaxFloat64 for
// "no limit"). A no-op if no earlier departure is feasible.
func RecedeDeparture(routeCtx *solution.RouteContext, activity model.ActivityCost, transport model.TransportCost, limitDuration model.Duration, keys Keys) {
	if newDeparture, ok := tryRecedeDeparture(routeCtx, limitDuration, keys); ok {
		UpdateDeparture(routeCtx, activity, transport, newDeparture, keys)
	}
}

func tryAdvanceDeparture(routeCtx *solution.RouteContext, transport model.TransportCost, considerWholeTour bool) (model.Timestamp, bool) {
	route := routeCtx.Route()
	if route.Tour.Total() < 2 {
		return 0, false
	}
	first := route.Tour.Get(1)
	start := route.Tour.Start()
	actor := route.Actor

	latestAllowedDeparture := actor.Detail.Time.End
	lastDeparture := start.Schedule.Departure

	var newDeparture model.Timestamp
	if considerWholeTour {
		totalWaiting, maxShift := 0.0, math.MaxFloat64
		for i := route.Tour.Total() - 1; i >= 0; i-- {
			a := route.Tour.Get(i)
			waiting := math.Max(a.Place.Time.Start-a.Schedule.Arrival, 0)
			remaining := math.Max(a.Place.Time.End-a.Schedule.Arrival-waiting, 0)
			totalWaiting += waiting
			maxShift = math.Min(maxShift, remaining) + waiting
		}
		shift := math.Min(totalWaiting, maxShift)
		newDeparture = math.Min(start.Schedule.Departure+shift, latestAllowedDeparture)
	} else {
		startToFirst := transport.Duration(actor, start.Place.Location, first.Place.Location, model.Departure(lastDeparture))
		candidate := math.Max(lastDeparture, first.Place.Time.Start-startToFirst)
		newDeparture = math.Min(candidate, latestAllowedDeparture)
	}

	if newDeparture > lastDeparture {
		return newDeparture, true
	}
	return 0, false
}

func tryRecedeDeparture(routeCtx *solution.RouteContext, limitDuration model.Duration, keys Keys) (model.Timestamp, bool) {
	route := routeCtx.Route()
	if route.Tour.Total() < 2 {
		return 0, false
	}
	first := route.Tour.Get(1)
	start := route.Tour.Start()

	maxChange := LatestArrival(routeCtx, keys, 1) - first.Schedule.Arrival
	earliestAllowedDeparture := route.Actor.Detail.Time.Start

	maxChange = math.Min(maxChange, start.Schedule.Departure-earliestAllowedDeparture)

	total := TotalDuration(routeCtx, keys)
	if limitDuration < math.MaxFloat64 {
		maxChange = math.Min(maxChange, limitDuration-total)
	}

	if maxChange > 0 {
		return start.Schedule.Departure - maxChange, true
	}
	return 0, false
}
