// Package schedule recomputes route timing after a tour edit: forward arrival/
// departure propagation, a backward pass bounding the latest feasible arrival at
// each activity, and route-wide distance/duration statistics.
package schedule

import (
	"math"

	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// Keys names the solution.StateKey tokens this package's passes populate.
// Registered once at problem-build time via NewKeys.
type Keys struct {
	LatestArrival solution.StateKey
	WaitingTime   solution.StateKey
	TotalDistance solution.StateKey
	TotalDuration solution.StateKey
}

// keyRegistry is the minimal surface schedule needs from goal.StateKeyRegistry,
// declared locally to avoid an import of `goal` (which itself will depend on
// `schedule`, not the other way around).
type keyRegistry interface {
	Register(name string) solution.StateKey
}

// NewKeys registers this package's four state keys against registry.
func NewKeys(registry keyRegistry) Keys {
	return Keys{
		LatestArrival: registry.Register("schedule.latest_arrival"),
		WaitingTime:   registry.Register("schedule.waiting_time"),
		TotalDistance: registry.Register("schedule.total_distance"),
		TotalDuration: registry.Register("schedule.total_duration"),
	}
}

// UpdateRoute runs all three passes in sequence: forward schedules, latest-arrival
// backward pass, then statistics. This is the usual entry point after any tour
// edit (insertion, removal, departure shift).
func UpdateRoute(routeCtx *solution.RouteContext, activity model.ActivityCost, transport model.TransportCost, keys Keys) {
	updateSchedules(routeCtx, activity, transport)
	updateLatestArrivals(routeCtx, activity, transport, keys)
	updateStatistics(routeCtx, transport, keys)
}

// UpdateDeparture sets the tour's start departure to newDeparture and
// re-propagates everything downstream of it.
func UpdateDeparture(routeCtx *solution.RouteContext, activity model.ActivityCost, transport model.TransportCost, newDeparture model.Timestamp, keys Keys) {
	start := routeCtx.RouteMut().Tour.Get(0)
	start.Schedule.Departure = newDeparture
	UpdateRoute(routeCtx, activity, transport, keys)
}

// updateSchedules is the forward pass: for each activity after the start,
// arrival = previous departure + travel time, departure = activity's estimated
// departure given that arrival.
func updateSchedules(routeCtx *solution.RouteContext, activity model.ActivityCost, transport model.TransportCost) {
	route := routeCtx.RouteMut()
	actor := route.Actor
	start := route.Tour.Get(0)
	loc, dep := start.Place.Location, start.Schedule.Departure

	for i := 1; i < route.Tour.Total(); i++ {
		a := route.Tour.Get(i)
		arrival := dep + transport.Duration(actor, loc, a.Place.Location, model.Departure(dep))
		departure := activity.EstimateDeparture(actor, toModelPlace(a.Place), a.Place.Time, arrival)
		a.Schedule = model.Schedule{Arrival: arrival, Departure: departure}
		loc, dep = a.Place.Location, departure
	}
}

// updateLatestArrivals is the backward pass: from the tour's end, compute the
// latest arrival time each activity can tolerate without breaking any later
// activity's own window, plus the cumulative waiting time from that point
// onward. Depot (job-less) activities get zero-value entries.
func updateLatestArrivals(routeCtx *solution.RouteContext, activity model.ActivityCost, transport model.TransportCost, keys Keys) {
	route := routeCtx.RouteMut()
	actor := route.Actor
	total := route.Tour.Total()

	latestArrivals := make([]model.Timestamp, total)
	waitingTimes := make([]model.Duration, total)

	endTime := actor.Detail.Time.End
	prevLoc := actor.Detail.Start
	if actor.Detail.End != nil {
		prevLoc = *actor.Detail.End
	}
	var waiting model.Duration

	for i := total - 1; i >= 1; i-- {
		a := route.Tour.Get(i)
		if a.Job == nil {
			latestArrivals[i] = 0
			waitingTimes[i] = 0
			continue
		}

		var latestArrival model.Timestamp
		if endTime == math.MaxFloat64 {
			latestArrival = a.Place.Time.End
		} else {
			latestDeparture := endTime - transport.Duration(actor, a.Place.Location, prevLoc, model.Arrival(endTime))
			latestArrival = activity.EstimateArrival(actor, toModelPlace(a.Place), a.Place.Time, latestDeparture)
		}
		futureWaiting := waiting
		if gap := a.Place.Time.Start - a.Schedule.Arrival; gap > 0 {
			futureWaiting += gap
		}

		latestArrivals[i] = latestArrival
		waitingTimes[i] = futureWaiting

		endTime, prevLoc, waiting = latestArrival, a.Place.Location, futureWaiting
	}

	routeCtx.StateMut().PutActivityValues(keys.LatestArrival, latestArrivals)
	routeCtx.StateMut().PutActivityValues(keys.WaitingTime, waitingTimes)
}

// updateStatistics computes total route distance and duration.
func updateStatistics(routeCtx *solution.RouteContext, transport model.TransportCost, keys Keys) {
	route := routeCtx.RouteMut()
	actor := route.Actor
	start := route.Tour.Start()
	end := route.Tour.End()
	if end == nil {
		end = start
	}
	totalDuration := end.Schedule.Departure - start.Schedule.Departure

	loc, dep := start.Place.Location, start.Schedule.Departure
	var totalDistance model.Distance
	for i := 1; i < route.Tour.Total(); i++ {
		a := route.Tour.Get(i)
		totalDistance += transport.Distance(actor, loc, a.Place.Location, model.Departure(dep))
		loc, dep = a.Place.Location, a.Schedule.Departure
	}

	routeCtx.StateMut().PutRouteValue(keys.TotalDistance, totalDistance)
	routeCtx.StateMut().PutRouteValue(keys.TotalDuration, totalDuration)
}

// toModelPlace adapts a solution.Place (resolved, activity-local) to the
// model.Place shape model.ActivityCost expects (location+duration; the window is
// passed as a separate argument since solution.Place's Time is already resolved).
func toModelPlace(p solution.Place) model.Place {
	return model.Place{Location: &p.Location, Duration: p.Duration}
}

// LatestArrival returns the cached latest-arrival bound for activity idx,
// computed by the last UpdateRoute/UpdateDeparture call. Returns
// +math.MaxFloat64 if idx is out of range or state hasn't been computed yet,
// i.e. "no bound", consistent with an unconstrained open end.
func LatestArrival(routeCtx *solution.RouteContext, keys Keys, idx int) model.Timestamp {
	raw, ok := routeCtx.State().ActivityValues(keys.LatestArrival)
	if !ok {
		return math.MaxFloat64
	}
	arrivals, ok := raw.([]model.Timestamp)
	if !ok || idx < 0 || idx >= len(arrivals) {
		return math.MaxFloat64
	}
	return arrivals[idx]
}

// WaitingTime returns the cached future waiting time from activity idx onward.
func WaitingTime(routeCtx *solution.RouteContext, keys Keys, idx int) model.Duration {
	raw, ok := routeCtx.State().ActivityValues(keys.WaitingTime)
	if !ok {
		return 0
	}
	waits, ok := raw.([]model.Duration)
	if !ok || idx < 0 || idx >= len(waits) {
		return 0
	}
	return waits[idx]
}

// TotalDistance returns the route's cached total distance.
func TotalDistance(routeCtx *solution.RouteContext, keys Keys) model.Distance {
	v, ok := routeCtx.State().RouteValue(keys.TotalDistance)
	if !ok {
		return 0
	}
	d, _ := v.(model.Distance)
	return d
}

// TotalDuration returns the route's cached total duration.
func TotalDuration(routeCtx *solution.RouteContext, keys Keys) model.Duration {
	v, ok := routeCtx.State().RouteValue(keys.TotalDuration)
	if !ok {
		return 0
	}
	d, _ := v.(model.Duration)
	return d
}
