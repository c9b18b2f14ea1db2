package schedule_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/model/modeltest"
	"github.com/vrp-solver/vrp-solver/schedule"
	"github.com/vrp-solver/vrp-solver/solution"
)

type fakeKeyRegistry struct {
	next  solution.StateKey
	names map[string]solution.StateKey
}

func newFakeKeyRegistry() *fakeKeyRegistry {
	return &fakeKeyRegistry{next: 1, names: map[string]solution.StateKey{}}
}

func (r *fakeKeyRegistry) Register(name string) solution.StateKey {
	k := r.next
	r.next++
	r.names[name] = k
	return k
}

func buildRoute(t *testing.T) (*solution.RouteContext, schedule.Keys) {
	actor := modeltest.Actor(0, 0, 100)
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	job := modeltest.SingleJob(10, 5, 0, 100)
	place := job.Places[0]
	loc := *place.Location
	act := &solution.Activity{
		Place: solution.Place{Location: loc, Duration: place.Duration, Time: model.TimeWindow{Start: 0, End: 100}},
		Job:   job,
	}
	route.Tour.InsertAt(1, act)

	rctx := solution.NewRouteContext(route)
	keys := schedule.NewKeys(newFakeKeyRegistry())
	return rctx, keys
}

func TestUpdateRoute_ForwardPassComputesArrivalAndDeparture(t *testing.T) {
	rctx, keys := buildRoute(t)
	schedule.UpdateRoute(rctx, model.DefaultActivityCost{}, modeltest.TestTransportCost{}, keys)

	job := rctx.Route().Tour.Get(1)
	assert.Equal(t, model.Timestamp(10), job.Schedule.Arrival, "travel distance 10 from depot at 0 to loc 10")
	assert.Equal(t, model.Timestamp(15), job.Schedule.Departure, "arrival 10 + service duration 5")
}

func TestUpdateRoute_StatisticsSumDistanceAndDuration(t *testing.T) {
	rctx, keys := buildRoute(t)
	schedule.UpdateRoute(rctx, model.DefaultActivityCost{}, modeltest.TestTransportCost{}, keys)

	assert.Equal(t, model.Distance(20), schedule.TotalDistance(rctx, keys), "10 out + 10 back to depot")
	end := rctx.Route().Tour.Get(rctx.Route().Tour.Total() - 1)
	start := rctx.Route().Tour.Get(0)
	assert.Equal(t, end.Schedule.Departure-start.Schedule.Departure, schedule.TotalDuration(rctx, keys))
}

func TestLatestArrival_UnconstrainedWithoutComputedState(t *testing.T) {
	actor := modeltest.Actor(0, 0, 100)
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)
	keys := schedule.NewKeys(newFakeKeyRegistry())

	assert.Equal(t, math.MaxFloat64, schedule.LatestArrival(rctx, keys, 0))
}
