package solution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/model/modeltest"
	"github.com/vrp-solver/vrp-solver/solution"
)

func TestContext_AssignUnassignRoundtrip(t *testing.T) {
	actor := modeltest.Actor(0, 0, 100)
	fleet := model.NewFleet([]*model.Actor{actor})
	job := modeltest.SingleJob(5, 10, 0, 100)

	ctx := solution.NewContext(fleet, []model.Job{job})
	assert.Len(t, ctx.Unassigned, 1)

	ctx.MarkAssigned(job)
	assert.Empty(t, ctx.Unassigned)

	ctx.MarkUnassigned(job, solution.ReasonDetailed, 7)
	assert.Len(t, ctx.Unassigned, 1)
	assert.Equal(t, solution.ReasonDetailed, ctx.Unassigned[0].Reason)
	assert.Equal(t, 7, ctx.Unassigned[0].Code)
}

func TestRegistryContext_NextRouteReusesEmptyTour(t *testing.T) {
	actor := modeltest.Actor(0, 0, 100)
	fleet := model.NewFleet([]*model.Actor{actor})
	rc := solution.NewRegistryContext(fleet)

	routes := rc.NextRoute()
	assert.Len(t, routes, 1)

	again := rc.GetRoute(actor)
	assert.Same(t, routes[0], again, "same actor should reuse the cached empty route context")
}

func TestContext_RemoveEmptyRoutesFreesActor(t *testing.T) {
	actor := modeltest.Actor(0, 0, 100)
	fleet := model.NewFleet([]*model.Actor{actor})
	ctx := solution.NewContext(fleet, nil)

	empty := ctx.Registry.GetRoute(actor)
	ctx.Registry.Registry().UseActor(actor)
	ctx.KeepRoutes([]*solution.RouteContext{empty})

	assert.False(t, ctx.Registry.Registry().IsAvailable(actor))
	ctx.RemoveEmptyRoutes()
	assert.Empty(t, ctx.Routes)
	assert.True(t, ctx.Registry.Registry().IsAvailable(actor))
}

func TestRouteState_RouteAndActivityValues(t *testing.T) {
	s := solution.NewRouteState()
	const capacityKey solution.StateKey = 1

	_, ok := s.RouteValue(capacityKey)
	assert.False(t, ok)

	s.PutRouteValue(capacityKey, 42)
	v, ok := s.RouteValue(capacityKey)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	s.PutActivityValues(capacityKey, []int{1, 2, 3})
	av, ok := s.ActivityValues(capacityKey)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, av)

	clone := s.Clone()
	clone.PutRouteValue(capacityKey, 99)
	original, _ := s.RouteValue(capacityKey)
	assert.Equal(t, 42, original, "clone must not mutate the source state")
}

func TestRouteContext_StaleFlag(t *testing.T) {
	actor := modeltest.Actor(0, 0, 100)
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)
	assert.True(t, rctx.IsStale())

	rctx.MarkStale(false)
	assert.False(t, rctx.IsStale())

	rctx.RouteMut()
	assert.True(t, rctx.IsStale(), "mutating the route must mark the context stale again")
}
