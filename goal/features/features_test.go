package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/goal/features"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/model/modeltest"
	"github.com/vrp-solver/vrp-solver/solution"
)

func TestCapacity_EvaluateRejectsOverCapacityInsertion(t *testing.T) {
	keys := goal.NewStateKeyRegistry()
	f := features.NewCapacity(keys)

	actor := modeltest.Actor(0, 0, 100)
	actor.Dimensions = model.Dimensions{"capacity": []float64{5}}
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)
	f.State.AcceptRouteState(rctx) // empty tour, seeds zero cumulative state

	job := &model.Single{Dimensions: model.Dimensions{"demand": []float64{10}}}
	target := &solution.Activity{Job: job}

	move := goal.ActivityMoveContext{Route: rctx, Activity: goal.ActivityContext{Index: 1, Target: target}}
	v := f.Constraint.Evaluate(move)
	assert.NotNil(t, v)
	assert.Equal(t, features.ViolationCapacity, v.Code)
}

func TestCapacity_EvaluateAcceptsWithinCapacity(t *testing.T) {
	keys := goal.NewStateKeyRegistry()
	f := features.NewCapacity(keys)

	actor := modeltest.Actor(0, 0, 100)
	actor.Dimensions = model.Dimensions{"capacity": []float64{5}}
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)
	f.State.AcceptRouteState(rctx)

	job := &model.Single{Dimensions: model.Dimensions{"demand": []float64{3}}}
	target := &solution.Activity{Job: job}
	move := goal.ActivityMoveContext{Route: rctx, Activity: goal.ActivityContext{Index: 1, Target: target}}

	assert.Nil(t, f.Constraint.Evaluate(move))
}

func TestSkills_EvaluateRejectsMissingSkill(t *testing.T) {
	f := features.NewSkills()
	actor := modeltest.Actor(0, 0, 100)
	actor.Dimensions = model.Dimensions{"skills": []string{"forklift"}}
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)

	job := &model.Single{Dimensions: model.Dimensions{"skills": []string{"forklift", "hazmat"}}}
	v := f.Constraint.Evaluate(goal.RouteMoveContext{Route: rctx, Job: job})
	assert.NotNil(t, v)
	assert.Equal(t, features.ViolationSkills, v.Code)
}

func TestSkills_EvaluateAcceptsSupersetSkills(t *testing.T) {
	f := features.NewSkills()
	actor := modeltest.Actor(0, 0, 100)
	actor.Dimensions = model.Dimensions{"skills": []string{"forklift", "hazmat", "refrigerated"}}
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)

	job := &model.Single{Dimensions: model.Dimensions{"skills": []string{"forklift"}}}
	assert.Nil(t, f.Constraint.Evaluate(goal.RouteMoveContext{Route: rctx, Job: job}))
}

func TestBreaks_EvaluateRejectsSecondBreakOnSameRoute(t *testing.T) {
	f := features.NewBreaks()
	actor := modeltest.Actor(0, 0, 100)
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	existingBreak := &model.Single{Dimensions: model.Dimensions{"is_break": true}}
	route.Tour.InsertAt(1, &solution.Activity{Job: existingBreak})
	rctx := solution.NewRouteContext(route)

	newBreak := &model.Single{Dimensions: model.Dimensions{"is_break": true}}
	v := f.Constraint.Evaluate(goal.RouteMoveContext{Route: rctx, Job: newBreak})
	assert.NotNil(t, v)
	assert.Equal(t, features.ViolationBreak, v.Code)
}

func TestTourSize_EvaluateRejectsOverLimit(t *testing.T) {
	limit := func(*model.Actor) (int, bool) { return 1, true }
	f := features.NewTourSize(limit)

	actor := modeltest.Actor(0, 0, 100)
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	route.Tour.InsertAt(1, &solution.Activity{Job: &model.Single{}})
	rctx := solution.NewRouteContext(route)

	v := f.Constraint.Evaluate(goal.RouteMoveContext{Route: rctx, Job: &model.Single{}})
	assert.NotNil(t, v)
	assert.Equal(t, features.ViolationTourSize, v.Code)
}

func TestUnassigned_FitnessScalesWithUnassignedCount(t *testing.T) {
	f := features.NewUnassigned(100)
	sol := &solution.Context{Unassigned: []solution.UnassignedJob{{}, {}}}
	assert.Equal(t, 200.0, f.Objective.Fitness(sol))
}

func strictLock(j1, j2 *model.Single, position model.LockPosition) *model.Lock {
	return &model.Lock{
		IsApplicable: func(*model.Actor) bool { return true },
		Details: []model.LockDetail{{
			Order:    model.LockOrderStrict,
			Position: position,
			Jobs:     []model.Job{j1, j2},
		}},
	}
}

// TestLocking_EvaluateRejectsUnrelatedJobBetweenStrictSequence reproduces
// Scenario D: j1/j2 are strictly locked together (any position); wedging an
// unrelated j3 directly between them must be rejected even though j3 itself
// is not one of the locked jobs.
func TestLocking_EvaluateRejectsUnrelatedJobBetweenStrictSequence(t *testing.T) {
	j1 := &model.Single{}
	j2 := &model.Single{}
	j3 := &model.Single{}
	f := features.NewLocking([]*model.Lock{strictLock(j1, j2, model.LockPositionAny)})

	actor := modeltest.Actor(0, 0, 100)
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)

	move := goal.ActivityMoveContext{
		Route: rctx,
		Activity: goal.ActivityContext{
			Prev:   &solution.Activity{Job: j1},
			Target: &solution.Activity{Job: j3},
			Next:   &solution.Activity{Job: j2},
		},
	}
	v := f.Constraint.Evaluate(move)
	assert.NotNil(t, v)
	assert.Equal(t, features.ViolationLocking, v.Code)
}

// TestLocking_EvaluateAcceptsInsertionAtSequenceBoundaries reproduces the
// second half of Scenario D: j3 may go immediately before j1 or immediately
// after j2, since neither insertion wedges it inside the locked sequence.
func TestLocking_EvaluateAcceptsInsertionAtSequenceBoundaries(t *testing.T) {
	j1 := &model.Single{}
	j2 := &model.Single{}
	j3 := &model.Single{}
	f := features.NewLocking([]*model.Lock{strictLock(j1, j2, model.LockPositionAny)})

	actor := modeltest.Actor(0, 0, 100)
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)

	before := goal.ActivityMoveContext{
		Route: rctx,
		Activity: goal.ActivityContext{
			Target: &solution.Activity{Job: j3},
			Next:   &solution.Activity{Job: j1},
		},
	}
	assert.Nil(t, f.Constraint.Evaluate(before))

	after := goal.ActivityMoveContext{
		Route: rctx,
		Activity: goal.ActivityContext{
			Prev:   &solution.Activity{Job: j2},
			Target: &solution.Activity{Job: j3},
		},
	}
	assert.Nil(t, f.Constraint.Evaluate(after))
}

// TestLocking_EvaluateRejectsAnyInsertionAroundFixedLock covers the Fixed
// LockPosition branch: unlike LockPositionAny, a fixed sequence forbids an
// unrelated job immediately before or after it too.
func TestLocking_EvaluateRejectsAnyInsertionAroundFixedLock(t *testing.T) {
	j1 := &model.Single{}
	j2 := &model.Single{}
	j3 := &model.Single{}
	f := features.NewLocking([]*model.Lock{strictLock(j1, j2, model.LockPositionFixed)})

	actor := modeltest.Actor(0, 0, 100)
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)

	after := goal.ActivityMoveContext{
		Route: rctx,
		Activity: goal.ActivityContext{
			Prev:   &solution.Activity{Job: j2},
			Target: &solution.Activity{Job: j3},
		},
	}
	v := f.Constraint.Evaluate(after)
	assert.NotNil(t, v)
	assert.Equal(t, features.ViolationLocking, v.Code)
}

// TestLocking_EvaluateRejectsRouteWithoutApplicableActor covers the
// RouteMoveContext branch: a locked job may not go on a route whose actor
// fails the lock's predicate.
func TestLocking_EvaluateRejectsRouteWithoutApplicableActor(t *testing.T) {
	j1 := &model.Single{}
	j2 := &model.Single{}
	lock := &model.Lock{
		IsApplicable: func(a *model.Actor) bool { return false },
		Details:      []model.LockDetail{{Order: model.LockOrderAny, Position: model.LockPositionAny, Jobs: []model.Job{j1, j2}}},
	}
	f := features.NewLocking([]*model.Lock{lock})

	actor := modeltest.Actor(0, 0, 100)
	route := &solution.Route{Actor: actor, Tour: solution.NewTour(actor)}
	rctx := solution.NewRouteContext(route)

	v := f.Constraint.Evaluate(goal.RouteMoveContext{Route: rctx, Job: j1})
	assert.NotNil(t, v)
	assert.Equal(t, features.ViolationLocking, v.Code)
	assert.True(t, v.Stopped)
}
