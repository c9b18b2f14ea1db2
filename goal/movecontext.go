package goal

import (
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// ActivityContext bundles the position being scored during insertion evaluation:
// the candidate index, the activities immediately before/after it, and the
// candidate activity itself (not yet committed to the tour).
type ActivityContext struct {
	Index  int
	Prev   *solution.Activity
	Target *solution.Activity
	Next   *solution.Activity // nil when inserting at the tour's tail
}

// RouteMoveContext is the move shape used when filtering candidate routes for a
// job, before any particular insertion position is chosen.
type RouteMoveContext struct {
	Solution *solution.Context
	Route    *solution.RouteContext
	Job      model.Job
}

// ActivityMoveContext is the move shape used when scoring one candidate insertion
// position within a route already selected as a candidate.
type ActivityMoveContext struct {
	Route    *solution.RouteContext
	Activity ActivityContext
}

// MoveContext is either a RouteMoveContext or an ActivityMoveContext. Implemented
// as a closed interface over the two concrete move shapes, mirroring the Job sum
// type in the model package.
type MoveContext interface {
	moveContextMarker()
}

func (RouteMoveContext) moveContextMarker()    {}
func (ActivityMoveContext) moveContextMarker() {}
