// Package features provides concrete Feature implementations: multi-dimensional
// capacity, time windows/transport cost, lock enforcement, tour size/distance
// limits, skill compatibility, driver breaks and the unassigned-job penalty.
package features

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

const (
	demandDimension   = "demand"   // model.Dimensions key on a Job: []float64 per-dimension demand delta
	capacityDimension = "capacity" // model.Dimensions key on an Actor: []float64 per-dimension capacity
)

// ViolationCapacity marks a move that would push cumulative demand past an
// actor's capacity in at least one dimension.
const ViolationCapacity goal.ViolationCode = 1

func demandOf(job model.Job) []float64 {
	if job == nil {
		return nil
	}
	v, _ := job.Dimens()[demandDimension].([]float64)
	return v
}

func capacityOf(actor *model.Actor) []float64 {
	v, _ := actor.Dimensions[capacityDimension].([]float64)
	return v
}

func addVec(a, b []float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]float64, n)
	copy(out, a)
	for i, v := range b {
		out[i] += v
	}
	return out
}

func exceedsCapacity(cumulative, capacity []float64) bool {
	for i, v := range cumulative {
		limit := 0.0
		if i < len(capacity) {
			limit = capacity[i]
		}
		if v > limit {
			return true
		}
	}
	return false
}

type capacityFeature struct{ key solution.StateKey }

// NewCapacity builds the multi-dimensional capacity feature, registering its
// per-activity cumulative-demand state under a fresh key.
func NewCapacity(keys *goal.StateKeyRegistry) goal.Feature {
	cf := &capacityFeature{key: keys.Register("features.capacity")}
	return goal.Feature{Name: "capacity", Constraint: cf, State: cf}
}

// cumulativeAt returns the cumulative demand vector immediately before index idx
// in routeCtx's cached per-activity state (empty if state hasn't been computed
// yet or idx is the first activity).
func (f *capacityFeature) cumulativeAt(routeCtx *solution.RouteContext, idx int) []float64 {
	raw, ok := routeCtx.State().ActivityValues(f.key)
	if !ok {
		return nil
	}
	cums, ok := raw.([][]float64)
	if !ok || idx-1 < 0 || idx-1 >= len(cums) {
		return nil
	}
	return cums[idx-1]
}

// Evaluate implements goal.Constraint: cumulative demand through the insertion
// point, and at every activity after it (each of which then carries the inserted
// demand as well), must stay within the actor's capacity. Both checks read the
// per-activity totals cached by the last AcceptRouteState pass. Stopped is never
// set since one over-capacity position doesn't imply later positions are also
// infeasible.
func (f *capacityFeature) Evaluate(move goal.MoveContext) *goal.Violation {
	m, ok := move.(goal.ActivityMoveContext)
	if !ok {
		return nil
	}
	capacity := capacityOf(m.Route.Route().Actor)
	base := f.cumulativeAt(m.Route, m.Activity.Index)
	var demand []float64
	if m.Activity.Target != nil {
		demand = demandOf(m.Activity.Target.Job)
	}
	cumulative := addVec(base, demand)
	if exceedsCapacity(cumulative, capacity) {
		return &goal.Violation{Code: ViolationCapacity, Stopped: false}
	}
	if raw, ok := m.Route.State().ActivityValues(f.key); ok {
		if cums, ok := raw.([][]float64); ok {
			for j := m.Activity.Index; j < len(cums); j++ {
				if exceedsCapacity(addVec(cums[j], demand), capacity) {
					return &goal.Violation{Code: ViolationCapacity, Stopped: false}
				}
			}
		}
	}
	return nil
}

// Merge implements goal.Constraint: capacity is checked at insertion, not merge
// time, so Merge always accepts and returns candidate unchanged.
func (f *capacityFeature) Merge(source, candidate model.Job) (model.Job, error) {
	return candidate, nil
}

// AcceptInsertion implements goal.State; capacity has no per-insertion side
// effect beyond the route-state recompute that follows (which already runs
// whenever the route is marked stale by the insertion).
func (f *capacityFeature) AcceptInsertion(*solution.Context, int, model.Job) {}

// AcceptRouteState implements goal.State: recomputes the cumulative demand
// vector after every activity in tour order.
func (f *capacityFeature) AcceptRouteState(routeCtx *solution.RouteContext) {
	activities := routeCtx.Route().Tour.All()
	cums := make([][]float64, len(activities))
	var running []float64
	for i, a := range activities {
		if a.Job != nil {
			running = addVec(running, demandOf(a.Job))
		}
		cums[i] = append([]float64(nil), running...)
	}
	routeCtx.StateMut().PutActivityValues(f.key, cums)
}

// AcceptSolutionState implements goal.State; capacity has no cross-route effect.
func (f *capacityFeature) AcceptSolutionState(*solution.Context) {}
