package features

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

const (
	isBreakDimension = "is_break" // model.Dimensions key on a Single: bool
)

// ViolationBreak marks a move that would place a second break on the same
// route; a tour may carry at most one break per shift.
const ViolationBreak goal.ViolationCode = 7

func isBreak(job model.Job) bool {
	v, _ := job.Dimens()[isBreakDimension].(bool)
	return v
}

type breaksFeature struct{}

// NewBreaks builds the driver-break feature: breaks are modelled as ordinary
// optional Single jobs flagged via Dimensions["is_break"], constrained to at most
// one per route and demoted to Ignored (not Unassigned) when a recreate pass
// can't place them, since an unplaced break is not a solver failure the way an
// unplaced delivery is.
func NewBreaks() goal.Feature {
	f := &breaksFeature{}
	return goal.Feature{Name: "breaks", Constraint: f, State: f}
}

func (f *breaksFeature) Evaluate(move goal.MoveContext) *goal.Violation {
	m, ok := move.(goal.RouteMoveContext)
	if !ok || !isBreak(m.Job) {
		return nil
	}
	for _, a := range m.Route.Route().Tour.JobActivities() {
		if a.Job != nil && isBreak(a.Job) {
			return &goal.Violation{Code: ViolationBreak, Stopped: false}
		}
	}
	return nil
}

func (f *breaksFeature) Merge(source, _ model.Job) (model.Job, error) {
	if isBreak(source) {
		return nil, &goal.MergeError{Code: ViolationBreak}
	}
	return source, nil
}

func (f *breaksFeature) AcceptInsertion(*solution.Context, int, model.Job) {}

func (f *breaksFeature) AcceptRouteState(*solution.RouteContext) {}

// AcceptSolutionState demotes any still-unassigned break job to Ignored: a break
// the recreate pass couldn't fit is not a constraint failure worth re-trying
// every generation, since the driver can also take it implicitly as waiting time
// the schedule propagator already accounts for.
func (f *breaksFeature) AcceptSolutionState(sol *solution.Context) {
	kept := sol.Unassigned[:0]
	for _, u := range sol.Unassigned {
		if isBreak(u.Job) {
			sol.Ignored = append(sol.Ignored, u.Job)
			continue
		}
		kept = append(kept, u)
	}
	sol.Unassigned = kept
}
