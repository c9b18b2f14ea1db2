package features

import (
	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/solution"
)

// ViolationLocking marks a move that conflicts with a Lock: the actor doesn't
// satisfy the lock's predicate, or a strict-order lock's job is being placed out
// of its fixed sequence.
const ViolationLocking goal.ViolationCode = 3

type lockingFeature struct {
	locks []*model.Lock
}

// NewLocking builds the lock-enforcement feature over the problem's lock list.
func NewLocking(locks []*model.Lock) goal.Feature {
	return goal.Feature{Name: "locking", Constraint: &lockingFeature{locks: locks}}
}

func (f *lockingFeature) lockFor(job model.Job) (*model.Lock, *model.LockDetail) {
	for _, lock := range f.locks {
		for i := range lock.Details {
			d := &lock.Details[i]
			for _, j := range d.Jobs {
				if j == job {
					return lock, d
				}
			}
		}
	}
	return nil, nil
}

// Evaluate implements goal.Constraint.
//
// Route-level filtering (RouteMoveContext): a locked job may only go on a route
// whose actor satisfies the lock's IsApplicable predicate.
//
// Activity-level (ActivityMoveContext): every strict-order lock whose actor
// condition matches the route's actor is applied to the candidate
// target/prev/next triple, not just to insertions of the locked jobs
// themselves — ruling out wedging an unrelated job in between (or around)
// a strictly-ordered sequence. Ported from `Rule::can_insert`.
func (f *lockingFeature) Evaluate(move goal.MoveContext) *goal.Violation {
	switch m := move.(type) {
	case goal.RouteMoveContext:
		lock, _ := f.lockFor(m.Job)
		if lock == nil {
			return nil
		}
		if !lock.IsApplicable(m.Route.Route().Actor) {
			return &goal.Violation{Code: ViolationLocking, Stopped: true}
		}
	case goal.ActivityMoveContext:
		actor := m.Route.Route().Actor
		target := jobOf(m.Activity.Target)
		prev := jobOf(m.Activity.Prev)
		next := jobOf(m.Activity.Next)

		for _, lock := range f.locks {
			if !lock.IsApplicable(actor) {
				continue
			}
			for i := range lock.Details {
				detail := &lock.Details[i]
				if detail.Order != model.LockOrderStrict || len(detail.Jobs) == 0 {
					continue
				}
				if !canInsert(detail, target, prev, next) {
					return &goal.Violation{Code: ViolationLocking, Stopped: false}
				}
			}
		}
	}
	return nil
}

// jobOf returns act.Job as a model.Job, or nil if act is nil (Activity.Next is
// nil at the tour's tail) or act.Job itself is nil (start/end depot
// activities). Returning act.Job directly when it's a nil *model.Single would
// produce a non-nil model.Job interface value wrapping a nil pointer, so the
// nil check happens before the interface conversion.
func jobOf(act *solution.Activity) model.Job {
	if act == nil || act.Job == nil {
		return nil
	}
	return act.Job
}

// canInsert reports whether target may be placed between prev and next given
// detail's strict-order sequence, ported from vrp-core's `Rule::can_insert`.
// A job that is itself part of detail's sequence is always allowed through
// here — its own ordering is enforced by placing it directly, not by this
// check — so this only ever restricts *other* jobs wedging into, or around,
// the locked sequence.
func canInsert(detail *model.LockDetail, target, prev, next model.Job) bool {
	if inSequence(detail, target) {
		return true
	}
	switch detail.Position {
	case model.LockPositionAny:
		return canInsertAfter(detail, prev, next) || canInsertBefore(detail, prev, next)
	case model.LockPositionDeparture:
		return canInsertAfter(detail, prev, next)
	case model.LockPositionArrival:
		return canInsertBefore(detail, prev, next)
	case model.LockPositionFixed:
		return false
	default:
		return true
	}
}

// canInsertAfter reports whether a job may be inserted immediately after
// detail's sequence: prev must be a job (a nil prev, i.e. the start depot,
// returns false) that is either outside the sequence or its last job, and next
// (if any) must be outside the sequence entirely.
func canInsertAfter(detail *model.LockDetail, prev, next model.Job) bool {
	if prev == nil {
		return false
	}
	last := detail.Jobs[len(detail.Jobs)-1]
	if inSequence(detail, prev) && prev != last {
		return false
	}
	if next != nil && inSequence(detail, next) {
		return false
	}
	return true
}

// canInsertBefore reports whether a job may be inserted immediately before
// detail's sequence: next must be a job (a nil next, i.e. the end depot or an
// open tour end, returns false) that is either outside the sequence or its
// first job, and prev (if any) must be outside the sequence entirely.
func canInsertBefore(detail *model.LockDetail, prev, next model.Job) bool {
	if next == nil {
		return false
	}
	first := detail.Jobs[0]
	if inSequence(detail, next) && next != first {
		return false
	}
	if prev != nil && inSequence(detail, prev) {
		return false
	}
	return true
}

func inSequence(detail *model.LockDetail, job model.Job) bool {
	if job == nil {
		return false
	}
	for _, j := range detail.Jobs {
		if j == job {
			return true
		}
	}
	return false
}

// Merge implements goal.Constraint: a locked job is never a clustering merge
// candidate.
func (f *lockingFeature) Merge(source, candidate model.Job) (model.Job, error) {
	if lock, _ := f.lockFor(source); lock != nil {
		return nil, &goal.MergeError{Code: ViolationLocking}
	}
	if lock, _ := f.lockFor(candidate); lock != nil {
		return nil, &goal.MergeError{Code: ViolationLocking}
	}
	return candidate, nil
}
