package model

// LockOrder controls whether a lock's jobs must appear contiguously in the declared
// order ("strict") or simply all be on the same actor in any order ("any").
type LockOrder int

const (
	LockOrderAny LockOrder = iota
	LockOrderStrict
)

// LockPosition constrains *where* in the tour a lock's jobs may be placed.
type LockPosition int

const (
	LockPositionAny LockPosition = iota
	LockPositionDeparture
	LockPositionArrival
	LockPositionFixed
)

// LockDetail is one clause of a Lock: a set of jobs, their required relative order
// and their required tour position.
type LockDetail struct {
	Order    LockOrder
	Position LockPosition
	Jobs     []Job
}

// Lock pins specific jobs to specific actors under the rules in its Details.
// Grounded on vrp-core's `construction/constraints/locking.rs`.
type Lock struct {
	IsApplicable func(actor *Actor) bool
	Details      []LockDetail
}

// JobsOf flattens every job referenced by this lock, across all details.
func (l *Lock) JobsOf() []Job {
	var out []Job
	for _, d := range l.Details {
		out = append(out, d.Jobs...)
	}
	return out
}
