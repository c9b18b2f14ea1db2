package solution

import "github.com/vrp-solver/vrp-solver/model"

// Place is the resolved, activity-local view of where/when work happens: a
// concrete location, duration and the *current* absolute time window (departure-
// relative spans are re-materialised into this field on every departure shift).
type Place struct {
	Location model.Location
	Duration model.Duration
	Time     model.TimeWindow
}

// Commute describes one direction's travel (location, distance, duration) between
// an activity and a nearby access point, used by clustering pre-/post-processing.
// The core treats it as opaque payload.
type Commute struct {
	Location model.Location
	Distance model.Distance
	Duration model.Duration
}

// CommutePair bundles the forward and backward commute legs for an activity.
type CommutePair struct {
	Forward  Commute
	Backward Commute
}

// Activity is one stop in a Tour: a resolved Place, the actual Schedule computed by
// the propagator, an optional link to the Single job it serves, and optional
// commute info. Start/end (depot) activities have Job == nil.
type Activity struct {
	Place    Place
	Schedule model.Schedule
	Job      *model.Single // nil for start/end depot activities
	Commute  *CommutePair
}

// HasSameJob reports whether this activity and job refer to the same job, correctly
// handling a Single that belongs to a Multi (the activity's Job back-pointer is
// always the Single; Multi membership is recovered via JobOwner).
func (a *Activity) HasSameJob(job model.Job, owner func(*model.Single) model.Job) bool {
	if a.Job == nil {
		return false
	}
	return owner(a.Job) == job
}

// DeepCopy returns an independent copy; Place/Schedule are value types, Job is a
// shared immutable pointer: activities own their place/schedule, but jobs are shared.
func (a *Activity) DeepCopy() Activity {
	cp := *a
	if a.Commute != nil {
		c := *a.Commute
		cp.Commute = &c
	}
	return cp
}

// Tour is the ordered activity sequence of a Route, rooted at a start and (usually)
// an end depot activity.
type Tour struct {
	activities []*Activity
}

// NewTour creates an empty tour with just a start and end activity for the
// actor. The start activity's schedule is seeded at the shift's earliest time
// so a brand-new route has a meaningful departure before schedule.UpdateRoute
// ever runs on it (e.g. during insertion evaluation against a still-empty
// route).
func NewTour(actor *model.Actor) *Tour {
	start := &Activity{
		Place:    Place{Location: actor.Detail.Start, Time: actor.Detail.Time},
		Schedule: model.Schedule{Arrival: actor.Detail.Time.Start, Departure: actor.Detail.Time.Start},
	}
	t := &Tour{activities: []*Activity{start}}
	if actor.Detail.End != nil {
		end := &Activity{Place: Place{Location: *actor.Detail.End, Time: actor.Detail.Time}}
		t.activities = append(t.activities, end)
	}
	return t
}

// Total returns the number of activities, including start/end depots.
func (t *Tour) Total() int { return len(t.activities) }

// JobCount returns the number of job-carrying activities (excludes depots).
func (t *Tour) JobCount() int {
	n := 0
	for _, a := range t.activities {
		if a.Job != nil {
			n++
		}
	}
	return n
}

// HasJobs reports whether the tour serves at least one job.
func (t *Tour) HasJobs() bool { return t.JobCount() > 0 }

// Start returns the tour's first (depot) activity, or nil if empty.
func (t *Tour) Start() *Activity {
	if len(t.activities) == 0 {
		return nil
	}
	return t.activities[0]
}

// End returns the tour's last (depot) activity, or nil if there's only a start.
func (t *Tour) End() *Activity {
	if len(t.activities) < 2 {
		return nil
	}
	return t.activities[len(t.activities)-1]
}

// Get returns the activity at index idx (0 is always the start depot).
func (t *Tour) Get(idx int) *Activity {
	if idx < 0 || idx >= len(t.activities) {
		return nil
	}
	return t.activities[idx]
}

// All returns every activity in tour order, start depot through end depot.
func (t *Tour) All() []*Activity { return t.activities }

// Legs returns the number of legs, i.e. consecutive activity pairs (i, i+1).
func (t *Tour) Legs() int {
	if len(t.activities) == 0 {
		return 0
	}
	return len(t.activities) - 1
}

// InsertAt inserts activity at position idx: 1..=Total()-1 for a tour with an end
// depot (strictly between start and end — depots are never disturbed), or
// 1..=Total() for an open-ended tour with no end depot (idx==Total() appends
// after the last activity).
func (t *Tour) InsertAt(idx int, activity *Activity) {
	t.activities = append(t.activities, nil)
	copy(t.activities[idx+1:], t.activities[idx:])
	t.activities[idx] = activity
}

// RemoveJob removes the first activity whose Job pointer equals single, returning
// whether anything was removed.
func (t *Tour) RemoveJob(single *model.Single) bool {
	for i, a := range t.activities {
		if a.Job == single {
			t.activities = append(t.activities[:i], t.activities[i+1:]...)
			return true
		}
	}
	return false
}

// JobActivities returns every job-carrying activity (excludes depots) in tour order.
func (t *Tour) JobActivities() []*Activity {
	out := make([]*Activity, 0, len(t.activities))
	for _, a := range t.activities {
		if a.Job != nil {
			out = append(out, a)
		}
	}
	return out
}

// DeepCopy returns an independent tour; activities are deep-copied, the underlying
// Single job pointers remain shared (immutable).
func (t *Tour) DeepCopy() *Tour {
	out := &Tour{activities: make([]*Activity, len(t.activities))}
	for i, a := range t.activities {
		cp := a.DeepCopy()
		out.activities[i] = &cp
	}
	return out
}

// Route is an actor paired with the ordered tour it performs.
type Route struct {
	Actor *model.Actor
	Tour  *Tour
}

// DeepCopy returns an independent Route; the Actor pointer is shared (immutable).
func (r *Route) DeepCopy() *Route {
	return &Route{Actor: r.Actor, Tour: r.Tour.DeepCopy()}
}
