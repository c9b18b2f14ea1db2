package model

// Costs are the operating-cost coefficients attached to an actor, grounded on
// vrp-core's `Costs` (src/models/problem/fleet.rs), flattened onto a single actor
// rather than split across separate Driver/Vehicle records as the original does.
type Costs struct {
	Fixed          float64 // one-off cost for using this actor at all
	PerDistance    float64
	PerDrivingTime float64
	PerWaitingTime float64
	PerServiceTime float64
}

// Total evaluates the operating cost of distance/duration travelled under these
// coefficients. Waiting and service time are not separated out here since routes
// only track aggregate duration; features needing the split keep their own state.
func (c Costs) Total(distance Distance, duration Duration) float64 {
	return c.Fixed + c.PerDistance*distance + c.PerDrivingTime*duration
}

// Detail describes an actor's start/end locations and working shift. Detail
// equality (start/end/time-window equivalence) is how actors are grouped into
// interchangeable pools by the registry.
type Detail struct {
	Start    Location
	End      *Location // nil means an open-ended (OVRP) shift: no mandatory return
	Time     TimeWindow
	Profile  Profile
}

// Equal reports detail-equivalence: same start, same end (or both open), same shift.
func (d Detail) Equal(other Detail) bool {
	if d.Start != other.Start || d.Profile != other.Profile {
		return false
	}
	if (d.End == nil) != (other.End == nil) {
		return false
	}
	if d.End != nil && *d.End != *other.End {
		return false
	}
	return d.Time == other.Time
}

// Actor is a vehicle+driver pair together with its operating shift. Identity is by
// address: two *Actor values are the "same actor" iff they are the same pointer,
// never by structural comparison.
type Actor struct {
	Detail     Detail
	Costs      Costs
	Dimensions Dimensions // skills, capacity, group id, ...
}

// GroupKey returns a comparable key for detail-equivalence grouping. Actors whose
// Detail.Equal holds share a GroupKey, so the registry can bucket interchangeable
// actors together.
type GroupKey struct {
	Start   Location
	End     Location
	HasEnd  bool
	Time    TimeWindow
	Profile Profile
}

// Group computes this actor's GroupKey.
func (a *Actor) Group() GroupKey {
	key := GroupKey{Start: a.Detail.Start, Time: a.Detail.Time, Profile: a.Detail.Profile}
	if a.Detail.End != nil {
		key.HasEnd = true
		key.End = *a.Detail.End
	}
	return key
}

// Fleet is the immutable, ordered sequence of actors available to a problem,
// grouped by detail-equivalence (vrp-core's `Fleet.groups`).
type Fleet struct {
	Actors []*Actor
	groups map[GroupKey][]*Actor
}

// NewFleet builds a Fleet and its detail-equivalence groups.
func NewFleet(actors []*Actor) *Fleet {
	groups := make(map[GroupKey][]*Actor)
	for _, a := range actors {
		key := a.Group()
		groups[key] = append(groups[key], a)
	}
	return &Fleet{Actors: actors, groups: groups}
}

// Groups returns actors bucketed by detail-equivalence.
func (f *Fleet) Groups() map[GroupKey][]*Actor {
	return f.groups
}
