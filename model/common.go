// Package model defines the immutable problem description for a vehicle routing
// problem: fleet, jobs, transport/activity costs, locks and the shared value types
// used throughout the solver.
package model

import "math"

// Location is an opaque index into a routing matrix. The core never interprets it
// beyond equality and lookups handed to TransportCost/ActivityCost implementations.
type Location int

// Profile groups actors that share a routing matrix (e.g. "car", "truck").
type Profile string

// Distance, Duration and Timestamp are all plain float64 in the core: the unit is
// whatever the transport/activity cost implementations agree on (seconds, metres, ...).
type (
	Distance  = float64
	Duration  = float64
	Timestamp = float64
)

// Dimensions carries arbitrary typed extra data attached to jobs, actors and places
// (demand vectors, skill sets, ids, ...). Keys are feature-owned conventions, not
// part of the core contract.
type Dimensions map[string]any

// Clone returns a shallow copy; values themselves are treated as immutable.
func (d Dimensions) Clone() Dimensions {
	if d == nil {
		return nil
	}
	out := make(Dimensions, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// TimeWindow is a closed interval [Start, End] during which an activity may be
// started. NoTimeWindow represents "no restriction".
type TimeWindow struct {
	Start Timestamp
	End   Timestamp
}

// NoTimeWindow spans the entire simulation horizon.
var NoTimeWindow = TimeWindow{Start: 0, End: math.MaxFloat64}

// Contains reports whether t falls within the window (inclusive).
func (tw TimeWindow) Contains(t Timestamp) bool {
	return t >= tw.Start && t <= tw.End
}

// Intersects reports whether two windows overlap.
func (tw TimeWindow) Intersects(other TimeWindow) bool {
	return tw.Start <= other.End && other.Start <= tw.End
}

// Schedule records the actual arrival and departure time computed for an activity.
type Schedule struct {
	Arrival   Timestamp
	Departure Timestamp
}

// TravelTime is either a Departure(t) or an Arrival(t): transport cost
// implementations need to know whether t anchors the start or the end of a leg
// to support time-dependent (interpolated) matrices.
type TravelTime struct {
	timestamp Timestamp
	isArrival bool
}

// Departure anchors a travel-time query at the departure instant.
func Departure(t Timestamp) TravelTime { return TravelTime{timestamp: t, isArrival: false} }

// Arrival anchors a travel-time query at the arrival instant.
func Arrival(t Timestamp) TravelTime { return TravelTime{timestamp: t, isArrival: true} }

// Timestamp returns the anchoring instant regardless of kind.
func (t TravelTime) Timestamp() Timestamp { return t.timestamp }

// IsArrival reports whether this travel time anchors on arrival rather than departure.
func (t TravelTime) IsArrival() bool { return t.isArrival }
