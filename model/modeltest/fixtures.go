// Package modeltest provides small, deterministic fixtures shared by every other
// package's tests: a trivial transport cost (distance = |Δlocation|) and helpers to
// build actors and jobs for unit tests.
package modeltest

import (
	"math"

	"github.com/vrp-solver/vrp-solver/model"
)

// TestTransportCost implements model.TransportCost with distance == duration ==
// |to - from|, independent of travel time.
type TestTransportCost struct{}

func (TestTransportCost) Distance(_ *model.Actor, from, to model.Location, _ model.TravelTime) model.Distance {
	return math.Abs(float64(to - from))
}

func (TestTransportCost) Duration(_ *model.Actor, from, to model.Location, _ model.TravelTime) model.Duration {
	return math.Abs(float64(to - from))
}

func (TestTransportCost) DistanceApprox(_ model.Profile, from, to model.Location) model.Distance {
	return math.Abs(float64(to - from))
}

func (TestTransportCost) DurationApprox(_ model.Profile, from, to model.Location) model.Duration {
	return math.Abs(float64(to - from))
}

// Loc builds a *model.Location pointer inline.
func Loc(v int) *model.Location {
	l := model.Location(v)
	return &l
}

// Actor builds a single-shift actor starting and ending at `depot`, active over
// [shiftStart, shiftEnd], with zero operating costs unless overridden by the caller.
func Actor(depot int, shiftStart, shiftEnd float64) *model.Actor {
	end := model.Location(depot)
	return &model.Actor{
		Detail: model.Detail{
			Start:   model.Location(depot),
			End:     &end,
			Time:    model.TimeWindow{Start: shiftStart, End: shiftEnd},
			Profile: "car",
		},
	}
}

// SingleJob builds a one-place, one-time-window Single job at `loc` with the given
// service duration and window.
func SingleJob(loc int, duration, windowStart, windowEnd float64) *model.Single {
	l := model.Location(loc)
	return &model.Single{
		Places: []model.Place{{
			Location: &l,
			Duration: duration,
			Times:    []model.TimeSpan{model.WindowSpan(model.TimeWindow{Start: windowStart, End: windowEnd})},
		}},
	}
}
