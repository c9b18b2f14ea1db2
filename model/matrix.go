package model

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// MatrixSlice is one timestamped snapshot of a routing matrix for a profile: flat
// row-major Distance/Duration matrices over a fixed location set, valid "at" Time.
type MatrixSlice struct {
	Time      Timestamp
	Distances []Distance // locations x locations, row-major
	Durations []Duration
}

// ProfileMatrix holds one or more timestamped slices for a profile. A single slice
// (Time ignored) models a static matrix; multiple slices with monotone timestamps
// model a time-dependent matrix, interpolated across slices.
type ProfileMatrix struct {
	Profile     Profile
	Size        int // number of locations; matrices are Size x Size
	Slices      []MatrixSlice
	distanceInt []*interp.PiecewiseLinear // one interpolator per (from,to) pair, lazily built
	durationInt []*interp.PiecewiseLinear
}

// MatrixTransportCost is a TransportCost backed by per-profile routing matrices,
// interpolating across timestamped slices for time-dependent queries. Uses
// gonum/interp's PiecewiseLinear rather than a hand-rolled binary-search-and-lerp.
type MatrixTransportCost struct {
	byProfile map[Profile]*ProfileMatrix
}

// NewMatrixTransportCost builds a MatrixTransportCost from per-profile matrices.
// Slices within a profile must already be sorted by ascending Time; NewMatrixTransportCost
// panics otherwise (a configuration error caught at problem-build time).
func NewMatrixTransportCost(matrices []*ProfileMatrix) *MatrixTransportCost {
	byProfile := make(map[Profile]*ProfileMatrix, len(matrices))
	for _, m := range matrices {
		for i := 1; i < len(m.Slices); i++ {
			if m.Slices[i].Time < m.Slices[i-1].Time {
				panic(fmt.Sprintf("matrix slices for profile %q are not monotone in time", m.Profile))
			}
		}
		byProfile[m.Profile] = m
	}
	return &MatrixTransportCost{byProfile: byProfile}
}

func (m *MatrixTransportCost) pairIndex(pm *ProfileMatrix, from, to Location) int {
	return int(from)*pm.Size + int(to)
}

func (pm *ProfileMatrix) ensureInterpolators() {
	if pm.distanceInt != nil {
		return
	}
	n := pm.Size * pm.Size
	pm.distanceInt = make([]*interp.PiecewiseLinear, n)
	pm.durationInt = make([]*interp.PiecewiseLinear, n)
	if len(pm.Slices) < 2 {
		return
	}
	xs := make([]float64, len(pm.Slices))
	for i, s := range pm.Slices {
		xs[i] = s.Time
	}
	for pair := 0; pair < n; pair++ {
		distYs := make([]float64, len(pm.Slices))
		durYs := make([]float64, len(pm.Slices))
		for i, s := range pm.Slices {
			distYs[i] = s.Distances[pair]
			durYs[i] = s.Durations[pair]
		}
		di := &interp.PiecewiseLinear{}
		_ = di.Fit(xs, distYs)
		ui := &interp.PiecewiseLinear{}
		_ = ui.Fit(xs, durYs)
		pm.distanceInt[pair] = di
		pm.durationInt[pair] = ui
	}
}

// query clamps t into the matrix's known time range before interpolating, since
// gonum/interp.Predict is only defined within the fitted domain.
func query(pm *ProfileMatrix, terps []*interp.PiecewiseLinear, pair int, t Timestamp) float64 {
	if len(pm.Slices) == 0 {
		return 0
	}
	if len(pm.Slices) == 1 {
		if terps == pm.distanceInt {
			return pm.Slices[0].Distances[pair]
		}
		return pm.Slices[0].Durations[pair]
	}
	lo, hi := pm.Slices[0].Time, pm.Slices[len(pm.Slices)-1].Time
	clamped := t
	if clamped < lo {
		clamped = lo
	}
	if clamped > hi {
		clamped = hi
	}
	return terps[pair].Predict(clamped)
}

func (m *MatrixTransportCost) resolve(actor *Actor, from, to Location, tt TravelTime) (*ProfileMatrix, int, Timestamp) {
	pm, ok := m.byProfile[actor.Detail.Profile]
	if !ok {
		panic(fmt.Sprintf("no routing matrix registered for profile %q", actor.Detail.Profile))
	}
	pm.ensureInterpolators()
	return pm, m.pairIndex(pm, from, to), tt.Timestamp()
}

// Distance implements TransportCost.
func (m *MatrixTransportCost) Distance(actor *Actor, from, to Location, tt TravelTime) Distance {
	pm, pair, t := m.resolve(actor, from, to, tt)
	return query(pm, pm.distanceInt, pair, t)
}

// Duration implements TransportCost.
func (m *MatrixTransportCost) Duration(actor *Actor, from, to Location, tt TravelTime) Duration {
	pm, pair, t := m.resolve(actor, from, to, tt)
	return query(pm, pm.durationInt, pair, t)
}

// DistanceApprox implements TransportCost using the earliest available slice.
func (m *MatrixTransportCost) DistanceApprox(profile Profile, from, to Location) Distance {
	pm, ok := m.byProfile[profile]
	if !ok || len(pm.Slices) == 0 {
		return 0
	}
	return pm.Slices[0].Distances[int(from)*pm.Size+int(to)]
}

// DurationApprox implements TransportCost using the earliest available slice.
func (m *MatrixTransportCost) DurationApprox(profile Profile, from, to Location) Duration {
	pm, ok := m.byProfile[profile]
	if !ok || len(pm.Slices) == 0 {
		return 0
	}
	return pm.Slices[0].Durations[int(from)*pm.Size+int(to)]
}

// SortSlices sorts a profile's slices by ascending timestamp in place, used by
// builders assembling slices out of order before handing them to
// NewMatrixTransportCost.
func (pm *ProfileMatrix) SortSlices() {
	sort.Slice(pm.Slices, func(i, j int) bool { return pm.Slices[i].Time < pm.Slices[j].Time })
}
