package main

import (
	"math"
	"math/rand"

	"github.com/vrp-solver/vrp-solver/model"
)

// point2D is a plain 2D coordinate, used only to build a synthetic routing
// matrix; the solver itself only ever sees model.Location indices.
type point2D struct{ x, y float64 }

// syntheticInstance holds everything needed to assemble a problem.Problem:
// a depot-centred fleet, a set of demand jobs scattered around it, and the
// Euclidean routing matrix between every location, the same
// "deterministic, reproducible example" role vrp-core's own
// create_example_problem plays for its documentation tests, generalised here
// to a configurable size instead of a single hard-coded job.
type syntheticInstance struct {
	fleet     *model.Fleet
	jobs      []model.Job
	transport *model.MatrixTransportCost
}

// buildSyntheticInstance scatters jobCount demand jobs uniformly around a
// depot at the origin, and builds vehicleCount identical vehicles of the
// given capacity, all starting and ending at the depot.
func buildSyntheticInstance(seed int64, vehicleCount, jobCount int, capacity float64) syntheticInstance {
	r := rand.New(rand.NewSource(seed))

	const radius = 100.0
	points := make([]point2D, jobCount+1)
	points[0] = point2D{0, 0} // depot
	for i := 1; i <= jobCount; i++ {
		points[i] = point2D{
			x: (r.Float64()*2 - 1) * radius,
			y: (r.Float64()*2 - 1) * radius,
		}
	}

	size := len(points)
	distances := make([]model.Distance, size*size)
	durations := make([]model.Duration, size*size)
	for i, a := range points {
		for j, b := range points {
			d := math.Hypot(a.x-b.x, a.y-b.y)
			distances[i*size+j] = d
			durations[i*size+j] = d // unit speed
		}
	}
	profile := model.Profile("car")
	transport := model.NewMatrixTransportCost([]*model.ProfileMatrix{{
		Profile: profile,
		Size:    size,
		Slices:  []model.MatrixSlice{{Time: 0, Distances: distances, Durations: durations}},
	}})

	depot := model.Location(0)
	actors := make([]*model.Actor, vehicleCount)
	for i := range actors {
		actors[i] = &model.Actor{
			Detail: model.Detail{
				Start:   depot,
				End:     &depot,
				Time:    model.TimeWindow{Start: 0, End: 1000},
				Profile: profile,
			},
			Costs:      model.Costs{PerDistance: 1},
			Dimensions: model.Dimensions{"capacity": []float64{capacity}},
		}
	}

	jobs := make([]model.Job, jobCount)
	for i := 0; i < jobCount; i++ {
		loc := model.Location(i + 1)
		demand := 1 + r.Float64()*3
		jobs[i] = &model.Single{
			Places: []model.Place{{
				Location: &loc,
				Duration: 5,
				Times:    []model.TimeSpan{model.WindowSpan(model.TimeWindow{Start: 0, End: 1000})},
			}},
			Dimensions: model.Dimensions{"demand": []float64{demand}},
		}
	}

	return syntheticInstance{
		fleet:     model.NewFleet(actors),
		jobs:      jobs,
		transport: transport,
	}
}
