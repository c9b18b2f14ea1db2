package model

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Jobs indexes the problem's job set and answers neighbour-by-profile queries,
// grounded on vrp-core's `Jobs` (src/models/problem/jobs.rs), generalized with an
// actual distance-ranked neighbour index (the original left `create_index`
// unimplemented).
type Jobs struct {
	all   []Job
	byKey map[string][]neighbour // profile -> located jobs in input order; Neighbours ranks them per query
}

type neighbour struct {
	job      Job
	location Location
}

// NewJobs builds the job index. locationOf resolves a representative location for
// ranking purposes (the problem builder passes the job's first located place).
func NewJobs(jobs []Job, profiles []Profile, distance func(profile Profile, from, to Location) float64, locationOf func(Job) (Location, bool)) *Jobs {
	j := &Jobs{all: jobs, byKey: make(map[string][]neighbour)}
	for _, profile := range profiles {
		var withLoc []neighbour
		for _, job := range jobs {
			if loc, ok := locationOf(job); ok {
				withLoc = append(withLoc, neighbour{job: job, location: loc})
			}
		}
		j.byKey[string(profile)] = withLoc
		_ = distance // distance is supplied by callers of Neighbours; kept for index-construction symmetry with vrp-core's signature
	}
	return j
}

// All returns every job in the problem.
func (j *Jobs) All() []Job { return j.all }

// Neighbours returns jobs of the given profile ranked by ascending distance from
// `from`, nearest first. Ties keep the index's input order (stable sort).
func (j *Jobs) Neighbours(profile Profile, from Location, distance func(a, b Location) float64, limit int) []Job {
	candidates := j.byKey[string(profile)]
	if len(candidates) == 0 {
		return nil
	}
	dists := make([]float64, len(candidates))
	order := make([]int, len(candidates))
	for i, c := range candidates {
		dists[i] = distance(from, c.location)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })
	if limit <= 0 || limit > len(order) {
		limit = len(order)
	}
	out := make([]Job, 0, limit)
	for _, idx := range order[:limit] {
		out = append(out, candidates[idx].job)
	}
	return out
}

// MinDistance returns the minimum distance between two jobs' candidate locations
// under the given profile's distance function, mirroring
// `get_distance_between_jobs` (src/models/problem/jobs.rs). Returns 0 if either job
// has no located place.
func MinDistance(a, b Job, distance func(x, y Location) float64) float64 {
	locsA := Locations(a)
	locsB := Locations(b)
	if len(locsA) == 0 || len(locsB) == 0 {
		return 0
	}
	best := math.Inf(1)
	ds := make([]float64, 0, len(locsA)*len(locsB))
	for _, x := range locsA {
		for _, y := range locsB {
			ds = append(ds, distance(x, y))
		}
	}
	best = floats.Min(ds)
	return best
}
