// Package problem assembles the immutable, shared problem description: fleet,
// job index, cost models, locks and the composed feature pipeline. It is the one
// place a concrete *goal.GoalContext may be named, since everything upstream
// (model, solution, goal, schedule) stays free of a dependency on it.
package problem

import (
	"fmt"

	"github.com/vrp-solver/vrp-solver/goal"
	"github.com/vrp-solver/vrp-solver/model"
)

// Problem is the fully-built, read-only input to a solver run. Every field is
// shared by reference across every concurrent search thread; nothing here is
// ever mutated after NewProblemBuilder.Build succeeds.
type Problem struct {
	Fleet     *model.Fleet
	Jobs      *model.Jobs
	Transport model.TransportCost
	Activity  model.ActivityCost
	Locks     []*model.Lock
	Goal      *goal.GoalContext
	Keys      *goal.StateKeyRegistry
	Extras    map[string]any
}

// ProblemBuilder incrementally assembles a Problem, validating cross-references
// (goal map names, lock job membership) only at Build time so partially
// configured builders can be passed around freely during construction.
type ProblemBuilder struct {
	fleet        *model.Fleet
	allJobs      []model.Job
	profiles     []model.Profile
	transport    model.TransportCost
	activity     model.ActivityCost
	locks        []*model.Lock
	features     []goal.Feature
	mainGoal     [][]string
	optimisation []string
	keys         *goal.StateKeyRegistry
	extras       map[string]any
}

// NewProblemBuilder starts a builder with the mandatory fleet and transport/
// activity cost models; activity defaults to model.DefaultActivityCost{} when
// nil.
func NewProblemBuilder(fleet *model.Fleet, transport model.TransportCost, activity model.ActivityCost) *ProblemBuilder {
	if activity == nil {
		activity = model.DefaultActivityCost{}
	}
	return &ProblemBuilder{
		fleet:     fleet,
		transport: transport,
		activity:  activity,
		keys:      goal.NewStateKeyRegistry(),
		extras:    make(map[string]any),
	}
}

// WithJobs sets the job set and the transport profiles the neighbour index
// should rank distances over.
func (b *ProblemBuilder) WithJobs(jobs []model.Job, profiles []model.Profile) *ProblemBuilder {
	b.allJobs = jobs
	b.profiles = profiles
	return b
}

// WithLocks appends locks to the problem.
func (b *ProblemBuilder) WithLocks(locks ...*model.Lock) *ProblemBuilder {
	b.locks = append(b.locks, locks...)
	return b
}

// WithFeatures appends features to the pipeline, in evaluation order.
func (b *ProblemBuilder) WithFeatures(features ...goal.Feature) *ProblemBuilder {
	b.features = append(b.features, features...)
	return b
}

// WithGoalMaps sets the main (lexicographic dominance groups) and optimisation
// (tie-breaker permutation) goal maps, by feature name.
func (b *ProblemBuilder) WithGoalMaps(mainGoal [][]string, optimisation []string) *ProblemBuilder {
	b.mainGoal = mainGoal
	b.optimisation = optimisation
	return b
}

// WithExtra stashes an auxiliary, profile- or feature-specific value under name,
// for lookup by anything holding the built Problem.
func (b *ProblemBuilder) WithExtra(name string, value any) *ProblemBuilder {
	b.extras[name] = value
	return b
}

// Keys exposes the builder's StateKeyRegistry so features can be constructed
// with their keys before being handed to WithFeatures.
func (b *ProblemBuilder) Keys() *goal.StateKeyRegistry { return b.keys }

// Build validates and assembles the Problem. Fails if a lock references a job
// outside the job set, or if a goal map references an unknown feature.
func (b *ProblemBuilder) Build() (*Problem, error) {
	jobIndex := model.NewJobs(b.allJobs, b.profiles, b.transport.DistanceApprox, firstLocation)

	known := make(map[model.Job]bool, len(b.allJobs))
	for _, j := range b.allJobs {
		known[j] = true
	}
	for _, lock := range b.locks {
		for _, j := range lock.JobsOf() {
			if !known[j] {
				return nil, fmt.Errorf("problem: lock references a job not present in the job set")
			}
		}
	}

	gc, err := goal.NewGoalContext(b.features, b.mainGoal, b.optimisation)
	if err != nil {
		return nil, err
	}

	return &Problem{
		Fleet:     b.fleet,
		Jobs:      jobIndex,
		Transport: b.transport,
		Activity:  b.activity,
		Locks:     b.locks,
		Goal:      gc,
		Keys:      b.keys,
		Extras:    b.extras,
	}, nil
}

// firstLocation adapts model.Locations (every candidate location a job offers)
// to the single representative location model.NewJobs wants for neighbour
// ranking: the first one, or "no location" for a job with none (e.g. an
// any-location break).
func firstLocation(job model.Job) (model.Location, bool) {
	locs := model.Locations(job)
	if len(locs) == 0 {
		return 0, false
	}
	return locs[0], true
}
