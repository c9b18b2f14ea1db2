package search

import (
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/population"
	"github.com/vrp-solver/vrp-solver/problem"
	"github.com/vrp-solver/vrp-solver/recreate"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/ruin"
	"github.com/vrp-solver/vrp-solver/solution"
	"github.com/vrp-solver/vrp-solver/telemetry"
)

// namedOperator is implemented by ruin/recreate operators that draw one of
// several sub-strategies per Run call (ruin.CompositeRuin, recreate.CompositeRecreate),
// letting telemetry report the strategy actually drawn rather than a generic
// "composite" label.
type namedOperator interface {
	LastSelected() string
}

// cloneableRuin and cloneableRecreate are implemented by operators that carry
// per-Run mutable state (ruin.CompositeRuin, recreate.CompositeRecreate track
// which sub-strategy they last drew) and so are not safe to share across
// concurrent search threads. runThread clones through these when present;
// stateless operators are shared as-is.
type cloneableRuin interface {
	Clone() ruin.Ruin
}

type cloneableRecreate interface {
	Clone() recreate.Recreate
}

// syncPopulation serialises access to a population.Population across search
// threads, the same mutex-guarded-accumulator shape the ambient stack this
// codebase is built from uses for any value goroutines share.
type syncPopulation struct {
	mu    sync.Mutex
	inner population.Population
}

func (p *syncPopulation) Add(individual *population.Individual) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Add(individual)
}

func (p *syncPopulation) Select(n int, r *rand.Rand) []*population.Individual {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Select(n, r)
}

func (p *syncPopulation) Best() *population.Individual {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Best()
}

func (p *syncPopulation) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Len()
}

// observeTermination forwards a termination estimate to inner, if inner is a
// Rosomaxa (or anything else that cares about the search's progress).
func (p *syncPopulation) observeTermination(estimate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if obs, ok := p.inner.(interface{ ObserveTermination(float64) }); ok {
		obs.ObserveTermination(estimate)
	}
}

// Runner drives the ruin-recreate search loop across one or more concurrent
// threads, each repeatedly selecting a parent, ruining and recreating a copy
// of it, and offering the result back to a shared population.
type Runner struct {
	Problem     *problem.Problem
	Ruin        ruin.Ruin
	Recreate    recreate.Recreate
	Evaluator   *insertion.Evaluator
	Termination Termination
	Metrics     *telemetry.Metrics
	Seed        rng.Seed
	Threads     int // 0 defaults to runtime.GOMAXPROCS(0)
	Log         *logrus.Logger

	pop        *syncPopulation
	generation atomic.Int64

	metricsMu sync.Mutex
}

// NewRunner builds a Runner. A nil metrics defaults to a non-logging
// telemetry.Metrics; Threads <= 0 defaults to runtime.GOMAXPROCS(0).
func NewRunner(p *problem.Problem, ruinOp ruin.Ruin, recreateOp recreate.Recreate, evaluator *insertion.Evaluator, pop population.Population, termination Termination, metrics *telemetry.Metrics, seed rng.Seed, threads int) *Runner {
	if metrics == nil {
		metrics = telemetry.NewMetrics(0, nil)
	}
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		Problem:     p,
		Ruin:        ruinOp,
		Recreate:    recreateOp,
		Evaluator:   evaluator,
		Termination: termination,
		Metrics:     metrics,
		Seed:        seed,
		Threads:     threads,
		pop:         &syncPopulation{inner: pop},
	}
}

// Run seeds the population with initial and drives the search loop until
// Termination is reached, returning the best individual found.
func (r *Runner) Run(initial *solution.Context) *population.Individual {
	r.pop.Add(population.NewIndividual(r.Problem.Goal, initial))

	var wg sync.WaitGroup
	for i := 0; i < r.Threads; i++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()
			r.runThread(thread)
		}(i)
	}
	wg.Wait()

	return r.pop.Best()
}

// runThread repeatedly selects a parent, ruins and recreates a copy of it,
// and offers the result back to the shared population, until Termination
// reports the search is done.
func (r *Runner) runThread(thread int) {
	master := rng.NewPartitioned(r.Seed).Fork("thread-" + strconv.Itoa(thread))
	env := insertion.NewEnvironment(master, nil, r.Log)
	popRNG := master.ForSubsystem(rng.SubsystemPopulation)

	// r.Ruin/r.Recreate may carry per-Run mutable state (which sub-strategy a
	// composite last drew); clone into a thread-local copy so concurrent
	// threads never share that state. Stateless operators pass through as-is.
	threadRuin := r.Ruin
	if c, ok := threadRuin.(cloneableRuin); ok {
		threadRuin = c.Clone()
	}
	threadRecreate := r.Recreate
	if c, ok := threadRecreate.(cloneableRecreate); ok {
		threadRecreate = c.Clone()
	}

	for {
		gen := r.generation.Load()
		if r.Termination.Reached(gen) {
			return
		}

		parents := r.pop.Select(1, popRNG)
		if len(parents) == 0 {
			return
		}
		parent := parents[0]

		childSol := parent.Solution.DeepCopy()
		childCtx := insertion.NewContext(r.Problem, childSol, env)

		threadRuin.Run(childCtx)
		threadRecreate.Run(childCtx)
		r.Problem.Goal.AcceptSolutionState(childCtx.Solution)

		child := population.NewIndividual(r.Problem.Goal, childCtx.Solution)
		improved := r.pop.Add(child)

		gen = r.generation.Add(1)
		r.recordGeneration(child, improved, threadRuin, threadRecreate)
		r.pop.observeTermination(r.Termination.Estimate(gen))
	}
}

// recordGeneration serialises Metrics updates, since telemetry.Metrics is not
// itself safe for concurrent writes. ruinOp/recreateOp are the calling
// thread's own (possibly cloned) operators, never r.Ruin/r.Recreate directly.
func (r *Runner) recordGeneration(child *population.Individual, improved bool, ruinOp ruin.Ruin, recreateOp recreate.Recreate) {
	r.metricsMu.Lock()
	defer r.metricsMu.Unlock()

	r.Metrics.RecordGeneration(r.Problem.Goal.Fitness(child.Solution), improved)
	if named, ok := ruinOp.(namedOperator); ok {
		r.Metrics.RecordRuin(named.LastSelected())
	}
	if named, ok := recreateOp.(namedOperator); ok {
		r.Metrics.RecordRecreate(named.LastSelected())
	}
}
