package population_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrp-solver/vrp-solver/goal/features"
	"github.com/vrp-solver/vrp-solver/insertion"
	"github.com/vrp-solver/vrp-solver/model"
	"github.com/vrp-solver/vrp-solver/model/modeltest"
	"github.com/vrp-solver/vrp-solver/population"
	"github.com/vrp-solver/vrp-solver/problem"
	"github.com/vrp-solver/vrp-solver/recreate"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/schedule"
	"github.com/vrp-solver/vrp-solver/solution"
)

func buildProblem(t *testing.T, jobs []model.Job) (*problem.Problem, schedule.Keys) {
	t.Helper()
	actor := modeltest.Actor(0, 0, 1000)
	fleet := model.NewFleet([]*model.Actor{actor})
	b := problem.NewProblemBuilder(fleet, modeltest.TestTransportCost{}, nil).
		WithJobs(jobs, []model.Profile{"car"})
	keys := schedule.NewKeys(b.Keys())
	b.WithFeatures(
		features.NewTransport(modeltest.TestTransportCost{}, model.DefaultActivityCost{}, keys),
		features.NewUnassigned(1000),
	).WithGoalMaps([][]string{{"unassigned"}, {"transport"}}, []string{"unassigned", "transport"})
	p, err := b.Build()
	require.NoError(t, err)
	return p, keys
}

// solved bundles a fully-committed solution with the schedule keys used to
// compute its route state, the pair weightVector needs to read it back.
type solved struct {
	ctx  *insertion.Context
	keys schedule.Keys
}

// solve builds a fully-committed solution over jobs at the given locations.
func solve(t *testing.T, locations ...model.Location) solved {
	t.Helper()
	jobs := make([]model.Job, len(locations))
	for i, loc := range locations {
		jobs[i] = modeltest.SingleJob(loc, 0, 0, 1000)
	}
	p, keys := buildProblem(t, jobs)
	sol := solution.NewContext(p.Fleet, p.Jobs.All())
	env := insertion.NewEnvironment(rng.NewPartitioned(3), nil, nil)
	ctx := insertion.NewContext(p, sol, env)
	recreate.NewOperator(recreate.All{}, recreate.Best{}, insertion.NewEvaluator(nil, nil)).Run(ctx)
	require.Empty(t, ctx.Solution.Required)
	return solved{ctx: ctx, keys: keys}
}

func individual(t *testing.T, s solved) *population.Individual {
	t.Helper()
	return population.NewIndividual(s.ctx.Problem.Goal, s.ctx.Solution)
}

func TestGreedy_AddKeepsOnlyTheBetterIndividual(t *testing.T) {
	worse := individual(t, solve(t, 10, 500))
	better := individual(t, solve(t, 10, 20))

	g := population.NewGreedy()
	improved := g.Add(worse)
	assert.True(t, improved, "first add into an empty population always improves")

	improved = g.Add(better)
	assert.True(t, improved)
	assert.Equal(t, 1, g.Len())
	assert.Same(t, better, g.Best())
}

func TestGreedy_AddRejectsAWorseIndividual(t *testing.T) {
	better := individual(t, solve(t, 10, 20))
	worse := individual(t, solve(t, 10, 500))

	g := population.NewGreedy()
	g.Add(better)
	improved := g.Add(worse)

	assert.False(t, improved)
	assert.Same(t, better, g.Best())
}

func TestElitism_SelectAlwaysReturnsBestFirst(t *testing.T) {
	e := population.NewElitism(4)
	best := individual(t, solve(t, 10, 20))
	e.Add(best)
	e.Add(individual(t, solve(t, 10, 500)))
	e.Add(individual(t, solve(t, 10, 11)))

	picked := e.Select(3, rand.New(rand.NewSource(1)))
	require.Len(t, picked, 3)
	assert.Equal(t, best.Fitness, picked[0].Fitness)
}

func TestElitism_AddTruncatesToMaxSize(t *testing.T) {
	e := population.NewElitism(2)
	e.Add(individual(t, solve(t, 10, 20)))
	e.Add(individual(t, solve(t, 10, 500)))
	e.Add(individual(t, solve(t, 10, 11)))

	assert.LessOrEqual(t, e.Len(), 2)
}

func TestRosomaxa_SelectFallsBackToEliteDuringInitialPhase(t *testing.T) {
	s := solve(t, 10, 20)
	r := population.NewRosomaxa(population.RosomaxaConfig{}, s.keys, s.ctx.Problem.Transport)
	best := individual(t, s)
	r.Add(best)

	picked := r.Select(2, rand.New(rand.NewSource(1)))
	require.NotEmpty(t, picked)
	assert.Equal(t, best.Fitness, picked[0].Fitness)
}

func TestRosomaxa_EntersExplorationAfterFourSeeds(t *testing.T) {
	base := solve(t, 10, 20)
	r := population.NewRosomaxa(population.RosomaxaConfig{NodeCount: 2}, base.keys, base.ctx.Problem.Transport)
	for i := 0; i < 4; i++ {
		r.Add(individual(t, solve(t, 10, model.Location(20+i*5))))
	}

	picked := r.Select(3, rand.New(rand.NewSource(1)))
	assert.NotEmpty(t, picked)
}

func TestRosomaxa_ObserveTerminationEntersExploitation(t *testing.T) {
	base := solve(t, 10, 20)
	r := population.NewRosomaxa(population.RosomaxaConfig{NodeCount: 2, ExplorationRatio: 0.5}, base.keys, base.ctx.Problem.Transport)
	for i := 0; i < 4; i++ {
		r.Add(individual(t, solve(t, 10, model.Location(20+i*5))))
	}
	r.ObserveTermination(0.9)

	picked := r.Select(1, rand.New(rand.NewSource(1)))
	require.NotEmpty(t, picked)
	assert.Equal(t, r.Best().Fitness, picked[0].Fitness)
}
