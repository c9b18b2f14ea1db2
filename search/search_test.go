package search_test

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
	"github.com/vrp-solver/vrp-solver/quota"
	"github.com/vrp-solver/vrp-solver/recreate"
	"github.com/vrp-solver/vrp-solver/rng"
	"github.com/vrp-solver/vrp-solver/ruin"
	"github.com/vrp-solver/vrp-solver/schedule"
	"github.com/vrp-solver/vrp-solver/search"
	"github.com/vrp-solver/vrp-solver/solution"
)

func buildProblem(t *testing.T, actors []*model.Actor, jobs []model.Job) *problem.Problem {
	t.Helper()
	fleet := model.NewFleet(actors)
	b := problem.NewProblemBuilder(fleet, modeltest.TestTransportCost{}, nil).
		WithJobs(jobs, []model.Profile{"car"})
	keys := schedule.NewKeys(b.Keys())
	b.WithFeatures(
		features.NewTransport(modeltest.TestTransportCost{}, model.DefaultActivityCost{}, keys),
		features.NewUnassigned(1000),
	).WithGoalMaps([][]string{{"unassigned"}, {"transport"}}, []string{"unassigned", "transport"})
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func solvedContext(t *testing.T, p *problem.Problem, seed rng.Seed) *insertion.Context {
	t.Helper()
	sol := solution.NewContext(p.Fleet, p.Jobs.All())
	env := insertion.NewEnvironment(rng.NewPartitioned(seed), nil, nil)
	ctx := insertion.NewContext(p, sol, env)
	recreate.NewOperator(recreate.All{}, recreate.Best{}, insertion.NewEvaluator(nil, nil)).Run(ctx)
	require.Empty(t, ctx.Solution.Required)
	return ctx
}

func TestRepair_PlacesEveryJobBackOnItsOwnRoute(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	jobs := []model.Job{
		modeltest.SingleJob(10, 0, 0, 1000),
		modeltest.SingleJob(20, 0, 0, 1000),
		modeltest.SingleJob(30, 0, 0, 1000),
	}
	p := buildProblem(t, []*model.Actor{actor}, jobs)
	solved := solvedContext(t, p, 1)

	repaired := search.Repair(p, insertion.NewEvaluator(nil, nil), solved.Environment, solved.Solution)

	assert.Empty(t, repaired.Solution.Required)
	require.Len(t, repaired.Solution.Routes, 1)
	assert.Equal(t, 3, repaired.Solution.Routes[0].Route().Tour.JobCount())
}

func TestRepair_DropsAMultiJobMissingASubSingle(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	multi := &model.Multi{
		Jobs: []*model.Single{
			modeltest.SingleJob(10, 0, 0, 1000),
			modeltest.SingleJob(20, 0, 0, 1000),
		},
		Dimensions: model.Dimensions{},
	}
	p := buildProblem(t, []*model.Actor{actor}, []model.Job{multi})
	solved := solvedContext(t, p, 2)

	// Tear one sub-single back off the route directly, simulating an
	// infeasible intermediate state repair must reconcile.
	routeCtx := solved.Solution.Routes[0]
	routeCtx.Route().Tour.RemoveJob(multi.Jobs[1])
	routeCtx.MarkStale(true)

	repaired := search.Repair(p, insertion.NewEvaluator(nil, nil), solved.Environment, solved.Solution)

	require.Len(t, repaired.Solution.Required, 1)
	assert.Same(t, multi, repaired.Solution.Required[0])
}

func TestTermination_ReachedOnGenerationCap(t *testing.T) {
	term := search.NewTermination(5, nil)
	assert.False(t, term.Reached(4))
	assert.True(t, term.Reached(5))
}

func TestTermination_ReachedOnQuota(t *testing.T) {
	cancellable := quota.NewCancellable()
	term := search.NewTermination(0, cancellable)
	assert.False(t, term.Reached(1000))

	cancellable.Cancel()
	assert.True(t, term.Reached(0))
}

func TestTermination_EstimateTracksGenerationFraction(t *testing.T) {
	term := search.NewTermination(10, nil)
	assert.InDelta(t, 0.5, term.Estimate(5), 1e-9)
	assert.InDelta(t, 1.0, term.Estimate(20), 1e-9)
}

func TestRunner_RunImprovesOrMatchesTheSeedSolution(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	jobs := []model.Job{
		modeltest.SingleJob(10, 0, 0, 1000),
		modeltest.SingleJob(500, 0, 0, 1000),
		modeltest.SingleJob(20, 0, 0, 1000),
	}
	p := buildProblem(t, []*model.Actor{actor}, jobs)
	seed := solvedContext(t, p, 3)
	seedFitness := p.Goal.Fitness(seed.Solution)

	evaluator := insertion.NewEvaluator(nil, nil)
	runner := search.NewRunner(
		p,
		ruin.RandomJob{Count: 1},
		recreate.NewOperator(recreate.All{}, recreate.Best{}, evaluator),
		evaluator,
		population.NewGreedy(),
		search.NewTermination(25, nil),
		nil,
		7,
		1,
	)

	best := runner.Run(seed.Solution)

	require.NotNil(t, best)
	assert.LessOrEqual(t, p.Goal.Fitness(best.Solution), seedFitness)
}

func TestInfeasibleSearch_SearchReturnsAFeasibleSolution(t *testing.T) {
	actor := modeltest.Actor(0, 0, 1000)
	jobs := []model.Job{
		modeltest.SingleJob(10, 0, 0, 1000),
		modeltest.SingleJob(20, 0, 0, 1000),
		modeltest.SingleJob(30, 0, 0, 1000),
	}
	p := buildProblem(t, []*model.Actor{actor}, jobs)
	seed := solvedContext(t, p, 4)
	evaluator := insertion.NewEvaluator(nil, nil)

	is := &search.InfeasibleSearch{
		Ruin:              ruin.RandomJob{Count: 1},
		Recreate:          recreate.NewOperator(recreate.All{}, recreate.Best{}, evaluator),
		RecoveryOperator:  recreate.NewOperator(recreate.All{}, recreate.Best{}, evaluator),
		Evaluator:         evaluator,
		MaxRepeatCount:    3,
		SkipProbabilityLo: 0.1,
		SkipProbabilityHi: 0.6,
	}

	result := is.Search(p, seed.Environment, seed.Solution, rand.New(rand.NewSource(9)))

	require.NotNil(t, result)
	assert.Empty(t, result.Required)
}
